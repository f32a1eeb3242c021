// genctl is a command line client for the genstudio API.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

const defaultServer = "http://localhost:8080"

func main() {
	_ = godotenv.Load()
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// errExit signals a non-zero exit after the command already reported the
// problem on stderr.
var errExit = errors.New("exit")

func run(args []string, stdout, stderr io.Writer) int {
	root := newRootCmd(stdout, stderr)
	if args == nil {
		args = []string{}
	}
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	if err := root.Execute(); err != nil {
		if !errors.Is(err, errExit) {
			fmt.Fprintf(stderr, "genctl: %v\n", err)
		}
		return 1
	}
	return 0
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "genctl",
		Short:         "Generate images and videos through a genstudio server",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	server := os.Getenv("GENSTUDIO_URL")
	if server == "" {
		server = defaultServer
	}
	root.PersistentFlags().String("server", server, "genstudio base URL (env GENSTUDIO_URL)")
	root.PersistentFlags().String("session", os.Getenv("GENSTUDIO_SESSION"), "session id sent as X-Session-ID")
	root.PersistentFlags().Bool("json", false, "print raw JSON responses")

	root.AddCommand(
		newImageCmd(stdout, stderr),
		newVideoCmd(stdout, stderr),
		newAnimateCmd(stdout, stderr),
		newHistoryCmd(stdout, stderr),
		newSettingsCmd(stdout),
	)
	return root
}

// clientFrom builds an API client from the persistent flags.
func clientFrom(cmd *cobra.Command) *apiClient {
	server, _ := cmd.Flags().GetString("server")
	session, _ := cmd.Flags().GetString("session")
	return newAPIClient(server, session, nil)
}

func jsonOutput(cmd *cobra.Command) bool {
	v, _ := cmd.Flags().GetBool("json")
	return v
}
