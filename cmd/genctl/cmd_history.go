package main

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

type historyItem struct {
	ID        string `json:"id"`
	Kind      string `json:"kind"`
	URL       string `json:"url"`
	Prompt    string `json:"prompt"`
	CreatedAt string `json:"created_at"`
}

func newHistoryCmd(stdout, stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect and manage generation history",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:     "list",
			Aliases: []string{"ls"},
			Short:   "List history entries, newest first",
			Args:    cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runHistoryList(cmd, stdout)
			},
		},
		&cobra.Command{
			Use:   "show <id>",
			Short: "Show one history entry",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runHistoryShow(cmd, stdout, args[0])
			},
		},
		&cobra.Command{
			Use:     "delete <id>",
			Aliases: []string{"rm"},
			Short:   "Delete one history entry",
			Args:    cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				_, err := clientFrom(cmd).doJSON(cmd.Context(), "DELETE", "/api/history/"+url.PathEscape(args[0]), nil, nil)
				return err
			},
		},
		newHistoryClearCmd(stderr),
		newHistoryDownloadCmd(stdout),
		newHistoryExportCmd(stdout),
	)
	return cmd
}

func runHistoryList(cmd *cobra.Command, stdout io.Writer) error {
	var res struct {
		Items []historyItem `json:"items"`
	}
	raw, err := clientFrom(cmd).doJSON(cmd.Context(), "GET", "/api/history", nil, &res)
	if err != nil {
		return err
	}
	if jsonOutput(cmd) {
		_, err := fmt.Fprintln(stdout, string(raw))
		return err
	}
	if len(res.Items) == 0 {
		fmt.Fprintln(stdout, "no history")
		return nil
	}
	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tKIND\tCREATED\tPROMPT")
	for _, it := range res.Items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", it.ID, it.Kind, it.CreatedAt, truncate(it.Prompt, 60))
	}
	return tw.Flush()
}

func runHistoryShow(cmd *cobra.Command, stdout io.Writer, id string) error {
	var it historyItem
	raw, err := clientFrom(cmd).doJSON(cmd.Context(), "GET", "/api/history/"+url.PathEscape(id), nil, &it)
	if err != nil {
		return err
	}
	if jsonOutput(cmd) {
		_, err := fmt.Fprintln(stdout, string(raw))
		return err
	}
	location := it.URL
	if strings.HasPrefix(location, "data:") {
		location = "(inline image, use history download)"
	}
	fmt.Fprintf(stdout, "ID:       %s\nKind:     %s\nCreated:  %s\nPrompt:   %s\nLocation: %s\n",
		it.ID, it.Kind, it.CreatedAt, it.Prompt, location)
	return nil
}

func newHistoryClearCmd(stderr io.Writer) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every history entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				fmt.Fprintln(stderr, "genctl: refusing to clear history without --yes")
				return errExit
			}
			_, err := clientFrom(cmd).doJSON(cmd.Context(), "DELETE", "/api/history", nil, nil)
			return err
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm clearing all history")
	return cmd
}

func newHistoryDownloadCmd(stdout io.Writer) *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "download <id>",
		Short: "Save a history entry to disk",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, name, err := clientFrom(cmd).download(cmd.Context(), "/api/history/"+url.PathEscape(args[0])+"/download")
			if err != nil {
				return err
			}
			if name == "" || name == "." {
				name = args[0]
			}
			return writeOutput(stdout, filepath.Join(dir, name), data)
		},
	}
	cmd.Flags().StringVarP(&dir, "dir", "d", ".", "directory to write into")
	return cmd
}

func newHistoryExportCmd(stdout io.Writer) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Download every image entry as one zip archive",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, name, err := clientFrom(cmd).download(cmd.Context(), "/api/history/export")
			if err != nil {
				return err
			}
			if output == "" {
				output = name
			}
			if output == "" {
				output = "history.zip"
			}
			return writeOutput(stdout, output, data)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "archive path")
	return cmd
}

func writeOutput(stdout io.Writer, path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	_, err := fmt.Fprintf(stdout, "%s (%d bytes)\n", path, len(data))
	return err
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
