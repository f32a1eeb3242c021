package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

func newSettingsCmd(stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "settings",
		Short: "Print the server's default settings and accepted ranges",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			raw, err := clientFrom(cmd).doJSON(cmd.Context(), "GET", "/api/settings/defaults", nil, nil)
			if err != nil {
				return err
			}
			var pretty bytes.Buffer
			if err := json.Indent(&pretty, bytes.TrimSpace(raw), "", "  "); err != nil {
				return fmt.Errorf("format settings: %w", err)
			}
			_, err = fmt.Fprintln(stdout, pretty.String())
			return err
		},
	}
}
