package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

func newVideoCmd(stdout, stderr io.Writer) *cobra.Command {
	var (
		prompt      string
		duration    int
		orientation string
	)
	cmd := &cobra.Command{
		Use:   "video <image-url|file>",
		Short: "Animate a still image into a short clip",
		Long: `Animate a still image into a short clip.

The source is either an http(s) URL, a data URI or a local file, which is
uploaded. The command waits until the clip is ready and prints its URL.

Examples:
  genctl video https://example.com/cat.png --prompt "slow pan"
  genctl video ./cat.png --duration 10 --orientation portrait`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVideo(cmd, stdout, stderr, args[0], prompt, duration, orientation)
		},
	}
	cmd.Flags().StringVar(&prompt, "prompt", "", "motion prompt")
	cmd.Flags().IntVar(&duration, "duration", 5, "clip length in seconds (5 or 10)")
	cmd.Flags().StringVar(&orientation, "orientation", "landscape", "landscape or portrait")
	return cmd
}

func runVideo(cmd *cobra.Command, stdout, stderr io.Writer, source, prompt string, duration int, orientation string) error {
	client := clientFrom(cmd)
	var res struct {
		VideoURL string `json:"videoUrl"`
	}

	p := startProgress(stderr, "waiting for video")
	var (
		raw []byte
		err error
	)
	if info, statErr := os.Stat(source); statErr == nil && !info.IsDir() {
		data, readErr := os.ReadFile(source)
		if readErr != nil {
			p.Stop()
			return fmt.Errorf("read %s: %w", source, readErr)
		}
		raw, err = client.upload(cmd.Context(), "/api/img2vdo", source, data, map[string]string{
			"promptText":  prompt,
			"duration":    strconv.Itoa(duration),
			"orientation": orientation,
		}, &res)
	} else {
		raw, err = client.doJSON(cmd.Context(), "POST", "/api/img2vdo", map[string]any{
			"imageUrl":    source,
			"promptText":  prompt,
			"duration":    duration,
			"orientation": orientation,
		}, &res)
	}
	p.Stop()
	if err != nil {
		return err
	}
	if jsonOutput(cmd) {
		_, err := fmt.Fprintln(stdout, string(raw))
		return err
	}
	_, err = fmt.Fprintln(stdout, res.VideoURL)
	return err
}

func newAnimateCmd(stdout, stderr io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "animate <prompt>",
		Short: "Render a short clip from a text prompt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFrom(cmd)
			var res struct {
				VideoURL string `json:"video_url"`
			}
			p := startProgress(stderr, "rendering clip")
			raw, err := client.doJSON(cmd.Context(), "POST", "/api/replicate", map[string]string{"prompt": args[0]}, &res)
			p.Stop()
			if err != nil {
				return err
			}
			if jsonOutput(cmd) {
				_, err := fmt.Fprintln(stdout, string(raw))
				return err
			}
			_, err = fmt.Fprintln(stdout, res.VideoURL)
			return err
		},
	}
}
