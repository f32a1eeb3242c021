package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"genstudio/pkg/datauri"
)

type imageSettings struct {
	Width         int     `json:"width,omitempty"`
	Height        int     `json:"height,omitempty"`
	Steps         int     `json:"steps,omitempty"`
	Guidance      float64 `json:"guidance,omitempty"`
	Seed          *int    `json:"seed,omitempty"`
	EnhancePrompt *bool   `json:"enhancePrompt,omitempty"`
	Model         string  `json:"model,omitempty"`
	Style         string  `json:"style,omitempty"`
}

type imageResult struct {
	ID        string `json:"id"`
	Image     string `json:"image"`
	Prompt    string `json:"prompt"`
	CreatedAt string `json:"created_at"`
}

func newImageCmd(stdout, stderr io.Writer) *cobra.Command {
	var (
		settings imageSettings
		seed     int
		plain    bool
		output   string
	)
	cmd := &cobra.Command{
		Use:   "image <prompt>",
		Short: "Generate one image from a text prompt",
		Long: `Generate one image from a text prompt.

Unset settings take the server defaults. The image is written to --output,
or to <id>.<ext> in the current directory.

Examples:
  genctl image "a lighthouse at dawn" --style oil-painting
  genctl image "a red fox" --width 768 --seed 42 -o fox.png`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("seed") {
				settings.Seed = &seed
			}
			if plain {
				off := false
				settings.EnhancePrompt = &off
			}
			return runImage(cmd, stdout, stderr, args[0], settings, output)
		},
	}
	cmd.Flags().IntVar(&settings.Width, "width", 0, "image width (256-1024, step 64)")
	cmd.Flags().IntVar(&settings.Height, "height", 0, "image height (256-1024, step 64)")
	cmd.Flags().IntVar(&settings.Steps, "steps", 0, "inference steps (10-50)")
	cmd.Flags().Float64Var(&settings.Guidance, "guidance", 0, "guidance scale (1-20, step 0.5)")
	cmd.Flags().IntVar(&seed, "seed", -1, "seed, -1 for random")
	cmd.Flags().StringVar(&settings.Model, "model", "", "model id")
	cmd.Flags().StringVar(&settings.Style, "style", "", "style id")
	cmd.Flags().BoolVar(&plain, "no-enhance", false, "send the prompt without style enhancement")
	cmd.Flags().StringVarP(&output, "output", "o", "", "file to write the image to")
	return cmd
}

func runImage(cmd *cobra.Command, stdout, stderr io.Writer, prompt string, settings imageSettings, output string) error {
	client := clientFrom(cmd)
	p := startProgress(stderr, "generating image")
	var res imageResult
	raw, err := client.doJSON(cmd.Context(), "POST", "/api/images", map[string]any{"prompt": prompt, "settings": settings}, &res)
	p.Stop()
	if err != nil {
		return err
	}
	if jsonOutput(cmd) {
		_, err := fmt.Fprintln(stdout, string(raw))
		return err
	}

	mimeType, data, err := datauri.Decode(res.Image)
	if err != nil {
		return fmt.Errorf("decode image: %w", err)
	}
	if output == "" {
		output = res.ID + datauri.Extension(mimeType)
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("write image: %w", err)
	}
	fmt.Fprintf(stdout, "%s\t%s\n", res.ID, output)
	return nil
}
