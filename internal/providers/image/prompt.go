package image

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var styleDirections = map[string]string{
	"photorealistic": "photorealistic, natural lighting, sharp focus, high detail",
	"anime":          "anime illustration, clean line art, vibrant cel shading",
	"digital-art":    "digital painting, rich colours, concept art quality",
	"oil-painting":   "oil painting on canvas, visible brush strokes, classical composition",
	"3d-render":      "3d render, global illumination, physically based materials",
	"pixel-art":      "pixel art, limited palette, crisp retro sprites",
}

// StyleLabel renders a style id such as "oil-painting" as "Oil Painting".
func StyleLabel(style string) string {
	words := strings.FieldsFunc(strings.ToLower(style), func(r rune) bool { return r == '-' || r == '_' || r == ' ' })
	if len(words) == 0 {
		return ""
	}
	caser := cases.Title(language.English)
	for i, w := range words {
		if w[0] >= '0' && w[0] <= '9' {
			words[i] = strings.ToUpper(w)
			continue
		}
		words[i] = caser.String(w)
	}
	return strings.Join(words, " ")
}

// EnhancePrompt appends the visual direction of style to prompt. Unknown
// styles fall back to their label.
func EnhancePrompt(prompt, style string) string {
	prompt = strings.TrimSpace(prompt)
	style = strings.ToLower(strings.TrimSpace(style))
	if prompt == "" || style == "" {
		return prompt
	}
	direction, ok := styleDirections[style]
	if !ok {
		direction = strings.ToLower(StyleLabel(style)) + " style"
	}
	return fmt.Sprintf("%s, %s, %s style", strings.TrimRight(prompt, " ,."), direction, StyleLabel(style))
}
