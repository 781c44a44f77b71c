package model

import (
	"strconv"
	"strings"
)

type InfographicStep struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Icon    string `json:"icon"`
}

type InfographicData struct {
	MainTitle string            `json:"mainTitle"`
	Summary   string            `json:"summary"`
	Steps     []InfographicStep `json:"steps"`
}

func (d InfographicData) IsEmpty() bool {
	return strings.TrimSpace(d.MainTitle) == "" && strings.TrimSpace(d.Summary) == "" && len(d.Steps) == 0
}

// Markdown renders the infographic for the terminal markdown renderer.
func (d InfographicData) Markdown() string {
	if d.IsEmpty() {
		return ""
	}
	var b strings.Builder
	if d.MainTitle != "" {
		b.WriteString("# " + d.MainTitle + "\n\n")
	}
	if d.Summary != "" {
		b.WriteString("> " + d.Summary + "\n\n")
	}
	for i, s := range d.Steps {
		b.WriteString("## ")
		b.WriteString(strconv.Itoa(i + 1))
		b.WriteString(". ")
		b.WriteString(s.Title)
		if s.Icon != "" {
			b.WriteString(" `" + s.Icon + "`")
		}
		b.WriteString("\n\n")
		if s.Content != "" {
			b.WriteString(s.Content + "\n\n")
		}
	}
	return strings.TrimSpace(b.String())
}
