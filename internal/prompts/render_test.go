package prompts

import (
	"strings"
	"testing"
)

func TestRender(t *testing.T) {
	template := "Theme: {{theme}}\nGoal: {{primaryGoal}}\nMissing: {{notSet}}"
	got := Render(template, map[string]string{
		"theme":       "Summer Sale",
		"primaryGoal": "Awareness",
	})
	want := "Theme: Summer Sale\nGoal: Awareness\nMissing: "
	if got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestRenderLeavesNoPlaceholders(t *testing.T) {
	for _, template := range []string{CaptionUserPrompt, ReviewUserPrompt, DmpUserPrompt} {
		rendered := Render(template, map[string]string{})
		if strings.Contains(rendered, "{{") || strings.Contains(rendered, "}}") {
			t.Errorf("rendered template still contains placeholder markers:\n%s", rendered)
		}
	}
}

func TestStripMarkdown(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"**Bold** text #heading __em__", "Bold text heading em"},
		{"plain text", "plain text"},
		{"## Section\n**body**", "Section\nbody"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := StripMarkdown(tt.in); got != tt.want {
			t.Errorf("StripMarkdown(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDescribeEmojiPolicy(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"None", "Do NOT use emojis."},
		{"none", "Do NOT use emojis."},
		{"Light", "Use at most 1-2 emojis, placed at the end of the caption."},
		{"Medium", "Use 3-5 emojis, inline or at the end of the caption."},
		{"Heavy", "Use 5+ emojis frequently throughout the caption."},
		{"Only food emojis on Fridays", "Only food emojis on Fridays"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := DescribeEmojiPolicy(tt.in); got != tt.want {
			t.Errorf("DescribeEmojiPolicy(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
