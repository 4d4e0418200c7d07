package prompts

import (
	"regexp"
	"strings"
)

var placeholderRe = regexp.MustCompile(`\{\{([^{}]+)\}\}`)

// Render replaces {{key}} placeholders in a template with values from
// vars. Every placeholder is replaced; missing keys render as the empty
// string so no template markers ever reach a provider.
func Render(template string, vars map[string]string) string {
	if template == "" {
		return ""
	}
	return placeholderRe.ReplaceAllStringFunc(template, func(match string) string {
		key := strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(match, "{{"), "}}"))
		return vars[key]
	})
}

var multiSpaceRe = regexp.MustCompile(`[ \t]{2,}`)

// StripMarkdown removes markdown emphasis markers from a prompt. Imagen
// renders **, __ and # literally as visual artifacts, so prompts must be
// flattened to plain text before that provider sees them.
func StripMarkdown(s string) string {
	s = strings.ReplaceAll(s, "**", "")
	s = strings.ReplaceAll(s, "__", "")
	s = strings.ReplaceAll(s, "#", "")
	s = multiSpaceRe.ReplaceAllString(s, " ")

	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], " \t")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// DescribeEmojiPolicy expands a brand's stored emoji rule into the
// natural-language instruction the reviewer prompt carries. Unrecognized
// values pass through verbatim so custom brand policies still apply.
func DescribeEmojiPolicy(rule string) string {
	switch strings.ToLower(strings.TrimSpace(rule)) {
	case "":
		return ""
	case "none":
		return "Do NOT use emojis."
	case "light":
		return "Use at most 1-2 emojis, placed at the end of the caption."
	case "medium":
		return "Use 3-5 emojis, inline or at the end of the caption."
	case "heavy":
		return "Use 5+ emojis frequently throughout the caption."
	}
	return rule
}
