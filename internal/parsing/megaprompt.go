package parsing

import (
	"regexp"
	"strings"
)

// MegaPrompt is the two-part image generation document produced by the
// DMP stage: the positive brief and the negative exclusions block.
type MegaPrompt struct {
	MegaPrompt string
	Negative   string
}

var megaPromptRe = regexp.MustCompile(`(?is)MEGAPROMPT\s*:\s*(.*?)\s*NEGATIVE\s*:\s*(.*)$`)

// ParseMegaPrompt extracts the MEGAPROMPT and NEGATIVE blocks from a
// stored DMP document. Both labels must be present and the MEGAPROMPT
// block must be non-empty; the NEGATIVE block may be blank.
func ParseMegaPrompt(raw string) (*MegaPrompt, error) {
	match := megaPromptRe.FindStringSubmatch(raw)
	if match == nil {
		return nil, &ParseError{Stage: "megaprompt", Reason: "missing MEGAPROMPT/NEGATIVE blocks", Raw: raw}
	}

	mega := strings.TrimSpace(match[1])
	if mega == "" {
		return nil, &ParseError{Stage: "megaprompt", Reason: "empty MEGAPROMPT block", Raw: raw}
	}

	return &MegaPrompt{
		MegaPrompt: mega,
		Negative:   strings.TrimSpace(match[2]),
	}, nil
}

// FlatPrompt joins the two blocks into the single prompt string image
// providers receive.
func (m *MegaPrompt) FlatPrompt() string {
	if m.Negative == "" {
		return m.MegaPrompt
	}
	return m.MegaPrompt + "\n\nNEGATIVE: " + m.Negative
}
