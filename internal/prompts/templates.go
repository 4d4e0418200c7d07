package prompts

// Template constants for the three pipeline stages. These are process-wide
// immutable literals; substitution happens through Render with a flat
// key-value map. The labeled output sections named in the instructions are
// load-bearing: the fallback parsers in internal/parsing match on them.

// CaptionUserPrompt asks the writer agent for one caption. The model is
// asked for JSON first; the labeled-text format is the documented fallback
// when it ignores the response format request.
const CaptionUserPrompt = `Write one social media caption for the content plan below.

CONTENT PLAN
Theme: {{theme}}
Content type: {{contentType}}
Target audience: {{targetAudience}}
Primary goal: {{primaryGoal}}
Call to action: {{cta}}
Promo framing: {{promoFraming}}
Channels: {{channels}}
Cross promotion: {{crossPromotion}}
Brand highlight: {{brandHighlight}}

BRAND CONTEXT
{{brandPack}}

BRAND CAPABILITIES
{{brandCapability}}

EMOJI POLICY
{{emojiPolicy}}

RULES
- Pick exactly one framework: EDUCATIONAL, PSA, STORY, CHECKLIST, PROBLEM-SOLUTION, PROMO, or COMMUNITY.
- If a call to action is given above, use it VERBATIM. Do not rephrase it.
- Provide between 3 and 8 hashtags, each starting with #.
- Do not invent offers, prices, or claims not present in the plan or brand context.

Respond with a single JSON object:
{"framework": "...", "caption": "...", "cta": "...", "hashtags": ["#...", "#..."]}

If you cannot produce JSON, respond in exactly this labeled form:
FRAMEWORK: <framework>
Caption:
<caption text>
CTA: <call to action>
Hashtags: #one #two #three`

// ReviewUserPrompt asks the reviewer agent for a compliance and quality
// verdict plus finalized copy.
const ReviewUserPrompt = `Review the draft social media content below for brand compliance and quality.

DRAFT
Caption:
{{caption}}
CTA: {{cta}}
Hashtags: {{hashtags}}

CONTEXT
Channels: {{channels}}
Primary goal: {{primaryGoal}}

BRAND CONTEXT
{{brandPack}}

BRAND CAPABILITIES
{{brandCapability}}

EMOJI POLICY
{{emojiPolicy}}

TASK
- Decide APPROVED or NEEDS REVISION.
- List concrete review notes.
- Produce the finalized caption, CTA, and hashtags. Keep the CTA verbatim
  unless it violates brand policy. Keep 3 to 8 hashtags.

Respond with a single JSON object:
{"decision": "...", "reviewNotes": "...", "finalCaption": "...", "finalCTA": "...", "finalHashtags": "..."}

If you cannot produce JSON, respond in exactly this labeled form:
DECISION: <APPROVED or NEEDS REVISION>
NOTES:
<notes>
FINAL CAPTION:
<caption>
FINAL CTA:
<cta>
FINAL HASHTAGS:
<hashtags>`

// DmpSystemPrompt instructs the model to produce the structured image
// mega-prompt. The MEGAPROMPT/NEGATIVE two-block shape and the labeled
// section list are required by the mega-prompt parser.
const DmpSystemPrompt = `You are a senior visual designer writing a complete image generation brief ("mega-prompt") for a social media design.

MANDATES
- Reserve an EMPTY logo zone. No text, objects, or texture may occupy it.
- Never include the brand name in the image unless the instructions below explicitly ask for it.
- If a CTA is provided, render its text VERBATIM. Do not paraphrase CTA copy.
- Describe the design with these labeled sections, in this order:
  CANVAS, GRID, LAYOUT, TEXT, SCENE, COLORS, TYPE, CTA, LOGO ZONE, READABILITY, RENDER, QC
- Keep all on-image text short and legible at feed size.

OUTPUT FORMAT (exactly two blocks)
MEGAPROMPT:
<the full brief with the labeled sections above>
NEGATIVE:
<comma-separated exclusions: artifacts, extra limbs, watermarks, misspelled text, clutter in the logo zone, and anything else to suppress>`

// DmpUserPrompt carries the brand's visual instruction plus the finalized
// copy into the mega-prompt request.
const DmpUserPrompt = `BRAND VISUAL INSTRUCTIONS
{{imageInstruction}}

CONTENT
Caption:
{{caption}}
CTA: {{cta}}

{{extraInstructions}}`
