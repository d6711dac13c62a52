package intent

import (
	"regexp"
	"strings"

	"opsmith/pkg/types"
)

// patternGroup pairs an intent with the structural patterns and fallback
// keywords that select it. Groups are evaluated in order; the order encodes
// specificity, so path-anchored patterns always beat loose keyword hits.
type patternGroup struct {
	intent   types.Intent
	patterns []*regexp.Regexp
	keywords []string
}

// pathToken matches a file- or directory-looking token: slash-separated or
// dotted extensions.
const pathToken = `([\w./~-]+\.[\w]+|[\w./~-]+/[\w./~-]+)`

// Classifier maps one free-form request to exactly one intent. It is a pure
// function of the input string; no side effects, no configuration.
type Classifier struct {
	groups []patternGroup
}

// NewClassifier builds the classifier with its fixed pattern groups.
func NewClassifier() *Classifier {
	return &Classifier{
		groups: []patternGroup{
			{
				intent: types.IntentPlan,
				patterns: []*regexp.Regexp{
					regexp.MustCompile(`(?i)^\s*plan\b`),
					regexp.MustCompile(`(?i)\b(plan|outline|design)\s+(out\s+)?(the|a|an|how)\b`),
				},
				keywords: []string{"plan", "roadmap", "break down", "steps to"},
			},
			{
				intent: types.IntentMove,
				patterns: []*regexp.Regexp{
					regexp.MustCompile(`(?i)\b(move|rename)\s+` + pathToken + `\s+(to|into)\s+` + pathToken),
				},
				keywords: []string{"move ", "rename ", "relocate "},
			},
			{
				intent: types.IntentEdit,
				patterns: []*regexp.Regexp{
					regexp.MustCompile(`(?i)\b(edit|modify|update|change|fix)\s+(the\s+)?` + pathToken),
				},
				keywords: []string{"edit", "modify", "update", "change", "fix", "refactor", "adjust"},
			},
			{
				intent: types.IntentWrite,
				patterns: []*regexp.Regexp{
					regexp.MustCompile(`(?i)\b(create|write|make|generate|add)\s+(a\s+|an\s+|the\s+)?(new\s+)?` + pathToken),
					regexp.MustCompile(`(?i)\b(create|write|make|generate)\s+(a\s+|an\s+)?(new\s+)?\w+\s+file\b`),
				},
				keywords: []string{"create", "write", "make", "generate", "build", "add a", "new file"},
			},
			{
				intent:   types.IntentAsk,
				patterns: []*regexp.Regexp{regexp.MustCompile(`(?i)^\s*(what|why|how|when|where|who|explain|describe)\b`)},
				keywords: []string{"explain", "what is", "how does", "tell me", "describe", "?"},
			},
		},
	}
}

// Classify returns exactly one intent for the input. Structural patterns are
// tried across all groups first; only when none match does keyword scanning
// run, again in group order. Unmatched input defaults to ask.
func (c *Classifier) Classify(input string) types.Intent {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return types.IntentAsk
	}

	for _, g := range c.groups {
		for _, p := range g.patterns {
			if p.MatchString(trimmed) {
				return g.intent
			}
		}
	}

	lower := strings.ToLower(trimmed)
	for _, g := range c.groups {
		for _, kw := range g.keywords {
			if strings.Contains(lower, kw) {
				return g.intent
			}
		}
	}

	return types.IntentAsk
}
