package compound

import (
	"fmt"
	"path"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"opsmith/pkg/intent"
	"opsmith/pkg/logging"
	"opsmith/pkg/types"
)

// Strategy decomposes one compound request into a list of operations. A
// strategy that does not apply to the input returns (nil, nil); a strategy
// that applies but cannot produce operations returns ErrNoDecomposition so
// the caller sees an explicit outcome instead of silently dropped clauses.
type Strategy interface {
	Name() string
	Decompose(input string, ctx *types.OperationContext) ([]types.Operation, error)
}

// ErrNoDecomposition reports that compound detection fired but no strategy
// produced operations. The parser records it as a warning and falls back to
// the single-intent path.
var ErrNoDecomposition = fmt.Errorf("compound request detected but no decomposition strategy applied")

var (
	// Explicit two-clause templates. These are the cheap, high-precision
	// detection path; the dual-verb scan below is the permissive one.
	compoundTemplates = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\bcreate\b.+\band\s+(modify|update|edit)\b`),
		regexp.MustCompile(`(?i)\bcreate\b.+,\s*then\s+(modify|update|edit)\b`),
		regexp.MustCompile(`(?i)\bcreate\b.+\band\s+(connect|link)\s+(it\s+)?to\b`),
	}

	creationVerbs     = []string{"create", "write", "make", "generate", "build", "add"}
	modificationVerbs = []string{"modify", "edit", "update", "change", "link", "connect", "fix"}

	folderPattern   = regexp.MustCompile(`(?i)\bin\s+(?:the\s+)?([\w./-]+)\s+(?:folder|directory|dir)\b`)
	pathTokenRegexp = regexp.MustCompile(`[\w./-]+\.[A-Za-z]\w*`)
	movePattern     = regexp.MustCompile(`(?i)\b(?:move|rename)\s+([\w./-]+)\s+(?:to|into)\s+([\w./-]+)`)
)

// Parser turns raw input into a CompoundIntent. Parsing never mutates the
// parser; one Parser may serve many requests.
type Parser struct {
	classifier *intent.Classifier
	strategies []Strategy
	logger     *logging.Logger
}

// NewParser creates a parser with the default strategy set.
func NewParser(logger *logging.Logger) *Parser {
	return &Parser{
		classifier: intent.NewClassifier(),
		strategies: []Strategy{&StylesheetLinkStrategy{}},
		logger:     logger,
	}
}

// AddStrategy appends a decomposition strategy. Strategies run in
// registration order; the first one producing operations wins.
func (p *Parser) AddStrategy(s Strategy) {
	p.strategies = append(p.strategies, s)
}

// Parse produces the CompoundIntent for one request. Classification runs
// before compound detection: a question never schedules side effects, even
// when it is phrased over a compound template ("how do I create X and link
// it to Y").
func (p *Parser) Parse(input string) types.CompoundIntent {
	ctx := extractContext(input)

	detected := p.classifier.Classify(input)
	if detected == types.IntentAsk {
		return types.CompoundIntent{
			IsCompound:    false,
			OriginalInput: input,
			Context:       ctx,
		}
	}

	if p.isCompound(input) {
		for _, s := range p.strategies {
			ops, err := s.Decompose(input, &ctx)
			if err != nil {
				ctx.Warnings = append(ctx.Warnings, fmt.Sprintf("strategy %s: %v", s.Name(), err))
				continue
			}
			if len(ops) > 1 {
				p.logger.Debug("compound parse: strategy %s produced %d operations", s.Name(), len(ops))
				return types.CompoundIntent{
					Operations:    ops,
					IsCompound:    true,
					OriginalInput: input,
					Context:       ctx,
				}
			}
		}
		// Detection fired but nothing decomposed: explicit fallback, not
		// silent data loss.
		ctx.Warnings = append(ctx.Warnings, ErrNoDecomposition.Error())
		p.logger.Warn("compound parse: %v (input: %q)", ErrNoDecomposition, input)
	}

	return p.singleIntent(input, detected, ctx)
}

// singleIntent builds the one-operation fallback for a non-question request.
func (p *Parser) singleIntent(input string, detected types.Intent, ctx types.OperationContext) types.CompoundIntent {
	result := types.CompoundIntent{
		IsCompound:    false,
		OriginalInput: input,
		Context:       ctx,
	}

	target := firstPathToken(input)
	if detected == types.IntentMove {
		if m := movePattern.FindStringSubmatch(input); m != nil {
			target = m[1] + " -> " + m[2]
		}
	}
	if target != "" && ctx.TargetFolder != "" && !strings.Contains(target, "/") && !strings.Contains(target, " -> ") {
		target = path.Join(ctx.TargetFolder, target)
	}
	result.Operations = []types.Operation{{
		ID:          uuid.NewString(),
		Intent:      detected,
		Target:      target,
		Description: input,
		Priority:    1,
	}}
	return result
}

// isCompound applies the template and dual-verb detection rules.
func (p *Parser) isCompound(input string) bool {
	for _, t := range compoundTemplates {
		if t.MatchString(input) {
			return true
		}
	}
	lower := strings.ToLower(input)
	return containsAny(lower, creationVerbs) && containsAny(lower, modificationVerbs)
}

// extractContext pulls folder, dominant verb, and link relationships out of
// the raw text. It runs regardless of whether decomposition succeeds.
func extractContext(input string) types.OperationContext {
	ctx := types.OperationContext{}
	if m := folderPattern.FindStringSubmatch(input); m != nil {
		ctx.TargetFolder = m[1]
	}

	lower := strings.ToLower(input)
	best, bestIdx := "", len(lower)
	for _, v := range append(append([]string{}, creationVerbs...), modificationVerbs...) {
		if idx := indexWord(lower, v); idx >= 0 && idx < bestIdx {
			best, bestIdx = v, idx
		}
	}
	ctx.DominantVerb = best
	return ctx
}

func containsAny(lower string, verbs []string) bool {
	for _, v := range verbs {
		if indexWord(lower, v) >= 0 {
			return true
		}
	}
	return false
}

// indexWord finds v as a whole word in lower, returning its index or -1.
func indexWord(lower, v string) int {
	idx := 0
	for {
		i := strings.Index(lower[idx:], v)
		if i < 0 {
			return -1
		}
		i += idx
		before := i == 0 || !isWordChar(lower[i-1])
		after := i+len(v) >= len(lower) || !isWordChar(lower[i+len(v)])
		if before && after {
			return i
		}
		idx = i + len(v)
	}
}

func isWordChar(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= '0' && b <= '9')
}

// firstPathToken returns the first file-looking token in the input, or "".
func firstPathToken(input string) string {
	return pathTokenRegexp.FindString(input)
}
