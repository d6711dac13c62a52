package router

import (
	"strings"

	"opsmith/pkg/types"
)

// Indicator is one weighted vocabulary entry. Specific multi-word phrases
// carry a higher weight than generic single keywords.
type Indicator struct {
	Phrase string
	Weight float64
}

// Weights is the full scoring table. It is passed explicitly so the heuristic
// is swappable and testable in isolation; nothing in this package holds
// mutable global state.
type Weights struct {
	Creative       []Indicator
	Code           []Indicator
	Analysis       []Indicator
	CompoundSignal []Indicator

	// ExtensionBonus is added to exactly one category per known extension.
	ExtensionBonus float64
	// ExtensionCategories maps ".ext" to the category receiving the bonus.
	ExtensionCategories map[string]types.Category

	// Complexity derivation knobs.
	LengthDivisor         int
	ComplexityCap         float64
	DeepReasoningCutoff   float64
	ReasoningHeavyPhrases []string
}

// CategoryScores holds the accumulated score per category for one text.
type CategoryScores struct {
	Creative float64
	Code     float64
	Analysis float64
	Compound float64
}

// Total sums all category scores.
func (s CategoryScores) Total() float64 {
	return s.Creative + s.Code + s.Analysis + s.Compound
}

// Max returns the winning category and its score. Ties break by intent
// specificity: compound > creative > code > analysis.
func (s CategoryScores) Max() (types.Category, float64) {
	best, bestScore := types.CategoryCompound, s.Compound
	for _, c := range []struct {
		cat   types.Category
		score float64
	}{
		{types.CategoryCreative, s.Creative},
		{types.CategoryCode, s.Code},
		{types.CategoryAnalysis, s.Analysis},
	} {
		if c.score > bestScore {
			best, bestScore = c.cat, c.score
		}
	}
	return best, bestScore
}

// DefaultWeights returns the hand-tuned scoring table.
func DefaultWeights() Weights {
	return Weights{
		Creative: []Indicator{
			{"story", 1}, {"poem", 1}, {"blog post", 2}, {"essay", 1},
			{"write an article", 2}, {"creative", 1}, {"narrative", 1},
			{"landing page copy", 2}, {"marketing copy", 2}, {"tagline", 1},
		},
		Code: []Indicator{
			{"function", 1}, {"class", 1}, {"implement", 1}, {"refactor", 1},
			{"bug", 1}, {"compile", 1}, {"unit test", 2}, {"api endpoint", 2},
			{"stylesheet", 1}, {"css", 1}, {"html", 1}, {"script", 1},
			{"fix the build", 2}, {"type error", 2}, {"variable", 1},
		},
		Analysis: []Indicator{
			{"explain", 1}, {"analyze", 1}, {"compare", 1}, {"summarize", 1},
			{"how does", 2}, {"why does", 2}, {"architecture", 1},
			{"trade-off", 2}, {"tradeoff", 2}, {"review", 1}, {"evaluate", 1},
			{"caching layer", 2}, {"performance", 1},
		},
		CompoundSignal: []Indicator{
			{"and then", 2}, {"after that", 2}, {"first", 1}, {"then", 1},
			{"and modify", 2}, {"and update", 2}, {"and connect", 2},
			{"multiple files", 2},
		},
		ExtensionBonus: 2,
		ExtensionCategories: map[string]types.Category{
			".go":   types.CategoryCode,
			".py":   types.CategoryCode,
			".js":   types.CategoryCode,
			".ts":   types.CategoryCode,
			".css":  types.CategoryCode,
			".html": types.CategoryCode,
			".json": types.CategoryCode,
			".yaml": types.CategoryCode,
			".md":   types.CategoryAnalysis,
			".txt":  types.CategoryCreative,
		},
		LengthDivisor:       80,
		ComplexityCap:       3,
		DeepReasoningCutoff: 5,
		ReasoningHeavyPhrases: []string{
			"refactor", "migrate", "redesign", "architecture", "debug",
			"optimize", "root cause",
		},
	}
}

// Score accumulates weighted indicator hits per category for the given text
// and optional file extension. It is a pure function of its inputs.
func Score(text, extension string, w Weights) CategoryScores {
	lower := strings.ToLower(text)
	scores := CategoryScores{
		Creative: scan(lower, w.Creative),
		Code:     scan(lower, w.Code),
		Analysis: scan(lower, w.Analysis),
		Compound: scan(lower, w.CompoundSignal),
	}

	if extension != "" {
		if !strings.HasPrefix(extension, ".") {
			extension = "." + extension
		}
		switch w.ExtensionCategories[strings.ToLower(extension)] {
		case types.CategoryCode:
			scores.Code += w.ExtensionBonus
		case types.CategoryAnalysis:
			scores.Analysis += w.ExtensionBonus
		case types.CategoryCreative:
			scores.Creative += w.ExtensionBonus
		case types.CategoryCompound:
			scores.Compound += w.ExtensionBonus
		}
	}
	return scores
}

func scan(lower string, indicators []Indicator) float64 {
	var total float64
	for _, ind := range indicators {
		if strings.Contains(lower, ind.Phrase) {
			total += ind.Weight
		}
	}
	return total
}

var (
	actionVerbs = []string{
		"create", "write", "edit", "modify", "update", "move", "delete",
		"build", "generate", "fix", "refactor", "implement", "add",
	}
	structuralNouns = []string{
		"file", "folder", "function", "module", "class", "component",
		"endpoint", "schema", "database", "service", "test",
	}
	conjunctions = []string{" and ", " then ", " also ", " plus ", " as well as "}
)

// Complexity derives a capped, weighted complexity score from text length,
// distinct action verbs, structural nouns, and conjunctions.
func Complexity(text string, w Weights) float64 {
	lower := strings.ToLower(text)

	length := float64(len(text) / w.LengthDivisor)
	verbs := float64(countDistinct(lower, actionVerbs))
	nouns := float64(countDistinct(lower, structuralNouns))
	conj := float64(countDistinct(lower, conjunctions))

	return capAt(length, w.ComplexityCap) +
		capAt(verbs, w.ComplexityCap)*1.5 +
		capAt(nouns, w.ComplexityCap) +
		capAt(conj, w.ComplexityCap)*1.5
}

// RequiresDeepReasoning reports whether the text needs a reasoning-heavy
// profile: either complexity crosses the cutoff or the text names an
// operation flagged as reasoning-heavy.
func RequiresDeepReasoning(text string, w Weights) bool {
	if Complexity(text, w) >= w.DeepReasoningCutoff {
		return true
	}
	lower := strings.ToLower(text)
	for _, p := range w.ReasoningHeavyPhrases {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

func countDistinct(lower string, terms []string) int {
	n := 0
	for _, t := range terms {
		if strings.Contains(lower, t) {
			n++
		}
	}
	return n
}

func capAt(v, max float64) float64 {
	if v > max {
		return max
	}
	return v
}
