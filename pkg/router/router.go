package router

import (
	"fmt"
	"strings"

	"opsmith/pkg/configuration"
	"opsmith/pkg/logging"
	"opsmith/pkg/types"
)

// Request is one classification query.
type Request struct {
	Text       string
	Extension  string // optional file-extension hint, with or without dot
	Override   string // explicit user profile choice; always wins
	IsCompound bool
}

// Router picks a backend model profile for a piece of text. One Router is
// constructed per CLI invocation and passed down; classification itself is a
// pure function of text and configuration, telemetry is the only mutable
// state.
type Router struct {
	cfg       *configuration.Config
	weights   Weights
	telemetry *Telemetry
	logger    *logging.Logger
}

// NewRouter builds a router from the loaded configuration. Per-extension
// categories from the routing policy extend the default weight table.
func NewRouter(cfg *configuration.Config, logger *logging.Logger) *Router {
	w := DefaultWeights()
	for ext, cat := range cfg.Routing.ExtensionCategories {
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		w.ExtensionCategories[strings.ToLower(ext)] = types.Category(cat)
	}
	return &Router{
		cfg:       cfg,
		weights:   w,
		telemetry: NewTelemetry(),
		logger:    logger,
	}
}

// Telemetry exposes the router's per-profile counters.
func (r *Router) Telemetry() *Telemetry { return r.telemetry }

// Classify returns the profile that should service the request.
func (r *Router) Classify(req Request) types.ClassificationResult {
	// 1. An explicit user override always wins.
	if req.Override != "" {
		return types.ClassificationResult{
			Type:           r.categoryForProfile(req.Override),
			Confidence:     1.0,
			SuggestedModel: r.resolveProfile(req.Override),
			Reasoning:      fmt.Sprintf("user override: %s", req.Override),
		}
	}

	defaultProfile := r.cfg.EffectiveDefaultProfile()

	if !r.cfg.Routing.AutoDetect {
		return types.ClassificationResult{
			Type:           types.CategoryMixed,
			Confidence:     0.5,
			SuggestedModel: r.resolveProfile(defaultProfile),
			Reasoning:      "auto-detect disabled; using default profile",
		}
	}

	// Per-extension user preference beats scoring but not an override.
	if req.Extension != "" {
		ext := strings.ToLower(req.Extension)
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		if profile, ok := r.cfg.Overrides.ExtensionProfiles[ext]; ok {
			return types.ClassificationResult{
				Type:           r.categoryForProfile(profile),
				Confidence:     1.0,
				SuggestedModel: r.resolveProfile(profile),
				Reasoning:      fmt.Sprintf("extension preference for %s: %s", ext, profile),
			}
		}
	}

	scores := Score(req.Text, req.Extension, r.weights)
	deep := RequiresDeepReasoning(req.Text, r.weights)

	// 2. Compound requests that need deep reasoning are forced to analysis
	// when the policy says so.
	if req.IsCompound && deep && r.cfg.Routing.ForceAnalysisForCompound {
		return types.ClassificationResult{
			Type:           types.CategoryCompound,
			Confidence:     confidence(scores),
			SuggestedModel: r.resolveProfile(r.profileForCategory(types.CategoryAnalysis, defaultProfile)),
			Reasoning:      "compound request requiring deep reasoning; forced to analysis profile",
		}
	}

	// 4. Zero signal: default profile with neutral confidence.
	if scores.Total() == 0 {
		return types.ClassificationResult{
			Type:           types.CategoryMixed,
			Confidence:     0.5,
			SuggestedModel: r.resolveProfile(defaultProfile),
			Reasoning:      "no indicators matched; using default profile",
		}
	}

	// 3. Highest accumulated score wins; ties break compound > creative >
	// code > analysis.
	category, max := scores.Max()
	conf := confidence(scores)
	profile := r.profileForCategory(category, defaultProfile)
	reasoning := fmt.Sprintf("%s scored %.1f of %.1f total", category, max, scores.Total())

	// Don't trust weak signals: below the threshold the default profile
	// wins regardless of category.
	if conf < r.cfg.Routing.ConfidenceThreshold {
		profile = defaultProfile
		reasoning += fmt.Sprintf("; confidence %.2f below threshold %.2f, using default profile",
			conf, r.cfg.Routing.ConfidenceThreshold)
	}

	return types.ClassificationResult{
		Type:           category,
		Confidence:     conf,
		SuggestedModel: r.resolveProfile(profile),
		Reasoning:      reasoning,
	}
}

// confidence is max score over total, or neutral when nothing matched.
func confidence(scores CategoryScores) float64 {
	total := scores.Total()
	if total == 0 {
		return 0.5
	}
	_, max := scores.Max()
	return max / total
}

// profileForCategory maps a category to a profile: an exact name match first,
// then any profile declaring the category in its use cases, then the default.
func (r *Router) profileForCategory(cat types.Category, defaultProfile string) string {
	if _, ok := r.cfg.Profile(string(cat)); ok {
		return string(cat)
	}
	for name, p := range r.cfg.Profiles {
		for _, uc := range p.UseCases {
			if uc == string(cat) {
				return name
			}
		}
	}
	return defaultProfile
}

// categoryForProfile is the reverse mapping, for reporting only.
func (r *Router) categoryForProfile(profile string) types.Category {
	switch profile {
	case "code", "analysis", "creative":
		return types.Category(profile)
	}
	return types.CategoryMixed
}

// resolveProfile applies the one-level unavailable → fallback substitution.
func (r *Router) resolveProfile(name string) string {
	if r.telemetry.Health(name) == HealthUnavailable {
		fallback := r.cfg.Routing.FallbackProfile
		if fallback != "" && fallback != name {
			r.logger.Warn("profile %s unavailable; substituting %s", name, fallback)
			return fallback
		}
	}
	return name
}
