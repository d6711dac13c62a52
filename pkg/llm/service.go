package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"opsmith/pkg/configuration"
	"opsmith/pkg/logging"
	"opsmith/pkg/router"
)

// Service wraps the backend client with profile resolution, telemetry, and
// the single model-not-found fallback substitution. All other backend errors
// propagate to the caller untouched; retries are caller policy.
type Service struct {
	client    Client
	cfg       *configuration.Config
	telemetry *router.Telemetry
	logger    *logging.Logger
}

// NewService wires the inference service to a client and the router's
// telemetry store.
func NewService(client Client, cfg *configuration.Config, telemetry *router.Telemetry, logger *logging.Logger) *Service {
	return &Service{client: client, cfg: cfg, telemetry: telemetry, logger: logger}
}

// Generate runs one inference call against the named profile. A
// "model not found" error triggers exactly one retry against the configured
// fallback profile before the error surfaces.
func (s *Service) Generate(ctx context.Context, prompt, profileName string) (string, error) {
	profile, ok := s.cfg.Profile(profileName)
	if !ok {
		return "", fmt.Errorf("unknown model profile %q", profileName)
	}

	text, err := s.call(ctx, prompt, profile)
	if err == nil {
		return text, nil
	}

	if isModelNotFound(err) {
		fallbackName := s.cfg.Routing.FallbackProfile
		if fallback, ok := s.cfg.Profile(fallbackName); ok && fallbackName != profileName {
			s.logger.Warn("model %s not found; retrying once with fallback profile %s", profile.Model, fallbackName)
			return s.call(ctx, prompt, fallback)
		}
	}
	return "", err
}

func (s *Service) call(ctx context.Context, prompt string, profile configuration.ModelProfile) (string, error) {
	start := time.Now()
	text, err := s.client.Infer(ctx, prompt, profile)
	if err != nil {
		s.telemetry.RecordFailure(profile.Name, err)
		return "", err
	}
	s.telemetry.RecordSuccess(profile.Name, time.Since(start))
	return text, nil
}

func isModelNotFound(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "model") &&
		(strings.Contains(msg, "not found") || strings.Contains(msg, "does not exist"))
}
