package pipeline

import (
	"context"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/brand-cli/internal/model"
	"github.com/sells-group/brand-cli/internal/resilience"
)

// DefaultModelTimeout bounds a single language-model call.
const DefaultModelTimeout = 60 * time.Second

// Synthesizer writes profile copy with a language model and falls back to
// BuildHeuristicProfile whenever the model is missing or its reply is
// unusable.
type Synthesizer struct {
	model       LanguageModel
	breaker     *resilience.Breaker
	timeout     time.Duration
	recoverName bool
}

// SynthOption configures a Synthesizer.
type SynthOption func(*Synthesizer)

// WithBreaker guards model calls with a circuit breaker.
func WithBreaker(b *resilience.Breaker) SynthOption {
	return func(s *Synthesizer) { s.breaker = b }
}

// WithModelTimeout sets the per-call timeout.
func WithModelTimeout(d time.Duration) SynthOption {
	return func(s *Synthesizer) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithNameRecovery toggles filling an empty company_name from a
// "Careers at X" hero title.
func WithNameRecovery(enabled bool) SynthOption {
	return func(s *Synthesizer) { s.recoverName = enabled }
}

// NewSynthesizer creates a Synthesizer. A nil model means heuristic only.
func NewSynthesizer(m LanguageModel, opts ...SynthOption) *Synthesizer {
	s := &Synthesizer{model: m, timeout: DefaultModelTimeout, recoverName: true}
	for _, o := range opts {
		o(s)
	}
	return s
}

// ModelName returns the configured provider, or "none".
func (s *Synthesizer) ModelName() string {
	if s == nil || s.model == nil {
		return "none"
	}
	return s.model.Name()
}

// Refine builds the complete profile. It never fails; fallbacks are reported
// as degraded outcomes.
func (s *Synthesizer) Refine(ctx context.Context, log *Log, raw *model.RawMetadata, palette model.Palette, bestImage, sourceURL string) Outcome[model.CompanyInfo] {
	if raw == nil {
		raw = &model.RawMetadata{}
	}
	heuristic := func(reason string) Outcome[model.CompanyInfo] {
		log.Add("synthesize", "using heuristic profile", map[string]any{"reason": reason})
		return Degraded(EnsureCompleteProfile(BuildHeuristicProfile(raw, palette, bestImage)), reason)
	}

	if s == nil || s.model == nil {
		return heuristic("no language model configured")
	}

	provider := s.model.Name()
	prompt := BuildPrompt(raw, sourceURL)
	log.Add("synthesize", "requesting profile copy", map[string]any{"provider": provider, "prompt_chars": len(prompt)})

	text, err := resilience.Call(ctx, s.breaker, func(ctx context.Context) (string, error) {
		callCtx, cancel := context.WithTimeout(ctx, s.timeout)
		defer cancel()
		return s.model.Complete(callCtx, prompt)
	})
	if err != nil {
		meta := failureMeta(err)
		meta["provider"] = provider
		log.Add("synthesize", "language model call failed", meta)
		return heuristic(failureReason(err))
	}
	log.Add("synthesize", "language model responded", map[string]any{"provider": provider, "chars": len(text)})

	info, err := parseNarrative(text)
	if err != nil {
		reason := "unparseable model output"
		switch {
		case eris.Is(err, errNoJSONObject):
			reason = "no JSON object in model output"
		case eris.Is(err, errNoNarrative):
			reason = "model output has no usable fields"
		}
		log.Add("synthesize", "could not use model output", map[string]any{"error": err.Error()})
		return heuristic(reason)
	}

	if s.recoverName && strings.TrimSpace(info.CompanyName) == "" {
		if name := RecoverCompanyName(info.HeroTitle); name != "" {
			info.CompanyName = name
			log.Add("synthesize", "recovered company name from hero title", map[string]any{"company_name": name})
		}
	}

	applyComputed(&info, raw, palette, bestImage)
	return Ok(EnsureCompleteProfile(info))
}
