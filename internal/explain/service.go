package explain

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/abhisek/mathgalaxy/internal/content"
	"github.com/abhisek/mathgalaxy/internal/llm"
	"github.com/abhisek/mathgalaxy/internal/topicgraph"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
)

// Service produces explanation text. A short health check runs first, then a
// single bounded generation call.
// There is no retry. Callers always get text back from ExplainTopic and
// Snippet; failures fall back to static content.
type Service struct {
	provider llm.Provider
	cfg      Config
	library  *content.Library
	cache    Cache
	log      logrus.FieldLogger
}

// Option configures a Service.
type Option func(*Service)

// WithCache sets the result cache. Without one nothing is cached.
func WithCache(c Cache) Option {
	return func(s *Service) { s.cache = c }
}

// WithLibrary sets the fallback content library.
func WithLibrary(l *content.Library) Option {
	return func(s *Service) { s.library = l }
}

// WithLogger sets the logger.
func WithLogger(log logrus.FieldLogger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// NewService creates an explanation service. provider may be nil, in which
// case every generation is unavailable and fallback content is served.
func NewService(provider llm.Provider, cfg Config, opts ...Option) *Service {
	discard := logrus.New()
	discard.SetOutput(io.Discard)

	s := &Service{
		provider: provider,
		cfg:      cfg,
		log:      discard,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.library == nil {
		s.library = content.Default()
	}
	return s
}

// Available reports whether a provider is configured.
func (s *Service) Available() bool {
	return s.provider != nil
}

// Generate asks the provider for text. The returned error is nil for
// OutcomeGenerated and OutcomeEmpty and wraps ErrUnavailable otherwise.
func (s *Service) Generate(ctx context.Context, prompt string, mode Mode) (Result, error) {
	if s.provider == nil {
		return Result{Outcome: OutcomeUnavailable}, fmt.Errorf("%w: no provider configured", ErrUnavailable)
	}

	key := cacheKey(s.provider.ModelID(), mode, prompt)
	if s.cache != nil {
		if r, ok := s.cache.Get(ctx, key); ok {
			r.Cached = true
			return r, nil
		}
	}

	if err := s.checkAvailable(ctx); err != nil {
		s.log.WithError(err).Debug("text generation health check failed")
		return Result{Outcome: OutcomeUnavailable}, fmt.Errorf("%w: health check: %v", ErrUnavailable, err)
	}

	r, err := s.call(ctx, prompt, mode)
	if err != nil {
		s.log.WithError(err).WithField("mode", mode.String()).Warn("text generation failed")
		return Result{Outcome: OutcomeUnavailable}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if r.Outcome == OutcomeGenerated && s.cache != nil {
		s.cache.Set(ctx, key, r, s.cfg.CacheTTL)
	}
	return r, nil
}

func (s *Service) checkAvailable(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.CheckTimeout)
	defer cancel()
	return s.provider.HealthCheck(llm.WithPurpose(ctx, llm.PurposeHealth))
}

func (s *Service) call(ctx context.Context, prompt string, mode Mode) (Result, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	req := llm.Request{
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: prompt}},
		Temperature: s.cfg.Temperature,
	}
	switch mode {
	case ModeFull:
		ctx = llm.WithPurpose(ctx, llm.PurposeExplain)
		req.System = fullSystemPrompt
		req.Schema = ExplanationSchema
		req.MaxTokens = s.cfg.FullMaxTokens
	default:
		ctx = llm.WithPurpose(ctx, llm.PurposeDiscovery)
		req.System = snippetSystemPrompt
		req.MaxTokens = s.cfg.SnippetMaxTokens
	}

	resp, err := s.provider.Generate(ctx, req)
	if err != nil {
		// A model that ignored the schema may still have answered in the
		// sectioned text layout.
		var invalid *llm.ErrInvalidResponse
		if mode == ModeFull && errors.As(err, &invalid) {
			if strings.TrimSpace(string(invalid.Content)) == "" {
				return Result{Outcome: OutcomeEmpty}, nil
			}
			if sec, ok := ParseSections(string(invalid.Content)); ok {
				return Result{Outcome: OutcomeGenerated, Text: sec.Text, Sections: &sec}, nil
			}
		}
		return Result{}, err
	}

	if mode == ModeFull {
		return decodeFull(resp.Content)
	}
	return decodeText(string(resp.Content)), nil
}

// decodeFull reads a structured explanation payload.
func decodeFull(raw json.RawMessage) (Result, error) {
	if len(strings.TrimSpace(string(raw))) == 0 {
		return Result{Outcome: OutcomeEmpty}, nil
	}
	var out content.Explanation
	if err := json.Unmarshal(raw, &out); err != nil {
		return decodeText(string(raw)), nil
	}
	out.Text = strings.TrimSpace(out.Text)
	out.KeyPoints = lo.Compact(lo.Map(out.KeyPoints, func(s string, _ int) string { return strings.TrimSpace(s) }))
	out.Examples = lo.Compact(lo.Map(out.Examples, func(s string, _ int) string { return strings.TrimSpace(s) }))
	if out.IsEmpty() {
		return Result{Outcome: OutcomeEmpty}, nil
	}
	return Result{Outcome: OutcomeGenerated, Text: out.Text, Sections: &out}, nil
}

// decodeText treats raw as free text, upgrading it to sections when it is
// laid out that way.
func decodeText(raw string) Result {
	text := strings.TrimSpace(raw)
	if text == "" {
		return Result{Outcome: OutcomeEmpty}
	}
	r := Result{Outcome: OutcomeGenerated, Text: text}
	if sec, ok := ParseSections(text); ok {
		r.Sections = &sec
	}
	return r
}

// ExplainTopic returns a full explanation for t, generated when possible and
// from fallback content otherwise.
func (s *Service) ExplainTopic(ctx context.Context, t topicgraph.Topic, neighbours []string) TopicExplanation {
	out := TopicExplanation{TopicID: t.ID, TopicName: t.Name}

	r, err := s.Generate(ctx, FullPrompt(t, neighbours), ModeFull)
	out.Outcome = r.Outcome
	if err == nil && r.Outcome == OutcomeGenerated {
		out.Source = SourceGenerated
		if r.Sections != nil {
			out.Body = *r.Sections
		} else {
			out.Body = content.Explanation{Text: r.Text}
		}
		return out
	}

	s.log.WithFields(logrus.Fields{
		"topic":   t.ID,
		"outcome": r.Outcome.String(),
	}).Debug("serving fallback explanation")
	out.Source = SourceFallback
	out.Body = s.library.Fallback(t.Name)
	return out
}

// Snippet returns a short reply to a discovery query. matched are the topics
// the query unlocked or touched.
func (s *Service) Snippet(ctx context.Context, query string, matched []topicgraph.Topic) Reply {
	r, err := s.Generate(ctx, SnippetPrompt(query, matched), ModeSnippet)
	if err == nil && r.Outcome == OutcomeGenerated {
		return Reply{Text: r.Text, Source: SourceGenerated, Outcome: r.Outcome}
	}

	names := lo.Map(matched, func(t topicgraph.Topic, _ int) string { return t.Name })
	return Reply{
		Text:    s.library.DiscoveryReply(names),
		Source:  SourceFallback,
		Outcome: r.Outcome,
	}
}
