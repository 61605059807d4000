package tutor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/abhisek/pymaster/internal/llm"
)

// Purpose labels tutor requests in the LLM request log.
const Purpose = "code-review"

// ErrNothingToReview is returned for an empty editor.
var ErrNothingToReview = errors.New("nothing to review: the editor is empty")

// withheld replaces any verbatim copy of the reference solution.
const withheld = "[solution withheld]"

// Service reviews task attempts through an LLM provider. It never touches
// learner progress.
type Service struct {
	provider llm.Provider
	cfg      Config
	logger   *zap.Logger
}

// NewService creates a review service.
func NewService(provider llm.Provider, cfg Config, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{provider: provider, cfg: cfg, logger: logger.Named("tutor")}
}

type reviewOutput struct {
	Verdict  string `json:"verdict"`
	Feedback string `json:"feedback"`
	NextStep string `json:"next_step"`
}

// Review asks the model for feedback on in. It blocks until the provider
// answers; the view layer calls it from a tea.Cmd.
func (s *Service) Review(ctx context.Context, in Input) (*Review, error) {
	if strings.TrimSpace(in.Code) == "" {
		return nil, ErrNothingToReview
	}

	resp, err := s.provider.Generate(llm.WithPurpose(ctx, Purpose), llm.Request{
		System:      systemPrompt,
		Messages:    llm.UserMessage(buildUserMessage(in, s.cfg)),
		Schema:      ReviewSchema,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		s.logger.Warn("review failed", zap.String("task", in.Task.ID), zap.Error(err))
		return nil, fmt.Errorf("code review: %w", err)
	}

	var out reviewOutput
	if err := resp.Decode(&out); err != nil {
		return nil, fmt.Errorf("parse code review: %w", err)
	}

	r := &Review{
		Verdict:  Verdict(out.Verdict),
		Feedback: scrub(out.Feedback, in.Task.SolutionCode),
		NextStep: scrub(out.NextStep, in.Task.SolutionCode),
	}
	s.logger.Debug("review done",
		zap.String("task", in.Task.ID),
		zap.String("verdict", string(r.Verdict)),
		zap.Int("output_tokens", resp.Usage.OutputTokens),
	)
	return r, nil
}

// scrub removes the reference solution from text when the model repeats
// it verbatim. One-line solutions shorter than a typical statement are
// left alone; they would match ordinary prose.
func scrub(text, solution string) string {
	sol := strings.TrimSpace(solution)
	if len(sol) < 12 {
		return text
	}
	return strings.ReplaceAll(text, sol, withheld)
}
