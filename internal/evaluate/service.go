// Package evaluate judges free-text answers against a node's acceptance
// criteria by calling the configured language-model provider. It is
// fail-closed: any provider error, timeout, or malformed response becomes
// a not-acceptable verdict with retry guidance, never a crash and never a
// silent pass.
package evaluate

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pioneer-academy/nmotrain/internal/flow"
	"github.com/pioneer-academy/nmotrain/internal/llm"
)

const (
	maxVerdictTokens = 500
	defaultTimeout   = 30 * time.Second
)

// failClosedFeedback is shown when the evaluation service could not
// produce a verdict. The trainee's attempt stays on the node and can be
// resubmitted as-is.
const failClosedFeedback = "We couldn't check your answer just now. Please try submitting it again in a moment."

// Input is one evaluation request.
type Input struct {
	// Question is the node's prompt text.
	Question string

	// Criteria is the node's acceptance criteria.
	Criteria string

	// Answer is the trainee's current submission.
	Answer string

	// Instructions carries optional extra grading guidance from the
	// catalog row.
	Instructions string

	// History is the prior attempts on this node, oldest first.
	History []flow.Turn
}

// Service evaluates answers through an llm.Provider.
type Service struct {
	provider llm.Provider
	timeout  time.Duration
}

// NewService creates an evaluation service. A zero timeout uses the
// default.
func NewService(provider llm.Provider, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Service{provider: provider, timeout: timeout}
}

// Evaluate judges one answer. It always returns a usable verdict: on any
// failure the verdict is not-acceptable with generic retry feedback, so
// callers never need an error path.
func (s *Service) Evaluate(ctx context.Context, in Input) flow.Verdict {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	req := llm.Request{
		System:    systemPrompt,
		Messages:  s.buildMessages(in),
		Schema:    verdictSchema,
		MaxTokens: maxVerdictTokens,
	}

	resp, err := s.provider.Generate(ctx, req)
	if err != nil {
		return failClosed()
	}

	var payload verdictPayload
	if err := json.Unmarshal(resp.Content, &payload); err != nil {
		return failClosed()
	}
	if payload.Feedback == "" {
		return failClosed()
	}

	// A grader that omits should_advance is only reporting correctness;
	// advancement follows it.
	advance := payload.IsCorrect
	if payload.ShouldAdvance != nil {
		advance = *payload.ShouldAdvance
	}

	return flow.Verdict{
		Acceptable:    payload.IsCorrect,
		Feedback:      payload.Feedback,
		ShouldAdvance: advance,
	}
}

// buildMessages threads prior attempts as real dialogue turns so the
// model sees what feedback the trainee already received, then ends with
// the current submission.
func (s *Service) buildMessages(in Input) []llm.Message {
	msgs := make([]llm.Message, 0, len(in.History)*2+1)
	for _, t := range in.History {
		msgs = append(msgs,
			llm.Message{Role: llm.RoleUser, Content: t.Answer},
			llm.Message{Role: llm.RoleAssistant, Content: t.Feedback},
		)
	}
	msgs = append(msgs, llm.Message{Role: llm.RoleUser, Content: buildUserPrompt(in)})
	return msgs
}

func failClosed() flow.Verdict {
	return flow.Verdict{
		Acceptable:    false,
		Feedback:      failClosedFeedback,
		ShouldAdvance: false,
	}
}
