package command

import (
	"context"
	"strings"
)

// ══════════════════════════════════════════════════════════════════════════════
// ASK AI COMMAND
// Forwards a free-form prompt to the language assistant. The operation never
// fails on upstream trouble: the assistant port is required to degrade to a
// deterministic local reply and report its source.
// ══════════════════════════════════════════════════════════════════════════════

// Reply is the assistant's answer together with its origin.
type Reply struct {
	// Text is the answer shown to the learner.
	Text string

	// Source is "deepseek" for upstream answers and "fallback" for the
	// deterministic local reply.
	Source string
}

// Assistant is the outbound port to the AI provider. Implementations must
// not return an error for upstream failures; they degrade to a fallback
// reply instead and report the source accordingly.
type Assistant interface {
	Ask(ctx context.Context, prompt string) (text, source string)
}

// AskAICommand carries the learner's prompt.
type AskAICommand struct {
	Prompt string
}

// AskAIHandler handles AskAICommand.
type AskAIHandler struct {
	assistant Assistant
}

// NewAskAIHandler creates the handler.
func NewAskAIHandler(assistant Assistant) *AskAIHandler {
	return &AskAIHandler{assistant: assistant}
}

// Handle validates the prompt and forwards it to the assistant. The call
// runs outside any learner lock: it does not touch entitlement state.
func (h *AskAIHandler) Handle(ctx context.Context, cmd AskAICommand) (*Reply, error) {
	prompt := strings.TrimSpace(cmd.Prompt)
	if prompt == "" {
		return nil, ErrEmptyPrompt
	}

	text, source := h.assistant.Ask(ctx, prompt)
	return &Reply{Text: text, Source: source}, nil
}
