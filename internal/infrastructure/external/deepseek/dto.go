package deepseek

// ══════════════════════════════════════════════════════════════════════════════
// WIRE DTOs
// Chat-completion request/response shapes for the DeepSeek API.
// ══════════════════════════════════════════════════════════════════════════════

// MessageDTO is one chat message.
type MessageDTO struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequestDTO is the chat-completion request body.
type ChatRequestDTO struct {
	Model       string       `json:"model"`
	Messages    []MessageDTO `json:"messages"`
	Temperature float64      `json:"temperature"`
	MaxTokens   int          `json:"max_tokens"`
}

// ChatResponseDTO is the chat-completion response body.
type ChatResponseDTO struct {
	ID      string      `json:"id"`
	Model   string      `json:"model"`
	Choices []ChoiceDTO `json:"choices"`
	Usage   UsageDTO    `json:"usage"`
}

// ChoiceDTO is one completion choice.
type ChoiceDTO struct {
	Index        int        `json:"index"`
	Message      MessageDTO `json:"message"`
	FinishReason string     `json:"finish_reason"`
}

// UsageDTO reports token accounting for the completion.
type UsageDTO struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// ErrorResponseDTO is the error envelope the API returns on failures.
type ErrorResponseDTO struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error"`
}

// FirstReply returns the first choice's content, or empty when the
// response carries no usable choice.
func (r *ChatResponseDTO) FirstReply() string {
	if len(r.Choices) == 0 {
		return ""
	}
	return r.Choices[0].Message.Content
}
