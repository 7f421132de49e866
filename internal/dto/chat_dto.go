package dto

// ChatRequest is the body of POST /chat. Query is optional: during
// onboarding an empty body re-prompts the current step.
type ChatRequest struct {
	Query string `json:"query" validate:"omitempty,max=4000"`
}

// ChatMessageResponse carries onboarding prompts.
type ChatMessageResponse struct {
	Message string `json:"message"`
}

// ChatAnswerResponse carries free-chat answers.
type ChatAnswerResponse struct {
	Response string `json:"response"`
}

// TranscriptMessage is one persisted free-chat turn on the wire.
type TranscriptMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatHistoryResponse is the body of GET /chat/history.
type ChatHistoryResponse struct {
	Messages []TranscriptMessage `json:"messages"`
}

// ChatErrorResponse carries 4xx/5xx bodies.
type ChatErrorResponse struct {
	Error string `json:"error"`
}

// ChatReply is the service-level result the controller maps onto the wire.
type ChatReply struct {
	// Message is set during onboarding, Response during free chat.
	// Exactly one of the two is non-empty.
	Message  string
	Response string
}

// OnboardingReply wraps a dialogue prompt.
func OnboardingReply(message string) *ChatReply {
	return &ChatReply{Message: message}
}

// AnswerReply wraps a free-chat answer.
func AnswerReply(response string) *ChatReply {
	return &ChatReply{Response: response}
}

// LeadCompletedEvent is published when onboarding finishes for a lead.
type LeadCompletedEvent struct {
	LeadID  string `json:"lead_id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Service string `json:"service"`
}
