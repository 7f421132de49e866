package store

// RetrievedDocument is one vector-search hit with its source metadata.
// Produced per query by the retriever, never persisted.
type RetrievedDocument struct {
	URL     string  `json:"url"`
	Content string  `json:"content"`
	Score   float32 `json:"score"`
}

// SessionContext is the per-browser conversational state. It only carries
// the binding to the lead record plus the one transient onboarding flag;
// everything durable lives on the lead itself.
type SessionContext struct {
	SessionID string `json:"session_id"`
	// LeadID points at the lead record this session is bound to. It differs
	// from SessionID after a returning visitor re-keys to an existing lead.
	LeadID string `json:"lead_id"`
	// AwaitingService is true exactly between "name collected" and
	// "service collected".
	AwaitingService bool `json:"awaiting_service"`
}

func NewSessionContext(sessionID string) *SessionContext {
	return &SessionContext{
		SessionID: sessionID,
		LeadID:    sessionID,
	}
}
