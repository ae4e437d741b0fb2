package entity

// AgentQuery is a single turn handed to the recommendation agent. History
// carries the recent conversation so the agent itself stays stateless.
type AgentQuery struct {
	Query     string
	SessionID string
	History   []*ChatMessage
}
