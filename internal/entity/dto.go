package entity

import "time"

// ErrorResponse is the JSON shape of every error reply.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// SendMessageRequest is the payload of POST /chat/sent.
type SendMessageRequest struct {
	UserID    string `json:"user_id"`
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
	IsToAgent *bool  `json:"is_to_agent,omitempty"`
}

// AgentMessageDTO is the agent reply returned from POST /chat/sent.
type AgentMessageDTO struct {
	UserID    string `json:"user_id"`
	Name      string `json:"name"`
	Message   string `json:"message"`
	MessageID string `json:"message_id"`
}

// VoteRequest is the payload of POST /chat/vote.
type VoteRequest struct {
	SessionID    string `json:"session_id"`
	UserID       string `json:"user_id"`
	MessageID    string `json:"message_id"`
	VoteOptionID string `json:"vote_option_id"`
	IsVoteUp     bool   `json:"is_vote_up"`
}

// VoteResponse reports the outcome of a vote action.
type VoteResponse struct {
	Status         string  `json:"status"`
	RestaurantName *string `json:"restaurant_name,omitempty"`
}

// CreateSessionRequest creates or idempotently re-creates a session.
type CreateSessionRequest struct {
	SessionID   string   `json:"session_id"`
	SessionName string   `json:"session_name"`
	OwnerID     string   `json:"owner_id"`
	MemberIDs   []string `json:"member_id_list"`
}

// UpdateSessionRequest renames a session and/or replaces its member list.
type UpdateSessionRequest struct {
	SessionName *string  `json:"session_name,omitempty"`
	MemberIDs   []string `json:"member_id_list,omitempty"`
}

// JoinSessionRequest adds a user to an existing session.
type JoinSessionRequest struct {
	UserID string `json:"user_id"`
}

// AuthenticationRequest looks a user up by gmail, creating it on first login.
type AuthenticationRequest struct {
	Gmail string  `json:"gmail"`
	Name  *string `json:"name,omitempty"`
}

// SessionDTO is the wire shape of a session.
type SessionDTO struct {
	ID          string    `json:"session_id"`
	Name        string    `json:"session_name"`
	OwnerID     string    `json:"owner_id"`
	MemberIDs   []string  `json:"member_id_list"`
	LastUpdated time.Time `json:"last_updated"`
	CreatedDate time.Time `json:"created_date"`
}
