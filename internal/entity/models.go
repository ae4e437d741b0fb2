package entity

import (
	"time"
)

// BotUserID is the sender id stored on machine-authored chat messages.
const BotUserID = "bot"

// BotName is the display name of the recommendation agent.
const BotName = "Burbla"

// ChatMessage is a single persisted chat row. Content is opaque text; for
// machine-authored messages it may hold a serialized VoteCard or
// recommendation payload that is rewritten in place by later vote actions.
// MessageID and SessionID never change after creation.
type ChatMessage struct {
	SessionID string    `json:"session_id"`
	UserID    string    `json:"user_id"`
	MessageID string    `json:"message_id"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Session is a shared conversation between several users.
type Session struct {
	ID          string    `json:"session_id"`
	Name        string    `json:"session_name"`
	OwnerID     string    `json:"owner_id"`
	MemberIDs   []string  `json:"member_id_list"`
	LastUpdated time.Time `json:"last_updated"`
	CreatedDate time.Time `json:"created_date"`
}

// User holds the profile fields the agent uses to personalize queries.
type User struct {
	ID          string  `json:"user_id"`
	Name        *string `json:"name,omitempty"`
	Gmail       *string `json:"gmail,omitempty"`
	Preferences *string `json:"preferences,omitempty"`
	Location    *string `json:"location,omitempty"`
}
