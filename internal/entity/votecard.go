package entity

import (
	"encoding/json"
	"fmt"
	"strings"
)

// VoteCardType is the discriminator stored in structured agent payloads.
const VoteCardType = "vote_card"

// VoteOption is one candidate restaurant inside a VoteCard. The descriptive
// fields are immutable after creation; only the vote state changes.
type VoteOption struct {
	RestaurantID    string   `json:"restaurant_id"`
	RestaurantName  string   `json:"restaurant_name"`
	Description     string   `json:"description"`
	Image           string   `json:"image"`
	Rating          string   `json:"rating"`
	UserRatingCount int      `json:"userRatingCount"`
	NumberOfVotes   int      `json:"number_of_vote"`
	VoteUserIDs     []string `json:"vote_user_id_list"`
	Map             string   `json:"map"`
}

// VoteCard is a persisted poll document. Option order is display order and is
// preserved across mutation.
type VoteCard struct {
	MessageID   string       `json:"message_id"`
	SenderName  string       `json:"sender_name"`
	Type        string       `json:"type"`
	VoteOptions []VoteOption `json:"vote_options"`
}

// ParseVoteCard decodes stored chat content into a VoteCard. Rows written by
// an earlier serializer may hold a Python-literal style string instead of
// JSON; those get one fallback decode pass. Anything else is reported as
// ErrMalformedContent.
func ParseVoteCard(content string) (*VoteCard, error) {
	var card VoteCard
	if err := json.Unmarshal([]byte(content), &card); err == nil {
		card.sanitize()
		return &card, nil
	}

	recoded, convErr := pyLiteralToJSON(content)
	if convErr != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformedContent, convErr)
	}
	if err := json.Unmarshal([]byte(recoded), &card); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformedContent, err)
	}

	card.sanitize()
	return &card, nil
}

// Serialize returns the canonical JSON text stored back into the chat row.
func (c *VoteCard) Serialize() (string, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("serialize vote card: %w", err)
	}
	return string(data), nil
}

// sanitize repairs legacy rows in place: missing user lists become empty
// lists and every count is recomputed from its list. Stored counts are
// derived data and never trusted.
func (c *VoteCard) sanitize() {
	for i := range c.VoteOptions {
		if c.VoteOptions[i].VoteUserIDs == nil {
			c.VoteOptions[i].VoteUserIDs = []string{}
		}
		c.VoteOptions[i].NumberOfVotes = len(c.VoteOptions[i].VoteUserIDs)
	}
}

// ApplyVote records a single up or down vote for userID on the option with
// optionID, keeping the single-choice invariant: before an up-vote lands, the
// user's vote is withdrawn from every other option. Re-upvoting an option the
// user already holds and downvoting an option they never voted for are
// no-ops. It reports whether anything changed and the target option's display
// name; ErrVoteOptionNotFound when optionID is not present.
func (c *VoteCard) ApplyVote(userID, optionID string, isUpvote bool) (bool, string, error) {
	target := -1
	for i := range c.VoteOptions {
		if c.VoteOptions[i].RestaurantID == optionID {
			target = i
			break
		}
	}
	if target < 0 {
		return false, "", fmt.Errorf("%w: option %q", ErrVoteOptionNotFound, optionID)
	}

	changed := false

	if isUpvote {
		for i := range c.VoteOptions {
			if i == target {
				continue
			}
			if c.VoteOptions[i].removeVoter(userID) {
				changed = true
			}
		}
		if c.VoteOptions[target].addVoter(userID) {
			changed = true
		}
	} else {
		if c.VoteOptions[target].removeVoter(userID) {
			changed = true
		}
	}

	return changed, c.VoteOptions[target].RestaurantName, nil
}

func (o *VoteOption) addVoter(userID string) bool {
	for _, id := range o.VoteUserIDs {
		if id == userID {
			return false
		}
	}
	o.VoteUserIDs = append(o.VoteUserIDs, userID)
	o.NumberOfVotes = len(o.VoteUserIDs)
	return true
}

func (o *VoteOption) removeVoter(userID string) bool {
	for i, id := range o.VoteUserIDs {
		if id == userID {
			o.VoteUserIDs = append(o.VoteUserIDs[:i], o.VoteUserIDs[i+1:]...)
			o.NumberOfVotes = len(o.VoteUserIDs)
			return true
		}
	}
	return false
}

// pyLiteralToJSON rewrites a Python dict/list literal into JSON: single
// quoted strings become double quoted and the bare constants True/False/None
// become their JSON counterparts. Quoting state is tracked so string bodies
// pass through untouched.
func pyLiteralToJSON(s string) (string, error) {
	var b strings.Builder
	b.Grow(len(s))

	const (
		outside = iota
		inSingle
		inDouble
	)
	state := outside

	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch state {
		case outside:
			switch {
			case r == '\'':
				state = inSingle
				b.WriteRune('"')
			case r == '"':
				state = inDouble
				b.WriteRune('"')
			case matchWord(runes, i, "True"):
				b.WriteString("true")
				i += 3
			case matchWord(runes, i, "False"):
				b.WriteString("false")
				i += 4
			case matchWord(runes, i, "None"):
				b.WriteString("null")
				i += 3
			default:
				b.WriteRune(r)
			}
		case inSingle:
			switch {
			case r == '\\' && i+1 < len(runes):
				next := runes[i+1]
				if next == '\'' {
					// escaped quote inside a single-quoted string
					b.WriteRune('\'')
				} else {
					b.WriteRune(r)
					b.WriteRune(next)
				}
				i++
			case r == '\'':
				state = outside
				b.WriteRune('"')
			case r == '"':
				b.WriteString(`\"`)
			default:
				b.WriteRune(r)
			}
		case inDouble:
			switch {
			case r == '\\' && i+1 < len(runes):
				b.WriteRune(r)
				b.WriteRune(runes[i+1])
				i++
			case r == '"':
				state = outside
				b.WriteRune('"')
			default:
				b.WriteRune(r)
			}
		}
	}

	if state != outside {
		return "", fmt.Errorf("unterminated string literal")
	}
	return b.String(), nil
}

func matchWord(runes []rune, i int, word string) bool {
	if i+len(word) > len(runes) {
		return false
	}
	for j, wr := range word {
		if runes[i+j] != wr {
			return false
		}
	}
	// must not be part of a longer identifier
	if i+len(word) < len(runes) {
		next := runes[i+len(word)]
		if next == '_' || (next >= 'a' && next <= 'z') || (next >= 'A' && next <= 'Z') || (next >= '0' && next <= '9') {
			return false
		}
	}
	return true
}
