package chat

import (
	"context"

	"github.com/burbla/burbla-backend/internal/entity"
)

// AgentConnector is the opaque recommendation agent. Invoke may be called
// repeatedly with the same query (normalizer retries); sampling makes every
// call independently nondeterministic.
type AgentConnector interface {
	Invoke(ctx context.Context, query *entity.AgentQuery) (string, error)
}
