package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/avast/retry-go/v4"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	pkgretry "github.com/burbla/burbla-backend/internal/pkg/retry"
)

// RegenerateFunc re-submits the original query to the agent and returns a
// fresh raw candidate. Agent sampling makes retries nondeterministic, so a
// new candidate may parse where the previous one did not.
type RegenerateFunc func(ctx context.Context) (string, error)

// Normalizer turns raw agent output into either verbatim prose or canonical
// tagged JSON. Parse failures on structured-looking output are recovered by
// re-querying the agent a bounded number of times; exhaustion degrades to the
// last raw candidate instead of failing.
type Normalizer struct {
	retryOpts []retry.Option
}

func NewNormalizer(cfg *pkgretry.RetryConfig) *Normalizer {
	return &Normalizer{
		retryOpts: append(cfg.ToRetryOptions(),
			retry.DelayType(retry.FixedDelay),
			retry.LastErrorOnly(true),
		),
	}
}

// Normalize classifies raw agent text. Prose is returned unchanged with no
// retries. Structured-looking text is stripped of code fences, parsed, tagged
// with a fresh message_id and re-serialized; when parsing keeps failing, the
// last unparsed candidate is returned as-is. Only a failing regenerate call
// is a hard error.
func (n *Normalizer) Normalize(ctx context.Context, raw string, regenerate RegenerateFunc) (string, error) {
	if !looksStructured(raw) {
		return raw, nil
	}

	last := raw
	var canonical string

	attempt := 0
	var regenErr error
	err := retry.Do(
		func() error {
			attempt++
			if attempt > 1 {
				next, err := regenerate(ctx)
				if err != nil {
					// retry-go unwraps Unrecoverable on return, so keep the
					// error ourselves to tell agent failure from parse failure.
					regenErr = fmt.Errorf("regenerate agent response: %w", err)
					return retry.Unrecoverable(regenErr)
				}
				last = next
			}

			out, err := canonicalizeStructured(last)
			if err != nil {
				ctxzap.Warn(ctx, "structured agent response failed to parse",
					zap.Int("attempt", attempt),
					zap.Error(err),
				)
				return err
			}

			canonical = out
			return nil
		},
		append(n.retryOpts, retry.Context(ctx))...,
	)
	if err != nil {
		if regenErr != nil {
			return "", regenErr
		}
		// Parse retries exhausted: a malformed-but-nonempty string beats an
		// error the caller cannot act on.
		ctxzap.Warn(ctx, "returning raw agent response after parse retries", zap.Error(err))
		return last, nil
	}

	return canonical, nil
}

// looksStructured reports whether the text is intended as machine-readable
// JSON: a leading json-tagged code fence or a bare object/array opener.
func looksStructured(text string) bool {
	t := strings.ToLower(strings.TrimSpace(text))
	return strings.HasPrefix(t, "```json") ||
		strings.HasPrefix(t, "{") ||
		strings.HasPrefix(t, "[")
}

// canonicalizeStructured strips fences, parses the remainder as JSON and, for
// objects, injects a fresh message_id (overwriting any existing value).
func canonicalizeStructured(raw string) (string, error) {
	stripped := stripFences(raw)

	var value any
	if err := json.Unmarshal([]byte(stripped), &value); err != nil {
		return "", fmt.Errorf("parse structured response: %w", err)
	}

	if obj, ok := value.(map[string]any); ok {
		obj["message_id"] = newAgentMessageID()
	}

	data, err := json.Marshal(value)
	if err != nil {
		return "", fmt.Errorf("reserialize structured response: %w", err)
	}

	return string(data), nil
}

// stripFences removes a leading code fence (with or without a language tag)
// and a trailing fence. Text without fences passes through unchanged.
func stripFences(text string) string {
	t := strings.TrimSpace(text)

	if strings.HasPrefix(t, "```") {
		if idx := strings.IndexByte(t, '\n'); idx >= 0 {
			t = t[idx+1:]
		} else {
			// single-line fence such as "```json{...}```"
			t = strings.TrimPrefix(t, "```")
			t = strings.TrimPrefix(strings.TrimPrefix(t, "json"), "JSON")
		}
	}

	t = strings.TrimSpace(t)
	t = strings.TrimSuffix(t, "```")

	return strings.TrimSpace(t)
}
