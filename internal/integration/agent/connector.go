package agent

import (
	"context"
	"fmt"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/burbla/burbla-backend/internal/config"
	"github.com/burbla/burbla-backend/internal/entity"
	"github.com/burbla/burbla-backend/internal/usecase/chat"
)

var _ chat.AgentConnector = &Connector{}

// Connector drives a Gemini model with the restaurant tool set. Tool calls
// are resolved locally against the places service and fed back to the model
// until it produces a final text answer.
type Connector struct {
	config config.AgentConnectorConfig
	client *genai.Client
	places PlacesService
	logger *zap.Logger
}

func NewConnector(ctx context.Context, cfg config.AgentConnectorConfig, placesSvc PlacesService, logger *zap.Logger) (*Connector, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return &Connector{
		config: cfg,
		client: client,
		places: placesSvc,
		logger: logger,
	}, nil
}

func (c *Connector) Invoke(ctx context.Context, query *entity.AgentQuery) (string, error) {
	contents := c.buildContents(query)

	prompt := c.config.SystemPrompt
	if prompt == "" {
		prompt = defaultSystemPrompt
	}
	genCfg := &genai.GenerateContentConfig{
		Temperature:       genai.Ptr(c.config.Temperature),
		SystemInstruction: genai.NewContentFromText(prompt, genai.RoleUser),
		Tools:             []*genai.Tool{{FunctionDeclarations: toolDeclarations()}},
	}

	for round := 0; round < c.config.MaxToolRounds; round++ {
		resp, err := c.client.Models.GenerateContent(ctx, c.config.Model, contents, genCfg)
		if err != nil {
			return "", fmt.Errorf("generate content: %w", err)
		}
		if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
			return "", fmt.Errorf("generate content: empty response")
		}

		calls := resp.FunctionCalls()
		if len(calls) == 0 {
			return resp.Text(), nil
		}

		contents = append(contents, resp.Candidates[0].Content)
		parts := make([]*genai.Part, 0, len(calls))
		for _, call := range calls {
			ctxzap.Extract(ctx).Debug("agent tool call",
				zap.String("tool", call.Name),
				zap.Any("args", call.Args),
			)
			result, err := c.executeTool(ctx, call)
			if err != nil {
				ctxzap.Extract(ctx).Warn("agent tool failed",
					zap.String("tool", call.Name),
					zap.Error(err),
				)
				result = map[string]any{"error": err.Error()}
			}
			parts = append(parts, genai.NewPartFromFunctionResponse(call.Name, result))
		}
		contents = append(contents, genai.NewContentFromParts(parts, genai.RoleUser))
	}

	return "", fmt.Errorf("tool loop exceeded %d rounds", c.config.MaxToolRounds)
}

// buildContents maps stored chat history plus the wrapped query into model
// turns. Bot rows become model turns, user rows user turns.
func (c *Connector) buildContents(query *entity.AgentQuery) []*genai.Content {
	contents := make([]*genai.Content, 0, len(query.History)+1)
	for _, msg := range query.History {
		role := genai.Role(genai.RoleUser)
		if msg.UserID == entity.BotUserID {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(msg.Content, role))
	}
	contents = append(contents, genai.NewContentFromText(query.Query, genai.RoleUser))
	return contents
}
