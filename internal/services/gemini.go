package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/generative-ai-go/genai"
	"github.com/google/uuid"
	"google.golang.org/api/option"

	"marina-frontdesk/internal/models"
)

// GeminiReasoner drives the tool-call loop through the Gemini API.
type GeminiReasoner struct {
	client      *genai.Client
	modelName   string
	temperature float32
	rateChan    chan struct{} // Token bucket
}

func NewGeminiReasoner(apiKey, modelName string, concurrentReqs int) (*GeminiReasoner, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	if concurrentReqs <= 0 {
		concurrentReqs = 1
	}
	rateChan := make(chan struct{}, concurrentReqs)
	for i := 0; i < concurrentReqs; i++ {
		rateChan <- struct{}{}
	}

	return &GeminiReasoner{
		client:      client,
		modelName:   modelName,
		temperature: 0.4,
		rateChan:    rateChan,
	}, nil
}

func (g *GeminiReasoner) Close() error {
	return g.client.Close()
}

// acquireRate blocks until a rate slot is available
func (g *GeminiReasoner) acquireRate(ctx context.Context) error {
	select {
	case <-g.rateChan:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(2 * time.Minute):
		return fmt.Errorf("timeout waiting for Gemini rate slot")
	}
}

func (g *GeminiReasoner) releaseRate() {
	g.rateChan <- struct{}{}
}

func (g *GeminiReasoner) Complete(ctx context.Context, transcript []models.Message, tools []models.ToolSpec) (*models.Message, error) {
	system, contents, err := toGeminiContents(transcript)
	if err != nil {
		return nil, err
	}
	if len(contents) == 0 {
		return nil, fmt.Errorf("transcript has no guest or tool messages")
	}
	last := contents[len(contents)-1]
	if last.Role != "user" {
		return nil, fmt.Errorf("transcript must end with a guest or tool message, got %q", last.Role)
	}

	if err := g.acquireRate(ctx); err != nil {
		return nil, err
	}
	defer g.releaseRate()

	model := g.client.GenerativeModel(g.modelName)
	model.SetTemperature(g.temperature)
	if system != "" {
		model.SystemInstruction = genai.NewUserContent(genai.Text(system))
	}
	if len(tools) > 0 {
		model.Tools = []*genai.Tool{{FunctionDeclarations: geminiDeclarations(tools)}}
	}

	session := model.StartChat()
	session.History = contents[:len(contents)-1]

	resp, err := session.SendMessage(ctx, last.Parts...)
	if err != nil {
		return nil, fmt.Errorf("Gemini API error: %w", err)
	}

	return fromGeminiResponse(resp)
}

// toGeminiContents maps the transcript onto Gemini turns. System messages become the system
// instruction; consecutive messages that land on the same role are merged, which keeps the
// responses to parallel function calls in a single turn.
func toGeminiContents(transcript []models.Message) (string, []*genai.Content, error) {
	var system []string
	var contents []*genai.Content

	push := func(role string, parts ...genai.Part) {
		if len(parts) == 0 {
			return
		}
		if n := len(contents); n > 0 && contents[n-1].Role == role {
			contents[n-1].Parts = append(contents[n-1].Parts, parts...)
			return
		}
		contents = append(contents, &genai.Content{Role: role, Parts: parts})
	}

	for _, msg := range transcript {
		switch msg.Role {
		case models.RoleSystem:
			if msg.Content != "" {
				system = append(system, msg.Content)
			}
		case models.RoleUser:
			if msg.Content != "" {
				push("user", genai.Text(msg.Content))
			}
		case models.RoleAssistant:
			var parts []genai.Part
			if msg.Content != "" {
				parts = append(parts, genai.Text(msg.Content))
			}
			for _, call := range msg.ToolCalls {
				args := map[string]any{}
				if call.Arguments != "" {
					if err := sonic.UnmarshalString(call.Arguments, &args); err != nil {
						return "", nil, fmt.Errorf("invalid arguments on tool call %s: %w", call.ID, err)
					}
				}
				parts = append(parts, genai.FunctionCall{Name: call.Name, Args: args})
			}
			push("model", parts...)
		case models.RoleTool:
			response := map[string]any{}
			if err := sonic.UnmarshalString(msg.Content, &response); err != nil {
				response = map[string]any{"result": msg.Content}
			}
			push("user", genai.FunctionResponse{Name: msg.Name, Response: response})
		default:
			return "", nil, fmt.Errorf("unsupported message role %q", msg.Role)
		}
	}

	return strings.Join(system, "\n\n"), contents, nil
}

func fromGeminiResponse(resp *genai.GenerateContentResponse) (*models.Message, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("Gemini returned no candidates")
	}

	reply := &models.Message{Role: models.RoleAssistant}
	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		switch p := part.(type) {
		case genai.Text:
			text.WriteString(string(p))
		case genai.FunctionCall:
			args, err := sonic.MarshalString(p.Args)
			if err != nil {
				return nil, fmt.Errorf("failed to encode function call args: %w", err)
			}
			// Gemini function calls carry no id; mint one so tool results can be matched.
			reply.ToolCalls = append(reply.ToolCalls, models.ToolCall{
				ID:        "call_" + uuid.NewString(),
				Name:      p.Name,
				Arguments: args,
			})
		}
	}
	reply.Content = text.String()
	return reply, nil
}

func geminiDeclarations(tools []models.ToolSpec) []*genai.FunctionDeclaration {
	decls := make([]*genai.FunctionDeclaration, 0, len(tools))
	for _, t := range tools {
		decls = append(decls, &genai.FunctionDeclaration{
			Name:        t.Name,
			Description: t.Description,
			Parameters:  geminiSchema(t.Parameters),
		})
	}
	return decls
}

// geminiSchema converts the JSON-schema subset used by the tool catalog.
func geminiSchema(schema map[string]any) *genai.Schema {
	if schema == nil {
		return nil
	}

	out := &genai.Schema{}
	switch schema["type"] {
	case "object":
		out.Type = genai.TypeObject
	case "string":
		out.Type = genai.TypeString
	case "integer":
		out.Type = genai.TypeInteger
	case "number":
		out.Type = genai.TypeNumber
	case "boolean":
		out.Type = genai.TypeBoolean
	case "array":
		out.Type = genai.TypeArray
	}
	if d, ok := schema["description"].(string); ok {
		out.Description = d
	}
	if props, ok := schema["properties"].(map[string]any); ok {
		out.Properties = make(map[string]*genai.Schema, len(props))
		for name, p := range props {
			if ps, ok := p.(map[string]any); ok {
				out.Properties[name] = geminiSchema(ps)
			}
		}
	}
	if req, ok := schema["required"].([]string); ok {
		out.Required = req
	}
	if items, ok := schema["items"].(map[string]any); ok {
		out.Items = geminiSchema(items)
	}
	return out
}
