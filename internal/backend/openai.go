// ABOUTME: OpenAI Assistants API implementation of the session.Backend interface.
// ABOUTME: Thin wrapper over go-openai; no retry or state beyond the API client.

package backend

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/2389/chat-relay/internal/session"
)

// OpenAI implements session.Backend against the OpenAI Assistants v2 API.
type OpenAI struct {
	client *openai.Client
}

// NewOpenAI creates an OpenAI backend using the given API key.
func NewOpenAI(apiKey string) *OpenAI {
	return &OpenAI{client: openai.NewClient(apiKey)}
}

// NewOpenAIWithClient wraps an existing go-openai client. Used by tests to
// point the backend at a stub server.
func NewOpenAIWithClient(client *openai.Client) *OpenAI {
	return &OpenAI{client: client}
}

// CreateAssistant registers an assistant and returns its ID.
func (o *OpenAI) CreateAssistant(ctx context.Context, cfg session.AssistantConfig) (string, error) {
	assistant, err := o.client.CreateAssistant(ctx, assistantRequest(cfg))
	if err != nil {
		return "", fmt.Errorf("creating assistant: %w", err)
	}
	return assistant.ID, nil
}

// UpdateAssistant replaces the configuration of an existing assistant.
func (o *OpenAI) UpdateAssistant(ctx context.Context, assistantID string, cfg session.AssistantConfig) error {
	if _, err := o.client.ModifyAssistant(ctx, assistantID, assistantRequest(cfg)); err != nil {
		return fmt.Errorf("modifying assistant %s: %w", assistantID, err)
	}
	return nil
}

// assistantRequest converts an AssistantConfig to the go-openai request type.
func assistantRequest(cfg session.AssistantConfig) openai.AssistantRequest {
	name := cfg.Name
	instructions := cfg.Instructions
	return openai.AssistantRequest{
		Model:        cfg.Model,
		Name:         &name,
		Instructions: &instructions,
	}
}

// CreateThread creates an empty conversation thread.
func (o *OpenAI) CreateThread(ctx context.Context) (string, error) {
	thread, err := o.client.CreateThread(ctx, openai.ThreadRequest{})
	if err != nil {
		return "", fmt.Errorf("creating thread: %w", err)
	}
	return thread.ID, nil
}

// AddUserMessage appends a user-authored message to the thread.
func (o *OpenAI) AddUserMessage(ctx context.Context, threadID, text string) error {
	_, err := o.client.CreateMessage(ctx, threadID, openai.MessageRequest{
		Role:    openai.ChatMessageRoleUser,
		Content: text,
	})
	if err != nil {
		return fmt.Errorf("creating message on thread %s: %w", threadID, err)
	}
	return nil
}

// CreateRun starts an assistant run on the thread.
func (o *OpenAI) CreateRun(ctx context.Context, threadID, assistantID string) (string, error) {
	run, err := o.client.CreateRun(ctx, threadID, openai.RunRequest{
		AssistantID: assistantID,
	})
	if err != nil {
		return "", fmt.Errorf("creating run on thread %s: %w", threadID, err)
	}
	return run.ID, nil
}

// RunStatus fetches the current status string of a run.
func (o *OpenAI) RunStatus(ctx context.Context, threadID, runID string) (string, error) {
	run, err := o.client.RetrieveRun(ctx, threadID, runID)
	if err != nil {
		return "", fmt.Errorf("retrieving run %s: %w", runID, err)
	}
	return string(run.Status), nil
}

// LatestAssistantMessage returns the newest message's first text block.
// The API lists messages most-recent-first. Returns ok=false when the thread
// has no messages.
func (o *OpenAI) LatestAssistantMessage(ctx context.Context, threadID string) (string, bool, error) {
	limit := 1
	list, err := o.client.ListMessage(ctx, threadID, &limit, nil, nil, nil, nil)
	if err != nil {
		return "", false, fmt.Errorf("listing messages on thread %s: %w", threadID, err)
	}

	if len(list.Messages) == 0 {
		return "", false, nil
	}

	for _, content := range list.Messages[0].Content {
		if content.Text != nil {
			return content.Text.Value, true, nil
		}
	}
	return "", false, nil
}
