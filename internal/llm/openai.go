package llm

import (
	"context"
	"errors"

	openai "github.com/sashabaranov/go-openai"
)

// Message is a minimal chat message used by the core services.
// Role must be one of: "system", "user", or "assistant".
type Message struct {
	Role    string
	Content string
}

// Client defines the methods required by the note generator and the section
// assistant.  Generate must return a JSON object as text.
type Client interface {
	Chat(ctx context.Context, messages []Message) (string, error)
	Generate(ctx context.Context, instructions, input string) (string, error)
}

// Config selects the API key and models.
type Config struct {
	APIKey    string
	BaseURL   string
	ChatModel string
	NoteModel string
}

// OpenAIClient calls the OpenAI API for chat and note generation.
type OpenAIClient struct {
	client    *openai.Client
	chatModel string
	noteModel string
}

// NewOpenAIClient constructs an OpenAI-backed LLM client, falling back to
// sensible model defaults.
func NewOpenAIClient(cfg Config) *OpenAIClient {
	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = cfg.BaseURL
	}
	chatModel := cfg.ChatModel
	if chatModel == "" {
		chatModel = "gpt-4o-mini"
	}
	noteModel := cfg.NoteModel
	if noteModel == "" {
		noteModel = chatModel
	}
	return &OpenAIClient{
		client:    openai.NewClientWithConfig(oc),
		chatModel: chatModel,
		noteModel: noteModel,
	}
}

// Chat runs one completion over the conversation and returns the reply text,
// or "" when the model produced no choice.
func (c *OpenAIClient) Chat(ctx context.Context, messages []Message) (string, error) {
	if c.client == nil {
		return "", errors.New("openai client not initialized")
	}
	history := make([]openai.ChatCompletionMessage, len(messages))
	for i, m := range messages {
		history[i] = openai.ChatCompletionMessage{Role: chatRole(m.Role), Content: m.Content}
	}
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.chatModel,
		Messages:    history,
		Temperature: 0.2,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

// chatRole maps caller roles onto the three the API accepts.  Clinician or
// other free-form speakers are sent as user turns.
func chatRole(role string) string {
	switch role {
	case openai.ChatMessageRoleSystem, openai.ChatMessageRoleAssistant:
		return role
	default:
		return openai.ChatMessageRoleUser
	}
}

// Generate runs a single instruction/input exchange in JSON mode.
func (c *OpenAIClient) Generate(ctx context.Context, instructions, input string) (string, error) {
	if c.client == nil {
		return "", errors.New("openai client not initialized")
	}
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.noteModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: instructions},
			{Role: openai.ChatMessageRoleUser, Content: input},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Temperature: 0.1,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
