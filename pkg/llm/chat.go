package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/kball/docask/internal/models"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/schema"
)

// Groq speaks the OpenAI chat completion protocol.
const groqBaseURL = "https://api.groq.com/openai/v1"

const defaultSystemTemplate = `Use the following context to answer the question at the end.
If you don't know the answer, just say that you don't know, don't try to make up an answer.`

// ChatConfig represents the configuration for a chat engine.
type ChatConfig struct {
	APIKey         string
	BaseURL        string
	Model          string
	Temperature    float64
	MaxTokens      int
	SystemTemplate string
}

// ChatEngine answers questions through a hosted LLM, grounding each
// answer in the retrieved context chunks.
type ChatEngine struct {
	config ChatConfig
	llm    llms.Model
}

// NewWithConfig creates a new ChatEngine with the given configuration.
func NewWithConfig(config ChatConfig) (*ChatEngine, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if config.BaseURL == "" {
		config.BaseURL = groqBaseURL
	}
	if config.Model == "" {
		config.Model = "llama3-8b-8192"
	}
	// Zero is a valid temperature; the 0.1 default belongs to the
	// config layer.
	if config.Temperature < 0 || config.Temperature > 2 {
		return nil, fmt.Errorf("temperature must be between 0 and 2")
	}
	if config.MaxTokens < 0 {
		return nil, fmt.Errorf("max tokens cannot be negative")
	} else if config.MaxTokens == 0 {
		config.MaxTokens = 2048
	}
	if config.SystemTemplate == "" {
		config.SystemTemplate = defaultSystemTemplate
	}

	client, err := openai.New(
		openai.WithToken(config.APIKey),
		openai.WithModel(config.Model),
		openai.WithBaseURL(config.BaseURL),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize LLM: %w", err)
	}

	return &ChatEngine{
		config: config,
		llm:    client,
	}, nil
}

// Answer generates a response to the question using the retrieved chunks
// as context.
func (ce *ChatEngine) Answer(ctx context.Context, question string, chunks []models.Chunk) (string, error) {
	var contextBuilder strings.Builder
	for _, chunk := range chunks {
		contextBuilder.WriteString(fmt.Sprintf("Source: %s\n%s\n\n", chunk.Path, chunk.Content))
	}

	prompt := fmt.Sprintf("Context:\n%s\nQuestion: %s\n\nAnswer:",
		contextBuilder.String(), question)

	content := []llms.MessageContent{
		llms.TextParts(schema.ChatMessageTypeSystem, ce.config.SystemTemplate),
		llms.TextParts(schema.ChatMessageTypeHuman, prompt),
	}

	response, err := ce.llm.GenerateContent(ctx, content,
		llms.WithTemperature(ce.config.Temperature),
		llms.WithMaxTokens(ce.config.MaxTokens),
	)
	if err != nil {
		return "", fmt.Errorf("chat error: %w", err)
	}

	if len(response.Choices) == 0 || response.Choices[0].Content == "" {
		return "", fmt.Errorf("no response from LLM")
	}

	return response.Choices[0].Content, nil
}
