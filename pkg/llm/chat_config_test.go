package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZeroTemperaturePreserved(t *testing.T) {
	engine, err := NewWithConfig(ChatConfig{
		APIKey:      "gsk_test_key",
		Temperature: 0,
	})
	require.NoError(t, err)
	assert.Equal(t, 0.0, engine.config.Temperature)
}

func TestChatConfigDefaults(t *testing.T) {
	engine, err := NewWithConfig(ChatConfig{APIKey: "gsk_test_key"})
	require.NoError(t, err)

	assert.Equal(t, groqBaseURL, engine.config.BaseURL)
	assert.Equal(t, "llama3-8b-8192", engine.config.Model)
	assert.Equal(t, 2048, engine.config.MaxTokens)
	assert.Equal(t, defaultSystemTemplate, engine.config.SystemTemplate)
}
