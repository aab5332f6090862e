package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const apiKeyPlaceholder = "your_groq_api_key_here"

type LLMConfig struct {
	APIKey      string  `yaml:"api_key"`
	BaseURL     string  `yaml:"base_url"`
	Model       string  `yaml:"model"`
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float64 `yaml:"temperature"`
}

type EmbedderConfig struct {
	BaseURL   string  `yaml:"base_url"`
	Model     string  `yaml:"model"`
	RateLimit float64 `yaml:"rate_limit"`
	BatchSize int     `yaml:"batch_size"`
}

type DatabaseConfig struct {
	URL       string `yaml:"url"`
	TableName string `yaml:"table_name"`
	VectorDim int    `yaml:"vector_dim"`
	BatchSize int    `yaml:"batch_size"`
}

type LoaderConfig struct {
	Extensions []string `yaml:"extensions"`
}

type ProcessorConfig struct {
	ChunkSize    int `yaml:"chunk_size"`
	ChunkOverlap int `yaml:"chunk_overlap"`
}

type RetrievalConfig struct {
	TopK int `yaml:"top_k"`
}

type Config struct {
	LLM       LLMConfig       `yaml:"llm"`
	Embedder  EmbedderConfig  `yaml:"embedder"`
	Database  DatabaseConfig  `yaml:"database"`
	Loader    LoaderConfig    `yaml:"loader"`
	Processor ProcessorConfig `yaml:"processor"`
	Retrieval RetrievalConfig `yaml:"retrieval"`
}

func LoadConfig(path string) (*Config, error) {
	// If no path provided, try default locations
	if path == "" {
		locations := []string{
			"config.yaml",
			"config.yml",
			filepath.Join(os.Getenv("HOME"), ".config/docask/config.yaml"),
			"/etc/docask/config.yaml",
		}

		for _, loc := range locations {
			if _, err := os.Stat(loc); err == nil {
				path = loc
				break
			}
		}
	}

	if path == "" {
		return getDefaultConfig()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %v", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %v", err)
	}

	// Merge with environment variables
	mergeWithEnv(&config)

	// Apply defaults for unset values
	applyDefaults(&config)

	return &config, nil
}

func getDefaultConfig() (*Config, error) {
	config := &Config{}
	mergeWithEnv(config)
	applyDefaults(config)
	return config, nil
}

func applyDefaults(config *Config) {
	if config.LLM.BaseURL == "" {
		config.LLM.BaseURL = "https://api.groq.com/openai/v1"
	}
	if config.LLM.Model == "" {
		config.LLM.Model = "llama3-8b-8192"
	}
	if config.LLM.MaxTokens == 0 {
		config.LLM.MaxTokens = 2048
	}
	if config.LLM.Temperature == 0 {
		config.LLM.Temperature = 0.1
	}

	if config.Embedder.BaseURL == "" {
		config.Embedder.BaseURL = "http://localhost:11434"
	}
	if config.Embedder.Model == "" {
		config.Embedder.Model = "nomic-embed-text:latest"
	}
	if config.Embedder.RateLimit == 0 {
		config.Embedder.RateLimit = 10.0
	}
	if config.Embedder.BatchSize == 0 {
		config.Embedder.BatchSize = 64
	}

	if config.Database.TableName == "" {
		config.Database.TableName = "documents"
	}
	if config.Database.VectorDim == 0 {
		config.Database.VectorDim = 768
	}
	if config.Database.BatchSize == 0 {
		config.Database.BatchSize = 100
	}

	if len(config.Loader.Extensions) == 0 {
		config.Loader.Extensions = []string{".txt", ".md", ".py", ".js", ".html", ".css"}
	}

	if config.Processor.ChunkSize == 0 {
		config.Processor.ChunkSize = 1000
	}
	if config.Processor.ChunkOverlap == 0 {
		config.Processor.ChunkOverlap = 200
	}

	if config.Retrieval.TopK == 0 {
		config.Retrieval.TopK = 4
	}
}

func mergeWithEnv(config *Config) {
	if apiKey := os.Getenv("GROQ_API_KEY"); apiKey != "" {
		config.LLM.APIKey = apiKey
	}
	if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" {
		config.Embedder.BaseURL = baseURL
	}
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		config.Database.URL = dbURL
	}
}
