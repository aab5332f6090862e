package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/kball/docask/internal/models"
	"github.com/kball/docask/internal/types"
	cfgPkg "github.com/kball/docask/pkg/config"
	"github.com/kball/docask/pkg/llm"
	"github.com/kball/docask/pkg/loader"
	"github.com/kball/docask/pkg/processor"
	"github.com/kball/docask/pkg/report"
	"github.com/kball/docask/pkg/store"
	"github.com/schollz/progressbar/v3"
)

type Options struct {
	ConfigPath   string
	APIKey       string
	Directory    string
	Question     string
	NoCitations  bool
	NoThemes     bool
	Model        string
	Temperature  float64
	MaxTokens    int
	ChunkSize    int
	ChunkOverlap int
	TopK         int
	OllamaURL    string
	EmbedModel   string
	DBUrl        string
}

func main() {
	opts := parseFlags()

	if err := run(opts); err != nil {
		log.Fatal(err)
	}
}

func parseFlags() Options {
	var opts Options

	flag.StringVar(&opts.ConfigPath, "config", "", "Path to config file")
	flag.StringVar(&opts.APIKey, "api-key", os.Getenv("GROQ_API_KEY"), "Groq API key")
	flag.StringVar(&opts.Directory, "directory", "", "Directory or file containing documents")
	flag.StringVar(&opts.Question, "question", "", "Question to ask")
	flag.BoolVar(&opts.NoCitations, "no-citations", false, "Disable citations in output")
	flag.BoolVar(&opts.NoThemes, "no-themes", false, "Disable theme analysis in output")
	flag.StringVar(&opts.Model, "model", "llama3-8b-8192", "LLM model to use")
	flag.Float64Var(&opts.Temperature, "temperature", 0.1, "Set the LLM temperature")
	flag.IntVar(&opts.MaxTokens, "max-tokens", 2048, "Maximum tokens for LLM response")
	flag.IntVar(&opts.ChunkSize, "chunk-size", 1000, "Size of text chunks")
	flag.IntVar(&opts.ChunkOverlap, "chunk-overlap", 200, "Overlap between text chunks")
	flag.IntVar(&opts.TopK, "top-k", 4, "Number of chunks to retrieve")
	flag.StringVar(&opts.OllamaURL, "ollama-url", os.Getenv("OLLAMA_BASE_URL"), "Ollama server URL for embeddings")
	flag.StringVar(&opts.EmbedModel, "embed-model", "nomic-embed-text:latest", "Embedding model to use")
	flag.StringVar(&opts.DBUrl, "db-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection string for a persistent index")
	flag.Parse()

	return opts
}

// buildConfig loads the config file (or defaults) and lets explicitly set
// command line flags win over it.
func buildConfig(opts Options) (*cfgPkg.Config, error) {
	cfg, err := cfgPkg.LoadConfig(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	if opts.APIKey != "" {
		cfg.LLM.APIKey = opts.APIKey
	}
	if opts.OllamaURL != "" {
		cfg.Embedder.BaseURL = opts.OllamaURL
	}
	if opts.DBUrl != "" {
		cfg.Database.URL = opts.DBUrl
	}

	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if set["model"] {
		cfg.LLM.Model = opts.Model
	}
	if set["temperature"] {
		cfg.LLM.Temperature = opts.Temperature
	}
	if set["max-tokens"] {
		cfg.LLM.MaxTokens = opts.MaxTokens
	}
	if set["chunk-size"] {
		cfg.Processor.ChunkSize = opts.ChunkSize
	}
	if set["chunk-overlap"] {
		cfg.Processor.ChunkOverlap = opts.ChunkOverlap
	}
	if set["top-k"] {
		cfg.Retrieval.TopK = opts.TopK
	}
	if set["embed-model"] {
		cfg.Embedder.Model = opts.EmbedModel
	}

	return cfg, nil
}

func getProgressBar(total int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetDescription(color.BlueString(description)),
		progressbar.OptionSetItsString("chunks"),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionSetRenderBlankState(true),
	)
}

func getSpinner(description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(-1,
		progressbar.OptionSetDescription(color.CyanString(description)),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetWidth(20),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetRenderBlankState(true),
	)
}

// startSpinner renders a ticking spinner until the returned stop function
// is called. Calling stop more than once is safe.
func startSpinner(description string) func() {
	spinner := getSpinner(description)
	done := make(chan struct{})

	go func() {
		for {
			select {
			case <-done:
				return
			case <-time.After(100 * time.Millisecond):
				spinner.Add(1)
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			close(done)
			spinner.Finish()
		})
	}
}

func run(opts Options) error {
	if opts.Directory == "" {
		return fmt.Errorf("--directory is required")
	}
	if opts.Question == "" {
		return fmt.Errorf("--question is required")
	}

	cfg, err := buildConfig(opts)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		for _, e := range errs {
			color.Red("%v", e)
		}
		return fmt.Errorf("invalid configuration")
	}

	ctx := context.Background()

	// Load documents
	loadSpinner := getSpinner(" Loading documents...")
	docLoader := loader.NewWithConfig(loader.LoaderConfig{
		Extensions: cfg.Loader.Extensions,
		OnProgress: func(string) { loadSpinner.Add(1) },
	})
	docs, err := docLoader.Load(opts.Directory)
	loadSpinner.Finish()
	if err != nil {
		return fmt.Errorf("failed to load documents: %w", err)
	}
	if len(docs) == 0 {
		return fmt.Errorf("no documents found to process")
	}
	color.Blue("Loaded %d document(s)", len(docs))

	// Split into chunks
	proc := processor.NewWithConfig(processor.ProcessorConfig{
		ChunkSize:    cfg.Processor.ChunkSize,
		ChunkOverlap: cfg.Processor.ChunkOverlap,
	})
	chunks, err := proc.Process(docs)
	if err != nil {
		return fmt.Errorf("failed to process documents: %w", err)
	}
	if len(chunks) == 0 {
		return fmt.Errorf("documents produced no chunks")
	}
	color.Blue("Created %d text chunks", len(chunks))

	// Embed and index
	embedder, err := llm.NewEmbedderWithConfig(llm.EmbedderConfig{
		Model:     cfg.Embedder.Model,
		BaseURL:   cfg.Embedder.BaseURL,
		RateLimit: cfg.Embedder.RateLimit,
		BatchSize: cfg.Embedder.BatchSize,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize embedder: %w", err)
	}

	if err := embedChunks(ctx, embedder, chunks, cfg.Embedder.BatchSize); err != nil {
		return err
	}

	vectorStore, err := newVectorStore(cfg, chunks)
	if err != nil {
		return fmt.Errorf("failed to initialize vector store: %w", err)
	}
	defer vectorStore.Close()

	if err := vectorStore.Add(ctx, chunks); err != nil {
		return fmt.Errorf("failed to index chunks: %w", err)
	}

	// Retrieve
	stopSearch := startSpinner(" Searching for relevant information...")
	queryEmbedding, err := embedder.EmbedQuery(ctx, opts.Question)
	if err != nil {
		stopSearch()
		return fmt.Errorf("failed to embed question: %w", err)
	}

	retrieved, err := vectorStore.Search(ctx, queryEmbedding, cfg.Retrieval.TopK)
	stopSearch()
	if err != nil {
		return fmt.Errorf("failed to search index: %w", err)
	}

	// Generate
	chatEngine, err := llm.NewWithConfig(llm.ChatConfig{
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		MaxTokens:   cfg.LLM.MaxTokens,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize chat engine: %w", err)
	}

	stopGenerate := startSpinner(" Generating answer...")
	answer, err := chatEngine.Answer(ctx, opts.Question, retrieved)
	stopGenerate()
	if err != nil {
		return fmt.Errorf("failed to generate answer: %w", err)
	}

	report.New(os.Stdout).Print(answer, docs, report.Options{
		Citations: !opts.NoCitations,
		Themes:    !opts.NoThemes,
	})

	return nil
}

// embedChunks fills in chunk embeddings batch by batch, driving the
// progress bar as it goes.
func embedChunks(ctx context.Context, embedder types.Embedder, chunks []models.Chunk, batchSize int) error {
	if batchSize < 1 {
		batchSize = 64
	}

	bar := getProgressBar(len(chunks), " Embedding chunks...")
	for i := 0; i < len(chunks); i += batchSize {
		end := i + batchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[i:end]

		texts := make([]string, len(batch))
		for j, chunk := range batch {
			texts[j] = chunk.Content
		}

		vectors, err := embedder.EmbedDocuments(ctx, texts)
		if err != nil {
			bar.Finish()
			return fmt.Errorf("failed to embed chunks: %w", err)
		}
		if len(vectors) != len(batch) {
			bar.Finish()
			return fmt.Errorf("embedder returned %d vectors for %d chunks", len(vectors), len(batch))
		}

		for j := range batch {
			chunks[i+j].Embedding = vectors[j]
		}
		bar.Add(len(batch))
	}
	bar.Finish()

	return nil
}

// newVectorStore picks the pgvector backend when a database URL is
// configured, otherwise the in-memory index.
func newVectorStore(cfg *cfgPkg.Config, chunks []models.Chunk) (types.VectorStore, error) {
	if cfg.Database.URL == "" {
		return store.NewMemoryStore(), nil
	}

	dim := cfg.Database.VectorDim
	if len(chunks) > 0 && len(chunks[0].Embedding) > 0 {
		dim = len(chunks[0].Embedding)
	}

	return store.NewWithConfig(store.VectorStoreConfig{
		ConnString: cfg.Database.URL,
		TableName:  cfg.Database.TableName,
		VectorDim:  dim,
		BatchSize:  cfg.Database.BatchSize,
	})
}
