package models

// Document is a single loaded source file.
type Document struct {
	ID       string
	Path     string
	Title    string
	Content  string
	Metadata map[string]interface{}
}

// Chunk is one splitter-produced piece of a document. Embedding is nil
// until the vector has been computed.
type Chunk struct {
	DocumentID string
	Path       string
	Index      int
	Content    string
	Embedding  []float32
}
