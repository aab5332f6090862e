package loader

import (
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/kball/docask/internal/models"
)

type LoaderConfig struct {
	Extensions []string
	OnProgress func(path string)
}

type Loader struct {
	config LoaderConfig
}

func NewWithConfig(config LoaderConfig) *Loader {
	if len(config.Extensions) == 0 {
		config.Extensions = []string{".txt", ".md", ".py", ".js", ".html", ".css"}
	}

	return &Loader{config: config}
}

func New() *Loader {
	return NewWithConfig(LoaderConfig{})
}

// Load reads documents from a single file or, recursively, from a
// directory. Directory walks only pick up files with an allowed
// extension; a single file path is loaded regardless of extension.
func (l *Loader) Load(path string) ([]models.Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("path %q not found: %w", path, err)
	}

	if !info.IsDir() {
		doc, err := l.loadFile(path)
		if err != nil {
			return nil, err
		}
		if doc == nil {
			return nil, nil
		}
		return []models.Document{*doc}, nil
	}

	var documents []models.Document
	walkErr := filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !l.shouldProcessFile(p) {
			return nil
		}

		doc, err := l.loadFile(p)
		if err != nil {
			// A single unreadable file should not sink the whole walk.
			log.Printf("skipping %s: %v", p, err)
			return nil
		}
		if doc != nil {
			documents = append(documents, *doc)
			if l.config.OnProgress != nil {
				l.config.OnProgress(p)
			}
		}
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("failed to walk %q: %w", path, walkErr)
	}

	return documents, nil
}

func (l *Loader) shouldProcessFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, allowed := range l.config.Extensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

func (l *Loader) loadFile(path string) (*models.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %q: %w", path, err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %q: %w", path, err)
	}

	content := string(data)
	title := filepath.Base(path)

	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".html" || ext == ".htm" {
		extracted, htmlTitle, err := extractHTML(content)
		if err != nil {
			return nil, fmt.Errorf("failed to parse HTML in %q: %w", path, err)
		}
		content = extracted
		if htmlTitle != "" {
			title = htmlTitle
		}
	}

	if strings.TrimSpace(content) == "" {
		return nil, nil
	}

	return &models.Document{
		ID:      path,
		Path:    path,
		Title:   title,
		Content: content,
		Metadata: map[string]interface{}{
			"size":     info.Size(),
			"modified": info.ModTime(),
			"ext":      ext,
		},
	}, nil
}

// extractHTML pulls readable text out of an HTML document, preferring the
// main content area over boilerplate.
func extractHTML(html string) (string, string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", "", err
	}

	selectors := []string{
		"main",
		"article",
		".content",
		"#content",
		".documentation",
		"#documentation",
	}

	var content string
	for _, selector := range selectors {
		if selected := doc.Find(selector); selected.Length() > 0 {
			content = selected.Text()
			break
		}
	}

	// Fallback to body if no main content found
	if content == "" {
		content = doc.Find("body").Text()
	}

	title := strings.TrimSpace(doc.Find("title").Text())

	return cleanContent(content), title, nil
}

func cleanContent(content string) string {
	return strings.TrimSpace(strings.Join(strings.Fields(content), " "))
}
