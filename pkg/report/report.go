package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/kball/docask/internal/models"
)

const (
	bannerWidth   = 50
	previewLength = 200
	maxCitations  = 3
)

// Options controls which optional sections are printed.
type Options struct {
	Citations bool
	Themes    bool
}

// Reporter formats the final answer, citations, and theme sections.
type Reporter struct {
	out io.Writer
}

func New(out io.Writer) *Reporter {
	return &Reporter{out: out}
}

// Print writes the answer report: the answer itself, the optional
// citation previews of the loaded documents, the optional recurring
// themes, and the completion notice.
func (r *Reporter) Print(answer string, docs []models.Document, opts Options) {
	r.banner("ANSWER")
	fmt.Fprintln(r.out, answer)

	if opts.Citations {
		r.banner("CITATIONS")
		fmt.Fprintln(r.out, "Based on the following document sections:")
		for i, doc := range docs {
			if i >= maxCitations {
				break
			}
			fmt.Fprintf(r.out, "\nDocument %d (%s):\n%s\n", i+1, doc.Path, Preview(doc.Content, previewLength))
		}
	}

	if opts.Themes {
		r.banner("RECURRING THEMES")
		fmt.Fprintln(r.out, "Key themes identified in the documents:")
		themes := DetectThemes(docs)
		if len(themes) == 0 {
			fmt.Fprintln(r.out, "General content")
		} else {
			for _, theme := range themes {
				fmt.Fprintf(r.out, "- %s\n", theme)
			}
		}
	}

	fmt.Fprintf(r.out, "\n%s\n", strings.Repeat("=", bannerWidth))
	fmt.Fprintln(r.out, color.GreenString("Processing complete!"))
}

func (r *Reporter) banner(title string) {
	line := strings.Repeat("=", bannerWidth)
	fmt.Fprintf(r.out, "\n%s\n%s\n%s\n", line, color.CyanString(title), line)
}

// Preview truncates content to limit bytes, marking the cut with an
// ellipsis only when something was dropped.
func Preview(content string, limit int) string {
	if len(content) <= limit {
		return content
	}
	return content[:limit] + "..."
}

var themeKeywords = []struct {
	label    string
	keywords []string
}{
	{"Learning and Education", []string{"learning", "education"}},
	{"Technology and Software", []string{"technology", "software"}},
	{"Science and Research", []string{"science", "research"}},
	{"Business and Management", []string{"business", "management"}},
}

// DetectThemes runs keyword matching over the combined document text and
// returns the matching theme labels in a fixed order.
func DetectThemes(docs []models.Document) []string {
	parts := make([]string, 0, len(docs))
	for _, doc := range docs {
		parts = append(parts, doc.Content)
	}
	text := strings.ToLower(strings.Join(parts, " "))

	var themes []string
	for _, entry := range themeKeywords {
		for _, keyword := range entry.keywords {
			if strings.Contains(text, keyword) {
				themes = append(themes, entry.label)
				break
			}
		}
	}
	return themes
}
