// Package markdown converts writer-submitted pitch markdown into an HTML
// fragment that can be embedded without further sanitization.
package markdown

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// ErrMarkdownRender indicates the markdown engine failed.
var ErrMarkdownRender = errors.New("markdown render failed")

// Renderer abstracts markdown to HTML conversion.
type Renderer interface {
	Render(text string) (string, error)
}

// GoldmarkRenderer renders markdown with goldmark, then runs the HTML through
// a bluemonday UGC policy. Raw HTML in the source is omitted by goldmark
// (html.WithUnsafe() is never set); autolinks and entity-encoded link
// destinations are only caught by the sanitizer.
type GoldmarkRenderer struct {
	highlightStyle string
	policy         *bluemonday.Policy
}

// NewGoldmarkRenderer creates a renderer; style is the chroma style used for
// fenced code blocks ("" keeps the default).
func NewGoldmarkRenderer(style string) *GoldmarkRenderer {
	return &GoldmarkRenderer{
		highlightStyle: style,
		policy:         newPolicy(),
	}
}

// newPolicy - UGC policy, giữ class (chroma) và id (heading anchor)
func newPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class", "id").Globally()
	return p
}

// Render converts text to an HTML fragment.
// Blank input returns "" without touching the engine.
func (r *GoldmarkRenderer) Render(text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", nil
	}

	// Engine mới cho mỗi lần gọi, không share parser state giữa các input
	var buf bytes.Buffer
	if err := r.newEngine().Convert([]byte(text), &buf); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMarkdownRender, err)
	}
	return r.policy.SanitizeReader(&buf).String(), nil
}

func (r *GoldmarkRenderer) newEngine() goldmark.Markdown {
	highlightOpts := []highlighting.Option{
		highlighting.WithFormatOptions(
			chromahtml.WithClasses(true),
		),
	}
	if r.highlightStyle != "" {
		highlightOpts = append(highlightOpts, highlighting.WithStyle(r.highlightStyle))
	}

	return goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(highlightOpts...),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithXHTML(),
		),
	)
}
