package handlers

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	ghhtml "github.com/yuin/goldmark/renderer/html"

	"notes-workspace/internal/contextutil"
	"notes-workspace/internal/workspace"
)

// PreviewHandler renders a note's markdown content as an HTML page.
type PreviewHandler struct {
	session  *workspace.Session
	parser   goldmark.Markdown
	template *template.Template
}

// previewPageData holds template data for rendered note pages.
type previewPageData struct {
	Title   string
	Tags    string
	Updated string
	Content template.HTML
}

// NewPreviewHandler creates a new handler for note previews.
func NewPreviewHandler(session *workspace.Session) *PreviewHandler {
	tmpl := template.Must(template.New("preview").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{.Title}}</title>
  <style>
    :root {
      color-scheme: dark;
    }
    body {
      font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', sans-serif;
      margin: 0 auto;
      padding: 2rem;
      max-width: 900px;
      line-height: 1.7;
      background: #050b18;
      color: #e4ecff;
    }
    header {
      margin-bottom: 2rem;
      border-bottom: 1px solid rgba(148, 163, 184, 0.2);
      padding-bottom: 1.5rem;
    }
    h1 {
      margin-top: 0;
      color: #fff;
      font-size: 2rem;
    }
    article {
      background: rgba(12, 19, 35, 0.85);
      border: 1px solid rgba(99, 102, 241, 0.2);
      border-radius: 16px;
      padding: 2rem;
      box-shadow: 0 15px 35px rgba(2, 6, 23, 0.8);
    }
    article h2, article h3, article h4 {
      color: #c7d2fe;
      margin-top: 1.5rem;
    }
    article p {
      color: #cbd5f5;
    }
    pre {
      background: #0f172a;
      padding: 1rem;
      overflow-x: auto;
      border-radius: 10px;
      border: 1px solid rgba(99, 102, 241, 0.2);
    }
    code {
      font-family: 'SFMono-Regular', Consolas, 'Liberation Mono', Menlo, monospace;
      background: rgba(99, 102, 241, 0.18);
      padding: 2px 5px;
      border-radius: 6px;
      color: #cbd5ff;
    }
    pre code {
      background: transparent;
      padding: 0;
    }
    blockquote {
      border-left: 4px solid rgba(96, 165, 250, 0.6);
      padding-left: 1rem;
      margin-left: 0;
      color: #93c5fd;
      background: rgba(59, 130, 246, 0.08);
      border-radius: 6px;
    }
    a {
      color: #60a5fa;
      text-decoration: none;
    }
    a:hover {
      text-decoration: underline;
    }
    .meta {
      color: #94a3b8;
      font-size: 0.95rem;
      margin-top: 0.5rem;
    }
    @media (max-width: 640px) {
      body {
        padding: 1rem;
      }
      article {
        padding: 1.25rem;
      }
    }
  </style>
</head>
<body>
  <header>
    <h1>{{.Title}}</h1>
    <p class="meta">Tags: {{.Tags}}{{if .Updated}} &middot; Updated: {{.Updated}}{{end}}</p>
  </header>
  <article>{{.Content}}</article>
</body>
</html>`))

	return &PreviewHandler{
		session: session,
		parser: goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				extension.Table,
				extension.TaskList,
				extension.Strikethrough,
				extension.Linkify,
				extension.Typographer,
			),
			goldmark.WithRendererOptions(
				ghhtml.WithUnsafe(),
			),
			goldmark.WithParserOptions(
				parser.WithAutoHeadingID(),
			),
		),
		template: tmpl,
	}
}

// ServeHTTP renders the requested note as HTML.
func (h *PreviewHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	note, ok := h.session.Note(chi.URLParam(r, "id"))
	if !ok {
		http.Error(w, "note not found", http.StatusNotFound)
		return
	}

	htmlContent, err := h.renderMarkdown([]byte(note.Content))
	if err != nil {
		logger.ErrorContext(ctx, "failed to render markdown", "note_id", note.ID, "error", err)
		http.Error(w, "failed to render note", http.StatusInternalServerError)
		return
	}

	title := note.Title
	if title == "" {
		title = "Untitled note"
	}
	tags := "none"
	if len(note.Tags) > 0 {
		tags = strings.Join(note.Tags, ", ")
	}

	pageData := previewPageData{
		Title:   title,
		Tags:    tags,
		Updated: note.UpdatedAt,
		Content: template.HTML(htmlContent),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.template.Execute(w, pageData); err != nil {
		logger.ErrorContext(ctx, "failed to execute preview template", "note_id", note.ID, "error", err)
		http.Error(w, "failed to render note", http.StatusInternalServerError)
		return
	}
}

func (h *PreviewHandler) renderMarkdown(content []byte) (string, error) {
	var buf bytes.Buffer
	if err := h.parser.Convert(content, &buf); err != nil {
		return "", fmt.Errorf("convert markdown: %w", err)
	}
	return buf.String(), nil
}
