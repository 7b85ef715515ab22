// Package ui provides a read-only HTTP page for inspecting engine state:
// per-consumer budget usage and the active context items, with summary
// content rendered as sanitized HTML.
package ui

import (
	"html/template"
	"net/http"
	"strings"

	"github.com/contextpg/contextpg"
)

// Config holds handler configuration.
type Config struct {
	// BasePath is the path prefix the handler is mounted at, without a
	// trailing slash (e.g. "/contextpg"). Empty means root.
	BasePath string

	// Title is the page title. Default "ContextPG".
	Title string
}

// Handler serves the inspection pages.
type Handler struct {
	engine *contextpg.Engine
	config Config
	index  *template.Template
	detail *template.Template
}

// NewHandler creates the inspection handler for the given engine.
func NewHandler(engine *contextpg.Engine, cfg Config) (*Handler, error) {
	if cfg.Title == "" {
		cfg.Title = "ContextPG"
	}

	funcs := templateFuncs()
	index, err := template.New("index").Funcs(funcs).Parse(indexTemplate)
	if err != nil {
		return nil, err
	}
	detail, err := template.New("consumer").Funcs(funcs).Parse(consumerTemplate)
	if err != nil {
		return nil, err
	}

	return &Handler{
		engine: engine,
		config: cfg,
		index:  index,
		detail: detail,
	}, nil
}

// ServeHTTP routes GET / to the consumer list and GET /consumers/{id} to
// the per-consumer detail page. All other requests 404; the handler is
// strictly read-only.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	path := strings.TrimPrefix(r.URL.Path, h.config.BasePath)
	switch {
	case path == "" || path == "/":
		h.serveIndex(w)
	case strings.HasPrefix(path, "/consumers/"):
		h.serveConsumer(w, strings.TrimPrefix(path, "/consumers/"))
	default:
		http.NotFound(w, r)
	}
}

type indexData struct {
	Title     string
	BasePath  string
	Consumers []*contextpg.ContextState
}

func (h *Handler) serveIndex(w http.ResponseWriter) {
	data := indexData{
		Title:    h.config.Title,
		BasePath: h.config.BasePath,
	}
	for _, id := range h.engine.Consumers() {
		state, err := h.engine.GetContextState(id)
		if err != nil {
			continue // consumer cleared between listing and read
		}
		data.Consumers = append(data.Consumers, state)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.index.Execute(w, data); err != nil {
		http.Error(w, "failed to render page", http.StatusInternalServerError)
	}
}

type consumerData struct {
	Title    string
	BasePath string
	State    *contextpg.ContextState
	Items    []contextpg.ContextItem
}

func (h *Handler) serveConsumer(w http.ResponseWriter, consumerID string) {
	state, err := h.engine.GetContextState(consumerID)
	if err != nil {
		http.Error(w, "consumer not found", http.StatusNotFound)
		return
	}
	items, err := h.engine.Items(consumerID)
	if err != nil {
		http.Error(w, "consumer not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	data := consumerData{
		Title:    h.config.Title,
		BasePath: h.config.BasePath,
		State:    state,
		Items:    items,
	}
	if err := h.detail.Execute(w, data); err != nil {
		http.Error(w, "failed to render page", http.StatusInternalServerError)
	}
}
