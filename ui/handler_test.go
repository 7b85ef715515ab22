package ui

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/contextpg/contextpg"
)

func newTestHandler(t *testing.T) (*Handler, *contextpg.Engine) {
	t.Helper()

	engine, err := contextpg.New(contextpg.EngineConfig{
		Defaults: contextpg.DefaultConfig(1000),
	})
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}

	handler, err := NewHandler(engine, Config{})
	if err != nil {
		t.Fatalf("NewHandler() error: %v", err)
	}
	return handler, engine
}

func TestHandlerIndex(t *testing.T) {
	handler, engine := newTestHandler(t)
	ctx := context.Background()

	for _, id := range []string{"alice", "bob"} {
		if _, err := engine.AddToContext(ctx, id, contextpg.AddParams{
			Content:  "a context item for the listing page",
			Kind:     contextpg.KindInput,
			Priority: contextpg.PriorityMedium,
		}); err != nil {
			t.Fatalf("AddToContext() error: %v", err)
		}
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	for _, id := range []string{"alice", "bob"} {
		if !strings.Contains(body, id) {
			t.Errorf("index missing consumer %q", id)
		}
	}
}

func TestHandlerIndexEmpty(t *testing.T) {
	handler, _ := newTestHandler(t)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "No consumers yet") {
		t.Error("empty index should say so")
	}
}

func TestHandlerConsumerDetail(t *testing.T) {
	handler, engine := newTestHandler(t)
	ctx := context.Background()

	if _, err := engine.AddToContext(ctx, "alice", contextpg.AddParams{
		Content:  "detail page content line",
		Kind:     contextpg.KindReply,
		Priority: contextpg.PriorityHigh,
	}); err != nil {
		t.Fatalf("AddToContext() error: %v", err)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/consumers/alice", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"alice", "detail page content line", "reply", "high"} {
		if !strings.Contains(body, want) {
			t.Errorf("detail page missing %q", want)
		}
	}
}

func TestHandlerUnknownConsumer(t *testing.T) {
	handler, _ := newTestHandler(t)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/consumers/nobody", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestHandlerMethodNotAllowed(t *testing.T) {
	handler, _ := newTestHandler(t)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}

func TestHandlerBasePath(t *testing.T) {
	engine, err := contextpg.New(contextpg.EngineConfig{
		Defaults: contextpg.DefaultConfig(1000),
	})
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}
	handler, err := NewHandler(engine, Config{BasePath: "/admin"})
	if err != nil {
		t.Fatalf("NewHandler() error: %v", err)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 under base path", rec.Code)
	}
}

func TestRenderMarkdownSanitizes(t *testing.T) {
	html, err := renderMarkdown("**bold** <script>alert('x')</script>")
	if err != nil {
		t.Fatalf("renderMarkdown() error: %v", err)
	}

	out := string(html)
	if !strings.Contains(out, "<strong>bold</strong>") {
		t.Errorf("markdown not rendered: %q", out)
	}
	if strings.Contains(out, "<script>") {
		t.Errorf("script tag survived sanitization: %q", out)
	}
}

func TestFormatHelpers(t *testing.T) {
	if got := formatTokens(950); got != "950" {
		t.Errorf("formatTokens(950) = %q", got)
	}
	if got := formatTokens(1500); got != "1.5K" {
		t.Errorf("formatTokens(1500) = %q", got)
	}
	if got := formatTokens(2500000); got != "2.5M" {
		t.Errorf("formatTokens(2500000) = %q", got)
	}
	if got := formatRatio(0.42); got != "42%" {
		t.Errorf("formatRatio(0.42) = %q", got)
	}
	if got := truncate(5, "ab"); got != "ab" {
		t.Errorf("truncate(5, ab) = %q", got)
	}
	if got := truncate(5, "abcdefgh"); got != "ab..." {
		t.Errorf("truncate(5, abcdefgh) = %q", got)
	}
	if got := formatTime(nil); got != "-" {
		t.Errorf("formatTime(nil) = %q", got)
	}
}
