package analysis

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"BeInformed/internal/config"
	"BeInformed/internal/domain"
)

func TestAnalyzeMapsWirePayload(t *testing.T) {
	t.Parallel()

	var received map[string]any
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/analyze" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		auth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&received)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"sentiment": {"score": 0.7, "label": "positive", "confidence": 0.95},
			"political_bias": {"score": -0.2, "label": "left-leaning"},
			"sensationalism": {"score": 0.1, "label": "factual"}
		}`))
	}))
	defer srv.Close()

	client := NewClient(config.AnalysisConfig{BaseURL: srv.URL, APIKey: "token"}, srv.Client())

	analysis, err := client.Analyze(context.Background(), domain.Article{
		Title:       "Headline",
		Description: "Summary",
		Content:     "Body text",
		SourceName:  "Example",
	})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if auth != "Bearer token" {
		t.Fatalf("auth header: %q", auth)
	}
	if received["title"] != "Headline" || received["source_name"] != "Example" {
		t.Fatalf("request payload: %v", received)
	}

	if analysis.SentimentLabel != domain.SentimentPositive {
		t.Fatalf("sentiment label: %q", analysis.SentimentLabel)
	}
	if analysis.BiasLabel != domain.BiasLeftLeaning {
		t.Fatalf("bias label: %q", analysis.BiasLabel)
	}
	if analysis.SensationalismLabel != domain.SensationalismFactual {
		t.Fatalf("sensationalism label: %q", analysis.SensationalismLabel)
	}
	if analysis.AnalyzedAt.IsZero() {
		t.Fatal("analysis timestamp missing")
	}
}

func TestAnalyzeSurfacesServiceErrors(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := NewClient(config.AnalysisConfig{BaseURL: srv.URL}, srv.Client())
	if _, err := client.Analyze(context.Background(), domain.Article{Title: "x"}); err == nil {
		t.Fatal("expected an error from a 503 response")
	}
}

func TestAnalyzeRequiresEndpoint(t *testing.T) {
	t.Parallel()

	client := NewClient(config.AnalysisConfig{}, nil)
	if _, err := client.Analyze(context.Background(), domain.Article{Title: "x"}); err == nil {
		t.Fatal("expected an error without an endpoint")
	}
}
