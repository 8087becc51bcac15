package embedding

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

// embedJSON builds an /api/embed response carrying a single vector.
func embedJSON(vec []float32) []byte {
	b, _ := json.Marshal(map[string][][]float32{"embeddings": {vec}})
	return b
}

func TestOllamaEmbed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/embed" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req struct {
			Model string `json:"model"`
			Input string `json:"input"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		if req.Model != "nomic-embed-text" {
			t.Errorf("model = %q, want nomic-embed-text", req.Model)
		}
		w.Write(embedJSON([]float32{0.1, 0.2, 0.3}))
	}))
	defer srv.Close()

	p := NewOllama(srv.URL, "nomic-embed-text")
	vec, err := p.Embed(context.Background(), "some text")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if len(vec) != 3 {
		t.Errorf("got vector of length %d, want 3", len(vec))
	}
}

func TestOllamaEmbedUnavailable(t *testing.T) {
	// Point at a closed server to simulate connection refused.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	p := NewOllama(srv.URL, "nomic-embed-text")
	_, err := p.Embed(context.Background(), "text")
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("Embed error = %v, want ErrUnavailable", err)
	}
}

func TestOllamaEmbedBatch(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		var req struct {
			Input string `json:"input"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		// Encode the text length so order can be verified.
		w.Write(embedJSON([]float32{float32(len(req.Input))}))
	}))
	defer srv.Close()

	p := NewOllama(srv.URL, "nomic-embed-text")
	texts := []string{"a", "bb", "ccc", "dddd", "eeeee"}
	vecs, err := p.EmbedBatch(context.Background(), texts)
	if err != nil {
		t.Fatalf("EmbedBatch: %v", err)
	}
	if len(vecs) != len(texts) {
		t.Fatalf("got %d vectors, want %d", len(vecs), len(texts))
	}
	for i, text := range texts {
		if int(vecs[i][0]) != len(text) {
			t.Errorf("vecs[%d] = %v, want length marker %d", i, vecs[i], len(text))
		}
	}
	if got := calls.Load(); got != int32(len(texts)) {
		t.Errorf("server saw %d calls, want %d", got, len(texts))
	}
}

func TestOllamaEmbedBatchEmpty(t *testing.T) {
	p := NewOllama("http://localhost:0", "nomic-embed-text")
	vecs, err := p.EmbedBatch(context.Background(), nil)
	if err != nil {
		t.Fatalf("EmbedBatch(nil): %v", err)
	}
	if vecs != nil {
		t.Errorf("EmbedBatch(nil) = %v, want nil", vecs)
	}
}

func TestHasModelTagSuffix(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := json.Marshal(map[string][]map[string]string{
			"models": {{"name": "nomic-embed-text:latest"}},
		})
		w.Write(b)
	}))
	defer srv.Close()

	p := NewOllama(srv.URL, "nomic-embed-text")
	if !p.HasModel(context.Background(), "nomic-embed-text") {
		t.Error("HasModel = false, want true for tag-suffixed match")
	}
	if p.HasModel(context.Background(), "mistral") {
		t.Error("HasModel = true for absent model")
	}
}
