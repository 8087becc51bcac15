package config

import (
	"strconv"
	"testing"
)

// memBackend is an in-memory ConfigBackend for tests.
type memBackend struct {
	data map[string]any
}

func newMemBackend() *memBackend {
	return &memBackend{data: make(map[string]any)}
}

func (b *memBackend) GetString(key string) (string, bool, error) {
	v, ok := b.data[key]
	if !ok {
		return "", false, nil
	}
	switch val := v.(type) {
	case string:
		return val, true, nil
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), true, nil
	default:
		return "", true, nil
	}
}

func (b *memBackend) GetInt(key string) (int, bool, error) {
	v, ok := b.data[key]
	if !ok {
		return 0, false, nil
	}
	i, ok := v.(int)
	if !ok {
		return 0, true, nil
	}
	return i, true, nil
}

func (b *memBackend) SetString(key, val string) error {
	b.data[key] = val
	return nil
}

func (b *memBackend) SetInt(key string, val int) error {
	b.data[key] = val
	return nil
}

func (b *memBackend) Delete(key string) error {
	delete(b.data, key)
	return nil
}

func TestDefaults(t *testing.T) {
	cfg, err := loadWith(newMemBackend())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 4500 {
		t.Errorf("Server.Port = %d, want 4500", cfg.Server.Port)
	}
	if cfg.Ollama.BaseURL != "http://localhost:11434" {
		t.Errorf("Ollama.BaseURL = %q", cfg.Ollama.BaseURL)
	}
	if cfg.Ollama.EmbedModel != "nomic-embed-text" {
		t.Errorf("Ollama.EmbedModel = %q", cfg.Ollama.EmbedModel)
	}
	if cfg.Matching.Threshold != 0.7 {
		t.Errorf("Matching.Threshold = %v, want 0.7", cfg.Matching.Threshold)
	}
	if err := cfg.Weights().Validate(); err != nil {
		t.Errorf("default weights should validate: %v", err)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want info", cfg.Log.Level)
	}
}

func TestBackendValues(t *testing.T) {
	b := newMemBackend()
	b.SetInt("server.port", 5500)
	b.SetString("ollama.embed_model", "mxbai-embed-large")
	b.SetString("matching.threshold", "0.8")
	b.SetString("storage.data_dir", "/tmp/resumatch-test")

	cfg, err := loadWith(b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 5500 {
		t.Errorf("Server.Port = %d, want 5500", cfg.Server.Port)
	}
	if cfg.Ollama.EmbedModel != "mxbai-embed-large" {
		t.Errorf("Ollama.EmbedModel = %q", cfg.Ollama.EmbedModel)
	}
	if cfg.Matching.Threshold != 0.8 {
		t.Errorf("Matching.Threshold = %v, want 0.8", cfg.Matching.Threshold)
	}
	if cfg.Storage.DataDir != "/tmp/resumatch-test" {
		t.Errorf("Storage.DataDir = %q", cfg.Storage.DataDir)
	}
}

func TestEnvOverride(t *testing.T) {
	b := newMemBackend()
	b.SetString("ollama.base_url", "http://file:11434")

	t.Setenv("RESUMATCH_OLLAMA_BASE_URL", "http://env:11434")
	t.Setenv("RESUMATCH_API_TOKEN", "env-token")

	cfg, err := loadWith(b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Ollama.BaseURL != "http://env:11434" {
		t.Errorf("Ollama.BaseURL = %q, want env override", cfg.Ollama.BaseURL)
	}
	if cfg.API.Token != "env-token" {
		t.Errorf("API.Token = %q, want env-token", cfg.API.Token)
	}
}

func TestInvalidWeightsRejected(t *testing.T) {
	b := newMemBackend()
	b.SetString("scoring.semantic_weight", "0.9")

	if _, err := loadWith(b); err == nil {
		t.Fatal("weights summing past 1.0 should fail to load")
	}
}

func TestSetKey(t *testing.T) {
	b := newMemBackend()

	if err := setKeyOn(b, "server.port", "6000"); err != nil {
		t.Fatalf("SetKey int: %v", err)
	}
	if v, _, _ := b.GetInt("server.port"); v != 6000 {
		t.Errorf("server.port = %d, want 6000", v)
	}

	if err := setKeyOn(b, "matching.threshold", "0.65"); err != nil {
		t.Fatalf("SetKey float: %v", err)
	}
	if err := setKeyOn(b, "matching.threshold", "abc"); err == nil {
		t.Error("non-numeric float should be rejected")
	}
	if err := setKeyOn(b, "api.token", "x"); err == nil {
		t.Error("secrets must not be settable via config file")
	}
	if err := setKeyOn(b, "nope.nope", "x"); err == nil {
		t.Error("unknown keys should be rejected")
	}
}

func TestValidKeysExcludesSecrets(t *testing.T) {
	for _, k := range ValidKeys() {
		if k == "api.token" {
			t.Error("api.token should not be listed as settable")
		}
	}
	if len(ValidKeys()) == 0 {
		t.Fatal("expected some valid keys")
	}
}
