package rules_test

import (
	"os"
	"path/filepath"
	"testing"

	"go-portfolio/internal/rules"
)

func TestLoad_AndPresetFallback(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "rules.yaml")
	const y = `default:
  article:
    content: "article"
Clarity:
  article:
    content: ".post"
    title: "h1"
`
	if err := os.WriteFile(p, []byte(y), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	r, err := rules.Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got, ok := r.GetPreset("clarity"); !ok || got.Article.Content != ".post" {
		t.Fatalf("case-insensitive lookup failed: %+v", got)
	}
	if got, ok := r.GetPreset("unknown"); !ok || got.Article.Content != "article" {
		t.Fatalf("fallback to default failed: %+v", got)
	}
	if got, ok := r.GetPreset(""); !ok || got.Article.Content != "article" {
		t.Fatalf("empty name should use default: %+v", got)
	}
}

func TestLoad_MissingFileUsesBuiltin(t *testing.T) {
	r, err := rules.Load(filepath.Join(t.TempDir(), "none.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, ok := r.GetPreset("hexo"); !ok {
		t.Fatalf("builtin hexo preset missing")
	}
}

func TestLoad_RejectsPresetWithoutContent(t *testing.T) {
	p := filepath.Join(t.TempDir(), "rules.yaml")
	if err := os.WriteFile(p, []byte("broken:\n  article:\n    title: h1\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := rules.Load(p); err == nil {
		t.Fatalf("expect error")
	}
}

func TestGetPreset_Nil(t *testing.T) {
	var r *rules.Rules
	if _, ok := r.GetPreset("default"); ok {
		t.Fatalf("nil rules should report missing")
	}
}
