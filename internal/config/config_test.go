package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewDefaultsWhenMissing(t *testing.T) {
	dir := t.TempDir()
	c, err := New(dir)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if c.File.Version != 1 {
		t.Fatalf("expected default version == 1, got %d", c.File.Version)
	}
	if c.BaseURL() != defaultBaseURL {
		t.Fatalf("expected default base URL %q, got %q", defaultBaseURL, c.BaseURL())
	}
	if c.PageSize() != defaultPageSize {
		t.Fatalf("expected default page size %d, got %d", defaultPageSize, c.PageSize())
	}
	if c.UnscopedSubcategories() != SubcategoriesAll {
		t.Fatalf("expected default subcategory policy 'all', got %q", c.UnscopedSubcategories())
	}
}

func TestNewParsesYaml(t *testing.T) {
	dir := t.TempDir()
	configYAML := strings.TrimSpace(`
version: 1
api:
  base_url: https://budget.example.com/api/v1/
ui:
  page_size: 25
filters:
  unscoped_subcategories: None
`)
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(configYAML), 0644); err != nil {
		t.Fatal(err)
	}
	c, err := New(dir)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if c.BaseURL() != "https://budget.example.com/api/v1" {
		t.Fatalf("expected trailing slash trimmed, got %q", c.BaseURL())
	}
	if c.PageSize() != 25 {
		t.Fatalf("page size = %d, want 25", c.PageSize())
	}
	if c.UnscopedSubcategories() != SubcategoriesNone {
		t.Fatalf("expected normalized 'none', got %q", c.UnscopedSubcategories())
	}
	if c.DateFormat() != defaultDateFormat {
		t.Fatalf("expected default date format, got %q", c.DateFormat())
	}
}

func TestNewValidation(t *testing.T) {
	dir := t.TempDir()
	configYAML := strings.TrimSpace(`
version: 1
filters:
  unscoped_subcategories: sometimes
`)
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(configYAML), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := New(dir); err == nil {
		t.Fatalf("expected validation error but got none")
	}
}

func TestInitWritesDefaultFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	if err := Init(dir); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "config.yaml")); err != nil {
		t.Fatalf("expected config.yaml: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "logs")); err != nil {
		t.Fatalf("expected logs dir: %v", err)
	}
	c, err := New(dir)
	if err != nil {
		t.Fatalf("New after Init: %v", err)
	}
	if c.JournalPath() != filepath.Join(dir, "logs", "session.log") {
		t.Fatalf("journal path = %s", c.JournalPath())
	}
}

func TestSetBaseURLPersists(t *testing.T) {
	dir := t.TempDir()
	c, err := New(dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := c.SetBaseURL("https://other.example.com/api/v1"); err != nil {
		t.Fatalf("SetBaseURL: %v", err)
	}
	reloaded, err := New(dir)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.BaseURL() != "https://other.example.com/api/v1" {
		t.Fatalf("base URL not persisted: %q", reloaded.BaseURL())
	}
	if err := c.SetBaseURL("  "); err == nil {
		t.Fatalf("expected error for empty base URL")
	}
}
