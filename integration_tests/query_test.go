package integration_tests

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/docdex/docdex/pkg/config"
	"github.com/docdex/docdex/pkg/core"
	"github.com/docdex/docdex/pkg/engine"

	// Import the dash provider to trigger its init() registration
	_ "github.com/docdex/docdex/pkg/providers/dash"
)

// TestEndToEndQuery walks the whole pipeline the way the CLI does: a
// config file on disk, providers created from it, and queries running
// against a real docset fixture.
func TestEndToEndQuery(t *testing.T) {
	tempDir := t.TempDir()
	docsetsDir := filepath.Join(tempDir, "docsets")
	createDocsetFixture(t, docsetsDir, "Python_3.docset",
		`{"name": "Python 3", "title": "Python 3", "extra": {"keywords": ["py"]}}`,
		[]indexEntry{
			{"list", "Class", "library/stdtypes.html", "list"},
			{"list.sort", "Method", "library/stdtypes.html", "list.sort"},
		})

	configPath := writeConfigFixture(t, tempDir, docsetsDir)

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		t.Fatalf("Loading config: %v", err)
	}
	if cfg.MinQueryLength != 2 {
		t.Fatalf("Expected min_query_length 2 from config file, got %d", cfg.MinQueryLength)
	}

	registry := core.GetGlobalRegistry()
	createProviders(t, registry, cfg)
	defer func() {
		if err := registry.Close(); err != nil {
			t.Errorf("Closing registry: %v", err)
		}
	}()

	eng := engine.New(registry, cfg.MinQueryLength)
	ctx := context.Background()

	// A bare keyword yields the completion tier.
	entries, err := eng.Query(ctx, "py")
	if err != nil {
		t.Fatalf("Completion query failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("Expected 1 completion entry, got %d", len(entries))
	}
	if entries[0].MatchType != engine.MatchCompletion {
		t.Errorf("Expected completion tier, got %d", entries[0].MatchType)
	}
	if entries[0].DisplayText != `Type "py keyword" to search Python 3` {
		t.Errorf("Unexpected completion text: %q", entries[0].DisplayText)
	}

	// Keyword plus term yields ranked search results.
	entries, err = eng.Query(ctx, "py list")
	if err != nil {
		t.Fatalf("Search query failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("Expected 2 search entries, got %d", len(entries))
	}
	engine.SortEntries(entries)
	if entries[0].DisplayText != "list" {
		t.Errorf("Expected exact match first, got %q", entries[0].DisplayText)
	}
	if entries[0].Relevance != 1.0 {
		t.Errorf("Expected relevance 1.0 for exact match, got %v", entries[0].Relevance)
	}

	// Below the minimum query length nothing fans out.
	entries, err = eng.Query(ctx, "p")
	if err != nil {
		t.Fatalf("Short query failed: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("Expected no entries below min query length, got %d", len(entries))
	}

	// The reference carried by a result routes back through Activate.
	entries, err = eng.Query(ctx, "py list")
	if err != nil {
		t.Fatalf("Search query failed: %v", err)
	}
	engine.SortEntries(entries)
	if err := eng.Activate(ctx, entries[0].Data); err != nil {
		t.Fatalf("Activating result reference: %v", err)
	}
}

// TestConfigReloadSwapsProviders exercises the reload path the serve
// command relies on: providers removed from the config file disappear
// from the registry, new ones appear.
func TestConfigReloadSwapsProviders(t *testing.T) {
	tempDir := t.TempDir()
	docsetsDir := filepath.Join(tempDir, "docsets")
	createDocsetFixture(t, docsetsDir, "Ruby.docset",
		`{"name": "Ruby", "title": "Ruby", "extra": {"keywords": ["rb"]}}`, nil)

	registry := core.GetGlobalRegistry()
	defer func() {
		if err := registry.Close(); err != nil {
			t.Errorf("Closing registry: %v", err)
		}
	}()

	initial := &config.Config{
		MinQueryLength: 1,
		Providers: map[string]config.ProviderInfo{
			"docs": {Type: "dash", Config: map[string]interface{}{
				"docsets_dir":  docsetsDir,
				"open_command": "true",
			}},
		},
	}
	createProviders(t, registry, initial)

	if names := registry.ListProviders(); len(names) != 1 || names[0] != "docs" {
		t.Fatalf("Expected provider [docs], got %v", names)
	}

	updated := &config.Config{
		MinQueryLength: 1,
		Providers: map[string]config.ProviderInfo{
			"docs-local": {Type: "dash", Config: map[string]interface{}{
				"docsets_dir":  docsetsDir,
				"open_command": "true",
			}},
		},
	}

	for _, name := range registry.ListProviders() {
		if _, stillWanted := updated.Providers[name]; stillWanted {
			continue
		}
		if err := registry.RemoveProvider(name); err != nil {
			t.Fatalf("Removing provider %s: %v", name, err)
		}
	}
	createProviders(t, registry, updated)

	names := registry.ListProviders()
	if len(names) != 1 || names[0] != "docs-local" {
		t.Fatalf("Expected provider [docs-local] after reload, got %v", names)
	}

	eng := engine.New(registry, 1)
	entries, err := eng.Query(context.Background(), "rb")
	if err != nil {
		t.Fatalf("Query after reload failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("Expected 1 completion entry after reload, got %d", len(entries))
	}
}

// TestMultiProviderIsolation runs two provider instances side by side and
// confirms one failing does not take down the other's results.
func TestMultiProviderIsolation(t *testing.T) {
	tempDir := t.TempDir()
	goodDir := filepath.Join(tempDir, "good")
	createDocsetFixture(t, goodDir, "Go.docset",
		`{"name": "Go", "title": "Go", "extra": {"keywords": ["go"]}}`,
		[]indexEntry{{"Println", "Function", "pkg/fmt.html", "Println"}})

	registry := core.GetGlobalRegistry()
	defer func() {
		if err := registry.Close(); err != nil {
			t.Errorf("Closing registry: %v", err)
		}
	}()

	cfg := &config.Config{
		MinQueryLength: 1,
		Providers: map[string]config.ProviderInfo{
			"good": {Type: "dash", Config: map[string]interface{}{
				"docsets_dir":  goodDir,
				"open_command": "true",
			}},
			// Points at a directory that does not exist, so discovery fails.
			"broken": {Type: "dash", Config: map[string]interface{}{
				"docsets_dir":  filepath.Join(tempDir, "missing"),
				"open_command": "true",
			}},
		},
	}
	createProviders(t, registry, cfg)

	eng := engine.New(registry, 1)
	entries, err := eng.Query(context.Background(), "go Println")
	if err != nil {
		t.Fatalf("Query with a broken provider failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("Expected 1 entry from the healthy provider, got %d", len(entries))
	}
	if entries[0].DisplayText != "Println" {
		t.Errorf("Unexpected entry: %q", entries[0].DisplayText)
	}
}

type indexEntry struct {
	name      string
	entryType string
	path      string
	fragment  string
}

// createDocsetFixture builds a docset directory with a meta.json and a
// real SQLite search index, mirroring the Zeal on-disk layout.
func createDocsetFixture(t *testing.T, docsetsDir, dirName, metaJSON string, entries []indexEntry) {
	t.Helper()

	resourcesDir := filepath.Join(docsetsDir, dirName, "Contents", "Resources")
	if err := os.MkdirAll(resourcesDir, 0755); err != nil {
		t.Fatalf("Creating docset directories: %v", err)
	}
	if err := os.WriteFile(filepath.Join(docsetsDir, dirName, "meta.json"), []byte(metaJSON), 0644); err != nil {
		t.Fatalf("Writing meta.json: %v", err)
	}

	db, err := sql.Open("sqlite3", filepath.Join(resourcesDir, "docSet.dsidx"))
	if err != nil {
		t.Fatalf("Opening index database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			t.Fatalf("Closing index database: %v", err)
		}
	}()

	if _, err := db.Exec(`CREATE TABLE searchIndex (id INTEGER PRIMARY KEY, name TEXT, type TEXT, path TEXT, fragment TEXT)`); err != nil {
		t.Fatalf("Creating searchIndex table: %v", err)
	}
	for _, e := range entries {
		if _, err := db.Exec(`INSERT INTO searchIndex (name, type, path, fragment) VALUES (?, ?, ?, ?)`,
			e.name, e.entryType, e.path, e.fragment); err != nil {
			t.Fatalf("Inserting index entry: %v", err)
		}
	}
}

// writeConfigFixture writes a config.toml declaring one dash provider
// pointed at the fixture docsets directory.
func writeConfigFixture(t *testing.T, tempDir, docsetsDir string) string {
	t.Helper()

	configPath := filepath.Join(tempDir, "config.toml")
	cfg := &config.Config{
		MinQueryLength: 2,
		Providers: map[string]config.ProviderInfo{
			"docs": {Type: "dash", Config: map[string]interface{}{
				"docsets_dir":  docsetsDir,
				"open_command": "true",
			}},
		},
	}
	if err := cfg.SaveConfig(configPath); err != nil {
		t.Fatalf("Saving config fixture: %v", err)
	}
	return configPath
}
