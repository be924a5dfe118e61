package dash

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"

	"github.com/docdex/docdex/pkg/core"
	"github.com/docdex/docdex/pkg/log"
)

func init() {
	prototype := &Provider{}
	core.RegisterProviderPrototype("dash", prototype)
}

// DefaultResultLimit caps how many entries a single docset search returns.
const DefaultResultLimit = 30

// builtinKeywordMappings maps well-known query keywords to the docset
// names they select, for docsets that do not declare their own keywords
// in meta.json.
var builtinKeywordMappings = map[string]string{
	"droid":   "Android",
	"android": "Android",
	"py":      "Python 3",
}

type Config struct {
	// DocsetsDir is the directory containing Zeal/Dash docsets. Defaults
	// to $XDG_DATA_HOME/Zeal/Zeal/docsets.
	DocsetsDir string `toml:"docsets_dir"`

	// ResultLimit caps entries per docset search. Defaults to 30.
	ResultLimit int `toml:"result_limit"`

	// OpenCommand launches the viewer on activation. Defaults to xdg-open.
	OpenCommand string `toml:"open_command"`

	// KeywordMappings adds keyword -> docset name selections on top of
	// the built-in table.
	KeywordMappings map[string]string `toml:"keyword_mappings"`
}

func (c *Config) Validate() error {
	if c.ResultLimit < 0 {
		return fmt.Errorf("result_limit must not be negative")
	}
	if c.ResultLimit == 0 {
		c.ResultLimit = DefaultResultLimit
	}
	if c.OpenCommand == "" {
		c.OpenCommand = "xdg-open"
	}
	if c.DocsetsDir == "" {
		dir, err := defaultDocsetsDir()
		if err != nil {
			return err
		}
		c.DocsetsDir = dir
	}
	return nil
}

func defaultDocsetsDir() (string, error) {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting user home directory: %w", err)
		}
		dataDir = filepath.Join(homeDir, ".local", "share")
	}
	return filepath.Join(dataDir, "Zeal", "Zeal", "docsets"), nil
}

// Provider searches Zeal/Dash docsets on disk. Each docset directory
// holds a meta.json describing it and a SQLite search index at
// Contents/Resources/docSet.dsidx; the index path doubles as the opaque
// docset ID handed to the engine.
type Provider struct {
	config       *Config
	instanceName string
	indexes      *indexCache
	logger       *log.Logger
}

func NewProvider(instanceName string, config interface{}) (core.Provider, error) {
	var cfg *Config
	if config == nil {
		cfg = &Config{}
	} else {
		var ok bool
		cfg, ok = config.(*Config)
		if !ok {
			return nil, fmt.Errorf("invalid config type for dash provider")
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating dash config: %w", err)
	}

	return &Provider{
		config:       cfg,
		instanceName: instanceName,
		indexes:      newIndexCache(),
		logger:       log.For(instanceName),
	}, nil
}

func (p *Provider) Type() string {
	return "dash"
}

func (p *Provider) Name() string {
	return p.instanceName
}

func (p *Provider) ConfigType() interface{} {
	return &Config{}
}

func (p *Provider) Factory(instanceName string, config interface{}) (core.Provider, error) {
	return NewProvider(instanceName, config)
}

// docSetMeta mirrors the meta.json file shipped inside a docset.
type docSetMeta struct {
	Name    string `json:"name"`
	Title   string `json:"title"`
	Version string `json:"version"`
	Extra   struct {
		Keywords []string `json:"keywords"`
	} `json:"extra"`
}

var keywordFolder = cases.Fold()

// foldKeyword lowercases with full Unicode case folding so docset
// keywords match regardless of the user's input case.
func foldKeyword(s string) string {
	return keywordFolder.String(s)
}

// keywordsFor collects every keyword that selects a docset: the keywords
// declared in its meta.json plus any mapping whose target matches the
// docset name or title.
func (p *Provider) keywordsFor(meta docSetMeta) []string {
	var keywords []string
	seen := make(map[string]bool)
	add := func(kw string) {
		kw = foldKeyword(kw)
		if kw == "" || seen[kw] {
			return
		}
		seen[kw] = true
		keywords = append(keywords, kw)
	}

	for _, kw := range meta.Extra.Keywords {
		add(kw)
	}
	for kw, name := range builtinKeywordMappings {
		if strings.EqualFold(name, meta.Name) || strings.EqualFold(name, meta.Title) {
			add(kw)
		}
	}
	for kw, name := range p.config.KeywordMappings {
		if strings.EqualFold(name, meta.Name) || strings.EqualFold(name, meta.Title) {
			add(kw)
		}
	}
	return keywords
}

// matchesKeyword implements this provider's selection policy: the query
// keyword must be a case-insensitive prefix of a docset keyword.
func matchesKeyword(docsetKeywords []string, query string) bool {
	folded := foldKeyword(query)
	for _, kw := range docsetKeywords {
		if strings.HasPrefix(kw, folded) {
			return true
		}
	}
	return false
}

// SearchDocSets scans the docsets directory and returns every docset
// whose keyword set matches the given query keyword.
func (p *Provider) SearchDocSets(ctx context.Context, keyword string) ([]core.DocSet, error) {
	entries, err := os.ReadDir(p.config.DocsetsDir)
	if err != nil {
		return nil, fmt.Errorf("reading docsets directory: %w", err)
	}

	var docSets []core.DocSet
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !entry.IsDir() {
			continue
		}

		docsetDir := filepath.Join(p.config.DocsetsDir, entry.Name())
		metaFile := filepath.Join(docsetDir, "meta.json")
		indexFile := filepath.Join(docsetDir, "Contents", "Resources", "docSet.dsidx")
		if !fileExists(metaFile) || !fileExists(indexFile) {
			p.logger.Debugf("%s is not a docset directory, skipping", entry.Name())
			continue
		}

		meta, err := readMeta(metaFile)
		if err != nil {
			p.logger.Warnf("parsing %s: %v", metaFile, err)
			continue
		}

		keywords := p.keywordsFor(meta)
		if !matchesKeyword(keywords, keyword) {
			continue
		}

		title := meta.Title
		if title == "" {
			title = meta.Name
		}
		docSets = append(docSets, core.DocSet{
			ID:          indexFile,
			Keywords:    keywords,
			Name:        title,
			Description: title,
			Icon:        filepath.Join(docsetDir, "icon@2x.png"),
		})
	}

	return docSets, nil
}

func readMeta(path string) (docSetMeta, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return docSetMeta{}, fmt.Errorf("reading meta file: %w", err)
	}
	var meta docSetMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		return docSetMeta{}, fmt.Errorf("parsing meta file: %w", err)
	}
	return meta, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// Search runs a tiered-ranking query against the docset's SQLite index.
// An unknown docset ID yields an empty result, not an error.
func (p *Provider) Search(ctx context.Context, docSetID, term string) ([]core.SearchEntry, error) {
	if !fileExists(docSetID) {
		p.logger.Debugf("unknown docset id %s, returning no results", docSetID)
		return nil, nil
	}

	rows, err := p.indexes.search(ctx, docSetID, term, p.config.ResultLimit)
	if err != nil {
		return nil, fmt.Errorf("searching index %s: %w", docSetID, err)
	}

	entries := make([]core.SearchEntry, 0, len(rows))
	for _, row := range rows {
		id := row.path
		if row.fragment != "" {
			id = row.path + "#" + row.fragment
		}
		entries = append(entries, core.SearchEntry{
			Type:      core.ParseEntryType(row.entryType),
			Title:     row.name,
			Desc:      row.entryType,
			ID:        id,
			Relevance: row.relevance,
		})
	}

	p.logger.Debugf("searching for %q got %d results", term, len(entries))
	return entries, nil
}

// Open launches the configured viewer on the document behind itemID.
// itemID is a path relative to the docset's Documents directory with an
// optional #fragment, exactly as produced by Search.
func (p *Provider) Open(ctx context.Context, docSetID, itemID string) error {
	docPath, _, _ := strings.Cut(itemID, "#")
	if docPath == "" {
		return fmt.Errorf("item id %q has no document path", itemID)
	}

	// The docset ID is the index path <docset>/Contents/Resources/docSet.dsidx;
	// documents live next to it under Documents/.
	documentsDir := filepath.Join(filepath.Dir(docSetID), "Documents")
	target := filepath.Join(documentsDir, filepath.FromSlash(docPath))
	if !strings.HasPrefix(target, documentsDir+string(filepath.Separator)) {
		return fmt.Errorf("item id %q escapes the docset", itemID)
	}

	cmd := exec.CommandContext(ctx, p.config.OpenCommand, target)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("launching %s: %w", p.config.OpenCommand, err)
	}
	// Viewers are long-lived; reap the process without holding the caller.
	go func() {
		if err := cmd.Wait(); err != nil {
			p.logger.Warnf("viewer exited with error: %v", err)
		}
	}()
	return nil
}

func (p *Provider) Close() error {
	return p.indexes.close()
}
