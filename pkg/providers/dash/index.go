package dash

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// tieredSearchSQL ranks matches against the docset's searchIndex table:
// case-sensitive exact > case-insensitive exact > prefix > substring.
// A row matching several tiers keeps its best relevance.
const tieredSearchSQL = `
WITH matches AS (
    SELECT name, type, path, COALESCE(fragment, '') AS fragment, 100 AS relevance
        FROM searchIndex WHERE name = trim(?1)
    UNION ALL
    SELECT name, type, path, COALESCE(fragment, ''), 85
        FROM searchIndex WHERE name = trim(?1) COLLATE NOCASE
    UNION ALL
    SELECT name, type, path, COALESCE(fragment, ''), 70
        FROM searchIndex WHERE name LIKE trim(?1) || '%'
    UNION ALL
    SELECT name, type, path, COALESCE(fragment, ''), 50
        FROM searchIndex WHERE name LIKE '%' || trim(?1) || '%'
)
SELECT name, type, path, fragment, MAX(relevance) AS relevance
FROM matches
GROUP BY name, type, path, fragment
ORDER BY relevance DESC, name
LIMIT ?2`

type indexRow struct {
	name      string
	entryType string
	path      string
	fragment  string
	relevance int
}

// indexCache keeps one read-only database handle per docset index so
// repeated searches against the same docset skip the open cost.
// Safe for concurrent use.
type indexCache struct {
	mu      sync.RWMutex
	handles map[string]*sql.DB
}

func newIndexCache() *indexCache {
	return &indexCache{
		handles: make(map[string]*sql.DB),
	}
}

func (c *indexCache) get(indexPath string) (*sql.DB, error) {
	c.mu.RLock()
	db, ok := c.handles[indexPath]
	c.mu.RUnlock()
	if ok {
		return db, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if db, ok := c.handles[indexPath]; ok {
		return db, nil
	}

	db, err := sql.Open("sqlite3", "file:"+indexPath+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("opening index database: %w", err)
	}
	c.handles[indexPath] = db
	return db, nil
}

func (c *indexCache) search(ctx context.Context, indexPath, term string, limit int) ([]indexRow, error) {
	db, err := c.get(indexPath)
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, tieredSearchSQL, term, limit)
	if err != nil {
		return nil, fmt.Errorf("running search query: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			fmt.Printf("Warning: failed to close result rows: %v\n", err)
		}
	}()

	var results []indexRow
	for rows.Next() {
		var row indexRow
		if err := rows.Scan(&row.name, &row.entryType, &row.path, &row.fragment, &row.relevance); err != nil {
			return nil, fmt.Errorf("scanning result row: %w", err)
		}
		results = append(results, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading result rows: %w", err)
	}

	return results, nil
}

func (c *indexCache) close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var errs []error
	for path, db := range c.handles {
		if err := db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing index %s: %w", path, err))
		}
	}
	c.handles = make(map[string]*sql.DB)

	if len(errs) > 0 {
		return fmt.Errorf("errors closing index handles: %v", errs)
	}
	return nil
}
