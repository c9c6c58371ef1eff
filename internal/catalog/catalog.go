package catalog

import (
	"sort"

	"lstbot/internal/domain"
	"lstbot/internal/textutil"

	"go.uber.org/zap"
)

// Catalog is an immutable index of sign clips keyed by pivot word.
// It is safe for concurrent use without locking.
type Catalog struct {
	entries map[string]domain.SignEntry
	ids     []string
}

// New indexes entries by their folded ID. When two entries fold to the same
// key the first one is kept and the duplicate is logged.
func New(entries []domain.SignEntry, logger *zap.Logger) *Catalog {
	c := &Catalog{
		entries: make(map[string]domain.SignEntry, len(entries)),
		ids:     make([]string, 0, len(entries)),
	}

	for _, e := range entries {
		key := textutil.FoldText(e.ID, domain.PivotLanguage)
		if key == "" {
			logger.Warn("Skipping sign without id", zap.String("file", e.File))
			continue
		}
		if prev, ok := c.entries[key]; ok {
			logger.Warn("Duplicate sign ignored",
				zap.String("id", key),
				zap.String("kept", prev.File),
				zap.String("ignored", e.File))
			continue
		}
		e.ID = key
		if e.DisplayName == "" {
			e.DisplayName = key
		}
		c.entries[key] = e
		c.ids = append(c.ids, key)
	}

	sort.Strings(c.ids)
	return c
}

// Lookup returns the sign for an exact pivot word
func (c *Catalog) Lookup(word string) (domain.SignEntry, bool) {
	e, ok := c.entries[word]
	return e, ok
}

// Len returns the number of signs
func (c *Catalog) Len() int {
	return len(c.ids)
}

// IDs returns every sign id in sorted order
func (c *Catalog) IDs() []string {
	ids := make([]string, len(c.ids))
	copy(ids, c.ids)
	return ids
}

// Entries returns every sign sorted by id
func (c *Catalog) Entries() []domain.SignEntry {
	entries := make([]domain.SignEntry, len(c.ids))
	for i, id := range c.ids {
		entries[i] = c.entries[id]
	}
	return entries
}

// Stats summarizes the catalog by format and tag
func (c *Catalog) Stats() domain.SignStats {
	stats := domain.SignStats{
		Total:    len(c.ids),
		ByFormat: make(map[string]int),
		ByTag:    make(map[string]int),
	}
	for _, e := range c.entries {
		stats.ByFormat[e.Format]++
		for _, tag := range e.Tags {
			stats.ByTag[tag]++
		}
		stats.TotalDuration += e.Duration
	}
	return stats
}
