package history

import (
	"strings"

	"vidhik/internal/domain/models"
)

// DeriveIndex builds the de-duplicated document listing from a history snapshot
// (newest-first). Output order is first-seen order; the function is pure.
//
// Summary precedence per document identity:
//   - a real analysis summary always wins and is never replaced afterwards
//   - the comparison placeholder only fills an identity that has nothing better
//   - a chat session without analysis contributes no summary
func DeriveIndex(sessions []models.Session) []models.IndexEntry {
	entries := make([]models.IndexEntry, 0)
	positions := make(map[models.DocumentKey]int)

	insert := func(doc models.Document, summary string, source models.SummarySource) {
		key := doc.Key()
		i, seen := positions[key]
		if !seen {
			positions[key] = len(entries)
			entries = append(entries, models.IndexEntry{
				Document:      doc,
				Fingerprint:   doc.Fingerprint(),
				Summary:       summary,
				SummarySource: source,
			})
			return
		}

		existing := &entries[i]
		if outranks(source, existing.SummarySource) {
			existing.Summary = summary
			existing.SummarySource = source
		}
	}

	for _, session := range sessions {
		switch s := session.(type) {
		case *models.ChatSession:
			if s.Analysis != nil && s.Analysis.Summary != "" {
				insert(s.Document, s.Analysis.Summary, models.SummaryAnalysis)
			} else {
				insert(s.Document, "", models.SummaryNone)
			}
		case *models.CompareSession:
			insert(s.DocumentA, models.ComparisonPlaceholder, models.SummaryComparison)
			insert(s.DocumentB, models.ComparisonPlaceholder, models.SummaryComparison)
		}
	}

	return entries
}

// outranks reports whether a summary from source next may replace one from current
func outranks(next, current models.SummarySource) bool {
	return rank(next) > rank(current)
}

func rank(source models.SummarySource) int {
	switch source {
	case models.SummaryAnalysis:
		return 2
	case models.SummaryComparison:
		return 1
	default:
		return 0
	}
}

// FilterIndex keeps entries whose document name contains query (case-insensitive).
// An empty query keeps everything.
func FilterIndex(entries []models.IndexEntry, query string) []models.IndexEntry {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return entries
	}

	out := make([]models.IndexEntry, 0, len(entries))
	for _, e := range entries {
		if strings.Contains(strings.ToLower(e.Document.Name), q) {
			out = append(out, e)
		}
	}
	return out
}

// FindByFingerprint looks up an index entry by its document fingerprint
func FindByFingerprint(entries []models.IndexEntry, fingerprint string) (models.IndexEntry, bool) {
	for _, e := range entries {
		if e.Fingerprint == fingerprint {
			return e, true
		}
	}
	return models.IndexEntry{}, false
}
