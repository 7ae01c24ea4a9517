package history

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"vidhik/internal/domain/models"
)

const excerptLength = 70

// FilterSessions keeps sessions whose document name(s) contain query (case-insensitive).
// Compare sessions match on either document.
func FilterSessions(sessions []models.Session, query string) []models.Session {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return sessions
	}

	out := make([]models.Session, 0, len(sessions))
	for _, session := range sessions {
		switch s := session.(type) {
		case *models.ChatSession:
			if strings.Contains(strings.ToLower(s.Document.Name), q) {
				out = append(out, s)
			}
		case *models.CompareSession:
			if strings.Contains(strings.ToLower(s.DocumentA.Name), q) ||
				strings.Contains(strings.ToLower(s.DocumentB.Name), q) {
				out = append(out, s)
			}
		}
	}
	return out
}

// Label returns the history-panel title and excerpt for a session
func Label(session models.Session) (title, excerpt string) {
	switch s := session.(type) {
	case *models.ChatSession:
		title = s.Document.Name
		if s.Analysis != nil && s.Analysis.Summary != "" {
			excerpt = truncate(s.Analysis.Summary, excerptLength) + "..."
		} else {
			excerpt = "Awaiting analysis..."
		}
	case *models.CompareSession:
		title = fmt.Sprintf("Compare: %s vs %s", s.DocumentA.Name, s.DocumentB.Name)
		if s.Comparison != nil && s.Comparison.Summary != "" {
			excerpt = truncate(s.Comparison.Summary, excerptLength) + "..."
		} else {
			excerpt = "Awaiting comparison..."
		}
	}
	return title, excerpt
}

// Items labels sessions for display, flagging the active one
func Items(sessions []models.Session, activeID *int64) []models.HistoryItem {
	items := make([]models.HistoryItem, 0, len(sessions))
	for _, s := range sessions {
		title, excerpt := Label(s)
		items = append(items, models.HistoryItem{
			Session: s,
			Title:   title,
			Excerpt: excerpt,
			Active:  activeID != nil && *activeID == s.SessionID(),
		})
	}
	return items
}

// truncate cuts s to at most n runes
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}
