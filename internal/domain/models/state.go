package models

// Mode is the controller's current view
type Mode string

const (
	ModeChat      Mode = "chat"
	ModeCompare   Mode = "compare"
	ModeDocuments Mode = "documents"
	ModeInfo      Mode = "info"
)

// Modes lists every valid mode
var Modes = []Mode{ModeChat, ModeCompare, ModeDocuments, ModeInfo}

// Valid reports whether m is a known mode
func (m Mode) Valid() bool {
	for _, known := range Modes {
		if m == known {
			return true
		}
	}
	return false
}

// HoldsSession reports whether a session can be active while in this mode
func (m Mode) HoldsSession() bool {
	return m == ModeChat || m == ModeCompare
}

// ModeForKind maps a session variant to the mode that displays it
func ModeForKind(kind SessionKind) Mode {
	if kind == SessionKindCompare {
		return ModeCompare
	}
	return ModeChat
}

// ControllerState is a snapshot of the controller's mode and active selection.
// ActiveSessionID is nil when nothing is selected.
type ControllerState struct {
	Mode            Mode   `json:"mode"`
	ActiveSessionID *int64 `json:"active_session_id"`
}

// SummarySource records where an index entry's display summary came from
type SummarySource string

const (
	SummaryNone       SummarySource = "none"
	SummaryAnalysis   SummarySource = "analysis"
	SummaryComparison SummarySource = "comparison"
)

// ComparisonPlaceholder is shown for documents only ever seen in comparisons
const ComparisonPlaceholder = "This document was used in a comparison."

// IndexEntry is one distinct document in the document index
type IndexEntry struct {
	Document      Document      `json:"document"`
	Fingerprint   string        `json:"fingerprint"`
	Summary       string        `json:"summary,omitempty"`
	SummarySource SummarySource `json:"summary_source"`
}

// HistoryItem is a session with its history-panel label
type HistoryItem struct {
	Session Session `json:"session"`
	Title   string  `json:"title"`
	Excerpt string  `json:"excerpt"`
	Active  bool    `json:"active"`
}
