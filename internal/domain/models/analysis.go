package models

// RiskLevel categorizes a flagged clause
type RiskLevel string

const (
	RiskHigh   RiskLevel = "High"
	RiskMedium RiskLevel = "Medium"
	RiskLow    RiskLevel = "Low"
)

// Valid reports whether the level is one of High, Medium, Low.
func (l RiskLevel) Valid() bool {
	switch l {
	case RiskHigh, RiskMedium, RiskLow:
		return true
	}
	return false
}

// JargonTerm is a complex legal term with a plain-English definition
type JargonTerm struct {
	Term       string `json:"term"`
	Definition string `json:"definition"`
}

// Obligation is a duty or deadline found in the document
type Obligation struct {
	Description string `json:"description"`
	Date        string `json:"date"`
}

// Risk is a potentially unfavorable clause
type Risk struct {
	Clause      string    `json:"clause"`
	Level       RiskLevel `json:"riskLevel"`
	Explanation string    `json:"explanation"`
}

// Analysis is the structured breakdown of a single document.
// JSON field names match the gateway's declared output schema.
type Analysis struct {
	Summary            string       `json:"summary"` // markdown
	Jargon             []JargonTerm `json:"jargonBuster"`
	SuggestedQuestions []string     `json:"suggestedQuestions"`
	Obligations        []Obligation `json:"obligations"` // chronological where determinable
	Risks              []Risk       `json:"riskAnalysis"`
}

// Clone returns a deep copy
func (a *Analysis) Clone() *Analysis {
	if a == nil {
		return nil
	}
	return &Analysis{
		Summary:            a.Summary,
		Jargon:             cloneSlice(a.Jargon),
		SuggestedQuestions: cloneSlice(a.SuggestedQuestions),
		Obligations:        cloneSlice(a.Obligations),
		Risks:              cloneSlice(a.Risks),
	}
}

// ClauseNote describes a clause added to or removed from a document
type ClauseNote struct {
	Clause      string `json:"clause"`
	Description string `json:"description"`
}

// ClauseChange describes a clause present in both documents with different terms
type ClauseChange struct {
	Clause            string `json:"clause"`
	DetailsA          string `json:"documentA_details"`
	DetailsB          string `json:"documentB_details"`
	ChangeDescription string `json:"change_description"`
}

// Comparison is the diff-style report of document A (original) against B (revised)
type Comparison struct {
	Summary        string         `json:"summary"`
	NewClauses     []ClauseNote   `json:"newClauses"`
	ChangedTerms   []ClauseChange `json:"changedTerms"`
	DeletedClauses []ClauseNote   `json:"deletedClauses"`
}

// Clone returns a deep copy
func (c *Comparison) Clone() *Comparison {
	if c == nil {
		return nil
	}
	return &Comparison{
		Summary:        c.Summary,
		NewClauses:     cloneSlice(c.NewClauses),
		ChangedTerms:   cloneSlice(c.ChangedTerms),
		DeletedClauses: cloneSlice(c.DeletedClauses),
	}
}

func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	out := make([]T, len(s))
	copy(out, s)
	return out
}
