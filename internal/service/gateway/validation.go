package gateway

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"vidhik/internal/domain/models"
)

type answerOutput struct {
	Answer string `json:"answer"`
}

func (o *answerOutput) validate() error {
	return validation.ValidateStruct(o,
		validation.Field(&o.Answer, validation.Required),
	)
}

func validateAnalysis(a *models.Analysis) error {
	return validation.ValidateStruct(a,
		validation.Field(&a.Summary, validation.Required),
		validation.Field(&a.Jargon, validation.NotNil, validation.Each(validation.By(validateJargon))),
		validation.Field(&a.SuggestedQuestions, validation.NotNil, validation.Each(validation.Required)),
		validation.Field(&a.Obligations, validation.NotNil, validation.Each(validation.By(validateObligation))),
		validation.Field(&a.Risks, validation.NotNil, validation.Each(validation.By(validateRisk))),
	)
}

func validateComparison(c *models.Comparison) error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Summary, validation.Required),
		validation.Field(&c.NewClauses, validation.NotNil, validation.Each(validation.By(validateClauseNote))),
		validation.Field(&c.ChangedTerms, validation.NotNil, validation.Each(validation.By(validateClauseChange))),
		validation.Field(&c.DeletedClauses, validation.NotNil, validation.Each(validation.By(validateClauseNote))),
	)
}

func validateJargon(value interface{}) error {
	term, ok := value.(models.JargonTerm)
	if !ok {
		return fmt.Errorf("invalid jargon entry type")
	}
	return validation.ValidateStruct(&term,
		validation.Field(&term.Term, validation.Required),
		validation.Field(&term.Definition, validation.Required),
	)
}

func validateObligation(value interface{}) error {
	o, ok := value.(models.Obligation)
	if !ok {
		return fmt.Errorf("invalid obligation type")
	}
	return validation.ValidateStruct(&o,
		validation.Field(&o.Description, validation.Required),
	)
}

func validateRisk(value interface{}) error {
	r, ok := value.(models.Risk)
	if !ok {
		return fmt.Errorf("invalid risk type")
	}
	return validation.ValidateStruct(&r,
		validation.Field(&r.Clause, validation.Required),
		validation.Field(&r.Level, validation.Required, validation.In(models.RiskHigh, models.RiskMedium, models.RiskLow)),
		validation.Field(&r.Explanation, validation.Required),
	)
}

func validateClauseNote(value interface{}) error {
	n, ok := value.(models.ClauseNote)
	if !ok {
		return fmt.Errorf("invalid clause type")
	}
	return validation.ValidateStruct(&n,
		validation.Field(&n.Clause, validation.Required),
	)
}

func validateClauseChange(value interface{}) error {
	c, ok := value.(models.ClauseChange)
	if !ok {
		return fmt.Errorf("invalid changed term type")
	}
	return validation.ValidateStruct(&c,
		validation.Field(&c.Clause, validation.Required),
		validation.Field(&c.ChangeDescription, validation.Required),
	)
}
