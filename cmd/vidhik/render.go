package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"

	"vidhik/internal/domain/models"
	"vidhik/internal/prompts"
)

var (
	heading = color.New(color.FgCyan, color.Bold).SprintFunc()
	label   = color.New(color.Bold).SprintFunc()
	faint   = color.New(color.Faint).SprintFunc()
	added   = color.New(color.FgGreen).SprintFunc()
	removed = color.New(color.FgRed).SprintFunc()
)

var riskColors = map[models.RiskLevel]*color.Color{
	models.RiskHigh:   color.New(color.FgRed, color.Bold),
	models.RiskMedium: color.New(color.FgYellow, color.Bold),
	models.RiskLow:    color.New(color.FgGreen),
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printAnalysis(w io.Writer, name string, a *models.Analysis) {
	if a == nil {
		return
	}

	fmt.Fprintln(w, heading("Analysis: "+name))
	fmt.Fprintln(w, a.Summary)

	if len(a.Risks) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, heading("Risks"))
		for _, r := range a.Risks {
			c, ok := riskColors[r.Level]
			if !ok {
				c = color.New(color.Reset)
			}
			fmt.Fprintf(w, "  [%s] %s\n", c.Sprint(r.Level), label(r.Clause))
			fmt.Fprintf(w, "      %s\n", r.Explanation)
		}
	}

	if len(a.Obligations) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, heading("Obligations"))
		for _, o := range a.Obligations {
			fmt.Fprintf(w, "  %s  %s\n", label(o.Date), o.Description)
		}
	}

	if len(a.Jargon) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, heading("Jargon buster"))
		for _, j := range a.Jargon {
			fmt.Fprintf(w, "  %s: %s\n", label(j.Term), j.Definition)
		}
	}

	if len(a.SuggestedQuestions) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, heading("You could ask"))
		for _, q := range a.SuggestedQuestions {
			fmt.Fprintf(w, "  - %s\n", q)
		}
	}
}

func printMessages(w io.Writer, messages []models.Message) {
	for _, m := range messages {
		if m.Role == models.RoleUser {
			fmt.Fprintf(w, "%s %s\n", label("Q:"), m.Text)
			continue
		}
		fmt.Fprintf(w, "%s %s\n", heading("A:"), m.Text)
	}
}

func printComparison(w io.Writer, nameA, nameB string, c *models.Comparison) {
	if c == nil {
		return
	}

	fmt.Fprintln(w, heading(fmt.Sprintf("Compare: %s vs %s", nameA, nameB)))
	fmt.Fprintln(w, c.Summary)

	if len(c.NewClauses) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, heading("New clauses"))
		for _, n := range c.NewClauses {
			fmt.Fprintf(w, "  %s %s: %s\n", added("+"), label(n.Clause), n.Description)
		}
	}
	if len(c.ChangedTerms) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, heading("Changed terms"))
		for _, ch := range c.ChangedTerms {
			fmt.Fprintf(w, "  ~ %s: %s\n", label(ch.Clause), ch.ChangeDescription)
			fmt.Fprintf(w, "      %s %s\n", removed(nameA+":"), ch.DetailsA)
			fmt.Fprintf(w, "      %s %s\n", added(nameB+":"), ch.DetailsB)
		}
	}
	if len(c.DeletedClauses) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, heading("Deleted clauses"))
		for _, d := range c.DeletedClauses {
			fmt.Fprintf(w, "  %s %s: %s\n", removed("-"), label(d.Clause), d.Description)
		}
	}
}

func printInfo(w io.Writer, info *prompts.Info) {
	fmt.Fprintln(w, heading("Features"))
	for _, f := range info.Features {
		fmt.Fprintf(w, "  %s\n      %s\n", label(f.Title), f.Description)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, heading("FAQ"))
	for _, item := range info.FAQ {
		fmt.Fprintf(w, "  %s\n", label(item.Question))
		fmt.Fprintf(w, "      %s\n", faint(item.Answer))
	}
}
