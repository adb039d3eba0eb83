package core

import (
	"fmt"
	"strings"
	"time"

	"caregiver-support/pkg"
)

const (
	notesDateLayout = "2006-01-02"
	notesTimeLayout = "15:04"
)

// NewNotesTemplate returns an empty notes record stamped with the current
// local date and time.
func NewNotesTemplate() pkg.Notes {
	return NewNotesTemplateAt(time.Now())
}

// NewNotesTemplateAt is NewNotesTemplate with an explicit timestamp.
func NewNotesTemplateAt(t time.Time) pkg.Notes {
	return pkg.Notes{
		Date: t.Format(notesDateLayout),
		Time: t.Format(notesTimeLayout),
	}
}

// FormatNotes renders notes in the fixed line-per-field layout caregivers
// paste into messages to their clinician.
func FormatNotes(n pkg.Notes) string {
	var b strings.Builder
	fmt.Fprintf(&b, "- Date: %s\n", n.Date)
	fmt.Fprintf(&b, "- Time: %s\n", n.Time)
	fmt.Fprintf(&b, "- Situation: %s\n", n.Situation)
	fmt.Fprintf(&b, "- Observations: %s\n", n.Observations)
	fmt.Fprintf(&b, "- What helped: %s\n", n.WhatHelped)
	fmt.Fprintf(&b, "- What didn't help: %s\n", n.WhatDidntHelp)
	fmt.Fprintf(&b, "- Questions for clinician: %s\n", n.QuestionsForClinician)
	return b.String()
}

// FormatPlan renders a plan as markdown for terminal output.
func FormatPlan(p pkg.Plan) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## Result: %s\n\n", p.Tier)
	fmt.Fprintf(&b, "**%s**\n\n", p.Headline)
	b.WriteString("### Why this level?\n\n")
	b.WriteString(strings.Join(p.Reasons, ", "))
	b.WriteString("\n\n### Actions to consider now\n\n")
	writeList(&b, p.Actions)
	b.WriteString("\n### Practical ideas\n")
	for _, t := range p.Topics {
		fmt.Fprintf(&b, "\n#### %s\n\n**Try:**\n", t.Name)
		writeList(&b, t.Try)
		b.WriteString("\n**Log/track:**\n")
		writeList(&b, t.Log)
	}
	b.WriteString("\n### General tips\n\n")
	writeList(&b, p.GeneralTips)
	return b.String()
}

func writeList(b *strings.Builder, items []string) {
	for _, it := range items {
		fmt.Fprintf(b, "- %s\n", it)
	}
}
