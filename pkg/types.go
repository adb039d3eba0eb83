package pkg

// Tier is the urgency level assigned to a caregiver's description.  Only
// three tiers exist and they are strictly ordered: EMERGENCY outranks URGENT,
// which outranks ROUTINE.
type Tier string

const (
	TierEmergency Tier = "EMERGENCY"
	TierUrgent    Tier = "URGENT"
	TierRoutine   Tier = "ROUTINE"
)

// Topic is a caregiving scenario as it appears in a plan: a name plus the
// canned suggestions of what to try and what to keep track of.
type Topic struct {
	Name string   `json:"name"`
	Try  []string `json:"what_to_try"`
	Log  []string `json:"what_to_log"`
}

// Plan is the structured recommendation produced for one description.
type Plan struct {
	Tier        Tier     `json:"level"`
	Headline    string   `json:"headline"`
	Reasons     []string `json:"reasons"`
	Actions     []string `json:"actions_now"`
	Topics      []Topic  `json:"topics"`
	GeneralTips []string `json:"general_tips"`
}

// Notes is the copy/paste template a caregiver fills in after reading a
// plan.  Date and Time are stamped when the template is created; the
// remaining fields start empty and are edited through the form.
type Notes struct {
	Date                  string `json:"date"`
	Time                  string `json:"time"`
	Situation             string `json:"situation"`
	Observations          string `json:"observations"`
	WhatHelped            string `json:"what_helped"`
	WhatDidntHelp         string `json:"what_didnt_help"`
	QuestionsForClinician string `json:"questions_for_clinician"`
}

// ClassifyRequest is the JSON body accepted by the classify API.
type ClassifyRequest struct {
	Text string `json:"text"`
}
