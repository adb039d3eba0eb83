package core

// guidance.go holds the canned text shown alongside a plan.  Keeping the copy
// in one place makes it easy to review with clinicians without touching the
// matching logic.

const (
	// Disclaimer is displayed above the form.  The helper gives
	// non-diagnostic caregiving tips only.
	Disclaimer = "This tool provides non-medical, non-diagnostic caregiving support tips using simple rules. " +
		"It does not give medical diagnoses or medication changes. " +
		"If you're worried about safety or serious symptoms, contact a licensed clinician or emergency services."

	// NoUrgentKeywords is the single reason reported for ROUTINE plans.
	NoUrgentKeywords = "No urgent keywords found"

	headlineEmergency = "Possible emergency signs detected"
	headlineUrgent    = "Concerning signs detected"
	headlineRoutine   = "Supportive caregiving suggestions"
)

var (
	emergencyActions = []string{
		"Call your local emergency number now (or seek immediate emergency care).",
		"If safe, stay with the person and keep them comfortable while help is on the way.",
		"Do not delay care to use this tool.",
	}

	urgentActions = []string{
		"Consider contacting a licensed clinician, nurse line, or urgent care guidance today.",
		"Monitor closely and escalate if symptoms worsen or safety concerns arise.",
		"Keep notes to share (time, triggers, what you observed).",
	}

	routineActions = []string{
		"Try one or two practical steps below and observe what helps.",
		"Track patterns (time of day, triggers, what worked).",
		"Reach out to a clinician if issues persist or you're unsure.",
	}

	generalTips = []string{
		"Focus on comfort, safety, and routines. Avoid making medical conclusions.",
		"If symptoms are new, severe, or rapidly worsening, contact a licensed clinician or local urgent care guidance.",
		"In an emergency, call your local emergency number immediately.",
	}

	// generalSupport stands in when no topic rule matched.
	generalSupport = TopicSpec{
		Name: "General support",
		Try: []string{
			"Check immediate comfort: hydration, snack, restroom, temperature, pain/discomfort signs.",
			"Reduce stimulation and provide reassurance.",
			"Use simple choices (yes/no) and one-step prompts.",
		},
		Log: []string{
			"What happened, when, and any triggers you noticed.",
			"What you tried and the result.",
		},
	}
)
