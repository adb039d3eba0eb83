package core

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrInvalidRule is wrapped by every error Compile returns.
var ErrInvalidRule = errors.New("invalid rule")

// PatternSpec is an uncompiled (regular expression, label) pair.
type PatternSpec struct {
	Pattern string `yaml:"pattern" json:"pattern"`
	Label   string `yaml:"label" json:"label"`
}

// TopicSpec is an uncompiled topic rule.
type TopicSpec struct {
	Name     string   `yaml:"name" json:"name"`
	Triggers []string `yaml:"triggers" json:"triggers"`
	Try      []string `yaml:"what_to_try" json:"what_to_try"`
	Log      []string `yaml:"what_to_log" json:"what_to_log"`
}

// RuleSpecs is the full rule catalog in its stored form.  List order is
// significant: reasons and topics are reported in the order rules appear.
type RuleSpecs struct {
	Emergency []PatternSpec `yaml:"emergency" json:"emergency"`
	Urgent    []PatternSpec `yaml:"urgent" json:"urgent"`
	Topics    []TopicSpec   `yaml:"topics" json:"topics"`
}

type patternRule struct {
	re    *regexp.Regexp
	label string
}

type topicRule struct {
	name     string
	triggers []*regexp.Regexp
	try      []string
	log      []string
}

// Ruleset is a compiled, read-only rule catalog.  It is safe for concurrent
// use; nothing mutates it after Compile returns.
type Ruleset struct {
	emergency []patternRule
	urgent    []patternRule
	topics    []topicRule
	specs     RuleSpecs
}

// Compile validates specs and compiles every pattern case-insensitively.
func Compile(specs RuleSpecs) (*Ruleset, error) {
	rs := &Ruleset{specs: cloneSpecs(specs)}
	var err error
	if rs.emergency, err = compilePatterns("emergency", specs.Emergency); err != nil {
		return nil, err
	}
	if rs.urgent, err = compilePatterns("urgent", specs.Urgent); err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(specs.Topics))
	for i, t := range specs.Topics {
		name := strings.TrimSpace(t.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: topic %d has no name", ErrInvalidRule, i)
		}
		if seen[strings.ToLower(name)] {
			return nil, fmt.Errorf("%w: duplicate topic %q", ErrInvalidRule, name)
		}
		seen[strings.ToLower(name)] = true
		if len(t.Triggers) == 0 {
			return nil, fmt.Errorf("%w: topic %q has no triggers", ErrInvalidRule, name)
		}
		rule := topicRule{name: name, try: t.Try, log: t.Log}
		for _, trig := range t.Triggers {
			re, err := compilePattern(trig)
			if err != nil {
				return nil, fmt.Errorf("%w: topic %q: %v", ErrInvalidRule, name, err)
			}
			rule.triggers = append(rule.triggers, re)
		}
		rs.topics = append(rs.topics, rule)
	}
	return rs, nil
}

// MustCompile is like Compile but panics on error.  Use it for rule tables
// that ship with the binary.
func MustCompile(specs RuleSpecs) *Ruleset {
	rs, err := Compile(specs)
	if err != nil {
		panic(err)
	}
	return rs
}

// Specs returns a copy of the catalog the ruleset was compiled from.
func (r *Ruleset) Specs() RuleSpecs { return cloneSpecs(r.specs) }

// Len reports the number of emergency, urgent and topic rules.
func (r *Ruleset) Len() (emergency, urgent, topics int) {
	return len(r.emergency), len(r.urgent), len(r.topics)
}

func compilePatterns(kind string, specs []PatternSpec) ([]patternRule, error) {
	out := make([]patternRule, 0, len(specs))
	for i, p := range specs {
		if strings.TrimSpace(p.Label) == "" {
			return nil, fmt.Errorf("%w: %s pattern %d has no label", ErrInvalidRule, kind, i)
		}
		re, err := compilePattern(p.Pattern)
		if err != nil {
			return nil, fmt.Errorf("%w: %s pattern %q: %v", ErrInvalidRule, kind, p.Label, err)
		}
		out = append(out, patternRule{re: re, label: p.Label})
	}
	return out, nil
}

func compilePattern(expr string) (*regexp.Regexp, error) {
	if strings.TrimSpace(expr) == "" {
		return nil, errors.New("empty pattern")
	}
	return regexp.Compile("(?i)" + expr)
}

func cloneSpecs(s RuleSpecs) RuleSpecs {
	out := RuleSpecs{
		Emergency: append([]PatternSpec(nil), s.Emergency...),
		Urgent:    append([]PatternSpec(nil), s.Urgent...),
	}
	for _, t := range s.Topics {
		out.Topics = append(out.Topics, TopicSpec{
			Name:     t.Name,
			Triggers: append([]string(nil), t.Triggers...),
			Try:      append([]string(nil), t.Try...),
			Log:      append([]string(nil), t.Log...),
		})
	}
	return out
}

// DefaultRules returns the rule catalog that ships with the binary.
func DefaultRules() RuleSpecs {
	return RuleSpecs{
		Emergency: []PatternSpec{
			{`\b(chest pain|pressure in chest|can't breathe|cannot breathe|shortness of breath)\b`, "Breathing/chest symptoms"},
			{`\b(fainted|passed out|unconscious|not waking)\b`, "Loss of consciousness"},
			{`\b(stroke|face droop|slurred speech|one-sided weakness)\b`, "Possible stroke signs"},
			{`\b(seizure|convulsion)\b`, "Seizure"},
			{`\b(suicide|kill myself|self harm|hurt myself)\b`, "Self-harm risk"},
			{`\b(bleeding won't stop|severe bleeding)\b`, "Uncontrolled bleeding"},
		},
		Urgent: []PatternSpec{
			{`\b(high fever|fever over|fever above|very high fever)\b`, "High fever"},
			{`\b(confused|new confusion|delirious|disoriented)\b`, "New/worsening confusion"},
			{`\b(dehydrated|not drinking|not peeing|no urine)\b`, "Possible dehydration"},
			{`\b(fall|fell|hit head|head injury)\b`, "Fall or head injury"},
			{`\b(severe pain|worst pain)\b`, "Severe pain"},
			{`\b(vomiting repeatedly|can't keep fluids down)\b`, "Repeated vomiting"},
		},
		Topics: []TopicSpec{
			{
				Name:     "Agitation / anxiety",
				Triggers: []string{`\b(agitated|anxious|restless|panick|panic|irritable)\b`},
				Try: []string{
					"Reduce stimulation: dim lights, lower noise, limit visitors.",
					"Offer reassurance with a calm voice; validate feelings (e.g., \"I'm here with you\").",
					"Check basic needs: hunger, thirst, toilet, temperature, pain (without diagnosing).",
					"Try a simple grounding activity: slow breathing together, familiar music, photo album.",
				},
				Log: []string{
					"What was happening right before it started (time, place, people, activity).",
					"Any new changes: routine disruptions, poor sleep, missed meals, stressors.",
					"What helped and what made it worse.",
				},
			},
			{
				Name:     "Sleep trouble",
				Triggers: []string{`\b(can't sleep|cannot sleep|insomnia|up all night|sleepy daytime)\b`},
				Try: []string{
					"Keep a consistent schedule: same wake time daily.",
					"Daytime light and gentle activity; avoid long late naps.",
					"Create a wind-down routine: warm drink (non-caffeinated), quiet activity, low screens.",
					"Check comfort: room temperature, bedding, noise, bathroom needs.",
				},
				Log: []string{
					"Bedtime/wake time and number of night awakenings.",
					"Caffeine timing, naps, and evening screen time.",
					"Any patterns (worse after certain activities or foods).",
				},
			},
			{
				Name:     "Eating / drinking concerns",
				Triggers: []string{`\b(not eating|no appetite|won't eat|not drinking|dehydration|lost weight)\b`},
				Try: []string{
					"Offer small frequent snacks; prioritize favorite foods if safe to eat.",
					"Make fluids easy: water bottle nearby, soups, popsicles, scheduled sips.",
					"Reduce distractions during meals; sit together if possible.",
					"Try soft/easy-to-chew options if chewing seems difficult (no diagnosis).",
				},
				Log: []string{
					"Approximate intake (meals, snacks, fluids) and times.",
					"Any coughing/choking or difficulty swallowing (note to discuss with clinician).",
					"What foods/fluids were tolerated best.",
				},
			},
			{
				Name:     "Memory / confusion changes",
				Triggers: []string{`\b(confused|forgetting|memory|doesn't recognize|lost|wandering)\b`},
				Try: []string{
					"Use simple cues: date/time board, clear labels, consistent routine.",
					"Offer one-step instructions; avoid quizzing or correcting repeatedly.",
					"Ensure safe environment: remove trip hazards, consider door alerts.",
					"If wandering risk: keep ID info available and notify household members.",
				},
				Log: []string{
					"When confusion is worse (time of day, after naps, after visitors).",
					"Any safety incidents or near-misses.",
					"Triggers and calming strategies that worked.",
				},
			},
			{
				Name:     "Caregiver stress / burnout",
				Triggers: []string{`\b(overwhelmed|burnout|exhausted|can't do this|stressed|no support)\b`},
				Try: []string{
					"Take a short reset: 2-5 minutes of breathing, stretching, or stepping outside safely.",
					"Ask for specific help: one task, one person, one time (e.g., \"Can you sit with them 30 min?\").",
					"Create a mini-rotation: list 3-5 people/resources to contact.",
					"If you feel unsafe or in crisis, seek immediate help (local emergency resources).",
				},
				Log: []string{
					"What tasks feel hardest and when they peak.",
					"Sleep quantity, breaks taken, and support used.",
					"One small doable action for tomorrow.",
				},
			},
		},
	}
}
