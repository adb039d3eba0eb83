package core

import (
	"strings"

	"caregiver-support/pkg"
)

var apostrophes = strings.NewReplacer("‘", "'", "’", "'", "ʼ", "'")

// Normalize collapses whitespace runs to a single space, trims the result and
// lowercases it.  Typographic apostrophes are folded to ASCII so that
// "won’t" and "won't" match the same rules.
func Normalize(text string) string {
	text = apostrophes.Replace(text)
	return strings.ToLower(strings.Join(strings.Fields(text), " "))
}

// Classifier turns a caregiver's description into a Plan using a compiled
// Ruleset.  It holds no mutable state and may be shared between goroutines.
type Classifier struct {
	Rules *Ruleset
}

// NewClassifier constructs a Classifier over rules.
func NewClassifier(rules *Ruleset) *Classifier {
	return &Classifier{Rules: rules}
}

var defaultClassifier = NewClassifier(MustCompile(DefaultRules()))

// Classify runs text through the built-in rule catalog.
func Classify(text string) pkg.Plan {
	return defaultClassifier.Classify(text)
}

// Classify produces a plan for text.  Every input, including the empty
// string, yields a complete plan: tier selection is strictly
// EMERGENCY > URGENT > ROUTINE and an unmatched description gets the
// general support topic.
func (c *Classifier) Classify(text string) pkg.Plan {
	t := Normalize(text)

	emergencyHits := matchAll(c.Rules.emergency, t)
	urgentHits := matchAll(c.Rules.urgent, t)
	topics := c.pickTopics(t)

	plan := pkg.Plan{GeneralTips: clone(generalTips)}
	switch {
	case len(emergencyHits) > 0:
		plan.Tier = pkg.TierEmergency
		plan.Headline = headlineEmergency
		plan.Actions = clone(emergencyActions)
		plan.Reasons = emergencyHits
	case len(urgentHits) > 0:
		plan.Tier = pkg.TierUrgent
		plan.Headline = headlineUrgent
		plan.Actions = clone(urgentActions)
		plan.Reasons = urgentHits
	default:
		plan.Tier = pkg.TierRoutine
		plan.Headline = headlineRoutine
		plan.Actions = clone(routineActions)
		plan.Reasons = []string{NoUrgentKeywords}
	}

	if len(topics) == 0 {
		topics = []pkg.Topic{{
			Name: generalSupport.Name,
			Try:  clone(generalSupport.Try),
			Log:  clone(generalSupport.Log),
		}}
	}
	plan.Topics = topics
	return plan
}

// matchAll returns the label of every rule that fires, in rule order.
func matchAll(rules []patternRule, text string) []string {
	var hits []string
	if text == "" {
		return hits
	}
	for _, r := range rules {
		if r.re.MatchString(text) {
			hits = append(hits, r.label)
		}
	}
	return hits
}

// pickTopics returns each topic at most once; the first firing trigger is
// enough.
func (c *Classifier) pickTopics(text string) []pkg.Topic {
	var matched []pkg.Topic
	if text == "" {
		return matched
	}
	for _, rule := range c.Rules.topics {
		for _, trig := range rule.triggers {
			if trig.MatchString(text) {
				matched = append(matched, pkg.Topic{
					Name: rule.name,
					Try:  clone(rule.try),
					Log:  clone(rule.log),
				})
				break
			}
		}
	}
	return matched
}

func clone(s []string) []string {
	return append([]string{}, s...)
}
