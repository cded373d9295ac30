package interview

import "strings"

// Evaluator classifies a parsed record into a persistence category. Two
// interchangeable implementations exist: one trusts the collaborator's
// self-reported verdict, the other recomputes eligibility locally from
// the collected answers. Which one runs is a config choice.
type Evaluator interface {
	Classify(rec Record) Category
}

// ModelAuthority trusts the "apto" field the collaborator reported.
// Unknown defaults to Ineligible.
type ModelAuthority struct{}

func (ModelAuthority) Classify(rec Record) Category {
	if rec.Apto == VerdictEligible {
		return CategoryEligible
	}
	return CategoryIneligible
}

// RuleAuthority ignores the self-reported verdict and evaluates the
// disqualifiers directly: a minor in the room, smoking, or pets each make
// the candidate ineligible. Every other combination is eligible.
type RuleAuthority struct{}

func (RuleAuthority) Classify(rec Record) Category {
	if isAffirmative(rec.Menores) || isAffirmative(rec.Fuma) || isAffirmative(rec.Mascotas) {
		return CategoryIneligible
	}
	return CategoryEligible
}

var affirmatives = []string{"sí", "si", "yes", "true", "claro"}

// isAffirmative detects a yes-answer in free text. Matches the token
// itself or the token starting the phrase ("sí, fumo"), not substrings,
// so "sin mascotas" stays negative.
func isAffirmative(answer string) bool {
	norm := strings.ToLower(strings.TrimSpace(answer))
	for _, tok := range affirmatives {
		if norm == tok ||
			strings.HasPrefix(norm, tok+" ") ||
			strings.HasPrefix(norm, tok+",") ||
			strings.HasPrefix(norm, tok+".") {
			return true
		}
	}
	return false
}
