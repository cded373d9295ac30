package interview

import "testing"

func TestRuleAuthorityDisqualifiers(t *testing.T) {
	eval := RuleAuthority{}

	clean := Record{Menores: "no", Fuma: "no", Mascotas: "no tengo"}
	if got := eval.Classify(clean); got != CategoryEligible {
		t.Fatalf("clean record classified as %v", got)
	}

	cases := []Record{
		{Menores: "sí", Fuma: "no", Mascotas: "no"},
		{Menores: "no", Fuma: "sí, fumo poco", Mascotas: "no"},
		{Menores: "no", Fuma: "no", Mascotas: "Sí, un gato"},
	}
	for i, rec := range cases {
		if got := eval.Classify(rec); got != CategoryIneligible {
			t.Fatalf("case %d: expected Ineligible, got %v (%+v)", i, got, rec)
		}
	}
}

func TestRuleAuthorityIgnoresSelfReportedVerdict(t *testing.T) {
	eval := RuleAuthority{}
	rec := Record{Apto: VerdictEligible, Fuma: "sí"}
	if got := eval.Classify(rec); got != CategoryIneligible {
		t.Fatalf("rule authority must override the model verdict, got %v", got)
	}
}

func TestIsAffirmative(t *testing.T) {
	yes := []string{"sí", "Si", "sí, claro", "yes", "SÍ."}
	for _, s := range yes {
		if !isAffirmative(s) {
			t.Fatalf("%q should be affirmative", s)
		}
	}
	no := []string{"no", "sin mascotas", "nunca", "", "no, qué va"}
	for _, s := range no {
		if isAffirmative(s) {
			t.Fatalf("%q should not be affirmative", s)
		}
	}
}
