package interview

import (
	"encoding/json"
	"testing"
)

func TestVerdictCoercion(t *testing.T) {
	cases := []struct {
		in   string
		want Verdict
	}{
		{`{"apto": true}`, VerdictEligible},
		{`{"apto": "true"}`, VerdictEligible},
		{`{"apto": "TRUE"}`, VerdictEligible},
		{`{"apto": false}`, VerdictIneligible},
		{`{"apto": "false"}`, VerdictIneligible},
		{`{"apto": "quizás"}`, VerdictUnknown},
		{`{"apto": 1}`, VerdictUnknown},
		{`{}`, VerdictUnknown},
	}
	for _, c := range cases {
		var rec Record
		if err := json.Unmarshal([]byte(c.in), &rec); err != nil {
			t.Fatalf("unmarshal %s: %v", c.in, err)
		}
		if rec.Apto != c.want {
			t.Fatalf("input %s: expected verdict %v, got %v", c.in, c.want, rec.Apto)
		}
	}
}

func TestVerdictClassification(t *testing.T) {
	eval := ModelAuthority{}

	if got := eval.Classify(Record{Apto: VerdictEligible}); got != CategoryEligible {
		t.Fatalf("eligible verdict classified as %v", got)
	}
	if got := eval.Classify(Record{Apto: VerdictIneligible}); got != CategoryIneligible {
		t.Fatalf("ineligible verdict classified as %v", got)
	}
	// Unknown (missing or unparseable field) defaults to Ineligible.
	if got := eval.Classify(Record{}); got != CategoryIneligible {
		t.Fatalf("unknown verdict classified as %v", got)
	}
}
