// Package interview implements the screening interview core: driving the
// generation collaborator over the session history, extracting the decision
// record embedded in its replies, classifying it and handing it to the
// persistence gateway.
package interview

import (
	"encoding/json"
	"strings"
)

// Category selects the persistence destination for a classified record.
type Category string

const (
	CategoryEligible   Category = "Eligible"
	CategoryIneligible Category = "Ineligible"
)

// Verdict is the parsed state of the record's "apto" field. Models emit
// it as a bool, a quoted bool, or not at all; the zero value is Unknown.
type Verdict int

const (
	VerdictUnknown Verdict = iota
	VerdictEligible
	VerdictIneligible
)

// UnmarshalJSON coerces tolerantly: native true/false, or a string equal
// to "true"/"false" case-insensitively. Anything else parses as Unknown
// rather than failing the whole record.
func (v *Verdict) UnmarshalJSON(b []byte) error {
	var asBool bool
	if err := json.Unmarshal(b, &asBool); err == nil {
		if asBool {
			*v = VerdictEligible
		} else {
			*v = VerdictIneligible
		}
		return nil
	}
	var asStr string
	if err := json.Unmarshal(b, &asStr); err == nil {
		switch strings.ToLower(strings.TrimSpace(asStr)) {
		case "true":
			*v = VerdictEligible
		case "false":
			*v = VerdictIneligible
		default:
			*v = VerdictUnknown
		}
		return nil
	}
	*v = VerdictUnknown
	return nil
}

// Record is the structured snapshot the collaborator appends to its final
// reply. It lives only for the turn that extracted it and is never echoed
// back to the candidate.
type Record struct {
	Apto              Verdict `json:"apto"`
	Edad              string  `json:"edad"`
	Nacionalidad      string  `json:"nacionalidad"`
	OcupacionIngresos string  `json:"ocupacionIngresos"`
	Sanitario         string  `json:"sanitario"`
	Docente           string  `json:"docente"`
	SoloPareja        string  `json:"soloPareja"`
	Menores           string  `json:"menores"`
	Fuma              string  `json:"fuma"`
	Mascotas          string  `json:"mascotas"`
	Tiempo            string  `json:"tiempo"`
	Comentarios       string  `json:"comentarios"`
	Telefono          string  `json:"telefono"`
	Email             string  `json:"email"`
}
