package insect

import (
	"encoding/json"
	"strings"

	"buggloo/api/internal/util"
)

// Classify turns a raw model answer into a tagged outcome.
//
// The parse is strict on purpose: unknown fields, type mismatches and a
// missing or non-boolean is_insect all make the whole answer untrusted.
// There is no partial recovery: a response that violates the contract is
// dropped entirely, never salvaged field by field.
func Classify(raw string) Outcome {
	raw = util.StripCodeFences(raw)
	if raw == "" {
		return Failure(ReasonNoResult)
	}

	var ins Insect
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&ins); err != nil {
		return Failure(ReasonMalformed)
	}
	// Reject trailing garbage after the JSON object.
	if dec.More() {
		return Failure(ReasonMalformed)
	}
	if ins.IsInsect == nil {
		return Failure(ReasonMalformed)
	}

	if !*ins.IsInsect {
		return notAnInsect(&ins)
	}
	return identified(&ins)
}
