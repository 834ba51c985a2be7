package insect

// OutcomeKind is the three-way classification of one identification call.
type OutcomeKind int

const (
	// Identified: structurally valid answer with is_insect=true.
	Identified OutcomeKind = iota
	// NotAnInsect: structurally valid answer that declares the subject is
	// not an insect. The descriptive payload is kept; the model already
	// described what the subject actually is.
	NotAnInsect
	// Failed: no usable answer (no content, or contract violation).
	Failed
)

func (k OutcomeKind) String() string {
	switch k {
	case Identified:
		return "identified"
	case NotAnInsect:
		return "not_an_insect"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Outcome is the tagged result of classifying a raw model answer.
// Exactly one interpretation holds: Insect is set for Identified and
// NotAnInsect, Reason only for Failed.
type Outcome struct {
	Kind   OutcomeKind
	Insect *Insect
	Reason string
}

// Failure reasons. The two are deliberately distinct: an empty answer
// means the model produced nothing, a malformed one means it produced
// something that violates the contract.
const (
	ReasonNoResult  = "no result received"
	ReasonMalformed = "malformed response"
)

func identified(ins *Insect) Outcome { return Outcome{Kind: Identified, Insect: ins} }
func notAnInsect(ins *Insect) Outcome { return Outcome{Kind: NotAnInsect, Insect: ins} }

// Failure builds a Failed outcome with the given reason.
func Failure(reason string) Outcome { return Outcome{Kind: Failed, Reason: reason} }
