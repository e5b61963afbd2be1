package tetwild

import (
	"fmt"

	"github.com/solidgeom/tetwild/internal/refine"
)

// Kind classifies a pipeline-level failure (spec.md section 7).
type Kind int

const (
	// InputInvalid: NaN/Inf coordinates, zero-area bbox, empty FI. Fatal.
	InputInvalid Kind = iota
	// EmptyInput: preprocess removed every triangle. Fatal (emit empty mesh).
	EmptyInput
	// EnvelopeInfeasible: refinement cannot converge within the envelope
	// at stage >= max_stage. The caller may retry with a larger eps_rel.
	EnvelopeInfeasible
	// PredicateDegeneracy: an exact predicate returned inconclusive; this
	// should be impossible with correct rational arithmetic and is
	// treated as an assertion failure, not a recoverable condition.
	PredicateDegeneracy
	// OperationRejected: a single local operation was discarded; surfaced
	// only when it escalates to a pipeline-level failure.
	OperationRejected
	// PassLimitExceeded: the pass budget ran out before convergence. Not
	// fatal: VO/TO/AO from the best pass so far are still returned.
	PassLimitExceeded
)

func (k Kind) String() string {
	switch k {
	case InputInvalid:
		return "InputInvalid"
	case EmptyInput:
		return "EmptyInput"
	case EnvelopeInfeasible:
		return "EnvelopeInfeasible"
	case PredicateDegeneracy:
		return "PredicateDegeneracy"
	case OperationRejected:
		return "OperationRejected"
	case PassLimitExceeded:
		return "PassLimitExceeded"
	default:
		return "Unknown"
	}
}

// Error is the structured error the pipeline returns for every
// pipeline-level failure. It carries the last valid intermediate
// refinement state for debugging, per spec.md section 7's propagation
// rule ("pipeline-level failures return a structured error carrying the
// last valid intermediate state").
type Error struct {
	Kind  Kind
	Msg   string
	Err   error
	State refine.RefineState
	Stats refine.PassStats
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("tetwild: %s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("tetwild: %s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }
