// Package errs defines the numeric error vocabulary shared by every hydronet
// subpackage. Internally, code never branches on an integer: callers match
// sentinels with errors.Is. The integer Code is attached only so the public
// facade (package project) can surface the stable ABI codes its callers
// depend on.
//
// Code ranges, per the public API contract:
//
//	<100       warnings (non-fatal; highest code wins when several apply)
//	100-199    system errors (abort the current call)
//	200-299    input/argument errors (validated before any mutation)
//	300-399    I/O errors
package errs

import "fmt"

// Error is a coded error. Two *Error values compare equal under errors.Is
// when their Code matches, regardless of Msg, which lets call sites
// construct a fresh *Error with extra context (via Wrap) without breaking
// sentinel comparison.
type Error struct {
	Code int
	Msg  string
	err  error // optional wrapped cause
}

func New(code int, msg string) *Error {
	return &Error{Code: code, Msg: msg}
}

func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("hydronet: error %d: %s: %v", e.Code, e.Msg, e.err)
	}
	return fmt.Sprintf("hydronet: error %d: %s", e.Code, e.Msg)
}

func (e *Error) Unwrap() error { return e.err }

// Is reports Code-equality, so any two Errors sharing a Code are
// interchangeable under errors.Is(err, errs.ErrNoSuchNode) style checks.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// Wrap returns a copy of sentinel with an attached cause and optional
// extra context appended to the message, preserving Code for errors.Is.
func Wrap(sentinel *Error, context string, cause error) *Error {
	msg := sentinel.Msg
	if context != "" {
		msg = fmt.Sprintf("%s: %s", sentinel.Msg, context)
	}
	return &Error{Code: sentinel.Code, Msg: msg, err: cause}
}

// Warning codes (<100). Accumulated per hydraulic/WQ period; the highest
// code observed during a run wins when solveH/solveQ return their warning.
const (
	WarnUnbalanced        = 1 // hydraulic trials exhausted without convergence
	WarnUnstable          = 2 // system hydraulically unstable (status flip-flop)
	WarnDisconnected      = 3 // network disconnected between a source and a demand
	WarnReservoirCycling  = 4 // a reservoir/tank is being drained and refilled every step
	WarnNegativePressures = 5 // a junction reports negative pressure
	WarnEquationFailure   = 6 // the linear solve failed (singular system)
)

// System errors (100-199).
var (
	ErrOutOfMemory        = New(101, "out of memory")
	ErrNotOpen            = New(102, "project not open")
	ErrHydNotOpen         = New(103, "hydraulics not open")
	ErrNoHydResults       = New(104, "no hydraulics results")
	ErrWQNotOpen          = New(105, "water quality not open")
	ErrNoWQResults        = New(106, "no water quality results")
	ErrHydFileInUse       = New(107, "hydraulics file in use")
	ErrHydOpenWhenUseFile = New(108, "hydraulics already open when using saved file")
)

// Input/argument errors (200-299).
var (
	ErrBadValue             = New(202, "invalid numeric value")
	ErrNoSuchNode           = New(203, "no such node")
	ErrNoSuchLink           = New(204, "no such link")
	ErrNoSuchPattern        = New(205, "no such pattern")
	ErrNoSuchCurve          = New(206, "no such curve")
	ErrIllegalOnCV          = New(207, "illegal operation on a check-valve pipe")
	ErrInvalidNodeID        = New(209, "invalid node ID")
	ErrDuplicateID          = New(215, "duplicate ID")
	ErrIllegalValveShared   = New(219, "valve shares an end-node with another PRV/PSV/FCV")
	ErrIllegalValveEndpoint = New(220, "valve endpoints must both be junctions")
	ErrSameEndNodes         = New(222, "link end-nodes are identical")
	ErrNoSourceAtNode       = New(240, "no water quality source at node")
	ErrNoSuchControl        = New(241, "no such control")
	ErrMalformedText        = New(250, "malformed rule text")
	ErrCodeOutOfRange       = New(251, "code out of range")
	ErrNoSuchDemand         = New(253, "no such demand category")
	ErrNoCoords             = New(254, "node has no coordinates")
	ErrCoordsDisabled       = New(255, "coordinates are disabled")
	ErrNoSuchRule           = New(257, "no such rule")
	ErrNoSuchPremiseAction  = New(258, "no such premise or action")
	ErrTraceNodeUndeletable = New(260, "trace node cannot be deleted")
	ErrElementControlled    = New(261, "element is referenced by a control or rule")
	ErrNoEfficiencyCurve    = New(268, "pump has no efficiency curve")
)

// I/O errors (300-399).
var (
	ErrSameFilename  = New(301, "input, report and output filenames must differ")
	ErrInputOpen     = New(302, "cannot open input file")
	ErrReportOpen    = New(303, "cannot open report file")
	ErrOutputOpen    = New(304, "cannot open output file")
	ErrHydFileOpen   = New(305, "cannot open hydraulics file")
	ErrHydFileShape  = New(306, "hydraulics file header does not match network size")
	ErrReportWrite   = New(309, "cannot write to report file")
)
