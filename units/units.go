// Package units implements the per-dimension conversion-factor table
// (Ucf) described in spec.md §4.1: internal values are always stored in
// US-customary, feet/cfs-equivalent units; every getter on the facade
// multiplies by the appropriate factor, every setter divides.
//
// Grounded on the teacher's table-of-constants style (builder's
// sequence_primitives.go's named defaults instead of inline magic
// numbers): every factor here is a named constant with its derivation in
// a comment, never recomputed at call sites.
package units

// FlowUnits selects the user-visible flow unit, which in turn fixes every
// other dimension's conversion factor (spec.md §4.1: "changing flow units
// rescales all curve points and all internal working values").
type FlowUnits int

const (
	CFS FlowUnits = iota // cubic feet per second (US, internal default)
	GPM                  // gallons per minute (US)
	MGD                  // million gallons per day (US)
	IMGD                 // imperial million gallons per day (US)
	AFD                  // acre-feet per day (US)
	LPS                  // liters per second (SI)
	LPM                  // liters per minute (SI)
	MLD                  // million liters per day (SI)
	CMH                  // cubic meters per hour (SI)
	CMD                  // cubic meters per day (SI)
)

// IsSI reports whether a FlowUnits selection implies the metric system,
// which additionally rescales elevation/diameter/length from feet/inches
// to meters/millimeters.
func (u FlowUnits) IsSI() bool {
	return u >= LPS
}

// Dimension names an independently convertible physical quantity.
type Dimension int

const (
	DimFlow Dimension = iota
	DimDemand
	DimHead
	DimPressure
	DimLength
	DimDiameter
	DimVolume
	DimConcentration
	DimReactionCoeff
)

// ftToM is the exact international-foot-to-meter conversion.
const ftToM = 0.3048

// flowCfsPerUnit converts 1 unit of the given FlowUnits into internal cfs.
var flowCfsPerUnit = map[FlowUnits]float64{
	CFS:  1.0,
	GPM:  1.0 / 448.831,
	MGD:  1.54723,
	IMGD: 1.85783,
	AFD:  0.504167,
	LPS:  0.0353147,
	LPM:  0.0353147 / 60.0,
	MLD:  0.408734,
	CMH:  0.0353147 / 3600.0 * 1000.0,
	CMD:  0.0353147 / 86400.0 * 1000.0,
}

// Table holds the resolved per-dimension conversion factors for one
// FlowUnits selection: internal_value * Factor(dim) == user_visible_value.
type Table struct {
	Units FlowUnits
	cf    map[Dimension]float64
}

// NewTable builds the conversion table for the given flow-unit selection.
func NewTable(u FlowUnits) *Table {
	t := &Table{Units: u, cf: make(map[Dimension]float64, 9)}

	flowCf := 1.0 / flowCfsPerUnit[u] // internal cfs -> user flow unit
	t.cf[DimFlow] = flowCf
	t.cf[DimDemand] = flowCf

	if u.IsSI() {
		t.cf[DimHead] = ftToM                // ft -> m
		t.cf[DimPressure] = ftToM            // head reported in meters, SG=1
		t.cf[DimLength] = ftToM              // ft -> m
		t.cf[DimDiameter] = ftToM * 1000.0   // ft -> mm
		t.cf[DimVolume] = ftToM * ftToM * ftToM // ft^3 -> m^3
		t.cf[DimReactionCoeff] = 1.0         // per-day rates, both systems
	} else {
		t.cf[DimHead] = 1.0       // ft -> ft
		t.cf[DimPressure] = 0.433 // ft of head -> psi, SG=1
		t.cf[DimLength] = 1.0     // ft -> ft
		t.cf[DimDiameter] = 12.0  // ft -> in
		t.cf[DimVolume] = 1.0     // ft^3 -> ft^3
		t.cf[DimReactionCoeff] = 1.0
	}
	t.cf[DimConcentration] = 1.0 // mg/L both systems

	return t
}

// ToUser converts an internal value to the user-visible unit for dim.
func (t *Table) ToUser(dim Dimension, internal float64) float64 {
	return internal * t.cf[dim]
}

// ToInternal converts a user-visible value back to internal units for dim.
func (t *Table) ToInternal(dim Dimension, user float64) float64 {
	f := t.cf[dim]
	if f == 0 {
		return 0
	}
	return user / f
}

// Factor returns the raw multiplicative factor for dim (internal->user).
func (t *Table) Factor(dim Dimension) float64 { return t.cf[dim] }

// RescaleCurve converts every x,y pair of a curve between two unit tables
// for the given dimensions, satisfying spec.md §8's invariant exactly:
// new_x = old_x * (old_x_ucf / new_x_ucf).
func RescaleCurve(x, y []float64, xDim, yDim Dimension, from, to *Table) (nx, ny []float64) {
	nx = make([]float64, len(x))
	ny = make([]float64, len(y))
	xRatio := from.Factor(xDim) / to.Factor(xDim)
	yRatio := from.Factor(yDim) / to.Factor(yDim)
	for i := range x {
		nx[i] = x[i] * xRatio
		ny[i] = y[i] * yRatio
	}
	return nx, ny
}
