package hydraulics

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/hydronet/network"
)

// headlossMinFlow is the flow magnitude below which headloss and its
// derivative are evaluated against a linearized segment to avoid a
// singular dH/dQ at Q=0, matching the reference engine's low-flow
// linearization behavior described narratively in spec.md §4.3.
const headlossMinFlow = 1e-6

// linkEquation returns a link's headloss (ft) and the derivative of flow
// with respect to headloss (dQ/dH, i.e. the link's "conductance" Y used to
// assemble the gradient-method Jacobian), given its current flow estimate.
//
// Grounded on spec.md §4.3's headloss-formula table; the three formulas
// share the resistance-times-flow-power shape, so one function handles all
// three by swapping the exponent.
func linkEquation(l *network.Link, q float64, formula HeadlossFormula) (headloss, y float64) {
	n := exponent(formula)
	absQ := math.Abs(q)
	if absQ < headlossMinFlow {
		// Linear region: h = R' * q, a secant through the origin with the
		// slope evaluated at the cutoff, keeping dH/dQ finite.
		rr := l.R * math.Pow(headlossMinFlow, n-1)
		h := rr * q
		return h, 1.0 / rr
	}
	hf := l.R * math.Pow(absQ, n)
	if q < 0 {
		hf = -hf
	}
	// Minor losses add a quadratic term; both terms receive the reference
	// engine's 1/(n*R*Q^(n-1)) style inverse for the conductance.
	if l.Km != 0 {
		hf += l.Km * q * absQ
	}
	dHdQ := n * l.R * math.Pow(absQ, n-1)
	if l.Km != 0 {
		dHdQ += 2 * l.Km * absQ
	}
	return hf, 1.0 / dHdQ
}

func exponent(formula HeadlossFormula) float64 {
	switch formula {
	case DarcyWeisbach:
		return 2.0
	case ChezyManning:
		return 2.0
	default: // HazenWilliams
		return 1.852
	}
}

// pumpEquation returns a pump's head gain and dQ/dH given its current flow
// and speed setting, from the affinity-scaled power-law curve
// head = speed^2 * (H0 - R*|Q/speed|^N).
func pumpEquation(p *network.PumpData, q, speed float64) (head, y float64) {
	if speed == 0 {
		return 0, 1e-8 // effectively closed: near-zero conductance, zero head
	}
	qn := q / speed
	absQ := math.Abs(qn)
	if absQ < headlossMinFlow {
		absQ = headlossMinFlow
	}
	h := speed * speed * (p.H0 - p.R*math.Pow(absQ, p.N))
	dHdQ := -speed * p.R * p.N * math.Pow(absQ, p.N-1)
	if dHdQ == 0 {
		dHdQ = -1e-8
	}
	return h, 1.0 / dHdQ
}

// System holds the assembled Jacobian terms for one gradient-method trial:
// per-node diagonal Aii, per-link conductance Y (used to build
// off-diagonal Aij terms and the flow-correction step), and F the net-flow
// imbalance right-hand side.
type System struct {
	Y  []float64 // per link, dQ/dH conductance for the current flow estimate
	Aii []float64 // per junction (1..njuncs), diagonal accumulator
	F   []float64 // per junction, right-hand side (net flow imbalance)
}

// Assemble builds the nodal linear system for the current flow/head
// estimate. Only junctions (indices 1..njuncs) are unknowns; tanks and
// reservoirs contribute fixed-grade terms folded into F.
//
// Grounded on the gradient method's standard nodal formulation; the loop
// structure (iterate links, scatter into node accumulators) mirrors the
// teacher's adjacency-scatter pattern used when assembling degree/weight
// sums in graph/dijkstra.go.
func Assemble(store *network.Store, st *State, formula HeadlossFormula) (*System, *mat.SymDense, error) {
	njuncs, _, _, _, _, _, nlinks := store.GetCount()

	sys := &System{
		Y:   make([]float64, nlinks+1),
		Aii: make([]float64, njuncs+1),
		F:   make([]float64, njuncs+1),
	}
	// Seed the right-hand side with each junction's withdrawal: at
	// convergence the net pipe outflow accumulated below must balance it.
	for i := 1; i <= njuncs; i++ {
		sys.F[i] = -st.Demand[i]
	}
	aij := make(map[[2]int]float64)

	for li := 1; li <= nlinks; li++ {
		l := store.Link(li)
		if l == nil || st.Status[li] == network.Closed {
			continue
		}
		q := st.Flow[li]
		var h, y float64
		switch {
		case l.Type == network.PumpLink:
			h, y = pumpEquation(l.Pump, q, pumpSpeed(st, li))
		default:
			h, y = linkEquation(l, q, formula)
		}
		sys.Y[li] = y

		n1, n2 := l.N1, l.N2
		isJ1 := n1 <= njuncs
		isJ2 := n2 <= njuncs

		if isJ1 {
			sys.Aii[n1] += y
			sys.F[n1] += q + y*h
		}
		if isJ2 {
			sys.Aii[n2] += y
			sys.F[n2] -= q + y*h
		}
		if isJ1 && isJ2 {
			key := [2]int{n1, n2}
			if n1 > n2 {
				key = [2]int{n2, n1}
			}
			aij[key] -= y
		}
		if isJ1 && !isJ2 {
			sys.F[n1] += y * st.Head[n2]
		}
		if isJ2 && !isJ1 {
			sys.F[n2] += y * st.Head[n1]
		}
	}

	a := mat.NewSymDense(njuncs, nil)
	for i := 1; i <= njuncs; i++ {
		a.SetSym(i-1, i-1, sys.Aii[i])
	}
	for key, v := range aij {
		a.SetSym(key[0]-1, key[1]-1, v)
	}
	return sys, a, nil
}

func pumpSpeed(st *State, linkIdx int) float64 {
	s := st.Setting[linkIdx]
	if s == 0 {
		return 1.0
	}
	return s
}
