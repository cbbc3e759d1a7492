// Package quality implements the Lagrangian segment-transport
// water-quality solver: per-pipe segment queues, bulk/wall reaction
// kinetics, the four tank-mixing models, and source injection.
//
// Grounded on spec.md §5's description of the reference engine's
// segment-based transport; each pipe holds a slice-backed deque of
// segments.
package quality

import (
	"math"

	"github.com/katalvlaran/hydronet/network"
)

// ReactionOrder selects the rate-law exponent for bulk/wall decay.
type ReactionOrder int

const (
	FirstOrder ReactionOrder = iota
	ZeroOrder
	NthOrder
)

// Mode selects what the solver is tracking: a chemical's concentration,
// water age, or the fraction of flow traced from one source node.
type Mode int

const (
	ModeChemical Mode = iota
	ModeAge
	ModeTrace
)

// Segment is one slug of water of uniform quality and volume moving
// through a pipe, ordered newest-first: new segments are pushed at the
// head (index 0) as water enters from upstream, and the tail (last index)
// holds the oldest water, which leaves first at the downstream end.
type Segment struct {
	Volume float64
	Conc   float64
}

// PipeQueue is the deque of Segments currently inside one pipe, kept in a
// plain slice (Enqueue prepends, Dequeue trims the end).
type PipeQueue struct {
	segs []Segment
}

// Enqueue adds a new segment at the upstream (head) end.
func (q *PipeQueue) Enqueue(vol, conc float64) {
	if vol <= 0 {
		return
	}
	if len(q.segs) > 0 && q.segs[0].Conc == conc {
		q.segs[0].Volume += vol
		return
	}
	q.segs = append([]Segment{{Volume: vol, Conc: conc}}, q.segs...)
}

// Dequeue removes up to vol of water from the downstream (tail) end,
// returning the mass removed divided by vol; when the queue holds less
// than vol, the missing volume counts as zero concentration, so
// vol times the result is always the mass removed.
func (q *PipeQueue) Dequeue(vol float64) float64 {
	if vol <= 0 || len(q.segs) == 0 {
		return 0
	}
	remaining := vol
	massOut := 0.0
	for remaining > 0 && len(q.segs) > 0 {
		tail := len(q.segs) - 1
		seg := &q.segs[tail]
		take := remaining
		if take > seg.Volume {
			take = seg.Volume
		}
		massOut += take * seg.Conc
		seg.Volume -= take
		remaining -= take
		if seg.Volume <= 1e-12 {
			q.segs = q.segs[:tail]
		}
	}
	return massOut / vol
}

// TotalVolume sums the volume of every segment currently queued.
func (q *PipeQueue) TotalVolume() float64 {
	total := 0.0
	for _, s := range q.segs {
		total += s.Volume
	}
	return total
}

// Count reports how many discrete segments are queued.
func (q *PipeQueue) Count() int { return len(q.segs) }

// TankState carries a tank node's water-quality mixing state across StepQ
// calls, in addition to the reported value in State.NodeConc: the
// well-mixed (or single) compartment volume/concentration, the stagnant
// second compartment used by Mix2, and a plug-flow segment queue used by
// FIFO/LIFO.
type TankState struct {
	Volume       float64
	Conc         float64
	StagnantConc float64
	Queue        PipeQueue
}

// State is the mutable water-quality snapshot for one Project: per-node
// concentration, per-pipe segment queues, and per-tank mixed concentration.
type State struct {
	Mode Mode

	NodeConc []float64 // per node, current reported concentration/age/trace-fraction
	Pipes    []PipeQueue // per link, index-aligned with network links; only pipes used
	Tanks    []*TankState // per node, non-nil only for TankNode nodes

	Wtime int // seconds, water-quality period cursor
	QStep int // seconds, water-quality time step (<= hydraulic step)

	TraceNode int // 0 = not tracing

	opened bool
}

// NewState returns an empty water-quality State.
func NewState() *State { return &State{} }

// Resize grows NodeConc/Pipes to match the store's current element counts.
func (st *State) Resize(nnodes, nlinks int) {
	if len(st.NodeConc) < nnodes+1 {
		grown := make([]float64, nnodes+1)
		copy(grown, st.NodeConc)
		st.NodeConc = grown
	}
	if len(st.Pipes) < nlinks+1 {
		grown := make([]PipeQueue, nlinks+1)
		copy(grown, st.Pipes)
		st.Pipes = grown
	}
	if len(st.Tanks) < nnodes+1 {
		grown := make([]*TankState, nnodes+1)
		copy(grown, st.Tanks)
		st.Tanks = grown
	}
}

// SeedTank initializes a tank node's mixing state from its initial volume
// and quality, including a single plug-flow segment for FIFO/LIFO models.
func (st *State) SeedTank(store *network.Store, nodeIdx int) {
	n := store.Node(nodeIdx)
	if n == nil || n.Tank == nil || n.Type != network.TankNode {
		return
	}
	ts := &TankState{Volume: n.Tank.V0, Conc: n.InitialQuality, StagnantConc: n.InitialQuality}
	ts.Queue.segs = []Segment{{Volume: n.Tank.V0, Conc: n.InitialQuality}}
	st.Tanks[nodeIdx] = ts
	st.NodeConc[nodeIdx] = n.InitialQuality
}

// SeedPipe initializes a pipe's queue to a single segment spanning its
// full volume at the node-initial-quality average of its endpoints.
func (st *State) SeedPipe(store *network.Store, linkIdx int) {
	l := store.Link(linkIdx)
	if l == nil || l.Type != network.Pipe && l.Type != network.CVPipe {
		return
	}
	vol := pipeVolume(l)
	n1, n2 := store.Node(l.N1), store.Node(l.N2)
	conc := 0.0
	if n1 != nil {
		conc += n1.InitialQuality / 2
	}
	if n2 != nil {
		conc += n2.InitialQuality / 2
	}
	st.Pipes[linkIdx] = PipeQueue{segs: []Segment{{Volume: vol, Conc: conc}}}
}

func pipeVolume(l *network.Link) float64 {
	radius := l.Diameter / 2
	return math.Pi * radius * radius * l.Length
}
