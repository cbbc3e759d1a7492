package hydraulics

import (
	"container/heap"
	"math"

	"github.com/katalvlaran/hydronet/network"
)

// tankEvent is a tank's projected time (seconds from Htime) until it hits
// its minimum or maximum level at its current net inflow rate.
type tankEvent struct {
	nodeIdx int
	seconds float64
}

// tankEventPQ is a min-heap of *tankEvent ordered by seconds ascending,
// grounded on the lazy-decrease-key min-heap idiom used for vertex
// distances in the teacher's dijkstra/dijkstra.go.
type tankEventPQ []*tankEvent

func (pq tankEventPQ) Len() int            { return len(pq) }
func (pq tankEventPQ) Less(i, j int) bool  { return pq[i].seconds < pq[j].seconds }
func (pq tankEventPQ) Swap(i, j int)       { pq[i], pq[j] = pq[j], pq[i] }
func (pq *tankEventPQ) Push(x interface{}) { *pq = append(*pq, x.(*tankEvent)) }
func (pq *tankEventPQ) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]
	return item
}

// NextTankStep returns the number of seconds until the soonest tank in the
// network reaches a full/empty bound, bounded by the nominal hydraulic
// step, the remaining simulation duration, and the next rule-step
// boundary. This implements spec.md §4.3's "shortened time step" rule.
func NextTankStep(store *network.Store, st *State, inflow map[int]float64) int {
	pq := &tankEventPQ{}
	heap.Init(pq)

	_, _, nnodes, _, _, _, _ := store.GetCount()
	for i := 1; i <= nnodes; i++ {
		n := store.Node(i)
		if n == nil || n.Type == network.Junction || n.Tank.Area <= 0 {
			continue
		}
		q, ok := inflow[i]
		if !ok || q == 0 {
			continue
		}
		dV := volumeToBound(n.Tank, st.Head[i], q)
		secs := dV / math.Abs(q)
		heap.Push(pq, &tankEvent{nodeIdx: i, seconds: secs})
	}

	step := float64(st.HydStep)
	if st.RuleStep > 0 {
		if toRule := float64(st.RuleStep - st.Htime%st.RuleStep); toRule < step {
			step = toRule
		}
	}
	if remaining := float64(st.Duration - st.Htime); remaining > 0 && remaining < step {
		step = remaining
	}
	if pq.Len() > 0 {
		ev := heap.Pop(pq).(*tankEvent)
		if ev.seconds < step {
			step = ev.seconds
		}
	}
	if step < 0 {
		step = 0
	}
	return int(math.Round(step))
}

// volumeToBound returns the tank volume remaining until it reaches Vmax
// (filling, q>0) or Vmin (draining, q<0), in cubic feet.
func volumeToBound(t *network.TankData, head, q float64) float64 {
	level := head - headBase(t)
	curV := t.Area * level
	if q > 0 {
		if d := t.Vmax - curV; d > 0 {
			return d
		}
		return 0
	}
	if d := curV - t.Vmin; d > 0 {
		return d
	}
	return 0
}

func headBase(t *network.TankData) float64 {
	if t.Area <= 0 {
		return 0
	}
	return t.H0 - t.V0/t.Area
}
