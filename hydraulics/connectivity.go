package hydraulics

import "github.com/katalvlaran/hydronet/network"

// ConnectivityCache memoizes the last reachability pass, invalidated when
// Store.TopoVersion() or any link status changes, so a repeated
// extended-period run doesn't re-walk an unchanged network every period —
// grounded on the teacher's
// depth/parent-map BFS result shape in bfs/bfs.go, adapted from string
// vertex IDs to the 1-based node indices used throughout this package.
type ConnectivityCache struct {
	version   uint64
	status    []network.LinkStatus
	reachable map[int]bool
}

// CheckConnectivity reports the set of nodes reachable from any fixed-grade
// node (reservoir or tank) by traversing only links whose current status is
// not Closed. RunH raises errs.WarnDisconnected when any node is absent
// from the returned set.
//
// Grounded on the BFS queue/visited-map idiom in bfs/bfs.go; here the
// traversal is undirected (a link connects both endpoints regardless of
// flow sign) since hydraulic connectivity, unlike shortest-path search, has
// no notion of edge direction.
func CheckConnectivity(store *network.Store, st *State, cache *ConnectivityCache) map[int]bool {
	version := store.TopoVersion()
	if cache != nil && cache.version == version && cache.reachable != nil && len(cache.status) == len(st.Status) {
		stale := false
		for i, s := range cache.status {
			if s != st.Status[i] {
				stale = true
				break
			}
		}
		if !stale {
			return cache.reachable
		}
	}

	_, _, nnodes, _, _, _, nlinks := store.GetCount()
	adj := make(map[int][]int, nnodes+1)
	for li := 1; li <= nlinks; li++ {
		if st.Status[li] == network.Closed {
			continue
		}
		l := store.Link(li)
		if l == nil {
			continue
		}
		adj[l.N1] = append(adj[l.N1], l.N2)
		adj[l.N2] = append(adj[l.N2], l.N1)
	}

	visited := make(map[int]bool, nnodes+1)
	queue := make([]int, 0, nnodes+1)
	for i := 1; i <= nnodes; i++ {
		n := store.Node(i)
		if n != nil && n.Type != network.Junction {
			if !visited[i] {
				visited[i] = true
				queue = append(queue, i)
			}
		}
	}

	for head := 0; head < len(queue); head++ {
		cur := queue[head]
		for _, nb := range adj[cur] {
			if !visited[nb] {
				visited[nb] = true
				queue = append(queue, nb)
			}
		}
	}

	if cache != nil {
		cache.version = version
		cache.status = append(cache.status[:0], st.Status...)
		cache.reachable = visited
	}
	return visited
}

// NewConnectivityCache returns an empty, always-stale cache handle.
func NewConnectivityCache() *ConnectivityCache { return &ConnectivityCache{} }
