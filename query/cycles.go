package query

import (
	"sort"

	"github.com/loctree/loctree/model"
)

// Cycle is one strongly connected dependency cycle.
type Cycle struct {
	Files []string `json:"files"` // cyclically ordered
}

// CycleReport buckets detected cycles by whether every participating edge
// is static (breaking) or at least one is dynamic/type-only (lazy).
type CycleReport struct {
	Breaking []Cycle `json:"breaking"`
	Lazy     []Cycle `json:"lazy"`
}

type tarjanState struct {
	adj     map[string][]model.GraphEdge
	index   map[string]int
	low     map[string]int
	onStack map[string]bool
	stack   []string
	counter int
	sccs    [][]string
}

// FindCycles runs Tarjan's algorithm over snap.Edges and classifies each
// SCC of size >= 2 (plus any self-loop) as breaking or lazy.
func FindCycles(snap *model.Snapshot) CycleReport {
	adj := map[string][]model.GraphEdge{}
	nodes := map[string]bool{}
	for _, e := range snap.Edges {
		adj[e.From] = append(adj[e.From], e)
		nodes[e.From] = true
		nodes[e.To] = true
	}

	st := &tarjanState{
		adj:     adj,
		index:   map[string]int{},
		low:     map[string]int{},
		onStack: map[string]bool{},
	}

	var order []string
	for n := range nodes {
		order = append(order, n)
	}
	sort.Strings(order)

	for _, n := range order {
		if _, visited := st.index[n]; !visited {
			st.strongConnect(n)
		}
	}

	report := CycleReport{}
	for _, scc := range st.sccs {
		isSelfLoop := len(scc) == 1 && hasSelfLoop(adj, scc[0])
		if len(scc) < 2 && !isSelfLoop {
			continue
		}
		cycle := Cycle{Files: orderCycle(adj, scc)}
		if allEdgesStatic(adj, scc) {
			report.Breaking = append(report.Breaking, cycle)
		} else {
			report.Lazy = append(report.Lazy, cycle)
		}
	}
	return report
}

func hasSelfLoop(adj map[string][]model.GraphEdge, n string) bool {
	for _, e := range adj[n] {
		if e.To == n {
			return true
		}
	}
	return false
}

func (st *tarjanState) strongConnect(v string) {
	st.index[v] = st.counter
	st.low[v] = st.counter
	st.counter++
	st.stack = append(st.stack, v)
	st.onStack[v] = true

	for _, e := range st.adj[v] {
		w := e.To
		if _, visited := st.index[w]; !visited {
			st.strongConnect(w)
			if st.low[w] < st.low[v] {
				st.low[v] = st.low[w]
			}
		} else if st.onStack[w] {
			if st.index[w] < st.low[v] {
				st.low[v] = st.index[w]
			}
		}
	}

	if st.low[v] == st.index[v] {
		var scc []string
		for {
			n := len(st.stack) - 1
			w := st.stack[n]
			st.stack = st.stack[:n]
			st.onStack[w] = false
			scc = append(scc, w)
			if w == v {
				break
			}
		}
		st.sccs = append(st.sccs, scc)
	}
}

// orderCycle walks the SCC's nodes along actual edges, starting from its
// lexicographically smallest member, to produce a cyclically ordered chain.
func orderCycle(adj map[string][]model.GraphEdge, scc []string) []string {
	set := map[string]bool{}
	for _, n := range scc {
		set[n] = true
	}
	sorted := append([]string{}, scc...)
	sort.Strings(sorted)
	start := sorted[0]

	var ordered []string
	visited := map[string]bool{}
	cur := start
	for len(ordered) < len(scc) {
		ordered = append(ordered, cur)
		visited[cur] = true
		next := ""
		for _, e := range adj[cur] {
			if set[e.To] && !visited[e.To] {
				next = e.To
				break
			}
		}
		if next == "" {
			break
		}
		cur = next
	}
	return ordered
}

func allEdgesStatic(adj map[string][]model.GraphEdge, scc []string) bool {
	set := map[string]bool{}
	for _, n := range scc {
		set[n] = true
	}
	for _, n := range scc {
		for _, e := range adj[n] {
			if !set[e.To] {
				continue
			}
			if e.Label == model.EdgeDynamic || e.Label == model.EdgeTypeOnly {
				return false
			}
		}
	}
	return true
}
