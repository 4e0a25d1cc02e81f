package coupling

import (
	"sort"

	"pkglens/internal/model"
)

// pairGraph is a sparse undirected graph over file paths using dense
// integer indices, so clique membership checks are O(1) lookups into a
// bitset-like adjacency without hashing path strings.
type pairGraph struct {
	nodes   []string
	nodeIdx map[string]int
	adj     []map[int]bool
	weight  map[[2]int]float64
}

func newPairGraph(edges []model.CoChangeEdge) *pairGraph {
	g := &pairGraph{
		nodeIdx: make(map[string]int),
		weight:  make(map[[2]int]float64),
	}
	idx := func(name string) int {
		if i, ok := g.nodeIdx[name]; ok {
			return i
		}
		i := len(g.nodes)
		g.nodes = append(g.nodes, name)
		g.nodeIdx[name] = i
		g.adj = append(g.adj, make(map[int]bool))
		return i
	}
	for _, e := range edges {
		a, b := idx(e.File1), idx(e.File2)
		g.adj[a][b] = true
		g.adj[b][a] = true
		g.weight[edgeKey(a, b)] = e.Jaccard
	}
	return g
}

func edgeKey(a, b int) [2]int {
	if a < b {
		return [2]int{a, b}
	}
	return [2]int{b, a}
}

func (g *pairGraph) connectedToAll(candidate int, members []int) bool {
	for _, m := range members {
		if !g.adj[candidate][m] {
			return false
		}
	}
	return true
}

// DetectClusters finds disjoint strict cliques of at least 3 files among
// the surviving co-change edges. Connectivity alone does not qualify:
// every pairwise edge among a cluster's members must exist. Greedy
// expansion runs in a fixed order (degree descending, then path) so
// cluster membership is deterministic.
func DetectClusters(edges []model.CoChangeEdge) [][]string {
	g := newPairGraph(edges)

	order := make([]int, len(g.nodes))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool {
		di, dj := len(g.adj[order[i]]), len(g.adj[order[j]])
		if di != dj {
			return di > dj
		}
		return g.nodes[order[i]] < g.nodes[order[j]]
	})

	used := make([]bool, len(g.nodes))
	var clusters [][]string

	for _, seed := range order {
		if used[seed] {
			continue
		}
		members := []int{seed}

		// Neighbors strongest-first so the tightest clique wins the seed.
		neighbors := make([]int, 0, len(g.adj[seed]))
		for n := range g.adj[seed] {
			neighbors = append(neighbors, n)
		}
		sort.Slice(neighbors, func(i, j int) bool {
			wi := g.weight[edgeKey(seed, neighbors[i])]
			wj := g.weight[edgeKey(seed, neighbors[j])]
			if wi != wj {
				return wi > wj
			}
			return g.nodes[neighbors[i]] < g.nodes[neighbors[j]]
		})

		for _, n := range neighbors {
			if used[n] {
				continue
			}
			if g.connectedToAll(n, members) {
				members = append(members, n)
			}
		}

		if len(members) < 3 {
			continue
		}
		for _, m := range members {
			used[m] = true
		}
		names := make([]string, len(members))
		for i, m := range members {
			names[i] = g.nodes[m]
		}
		sort.Strings(names)
		clusters = append(clusters, names)
	}

	sort.Slice(clusters, func(i, j int) bool {
		if len(clusters[i]) != len(clusters[j]) {
			return len(clusters[i]) > len(clusters[j])
		}
		return clusters[i][0] < clusters[j][0]
	})
	return clusters
}
