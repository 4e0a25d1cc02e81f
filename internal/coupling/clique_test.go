package coupling

import (
	"testing"

	"pkglens/internal/model"
)

func edge(a, b string, jaccard float64) model.CoChangeEdge {
	if b < a {
		a, b = b, a
	}
	return model.CoChangeEdge{File1: a, File2: b, Jaccard: jaccard, CoChangeCount: 3}
}

func TestDetectClustersRequiresCompleteClique(t *testing.T) {
	// a-b and b-c without a-c is a path, not a clique.
	edges := []model.CoChangeEdge{
		edge("a.ts", "b.ts", 0.9),
		edge("b.ts", "c.ts", 0.8),
	}
	if clusters := DetectClusters(edges); len(clusters) != 0 {
		t.Errorf("incomplete triangle must yield no clusters, got %v", clusters)
	}

	edges = append(edges, edge("a.ts", "c.ts", 0.7))
	clusters := DetectClusters(edges)
	if len(clusters) != 1 {
		t.Fatalf("complete triangle should yield 1 cluster, got %v", clusters)
	}
	if len(clusters[0]) != 3 {
		t.Errorf("cluster should have 3 members, got %v", clusters[0])
	}
}

func TestDetectClustersDisjoint(t *testing.T) {
	// Two triangles sharing node c: c may only appear in one cluster.
	edges := []model.CoChangeEdge{
		edge("a.ts", "b.ts", 0.9),
		edge("b.ts", "c.ts", 0.9),
		edge("a.ts", "c.ts", 0.9),
		edge("c.ts", "d.ts", 0.8),
		edge("d.ts", "e.ts", 0.8),
		edge("c.ts", "e.ts", 0.8),
	}

	clusters := DetectClusters(edges)

	seen := make(map[string]int)
	for _, c := range clusters {
		for _, f := range c {
			seen[f]++
		}
	}
	for f, n := range seen {
		if n > 1 {
			t.Errorf("%s appears in %d clusters, clusters must be disjoint", f, n)
		}
	}
}

func TestDetectClustersDeterministic(t *testing.T) {
	edges := []model.CoChangeEdge{
		edge("a.ts", "b.ts", 0.9),
		edge("b.ts", "c.ts", 0.9),
		edge("a.ts", "c.ts", 0.9),
	}

	first := DetectClusters(edges)
	for i := 0; i < 10; i++ {
		got := DetectClusters(edges)
		if len(got) != len(first) {
			t.Fatalf("run %d: cluster count changed", i)
		}
		for j := range got {
			if len(got[j]) != len(first[j]) {
				t.Fatalf("run %d: cluster size changed", i)
			}
			for k := range got[j] {
				if got[j][k] != first[j][k] {
					t.Fatalf("run %d: membership changed: %v vs %v", i, got[j], first[j])
				}
			}
		}
	}
}
