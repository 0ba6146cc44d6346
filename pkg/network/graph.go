// Package network builds connected, approximately regular graphs and turns
// them into branch lists and initial 3D layouts for the relaxer.
//
// [Build] seeds a Hamiltonian cycle so the result is connected by
// construction, then adds shuffled extra edges while both endpoints have
// spare degree. Exact regularity is not guaranteed: with tight constraints
// some nodes end below the target degree.
package network

import (
	"math/rand/v2"
	"slices"

	"github.com/matzehuels/pointpack/pkg/errors"
)

// Graph is an undirected adjacency map over nodes 0..Len()-1.
type Graph map[int][]int

// Build returns a connected graph on n nodes in which every node has degree
// at most m.
//
// Build rejects configurations that cannot be realised: n*m odd, m >= n, and
// m < 2 for more than one node. (1, 0) yields a single isolated node.
func Build(n, m int, rng *rand.Rand) (Graph, error) {
	if err := Validate(n, m); err != nil {
		return nil, err
	}

	g := make(Graph, n)
	for i := range n {
		g[i] = nil
	}
	if n == 1 {
		return g, nil
	}

	for i := range n {
		g.addEdge(i, (i+1)%n)
	}

	var pairs [][2]int
	for i := range n {
		for j := i + 1; j < n; j++ {
			if j == i+1 || (i == 0 && j == n-1) {
				continue
			}
			pairs = append(pairs, [2]int{i, j})
		}
	}
	rng.Shuffle(len(pairs), func(a, b int) { pairs[a], pairs[b] = pairs[b], pairs[a] })

	for _, p := range pairs {
		if len(g[p[0]]) < m && len(g[p[1]]) < m {
			g.addEdge(p[0], p[1])
		}
	}

	for i := range n {
		slices.Sort(g[i])
	}
	return g, nil
}

// Validate checks whether Build can realise an (n, m) graph.
func Validate(n, m int) error {
	switch {
	case n < 1:
		return errors.New(errors.ErrCodeInvalidGraph, "node count must be at least 1, got %d", n)
	case m < 0:
		return errors.New(errors.ErrCodeInvalidGraph, "degree must not be negative, got %d", m)
	case (n*m)%2 != 0:
		return errors.New(errors.ErrCodeInvalidGraph, "n*m must be even, got %d*%d", n, m)
	case m >= n:
		return errors.New(errors.ErrCodeInvalidGraph, "degree %d must be smaller than node count %d", m, n)
	case n > 1 && m < 2:
		return errors.New(errors.ErrCodeInvalidGraph, "degree must be at least 2 to connect %d nodes, got %d", n, m)
	}
	return nil
}

func (g Graph) addEdge(i, j int) {
	if i == j || g.HasEdge(i, j) {
		return
	}
	g[i] = append(g[i], j)
	g[j] = append(g[j], i)
}

// Len returns the number of nodes.
func (g Graph) Len() int { return len(g) }

// Neighbors returns the neighbours of node i in ascending order.
func (g Graph) Neighbors(i int) []int { return g[i] }

// Degree returns the number of neighbours of node i.
func (g Graph) Degree(i int) int { return len(g[i]) }

// HasEdge reports whether i and j are adjacent.
func (g Graph) HasEdge(i, j int) bool { return slices.Contains(g[i], j) }

// Edges returns the number of undirected edges.
func (g Graph) Edges() int {
	total := 0
	for _, nb := range g {
		total += len(nb)
	}
	return total / 2
}

// IsConnected reports whether a breadth-first traversal from node 0 reaches
// all n nodes. An empty graph is connected only when n is zero.
func IsConnected(g Graph, n int) bool {
	if n == 0 {
		return len(g) == 0
	}
	if _, ok := g[0]; !ok {
		return false
	}

	seen := map[int]bool{0: true}
	queue := []int{0}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, nb := range g[cur] {
			if !seen[nb] {
				seen[nb] = true
				queue = append(queue, nb)
			}
		}
	}
	return len(seen) == n
}
