package graph

// Graph is an undirected multigraph over a fixed set of nodes 0..n-1.
// Parallel edges and self-loops are stored as drawn; neither is deduplicated,
// so EdgeCount reflects every AddEdge call rather than distinct pairs.
type Graph struct {
	n     int
	adj   [][]int
	edges int
}

// New creates a graph with n nodes and no edges.
func New(n int) *Graph {
	return &Graph{
		n:   n,
		adj: make([][]int, n),
	}
}

// NodeCount returns the fixed number of nodes.
func (g *Graph) NodeCount() int {
	return g.n
}

// EdgeCount returns the total number of edges added, counting duplicates.
func (g *Graph) EdgeCount() int {
	return g.edges
}

// AddEdge adds an undirected edge between a and b. A self-loop (a == b)
// is recorded as a single adjacency entry; it never merges components.
func (g *Graph) AddEdge(a, b int) {
	g.adj[a] = append(g.adj[a], b)
	if a != b {
		g.adj[b] = append(g.adj[b], a)
	}
	g.edges++
}

// ComponentSizes returns the size of every connected component.
// An isolated node is its own component of size 1.
func (g *Graph) ComponentSizes() []int {
	visited := make([]bool, g.n)
	var sizes []int

	for start := 0; start < g.n; start++ {
		if visited[start] {
			continue
		}
		// BFS from start; queue index qi avoids re-slicing the queue head.
		queue := []int{start}
		visited[start] = true
		size := 0
		for qi := 0; qi < len(queue); qi++ {
			node := queue[qi]
			size++
			for _, neighbor := range g.adj[node] {
				if !visited[neighbor] {
					visited[neighbor] = true
					queue = append(queue, neighbor)
				}
			}
		}
		sizes = append(sizes, size)
	}
	return sizes
}

// LargestComponent returns the size of the largest connected component.
// Returns 0 only for an empty graph (n == 0).
func (g *Graph) LargestComponent() int {
	largest := 0
	for _, s := range g.ComponentSizes() {
		if s > largest {
			largest = s
		}
	}
	return largest
}
