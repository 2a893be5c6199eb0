// Package routing generates waypoint routes over a generated road
// network: scattered waypoints along a single road, and shortest paths
// between arbitrary points routed through the road graph.
package routing

import (
	"container/heap"
	"fmt"
	"math"
	"math/rand"

	"github.com/maitrix-org/simworld/pkg/config"
	"github.com/maitrix-org/simworld/pkg/geo"
	"github.com/maitrix-org/simworld/pkg/layout"
)

// Route is an ordered list of waypoints. Start and End duplicate the
// first and last point for consumers that only care about endpoints.
type Route struct {
	ID     string        `json:"id"`
	Start  geo.Point2D   `json:"start"`
	End    geo.Point2D   `json:"end"`
	Points []geo.Point2D `json:"points"`
}

// Generator builds routes over a road network.
type Generator struct {
	net    *layout.RoadNetwork
	cfg    config.RouteConfig
	rng    *rand.Rand
	routes []Route
}

// NewGenerator returns a generator over the given network.
func NewGenerator(net *layout.RoadNetwork, cfg config.RouteConfig, rng *rand.Rand) *Generator {
	return &Generator{net: net, cfg: cfg, rng: rng}
}

// Routes returns every route generated so far.
func (g *Generator) Routes() []Route {
	out := make([]Route, len(g.routes))
	copy(out, g.routes)
	return out
}

func (g *Generator) add(points []geo.Point2D) Route {
	r := Route{
		ID:     fmt.Sprintf("route_%05d", len(g.routes)),
		Start:  points[0],
		End:    points[len(points)-1],
		Points: points,
	}
	g.routes = append(g.routes, r)
	return r
}

// AlongRoad scatters a random number of waypoints along one road
// segment, ordered by their parameter on the segment.
func (g *Generator) AlongRoad(segID int) (Route, error) {
	seg, ok := g.net.Segment(segID)
	if !ok {
		return Route{}, fmt.Errorf("along road: segment %d does not exist", segID)
	}
	sg := g.net.SegmentGeometry(seg)

	span := g.cfg.MaxPointsPerRoute - g.cfg.MinPointsPerRoute + 1
	n := g.cfg.MinPointsPerRoute + g.rng.Intn(span)

	ts := make([]float64, n)
	for i := range ts {
		ts[i] = g.rng.Float64()
	}
	// Insertion sort keeps the walk monotonic along the road.
	for i := 1; i < n; i++ {
		for j := i; j > 0 && ts[j] < ts[j-1]; j-- {
			ts[j], ts[j-1] = ts[j-1], ts[j]
		}
	}

	points := make([]geo.Point2D, n)
	for i, t := range ts {
		points[i] = sg.PointAt(t)
	}
	return g.add(points), nil
}

// Between routes from start to end through the road graph: both points
// snap to their nearest road nodes and the waypoints follow the
// shortest path between those nodes.
func (g *Generator) Between(start, end geo.Point2D) (Route, error) {
	nodes := g.net.Nodes()
	if len(nodes) == 0 {
		return Route{}, fmt.Errorf("between: road network has no nodes")
	}

	from := nearestNode(nodes, start)
	to := nearestNode(nodes, end)
	path, ok := shortestPath(g.net, from, to)
	if !ok {
		return Route{}, fmt.Errorf("between: no road path from node %d to node %d", from, to)
	}

	points := make([]geo.Point2D, 0, len(path)+2)
	points = append(points, start)
	for _, id := range path {
		points = append(points, nodes[id].Position)
	}
	points = append(points, end)
	return g.add(points), nil
}

func nearestNode(nodes []layout.RoadNode, p geo.Point2D) int {
	best := 0
	bestDist := math.Inf(1)
	for _, n := range nodes {
		if d := n.Position.Distance(p); d < bestDist {
			best = n.ID
			bestDist = d
		}
	}
	return best
}

// shortestPath runs Dijkstra over the road graph with segment lengths
// as edge weights.
func shortestPath(net *layout.RoadNetwork, from, to int) ([]int, bool) {
	type edge struct {
		to     int
		weight float64
	}
	adj := map[int][]edge{}
	for _, s := range net.Segments() {
		w := net.SegmentGeometry(s).Length()
		adj[s.From] = append(adj[s.From], edge{to: s.To, weight: w})
		adj[s.To] = append(adj[s.To], edge{to: s.From, weight: w})
	}

	dist := map[int]float64{from: 0}
	prev := map[int]int{}
	visited := map[int]bool{}
	pq := &pathQueue{{node: from, dist: 0}}
	heap.Init(pq)

	for pq.Len() > 0 {
		cur := heap.Pop(pq).(pathEntry)
		if visited[cur.node] {
			continue
		}
		visited[cur.node] = true
		if cur.node == to {
			break
		}
		for _, e := range adj[cur.node] {
			alt := cur.dist + e.weight
			if d, seen := dist[e.to]; !seen || alt < d {
				dist[e.to] = alt
				prev[e.to] = cur.node
				heap.Push(pq, pathEntry{node: e.to, dist: alt})
			}
		}
	}

	if !visited[to] {
		return nil, false
	}
	var path []int
	for n := to; ; n = prev[n] {
		path = append(path, n)
		if n == from {
			break
		}
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path, true
}

type pathEntry struct {
	node int
	dist float64
}

type pathQueue []pathEntry

func (q pathQueue) Len() int           { return len(q) }
func (q pathQueue) Less(i, j int) bool { return q[i].dist < q[j].dist }
func (q pathQueue) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }
func (q *pathQueue) Push(x any)        { *q = append(*q, x.(pathEntry)) }
func (q *pathQueue) Pop() any {
	old := *q
	n := len(old)
	e := old[n-1]
	*q = old[:n-1]
	return e
}
