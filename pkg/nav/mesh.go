// Package nav builds a discrete walkable graph from a wagon's grid
// points and answers nearest-node and shortest-path queries over it.
// The mesh is room-sized (tens of points), so linear scans are fine.
package nav

import (
	"fmt"
	"math"

	"github.com/deadtrain/engine/pkg/iso"
)

// The six neighbor offsets of the diamond tiling: the four cardinal
// moves plus the two diagonals that stay on adjacent iso rows.
var neighborOffsets = [6][2]int{
	{1, 0}, {-1, 0}, {0, 1}, {0, -1}, {1, -1}, {-1, 1},
}

type node struct {
	point     iso.Point
	neighbors []string
}

// Mesh is the navigation graph of one wagon. All edges cost 1.
type Mesh struct {
	nodes map[string]*node
	order []string
}

func keyOf(x, y int) string {
	return fmt.Sprintf("%d:%d", x, y)
}

func roundKey(p iso.Point) string {
	return keyOf(int(math.Round(p.X)), int(math.Round(p.Y)))
}

// NewMesh builds a mesh from walkable grid points. Points are rounded
// to integer cells; duplicates collapse to one node.
func NewMesh(points []iso.Point) *Mesh {
	m := &Mesh{nodes: make(map[string]*node, len(points))}
	for _, p := range points {
		key := roundKey(p)
		if _, ok := m.nodes[key]; ok {
			continue
		}
		m.nodes[key] = &node{point: iso.Round(p)}
		m.order = append(m.order, key)
	}
	for _, key := range m.order {
		n := m.nodes[key]
		for _, off := range neighborOffsets {
			neighbor := keyOf(int(n.point.X)+off[0], int(n.point.Y)+off[1])
			if _, ok := m.nodes[neighbor]; ok {
				n.neighbors = append(n.neighbors, neighbor)
			}
		}
	}
	return m
}

// Len returns the number of nodes in the mesh.
func (m *Mesh) Len() int {
	return len(m.nodes)
}

// FindNearest returns the mesh node closest to the given point. The
// second return is false when the mesh is empty.
func (m *Mesh) FindNearest(p iso.Point) (iso.Point, bool) {
	if n, ok := m.nodes[roundKey(p)]; ok {
		return n.point, true
	}
	best := iso.Point{}
	bestDist := math.Inf(1)
	found := false
	for _, key := range m.order {
		n := m.nodes[key]
		dx := n.point.X - p.X
		dy := n.point.Y - p.Y
		d := dx*dx + dy*dy
		if d < bestDist {
			bestDist = d
			best = n.point
			found = true
		}
	}
	return best, found
}

// FindPath returns the shortest hop-count path between the nodes
// nearest to from and to, exclusive of the start node and inclusive of
// the goal. Coincident endpoints yield a single-point path; an empty
// mesh or an unreachable goal yields nil, which callers treat as
// "cannot move", not as an error.
func (m *Mesh) FindPath(from, to iso.Point) []iso.Point {
	start, ok := m.FindNearest(from)
	if !ok {
		return nil
	}
	goal, ok := m.FindNearest(to)
	if !ok {
		return nil
	}
	startKey := roundKey(start)
	goalKey := roundKey(goal)
	if startKey == goalKey {
		return []iso.Point{goal}
	}

	queue := []string{startKey}
	cameFrom := map[string]string{startKey: ""}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if current == goalKey {
			break
		}
		for _, neighbor := range m.nodes[current].neighbors {
			if _, visited := cameFrom[neighbor]; visited {
				continue
			}
			cameFrom[neighbor] = current
			queue = append(queue, neighbor)
		}
	}

	if _, reached := cameFrom[goalKey]; !reached {
		return nil
	}
	var reversed []iso.Point
	for key := goalKey; key != startKey; key = cameFrom[key] {
		reversed = append(reversed, m.nodes[key].point)
	}
	path := make([]iso.Point, len(reversed))
	for i, p := range reversed {
		path[len(reversed)-1-i] = p
	}
	return path
}
