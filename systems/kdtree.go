package systems

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/spatial/kdtree"
)

// KDTreeLocator answers nearest-neighbour queries from a k-d tree rebuilt
// every tick. Ties between equidistant particles are not ordered by index.
type KDTreeLocator struct {
	tree   *kdtree.Tree
	points flowPoints
}

// Prepare rebuilds the tree from the current particle positions.
func (l *KDTreeLocator) Prepare(particles []Particle) {
	l.points = l.points[:0]
	for i, p := range particles {
		l.points = append(l.points, flowPoint{x: p.X, y: p.Y, idx: i})
	}
	if len(l.points) == 0 {
		l.tree = nil
		return
	}
	// kdtree.New reorders its input, so give it a copy
	pts := make(flowPoints, len(l.points))
	copy(pts, l.points)
	l.tree = kdtree.New(pts, false)
}

// Nearest2 returns the two nearest particles, nearer first.
func (l *KDTreeLocator) Nearest2(x, y float64) (i0, i1 int, d0, d1 float64) {
	if l.tree == nil {
		return -1, -1, math.MaxFloat64, math.MaxFloat64
	}

	keep := kdtree.NewNKeeper(2)
	l.tree.NearestSet(keep, flowPoint{x: x, y: y, idx: -1})

	found := make([]kdtree.ComparableDist, 0, 2)
	for _, c := range keep.Heap {
		if c.Comparable == nil {
			continue
		}
		found = append(found, c)
	}
	sort.Slice(found, func(a, b int) bool {
		if found[a].Dist == found[b].Dist {
			return found[a].Comparable.(flowPoint).idx < found[b].Comparable.(flowPoint).idx
		}
		return found[a].Dist < found[b].Dist
	})

	switch len(found) {
	case 0:
		return -1, -1, math.MaxFloat64, math.MaxFloat64
	case 1:
		p := found[0].Comparable.(flowPoint)
		d := math.Sqrt(found[0].Dist)
		return p.idx, p.idx, d, d
	}
	p0 := found[0].Comparable.(flowPoint)
	p1 := found[1].Comparable.(flowPoint)
	return p0.idx, p1.idx, math.Sqrt(found[0].Dist), math.Sqrt(found[1].Dist)
}

// flowPoint is a particle position tagged with its index.
type flowPoint struct {
	x, y float64
	idx  int
}

// Compare returns the signed distance of p from the plane through c on dimension d.
func (p flowPoint) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	q := c.(flowPoint)
	if d == 0 {
		return p.x - q.x
	}
	return p.y - q.y
}

// Dims returns the number of dimensions.
func (p flowPoint) Dims() int { return 2 }

// Distance returns the squared Euclidean distance between p and c.
func (p flowPoint) Distance(c kdtree.Comparable) float64 {
	q := c.(flowPoint)
	dx := p.x - q.x
	dy := p.y - q.y
	return dx*dx + dy*dy
}

type flowPoints []flowPoint

func (p flowPoints) Index(i int) kdtree.Comparable { return p[i] }
func (p flowPoints) Len() int                      { return len(p) }
func (p flowPoints) Pivot(d kdtree.Dim) int {
	return flowPlane{flowPoints: p, Dim: d}.Pivot()
}
func (p flowPoints) Slice(start, end int) kdtree.Interface { return p[start:end] }

// flowPlane sorts flowPoints along one dimension.
type flowPlane struct {
	kdtree.Dim
	flowPoints
}

func (p flowPlane) Less(i, j int) bool {
	if p.Dim == 0 {
		return p.flowPoints[i].x < p.flowPoints[j].x
	}
	return p.flowPoints[i].y < p.flowPoints[j].y
}
func (p flowPlane) Pivot() int { return kdtree.Partition(p, kdtree.MedianOfMedians(p)) }
func (p flowPlane) Slice(start, end int) kdtree.SortSlicer {
	p.flowPoints = p.flowPoints[start:end]
	return p
}
func (p flowPlane) Swap(i, j int) {
	p.flowPoints[i], p.flowPoints[j] = p.flowPoints[j], p.flowPoints[i]
}
