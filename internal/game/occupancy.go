package game

import "math"

// Occupancy answers "is this spot on a road / in an intersection / under a
// building" for world generation and the live simulation. Roads and
// intersections are bucketed into a uniform grid; building footprints go in a
// quadtree. Geometry is only added, never removed.
type Occupancy struct {
	bounds     RectF
	cellSize   float64
	cols, rows int

	roads         []RectF
	intersections []RectF
	walkables     []RectF
	footprints    []RectF

	roadCells  [][]int
	interCells [][]int
	buildings  *QuadNode
}

func NewOccupancy(bounds RectF, cellSize float64) *Occupancy {
	if cellSize <= 0 {
		cellSize = 64
	}
	cols := max(1, int(math.Ceil(bounds.W()/cellSize)))
	rows := max(1, int(math.Ceil(bounds.H()/cellSize)))
	return &Occupancy{
		bounds:     bounds,
		cellSize:   cellSize,
		cols:       cols,
		rows:       rows,
		roadCells:  make([][]int, cols*rows),
		interCells: make([][]int, cols*rows),
		buildings:  NewQuadNode(bounds, 0),
	}
}

func (o *Occupancy) Bounds() RectF          { return o.bounds }
func (o *Occupancy) Roads() []RectF         { return o.roads }
func (o *Occupancy) Intersections() []RectF { return o.intersections }
func (o *Occupancy) Walkables() []RectF     { return o.walkables }

// AddRoad registers a road rectangle and recomputes every intersection.
func (o *Occupancy) AddRoad(r RectF) {
	o.roads = append(o.roads, r)
	o.bucket(o.roadCells, len(o.roads)-1, r)
	o.rebuildIntersections()
}

func (o *Occupancy) AddWalkable(r RectF) {
	o.walkables = append(o.walkables, r)
}

// AddBuilding registers a footprint and returns its index.
func (o *Occupancy) AddBuilding(r RectF) int {
	id := len(o.footprints)
	o.footprints = append(o.footprints, r)
	o.buildings.Insert(id, r)
	return id
}

// pairwise over all roads; R is small and fixed.
func (o *Occupancy) rebuildIntersections() {
	o.intersections = o.intersections[:0]
	for i := range o.interCells {
		o.interCells[i] = o.interCells[i][:0]
	}
	for i := 0; i < len(o.roads); i++ {
		for j := i + 1; j < len(o.roads); j++ {
			in, ok := o.roads[i].Intersection(o.roads[j])
			if !ok {
				continue
			}
			o.intersections = append(o.intersections, in)
			o.bucket(o.interCells, len(o.intersections)-1, in)
		}
	}
}

func (o *Occupancy) cellRange(r RectF) (cx0, cy0, cx1, cy1 int) {
	cx0, cy0 = o.cellOf(r.X0, r.Y0)
	cx1, cy1 = o.cellOf(r.X1, r.Y1)
	return
}

func (o *Occupancy) cellOf(x, y float64) (int, int) {
	cx := int(math.Floor((x - o.bounds.X0) / o.cellSize))
	cy := int(math.Floor((y - o.bounds.Y0) / o.cellSize))
	return clamp(cx, 0, o.cols-1), clamp(cy, 0, o.rows-1)
}

func (o *Occupancy) bucket(cells [][]int, idx int, r RectF) {
	cx0, cy0, cx1, cy1 := o.cellRange(r)
	for cy := cy0; cy <= cy1; cy++ {
		for cx := cx0; cx <= cx1; cx++ {
			k := cy*o.cols + cx
			cells[k] = append(cells[k], idx)
		}
	}
}

// PointOnRoad is edge-inclusive.
func (o *Occupancy) PointOnRoad(x, y float64) bool {
	cx, cy := o.cellOf(x, y)
	for _, i := range o.roadCells[cy*o.cols+cx] {
		if o.roads[i].ContainsPoint(x, y) {
			return true
		}
	}
	return false
}

func (o *Occupancy) PointInIntersection(x, y float64) bool {
	cx, cy := o.cellOf(x, y)
	for _, i := range o.interCells[cy*o.cols+cx] {
		if o.intersections[i].ContainsPoint(x, y) {
			return true
		}
	}
	return false
}

// RectOnRoad reports whether r overlaps any road with positive area.
func (o *Occupancy) RectOnRoad(r RectF) bool {
	cx0, cy0, cx1, cy1 := o.cellRange(r)
	for cy := cy0; cy <= cy1; cy++ {
		for cx := cx0; cx <= cx1; cx++ {
			for _, i := range o.roadCells[cy*o.cols+cx] {
				if o.roads[i].Intersects(r) {
					return true
				}
			}
		}
	}
	return false
}

func (o *Occupancy) RectOverlapsBuilding(r RectF) bool {
	return o.buildings.Any(r)
}

// Blocked reports whether r touches a road or a building.
func (o *Occupancy) Blocked(r RectF) bool {
	return o.RectOnRoad(r) || o.RectOverlapsBuilding(r)
}

// NearestWalkable returns the centre of the walkable area whose centre is
// closest to (x,y). When a size×size body at that centre would touch a road
// or a building the closest free point around it is used instead. ok is false
// when no walkable area exists.
func (o *Occupancy) NearestWalkable(x, y, size float64) (float64, float64, bool) {
	if len(o.walkables) == 0 {
		return 0, 0, false
	}
	best := -1
	bestD := math.MaxFloat64
	for i, w := range o.walkables {
		cx, cy := w.Center()
		if d := dist(x, y, cx, cy); d < bestD {
			bestD = d
			best = i
		}
	}
	area := o.walkables[best]
	cx, cy := area.Center()
	if o.walkableAt(cx, cy, size) {
		return cx, cy, true
	}
	// square rings around the centre
	step := o.cellSize / 4
	maxR := int(math.Max(area.W(), area.H())/step) + 1
	for r := 1; r <= maxR; r++ {
		for dy := -r; dy <= r; dy++ {
			for dx := -r; dx <= r; dx++ {
				if dx != -r && dx != r && dy != -r && dy != r {
					continue
				}
				px, py := cx+float64(dx)*step, cy+float64(dy)*step
				if !area.ContainsPoint(px, py) {
					continue
				}
				if o.walkableAt(px, py, size) {
					return px, py, true
				}
			}
		}
	}
	return cx, cy, true
}

func (o *Occupancy) walkableAt(x, y, size float64) bool {
	if !o.bounds.ContainsPoint(x, y) {
		return false
	}
	if o.PointOnRoad(x, y) || o.PointInIntersection(x, y) {
		return false
	}
	body := RectAround(x, y, max(size, 1), max(size, 1))
	return !o.RectOnRoad(body) && !o.buildings.Any(body)
}
