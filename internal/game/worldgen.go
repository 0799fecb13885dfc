package game

import (
	"math"

	"github.com/aquilax/go-perlin"
)

type RoadClass uint8

const (
	RoadSecondary RoadClass = iota
	RoadPrimary
)

type Road struct {
	Rect       RectF
	Class      RoadClass
	Horizontal bool
}

type Building struct {
	ID        int
	Type      string
	X, Y      float64
	Footprint RectF
}

type District struct {
	Name    string
	Rect    RectF
	Palette []string
	Density float64
}

// Layout is the generated city. It is built once and read-only afterwards.
type Layout struct {
	Bounds        RectF
	Roads         []Road
	Intersections []RectF
	Walkables     []RectF
	Districts     []District
	Buildings     []Building

	// Candidates counts building slots considered; Rejected those dropped by
	// the distance or road checks.
	Candidates int
	Rejected   int
}

type cityGen struct {
	t       *WorldTunables
	r       *Rand
	occ     *Occupancy
	out     *Layout
	keepOut []RectF
	noise   *perlin.Perlin
}

// GenerateCity lays out roads first, then median buildings, then districts.
// Placement is greedy with rejection: a later candidate always yields to
// earlier geometry.
func GenerateCity(t *WorldTunables, r *Rand, occ *Occupancy) *Layout {
	g := &cityGen{
		t:   t,
		r:   r,
		occ: occ,
		out: &Layout{Bounds: NewRect(0, 0, t.Width, t.Height)},
	}
	if t.DensityNoise > 0 && t.DensityNoiseScale > 0 {
		g.noise = perlin.NewPerlin(2, 2, 3, int64(r.NextU64()>>1))
	}
	if t.SpawnClearance > 0 {
		c := t.SpawnClearance * 2
		g.keepOut = append(g.keepOut, RectAround(t.SpawnX, t.SpawnY, c, c))
	}

	g.streets()
	g.medians()
	for _, d := range t.Districts {
		g.district(d)
	}
	g.out.Intersections = append([]RectF(nil), occ.Intersections()...)
	return g.out
}

func (g *cityGen) addRoad(rect RectF, class RoadClass, horizontal bool) {
	g.out.Roads = append(g.out.Roads, Road{Rect: rect, Class: class, Horizontal: horizontal})
	g.occ.AddRoad(rect)
}

func (g *cityGen) streets() {
	t := g.t
	cx, cy := t.Width/2, t.Height/2

	if t.SecondarySpacing > 0 {
		for y := t.SecondaryStart; y < t.Height; y += t.SecondarySpacing {
			if math.Abs(y-cy) > t.SecondaryGuard {
				g.addRoad(NewRect(0, y, t.Width, t.SecondaryRoadWidth), RoadSecondary, true)
			}
		}
		for x := t.SecondaryStart; x < t.Width; x += t.SecondarySpacing {
			if math.Abs(x-cx) > t.SecondaryGuard {
				g.addRoad(NewRect(x, 0, t.SecondaryRoadWidth, t.Height), RoadSecondary, false)
			}
		}
	}

	pw, mw := t.PrimaryRoadWidth, t.MedianWidth

	top := cy - mw/2 - pw
	bottom := cy + mw/2
	g.addRoad(NewRect(0, top, t.Width, pw), RoadPrimary, true)
	g.addRoad(NewRect(0, bottom, t.Width, pw), RoadPrimary, true)
	g.walkable(NewRect(0, top+pw, t.Width, mw))

	left := cx - mw/2 - pw
	right := cx + mw/2
	g.addRoad(NewRect(left, 0, pw, t.Height), RoadPrimary, false)
	g.addRoad(NewRect(right, 0, pw, t.Height), RoadPrimary, false)
	g.walkable(NewRect(left+pw, 0, mw, t.Height))
}

func (g *cityGen) walkable(r RectF) {
	g.out.Walkables = append(g.out.Walkables, r)
	g.occ.AddWalkable(r)
}

func (g *cityGen) medians() {
	step := g.t.MedianStep
	if step <= 0 || len(g.t.MedianPalette) == 0 {
		return
	}
	for _, m := range g.out.Walkables {
		for x := m.X0 + step/2; x < m.X1; x += step {
			for y := m.Y0 + step/2; y < m.Y1; y += step {
				g.place(x, y, g.pick(g.t.MedianPalette))
			}
		}
	}
}

func (g *cityGen) district(d DistrictSpec) {
	rect := NewRect(d.X, d.Y, d.W, d.H)
	g.out.Districts = append(g.out.Districts, District{
		Name:    d.Name,
		Rect:    rect,
		Palette: d.Palette,
		Density: d.Density,
	})
	bs := g.t.BlockSize
	pitch := bs + g.t.BlockSpacing
	if bs <= 0 || pitch <= 0 {
		return
	}
	for x := rect.X0; x < rect.X1; x += pitch {
		for y := rect.Y0; y < rect.Y1; y += pitch {
			if g.occ.RectOnRoad(NewRect(x, y, bs, bs)) {
				continue
			}
			if !g.r.Chance(g.density(d.Density, x+bs/2, y+bs/2)) {
				continue
			}
			g.place(x+bs/2, y+bs/2, g.pick(d.Palette))
		}
	}
}

// density is the district density at (x,y), nudged by the noise field.
func (g *cityGen) density(base, x, y float64) float64 {
	if g.noise == nil {
		return base
	}
	s := g.t.DensityNoiseScale
	n := g.noise.Noise2D(x/s, y/s)
	return clampF(base*(1+g.t.DensityNoise*n), 0, 1)
}

func (g *cityGen) pick(palette []string) string {
	return palette[g.r.Intn(len(palette))]
}

// place accepts a candidate unless it is too close to an earlier centre, or
// its padded check rectangle or its own footprint touches a road.
func (g *cityGen) place(x, y float64, tag string) bool {
	g.out.Candidates++
	for _, b := range g.out.Buildings {
		if dist(x, y, b.X, b.Y) < g.t.MinBuildingDistance {
			g.out.Rejected++
			return false
		}
	}
	if g.occ.RectOnRoad(g.t.CheckRect(x, y)) {
		g.out.Rejected++
		return false
	}
	spec := g.t.buildingSpec(tag)
	fp := RectAround(x, y, spec.W, spec.H)
	if g.occ.RectOnRoad(fp) {
		g.out.Rejected++
		return false
	}
	for _, k := range g.keepOut {
		if fp.Intersects(k) {
			g.out.Rejected++
			return false
		}
	}
	id := g.occ.AddBuilding(fp)
	g.out.Buildings = append(g.out.Buildings, Building{ID: id, Type: tag, X: x, Y: y, Footprint: fp})
	return true
}

// CheckRect is the padded rectangle a building at (x,y) must keep off roads.
func (t *WorldTunables) CheckRect(x, y float64) RectF {
	s := t.BuildingCheckSize + 2*t.BuildingCheckMargin
	return RectAround(x, y, s, s)
}
