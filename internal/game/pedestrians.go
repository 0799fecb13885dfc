package game

import "math"

func (s *Simulation) newPedestrian(x, y float64) *Pedestrian {
	pt := &s.T.Pedestrian
	return &Pedestrian{
		X:         x,
		Y:         y,
		Size:      pt.Size,
		WalkDir:   s.rng.Angle(),
		WalkSpeed: s.rollWalkSpeed(),
	}
}

func (s *Simulation) rollWalkSpeed() float64 {
	pt := &s.T.Pedestrian
	return s.rng.RangeF(pt.WalkSpeedMin, pt.WalkSpeedMax)
}

// onRoad is the containment predicate: the body touches a road or the centre
// sits inside an intersection.
func (s *Simulation) onRoad(p *Pedestrian) bool {
	return s.occ.RectOnRoad(p.Bounds()) || s.occ.PointInIntersection(p.X, p.Y)
}

// rescue moves a pedestrian found on a road to the nearest walkable centre.
func (s *Simulation) rescue(p *Pedestrian) {
	x, y, ok := s.occ.NearestWalkable(p.X, p.Y, p.Size)
	if !ok {
		return
	}
	p.X, p.Y = x, y
	p.VX, p.VY = 0, 0
}

// thinkPedestrians runs on the pedestrian timer and re-evaluates every
// walker: safety first, then the projected step, then timers and velocity.
func (s *Simulation) thinkPedestrians() {
	pt := &s.T.Pedestrian
	step := pt.ThinkSeconds
	b := s.occ.Bounds()

	for _, p := range s.reg.Pedestrians() {
		if !p.Active {
			continue
		}
		if s.onRoad(p) {
			s.rescue(p)
			continue
		}

		sp := p.WalkSpeed
		if p.State == PedPanicking {
			sp = pt.PanicSpeed
		}
		nx := p.X + math.Cos(p.WalkDir)*sp*pt.ProjectionSeconds
		ny := p.Y + math.Sin(p.WalkDir)*sp*pt.ProjectionSeconds
		if s.occ.RectOnRoad(RectAround(nx, ny, 2, 2)) || s.occ.PointInIntersection(nx, ny) {
			p.WalkDir = s.rng.Angle()
			p.VX, p.VY = 0, 0
			continue
		}

		if p.State == PedPanicking {
			p.PanicTimer -= step
			if p.PanicTimer <= 0 {
				p.State = PedWandering
				p.PanicTimer = 0
				p.WalkSpeed = s.rollWalkSpeed()
			}
		}
		p.DirTimer += step
		if p.DirTimer > pt.DirectionChangeSeconds {
			p.WalkDir = s.rng.Angle()
			p.DirTimer = 0
		}

		sp = p.WalkSpeed
		if p.State == PedPanicking {
			sp = pt.PanicSpeed
		}
		p.VX = math.Cos(p.WalkDir) * sp
		p.VY = math.Sin(p.WalkDir) * sp

		m := pt.EdgeMargin
		if p.X < b.X0+m || p.X > b.X1-m || p.Y < b.Y0+m || p.Y > b.Y1-m {
			p.WalkDir += math.Pi
		}
	}
}

// panicAround sends every pedestrian near (x,y) running away from it.
func (s *Simulation) panicAround(x, y float64) {
	pt := &s.T.Pedestrian
	for _, p := range s.reg.Pedestrians() {
		if !p.Active || dist(x, y, p.X, p.Y) >= pt.PanicRadius {
			continue
		}
		p.State = PedPanicking
		p.PanicTimer = pt.PanicSeconds
		p.WalkDir = angleTo(x, y, p.X, p.Y)
		p.WalkSpeed = pt.PanicSpeed
	}
}

// movePedestrian integrates the AI velocity. A step that would put the body
// on a road, in an intersection or into a building is cancelled.
func (s *Simulation) movePedestrian(p *Pedestrian) {
	if p.VX == 0 && p.VY == 0 {
		return
	}
	dt := s.T.TickSeconds
	b := s.occ.Bounds()
	nx := clampF(p.X+p.VX*dt, b.X0, b.X1)
	ny := clampF(p.Y+p.VY*dt, b.Y0, b.Y1)
	next := RectAround(nx, ny, p.Size, p.Size)
	if s.occ.Blocked(next) || s.occ.PointInIntersection(nx, ny) {
		p.VX, p.VY = 0, 0
		return
	}
	p.X, p.Y = nx, ny
}

// pushPedestrian shoves a pedestrian away from (x,y). The shove replaces the
// walking velocity until the next think; movement still refuses roads.
func pushPedestrian(p *Pedestrian, x, y, speed float64) {
	a := angleTo(x, y, p.X, p.Y)
	p.VX = math.Cos(a) * speed
	p.VY = math.Sin(a) * speed
}

// containPedestrians is the per-tick backstop run after collisions.
func (s *Simulation) containPedestrians() {
	for _, p := range s.reg.Pedestrians() {
		if p.Active && s.onRoad(p) {
			s.rescue(p)
		}
	}
}

// killPedestrian is the one-hit lifecycle: gone immediately, reward paid.
func (s *Simulation) killPedestrian(p *Pedestrian, reward int) {
	if p == nil || !p.Active {
		return
	}
	x, y, id := p.X, p.Y, p.ID
	s.reg.Despawn(id)
	s.player.AddMoney(reward)
	s.emit(Event{Type: EventPedestrianKilled, ID: id, X: x, Y: y, Data: reward})
}
