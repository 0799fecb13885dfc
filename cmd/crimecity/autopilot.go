package main

import (
	"math"

	"crimecity/internal/game"
)

// autopilot stands in for a player: it walks to the nearest free vehicle,
// steals it and drives at the mission target, firing the odd burst while on
// foot. It only reads the public snapshot.
type autopilot struct {
	enterRadius float64
	burstEvery  uint64

	// stuck detection while driving
	lastX, lastY float64
	stillTicks   int
	reverseFor   int
}

func newAutopilot(t game.Tunables) *autopilot {
	return &autopilot{
		enterRadius: t.Player.EnterRadius,
		burstEvery:  uint64(math.Max(1, math.Round(1.5/t.TickSeconds))),
	}
}

func (a *autopilot) Next(snap game.Snapshot) game.Intent {
	if snap.Phase != game.PhasePlaying {
		a.stillTicks, a.reverseFor = 0, 0
		return game.Intent{}
	}
	if snap.Player.InVehicle {
		return a.drive(snap)
	}
	return a.walk(snap)
}

func (a *autopilot) walk(snap game.Snapshot) game.Intent {
	p := snap.Player
	var in game.Intent
	if target, ok := nearestFree(snap); ok {
		d := math.Hypot(target.X-p.X, target.Y-p.Y)
		if d < a.enterRadius*0.8 {
			in.ToggleVehicle = true
			return in
		}
		in.MoveX = axis(target.X - p.X)
		in.MoveY = axis(target.Y - p.Y)
	}
	if snap.Tick%a.burstEvery == 0 && snap.Ammo > 0 {
		in.FireForward = true
	}
	return in
}

func (a *autopilot) drive(snap game.Snapshot) game.Intent {
	v, ok := playerVehicle(snap)
	if !ok {
		return game.Intent{}
	}
	if a.reverseFor > 0 {
		a.reverseFor--
		return game.Intent{MoveY: 1, MoveX: 1}
	}
	if math.Hypot(v.X-a.lastX, v.Y-a.lastY) < 0.5 {
		a.stillTicks++
	} else {
		a.stillTicks = 0
	}
	a.lastX, a.lastY = v.X, v.Y
	if a.stillTicks > 90 {
		a.stillTicks = 0
		a.reverseFor = 40
	}

	goal := snap.MissionGoal
	if goal == nil {
		// nothing to reach: park and let the heat die down
		return game.Intent{Handbrake: true}
	}
	want := math.Atan2(goal.Y-v.Y, goal.X-v.X)
	diff := wrapAngle(want - v.Rotation)
	dist := math.Hypot(goal.X-v.X, goal.Y-v.Y)

	in := game.Intent{MoveY: -1}
	if math.Abs(diff) > 0.05 {
		in.MoveX = math.Copysign(1, diff)
	}
	// close in slowly so the turning circle fits inside the target radius
	if dist < 250 && math.Abs(diff) > 0.4 {
		in.MoveY = 0
		in.Handbrake = true
	}
	return in
}

func nearestFree(snap game.Snapshot) (game.VehicleView, bool) {
	p := snap.Player
	best := math.MaxFloat64
	var out game.VehicleView
	found := false
	for _, v := range snap.Vehicles {
		if v.Police || v.Player {
			continue
		}
		if d := math.Hypot(v.X-p.X, v.Y-p.Y); d < best {
			best, out, found = d, v, true
		}
	}
	return out, found
}

func playerVehicle(snap game.Snapshot) (game.VehicleView, bool) {
	for _, v := range snap.Vehicles {
		if v.Player {
			return v, true
		}
	}
	return game.VehicleView{}, false
}

func axis(d float64) float64 {
	switch {
	case d > 2:
		return 1
	case d < -2:
		return -1
	}
	return 0
}

func wrapAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a < -math.Pi {
		a += 2 * math.Pi
	}
	return a
}
