package game

// Health tracks HP for vehicles and the player. It only goes down; the sole
// way back up is an explicit Reset (respawn).
type Health struct {
	Current float64
	Max     float64
}

func NewHealth(max float64) Health {
	return Health{Current: max, Max: max}
}

// Damage subtracts amount, clamped at zero. Negative amounts are ignored.
func (h *Health) Damage(amount float64) {
	if amount <= 0 {
		return
	}
	h.Current -= amount
	if h.Current < 0 {
		h.Current = 0
	}
}

func (h *Health) Reset() {
	h.Current = h.Max
}

// Fraction is Current/Max in [0,1]; a zero-max health reads as empty.
func (h *Health) Fraction() float64 {
	if h.Max <= 0 {
		return 0
	}
	return clampF(h.Current/h.Max, 0, 1)
}

func (h *Health) Dead() bool { return h.Current <= 0 }
