// Package pump decides whether the tank pump should run.
package pump

import "github.com/tirta-iot/tirta/internal/data"

// Controller implements the hysteresis logic used while the system is in
// automatic mode. Thresholds are fractions of the tank height: the pump
// turns on when the water level drops to OnThreshold or below and off
// once it reaches OffThreshold or above. Between the two the previous
// state is held, which keeps the pump from cycling around a single
// threshold.
type Controller struct {
	TankHeightCM float64
	OnThreshold  float64
	OffThreshold float64
}

// Next returns the pump state that should follow from the current state
// and a fresh level reading, in centimeters.
func (c Controller) Next(pumpOn bool, levelCM float64) bool {
	fill := levelCM / c.TankHeightCM

	switch {
	case fill <= c.OnThreshold:
		return true
	case fill >= c.OffThreshold:
		return false
	default:
		// Dead band: hold the current state.
		return pumpOn
	}
}

// Apply evaluates a new reading against the stored pump state. In auto
// mode the hysteresis decision is applied; in manual mode the stored
// intent is authoritative and the reading is ignored. It returns whether
// the state changed.
func (c Controller) Apply(state *data.PumpState, levelCM float64) bool {
	if !state.AutoMode {
		return false
	}

	next := c.Next(state.PumpOn, levelCM)
	if next == state.PumpOn {
		return false
	}
	state.PumpOn = next
	return true
}
