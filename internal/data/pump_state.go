package data

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// pumpStateID pins the single PumpState row; there is exactly one pump.
const pumpStateID = 1

// PumpState is the current actuator intent: whether the pump should be
// running and whether the server is deciding that automatically or a
// dashboard user has taken manual control.
type PumpState struct {
	ID        uint64 `gorm:"primaryKey"`
	PumpOn    bool
	AutoMode  bool
	UpdatedAt time.Time
}

// GetPumpState fetches the singleton pump state, creating the default
// (pump off, automatic control) on first access.
func GetPumpState(db *gorm.DB) (*PumpState, error) {
	var state PumpState
	err := db.First(&state, pumpStateID).Error

	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		state = PumpState{ID: pumpStateID, PumpOn: false, AutoMode: true}
		if err := db.Create(&state).Error; err != nil {
			return nil, err
		}
	}

	return &state, nil
}

// SavePumpState persists the singleton pump state.
func SavePumpState(db *gorm.DB, state *PumpState) error {
	state.ID = pumpStateID
	return db.Save(state).Error
}
