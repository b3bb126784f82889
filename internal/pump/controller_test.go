package pump

import (
	"testing"

	"github.com/tirta-iot/tirta/internal/data"
)

func testController() Controller {
	return Controller{TankHeightCM: 100, OnThreshold: 0.2, OffThreshold: 0.5}
}

func TestController_Next(t *testing.T) {
	tests := []struct {
		name    string
		pumpOn  bool
		levelCM float64
		want    bool
	}{
		{"low level turns pump on", false, 10, true},
		{"exactly at on threshold turns on", false, 20, true},
		{"high level turns pump off", true, 60, false},
		{"exactly at off threshold turns off", true, 50, false},
		{"dead band holds off state", false, 35, false},
		{"dead band holds on state", true, 35, true},
		{"empty tank turns on", false, 0, true},
		{"overfull tank turns off", true, 100, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := testController().Next(tt.pumpOn, tt.levelCM); got != tt.want {
				t.Errorf("Next(%v, %v) = %v, want %v", tt.pumpOn, tt.levelCM, got, tt.want)
			}
		})
	}
}

func TestController_Apply(t *testing.T) {
	controller := testController()

	t.Run("auto mode applies hysteresis", func(t *testing.T) {
		state := &data.PumpState{PumpOn: false, AutoMode: true}

		if changed := controller.Apply(state, 10); !changed || !state.PumpOn {
			t.Errorf("Apply(10cm) changed=%v pumpOn=%v, want true/true", changed, state.PumpOn)
		}
		// Same reading again: no change.
		if changed := controller.Apply(state, 10); changed {
			t.Error("Apply() reported a change with no transition")
		}
	})

	t.Run("manual mode ignores readings", func(t *testing.T) {
		state := &data.PumpState{PumpOn: true, AutoMode: false}

		if changed := controller.Apply(state, 95); changed || !state.PumpOn {
			t.Errorf("Apply() in manual mode changed=%v pumpOn=%v, want false/true", changed, state.PumpOn)
		}
	})
}
