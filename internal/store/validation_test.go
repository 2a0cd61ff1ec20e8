package store

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid", "Kitchen Light", false},
		{"empty", "", true},
		{"whitespace only", "   ", true},
		{"at limit", strings.Repeat("a", maxNameLength), false},
		{"too long", strings.Repeat("a", maxNameLength+1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidName)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateCapabilityUpdate(t *testing.T) {
	tests := []struct {
		name    string
		cap     Capability
		partial CapabilityState
		wantErr bool
	}{
		{"valid", CapMeter, CapabilityState{"power": 7}, false},
		{"unknown capability allowed", "Thermostat", CapabilityState{"target": 21}, false},
		{"empty capability", "", CapabilityState{"power": 1}, true},
		{"no fields", CapLight, CapabilityState{}, true},
		{"empty field name", CapLight, CapabilityState{"": 1}, true},
		{"NaN", CapLight, CapabilityState{"power": math.NaN()}, true},
		{"infinity", CapBlind, CapabilityState{"open": math.Inf(1)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCapabilityUpdate(tt.cap, tt.partial)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidStatus)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
