package store

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// seedFile is the on-disk layout of a device seed file:
//
//	devices:
//	  - id: "0"
//	    name: Light
//	    rooms: [Favorites, Kitchen]
//	    status:
//	      DimLight: {power: 1.0}
//	      Meter: {power: 12.5, max: 30}
type seedFile struct {
	Devices []seedDevice `yaml:"devices"`
}

type seedDevice struct {
	ID     string                            `yaml:"id"`
	Name   string                            `yaml:"name"`
	Rooms  []string                          `yaml:"rooms"`
	Status map[Capability]map[string]float64 `yaml:"status"`
}

// LoadDevices reads a YAML device seed file.
func LoadDevices(path string) ([]*Device, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading device seed: %w", err)
	}
	return ParseDevices(data)
}

// ParseDevices decodes a YAML device seed document.
func ParseDevices(data []byte) ([]*Device, error) {
	var f seedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing device seed: %w", err)
	}

	devices := make([]*Device, 0, len(f.Devices))
	for i, sd := range f.Devices {
		if sd.ID == "" || sd.Name == "" {
			return nil, fmt.Errorf("%w: entry %d needs id and name", ErrInvalidDevice, i)
		}
		status := make(Status, len(sd.Status))
		for c, fields := range sd.Status {
			status[c] = CapabilityState(fields)
		}
		devices = append(devices, NewDevice(sd.ID, sd.Name, sd.Rooms, status))
	}

	if err := checkDevices(devices); err != nil {
		return nil, err
	}
	return devices, nil
}

// DefaultDevices returns the demo installation used when no seed file is configured.
func DefaultDevices() []*Device {
	return []*Device{
		NewDevice("0", "Light", []string{"Favorites", "Kitchen"}, Status{
			CapDimLight: {"power": 1.0},
			CapMeter:    {"power": 12.5, "max": 30},
		}),
		NewDevice("1", "Socket", []string{"Favorites", "Bath"}, Status{
			CapSocket: {"power": 0.0},
			CapMeter:  {"power": 5.0, "max": 7.0},
		}),
		NewDevice("2", "Blend", []string{"Favorites", "Guestroom"}, Status{
			CapBlind: {"open": 0.5, "angle": 0.0},
		}),
	}
}
