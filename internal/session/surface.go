package session

import (
	"fmt"
	"strings"

	"github.com/nerrad567/heima-panel/internal/store"
)

const (
	widgetPrefix   = "device/"
	carouselPrefix = "carousel/"
)

// SurfaceKind distinguishes widget surfaces from carousel tracks.
type SurfaceKind int

// Surface kinds.
const (
	SurfaceWidget SurfaceKind = iota + 1
	SurfaceCarousel
)

// Surface names the element a pointer event targets.
type Surface struct {
	Kind       SurfaceKind
	Device     string
	Capability store.Capability
}

// WidgetSurface returns the surface name of one widget on a device card.
func WidgetSurface(deviceID string, c store.Capability) string {
	return widgetPrefix + deviceID + "/" + string(c)
}

// CarouselSurface returns the surface name of a device card's slide track.
func CarouselSurface(deviceID string) string {
	return carouselPrefix + deviceID
}

// ParseSurface parses a surface name sent by a panel.
func ParseSurface(name string) (Surface, error) {
	if id, ok := strings.CutPrefix(name, carouselPrefix); ok && id != "" {
		return Surface{Kind: SurfaceCarousel, Device: id}, nil
	}
	if rest, ok := strings.CutPrefix(name, widgetPrefix); ok {
		// device ids may contain slashes; the capability is the last segment
		if i := strings.LastIndex(rest, "/"); i > 0 && i < len(rest)-1 {
			return Surface{
				Kind:       SurfaceWidget,
				Device:     rest[:i],
				Capability: store.Capability(rest[i+1:]),
			}, nil
		}
	}
	return Surface{}, fmt.Errorf("%w: %q", ErrUnknownSurface, name)
}

// String returns the surface name.
func (s Surface) String() string {
	if s.Kind == SurfaceCarousel {
		return CarouselSurface(s.Device)
	}
	return WidgetSurface(s.Device, s.Capability)
}
