package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/nerrad567/heima-panel/internal/store"
	"github.com/nerrad567/heima-panel/internal/widget"
)

// UpdateDeviceRequest is the body of PATCH /devices/{id}.
type UpdateDeviceRequest struct {
	Name *string `json:"name"`
}

func renderDevices(devices []*store.Device) []widget.DeviceView {
	views := make([]widget.DeviceView, 0, len(devices))
	for _, d := range devices {
		views = append(views, widget.RenderDevice(d))
	}
	return views
}

// handleListRooms returns every room in first-seen order.
func (s *Server) handleListRooms(w http.ResponseWriter, _ *http.Request) {
	rooms := s.home.Rooms()
	writeJSON(w, http.StatusOK, map[string]any{"rooms": rooms, "count": len(rooms)})
}

// handleListRoomDevices returns the device cards of one room.
func (s *Server) handleListRoomDevices(w http.ResponseWriter, r *http.Request) {
	room := chi.URLParam(r, "room")

	devices := s.home.RoomDevices(room)
	if len(devices) == 0 {
		writeNotFound(w, "room not found")
		return
	}
	views := renderDevices(devices)
	writeJSON(w, http.StatusOK, map[string]any{"room": room, "devices": views, "count": len(views)})
}

// handleListDevices returns all devices.
//
// Query parameters:
//   - room: filter by room
//   - capability: filter by capability (Light, DimLight, Socket, Blind, Meter)
func (s *Server) handleListDevices(w http.ResponseWriter, r *http.Request) {
	devices := s.home.Devices()

	if room := r.URL.Query().Get("room"); room != "" {
		devices = s.home.RoomDevices(room)
	}

	if capStr := r.URL.Query().Get("capability"); capStr != "" {
		filtered := devices[:0:0]
		for _, d := range devices {
			if _, ok := d.Capability(store.Capability(capStr)); ok {
				filtered = append(filtered, d)
			}
		}
		devices = filtered
	}

	views := renderDevices(devices)
	writeJSON(w, http.StatusOK, map[string]any{"devices": views, "count": len(views)})
}

// handleGetDevice returns a single device card by ID.
func (s *Server) handleGetDevice(w http.ResponseWriter, r *http.Request) {
	dev, ok := s.lookupDevice(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, widget.RenderDevice(dev))
}

// handleUpdateDevice renames a device.
func (s *Server) handleUpdateDevice(w http.ResponseWriter, r *http.Request) {
	dev, ok := s.lookupDevice(w, r)
	if !ok {
		return
	}

	var req UpdateDeviceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if req.Name == nil {
		writeBadRequest(w, "name is required")
		return
	}
	name := strings.TrimSpace(*req.Name)
	if err := store.ValidateName(name); err != nil {
		writeValidationError(w, err.Error())
		return
	}

	if err := dev.Rename(name); err != nil {
		s.logger.Warn("device rename notified failing listeners", "device_id", dev.ID(), "error", err)
	}
	// room and device lists render names from the root store
	if err := s.home.Touch(); err != nil {
		s.logger.Warn("home refresh after rename notified failing listeners", "device_id", dev.ID(), "error", err)
	}
	s.logger.Info("device renamed", "device_id", dev.ID(), "name", name)

	writeJSON(w, http.StatusOK, widget.RenderDevice(dev))
}

// handleUpdateStatus merges a partial capability state into a device.
// The body is an object of numeric fields, e.g. {"power": 0.5}.
func (s *Server) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	dev, ok := s.lookupDevice(w, r)
	if !ok {
		return
	}
	capability := store.Capability(chi.URLParam(r, "capability"))

	var partial store.CapabilityState
	if err := json.NewDecoder(r.Body).Decode(&partial); err != nil {
		writeBadRequest(w, "body must be an object of numeric fields")
		return
	}
	if err := store.ValidateCapabilityUpdate(capability, partial); err != nil {
		writeValidationError(w, err.Error())
		return
	}

	if err := dev.UpdateStatus(capability, partial); err != nil {
		s.logger.Warn("status update notified failing listeners", "device_id", dev.ID(), "error", err)
	}
	s.logger.Debug("device status updated", "device_id", dev.ID(), "capability", capability, "fields", partial)

	writeJSON(w, http.StatusOK, widget.RenderDevice(dev))
}

// handleReloadHome replaces the device collection from the configured loader.
// Mounted cards keep working on the old devices until panels re-attach.
func (s *Server) handleReloadHome(w http.ResponseWriter, _ *http.Request) {
	if s.loader == nil {
		writeNotFound(w, "reload is not configured")
		return
	}

	devices, err := s.loader()
	if err != nil {
		s.logger.Error("loading devices for reload failed", "error", err)
		writeInternalError(w, "failed to load devices")
		return
	}
	if err := s.home.Reset(devices); err != nil {
		if errors.Is(err, store.ErrDuplicateDevice) || errors.Is(err, store.ErrInvalidDevice) {
			writeValidationError(w, err.Error())
			return
		}
		s.logger.Warn("home reload notified failing listeners", "error", err)
	}
	s.logger.Info("home reloaded", "devices", len(devices))

	writeJSON(w, http.StatusOK, map[string]any{"devices": len(devices), "rooms": s.home.Rooms()})
}

// lookupDevice resolves the {id} URL parameter, writing a 404 when absent.
func (s *Server) lookupDevice(w http.ResponseWriter, r *http.Request) (*store.Device, bool) {
	id := chi.URLParam(r, "id")
	dev, err := s.home.Device(id)
	if err != nil {
		if errors.Is(err, store.ErrDeviceNotFound) {
			writeNotFound(w, "device not found")
			return nil, false
		}
		writeInternalError(w, "failed to get device")
		return nil, false
	}
	return dev, true
}
