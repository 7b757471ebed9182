package controller

import (
	"strings"

	"github.com/google/uuid"

	"github.com/erasound/soundkeeper/internal/models"
)

// GetZones returns all zones.
func (c *Controller) GetZones() []models.Zone {
	c.mu.RLock()
	defer c.mu.RUnlock()
	result := make([]models.Zone, len(c.state.Zones))
	for i, z := range c.state.Zones {
		result[i] = z.DeepCopy()
	}
	return result
}

// GetZone returns a single zone by ID.
func (c *Controller) GetZone(id string) (*models.Zone, *models.AppError) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, z := range c.state.Zones {
		if z.ID == id {
			cp := z.DeepCopy()
			return &cp, nil
		}
	}
	return nil, models.ErrNotFound("zone not found")
}

// CreateZone adds a new zone with one default playback window and no
// playlists or announcements.
func (c *Controller) CreateZone(req models.ZoneCreate) (models.State, *models.AppError) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return models.State{}, models.ErrValidation("name", "Введите название, чтобы сохранить изменения.")
	}

	state, err := c.apply(func(s *models.State) error {
		zone := models.Zone{
			ID:              uuid.NewString(),
			Name:            name,
			DeviceIPs:       dedupeIPs(req.DeviceIPs),
			PlaylistIDs:     []string{},
			PlaybackWindows: []models.PlaybackWindow{models.DefaultWindow()},
			Announcements:   []models.Announcement{},
			Player:          models.EmptyPlayer(),
		}
		s.Zones = append(s.Zones, zone)
		return nil
	})
	return state, asAppError(err)
}

// RenameZone changes a zone's name.
func (c *Controller) RenameZone(id string, req models.ZoneUpdate) (models.State, *models.AppError) {
	if req.Name == nil || strings.TrimSpace(*req.Name) == "" {
		return models.State{}, models.ErrValidation("name", "Введите название, чтобы сохранить изменения.")
	}
	name := strings.TrimSpace(*req.Name)

	state, err := c.apply(func(s *models.State) error {
		z := findZone(s, id)
		if z == nil {
			return models.ErrNotFound("zone not found")
		}
		z.Name = name
		return nil
	})
	return state, asAppError(err)
}

// DeleteZone removes a zone. Its windows and announcements go with it,
// and reconciliation drops every transfer entry keyed to the zone.
func (c *Controller) DeleteZone(id string) (models.State, *models.AppError) {
	state, err := c.apply(func(s *models.State) error {
		for i := range s.Zones {
			if s.Zones[i].ID == id {
				s.Zones = append(s.Zones[:i], s.Zones[i+1:]...)
				return nil
			}
		}
		return models.ErrNotFound("zone not found")
	})
	return state, asAppError(err)
}

// ToggleZoneDevice adds the device to the zone if absent, removes it if
// present.
func (c *Controller) ToggleZoneDevice(zoneID, ip string) (models.State, *models.AppError) {
	if ip == "" {
		return models.State{}, models.ErrBadRequest("device ip is required")
	}

	state, err := c.apply(func(s *models.State) error {
		z := findZone(s, zoneID)
		if z == nil {
			return models.ErrNotFound("zone not found")
		}
		for i, existing := range z.DeviceIPs {
			if existing == ip {
				z.DeviceIPs = append(z.DeviceIPs[:i], z.DeviceIPs[i+1:]...)
				return nil
			}
		}
		z.DeviceIPs = append(z.DeviceIPs, ip)
		return nil
	})
	return state, asAppError(err)
}

// AddZoneDevice attaches a device to a zone. Adding an already attached
// device is a no-op.
func (c *Controller) AddZoneDevice(zoneID, ip string) (models.State, *models.AppError) {
	if ip == "" {
		return models.State{}, models.ErrBadRequest("device ip is required")
	}

	state, err := c.apply(func(s *models.State) error {
		z := findZone(s, zoneID)
		if z == nil {
			return models.ErrNotFound("zone not found")
		}
		for _, existing := range z.DeviceIPs {
			if existing == ip {
				return nil
			}
		}
		z.DeviceIPs = append(z.DeviceIPs, ip)
		return nil
	})
	return state, asAppError(err)
}

// RemoveZoneDevice removes a device from a zone. The device itself is not
// affected; only the reference goes away.
func (c *Controller) RemoveZoneDevice(zoneID, ip string) (models.State, *models.AppError) {
	state, err := c.apply(func(s *models.State) error {
		z := findZone(s, zoneID)
		if z == nil {
			return models.ErrNotFound("zone not found")
		}
		for i, existing := range z.DeviceIPs {
			if existing == ip {
				z.DeviceIPs = append(z.DeviceIPs[:i], z.DeviceIPs[i+1:]...)
				return nil
			}
		}
		return nil
	})
	return state, asAppError(err)
}

// AssignPlaylist attaches a playlist to a zone. Assigning an already
// assigned playlist is a no-op.
func (c *Controller) AssignPlaylist(zoneID, playlistID string) (models.State, *models.AppError) {
	state, err := c.apply(func(s *models.State) error {
		z := findZone(s, zoneID)
		if z == nil {
			return models.ErrNotFound("zone not found")
		}
		if findPlaylist(s, playlistID) == nil {
			return models.ErrNotFound("playlist not found")
		}
		for _, existing := range z.PlaylistIDs {
			if existing == playlistID {
				return nil
			}
		}
		z.PlaylistIDs = append(z.PlaylistIDs, playlistID)
		return nil
	})
	return state, asAppError(err)
}

// UnassignPlaylist detaches a playlist from a zone. Reconciliation drops
// the pair's transfer entries.
func (c *Controller) UnassignPlaylist(zoneID, playlistID string) (models.State, *models.AppError) {
	state, err := c.apply(func(s *models.State) error {
		z := findZone(s, zoneID)
		if z == nil {
			return models.ErrNotFound("zone not found")
		}
		for i, existing := range z.PlaylistIDs {
			if existing == playlistID {
				z.PlaylistIDs = append(z.PlaylistIDs[:i], z.PlaylistIDs[i+1:]...)
				return nil
			}
		}
		return nil
	})
	return state, asAppError(err)
}

func dedupeIPs(ips []string) []string {
	out := []string{}
	seen := map[string]struct{}{}
	for _, ip := range ips {
		if ip == "" {
			continue
		}
		if _, ok := seen[ip]; ok {
			continue
		}
		seen[ip] = struct{}{}
		out = append(out, ip)
	}
	return out
}
