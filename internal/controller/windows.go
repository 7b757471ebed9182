package controller

import (
	"github.com/google/uuid"

	"github.com/erasound/soundkeeper/internal/models"
	"github.com/erasound/soundkeeper/internal/normalize"
	"github.com/erasound/soundkeeper/internal/schedule"
)

// AddPlaybackWindow validates and appends a playback window to a zone.
func (c *Controller) AddPlaybackWindow(zoneID string, form models.WindowForm) (models.State, *models.AppError) {
	form, appErr := schedule.ValidateWindow(form)
	if appErr != nil {
		return models.State{}, appErr
	}

	state, err := c.apply(func(s *models.State) error {
		z := findZone(s, zoneID)
		if z == nil {
			return models.ErrNotFound("zone not found")
		}
		entry := normalize.Window(windowFormToRaw(form, uuid.NewString()))
		z.PlaybackWindows = append(z.PlaybackWindows, entry)
		return nil
	})
	return state, asAppError(err)
}

// UpdatePlaybackWindow validates and replaces a zone's playback window,
// keeping its id.
func (c *Controller) UpdatePlaybackWindow(zoneID, windowID string, form models.WindowForm) (models.State, *models.AppError) {
	form, appErr := schedule.ValidateWindow(form)
	if appErr != nil {
		return models.State{}, appErr
	}

	state, err := c.apply(func(s *models.State) error {
		z := findZone(s, zoneID)
		if z == nil {
			return models.ErrNotFound("zone not found")
		}
		for i := range z.PlaybackWindows {
			if z.PlaybackWindows[i].ID == windowID {
				z.PlaybackWindows[i] = normalize.Window(windowFormToRaw(form, windowID))
				return nil
			}
		}
		return models.ErrNotFound("playback window not found")
	})
	return state, asAppError(err)
}

// TogglePlaybackWindow flips a window's enabled flag.
func (c *Controller) TogglePlaybackWindow(zoneID, windowID string) (models.State, *models.AppError) {
	state, err := c.apply(func(s *models.State) error {
		z := findZone(s, zoneID)
		if z == nil {
			return models.ErrNotFound("zone not found")
		}
		for i := range z.PlaybackWindows {
			if z.PlaybackWindows[i].ID == windowID {
				z.PlaybackWindows[i].Enabled = !z.PlaybackWindows[i].Enabled
				return nil
			}
		}
		return models.ErrNotFound("playback window not found")
	})
	return state, asAppError(err)
}

// DeletePlaybackWindow removes a window from a zone.
func (c *Controller) DeletePlaybackWindow(zoneID, windowID string) (models.State, *models.AppError) {
	state, err := c.apply(func(s *models.State) error {
		z := findZone(s, zoneID)
		if z == nil {
			return models.ErrNotFound("zone not found")
		}
		for i := range z.PlaybackWindows {
			if z.PlaybackWindows[i].ID == windowID {
				z.PlaybackWindows = append(z.PlaybackWindows[:i], z.PlaybackWindows[i+1:]...)
				return nil
			}
		}
		return models.ErrNotFound("playback window not found")
	})
	return state, asAppError(err)
}

func windowFormToRaw(form models.WindowForm, id string) normalize.RawWindow {
	return normalize.RawWindow{
		ID:      id,
		Label:   form.Label,
		Start:   form.Start,
		End:     form.End,
		Days:    form.Days,
		Enabled: form.Enabled,
	}
}
