package controller

import (
	"github.com/google/uuid"

	"github.com/erasound/soundkeeper/internal/models"
	"github.com/erasound/soundkeeper/internal/normalize"
	"github.com/erasound/soundkeeper/internal/schedule"
)

// AddAnnouncement validates and appends an announcement to a zone.
// Library track references must resolve to an existing playlist track at
// submit time; they may dangle later if the playlist is deleted.
func (c *Controller) AddAnnouncement(zoneID string, form models.AnnouncementForm) (models.State, *models.AppError) {
	form, appErr := schedule.ValidateAnnouncement(form)
	if appErr != nil {
		return models.State{}, appErr
	}

	state, err := c.apply(func(s *models.State) error {
		z := findZone(s, zoneID)
		if z == nil {
			return models.ErrNotFound("zone not found")
		}
		if err := checkLibraryTrack(s, form.Track); err != nil {
			return err
		}
		entry := normalize.Announcement(announcementFormToRaw(form, uuid.NewString()))
		z.Announcements = append(z.Announcements, entry)
		return nil
	})
	return state, asAppError(err)
}

// UpdateAnnouncement validates and replaces a zone's announcement, keeping
// its id.
func (c *Controller) UpdateAnnouncement(zoneID, announcementID string, form models.AnnouncementForm) (models.State, *models.AppError) {
	form, appErr := schedule.ValidateAnnouncement(form)
	if appErr != nil {
		return models.State{}, appErr
	}

	state, err := c.apply(func(s *models.State) error {
		z := findZone(s, zoneID)
		if z == nil {
			return models.ErrNotFound("zone not found")
		}
		if err := checkLibraryTrack(s, form.Track); err != nil {
			return err
		}
		for i := range z.Announcements {
			if z.Announcements[i].ID == announcementID {
				z.Announcements[i] = normalize.Announcement(announcementFormToRaw(form, announcementID))
				return nil
			}
		}
		return models.ErrNotFound("announcement not found")
	})
	return state, asAppError(err)
}

// ToggleAnnouncement flips an announcement's enabled flag.
func (c *Controller) ToggleAnnouncement(zoneID, announcementID string) (models.State, *models.AppError) {
	state, err := c.apply(func(s *models.State) error {
		z := findZone(s, zoneID)
		if z == nil {
			return models.ErrNotFound("zone not found")
		}
		for i := range z.Announcements {
			if z.Announcements[i].ID == announcementID {
				z.Announcements[i].Enabled = !z.Announcements[i].Enabled
				return nil
			}
		}
		return models.ErrNotFound("announcement not found")
	})
	return state, asAppError(err)
}

// DeleteAnnouncement removes an announcement from a zone.
func (c *Controller) DeleteAnnouncement(zoneID, announcementID string) (models.State, *models.AppError) {
	state, err := c.apply(func(s *models.State) error {
		z := findZone(s, zoneID)
		if z == nil {
			return models.ErrNotFound("zone not found")
		}
		for i := range z.Announcements {
			if z.Announcements[i].ID == announcementID {
				z.Announcements = append(z.Announcements[:i], z.Announcements[i+1:]...)
				return nil
			}
		}
		return models.ErrNotFound("announcement not found")
	})
	return state, asAppError(err)
}

// checkLibraryTrack rejects library references that don't resolve to a
// currently existing playlist track.
func checkLibraryTrack(s *models.State, track models.TrackRef) error {
	if track.Type != models.TrackLibrary {
		return nil
	}
	p := findPlaylist(s, track.ListID)
	if p != nil {
		for _, t := range p.Tracks {
			if t.ID == track.TrackID {
				return nil
			}
		}
	}
	return models.ErrValidation("track", "Выберите трек из библиотеки или переключитесь на собственный файл.")
}

func announcementFormToRaw(form models.AnnouncementForm, id string) normalize.RawAnnouncement {
	offset := form.OffsetMinutes
	return normalize.RawAnnouncement{
		ID:            id,
		Title:         form.Title,
		Repeat:        form.Repeat,
		Time:          form.Time,
		Days:          form.Days,
		Track:         normalize.RawTrack{Type: form.Track.Type, ListID: form.Track.ListID, TrackID: form.Track.TrackID, Name: form.Track.Name},
		OffsetMinutes: &offset,
		Enabled:       form.Enabled,
	}
}
