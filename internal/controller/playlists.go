package controller

import (
	"strings"

	"github.com/google/uuid"

	"github.com/erasound/soundkeeper/internal/models"
)

// GetPlaylists returns all playlists.
func (c *Controller) GetPlaylists() []models.Playlist {
	c.mu.RLock()
	defer c.mu.RUnlock()
	result := make([]models.Playlist, len(c.state.Playlists))
	for i, p := range c.state.Playlists {
		np := p
		np.Tracks = append([]models.Track(nil), p.Tracks...)
		result[i] = np
	}
	return result
}

// GetPlaylist returns a single playlist by ID.
func (c *Controller) GetPlaylist(id string) (*models.Playlist, *models.AppError) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, p := range c.state.Playlists {
		if p.ID == id {
			cp := p
			cp.Tracks = append([]models.Track(nil), p.Tracks...)
			return &cp, nil
		}
	}
	return nil, models.ErrNotFound("playlist not found")
}

// CreatePlaylist adds a new empty playlist.
func (c *Controller) CreatePlaylist(req models.PlaylistCreate) (models.State, *models.AppError) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return models.State{}, models.ErrValidation("name", "Введите название, чтобы сохранить изменения.")
	}

	state, err := c.apply(func(s *models.State) error {
		s.Playlists = append(s.Playlists, models.Playlist{
			ID:     uuid.NewString(),
			Name:   name,
			Tracks: []models.Track{},
		})
		return nil
	})
	return state, asAppError(err)
}

// RenamePlaylist changes a playlist's name.
func (c *Controller) RenamePlaylist(id string, req models.PlaylistUpdate) (models.State, *models.AppError) {
	if req.Name == nil || strings.TrimSpace(*req.Name) == "" {
		return models.State{}, models.ErrValidation("name", "Введите название, чтобы сохранить изменения.")
	}
	name := strings.TrimSpace(*req.Name)

	state, err := c.apply(func(s *models.State) error {
		p := findPlaylist(s, id)
		if p == nil {
			return models.ErrNotFound("playlist not found")
		}
		p.Name = name
		return nil
	})
	return state, asAppError(err)
}

// DeletePlaylist removes a playlist and unassigns it from every zone.
// Announcements referencing its tracks are left dangling; the describer
// renders a placeholder for them.
func (c *Controller) DeletePlaylist(id string) (models.State, *models.AppError) {
	state, err := c.apply(func(s *models.State) error {
		found := false
		for i := range s.Playlists {
			if s.Playlists[i].ID == id {
				s.Playlists = append(s.Playlists[:i], s.Playlists[i+1:]...)
				found = true
				break
			}
		}
		if !found {
			return models.ErrNotFound("playlist not found")
		}
		for zi := range s.Zones {
			z := &s.Zones[zi]
			kept := z.PlaylistIDs[:0]
			for _, pid := range z.PlaylistIDs {
				if pid != id {
					kept = append(kept, pid)
				}
			}
			z.PlaylistIDs = kept
		}
		return nil
	})
	return state, asAppError(err)
}

// AddTracks appends tracks to a playlist, one per filename.
func (c *Controller) AddTracks(id string, req models.TracksAdd) (models.State, *models.AppError) {
	names := make([]string, 0, len(req.Names))
	for _, n := range req.Names {
		if trimmed := strings.TrimSpace(n); trimmed != "" {
			names = append(names, trimmed)
		}
	}
	if len(names) == 0 {
		return models.State{}, models.ErrValidation("names", "Добавьте хотя бы один файл.")
	}

	state, err := c.apply(func(s *models.State) error {
		p := findPlaylist(s, id)
		if p == nil {
			return models.ErrNotFound("playlist not found")
		}
		for _, name := range names {
			p.Tracks = append(p.Tracks, models.Track{ID: uuid.NewString(), Name: name})
		}
		return nil
	})
	return state, asAppError(err)
}
