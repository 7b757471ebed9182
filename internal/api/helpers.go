// Package api implements the HTTP REST API for SoundKeeper.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/erasound/soundkeeper/internal/devices"
	"github.com/erasound/soundkeeper/internal/models"
	"github.com/erasound/soundkeeper/internal/transfer"
)

// Handlers holds dependencies for all HTTP handlers.
type Handlers struct {
	ctrl   Controller
	client devices.Client
	events EventBus
}

// Controller is the interface the handlers use to interact with the
// system state.
type Controller interface {
	State() models.State
	Tracker() *transfer.Tracker

	GetZones() []models.Zone
	GetZone(id string) (*models.Zone, *models.AppError)
	CreateZone(req models.ZoneCreate) (models.State, *models.AppError)
	RenameZone(id string, req models.ZoneUpdate) (models.State, *models.AppError)
	DeleteZone(id string) (models.State, *models.AppError)
	AddZoneDevice(zoneID, ip string) (models.State, *models.AppError)
	ToggleZoneDevice(zoneID, ip string) (models.State, *models.AppError)
	RemoveZoneDevice(zoneID, ip string) (models.State, *models.AppError)
	AssignPlaylist(zoneID, playlistID string) (models.State, *models.AppError)
	UnassignPlaylist(zoneID, playlistID string) (models.State, *models.AppError)

	GetPlaylists() []models.Playlist
	GetPlaylist(id string) (*models.Playlist, *models.AppError)
	CreatePlaylist(req models.PlaylistCreate) (models.State, *models.AppError)
	RenamePlaylist(id string, req models.PlaylistUpdate) (models.State, *models.AppError)
	DeletePlaylist(id string) (models.State, *models.AppError)
	AddTracks(id string, req models.TracksAdd) (models.State, *models.AppError)

	AddPlaybackWindow(zoneID string, form models.WindowForm) (models.State, *models.AppError)
	UpdatePlaybackWindow(zoneID, windowID string, form models.WindowForm) (models.State, *models.AppError)
	TogglePlaybackWindow(zoneID, windowID string) (models.State, *models.AppError)
	DeletePlaybackWindow(zoneID, windowID string) (models.State, *models.AppError)

	AddAnnouncement(zoneID string, form models.AnnouncementForm) (models.State, *models.AppError)
	UpdateAnnouncement(zoneID, announcementID string, form models.AnnouncementForm) (models.State, *models.AppError)
	ToggleAnnouncement(zoneID, announcementID string) (models.State, *models.AppError)
	DeleteAnnouncement(zoneID, announcementID string) (models.State, *models.AppError)

	SetZonePlayer(ctx context.Context, zoneID string, upd models.PlayerUpdate) (models.State, *models.AppError)
	SetZoneVolume(ctx context.Context, zoneID string, level int) *models.AppError

	Devices() []models.Device
	ScanDevices(ctx context.Context) []models.Device

	ReplaceState(state *models.State) (models.State, *models.AppError)
	FactoryReset() (models.State, *models.AppError)
}

// EventBus is the interface for subscribing to state change events.
type EventBus interface {
	Subscribe(id string) <-chan models.State
	Unsubscribe(id string)
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes an AppError as a JSON response.
func writeError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	if appErr, ok := err.(*models.AppError); ok {
		w.WriteHeader(appErr.Status)
		_ = json.NewEncoder(w).Encode(appErr)
		return
	}
	w.WriteHeader(http.StatusInternalServerError)
	_ = json.NewEncoder(w).Encode(models.ErrInternal(err.Error()))
}

// decodeBody decodes a JSON request body into v.
func decodeBody(r *http.Request, v interface{}) *models.AppError {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return models.ErrBadRequest("invalid request body")
	}
	return nil
}

// param reads a path parameter by name.
func param(r *http.Request, name string) string {
	return chi.URLParam(r, name)
}
