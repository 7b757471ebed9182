package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/erasound/soundkeeper/internal/devices"
)

// NewRouter creates and returns the main HTTP router.
func NewRouter(ctrl Controller, client devices.Client, bus EventBus) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(corsMiddleware)
	r.Use(middleware.CleanPath)

	h := &Handlers{ctrl: ctrl, client: client, events: bus}

	// System state
	r.Get("/api", h.getState)
	r.Get("/api/", h.getState)

	// Zones
	r.Get("/api/zones", h.getZones)
	r.Post("/api/zone", h.createZone)
	r.Get("/api/zones/{zid}", h.getZone)
	r.Patch("/api/zones/{zid}", h.renameZone)
	r.Delete("/api/zones/{zid}", h.deleteZone)
	r.Put("/api/zones/{zid}/devices/{ip}", h.addZoneDevice)
	r.Post("/api/zones/{zid}/devices/{ip}/toggle", h.toggleZoneDevice)
	r.Delete("/api/zones/{zid}/devices/{ip}", h.removeZoneDevice)
	r.Put("/api/zones/{zid}/playlists/{pid}", h.assignPlaylist)
	r.Delete("/api/zones/{zid}/playlists/{pid}", h.unassignPlaylist)
	r.Get("/api/zones/{zid}/playlists/{pid}/transfer", h.getTransferSummary)
	r.Get("/api/zones/{zid}/schedule", h.getZoneSchedule)

	// Playback windows
	r.Post("/api/zones/{zid}/windows", h.addWindow)
	r.Patch("/api/zones/{zid}/windows/{wid}", h.updateWindow)
	r.Post("/api/zones/{zid}/windows/{wid}/toggle", h.toggleWindow)
	r.Delete("/api/zones/{zid}/windows/{wid}", h.deleteWindow)

	// Announcements
	r.Post("/api/zones/{zid}/announcements", h.addAnnouncement)
	r.Patch("/api/zones/{zid}/announcements/{aid}", h.updateAnnouncement)
	r.Post("/api/zones/{zid}/announcements/{aid}/toggle", h.toggleAnnouncement)
	r.Delete("/api/zones/{zid}/announcements/{aid}", h.deleteAnnouncement)

	// Player
	r.Patch("/api/zones/{zid}/player", h.setZonePlayer)
	r.Post("/api/zones/{zid}/volume", h.setZoneVolume)

	// Playlists
	r.Get("/api/playlists", h.getPlaylists)
	r.Post("/api/playlist", h.createPlaylist)
	r.Get("/api/playlists/{pid}", h.getPlaylist)
	r.Patch("/api/playlists/{pid}", h.renamePlaylist)
	r.Delete("/api/playlists/{pid}", h.deletePlaylist)
	r.Post("/api/playlists/{pid}/tracks", h.addTracks)

	// Transfers
	r.Get("/api/transfers", h.getTransfers)

	// Devices
	r.Get("/api/devices", h.getDevices)
	r.Get("/api/devices/scan", h.scanDevices)
	r.Get("/api/device/{ip}/files", h.deviceFiles)
	r.Post("/api/device/{ip}/play", h.devicePlay)
	r.Post("/api/device/{ip}/stop", h.deviceStop)
	r.Post("/api/device/{ip}/volume", h.deviceVolume)
	r.Post("/api/device/{ip}/upload", h.deviceUpload)

	// System
	r.Get("/api/info", h.getInfo)
	r.Post("/api/factory_reset", h.factoryReset)
	r.Post("/api/load", h.loadState)

	// SSE
	r.Get("/api/subscribe", h.sseEvents)

	return r
}

// corsMiddleware adds permissive CORS headers for local network access.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
