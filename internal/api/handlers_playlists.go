package api

import (
	"net/http"

	"github.com/erasound/soundkeeper/internal/models"
)

func (h *Handlers) getPlaylists(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.ctrl.GetPlaylists())
}

func (h *Handlers) getPlaylist(w http.ResponseWriter, r *http.Request) {
	playlist, appErr := h.ctrl.GetPlaylist(param(r, "pid"))
	if appErr != nil {
		writeError(w, appErr)
		return
	}
	writeJSON(w, http.StatusOK, playlist)
}

func (h *Handlers) createPlaylist(w http.ResponseWriter, r *http.Request) {
	var req models.PlaylistCreate
	if appErr := decodeBody(r, &req); appErr != nil {
		writeError(w, appErr)
		return
	}
	state, appErr := h.ctrl.CreatePlaylist(req)
	if appErr != nil {
		writeError(w, appErr)
		return
	}
	writeJSON(w, http.StatusCreated, state)
}

func (h *Handlers) renamePlaylist(w http.ResponseWriter, r *http.Request) {
	var req models.PlaylistUpdate
	if appErr := decodeBody(r, &req); appErr != nil {
		writeError(w, appErr)
		return
	}
	state, appErr := h.ctrl.RenamePlaylist(param(r, "pid"), req)
	if appErr != nil {
		writeError(w, appErr)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (h *Handlers) deletePlaylist(w http.ResponseWriter, r *http.Request) {
	state, appErr := h.ctrl.DeletePlaylist(param(r, "pid"))
	if appErr != nil {
		writeError(w, appErr)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (h *Handlers) addTracks(w http.ResponseWriter, r *http.Request) {
	var req models.TracksAdd
	if appErr := decodeBody(r, &req); appErr != nil {
		writeError(w, appErr)
		return
	}
	state, appErr := h.ctrl.AddTracks(param(r, "pid"), req)
	if appErr != nil {
		writeError(w, appErr)
		return
	}
	writeJSON(w, http.StatusOK, state)
}
