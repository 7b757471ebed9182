package api

import (
	"net/http"

	"github.com/erasound/soundkeeper/internal/models"
)

func (h *Handlers) getZones(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.ctrl.GetZones())
}

func (h *Handlers) getZone(w http.ResponseWriter, r *http.Request) {
	zone, appErr := h.ctrl.GetZone(param(r, "zid"))
	if appErr != nil {
		writeError(w, appErr)
		return
	}
	writeJSON(w, http.StatusOK, zone)
}

func (h *Handlers) createZone(w http.ResponseWriter, r *http.Request) {
	var req models.ZoneCreate
	if appErr := decodeBody(r, &req); appErr != nil {
		writeError(w, appErr)
		return
	}
	state, appErr := h.ctrl.CreateZone(req)
	if appErr != nil {
		writeError(w, appErr)
		return
	}
	writeJSON(w, http.StatusCreated, state)
}

func (h *Handlers) renameZone(w http.ResponseWriter, r *http.Request) {
	var req models.ZoneUpdate
	if appErr := decodeBody(r, &req); appErr != nil {
		writeError(w, appErr)
		return
	}
	state, appErr := h.ctrl.RenameZone(param(r, "zid"), req)
	if appErr != nil {
		writeError(w, appErr)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (h *Handlers) deleteZone(w http.ResponseWriter, r *http.Request) {
	state, appErr := h.ctrl.DeleteZone(param(r, "zid"))
	if appErr != nil {
		writeError(w, appErr)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (h *Handlers) addZoneDevice(w http.ResponseWriter, r *http.Request) {
	state, appErr := h.ctrl.AddZoneDevice(param(r, "zid"), param(r, "ip"))
	if appErr != nil {
		writeError(w, appErr)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (h *Handlers) toggleZoneDevice(w http.ResponseWriter, r *http.Request) {
	state, appErr := h.ctrl.ToggleZoneDevice(param(r, "zid"), param(r, "ip"))
	if appErr != nil {
		writeError(w, appErr)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (h *Handlers) removeZoneDevice(w http.ResponseWriter, r *http.Request) {
	state, appErr := h.ctrl.RemoveZoneDevice(param(r, "zid"), param(r, "ip"))
	if appErr != nil {
		writeError(w, appErr)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (h *Handlers) assignPlaylist(w http.ResponseWriter, r *http.Request) {
	state, appErr := h.ctrl.AssignPlaylist(param(r, "zid"), param(r, "pid"))
	if appErr != nil {
		writeError(w, appErr)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (h *Handlers) unassignPlaylist(w http.ResponseWriter, r *http.Request) {
	state, appErr := h.ctrl.UnassignPlaylist(param(r, "zid"), param(r, "pid"))
	if appErr != nil {
		writeError(w, appErr)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (h *Handlers) setZonePlayer(w http.ResponseWriter, r *http.Request) {
	var upd models.PlayerUpdate
	if appErr := decodeBody(r, &upd); appErr != nil {
		writeError(w, appErr)
		return
	}
	state, appErr := h.ctrl.SetZonePlayer(r.Context(), param(r, "zid"), upd)
	if appErr != nil {
		writeError(w, appErr)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (h *Handlers) setZoneVolume(w http.ResponseWriter, r *http.Request) {
	var req models.VolumeRequest
	if appErr := decodeBody(r, &req); appErr != nil {
		writeError(w, appErr)
		return
	}
	if appErr := h.ctrl.SetZoneVolume(r.Context(), param(r, "zid"), req.Level); appErr != nil {
		writeError(w, appErr)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
