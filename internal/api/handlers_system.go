package api

import (
	"net/http"

	"github.com/erasound/soundkeeper/internal/models"
	"github.com/erasound/soundkeeper/internal/normalize"
)

// stateView is the GET /api payload: the persisted state plus the
// runtime-only device list.
type stateView struct {
	models.State
	Devices []models.Device `json:"devices"`
}

func (h *Handlers) getState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, stateView{
		State:   h.ctrl.State(),
		Devices: h.ctrl.Devices(),
	})
}

func (h *Handlers) getInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.ctrl.State().Info)
}

func (h *Handlers) factoryReset(w http.ResponseWriter, r *http.Request) {
	state, appErr := h.ctrl.FactoryReset()
	if appErr != nil {
		writeError(w, appErr)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// loadState replaces the whole state with an uploaded snapshot. The body
// passes through the normalization layer, so legacy-shaped exports from
// the old dashboard load unchanged.
func (h *Handlers) loadState(w http.ResponseWriter, r *http.Request) {
	var raw normalize.RawState
	if appErr := decodeBody(r, &raw); appErr != nil {
		writeError(w, appErr)
		return
	}
	state := normalize.State(raw)
	next, appErr := h.ctrl.ReplaceState(&state)
	if appErr != nil {
		writeError(w, appErr)
		return
	}
	writeJSON(w, http.StatusOK, next)
}
