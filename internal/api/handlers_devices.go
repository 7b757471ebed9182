package api

import (
	"log/slog"
	"net/http"

	"github.com/erasound/soundkeeper/internal/models"
)

func (h *Handlers) getDevices(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.ctrl.Devices())
}

func (h *Handlers) scanDevices(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.ctrl.ScanDevices(r.Context()))
}

func (h *Handlers) deviceFiles(w http.ResponseWriter, r *http.Request) {
	files, err := h.client.Files(r.Context(), param(r, "ip"))
	if err != nil {
		writeError(w, models.ErrInternal(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, files)
}

// devicePlay, deviceStop and deviceVolume are fire-and-forget: command
// failures are logged and the response is 204 either way.
func (h *Handlers) devicePlay(w http.ResponseWriter, r *http.Request) {
	var req models.PlayRequest
	if appErr := decodeBody(r, &req); appErr != nil {
		writeError(w, appErr)
		return
	}
	if err := h.client.Play(r.Context(), param(r, "ip"), req.File); err != nil {
		slog.Debug("api: play failed", "ip", param(r, "ip"), "err", err)
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) deviceStop(w http.ResponseWriter, r *http.Request) {
	if err := h.client.Stop(r.Context(), param(r, "ip")); err != nil {
		slog.Debug("api: stop failed", "ip", param(r, "ip"), "err", err)
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) deviceVolume(w http.ResponseWriter, r *http.Request) {
	var req models.VolumeRequest
	if appErr := decodeBody(r, &req); appErr != nil {
		writeError(w, appErr)
		return
	}
	if err := h.client.Volume(r.Context(), param(r, "ip"), req.Level); err != nil {
		slog.Debug("api: volume failed", "ip", param(r, "ip"), "err", err)
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) deviceUpload(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, models.ErrBadRequest("file form field is required"))
		return
	}
	defer file.Close()
	if err := h.client.Upload(r.Context(), param(r, "ip"), header.Filename, file); err != nil {
		slog.Debug("api: upload failed", "ip", param(r, "ip"), "err", err)
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) getTransfers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.ctrl.Tracker().Entries())
}

// getTransferSummary returns the aggregate transfer view for a
// (zone, playlist) pair over the zone's assigned devices.
func (h *Handlers) getTransferSummary(w http.ResponseWriter, r *http.Request) {
	zone, appErr := h.ctrl.GetZone(param(r, "zid"))
	if appErr != nil {
		writeError(w, appErr)
		return
	}
	summary := h.ctrl.Tracker().Aggregate(zone.ID, param(r, "pid"), zone.DeviceIPs)
	writeJSON(w, http.StatusOK, summary)
}
