package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/erasound/soundkeeper/internal/models"
)

// sseEvents streams dashboard snapshots over Server-Sent Events. Every
// frame carries the same state+devices view GET /api serves, so a device
// scan that changes nothing in persisted state still reaches subscribers
// with the refreshed device list.
func (h *Handlers) sseEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // nginx buffers the stream otherwise

	id := uuid.New().String()
	ch := h.events.Subscribe(id)
	defer h.events.Unsubscribe(id)

	// First frame: the view as of subscription.
	h.sendFrame(w, flusher, h.ctrl.State())

	for {
		select {
		case state, ok := <-ch:
			if !ok {
				return
			}
			h.sendFrame(w, flusher, state)
		case <-r.Context().Done():
			return
		}
	}
}

// sendFrame writes one SSE data frame: the given state snapshot combined
// with the device list current at send time.
func (h *Handlers) sendFrame(w http.ResponseWriter, flusher http.Flusher, state models.State) {
	data, err := json.Marshal(stateView{State: state, Devices: h.ctrl.Devices()})
	if err != nil {
		return
	}
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
	flusher.Flush()
}
