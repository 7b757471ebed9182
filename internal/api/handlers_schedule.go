package api

import (
	"net/http"

	"github.com/erasound/soundkeeper/internal/models"
	"github.com/erasound/soundkeeper/internal/schedule"
)

func (h *Handlers) addWindow(w http.ResponseWriter, r *http.Request) {
	var form models.WindowForm
	if appErr := decodeBody(r, &form); appErr != nil {
		writeError(w, appErr)
		return
	}
	state, appErr := h.ctrl.AddPlaybackWindow(param(r, "zid"), form)
	if appErr != nil {
		writeError(w, appErr)
		return
	}
	writeJSON(w, http.StatusCreated, state)
}

func (h *Handlers) updateWindow(w http.ResponseWriter, r *http.Request) {
	var form models.WindowForm
	if appErr := decodeBody(r, &form); appErr != nil {
		writeError(w, appErr)
		return
	}
	state, appErr := h.ctrl.UpdatePlaybackWindow(param(r, "zid"), param(r, "wid"), form)
	if appErr != nil {
		writeError(w, appErr)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (h *Handlers) toggleWindow(w http.ResponseWriter, r *http.Request) {
	state, appErr := h.ctrl.TogglePlaybackWindow(param(r, "zid"), param(r, "wid"))
	if appErr != nil {
		writeError(w, appErr)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (h *Handlers) deleteWindow(w http.ResponseWriter, r *http.Request) {
	state, appErr := h.ctrl.DeletePlaybackWindow(param(r, "zid"), param(r, "wid"))
	if appErr != nil {
		writeError(w, appErr)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (h *Handlers) addAnnouncement(w http.ResponseWriter, r *http.Request) {
	var form models.AnnouncementForm
	if appErr := decodeBody(r, &form); appErr != nil {
		writeError(w, appErr)
		return
	}
	state, appErr := h.ctrl.AddAnnouncement(param(r, "zid"), form)
	if appErr != nil {
		writeError(w, appErr)
		return
	}
	writeJSON(w, http.StatusCreated, state)
}

func (h *Handlers) updateAnnouncement(w http.ResponseWriter, r *http.Request) {
	var form models.AnnouncementForm
	if appErr := decodeBody(r, &form); appErr != nil {
		writeError(w, appErr)
		return
	}
	state, appErr := h.ctrl.UpdateAnnouncement(param(r, "zid"), param(r, "aid"), form)
	if appErr != nil {
		writeError(w, appErr)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (h *Handlers) toggleAnnouncement(w http.ResponseWriter, r *http.Request) {
	state, appErr := h.ctrl.ToggleAnnouncement(param(r, "zid"), param(r, "aid"))
	if appErr != nil {
		writeError(w, appErr)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (h *Handlers) deleteAnnouncement(w http.ResponseWriter, r *http.Request) {
	state, appErr := h.ctrl.DeleteAnnouncement(param(r, "zid"), param(r, "aid"))
	if appErr != nil {
		writeError(w, appErr)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// windowView is a playback window with its display summary.
type windowView struct {
	models.PlaybackWindow
	DaysLabel string `json:"daysLabel"`
}

// announcementView is an announcement with its display summaries.
type announcementView struct {
	models.Announcement
	Summary    string `json:"summary"`
	TrackLabel string `json:"trackLabel"`
}

// zoneScheduleView is the rendered schedule for one zone.
type zoneScheduleView struct {
	ZoneID        string             `json:"zoneId"`
	Windows       []windowView       `json:"windows"`
	Announcements []announcementView `json:"announcements"`
}

// getZoneSchedule returns a zone's windows and announcements together with
// their human-readable summaries.
func (h *Handlers) getZoneSchedule(w http.ResponseWriter, r *http.Request) {
	zone, appErr := h.ctrl.GetZone(param(r, "zid"))
	if appErr != nil {
		writeError(w, appErr)
		return
	}
	playlists := h.ctrl.GetPlaylists()

	view := zoneScheduleView{
		ZoneID:        zone.ID,
		Windows:       make([]windowView, len(zone.PlaybackWindows)),
		Announcements: make([]announcementView, len(zone.Announcements)),
	}
	for i, win := range zone.PlaybackWindows {
		view.Windows[i] = windowView{PlaybackWindow: win, DaysLabel: schedule.FormatDays(win.Days)}
	}
	for i, a := range zone.Announcements {
		view.Announcements[i] = announcementView{
			Announcement: a,
			Summary:      schedule.Describe(a),
			TrackLabel:   schedule.ResolveTrackLabel(a, playlists),
		}
	}
	writeJSON(w, http.StatusOK, view)
}
