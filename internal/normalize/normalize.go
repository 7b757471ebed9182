// Package normalize converts loosely-shaped persisted or externally-sourced
// records into canonical model entities. Nothing here fails: malformed input
// degrades to defaults so a stale or hand-edited snapshot still loads.
package normalize

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/erasound/soundkeeper/internal/models"
	"github.com/erasound/soundkeeper/internal/schedule"
)

// RawTrack accepts both track shapes the old UI persisted: a tagged object
// or a bare filename string.
type RawTrack struct {
	Type    string `json:"type"`
	ListID  string `json:"listId"`
	TrackID string `json:"trackId"`
	Name    string `json:"name"`
}

// UnmarshalJSON accepts either a JSON object or a bare string.
func (t *RawTrack) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*t = RawTrack{Type: models.TrackCustom, Name: s}
		return nil
	}
	type alias RawTrack
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		// Leave the zero value; Track() substitutes the sentinel.
		return nil
	}
	*t = RawTrack(a)
	return nil
}

// RawWindow is a loosely-shaped playback window record.
type RawWindow struct {
	ID      string   `json:"id"`
	Label   string   `json:"label"`
	Start   string   `json:"start"`
	End     string   `json:"end"`
	Days    []string `json:"days"`
	Enabled *bool    `json:"enabled"`
}

// RawAnnouncement is a loosely-shaped announcement record.
type RawAnnouncement struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Repeat        string   `json:"repeat"`
	Time          string   `json:"time"`
	Days          []string `json:"days"`
	Track         RawTrack `json:"track"`
	OffsetMinutes *int     `json:"offsetMinutes"`
	Enabled       *bool    `json:"enabled"`
}

// RawZone is a loosely-shaped zone record. DeviceIP carries the legacy
// single-device shape.
type RawZone struct {
	ID              string            `json:"id"`
	Name            string            `json:"name"`
	PlaylistIDs     []string          `json:"playlistIds"`
	DeviceIPs       []string          `json:"deviceIps"`
	DeviceIP        string            `json:"deviceIp"`
	PlaybackWindows []RawWindow       `json:"playbackWindows"`
	Announcements   []RawAnnouncement `json:"announcements"`
	Player          *RawPlayer        `json:"player"`
}

// RawState is the loosely-shaped persisted snapshot.
type RawState struct {
	Zones     []RawZone                       `json:"zones"`
	Playlists []models.Playlist               `json:"playlists"`
	Transfers map[string]models.TransferEntry `json:"transfers"`
	Info      models.Info                     `json:"info"`
}

// Window canonicalizes a playback window: days deduplicated and sorted
// into Mon..Sun order, defaulting to the full week; 08:00–20:00 when no
// times are given; enabled unless explicitly disabled.
func Window(raw RawWindow) models.PlaybackWindow {
	days := schedule.CanonicalDays(raw.Days)
	if len(days) == 0 {
		days = schedule.AllDays()
	}
	w := models.PlaybackWindow{
		ID:      raw.ID,
		Label:   raw.Label,
		Start:   raw.Start,
		End:     raw.End,
		Days:    days,
		Enabled: raw.Enabled == nil || *raw.Enabled,
	}
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	if w.Label == "" {
		w.Label = "Расписание"
	}
	if w.Start == "" {
		w.Start = "08:00"
	}
	if w.End == "" {
		w.End = "20:00"
	}
	return w
}

// Track canonicalizes a track reference into one of the two variants.
// A name is honored only on an explicitly custom reference; a library
// reference missing either id collapses to the unresolved-track sentinel
// even when it carries a name, as does untyped or absent track data.
func Track(raw RawTrack) models.TrackRef {
	if raw.Type == models.TrackLibrary && raw.ListID != "" && raw.TrackID != "" {
		return models.TrackRef{Type: models.TrackLibrary, ListID: raw.ListID, TrackID: raw.TrackID}
	}
	if raw.Type == models.TrackCustom && raw.Name != "" {
		return models.TrackRef{Type: models.TrackCustom, Name: raw.Name}
	}
	return models.TrackRef{Type: models.TrackCustom, Name: models.UnresolvedTrackName}
}

// Announcement canonicalizes an announcement. Daily repeats force the full
// week regardless of input; weekly repeats with no days default to Monday.
func Announcement(raw RawAnnouncement) models.Announcement {
	a := models.Announcement{
		ID:      raw.ID,
		Title:   raw.Title,
		Repeat:  raw.Repeat,
		Time:    raw.Time,
		Days:    schedule.CanonicalDays(raw.Days),
		Track:   Track(raw.Track),
		Enabled: raw.Enabled == nil || *raw.Enabled,
	}
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.Title == "" {
		a.Title = "Новое объявление"
	}
	if a.Repeat == "" {
		a.Repeat = models.RepeatDaily
	}
	if a.Time == "" {
		a.Time = "12:00"
	}
	if raw.OffsetMinutes != nil {
		a.OffsetMinutes = *raw.OffsetMinutes
	}
	switch a.Repeat {
	case models.RepeatWeekly:
		if len(a.Days) == 0 {
			a.Days = []string{"mon"}
		}
	case models.RepeatDaily:
		a.Days = schedule.AllDays()
	}
	return a
}

// Zone canonicalizes a zone record, falling back to the template for
// missing device lists, windows and announcements. index supplies the
// positional default id and name.
func Zone(raw RawZone, fallback *models.Zone, index int) models.Zone {
	z := models.Zone{
		ID:          raw.ID,
		Name:        raw.Name,
		PlaylistIDs: raw.PlaylistIDs,
	}
	if z.PlaylistIDs == nil {
		z.PlaylistIDs = []string{}
	}

	if z.ID == "" {
		if fallback != nil && fallback.ID != "" {
			z.ID = fallback.ID
		} else {
			z.ID = fmt.Sprintf("z%d", index+1)
		}
	}
	if z.Name == "" {
		if fallback != nil && fallback.Name != "" {
			z.Name = fallback.Name
		} else {
			z.Name = fmt.Sprintf("Зона %d", index+1)
		}
	}

	switch {
	case raw.DeviceIPs != nil:
		z.DeviceIPs = dedupe(raw.DeviceIPs)
	case raw.DeviceIP != "":
		z.DeviceIPs = []string{raw.DeviceIP}
	case fallback != nil && fallback.DeviceIPs != nil:
		z.DeviceIPs = append([]string(nil), fallback.DeviceIPs...)
	default:
		z.DeviceIPs = []string{}
	}

	windows := raw.PlaybackWindows
	if len(windows) == 0 {
		if fallback != nil && len(fallback.PlaybackWindows) > 0 {
			windows = windowsToRaw(fallback.PlaybackWindows)
		} else {
			def := models.DefaultWindow()
			windows = windowsToRaw([]models.PlaybackWindow{def})
		}
	}
	z.PlaybackWindows = make([]models.PlaybackWindow, len(windows))
	for i, w := range windows {
		z.PlaybackWindows[i] = Window(w)
	}

	announcements := raw.Announcements
	if len(announcements) == 0 && fallback != nil {
		announcements = announcementsToRaw(fallback.Announcements)
	}
	z.Announcements = make([]models.Announcement, len(announcements))
	for i, a := range announcements {
		z.Announcements[i] = Announcement(a)
	}

	var fallbackPlayer *models.PlayerSnapshot
	if fallback != nil {
		fallbackPlayer = &fallback.Player
	}
	z.Player = Player(raw.Player, fallbackPlayer, index)

	return z
}

// State canonicalizes a whole persisted snapshot. Default zones serve as
// positional fallback templates, matching how the old UI rehydrated
// localStorage; empty collections fall back to the seed data.
func State(raw RawState) models.State {
	def := models.DefaultState()

	st := models.State{
		Transfers: Transfers(raw.Transfers),
		// Version always reflects the running binary; Offline survives
		// from the snapshot.
		Info: models.Info{Version: models.Version, Offline: raw.Info.Offline},
	}

	zones := raw.Zones
	if len(zones) == 0 {
		st.Zones = def.Zones
	} else {
		st.Zones = make([]models.Zone, len(zones))
		for i, rz := range zones {
			var fallback *models.Zone
			if i < len(def.Zones) {
				fallback = &def.Zones[i]
			}
			st.Zones[i] = Zone(rz, fallback, i)
		}
	}

	if len(raw.Playlists) == 0 {
		st.Playlists = def.Playlists
	} else {
		st.Playlists = make([]models.Playlist, len(raw.Playlists))
		for i, p := range raw.Playlists {
			np := p
			if np.ID == "" {
				np.ID = uuid.NewString()
			}
			if np.Tracks == nil {
				np.Tracks = []models.Track{}
			}
			st.Playlists[i] = np
		}
	}

	return st
}

// Transfers sanitizes a persisted transfer map: unknown statuses become
// pending, progress is clamped to [0, 100] and success entries pin to 100.
func Transfers(raw map[string]models.TransferEntry) map[string]models.TransferEntry {
	out := make(map[string]models.TransferEntry, len(raw))
	for k, e := range raw {
		if e.Status != models.TransferSuccess {
			e.Status = models.TransferPending
		}
		if e.Progress < 0 {
			e.Progress = 0
		}
		if e.Progress > 100 || e.Status == models.TransferSuccess {
			e.Progress = 100
		}
		out[k] = e
	}
	return out
}

func dedupe(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func windowsToRaw(windows []models.PlaybackWindow) []RawWindow {
	out := make([]RawWindow, len(windows))
	for i, w := range windows {
		enabled := w.Enabled
		out[i] = RawWindow{ID: w.ID, Label: w.Label, Start: w.Start, End: w.End, Days: w.Days, Enabled: &enabled}
	}
	return out
}

func announcementsToRaw(announcements []models.Announcement) []RawAnnouncement {
	out := make([]RawAnnouncement, len(announcements))
	for i, a := range announcements {
		enabled := a.Enabled
		offset := a.OffsetMinutes
		out[i] = RawAnnouncement{
			ID: a.ID, Title: a.Title, Repeat: a.Repeat, Time: a.Time, Days: a.Days,
			Track:         RawTrack{Type: a.Track.Type, ListID: a.Track.ListID, TrackID: a.Track.TrackID, Name: a.Track.Name},
			OffsetMinutes: &offset,
			Enabled:       &enabled,
		}
	}
	return out
}
