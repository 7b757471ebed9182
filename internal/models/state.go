// Package models defines the data structures for the SoundKeeper system.
// JSON field names match the original web dashboard's persisted layout so an
// exported snapshot from the old UI loads unchanged.
package models

// Device identifies a physical playback endpoint on the network.
// Devices are owned by the device API; the rest of the system references
// them by IP only and never persists them.
type Device struct {
	IP     string `json:"ip"`
	Name   string `json:"name"`
	Status string `json:"status"` // "online" | "offline" | "degraded" | "pending"
}

// Device status values.
const (
	DeviceOnline   = "online"
	DeviceOffline  = "offline"
	DeviceDegraded = "degraded"
	DevicePending  = "pending"
)

// PlaybackWindow is a recurring day/time range during which a zone is
// expected to be active. Start/End are "HH:MM" times of day; Days is a
// deduplicated subset of the seven weekday codes in canonical Mon..Sun order.
type PlaybackWindow struct {
	ID      string   `json:"id"`
	Label   string   `json:"label"`
	Start   string   `json:"start"`
	End     string   `json:"end"`
	Days    []string `json:"days"`
	Enabled bool     `json:"enabled"`
}

// TrackRef variant tags.
const (
	TrackLibrary = "library"
	TrackCustom  = "custom"
)

// UnresolvedTrackName is the sentinel filename used when an announcement's
// track data is missing entirely. The old UI silently substituted this name;
// keeping it as a named constant makes the "unresolved track" case visible
// instead of looking like a real file.
const UnresolvedTrackName = "Announcement.mp3"

// TrackRef is a tagged variant: either a reference into a playlist
// (Type == library, ListID+TrackID set) or a free-form filename
// (Type == custom, Name set).
type TrackRef struct {
	Type    string `json:"type"`
	ListID  string `json:"listId,omitempty"`
	TrackID string `json:"trackId,omitempty"`
	Name    string `json:"name,omitempty"`
}

// Announcement repeat modes.
const (
	RepeatDaily  = "daily"
	RepeatWeekly = "weekly"
	RepeatHourly = "hourly"
)

// Announcement is a scheduled insertion of a single track.
// Days is only meaningful for weekly repeats (daily forces all seven,
// hourly ignores it); OffsetMinutes is only meaningful for hourly repeats.
type Announcement struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Repeat        string   `json:"repeat"`
	Time          string   `json:"time"`
	Days          []string `json:"days"`
	Track         TrackRef `json:"track"`
	OffsetMinutes int      `json:"offsetMinutes"`
	Enabled       bool     `json:"enabled"`
}

// Track is a single audio item inside a playlist.
type Track struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Playlist is a named, ordered collection of tracks. The playlist is the
// unit assigned to a zone.
type Playlist struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Tracks []Track `json:"tracks"`
}

// PlayerSnapshot is the current playback state shown on a zone card.
// Progress is a fraction in [0, 1]; Length is the track length in seconds.
type PlayerSnapshot struct {
	Track     string  `json:"track,omitempty"`
	Playlist  string  `json:"playlist,omitempty"`
	Artist    string  `json:"artist,omitempty"`
	Progress  float64 `json:"progress"`
	Length    int     `json:"length"`
	IsPlaying bool    `json:"isPlaying"`
	ListID    string  `json:"listId,omitempty"`
	TrackID   string  `json:"trackId,omitempty"`
}

// Zone is the aggregate root: a named grouping of devices that share
// playlists and a playback schedule. It owns its windows and announcements
// (cascade-deleted with the zone) and references devices and playlists by
// id only.
type Zone struct {
	ID              string           `json:"id"`
	Name            string           `json:"name"`
	DeviceIPs       []string         `json:"deviceIps"`
	PlaylistIDs     []string         `json:"playlistIds"`
	PlaybackWindows []PlaybackWindow `json:"playbackWindows"`
	Announcements   []Announcement   `json:"announcements"`
	Player          PlayerSnapshot   `json:"player"`
}

// Transfer entry states. Success is terminal.
const (
	TransferPending = "pending"
	TransferSuccess = "success"
)

// TransferEntry is the simulated upload-progress record for one
// (zone, playlist, device) combination. Progress is 0–100 and never
// decreases while pending.
type TransferEntry struct {
	Status   string  `json:"status"`
	Progress float64 `json:"progress"`
}

// Aggregate transfer states for a (zone, playlist) pair.
const (
	TransferIdle       = "idle"
	TransferInProgress = "progress"
)

// TransferSummary is the aggregate transfer view for a (zone, playlist)
// pair over the zone's assigned devices.
type TransferSummary struct {
	State     string `json:"state"` // "idle" | "progress" | "success"
	Progress  int    `json:"progress"`
	Total     int    `json:"total"`
	Completed int    `json:"completed"`
}

// Info is the system information response.
type Info struct {
	Version string `json:"version"`
	Offline bool   `json:"offline"`
}

// State is the complete persisted system state. It collapses the old UI's
// three localStorage keys (sk_zones, sk_playlists, sk_transfers) into one
// snapshot document.
type State struct {
	Zones     []Zone                   `json:"zones"`
	Playlists []Playlist               `json:"playlists"`
	Transfers map[string]TransferEntry `json:"transfers"`
	Info      Info                     `json:"info"`
}

// DeepCopy returns a deep copy of the state.
func (s State) DeepCopy() State {
	next := State{
		Info: s.Info,
	}

	next.Zones = make([]Zone, len(s.Zones))
	for i, z := range s.Zones {
		next.Zones[i] = z.DeepCopy()
	}

	next.Playlists = make([]Playlist, len(s.Playlists))
	for i, p := range s.Playlists {
		np := p
		if p.Tracks != nil {
			np.Tracks = make([]Track, len(p.Tracks))
			copy(np.Tracks, p.Tracks)
		}
		next.Playlists[i] = np
	}

	if s.Transfers != nil {
		next.Transfers = make(map[string]TransferEntry, len(s.Transfers))
		for k, v := range s.Transfers {
			next.Transfers[k] = v
		}
	}

	return next
}

// DeepCopy returns a deep copy of the zone.
func (z Zone) DeepCopy() Zone {
	nz := z
	if z.DeviceIPs != nil {
		nz.DeviceIPs = make([]string, len(z.DeviceIPs))
		copy(nz.DeviceIPs, z.DeviceIPs)
	}
	if z.PlaylistIDs != nil {
		nz.PlaylistIDs = make([]string, len(z.PlaylistIDs))
		copy(nz.PlaylistIDs, z.PlaylistIDs)
	}
	if z.PlaybackWindows != nil {
		nz.PlaybackWindows = make([]PlaybackWindow, len(z.PlaybackWindows))
		for i, w := range z.PlaybackWindows {
			nw := w
			if w.Days != nil {
				nw.Days = make([]string, len(w.Days))
				copy(nw.Days, w.Days)
			}
			nz.PlaybackWindows[i] = nw
		}
	}
	if z.Announcements != nil {
		nz.Announcements = make([]Announcement, len(z.Announcements))
		for i, a := range z.Announcements {
			na := a
			if a.Days != nil {
				na.Days = make([]string, len(a.Days))
				copy(na.Days, a.Days)
			}
			nz.Announcements[i] = na
		}
	}
	return nz
}
