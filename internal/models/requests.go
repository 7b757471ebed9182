package models

// ZoneCreate is the POST body for creating a zone.
type ZoneCreate struct {
	Name      string   `json:"name"`
	DeviceIPs []string `json:"deviceIps,omitempty"`
}

// ZoneUpdate is the PATCH body for updating a zone.
type ZoneUpdate struct {
	Name *string `json:"name,omitempty"`
}

// PlaylistCreate is the POST body for creating a playlist.
type PlaylistCreate struct {
	Name string `json:"name"`
}

// PlaylistUpdate is the PATCH body for updating a playlist.
type PlaylistUpdate struct {
	Name *string `json:"name,omitempty"`
}

// TracksAdd is the POST body for appending tracks to a playlist.
// Entries are filenames; ids are generated server-side.
type TracksAdd struct {
	Names []string `json:"names"`
}

// WindowForm is the POST/PATCH body for playback windows. All fields are
// validated by the schedule validator before being normalized into a
// PlaybackWindow.
type WindowForm struct {
	Label   string   `json:"label"`
	Start   string   `json:"start"`
	End     string   `json:"end"`
	Days    []string `json:"days"`
	Enabled *bool    `json:"enabled,omitempty"`
}

// AnnouncementForm is the POST/PATCH body for announcements.
type AnnouncementForm struct {
	Title         string   `json:"title"`
	Repeat        string   `json:"repeat"`
	Time          string   `json:"time"`
	Days          []string `json:"days"`
	Track         TrackRef `json:"track"`
	OffsetMinutes int      `json:"offsetMinutes"`
	Enabled       *bool    `json:"enabled,omitempty"`
}

// PlayerUpdate is the PATCH body for a zone's player snapshot.
type PlayerUpdate struct {
	TrackID   *string  `json:"trackId,omitempty"`
	ListID    *string  `json:"listId,omitempty"`
	IsPlaying *bool    `json:"isPlaying,omitempty"`
	Progress  *float64 `json:"progress,omitempty"`
}

// VolumeRequest is the POST body for device volume commands.
type VolumeRequest struct {
	Level int `json:"level"` // 0–100
}

// PlayRequest is the POST body for device play commands.
type PlayRequest struct {
	File string `json:"file"`
}
