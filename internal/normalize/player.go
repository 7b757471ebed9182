package normalize

import "github.com/erasound/soundkeeper/internal/models"

// RawPlayer is a loosely-shaped player snapshot. Alternate field names
// (title, playlistName, playlistId, state) and the three progress shapes
// (position seconds, elapsed seconds, progress fraction-or-percentage)
// all map onto the canonical snapshot.
type RawPlayer struct {
	Track        string   `json:"track"`
	Title        string   `json:"title"`
	Playlist     string   `json:"playlist"`
	PlaylistName string   `json:"playlistName"`
	Artist       string   `json:"artist"`
	Progress     *float64 `json:"progress"`
	Position     *float64 `json:"position"`
	Elapsed      *float64 `json:"elapsed"`
	Length       *int     `json:"length"`
	IsPlaying    *bool    `json:"isPlaying"`
	State        string   `json:"state"`
	ListID       string   `json:"listId"`
	PlaylistID   string   `json:"playlistId"`
	TrackID      string   `json:"trackId"`
}

// Player merges a raw player snapshot over its fallback (or the cycled demo
// preset for the zone's index). Progress is always clamped to [0, 1];
// values above 1 are treated as percentages.
func Player(raw *RawPlayer, fallback *models.PlayerSnapshot, index int) models.PlayerSnapshot {
	var base models.PlayerSnapshot
	if fallback != nil {
		base = *fallback
	} else {
		base = models.DemoPlayer(index)
	}
	if base.Length == 0 {
		base.Length = models.EmptyPlayer().Length
	}
	if raw == nil {
		return base
	}

	if raw.Track != "" {
		base.Track = raw.Track
	} else if raw.Title != "" && base.Track == "" {
		base.Track = raw.Title
	}
	if raw.Playlist != "" {
		base.Playlist = raw.Playlist
	} else if raw.PlaylistName != "" && base.Playlist == "" {
		base.Playlist = raw.PlaylistName
	}
	if raw.Artist != "" {
		base.Artist = raw.Artist
	}
	if raw.Length != nil && *raw.Length > 0 {
		base.Length = *raw.Length
	}
	if raw.ListID != "" {
		base.ListID = raw.ListID
	} else if raw.PlaylistID != "" && base.ListID == "" {
		base.ListID = raw.PlaylistID
	}
	if raw.TrackID != "" {
		base.TrackID = raw.TrackID
	}
	if raw.IsPlaying != nil {
		base.IsPlaying = *raw.IsPlaying
	}
	if raw.State != "" {
		base.IsPlaying = raw.State == "playing"
	}

	switch {
	case raw.Position != nil:
		position := *raw.Position
		if position < 0 {
			position = 0
		}
		if length := float64(base.Length); length > 0 {
			if position > length {
				position = length
			}
			base.Progress = clamp01(position / length)
		} else {
			base.Progress = 0
		}
	case raw.Elapsed != nil:
		elapsed := *raw.Elapsed
		if elapsed < 0 {
			elapsed = 0
		}
		if length := float64(base.Length); length > 0 {
			base.Progress = clamp01(elapsed / length)
		} else if raw.Progress != nil {
			base.Progress = clampFraction(*raw.Progress)
		}
	case raw.Progress != nil:
		base.Progress = clampFraction(*raw.Progress)
	}

	return base
}

// clampFraction interprets a raw progress value: anything above 1 is a
// percentage, then the result is clamped to [0, 1].
func clampFraction(v float64) float64 {
	if v > 1 {
		v = v / 100
	}
	return clamp01(v)
}

func clamp01(v float64) float64 {
	if v != v { // NaN
		return 0
	}
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
