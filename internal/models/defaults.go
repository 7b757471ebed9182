package models

import "github.com/google/uuid"

// Version is the software version string reported in Info.
const Version = "0.1.0"

// Weekday sets used by the seed data. The schedule package owns the
// canonical ordering; these literals are already in canonical order.
var (
	seedAllDays  = []string{"mon", "tue", "wed", "thu", "fri", "sat", "sun"}
	seedWeekdays = []string{"mon", "tue", "wed", "thu", "fri"}
	seedWeekend  = []string{"sat", "sun"}
)

// FallbackDevices is the static device list used when a scan fails or
// returns nothing.
func FallbackDevices() []Device {
	return []Device{
		{IP: "192.168.0.21", Name: "Холл · Ресивер", Status: DeviceOnline},
		{IP: "192.168.0.37", Name: "Кафе · Колонки", Status: DeviceDegraded},
		{IP: "192.168.0.52", Name: "Терраса · Усилитель", Status: DeviceOffline},
	}
}

// DefaultWindow returns a fresh all-day playback window, 08:00–20:00.
func DefaultWindow() PlaybackWindow {
	return PlaybackWindow{
		ID:      uuid.NewString(),
		Label:   "Ежедневный эфир",
		Start:   "08:00",
		End:     "20:00",
		Days:    append([]string(nil), seedAllDays...),
		Enabled: true,
	}
}

// DefaultAnnouncement returns a fresh daily noon announcement with the
// unresolved-track sentinel.
func DefaultAnnouncement() Announcement {
	return Announcement{
		ID:            uuid.NewString(),
		Title:         "Анонс события",
		Repeat:        RepeatDaily,
		Time:          "12:00",
		Days:          append([]string(nil), seedAllDays...),
		Track:         TrackRef{Type: TrackCustom, Name: UnresolvedTrackName},
		OffsetMinutes: 0,
		Enabled:       true,
	}
}

// DemoPlayers are the cycled player presets used when a zone has no
// playback snapshot of its own.
var DemoPlayers = []PlayerSnapshot{
	{Track: "Morning Intro", Playlist: "Доброе утро", Artist: "EraSound Studio", Progress: 0.28, Length: 214, IsPlaying: true},
	{Track: "City Flow", Playlist: "Дневное настроение", Artist: "Loft Ensemble", Progress: 0.61, Length: 256, IsPlaying: true},
	{Track: "Sunset Layers", Playlist: "Вечерняя витрина", Artist: "Skyline Trio", Progress: 0.17, Length: 301, IsPlaying: true},
}

// EmptyPlayer returns a stopped player snapshot with the default length.
func EmptyPlayer() PlayerSnapshot {
	return PlayerSnapshot{Length: 240}
}

// DemoPlayer returns the demo preset for the given zone index, merged over
// an empty player. Presets cycle when there are more zones than presets.
func DemoPlayer(index int) PlayerSnapshot {
	if index < 0 {
		index = 0
	}
	preset := DemoPlayers[index%len(DemoPlayers)]
	p := EmptyPlayer()
	p.Track = preset.Track
	p.Playlist = preset.Playlist
	p.Artist = preset.Artist
	p.Progress = preset.Progress
	p.Length = preset.Length
	p.IsPlaying = preset.IsPlaying
	return p
}

// DefaultPlaylists returns the demo playlist library.
func DefaultPlaylists() []Playlist {
	return []Playlist{
		{
			ID:   uuid.NewString(),
			Name: "Утренний эфир",
			Tracks: []Track{
				{ID: uuid.NewString(), Name: "Opening Intro.mp3"},
				{ID: uuid.NewString(), Name: "Morning Jazz Loop.wav"},
				{ID: uuid.NewString(), Name: "Daily Announcements.mp3"},
			},
		},
		{
			ID:   uuid.NewString(),
			Name: "Дневное настроение",
			Tracks: []Track{
				{ID: uuid.NewString(), Name: "Chill Lounge 01.mp3"},
				{ID: uuid.NewString(), Name: "Citywalk Groove.mp3"},
				{ID: uuid.NewString(), Name: "Acoustic Breeze.flac"},
			},
		},
		{
			ID:   uuid.NewString(),
			Name: "Вечерняя витрина",
			Tracks: []Track{
				{ID: uuid.NewString(), Name: "Ambient Bloom.mp3"},
				{ID: uuid.NewString(), Name: "Night Lights.wav"},
			},
		},
	}
}

// DefaultState returns the demo state used when no state file is found:
// three zones bound to the fallback devices, each with its own windows,
// announcements and demo player.
func DefaultState() State {
	zones := []Zone{
		{
			ID:          "z1",
			Name:        "Холл",
			DeviceIPs:   []string{"192.168.0.21"},
			PlaylistIDs: []string{},
			PlaybackWindows: []PlaybackWindow{
				{ID: uuid.NewString(), Label: "Утренний поток", Start: "08:00", End: "11:30", Days: append([]string(nil), seedWeekdays...), Enabled: true},
				{ID: uuid.NewString(), Label: "Вечерний поток", Start: "16:00", End: "22:00", Days: append([]string(nil), seedAllDays...), Enabled: true},
			},
			Announcements: []Announcement{
				{ID: uuid.NewString(), Title: "Приветствие", Repeat: RepeatDaily, Time: "09:00", Days: append([]string(nil), seedAllDays...), Track: TrackRef{Type: TrackCustom, Name: "Welcome chime.mp3"}, Enabled: true},
			},
			Player: DemoPlayer(0),
		},
		{
			ID:          "z2",
			Name:        "Кафе",
			DeviceIPs:   []string{"192.168.0.37"},
			PlaylistIDs: []string{},
			PlaybackWindows: []PlaybackWindow{
				{ID: uuid.NewString(), Label: "Основной поток", Start: "08:00", End: "22:00", Days: append([]string(nil), seedAllDays...), Enabled: true},
			},
			Announcements: []Announcement{
				{ID: uuid.NewString(), Title: "Меню дня", Repeat: RepeatDaily, Time: "12:00", Days: append([]string(nil), seedAllDays...), Track: TrackRef{Type: TrackCustom, Name: "Chef special.mp3"}, Enabled: true},
				{ID: uuid.NewString(), Title: "Счастливый час", Repeat: RepeatHourly, Time: "17:00", Days: append([]string(nil), seedWeekdays...), Track: TrackRef{Type: TrackCustom, Name: "Promo sweep.wav"}, OffsetMinutes: 15, Enabled: true},
			},
			Player: DemoPlayer(1),
		},
		{
			ID:          "z3",
			Name:        "Терраса",
			DeviceIPs:   []string{"192.168.0.52"},
			PlaylistIDs: []string{},
			PlaybackWindows: []PlaybackWindow{
				{ID: uuid.NewString(), Label: "Выходные вечера", Start: "16:00", End: "23:30", Days: append([]string(nil), seedWeekend...), Enabled: true},
			},
			Announcements: []Announcement{
				{ID: uuid.NewString(), Title: "Анонс DJ-сета", Repeat: RepeatWeekly, Time: "18:30", Days: []string{"fri", "sat"}, Track: TrackRef{Type: TrackCustom, Name: "DJ tonight.mp3"}, Enabled: true},
			},
			Player: DemoPlayer(2),
		},
	}

	return State{
		Zones:     zones,
		Playlists: DefaultPlaylists(),
		Transfers: map[string]TransferEntry{},
		Info: Info{
			Version: Version,
			Offline: false,
		},
	}
}
