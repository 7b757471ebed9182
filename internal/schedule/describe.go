package schedule

import (
	"fmt"
	"strings"

	"github.com/erasound/soundkeeper/internal/models"
)

// Display strings. The dashboard UI is Russian; these match the labels
// the original frontend rendered.
const (
	labelNoDays       = "Без дней"
	labelEveryDay     = "Ежедневно"
	labelWeekdays     = "Будни"
	labelWeekend      = "Выходные"
	labelEveryHour    = "Каждый час"
	labelTopOfHour    = "в начале"
	labelLibraryTrack = "Трек из библиотеки"
	labelAudioFile    = "Аудиофайл"
)

// FormatDays returns a short summary of a weekday set: "every day",
// "weekdays" or "weekend" when the set matches one of the named groups,
// otherwise the individual day labels joined in canonical order.
func FormatDays(days []string) string {
	unique := CanonicalDays(days)
	if len(unique) == 0 {
		return labelNoDays
	}
	if SameDaySet(unique, AllDays()) {
		return labelEveryDay
	}
	if SameDaySet(unique, Weekdays()) {
		return labelWeekdays
	}
	if SameDaySet(unique, Weekend()) {
		return labelWeekend
	}
	labels := make([]string, len(unique))
	for i, c := range unique {
		labels[i] = dayLabel(c)
	}
	return strings.Join(labels, " · ")
}

// Describe returns the one-line schedule summary for an announcement.
func Describe(a models.Announcement) string {
	repeat := a.Repeat
	if repeat == "" {
		repeat = models.RepeatDaily
	}
	t := a.Time
	if t == "" {
		t = "00:00"
	}
	switch repeat {
	case models.RepeatHourly:
		if a.OffsetMinutes != 0 {
			return fmt.Sprintf("%s · %02d мин", labelEveryHour, a.OffsetMinutes)
		}
		return labelEveryHour + " · " + labelTopOfHour
	case models.RepeatWeekly:
		return FormatDays(a.Days) + " · " + t
	default:
		return labelEveryDay + " · " + t
	}
}

// ResolveTrackLabel returns the display label for an announcement's track.
// Library references are resolved against the playlist collection; dangling
// references (playlist or track deleted after the announcement was created)
// yield a placeholder rather than an error.
func ResolveTrackLabel(a models.Announcement, playlists []models.Playlist) string {
	track := a.Track
	if track.Type == models.TrackLibrary {
		for _, list := range playlists {
			if list.ID != track.ListID {
				continue
			}
			for _, item := range list.Tracks {
				if item.ID == track.TrackID {
					return item.Name + " • " + list.Name
				}
			}
		}
		return labelLibraryTrack
	}
	if track.Name != "" {
		return track.Name
	}
	return labelAudioFile
}

// FormatClock renders a duration in seconds as "MM:SS", or "--:--" for
// negative values.
func FormatClock(seconds int) string {
	if seconds < 0 {
		return "--:--"
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
