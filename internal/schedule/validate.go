package schedule

import (
	"strconv"
	"strings"

	"github.com/erasound/soundkeeper/internal/models"
)

// TimeToMinutes converts an "HH:MM" time of day to minutes since midnight.
// Malformed components count as zero; the function never fails.
func TimeToMinutes(value string) int {
	h, m, _ := strings.Cut(value, ":")
	hours, err := strconv.Atoi(strings.TrimSpace(h))
	if err != nil {
		hours = 0
	}
	minutes, err := strconv.Atoi(strings.TrimSpace(m))
	if err != nil {
		minutes = 0
	}
	return hours*60 + minutes
}

// ValidateWindow checks a playback window form the way the edit dialog
// does: label present, at least one day selected, end strictly after start.
// Returns a sanitized copy of the form on success.
func ValidateWindow(form models.WindowForm) (models.WindowForm, *models.AppError) {
	form.Label = strings.TrimSpace(form.Label)
	if form.Start == "" {
		form.Start = "00:00"
	}
	if form.End == "" {
		form.End = "00:00"
	}
	form.Days = CanonicalDays(form.Days)

	if form.Label == "" {
		return form, models.ErrValidation("label", "Введите название окна, чтобы сохранить изменения.")
	}
	if len(form.Days) == 0 {
		return form, models.ErrValidation("days", "Выберите хотя бы один день недели.")
	}
	if TimeToMinutes(form.End) <= TimeToMinutes(form.Start) {
		return form, models.ErrValidation("end", "Время окончания должно быть позже времени начала.")
	}
	return form, nil
}

// ValidateAnnouncement checks an announcement form and applies the
// repeat-specific rules: weekly needs a non-empty day set, daily forces
// the full week, hourly clamps the minute offset to 0–59. Returns a
// sanitized copy of the form on success.
func ValidateAnnouncement(form models.AnnouncementForm) (models.AnnouncementForm, *models.AppError) {
	form.Title = strings.TrimSpace(form.Title)
	if form.Title == "" {
		return form, models.ErrValidation("title", "Введите название включения.")
	}

	if form.Repeat == "" {
		form.Repeat = models.RepeatDaily
	}

	switch form.Repeat {
	case models.RepeatWeekly:
		form.Days = CanonicalDays(form.Days)
		if len(form.Days) == 0 {
			return form, models.ErrValidation("days", "Выберите дни недели для запуска.")
		}
	case models.RepeatDaily:
		form.Days = AllDays()
	default:
		form.Days = CanonicalDays(form.Days)
	}

	if form.Repeat == models.RepeatHourly {
		if form.OffsetMinutes < 0 {
			form.OffsetMinutes = 0
		}
		if form.OffsetMinutes > 59 {
			form.OffsetMinutes = 59
		}
		if form.Time == "" {
			form.Time = "00:00"
		}
	} else {
		if form.Time == "" {
			return form, models.ErrValidation("time", "Укажите время запуска объявления.")
		}
	}

	if form.Track.Type == models.TrackLibrary {
		if form.Track.ListID == "" || form.Track.TrackID == "" {
			return form, models.ErrValidation("track", "Выберите трек из библиотеки или переключитесь на собственный файл.")
		}
		form.Track = models.TrackRef{Type: models.TrackLibrary, ListID: form.Track.ListID, TrackID: form.Track.TrackID}
	} else {
		name := strings.TrimSpace(form.Track.Name)
		if name == "" {
			return form, models.ErrValidation("track", "Введите название или файл объявления.")
		}
		form.Track = models.TrackRef{Type: models.TrackCustom, Name: name}
	}

	return form, nil
}
