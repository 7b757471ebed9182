package controller

import (
	"context"
	"log/slog"

	"github.com/erasound/soundkeeper/internal/models"
)

// SetZonePlayer updates a zone's player snapshot. Selecting a library
// track resolves its name and playlist name from the library; toggling
// playback issues fire-and-forget play/stop commands to the zone's
// devices. Command failures are logged and never surfaced — the snapshot
// is the source of truth for the UI.
func (c *Controller) SetZonePlayer(ctx context.Context, zoneID string, upd models.PlayerUpdate) (models.State, *models.AppError) {
	var commands []func()

	state, err := c.apply(func(s *models.State) error {
		z := findZone(s, zoneID)
		if z == nil {
			return models.ErrNotFound("zone not found")
		}

		if upd.ListID != nil && upd.TrackID != nil {
			p := findPlaylist(s, *upd.ListID)
			if p == nil {
				return models.ErrNotFound("playlist not found")
			}
			var track *models.Track
			for i := range p.Tracks {
				if p.Tracks[i].ID == *upd.TrackID {
					track = &p.Tracks[i]
					break
				}
			}
			if track == nil {
				return models.ErrNotFound("track not found")
			}
			z.Player.ListID = p.ID
			z.Player.TrackID = track.ID
			z.Player.Track = track.Name
			z.Player.Playlist = p.Name
			z.Player.Progress = 0
		}

		if upd.Progress != nil {
			p := *upd.Progress
			if p > 1 {
				p = p / 100
			}
			if p < 0 {
				p = 0
			}
			if p > 1 {
				p = 1
			}
			z.Player.Progress = p
		}

		if upd.IsPlaying != nil {
			z.Player.IsPlaying = *upd.IsPlaying
			file := z.Player.Track
			for _, ip := range z.DeviceIPs {
				ip := ip
				if *upd.IsPlaying && file != "" {
					commands = append(commands, func() {
						if err := c.client.Play(ctx, ip, file); err != nil {
							slog.Debug("player: play command failed", "ip", ip, "err", err)
						}
					})
				} else if !*upd.IsPlaying {
					commands = append(commands, func() {
						if err := c.client.Stop(ctx, ip); err != nil {
							slog.Debug("player: stop command failed", "ip", ip, "err", err)
						}
					})
				}
			}
		}
		return nil
	})
	if err != nil {
		return models.State{}, asAppError(err)
	}

	for _, cmd := range commands {
		cmd()
	}
	return state, nil
}

// SetZoneVolume forwards a volume level to every device in the zone.
// The state is untouched; volume lives on the devices.
func (c *Controller) SetZoneVolume(ctx context.Context, zoneID string, level int) *models.AppError {
	z, appErr := c.GetZone(zoneID)
	if appErr != nil {
		return appErr
	}
	for _, ip := range z.DeviceIPs {
		if err := c.client.Volume(ctx, ip, level); err != nil {
			slog.Debug("player: volume command failed", "ip", ip, "err", err)
		}
	}
	return nil
}
