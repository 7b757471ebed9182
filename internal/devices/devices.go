// Package devices is the client side of the device API: scanning for
// playback endpoints and issuing fire-and-forget commands to them. All
// calls return explicit errors; fallback policy lives with the caller.
package devices

import (
	"context"
	"io"

	"github.com/erasound/soundkeeper/internal/models"
)

// FileInfo describes one audio file stored on a device. Size is nil when
// the device only reports filenames.
type FileInfo struct {
	Name string `json:"name"`
	Size *int64 `json:"size"`
}

// Client talks to networked playback devices. Implementations must be safe
// for concurrent use.
type Client interface {
	// Scan discovers devices. The returned list is already normalized.
	Scan(ctx context.Context) ([]models.Device, error)

	// Files lists the audio files stored on a device.
	Files(ctx context.Context, ip string) ([]FileInfo, error)

	// Play starts playback of a file on a device. Fire-and-forget.
	Play(ctx context.Context, ip, file string) error

	// Stop stops playback on a device. Fire-and-forget.
	Stop(ctx context.Context, ip string) error

	// Volume sets a device's volume, level 0–100. Fire-and-forget.
	Volume(ctx context.Context, ip string, level int) error

	// Upload pushes an audio file to a device. Fire-and-forget; not
	// connected to the transfer progress simulation.
	Upload(ctx context.Context, ip, filename string, r io.Reader) error
}
