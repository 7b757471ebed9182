package devices

import (
	"context"
	"io"
	"sync"

	"github.com/erasound/soundkeeper/internal/models"
)

// Mock is an in-memory Client for tests and --mock-devices mode. It serves
// the static fallback devices and records every command it receives.
type Mock struct {
	mu      sync.Mutex
	devices []models.Device
	files   map[string][]FileInfo

	ScanErr error // returned by Scan when set

	Commands []MockCommand
}

// MockCommand records one fire-and-forget call.
type MockCommand struct {
	Action string // "play" | "stop" | "volume" | "upload"
	IP     string
	File   string
	Level  int
}

// NewMock returns a Mock serving the fallback device list.
func NewMock() *Mock {
	return &Mock{
		devices: models.FallbackDevices(),
		files: map[string][]FileInfo{
			"192.168.0.21": {{Name: "Opening Intro.mp3"}, {Name: "Morning Jazz Loop.wav"}},
			"192.168.0.37": {{Name: "Chill Lounge 01.mp3"}},
		},
	}
}

// SetDevices replaces the devices returned by Scan.
func (m *Mock) SetDevices(list []models.Device) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.devices = append([]models.Device(nil), list...)
}

// Scan returns the configured device list.
func (m *Mock) Scan(ctx context.Context) ([]models.Device, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ScanErr != nil {
		return nil, m.ScanErr
	}
	return append([]models.Device(nil), m.devices...), nil
}

// Files returns the configured file list for a device.
func (m *Mock) Files(ctx context.Context, ip string) ([]FileInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]FileInfo(nil), m.files[ip]...), nil
}

// Play records the command.
func (m *Mock) Play(ctx context.Context, ip, file string) error {
	m.record(MockCommand{Action: "play", IP: ip, File: file})
	return nil
}

// Stop records the command.
func (m *Mock) Stop(ctx context.Context, ip string) error {
	m.record(MockCommand{Action: "stop", IP: ip})
	return nil
}

// Volume records the command.
func (m *Mock) Volume(ctx context.Context, ip string, level int) error {
	m.record(MockCommand{Action: "volume", IP: ip, Level: level})
	return nil
}

// Upload consumes the reader and records the command.
func (m *Mock) Upload(ctx context.Context, ip, filename string, r io.Reader) error {
	_, _ = io.Copy(io.Discard, r)
	m.record(MockCommand{Action: "upload", IP: ip, File: filename})
	return nil
}

// CommandLog returns a copy of all recorded commands.
func (m *Mock) CommandLog() []MockCommand {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]MockCommand(nil), m.Commands...)
}

func (m *Mock) record(cmd MockCommand) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Commands = append(m.Commands, cmd)
}

var _ Client = (*Mock)(nil)
