// Package zeroconf registers the SoundKeeper daemon as an mDNS/DNS-SD
// service so dashboards on the LAN can find it without configuration.
package zeroconf

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/grandcat/zeroconf"

	"github.com/erasound/soundkeeper/internal/models"
)

// Service manages mDNS service registration.
type Service struct {
	name string // instance name / hostname, e.g. "soundkeeper"
	port int

	mu     sync.Mutex
	server *zeroconf.Server
}

// New creates a new zeroconf Service that will advertise on the given port.
// name should be the hostname (e.g. "soundkeeper").
func New(name string, port int) *Service {
	return &Service{
		name: name,
		port: port,
	}
}

// Start registers the mDNS service and blocks until ctx is cancelled, at which
// point it shuts down the server cleanly.
func (s *Service) Start(ctx context.Context) error {
	txt := []string{"version=" + models.Version, "model=SoundKeeper"}

	server, err := zeroconf.Register(
		s.name,       // instance name
		"_http._tcp", // service type
		"local.",     // domain
		s.port,       // port
		txt,          // TXT records
		nil,          // ifaces — nil means all interfaces
	)
	if err != nil {
		return fmt.Errorf("zeroconf register: %w", err)
	}
	s.mu.Lock()
	s.server = server
	s.mu.Unlock()
	slog.Info("zeroconf: registered mDNS service",
		"name", s.name,
		"port", s.port,
		"txt", txt,
	)

	<-ctx.Done()

	s.mu.Lock()
	s.server = nil
	s.mu.Unlock()
	server.Shutdown()
	slog.Info("zeroconf: mDNS service unregistered")
	return nil
}

// UpdateTXT replaces the TXT records of the registered service. Callers
// treat it as best-effort: before registration (or after shutdown) it
// returns an error and the next Register picks up the current defaults.
func (s *Service) UpdateTXT(records []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.server == nil {
		return fmt.Errorf("zeroconf: server not started")
	}
	s.server.SetText(append([]string(nil), records...))
	slog.Debug("zeroconf: txt records updated", "records", records)
	return nil
}
