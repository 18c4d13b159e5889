package triptych

import "log/slog"

// Option configures a Manager.
type Option func(*Manager)

// WithProvider attaches the content provider at construction.
// The window is built on the first layout pass.
func WithProvider(p Provider) Option {
	return func(m *Manager) { m.provider = p }
}

// WithLogger sets the logger used for window and settle diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithSnapSpeed sets how fast off-boundary offsets are corrected.
func WithSnapSpeed(speed float32) Option {
	return func(m *Manager) { m.surface.SetSnapSpeed(speed) }
}

// WithViewport sets the initial viewport size.
func WithViewport(size Vec2) Option {
	return func(m *Manager) { m.surface.setViewport(size) }
}
