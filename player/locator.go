package player

import (
	"context"
	"fmt"
	"os"
)

// SocketLocator finds an mpv instance listening on a fixed IPC socket path.
type SocketLocator struct {
	Path string

	// Launched is returned instead of a fresh client while it still owns the socket.
	Launched *MPV
}

// Locate implements Locator. A socket file nobody answers on is not ready.
func (l *SocketLocator) Locate(ctx context.Context) (Player, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, err := os.Stat(l.Path); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotReady, err)
	}

	m := NewMPV(l.Path)
	if l.Launched != nil && l.Launched.Socket() == l.Path && l.Launched.IsRunning() {
		m = l.Launched
	} else if !m.IsRunning() {
		return nil, fmt.Errorf("%w: no mpv answering on %s", ErrNotReady, l.Path)
	}

	pid, err := m.getIntProperty("pid")
	if err != nil {
		return nil, err
	}
	m.pid = pid

	return m, nil
}
