package player

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/samber/lo"
	"github.com/sethvargo/go-retry"
	"github.com/ythdp/ythdp/log"
	"github.com/ythdp/ythdp/quality"
)

const (
	socketWaitRetries = 10
	socketWaitDelay   = 300 * time.Millisecond
)

// MPV implements Player using mpv's JSON-IPC protocol.
type MPV struct {
	socketPath string
	pid        int
	cmd        *exec.Cmd
	exited     chan struct{} // closed when a launched mpv process exits
	mu         sync.Mutex    // serializes IPC round trips
}

// NewMPV returns a client for an mpv instance already listening on socketPath.
func NewMPV(socketPath string) *MPV {
	return &MPV{
		socketPath: socketPath,
		exited:     make(chan struct{}),
	}
}

// LaunchOptions configures a new mpv process.
type LaunchOptions struct {
	Binary     string
	SocketPath string
	URL        string
	Target     quality.ID
	AllFormats bool
}

// Launch starts mpv on the given URL and waits for its IPC socket.
func Launch(ctx context.Context, opts LaunchOptions) (*MPV, error) {
	safeURL, err := sanitizeMediaTarget(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid media target: %w", err)
	}

	socketPath := opts.SocketPath
	if socketPath == "" {
		randomBytes := make([]byte, 4)
		if _, err := rand.Read(randomBytes); err != nil {
			return nil, fmt.Errorf("generate socket name: %w", err)
		}
		socketPath = filepath.Join(os.TempDir(), fmt.Sprintf("ythdp-%x.sock", randomBytes))
	}

	binary := lo.Ternary(opts.Binary == "", "mpv", opts.Binary)

	// Respect the user's mpv.conf: only pass what the pin needs.
	args := []string{
		"--no-terminal",
		"--really-quiet",
		fmt.Sprintf("--input-ipc-server=%s", socketPath),
		"--force-window=yes",
		"--idle=once",
		fmt.Sprintf("--ytdl-format=%s", ytdlFormat(opts.Target)),
	}

	if opts.AllFormats {
		args = append(args, "--script-opts-append=ytdl_hook-all_formats=yes")
	}

	args = append(args, safeURL)

	m := NewMPV(socketPath)
	m.cmd = exec.CommandContext(ctx, binary, args...)

	// Detach from parent process group to prevent cascading shell panics.
	m.cmd.SysProcAttr = sysProcAttr()
	m.cmd.Stdout = nil
	m.cmd.Stderr = nil
	m.cmd.Stdin = nil

	if err := m.cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", binary, err)
	}

	// Reap the process to prevent zombies.
	go func() {
		_ = m.cmd.Wait()
		close(m.exited)
	}()

	if err := m.waitForSocket(ctx); err != nil {
		select {
		case <-m.exited:
		default:
			log.Warnf("killing mpv: socket never became ready")
			_ = killProcess(m.cmd)
		}
		return nil, fmt.Errorf("mpv socket not ready: %w", err)
	}

	m.pid = m.cmd.Process.Pid
	return m, nil
}

// waitForSocket polls until the mpv IPC socket is accepting connections.
func (m *MPV) waitForSocket(ctx context.Context) error {
	backoff := retry.WithMaxRetries(socketWaitRetries, retry.NewConstant(socketWaitDelay))
	return retry.Do(ctx, backoff, func(_ context.Context) error {
		select {
		case <-m.exited:
			return errors.New("mpv exited before socket was ready")
		default:
		}

		conn, err := net.DialTimeout("unix", m.socketPath, dialTimeout)
		if err != nil {
			return retry.RetryableError(err)
		}
		return conn.Close()
	})
}

// Wait returns a channel that is closed when a launched mpv process exits.
func (m *MPV) Wait() <-chan struct{} {
	return m.exited
}

// Socket returns the IPC socket path.
func (m *MPV) Socket() string {
	return m.socketPath
}

// ID implements Player.
func (m *MPV) ID() string {
	return fmt.Sprintf("%s#%d", m.socketPath, m.pid)
}

// IsRunning reports whether mpv is responding to IPC commands.
func (m *MPV) IsRunning() bool {
	select {
	case <-m.exited:
		return false
	default:
	}

	_, err := m.sendCommand("get_property", "pid")
	return err == nil
}

func (m *MPV) tracks() ([]track, error) {
	data, err := m.sendCommand("get_property", "track-list")
	if err != nil {
		return nil, err
	}
	return decodeTracks(data)
}

// ListQualityOffers implements Player.
func (m *MPV) ListQualityOffers() ([]QualityOffer, error) {
	tracks, err := m.tracks()
	if err != nil {
		return nil, err
	}
	return offersFromTracks(tracks), nil
}

// ListQualityIDs implements Player.
func (m *MPV) ListQualityIDs() ([]quality.ID, error) {
	offers, err := m.ListQualityOffers()
	if err != nil {
		return nil, err
	}
	return tiersFromOffers(offers), nil
}

// CurrentQualityID implements Player.
func (m *MPV) CurrentQualityID() (quality.ID, error) {
	t, err := m.current()
	if err != nil {
		return "", err
	}
	return t.tier(), nil
}

// CurrentQualityLabel implements Player.
func (m *MPV) CurrentQualityLabel() (string, error) {
	t, err := m.current()
	if err != nil {
		return "", err
	}
	return t.label(), nil
}

func (m *MPV) current() (track, error) {
	tracks, err := m.tracks()
	if err != nil {
		return track{}, err
	}

	t, ok := selectedVideo(tracks)
	if !ok {
		return track{}, fmt.Errorf("%w: no video track selected", ErrNotReady)
	}
	return t, nil
}

// PlaybackState implements Player.
func (m *MPV) PlaybackState() (State, error) {
	idle, err := m.getBoolProperty("idle-active")
	if err != nil {
		return Unstarted, err
	}
	if idle {
		return Unstarted, nil
	}

	// eof-reached is unavailable while a file is still opening.
	if eof, err := m.getBoolProperty("eof-reached"); err == nil && eof {
		return Ended, nil
	}

	if buffering, err := m.getBoolProperty("paused-for-cache"); err == nil && buffering {
		return Buffering, nil
	}

	paused, err := m.getBoolProperty("pause")
	if err != nil {
		return Unstarted, err
	}
	if paused {
		return Paused, nil
	}

	return Playing, nil
}

// SetQualityRange implements Player. mpv has no quality floor, so the variant of max is
// selected directly and the ytdl format is capped at max for subsequent loads.
func (m *MPV) SetQualityRange(min, max quality.ID, formatHandle string) error {
	if max == quality.Auto || max == "" {
		if err := m.Set("ytdl-format", ytdlFormat(quality.Auto)); err != nil {
			return err
		}
		return m.Set("vid", "auto")
	}

	id, err := m.trackFor(max, formatHandle)
	if err != nil {
		return err
	}

	if err := m.Set("ytdl-format", ytdlFormat(max)); err != nil {
		return err
	}

	log.Debugf("mpv: selecting track %d for %s (min %s)", id, max, min)
	return m.Set("vid", id)
}

// trackFor resolves the track to select: the given handle, or the first playable
// variant of the tier.
func (m *MPV) trackFor(tier quality.ID, formatHandle string) (int, error) {
	if formatHandle != "" {
		id, err := strconv.Atoi(formatHandle)
		if err != nil {
			return 0, fmt.Errorf("invalid format handle %q: %w", formatHandle, err)
		}
		return id, nil
	}

	offers, err := m.ListQualityOffers()
	if err != nil {
		return 0, err
	}

	offer, ok := lo.Find(offers, func(o QualityOffer) bool {
		return o.ID == tier && o.Playable
	})
	if !ok {
		return 0, fmt.Errorf("tier %s is not offered", tier)
	}

	return strconv.Atoi(offer.FormatHandle)
}

// Set a property
func (m *MPV) Set(property string, value interface{}) error {
	_, err := m.sendCommand("set_property", property, value)
	return err
}

// Close asks mpv to quit and, for a launched process, waits for it.
func (m *MPV) Close() error {
	if m.cmd == nil {
		return nil
	}

	_, _ = m.sendCommand("quit")

	select {
	case <-m.exited:
	case <-time.After(3 * time.Second):
		_ = killProcess(m.cmd)
	}

	_ = os.Remove(m.socketPath)
	return nil
}

func (m *MPV) getBoolProperty(name string) (bool, error) {
	data, err := m.sendCommand("get_property", name)
	if err != nil {
		return false, err
	}

	val, ok := data.(bool)
	if !ok {
		return false, fmt.Errorf("property %s: expected bool, got %T", name, data)
	}
	return val, nil
}

func (m *MPV) getIntProperty(name string) (int, error) {
	data, err := m.sendCommand("get_property", name)
	if err != nil {
		return 0, err
	}

	val, ok := data.(float64)
	if !ok {
		return 0, fmt.Errorf("property %s: expected number, got %T", name, data)
	}
	return int(val), nil
}

// ytdlFormat builds the youtube-dl format selector capped at the tier's height.
func ytdlFormat(tier quality.ID) string {
	height, ok := quality.Height(tier)
	if !ok {
		return "bestvideo+bestaudio/best"
	}
	return fmt.Sprintf("bestvideo[height<=%d]+bestaudio/best[height<=%d]", height, height)
}

// sanitizeMediaTarget validates that a URL is safe to pass to mpv.
func sanitizeMediaTarget(link string) (string, error) {
	l := strings.TrimSpace(link)
	if l == "" {
		return "", fmt.Errorf("empty URL")
	}

	if strings.ContainsAny(l, "\x00\n\r") {
		return "", fmt.Errorf("invalid control characters in URL")
	}

	// Prevent flag injection: URLs must not start with -
	if strings.HasPrefix(l, "-") {
		return "", fmt.Errorf("url must not start with '-' (looks like a flag)")
	}

	if strings.Contains(l, "://") {
		u, err := url.Parse(l)
		if err != nil {
			return "", fmt.Errorf("invalid URL: %w", err)
		}
		switch strings.ToLower(u.Scheme) {
		case "http", "https":
			return l, nil
		default:
			return "", fmt.Errorf("unsupported URL scheme: %s", u.Scheme)
		}
	}

	return filepath.Clean(l), nil
}
