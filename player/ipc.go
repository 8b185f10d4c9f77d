package player

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"sync/atomic"
	"time"

	"github.com/sethvargo/go-retry"
)

// ipcCommand is the JSON structure sent to mpv's IPC socket.
type ipcCommand struct {
	Command   []interface{} `json:"command"`
	RequestID int64         `json:"request_id"`
}

// ipcResponse is the JSON structure received from mpv's IPC socket.
// Broadcast events share the connection and carry Event instead of RequestID.
type ipcResponse struct {
	Data      interface{} `json:"data"`
	Error     string      `json:"error"`
	RequestID int64       `json:"request_id"`
	Event     string      `json:"event"`
}

// mpvError is an error reported by mpv itself, as opposed to a transport failure.
type mpvError string

func (e mpvError) Error() string {
	return "mpv error: " + string(e)
}

const (
	maxRetries   = 3
	retryDelay   = 100 * time.Millisecond
	readDeadline = 1 * time.Second
	dialTimeout  = 500 * time.Millisecond
)

var requestIDs atomic.Int64

// sendCommand sends a JSON-IPC command to mpv via Unix domain socket.
// Transport failures are retried; errors reported by mpv are not.
func (m *MPV) sendCommand(command ...interface{}) (interface{}, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var result interface{}

	backoff := retry.WithMaxRetries(maxRetries-1, retry.NewConstant(retryDelay))
	err := retry.Do(context.Background(), backoff, func(_ context.Context) error {
		data, err := doSendCommand(m.socketPath, command)
		if err == nil {
			result = data
			return nil
		}

		var rejected mpvError
		if errors.As(err, &rejected) {
			return err
		}
		return retry.RetryableError(err)
	})
	if err != nil {
		return nil, classify(err)
	}

	return result, nil
}

// classify maps failures that mean "nothing to talk to yet" onto ErrNotReady.
func classify(err error) error {
	var rejected mpvError
	if errors.As(err, &rejected) && rejected == "property unavailable" {
		return fmt.Errorf("%w: %v", ErrNotReady, err)
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return fmt.Errorf("%w: %v", ErrNotReady, err)
	}

	return err
}

// doSendCommand performs a single IPC command attempt.
func doSendCommand(socketPath string, command []interface{}) (interface{}, error) {
	conn, err := net.DialTimeout("unix", socketPath, dialTimeout)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	id := requestIDs.Add(1)
	payload, err := json.Marshal(ipcCommand{Command: command, RequestID: id})
	if err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}

	// mpv requires newline-delimited JSON
	if _, err = conn.Write(append(payload, '\n')); err != nil {
		return nil, fmt.Errorf("write: %w", err)
	}

	if err := conn.SetReadDeadline(time.Now().Add(readDeadline)); err != nil {
		return nil, fmt.Errorf("set deadline: %w", err)
	}

	reader := bufio.NewReader(conn)
	for {
		line, err := reader.ReadBytes('\n')
		if err != nil {
			return nil, fmt.Errorf("read: %w", err)
		}

		var resp ipcResponse
		if err := json.Unmarshal(line, &resp); err != nil {
			return nil, fmt.Errorf("unmarshal: %w", err)
		}

		// Skip events broadcast to every client and replies to other requests.
		if resp.Event != "" || resp.RequestID != id {
			continue
		}

		if resp.Error != "" && resp.Error != "success" {
			return nil, mpvError(resp.Error)
		}

		return resp.Data, nil
	}
}
