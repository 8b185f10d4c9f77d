package player

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/samber/lo"
	"github.com/ythdp/ythdp/log"
)

// Event is a notification pushed by mpv. For property changes Name is the property name.
type Event struct {
	Name     string
	Property bool
	Data     interface{}

	// Args carries the arguments of client-message events.
	Args []string
}

// EventCallback is the function signature for mpv event notifications.
type EventCallback func(Event)

// observed are the properties whose changes drive re-evaluation.
var observed = []string{
	"pause",
	"eof-reached",
	"idle-active",
	"track-list",
}

// EventListener provides real-time mpv event monitoring via observe_property.
type EventListener struct {
	socketPath string
	conn       net.Conn
	callback   EventCallback
	stopCh     chan struct{}
	done       chan struct{}
	mu         sync.Mutex
	listening  bool
}

// NewEventListener creates a new event listener for the given socket.
func NewEventListener(socketPath string, callback EventCallback) *EventListener {
	return &EventListener{
		socketPath: socketPath,
		callback:   callback,
		stopCh:     make(chan struct{}),
		done:       make(chan struct{}),
	}
}

// Watch implements Observable. The returned stop waits for the read loop to exit.
func (m *MPV) Watch(callback EventCallback) (func(), error) {
	el := NewEventListener(m.socketPath, callback)
	if err := el.Start(); err != nil {
		return nil, err
	}
	return func() {
		el.Stop()
		select {
		case <-el.Done():
		case <-time.After(dialTimeout):
			log.Warnf("mpv event listener on %s did not stop in time", el.socketPath)
		}
	}, nil
}

// Start opens a persistent connection, registers the property observers on it and
// starts the read loop. Observers are per client, so they must use this connection.
func (el *EventListener) Start() error {
	el.mu.Lock()
	defer el.mu.Unlock()

	if el.listening {
		return nil
	}

	conn, err := net.DialTimeout("unix", el.socketPath, dialTimeout)
	if err != nil {
		return fmt.Errorf("event listener connect: %w", err)
	}

	for i, name := range observed {
		payload, err := json.Marshal(ipcCommand{
			Command:   []interface{}{"observe_property", i + 1, name},
			RequestID: requestIDs.Add(1),
		})
		if err != nil {
			_ = conn.Close()
			return fmt.Errorf("observe %s: %w", name, err)
		}
		if _, err := conn.Write(append(payload, '\n')); err != nil {
			_ = conn.Close()
			return fmt.Errorf("observe %s: %w", name, err)
		}
	}

	el.conn = conn
	el.listening = true

	go el.readLoop()

	log.Debugf("mpv event listener started on %s (observing: %v)", el.socketPath, observed)
	return nil
}

// Stop terminates the event listener. An event already being delivered may still
// reach the callback.
func (el *EventListener) Stop() {
	el.mu.Lock()
	defer el.mu.Unlock()

	if !el.listening {
		return
	}
	close(el.stopCh)
	_ = el.conn.Close()
	el.listening = false
}

// Done is closed once the read loop has exited.
func (el *EventListener) Done() <-chan struct{} {
	return el.done
}

// readLoop continuously reads newline-delimited events from the persistent connection.
func (el *EventListener) readLoop() {
	defer close(el.done)

	reader := bufio.NewReader(el.conn)
	for {
		line, err := reader.ReadBytes('\n')
		if err != nil {
			select {
			case <-el.stopCh:
			default:
				if !errors.Is(err, net.ErrClosed) {
					log.Warnf("event listener read error: %v", err)
				}
			}
			return
		}

		if event, ok := parseEvent(line); ok && el.callback != nil {
			el.callback(event)
		}
	}
}

// parseEvent decodes a single mpv event line. Command replies are ignored.
func parseEvent(line []byte) (Event, bool) {
	var raw struct {
		Event string        `json:"event"`
		Name  string        `json:"name"`
		Data  interface{}   `json:"data"`
		Args  []interface{} `json:"args"`
	}
	if err := json.Unmarshal(line, &raw); err != nil || raw.Event == "" {
		return Event{}, false
	}

	switch raw.Event {
	case "property-change":
		if raw.Name == "" {
			return Event{}, false
		}
		return Event{Name: raw.Name, Property: true, Data: raw.Data}, true
	case "client-message":
		args := lo.Map(raw.Args, func(a interface{}, _ int) string {
			if s, ok := a.(string); ok {
				return s
			}
			return fmt.Sprint(a)
		})
		return Event{Name: raw.Event, Args: args}, true
	default:
		return Event{Name: raw.Event, Data: raw.Data}, true
	}
}
