package player

import (
	"bufio"
	"encoding/json"
	"net"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

// fakeMPV answers JSON-IPC requests on a unix socket with canned property values.
type fakeMPV struct {
	path     string
	listener net.Listener

	mu         sync.Mutex
	properties map[string]interface{}
	sets       []setCall
}

type setCall struct {
	property string
	value    interface{}
}

func newFakeMPV(t *testing.T) *fakeMPV {
	dir, err := os.MkdirTemp("", "ythdp")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.RemoveAll(dir) })

	path := filepath.Join(dir, "mpv.sock")
	listener, err := net.Listen("unix", path)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = listener.Close() })

	f := &fakeMPV{
		path:       path,
		listener:   listener,
		properties: map[string]interface{}{"pid": float64(4242)},
	}
	go f.serve()
	return f
}

func (f *fakeMPV) set(property string, value interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.properties[property] = value
}

func (f *fakeMPV) calls() []setCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]setCall(nil), f.sets...)
}

func (f *fakeMPV) serve() {
	for {
		conn, err := f.listener.Accept()
		if err != nil {
			return
		}
		go f.handle(conn)
	}
}

func (f *fakeMPV) handle(conn net.Conn) {
	defer conn.Close()

	// mpv broadcasts events to every client; clients must skip them.
	_, _ = conn.Write([]byte(`{"event":"playback-restart"}` + "\n"))

	reader := bufio.NewReader(conn)
	for {
		line, err := reader.ReadBytes('\n')
		if err != nil {
			return
		}

		var req ipcCommand
		if err := json.Unmarshal(line, &req); err != nil {
			return
		}

		resp := f.reply(req)
		payload, _ := json.Marshal(resp)
		if _, err := conn.Write(append(payload, '\n')); err != nil {
			return
		}
	}
}

func (f *fakeMPV) reply(req ipcCommand) ipcResponse {
	f.mu.Lock()
	defer f.mu.Unlock()

	resp := ipcResponse{RequestID: req.RequestID, Error: "success"}
	if len(req.Command) == 0 {
		resp.Error = "invalid parameter"
		return resp
	}

	switch req.Command[0] {
	case "get_property":
		value, ok := f.properties[req.Command[1].(string)]
		if !ok {
			resp.Error = "property unavailable"
			return resp
		}
		resp.Data = value
	case "set_property":
		f.sets = append(f.sets, setCall{property: req.Command[1].(string), value: req.Command[2]})
		f.properties[req.Command[1].(string)] = req.Command[2]
	case "observe_property", "quit":
	default:
		resp.Error = "invalid parameter"
	}

	return resp
}

// trackList builds a track-list payload the way mpv reports it over IPC.
func trackList(tracks ...map[string]interface{}) []interface{} {
	out := make([]interface{}, len(tracks))
	for i, t := range tracks {
		out[i] = t
	}
	return out
}

func videoTrack(id, width, height int, title string, selected bool) map[string]interface{} {
	t := map[string]interface{}{
		"id":       float64(id),
		"type":     "video",
		"codec":    "vp9",
		"selected": selected,
		"demux-w":  float64(width),
		"demux-h":  float64(height),
	}
	if title != "" {
		t["title"] = title
	}
	return t
}
