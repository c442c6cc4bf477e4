package server

import (
	"context"
	"encoding/json"
	"image/color"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"sandfall/internal/core"
	"sandfall/internal/logging"
	"sandfall/internal/sand"
)

var red = color.RGBA{R: 220, G: 30, B: 30, A: 255}

func startServer(t *testing.T, opts Options) (*httptest.Server, *sand.Simulation) {
	t.Helper()
	colors := core.ColorFunc(func() color.RGBA { return red })
	sim, err := sand.New(8, 8, 0, colors)
	if err != nil {
		t.Fatal(err)
	}
	srv := New(sim, colors, opts, logging.Discard())
	ctx, cancel := context.WithCancel(context.Background())
	go srv.Loop(ctx)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		cancel()
		ts.Close()
	})
	return ts, sim
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestPointerEventsDepositAndStream(t *testing.T) {
	ts, _ := startServer(t, Options{CellSize: 10, TPS: 120})
	conn := dial(t, ts)

	if err := conn.WriteJSON(Event{Type: EventDown, X: 25, Y: 5}); err != nil {
		t.Fatal(err)
	}
	if err := conn.WriteJSON(Event{Type: EventUp}); err != nil {
		t.Fatal(err)
	}

	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	for {
		var f Frame
		if err := conn.ReadJSON(&f); err != nil {
			t.Fatalf("no frame with particles: %v", err)
		}
		if f.Rows != 8 || f.Cols != 8 {
			t.Fatalf("frame size %dx%d", f.Rows, f.Cols)
		}
		if len(f.Cells) == 0 {
			continue
		}
		c := f.Cells[0]
		if c.C != 2 || c.Color != "#dc1e1e" || c.Fixed {
			t.Fatalf("unexpected cell %+v", c)
		}
		return
	}
}

func TestUnknownEventIgnored(t *testing.T) {
	ts, _ := startServer(t, Options{CellSize: 1, TPS: 120})
	conn := dial(t, ts)
	if err := conn.WriteJSON(Event{Type: "wiggle", X: 1, Y: 1}); err != nil {
		t.Fatal(err)
	}
	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	for i := 0; i < 3; i++ {
		var f Frame
		if err := conn.ReadJSON(&f); err != nil {
			t.Fatalf("read frame: %v", err)
		}
		if len(f.Cells) != 0 {
			t.Fatalf("unknown event deposited %d cells", len(f.Cells))
		}
	}
}

func TestSnapshotEndpoints(t *testing.T) {
	ts, _ := startServer(t, Options{CellSize: 2, TPS: 60})

	resp, err := http.Get(ts.URL + "/snapshot")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	var f Frame
	if err := json.NewDecoder(resp.Body).Decode(&f); err != nil {
		t.Fatal(err)
	}
	if f.Rows != 8 || f.Cols != 8 || len(f.Cells) != 0 {
		t.Fatalf("unexpected snapshot %+v", f)
	}

	resp, err = http.Get(ts.URL + "/snapshot.png")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	img, err := png.Decode(resp.Body)
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 16 || b.Dy() != 16 {
		t.Fatalf("png bounds %v, want 16x16", b)
	}
}

func TestHealthz(t *testing.T) {
	ts, _ := startServer(t, Options{TPS: 60})
	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || strings.TrimSpace(string(body)) != "ok" {
		t.Fatalf("healthz: %d %q", resp.StatusCode, body)
	}
}

func TestRejectsClientsBeyondLimit(t *testing.T) {
	ts, _ := startServer(t, Options{TPS: 60, MaxClients: 1})
	dial(t, ts)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err == nil {
		t.Fatal("second client should be rejected")
	}
	if resp == nil || resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %v", resp)
	}
}

func dialFrom(ts *httptest.Server, origin string) (*websocket.Conn, *http.Response, error) {
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	header := http.Header{}
	if origin != "" {
		header.Set("Origin", origin)
	}
	return websocket.DefaultDialer.Dial(url, header)
}

func TestIndexServesClient(t *testing.T) {
	ts, _ := startServer(t, Options{CellSize: 6, TPS: 60})
	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || !strings.HasPrefix(resp.Header.Get("Content-Type"), "text/html") {
		t.Fatalf("index: %d %s", resp.StatusCode, resp.Header.Get("Content-Type"))
	}
	page := string(body)
	if !strings.Contains(page, `"/ws"`) || !regexp.MustCompile(`const cell =\s*6\s*;`).MatchString(page) {
		t.Fatalf("index page missing websocket wiring:\n%s", page)
	}
}

func TestOriginChecks(t *testing.T) {
	ts, _ := startServer(t, Options{TPS: 60})

	conn, _, err := dialFrom(ts, ts.URL)
	if err != nil {
		t.Fatalf("same-origin client rejected: %v", err)
	}
	conn.Close()

	_, resp, err := dialFrom(ts, "http://elsewhere.example")
	if err == nil {
		t.Fatal("foreign origin should be rejected by default")
	}
	if resp == nil || resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %v", resp)
	}

	allowed, _ := startServer(t, Options{TPS: 60, Origins: []string{"http://elsewhere.example"}})
	conn, _, err = dialFrom(allowed, "http://elsewhere.example")
	if err != nil {
		t.Fatalf("listed origin rejected: %v", err)
	}
	conn.Close()
}
