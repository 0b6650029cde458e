package web

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/lixenwraith/flowmosaic/engine"
	"github.com/lixenwraith/flowmosaic/noise"
	"github.com/lixenwraith/flowmosaic/render"
)

func testServer(t *testing.T, newSource func() (noise.Source, error)) *httptest.Server {
	t.Helper()
	cfg := engine.DefaultConfig()
	cfg.FrameRate = 120
	srv := NewServer(Options{
		Engine:    cfg,
		NewSource: newSource,
		Logger:    zerolog.Nop(),
	})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func constantSource() (noise.Source, error) {
	return noise.Constant(0), nil
}

func TestIndexServesCanvas(t *testing.T) {
	ts := testServer(t, constantSource)

	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	if !strings.Contains(resp.Header.Get("Content-Type"), "text/html") {
		t.Errorf("Expected html content type, got %q", resp.Header.Get("Content-Type"))
	}
	if !strings.Contains(string(body), "<canvas") {
		t.Error("Expected page to contain a canvas")
	}
}

func TestWebsocketStreamsFrames(t *testing.T) {
	ts := testServer(t, constantSource)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	defer ws.Close()

	if err := ws.WriteJSON(ClientMessage{Type: TypeResize, Width: 80, Height: 40}); err != nil {
		t.Fatalf("Resize failed: %v", err)
	}

	deadline := time.Now().Add(5 * time.Second)
	_ = ws.SetReadDeadline(deadline)
	var frame Frame
	for {
		if err := ws.ReadJSON(&frame); err != nil {
			t.Fatalf("Read failed: %v", err)
		}
		if frame.Width == 80 && frame.Height == 40 && len(frame.Tiles) > 0 {
			break
		}
	}

	// Constant zero noise gives zero-length cells, which map to plain paper
	color := fillStyle(render.DefaultPalette.Paper.WithAlpha(render.DefaultAlpha))
	want := []Tile{
		{X: 0, Y: 0, W: 40, H: 40, Color: color},
		{X: 40, Y: 0, W: 40, H: 40, Color: color},
	}
	if diff := cmp.Diff(want, frame.Tiles); diff != "" {
		t.Errorf("Frame tiles mismatch (-want +got):\n%s", diff)
	}
	if frame.Type != TypeFrame {
		t.Errorf("Expected type %q, got %q", TypeFrame, frame.Type)
	}

	if err := ws.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
}

func TestWebsocketSourceFailure(t *testing.T) {
	ts := testServer(t, func() (noise.Source, error) {
		return nil, io.ErrUnexpectedEOF
	})

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err == nil {
		t.Fatal("Expected dial to fail")
	}
	if resp == nil || resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("Expected 500 response, got %v", resp)
	}
}

func TestFrameSurfaceLatestWins(t *testing.T) {
	s := newFrameSurface()
	s.Resize(10, 10)
	s.FillRect(0, 0, 5, 5, render.RGB{R: 1}.WithAlpha(1))
	s.Present()
	s.FillRect(5, 5, 5, 5, render.RGB{R: 2}.WithAlpha(1))
	s.Present()

	frame := <-s.Frames()
	if len(frame.Tiles) != 2 {
		t.Fatalf("Expected latest frame with 2 tiles, got %d", len(frame.Tiles))
	}
	select {
	case <-s.Frames():
		t.Error("Expected stale frame to be dropped")
	default:
	}

	s.Clear(0, 0, 5, 5)
	if len(s.tiles) != 1 || s.tiles[0].X != 5 {
		t.Errorf("Expected partial clear to keep the outer tile, got %+v", s.tiles)
	}
	s.Clear(0, 0, 10, 10)
	if len(s.tiles) != 0 {
		t.Errorf("Expected full clear, got %d tiles", len(s.tiles))
	}
}

func TestFillStyle(t *testing.T) {
	got := fillStyle(render.RGB{R: 200, G: 138, B: 154}.WithAlpha(0.95))
	if got != "rgba(200,138,154,0.950)" {
		t.Errorf("Expected rgba(200,138,154,0.950), got %s", got)
	}
}

func TestClampSide(t *testing.T) {
	tests := []struct{ in, want int }{
		{-5, 0}, {0, 0}, {640, 640}, {maxCanvasSide + 1, maxCanvasSide},
	}
	for _, tt := range tests {
		if got := clampSide(tt.in); got != tt.want {
			t.Errorf("clampSide(%d): Expected %d, got %d", tt.in, tt.want, got)
		}
	}
}
