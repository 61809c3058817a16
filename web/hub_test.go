package web

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/gorilla/websocket"
)

func TestWebsocketReceivesBroadcast(t *testing.T) {
	srv := NewServer()
	go srv.Hub.Run()
	ts := httptest.NewServer(srv.Router(""))
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", wsURL, err)
	}
	defer conn.Close()

	// Let the hub process the registration before anything is broadcast.
	time.Sleep(100 * time.Millisecond)

	rec := postCalibrate(t, srv.Router(""), syntheticIGC(90, 50), syntheticIGC(90, 0), nil)
	if rec.Code != 200 {
		t.Fatalf("calibrate status = %d", rec.Code)
	}

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read broadcast: %v", err)
	}
	var resp Response
	if err := json.Unmarshal(msg, &resp); err != nil {
		t.Fatalf("decode broadcast: %v", err)
	}
	if resp.Track1 != "one.igc" || len(resp.Series) != 90 {
		t.Fatalf("broadcast payload %q with %d points", resp.Track1, len(resp.Series))
	}
}
