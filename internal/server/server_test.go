package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/DeltaFoundry/TouchRelay/internal/command"
)

// recordingInjector captures dispatched calls as readable strings.
type recordingInjector struct {
	calls chan string
}

func newRecordingInjector() *recordingInjector {
	return &recordingInjector{calls: make(chan string, 32)}
}

func (r *recordingInjector) MouseMove(dx, dy int) error {
	r.calls <- "move"
	return nil
}

func (r *recordingInjector) Scroll(direction int) error {
	if direction > 0 {
		r.calls <- "scroll up"
	} else {
		r.calls <- "scroll down"
	}
	return nil
}

func (r *recordingInjector) Click(button command.Button, count int) error {
	r.calls <- "click " + button.String()
	return nil
}

func (r *recordingInjector) TypeText(text string) error {
	r.calls <- "text " + text
	return nil
}

func (r *recordingInjector) PressKey(name string) error {
	r.calls <- "key " + name
	return nil
}

func (r *recordingInjector) next(t *testing.T) string {
	t.Helper()
	select {
	case call := <-r.calls:
		return call
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for injector call")
		return ""
	}
}

func dialTestServer(t *testing.T) (*websocket.Conn, *recordingInjector) {
	t.Helper()
	inj := newRecordingInjector()
	s := New("", inj, zerolog.Nop())

	srv := httptest.NewServer(http.HandlerFunc(s.handleWebSocket))
	t.Cleanup(srv.Close)

	endpoint := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(endpoint, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn, inj
}

func send(t *testing.T, conn *websocket.Conn, msg string) {
	t.Helper()
	if err := conn.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
		t.Fatalf("write %s: %v", msg, err)
	}
}

func TestDispatchesCommands(t *testing.T) {
	conn, inj := dialTestServer(t)

	send(t, conn, `["m",3,4]`)
	send(t, conn, `["w",-1]`)
	send(t, conn, `["b","r",1]`)
	send(t, conn, `["t","hello"]`)
	send(t, conn, `["k","Escape"]`)

	want := []string{"move", "scroll down", "click r", "text hello", "key Escape"}
	for _, w := range want {
		if got := inj.next(t); got != w {
			t.Errorf("got %q, want %q", got, w)
		}
	}
}

func TestDoubleClickInjectsTwoClicks(t *testing.T) {
	conn, inj := dialTestServer(t)

	send(t, conn, `["b","l",2]`)

	if got := inj.next(t); got != "click l" {
		t.Fatalf("got %q", got)
	}
	if got := inj.next(t); got != "click l" {
		t.Fatalf("got %q", got)
	}
}

func TestMalformedMessagesAreSkipped(t *testing.T) {
	conn, inj := dialTestServer(t)

	send(t, conn, `["z",1]`)
	send(t, conn, `not json`)
	send(t, conn, `["ping"]`)
	send(t, conn, `["m",1,1]`)

	// Only the valid move reaches the injector; the connection survives
	// the garbage before it.
	if got := inj.next(t); got != "move" {
		t.Errorf("got %q, want move", got)
	}
	select {
	case extra := <-inj.calls:
		t.Errorf("unexpected extra call %q", extra)
	case <-time.After(100 * time.Millisecond):
	}
}
