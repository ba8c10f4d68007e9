package websocket

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/cascade-live/cascade/pkg/logger"
)

func echoServer(t *testing.T, u *Upgrader) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := u.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		ws := NewServerWithConn(conn, logger.Nop())
		ws.OnMessage = func(message []byte, err error) {
			if err == nil {
				_ = ws.Write(message)
			}
		}
		<-ws.Listen()
	}))
}

func wsURL(t *testing.T, srv *httptest.Server) url.URL {
	u, err := url.Parse("ws" + strings.TrimPrefix(srv.URL, "http"))
	if err != nil {
		t.Fatal(err)
	}
	return *u
}

func TestEcho(t *testing.T) {
	srv := echoServer(t, &DefaultUpgrader)
	defer srv.Close()

	client, err := NewClient(wsURL(t, srv), logger.Nop())
	if err != nil {
		t.Fatalf("couldn't connect: %v", err)
	}
	got := make(chan string, 1)
	client.OnMessage = func(message []byte, err error) { got <- string(message) }
	done := client.Listen()

	if err = client.Write([]byte("hello")); err != nil {
		t.Fatal(err)
	}
	select {
	case m := <-got:
		if m != "hello" {
			t.Errorf("got %v", m)
		}
	case <-time.After(3 * time.Second):
		t.Fatalf("no echo")
	}

	client.Close()
	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatalf("pumps didn't stop")
	}
	if err = client.Write([]byte("late")); err != ErrClosed {
		t.Errorf("expected ErrClosed, got %v", err)
	}
}

func TestSlowPeer(t *testing.T) {
	ws := newSocket(nil, false, logger.Nop())
	for range sendQueue {
		if err := ws.Write([]byte("x")); err != nil {
			t.Fatalf("unexpected error %v", err)
		}
	}
	if err := ws.Write([]byte("x")); err != ErrSlow {
		t.Errorf("expected ErrSlow, got %v", err)
	}
	if err := ws.Write([]byte("x")); err != ErrClosed {
		t.Errorf("expected ErrClosed, got %v", err)
	}
}

func TestOrigin(t *testing.T) {
	srv := echoServer(t, NewUpgrader("https://cascade.example"))
	defer srv.Close()

	if _, err := NewClient(wsURL(t, srv), logger.Nop()); err == nil {
		t.Errorf("foreign origin should be rejected")
	}
}
