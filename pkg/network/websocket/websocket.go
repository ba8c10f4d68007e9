package websocket

import (
	"errors"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/cascade-live/cascade/pkg/logger"
	"github.com/gorilla/websocket"
)

const (
	maxMessageSize = 64 * 1024
	pingTime       = pongTime * 9 / 10
	pongTime       = 60 * time.Second
	writeWait      = 10 * time.Second
	sendQueue      = 64
)

var (
	ErrClosed = errors.New("connection closed")
	ErrSlow   = errors.New("send queue is full")
)

type WS struct {
	conn deadlinedConn
	send chan []byte

	OnMessage MessageHandler

	pingPong bool
	log      *logger.Logger

	once   sync.Once
	closed chan struct{}
	Done   chan struct{}
}

type MessageHandler func(message []byte, err error)

type Upgrader struct {
	websocket.Upgrader
}

var DefaultUpgrader = Upgrader{
	Upgrader: websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		WriteBufferPool: &sync.Pool{},
		CheckOrigin:     func(r *http.Request) bool { return true },
	},
}

// NewUpgrader creates an upgrader that accepts only the specified origin,
// an empty origin value allows any.
func NewUpgrader(origin string) *Upgrader {
	u := DefaultUpgrader
	if origin == "" {
		return &u
	}
	u.CheckOrigin = func(r *http.Request) bool { return r.Header.Get("Origin") == origin }
	return &u
}

// NewServerWithConn wraps an upgraded connection from the server side,
// such connections ping the other side to detect dead peers.
func NewServerWithConn(conn *websocket.Conn, log *logger.Logger) *WS {
	return newSocket(conn, true, log)
}

func NewClient(address url.URL, log *logger.Logger) (*WS, error) {
	conn, _, err := websocket.DefaultDialer.Dial(address.String(), nil)
	if err != nil {
		return nil, err
	}
	return newSocket(conn, false, log), nil
}

func newSocket(conn *websocket.Conn, pingPong bool, log *logger.Logger) *WS {
	if log == nil {
		log = logger.Default()
	}
	return &WS{
		conn:      deadlinedConn{sock: conn, wt: writeWait},
		send:      make(chan []byte, sendQueue),
		OnMessage: func([]byte, error) {},
		pingPong:  pingPong,
		log:       log,
		closed:    make(chan struct{}),
		Done:      make(chan struct{}),
	}
}

// Listen starts the reader and writer pumps.
// Returns a channel that will be closed when both pumps are stopped.
func (ws *WS) Listen() chan struct{} {
	var wg sync.WaitGroup
	wg.Add(2)
	go func() { defer wg.Done(); ws.reader() }()
	go func() { defer wg.Done(); ws.writer() }()
	go func() {
		wg.Wait()
		_ = ws.conn.close()
		close(ws.Done)
	}()
	return ws.Done
}

// reader pumps messages from the websocket connection to the OnMessage callback.
// Blocking, must be called as goroutine. Serializes all websocket reads.
func (ws *WS) reader() {
	defer ws.Close()
	ws.conn.setup(func(conn *websocket.Conn) {
		conn.SetReadLimit(maxMessageSize)
		if ws.pingPong {
			_ = conn.SetReadDeadline(time.Now().Add(pongTime))
			conn.SetPongHandler(func(string) error { return conn.SetReadDeadline(time.Now().Add(pongTime)) })
		}
	})
	for {
		message, err := ws.conn.read()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				ws.log.Warn().Err(err).Msg("WebSocket read fail")
			}
			return
		}
		ws.OnMessage(message, nil)
	}
}

// writer pumps messages from the send channel to the websocket connection.
// Blocking, must be called as goroutine. Serializes all websocket writes.
func (ws *WS) writer() {
	var ping <-chan time.Time
	if ws.pingPong {
		ticker := time.NewTicker(pingTime)
		defer ticker.Stop()
		ping = ticker.C
	}
	defer ws.Close()
	for {
		select {
		case message := <-ws.send:
			if err := ws.conn.write(websocket.TextMessage, message); err != nil {
				ws.log.Warn().Err(err).Msg("WebSocket write fail")
				return
			}
		case <-ping:
			if err := ws.conn.write(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-ws.closed:
			_ = ws.conn.write(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			// unblock the reader
			_ = ws.conn.close()
			return
		}
	}
}

// Write queues a message without waiting for the network.
// A peer that can't keep up with the queue is treated as gone.
func (ws *WS) Write(data []byte) error {
	select {
	case <-ws.closed:
		return ErrClosed
	default:
	}
	select {
	case ws.send <- data:
		return nil
	default:
		ws.Close()
		return ErrSlow
	}
}

func (ws *WS) Close() { ws.once.Do(func() { close(ws.closed) }) }
