package com

import (
	"net/http"
	"net/url"

	"github.com/cascade-live/cascade/pkg/api"
	"github.com/cascade-live/cascade/pkg/logger"
	"github.com/cascade-live/cascade/pkg/network/websocket"
)

type (
	Connector struct {
		wu *websocket.Upgrader
	}
	Option = func(c *Connector)
)

func WithOrigin(url string) Option { return func(c *Connector) { c.wu = websocket.NewUpgrader(url) } }

func NewConnector(opts ...Option) *Connector {
	c := &Connector{}
	for _, opt := range opts {
		opt(c)
	}
	if c.wu == nil {
		c.wu = &websocket.DefaultUpgrader
	}
	return c
}

// NewServer upgrades an HTTP request into a packet socket with a new id.
func (co *Connector) NewServer(w http.ResponseWriter, r *http.Request, log *logger.Logger) (*SocketClient, error) {
	ws, err := co.wu.Upgrade(w, r, nil)
	if err != nil {
		return nil, err
	}
	id := NewUid()
	l := log.Extend(log.With().Str("cid", id.Short()))
	return &SocketClient{id: id, sock: websocket.NewServerWithConn(ws, l), log: l}, nil
}

// NewClient dials a packet socket at the address.
func NewClient(address url.URL, log *logger.Logger) (*SocketClient, error) {
	id := NewUid()
	l := log.Extend(log.With().Str("cid", id.Short()))
	ws, err := websocket.NewClient(address, l)
	if err != nil {
		return nil, err
	}
	return &SocketClient{id: id, sock: ws, log: l}, nil
}

// SocketClient exchanges api packets over a websocket connection.
type SocketClient struct {
	id   Uid
	sock *websocket.WS
	log  *logger.Logger // a special logger for showing x -> y directions
}

func (c *SocketClient) OnPacket(fn func(in api.In)) {
	c.sock.OnMessage = func(message []byte, err error) {
		if err != nil {
			c.log.Error().Err(err).Send()
			return
		}
		in, err := api.Decode(message)
		if err != nil {
			c.log.Warn().Err(err).Msg("malformed packet")
			return
		}
		c.log.Debug().Str(logger.DirectionField, "←").Msgf("%v", in.T)
		fn(in)
	}
}

// Notify just sends a message and goes further.
func (c *SocketClient) Notify(t api.PT, data any) {
	c.log.Debug().Str(logger.DirectionField, "→").Msgf("%v", t)
	b, err := api.Encode(api.Out{T: t, Payload: data})
	if err != nil {
		c.log.Error().Err(err).Msgf("couldn't encode %v", t)
		return
	}
	if err = c.sock.Write(b); err != nil {
		c.log.Warn().Err(err).Msgf("%v was not sent", t)
	}
}

func (c *SocketClient) Disconnect() {
	c.sock.Close()
	c.log.Debug().Str(logger.DirectionField, "x").Msg("Close")
}

func (c *SocketClient) Id() Uid               { return c.id }
func (c *SocketClient) Listen() chan struct{} { return c.sock.Listen() }
func (c *SocketClient) String() string        { return c.Id().String() }
