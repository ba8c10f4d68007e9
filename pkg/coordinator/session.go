package coordinator

import (
	"fmt"

	"github.com/cascade-live/cascade/pkg/api"
	"github.com/cascade-live/cascade/pkg/com"
	"github.com/cascade-live/cascade/pkg/logger"
)

// Conn is a transport connection of one client.
type Conn interface {
	Id() com.Uid
	Notify(t api.PT, data any)
	Disconnect()
}

// Session is a connected client.
type Session struct {
	Conn

	num  int
	host bool
	log  *logger.Logger
}

func newSession(conn Conn, num int, host bool, log *logger.Logger) *Session {
	return &Session{
		Conn: conn,
		num:  num,
		host: host,
		log:  log.Extend(log.With().Str(logger.ClientField, conn.Id().Short()).Int("num", num)),
	}
}

// Num is the display id of the session.
func (s *Session) Num() int { return s.num }

// IsHost tells if the session was the first one admitted.
func (s *Session) IsHost() bool { return s.host }

func (s *Session) String() string { return fmt.Sprintf("%v(%d)", s.Id().Short(), s.num) }
