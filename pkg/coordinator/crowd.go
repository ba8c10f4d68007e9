package coordinator

import "github.com/cascade-live/cascade/pkg/com"

// Crowd denotes some abstraction over list of eager people.
type Crowd struct {
	com.NetMap[com.Uid, *Session]
}

func NewCrowd() Crowd { return Crowd{NetMap: com.NewNetMap[com.Uid, *Session]()} }

func (c *Crowd) Lookup(id com.Uid) (*Session, bool) {
	s, err := c.Find(id)
	return s, err == nil
}
