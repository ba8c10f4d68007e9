package coordinator

import (
	"github.com/cascade-live/cascade/pkg/api"
	"github.com/cascade-live/cascade/pkg/com"
	"github.com/cascade-live/cascade/pkg/config"
)

// Disconnect removes the session from the registry and the tree
// and asks the affected neighbours to repair their links.
// Returns the removed session, repeated calls with the same id do nothing
// and report false.
func (h *Hub) Disconnect(id com.Uid) (*Session, bool) {
	h.mu.Lock()
	s, err := h.crowd.Pop(id)
	if err != nil {
		h.mu.Unlock()
		h.log.Debug().Str("id", id.Short()).Msg("already disconnected")
		return nil, false
	}
	d, inTree := h.tree.Detach(id)
	left := h.tree.Len()
	h.check()
	h.mu.Unlock()

	s.Disconnect()
	disconnectsTotal.Inc()
	sessionsGauge.Set(float64(h.crowd.Len()))

	if inTree {
		if d.HasParent {
			h.SendTo(d.Parent, api.ChildDisconnected, api.ChildDisconnectedResponse{Id: id.String()})
		}
		orphans := d.Children
		if d.WasRoot && h.rootLoss == config.RootLossAll {
			orphans = d.Orphans
		}
		for _, o := range orphans {
			h.SendTo(o, api.ReOffer, nil)
		}
		s.log.Info().Bool("root", d.WasRoot).Int("orphans", len(orphans)).Int("tree", left).Msg("Disconnected")
	} else {
		s.log.Info().Msg("Disconnected")
	}
	h.caster.Publish()
	return s, true
}
