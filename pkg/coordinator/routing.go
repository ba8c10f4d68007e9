package coordinator

import (
	"errors"
	"time"

	"github.com/cascade-live/cascade/pkg/api"
	"github.com/cascade-live/cascade/pkg/com"
	"github.com/cascade-live/cascade/pkg/tree"
	"github.com/goccy/go-json"
)

// BecomeHost clears the tree and makes the session its root.
func (h *Hub) BecomeHost(s *Session) {
	h.mu.Lock()
	if !h.crowd.Has(s.Id()) {
		h.mu.Unlock()
		s.log.Debug().Msg("host request from a gone session")
		return
	}
	old, hadRoot := h.tree.Root()
	h.tree.Reset(s.Id(), s.Num())
	h.check()
	h.mu.Unlock()

	ev := s.log.Info()
	if hadRoot && old != s.Id() {
		ev = ev.Str("replaced", old.Short())
	}
	ev.Msg("New host")
	s.Notify(api.Host, nil)
	h.caster.Publish()
}

// Offer forwards the session description to a parent chosen by the selector.
// Without a free parent the offer is dropped and the client should retry.
func (h *Hub) Offer(s *Session, sdp json.RawMessage) {
	if api.IsEmptyJSON(sdp) {
		offersTotal.WithLabelValues(resultEmpty).Inc()
		s.log.Warn().Msg("empty offer")
		return
	}
	if d := h.jitter(); d > 0 {
		time.AfterFunc(d, func() {
			defer s.recovered("delayed offer")
			h.routeOffer(s, sdp)
		})
		return
	}
	h.routeOffer(s, sdp)
}

func (h *Hub) routeOffer(s *Session, sdp json.RawMessage) {
	h.mu.Lock()
	if !h.crowd.Has(s.Id()) {
		h.mu.Unlock()
		offersTotal.WithLabelValues(resultDropped).Inc()
		s.log.Debug().Msg("offer from a gone session")
		return
	}
	parent, ok := h.tree.Select(s.Id(), h.policy)
	h.mu.Unlock()

	if !ok {
		offersTotal.WithLabelValues(resultDropped).Inc()
		s.log.Debug().Msg("no free parent, offer dropped")
		return
	}
	if !h.SendTo(parent, api.Offer, api.SignalResponse{Id: s.Id().String(), Num: s.Num(), Sdp: sdp}) {
		offersTotal.WithLabelValues(resultDropped).Inc()
		return
	}
	offersTotal.WithLabelValues(resultRouted).Inc()
	s.log.Debug().Str("parent", parent.Short()).Msg("offer routed")
}

// Answer commits the edge between the session (parent) and the target (child)
// and then forwards the answer to the target.
// A rejected edge drops the answer and asks the target to offer again.
func (h *Hub) Answer(s *Session, target com.Uid, sdp json.RawMessage) {
	if api.IsEmptyJSON(sdp) {
		answersTotal.WithLabelValues(resultEmpty).Inc()
		s.log.Warn().Msg("empty answer")
		return
	}

	h.mu.Lock()
	child, ok := h.crowd.Lookup(target)
	if !ok {
		h.mu.Unlock()
		answersTotal.WithLabelValues(resultUnknown).Inc()
		s.log.Debug().Str("target", target.Short()).Msg("answer to a gone session")
		return
	}
	was, moved := h.tree.Parent(target)
	err := h.tree.Attach(target, child.Num(), s.Id())
	kids := h.tree.ChildCount(s.Id())
	h.check()
	h.mu.Unlock()

	if err != nil {
		answersTotal.WithLabelValues(resultRejected).Inc()
		ev := s.log.Warn()
		if errors.Is(err, tree.ErrInvariant) {
			ev = s.log.Error()
		}
		ev.Err(err).Str("child", target.Short()).Msg("edge rejected")
		child.Notify(api.ReOffer, nil)
		return
	}

	answersTotal.WithLabelValues(resultAttached).Inc()
	ev := s.log.Info().Str("child", target.Short()).Int("children", kids)
	if moved && was != s.Id() {
		ev = ev.Str("from", was.Short())
	}
	ev.Msg("attached")
	child.Notify(api.Answer, api.SignalResponse{Id: s.Id().String(), Num: s.Num(), Sdp: sdp})
	h.caster.Publish()
}

// Candidate relays an ICE candidate to the named session only.
func (h *Hub) Candidate(s *Session, target com.Uid, candidate json.RawMessage) {
	if api.IsEmptyJSON(candidate) {
		candidatesTotal.WithLabelValues(resultEmpty).Inc()
		return
	}
	if !h.SendTo(target, api.Candidate, api.CandidateResponse{Id: s.Id().String(), Candidate: candidate}) {
		candidatesTotal.WithLabelValues(resultUnknown).Inc()
		return
	}
	candidatesTotal.WithLabelValues(resultRouted).Inc()
}
