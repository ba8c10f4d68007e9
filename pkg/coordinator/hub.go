package coordinator

import (
	"math/rand/v2"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cascade-live/cascade/pkg/api"
	"github.com/cascade-live/cascade/pkg/com"
	"github.com/cascade-live/cascade/pkg/config"
	"github.com/cascade-live/cascade/pkg/logger"
	"github.com/cascade-live/cascade/pkg/tree"
	"github.com/pion/webrtc/v4"
)

// Hub owns the connection registry and the relay tree.
type Hub struct {
	conf     config.CoordinatorConfig
	crowd    Crowd
	caster   *Broadcaster
	policy   tree.Policy
	rootLoss string
	log      *logger.Logger

	// mu serializes all tree and registry mutations
	mu   sync.Mutex
	tree *tree.Tree[com.Uid]
	// reloadable, guarded by mu
	connector *com.Connector
	ice       []webrtc.ICEServer

	seq    atomic.Int64
	jitter func() time.Duration
}

func NewHub(conf config.CoordinatorConfig, log *logger.Logger) *Hub {
	policy, err := tree.ParsePolicy(conf.Tree.Selector)
	if err != nil {
		log.Warn().Err(err).Msgf("using %v selector", tree.Fullest)
		policy = tree.Fullest
	}

	h := &Hub{
		conf:      conf,
		connector: newConnector(conf),
		crowd:     NewCrowd(),
		ice:       conf.Webrtc.ICEServers(),
		policy:    policy,
		rootLoss:  conf.Tree.RootLoss,
		log:       log,
		tree:      tree.New[com.Uid](conf.Tree.FanOut),
	}
	h.jitter = func() time.Duration {
		if limit := conf.Tree.Jitter; limit > 0 {
			return rand.N(limit)
		}
		return 0
	}
	h.caster = NewBroadcaster(h.publish, conf.Tree.Debounce)
	log.Info().Int("fanout", h.tree.Limit()).Str("selector", string(policy)).Str("rootloss", h.rootLoss).Msg("Tree")
	return h
}

func newConnector(conf config.CoordinatorConfig) *com.Connector {
	var opts []com.Option
	if conf.Coordinator.Origin.UserWs != "" {
		opts = append(opts, com.WithOrigin(conf.Coordinator.Origin.UserWs))
	}
	return com.NewConnector(opts...)
}

// Reload applies the parts of the config that can change at runtime:
// ICE servers for new sessions and the allowed websocket origin.
// The tree settings stay as they were at the start.
func (h *Hub) Reload(conf config.CoordinatorConfig) {
	ice, connector := conf.Webrtc.ICEServers(), newConnector(conf)
	h.mu.Lock()
	h.ice, h.connector = ice, connector
	h.mu.Unlock()
	h.log.Info().Int("ice", len(ice)).Str("origin", conf.Coordinator.Origin.UserWs).Msg("Config reloaded")
}

// Connect registers a new session, the very first one becomes the host.
func (h *Hub) Connect(conn Conn) *Session {
	num := int(h.seq.Add(1))

	h.mu.Lock()
	s := newSession(conn, num, h.crowd.IsEmpty(), h.log)
	h.crowd.Add(s)
	ice := h.ice
	h.mu.Unlock()
	sessionsGauge.Set(float64(h.crowd.Len()))

	s.log.Info().Bool("host", s.IsHost()).Msg("Connected")
	s.Notify(api.NumberId, s.Num())
	s.Notify(api.InitSession, api.InitSessionResponse{Ice: ice})
	h.caster.Publish()
	return s
}

func (h *Hub) Lookup(id com.Uid) (*Session, bool) { return h.crowd.Lookup(id) }

// Broadcast sends the packet to every registered session.
func (h *Hub) Broadcast(t api.PT, data any) {
	for _, s := range h.crowd.Values() {
		s.Notify(t, data)
	}
}

// SendTo sends the packet to one session, unknown sessions are ignored.
func (h *Hub) SendTo(id com.Uid, t api.PT, data any) bool {
	s, ok := h.crowd.Lookup(id)
	if !ok {
		h.log.Debug().Str("id", id.Short()).Msgf("%v to a gone session", t)
		return false
	}
	s.Notify(t, data)
	return true
}

// Role returns the current role of the session in the tree.
func (h *Hub) Role(id com.Uid) tree.Role {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.tree.Role(id)
}

// Snapshot returns a copy of the current tree.
func (h *Hub) Snapshot() []tree.Node[com.Uid] {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.tree.Snapshot()
}

func (h *Hub) Close() { h.caster.Close() }

func (h *Hub) publish() {
	nodes := h.Snapshot()
	treeNodesGauge.Set(float64(tree.Count(nodes)))
	broadcastsTotal.Inc()
	h.Broadcast(api.Tree, nodes)
}

// check verifies the tree in debug mode, must be called under the lock.
func (h *Hub) check() {
	if !h.conf.Coordinator.Debug {
		return
	}
	if err := h.tree.Check(); err != nil {
		h.log.Error().Err(err).Msg("broken tree")
	}
}

// handleWebsocketUserConnection handles all connections from browsers.
func (h *Hub) handleWebsocketUserConnection(w http.ResponseWriter, r *http.Request) {
	defer func() {
		if err := recover(); err != nil {
			h.log.Error().Msgf("something wrong, recovered in %v", err)
		}
	}()

	h.mu.Lock()
	connector := h.connector
	h.mu.Unlock()

	conn, err := connector.NewServer(w, r, h.log)
	if err != nil {
		h.log.Error().Err(err).Msg("couldn't init user connection")
		return
	}
	s := h.Connect(conn)
	conn.OnPacket(func(in api.In) { h.handle(s, in) })
	<-conn.Listen()
	h.Disconnect(s.Id())
}

// recovered logs a panic of a session handler instead of crashing the process.
func (s *Session) recovered(what any) {
	if err := recover(); err != nil {
		s.log.Error().Msgf("%v has failed, recovered in %v", what, err)
	}
}

func (h *Hub) handle(s *Session, in api.In) {
	defer s.recovered(in.T)

	switch in.T {
	case api.Host:
		h.BecomeHost(s)
	case api.Offer:
		h.Offer(s, in.Payload)
	case api.Answer:
		rq, err := api.UnwrapChecked[api.AnswerRequest](in.Payload)
		if err != nil {
			answersTotal.WithLabelValues(resultMalformed).Inc()
			s.log.Warn().Err(err).Msg("malformed answer")
			return
		}
		target, err := com.UidFromString(rq.Id)
		if err != nil {
			answersTotal.WithLabelValues(resultMalformed).Inc()
			s.log.Warn().Err(err).Msg("malformed answer target")
			return
		}
		h.Answer(s, target, rq.Sdp)
	case api.Candidate:
		rq, err := api.UnwrapChecked[api.CandidateRequest](in.Payload)
		if err != nil {
			candidatesTotal.WithLabelValues(resultMalformed).Inc()
			s.log.Warn().Err(err).Msg("malformed candidate")
			return
		}
		target, err := com.UidFromString(rq.Id)
		if err != nil {
			candidatesTotal.WithLabelValues(resultMalformed).Inc()
			s.log.Warn().Err(err).Msg("malformed candidate target")
			return
		}
		h.Candidate(s, target, rq.Candidate)
	default:
		s.log.Warn().Msgf("unexpected packet %v", in.T)
	}
}
