package coordinator

import (
	"context"

	"github.com/cascade-live/cascade/pkg/config"
	"github.com/cascade-live/cascade/pkg/logger"
	"github.com/cascade-live/cascade/pkg/monitoring"
	"github.com/cascade-live/cascade/pkg/network/httpx"
	"github.com/cascade-live/cascade/pkg/service"
	"github.com/goccy/go-json"
)

type Coordinator struct {
	hub      *Hub
	services service.Group
	log      *logger.Logger
}

// New makes a coordinator. When one of the config dirs has a config file,
// the file is watched and its ICE servers are applied to new sessions.
func New(conf config.CoordinatorConfig, dirs []string, log *logger.Logger) (*Coordinator, error) {
	hub := NewHub(conf, log)
	srv, err := NewHTTPServer(conf, hub, log)
	if err != nil {
		hub.Close()
		return nil, err
	}
	c := &Coordinator{hub: hub, log: log}
	c.services.Add(srv)
	if file, ok := config.File(dirs); ok {
		w, err := config.NewWatcher(file, hub.Reload, log)
		if err != nil {
			hub.Close()
			return nil, err
		}
		c.services.Add(w)
	}
	if conf.Coordinator.Monitoring.IsEnabled() {
		c.services.Add(monitoring.New(conf.Coordinator.Monitoring, "", log))
	}
	return c, nil
}

func (c *Coordinator) Start() { c.services.Start() }

func (c *Coordinator) Shutdown(ctx context.Context) error {
	err := c.services.Shutdown(ctx)
	c.hub.Close()
	return err
}

func NewHTTPServer(conf config.CoordinatorConfig, hub *Hub, log *logger.Logger) (*httpx.Server, error) {
	return httpx.NewServer(
		conf.Coordinator.Server.GetAddr(),
		func(*httpx.Server) httpx.Handler { return hub.routes() },
		httpx.WithServerConfig(conf.Coordinator.Server),
		httpx.WithLogger(log),
	)
}

func (h *Hub) routes() httpx.Handler {
	mux := httpx.NewServeMux()
	mux.HandleFunc("/ws", h.handleWebsocketUserConnection)
	mux.HandleFunc("/tree", h.handleTree)
	mux.HandleFunc("/healthz", func(w httpx.ResponseWriter, _ *httpx.Request) { _, _ = w.Write([]byte("ok")) })
	return mux
}

func (h *Hub) handleTree(w httpx.ResponseWriter, _ *httpx.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(h.Snapshot()); err != nil {
		h.log.Warn().Err(err).Msg("couldn't send the tree")
	}
}
