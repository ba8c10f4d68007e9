package coordinator

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	resultRouted    = "routed"
	resultDropped   = "dropped"
	resultEmpty     = "empty"
	resultAttached  = "attached"
	resultRejected  = "rejected"
	resultUnknown   = "unknown"
	resultMalformed = "malformed"
)

var (
	sessionsGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "cascade_sessions",
		Help: "Number of connected sessions.",
	})
	treeNodesGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "cascade_tree_nodes",
		Help: "Number of sessions attached to the tree.",
	})
	offersTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cascade_offers_total",
		Help: "Offers by the routing result.",
	}, []string{"result"})
	answersTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cascade_answers_total",
		Help: "Answers by the routing result.",
	}, []string{"result"})
	candidatesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cascade_candidates_total",
		Help: "ICE candidates by the routing result.",
	}, []string{"result"})
	disconnectsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cascade_disconnects_total",
		Help: "Processed session disconnects.",
	})
	broadcastsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cascade_tree_broadcasts_total",
		Help: "Tree snapshot broadcasts.",
	})
)
