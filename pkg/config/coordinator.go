package config

import (
	"fmt"
	"time"

	"github.com/cascade-live/cascade/pkg/tree"
	"github.com/spf13/pflag"
)

type CoordinatorConfig struct {
	Coordinator Coordinator
	Tree        Tree
	Webrtc      Webrtc
}

type Coordinator struct {
	Debug bool
	// Lock is an optional lock file which prevents running two coordinators at once.
	Lock       string
	Monitoring Monitoring
	Origin     struct {
		UserWs string
	}
	Server Server
}

type Tree struct {
	// FanOut is the max number of children of a node.
	FanOut int `default:"2"`
	// Selector is one of: fullest, first.
	Selector string `default:"fullest"`
	// Jitter is the upper bound of a random delay before a parent is chosen,
	// it spreads simultaneous joins.
	Jitter time.Duration
	// Debounce delays tree broadcasts to merge bursts of changes.
	Debounce time.Duration
	// RootLoss tells who gets re-offer requests when the root leaves: all, children.
	// With children the deeper nodes are dropped from the tree silently
	// while their parents keep feeding them.
	RootLoss string `default:"all"`
}

const (
	RootLossChildren = "children"
	RootLossAll      = "all"
)

// NewCoordinatorConfig reads the config from file, env and then the command line.
func NewCoordinatorConfig(args []string) (conf CoordinatorConfig, paths []string, err error) {
	fs := pflag.NewFlagSet("coordinator", pflag.ContinueOnError)
	path := fs.String("conf", "", "Set custom configuration file path")
	var flags CoordinatorConfig
	flags.withFlags(fs)
	if err = fs.Parse(args); err != nil {
		return conf, nil, err
	}

	if paths, err = LoadConfig(&conf, *path); err != nil {
		return conf, nil, err
	}
	conf.override(fs, flags)
	return conf, paths, conf.Validate()
}

func (c *CoordinatorConfig) withFlags(fs *pflag.FlagSet) {
	fs.StringVar(&c.Coordinator.Server.Address, "address", "", "HTTP server address (host:port)")
	fs.BoolVar(&c.Coordinator.Debug, "debug", false, "Enable debug logs")
	fs.IntVar(&c.Coordinator.Monitoring.Port, "monitoring.port", 0, "Monitoring server port")
	fs.IntVar(&c.Tree.FanOut, "fanout", 0, "Max number of children of a tree node")
	fs.StringVar(&c.Tree.Selector, "selector", "", "Parent selection policy: fullest, first")
	fs.StringVar(&c.Coordinator.Lock, "lock", "", "Lock file path")
}

// override copies only the flags that were set explicitly.
func (c *CoordinatorConfig) override(fs *pflag.FlagSet, flags CoordinatorConfig) {
	if fs.Changed("address") {
		c.Coordinator.Server.Address = flags.Coordinator.Server.Address
	}
	if fs.Changed("debug") {
		c.Coordinator.Debug = flags.Coordinator.Debug
	}
	if fs.Changed("monitoring.port") {
		c.Coordinator.Monitoring.Port = flags.Coordinator.Monitoring.Port
	}
	if fs.Changed("fanout") {
		c.Tree.FanOut = flags.Tree.FanOut
	}
	if fs.Changed("selector") {
		c.Tree.Selector = flags.Tree.Selector
	}
	if fs.Changed("lock") {
		c.Coordinator.Lock = flags.Coordinator.Lock
	}
}

func (c *CoordinatorConfig) Validate() error {
	if c.Tree.FanOut < 1 {
		return fmt.Errorf("fan-out should be at least 1, got %v", c.Tree.FanOut)
	}
	if _, err := tree.ParsePolicy(c.Tree.Selector); err != nil {
		return err
	}
	if c.Tree.Jitter < 0 || c.Tree.Debounce < 0 {
		return fmt.Errorf("negative tree timings")
	}
	switch c.Tree.RootLoss {
	case RootLossChildren, RootLossAll:
	default:
		return fmt.Errorf("unknown root loss policy %q", c.Tree.RootLoss)
	}
	return c.Webrtc.Validate()
}
