package main

import (
	"context"
	"os"
	"time"

	"github.com/cascade-live/cascade/pkg/config"
	"github.com/cascade-live/cascade/pkg/coordinator"
	"github.com/cascade-live/cascade/pkg/logger"
	cos "github.com/cascade-live/cascade/pkg/os"
)

var Version = "?"

func main() {
	conf, paths, err := config.NewCoordinatorConfig(os.Args[1:])
	log := logger.NewConsole(conf.Coordinator.Debug, "c", false)
	if err != nil {
		log.Fatal().Err(err).Msg("config fail")
	}

	log.Info().Msgf("version %s", Version)
	log.Info().Msgf("config: %v", paths)
	if log.GetLevel() < logger.InfoLevel {
		log.Debug().Msgf("config: %+v", conf)
	}

	if conf.Coordinator.Lock != "" {
		lock, err := cos.NewFileLock(conf.Coordinator.Lock)
		if err != nil {
			log.Fatal().Err(err).Msg("lock file fail")
		}
		if err = lock.TryLock(); err != nil {
			log.Fatal().Err(err).Str("path", lock.Path()).Msg("another coordinator is running")
		}
		defer func() { _ = lock.Unlock() }()
	}

	c, err := coordinator.New(conf, paths, log)
	if err != nil {
		log.Fatal().Err(err).Msg("coordinator init fail")
	}
	c.Start()

	<-cos.ExpectTermination()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := c.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("service shutdown errors")
	}
}
