// Profiling:
// go build ./profile/entities
// ./entities -config store.toml
// go tool pprof -http=":8000" -nodefraction=0.001 ./entities mem.pprof

package main

import (
	"flag"
	"log"
	"os"

	"github.com/goccy/go-json"
	"github.com/pkg/profile"
	"go.uber.org/zap"

	"github.com/edwinsyarief/rowecs"
	"github.com/edwinsyarief/rowecs/config"
)

type comp1 struct {
	V int64
	W int64
}

type comp2 struct {
	V int64
	W int64
}

func main() {
	cfgPath := flag.String("config", "", "TOML or YAML config file")
	flag.Parse()

	cfg := config.Default()
	if *cfgPath != "" {
		var err error
		if cfg, err = config.Load(*cfgPath); err != nil {
			log.Fatal(err)
		}
	}
	logger, err := config.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	p := profile.Start(profile.MemProfileAllocs, profile.ProfilePath(cfg.Profile.Path), profile.NoShutdownHook)
	stats, err := run(cfg, logger)
	p.Stop()
	if err != nil {
		logger.Fatal("profile run failed", zap.Error(err))
	}
	if err := json.NewEncoder(os.Stdout).Encode(stats); err != nil {
		logger.Fatal("write stats", zap.Error(err))
	}
}

// run creates and destroys entities in a loop so recycling and the
// processing window dominate the profile.
func run(cfg *config.Config, logger *zap.Logger) (rowecs.Stats, error) {
	var last rowecs.Stats
	for range cfg.Profile.Rounds {
		s := rowecs.NewStore(cfg.Store.Options(logger)...)
		c1, err := rowecs.Register[comp1](s, "comp1")
		if err != nil {
			return last, err
		}
		c2, err := rowecs.Register[comp2](s, "comp2")
		if err != nil {
			return last, err
		}
		if err := s.Initialize(); err != nil {
			return last, err
		}

		entities := make([]rowecs.EntityID, 0, cfg.Profile.Entities)
		for range cfg.Profile.Iters {
			entities = entities[:0]
			for range cfg.Profile.Entities {
				e, err := s.CreateEntity()
				if err != nil {
					return last, err
				}
				if err := c1.Set(s, e, comp1{V: 1}); err != nil {
					return last, err
				}
				if err := c2.Set(s, e, comp2{V: 2, W: 3}); err != nil {
					return last, err
				}
				entities = append(entities, e)
			}
			err := s.Process(func(e rowecs.EntityID) error {
				return c1.Update(s, e, func(v *comp1) {
					w, _ := c2.Get(s, e)
					v.V += w.V
					v.W += w.W
				})
			})
			if err != nil {
				return last, err
			}
			for _, e := range entities {
				if err := rowecs.DestroyEntity(s, e); err != nil {
					return last, err
				}
			}
			s.FlushChanges(nil)
		}
		last = s.Stats()
		s.Close()
	}
	return last, nil
}
