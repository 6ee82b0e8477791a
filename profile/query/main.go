// Profiling:
// go build ./profile/query
// ./query -config store.toml
// go tool pprof -http=":8000" -nodefraction=0.001 ./query cpu.pprof

package main

import (
	"encoding/binary"
	"flag"
	"log"
	"os"

	"github.com/goccy/go-json"
	"github.com/pkg/profile"
	"go.uber.org/zap"

	"github.com/edwinsyarief/rowecs"
	"github.com/edwinsyarief/rowecs/config"
)

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

	p := profile.Start(profile.CPUProfile, profile.ProfilePath(cfg.Profile.Path), profile.NoShutdownHook)
	stats, err := run(cfg, logger)
	p.Stop()
	if err != nil {
		logger.Fatal("profile run failed", zap.Error(err))
	}
	if err := json.NewEncoder(os.Stdout).Encode(stats); err != nil {
		logger.Fatal("write stats", zap.Error(err))
	}
}

// run filters six 16-byte components down to the rows holding the first
// two and updates them in place through the raw row bytes.
func run(cfg *config.Config, logger *zap.Logger) (rowecs.Stats, error) {
	var last rowecs.Stats
	for range cfg.Profile.Rounds {
		s := rowecs.NewStore(cfg.Store.Options(logger)...)
		ids := make([]rowecs.ComponentID, 6)
		for i, name := range []string{"c1", "c2", "c3", "c4", "c5", "c6"} {
			id, err := s.CreateComponent(name, 16)
			if err != nil {
				return last, err
			}
			ids[i] = id
		}
		if err := s.Initialize(); err != nil {
			return last, err
		}
		for range cfg.Profile.Entities {
			e, err := s.CreateEntity()
			if err != nil {
				return last, err
			}
			for _, id := range ids {
				if err := s.SetComponent(e, id, nil); err != nil {
					return last, err
				}
			}
		}

		f, err := rowecs.NewFilter(s, ids[0], ids[1])
		if err != nil {
			return last, err
		}
		c1, _ := s.Component(ids[0])
		c2, _ := s.Component(ids[1])
		for range cfg.Profile.Iters {
			for f.Next() {
				row := f.Row()
				a := row[c1.Offset : c1.Offset+c1.Size]
				b := row[c2.Offset : c2.Offset+c2.Size]
				binary.LittleEndian.PutUint64(a, binary.LittleEndian.Uint64(a)+binary.LittleEndian.Uint64(b))
				binary.LittleEndian.PutUint64(a[8:], binary.LittleEndian.Uint64(a[8:])+binary.LittleEndian.Uint64(b[8:]))
			}
			f.Reset()
		}
		last = s.Stats()
		s.Close()
	}
	return last, nil
}
