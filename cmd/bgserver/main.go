// Command bgserver runs the bgreferee HTTP/WebSocket API server.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/yourusername/bgreferee/internal/config"
	"github.com/yourusername/bgreferee/internal/logging"
	"github.com/yourusername/bgreferee/pkg/api"
)

const version = "0.1.0"

func main() {
	configFile := flag.String("config", "", "Path to config file (default: search XDG dirs for bgreferee/config.json)")
	host := flag.String("host", "", "Host to bind to (use 0.0.0.0 for all interfaces)")
	port := flag.Int("port", 0, "Port to listen on")
	readTimeout := flag.Duration("read-timeout", 0, "HTTP read timeout")
	writeTimeout := flag.Duration("write-timeout", 0, "HTTP write timeout")
	fastWorkers := flag.Int("fast-workers", 0, "Max concurrent validate/legal/tree requests")
	slowWorkers := flag.Int("slow-workers", 0, "Max concurrent survey requests")
	treeCache := flag.Int("tree-cache", 0, "Move-tree cache entries")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error)")
	logJSON := flag.Bool("log-json", false, "Log JSON lines instead of console output")
	strictBearOff := flag.Bool("strict-bearoff", false, "Only the farthest checker may bear off with a larger die")
	higherDie := flag.Bool("higher-die", false, "Require the higher die when only one die can be played")
	showVersion := flag.Bool("version", false, "Show version and exit")

	flag.Parse()

	if *showVersion {
		fmt.Printf("bgreferee API Server v%s\n", version)
		os.Exit(0)
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Flags override the config file
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "host":
			cfg.Server.Host = *host
		case "port":
			cfg.Server.Port = *port
		case "read-timeout":
			cfg.Server.ReadTimeout = config.Duration(*readTimeout)
		case "write-timeout":
			cfg.Server.WriteTimeout = config.Duration(*writeTimeout)
		case "fast-workers":
			cfg.Server.MaxFastWorkers = *fastWorkers
		case "slow-workers":
			cfg.Server.MaxSlowWorkers = *slowWorkers
		case "tree-cache":
			cfg.Server.TreeCacheSize = *treeCache
		case "log-level":
			cfg.Log.Level = *logLevel
		case "log-json":
			if *logJSON {
				cfg.Log.Format = "json"
			}
		case "strict-bearoff":
			cfg.Rules.AllowBearOffOvershoot = !*strictBearOff
		case "higher-die":
			cfg.Rules.RequireHigherDie = *higherDie
		}
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.Setup(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	server := api.NewServer(cfg, version, logger)
	rules := server.Rules()
	log.Info().
		Bool("allow_bear_off_overshoot", rules.AllowBearOffOvershoot).
		Bool("require_higher_die", rules.RequireHigherDie).
		Dur("idle_timeout", time.Duration(cfg.Server.IdleTimeout)).
		Msg("rules-loaded")

	if err := server.ListenAndServeWithGracefulShutdown(); err != nil {
		log.Fatal().Err(err).Msg("server-error")
	}
}
