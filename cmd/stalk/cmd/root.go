package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/stalkchat/stalk/config"
	"github.com/stalkchat/stalk/engine/relay"
	"github.com/stalkchat/stalk/module"
	"github.com/stalkchat/stalk/module/arena"
	"github.com/stalkchat/stalk/module/arena/queue"
	"github.com/stalkchat/stalk/module/metrics"
)

// minPort is the lowest port a session may use, ports below are reserved for system services.
const minPort = 1024

var (
	log      zerolog.Logger
	defaults *config.Config

	// conf is loaded by initConfig once the flags are parsed, confErr holds its failure for run to return.
	conf    *config.Config
	confErr error
)

var rootCmd = &cobra.Command{
	Use:   "stalk [my port number] [remote machine name] [remote port number]",
	Short: "Chat with a remote peer over UDP, type the sentinel (default \"!\") to end the session",
	Args:  cobra.ExactArgs(3),
	RunE:  run,

	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	var err error
	defaults, err = config.DefaultConfig()
	if err != nil {
		// the default config is embedded in the binary
		panic(fmt.Errorf("could not load default config: %w", err))
	}
	config.InitializeFlags(rootCmd.Flags(), defaults)

	log = zerolog.New(zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) {
		w.Out = os.Stderr
	})).With().Timestamp().Logger()

	cobra.OnInitialize(initConfig)
}

// initConfig merges the default config, the environment and the parsed flags, and applies the log level.
func initConfig() {
	conf, confErr = config.Load(rootCmd.Flags())
	if confErr != nil {
		return
	}
	log = log.Level(conf.Level())
}

// peer is the addressing of a session, as given on the command line.
type peer struct {
	localPort  uint16
	remoteHost string
	remotePort uint16
}

func parsePeer(args []string) (peer, error) {
	if len(args) != 3 {
		return peer{}, fmt.Errorf("expected 3 arguments, got %d", len(args))
	}

	localPort, err := parsePort(args[0])
	if err != nil {
		return peer{}, fmt.Errorf("invalid local port: %w", err)
	}
	remotePort, err := parsePort(args[2])
	if err != nil {
		return peer{}, fmt.Errorf("invalid remote port: %w", err)
	}
	if args[1] == "" {
		return peer{}, fmt.Errorf("remote machine name is empty")
	}

	return peer{localPort: localPort, remoteHost: args[1], remotePort: remotePort}, nil
}

func parsePort(arg string) (uint16, error) {
	port, err := strconv.ParseUint(arg, 10, 16)
	if err != nil {
		return 0, fmt.Errorf("could not parse port %q: %w", arg, err)
	}
	if port < minPort {
		return 0, fmt.Errorf("please use port numbers greater than or equal to %d, got %d", minPort, port)
	}
	return uint16(port), nil
}

func run(cmd *cobra.Command, args []string) error {
	if confErr != nil {
		return fmt.Errorf("could not load config: %w", confErr)
	}

	p, err := parsePeer(args)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var arenaMetrics module.ArenaMetrics = metrics.NewNoopCollector()
	var queueMetrics module.QueueMetrics = metrics.NewNoopCollector()
	if conf.Metrics.Port != 0 {
		registry := prometheus.NewRegistry()
		registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		arenaMetrics = metrics.RelayArenaMetricsFactory(registry)
		queueMetrics = metrics.NewQueueCollector(registry)

		server := metrics.NewServer(log, conf.Metrics.Port, conf.Metrics.ProfilerEnabled, registry)
		<-server.Ready()
		defer func() {
			<-server.Done()
		}()
	}

	pool := arena.NewPool(conf.Arena.NodeCapacity, conf.Arena.ListCapacity, log, arenaMetrics)
	group := queue.NewGroup(pool, log, queueMetrics)

	transport, err := relay.DialUDP(p.localPort, p.remoteHost, p.remotePort, conf.Relay.MaxMessageSize)
	if err != nil {
		return fmt.Errorf("could not open session: %w", err)
	}

	engine, err := relay.New(log, group, transport, cmd.InOrStdin(), cmd.OutOrStdout(), conf.Relay)
	if err != nil {
		_ = transport.Close()
		return fmt.Errorf("could not create relay engine: %w", err)
	}

	log.Info().
		Uint16("local_port", p.localPort).
		Str("remote_host", p.remoteHost).
		Uint16("remote_port", p.remotePort).
		Msgf("session started, type %q to end it", conf.Relay.Sentinel)

	return engine.Run(ctx)
}
