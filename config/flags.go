package config

import (
	"fmt"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// All constant strings are used for CLI flag names.
	// arena
	nodeCapacity = "node-capacity"
	listCapacity = "list-capacity"
	// relay
	maxMessageSize = "max-message-size"
	sentinel       = "sentinel"
	queueCapacity  = "queue-capacity"
	// metrics
	metricsPort     = "metrics-port"
	profilerEnabled = "profiler-enabled"

	logLevel = "log-level"
)

// flagKeys maps every CLI flag name to the config key it overrides.
var flagKeys = map[string]string{
	nodeCapacity:    "arena.node-capacity",
	listCapacity:    "arena.list-capacity",
	maxMessageSize:  "relay.max-message-size",
	sentinel:        "relay.sentinel",
	queueCapacity:   "relay.queue-capacity",
	metricsPort:     "metrics.port",
	profilerEnabled: "metrics.profiler-enabled",
	logLevel:        "log-level",
}

func AllFlagNames() []string {
	return []string{
		nodeCapacity, listCapacity, maxMessageSize, sentinel, queueCapacity, metricsPort, profilerEnabled, logLevel,
	}
}

// InitializeFlags declares a CLI flag for every config value on the provided pflag set, defaulting to the
// values of the given config.
func InitializeFlags(flags *pflag.FlagSet, defaults *Config) {
	flags.Uint32(nodeCapacity, defaults.Arena.NodeCapacity, "number of message slots shared by the queues of a session")
	flags.Uint32(listCapacity, defaults.Arena.ListCapacity, "number of queues the message slots can be split into")
	flags.Uint(maxMessageSize, defaults.Relay.MaxMessageSize, "size in bytes above which a message is truncated")
	flags.String(sentinel, defaults.Relay.Sentinel, "message ending the session when typed by either peer")
	flags.Uint(queueCapacity, defaults.Relay.QueueCapacity, "messages buffered per direction before dropping")
	flags.Uint(metricsPort, defaults.Metrics.Port, "port of the prometheus metrics endpoint, 0 to disable")
	flags.Bool(profilerEnabled, defaults.Metrics.ProfilerEnabled, "serve the pprof endpoints along with the metrics")
	flags.String(logLevel, defaults.LogLevel, "minimum level of the printed logs: trace, debug, info, warn or error")
}

// BindFlags binds every flag declared by InitializeFlags to its config key in the viper store, so a flag
// set on the command line overrides the key.
// Returns:
// error: if a flag is missing from the flag set.
func BindFlags(conf *viper.Viper, flags *pflag.FlagSet) error {
	for _, flagName := range AllFlagNames() {
		flag := flags.Lookup(flagName)
		if flag == nil {
			return fmt.Errorf("missing flag %s, flags must be initialized with InitializeFlags", flagName)
		}
		if err := conf.BindPFlag(flagKeys[flagName], flag); err != nil {
			return fmt.Errorf("could not bind flag %s: %w", flagName, err)
		}
	}
	return nil
}
