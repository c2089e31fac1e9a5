package cmd

import (
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestParsePeer(t *testing.T) {
	p, err := parsePeer([]string{"6001", "localhost", "6002"})
	require.NoError(t, err)
	require.Equal(t, peer{localPort: 6001, remoteHost: "localhost", remotePort: 6002}, p)

	for name, args := range map[string][]string{
		"too few":             {"6001", "localhost"},
		"local port reserved": {"80", "localhost", "6002"},
		"remote port low":     {"6001", "localhost", "1023"},
		"not a number":        {"six", "localhost", "6002"},
		"port out of range":   {"6001", "localhost", "65536"},
		"negative port":       {"-6001", "localhost", "6002"},
		"empty host":          {"6001", "", "6002"},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := parsePeer(args)
			require.Error(t, err)
		})
	}
}

// TestRootCmd_Args checks that the command rejects a wrong number of arguments and reserved ports before
// opening any socket.
func TestRootCmd_Args(t *testing.T) {
	rootCmd.SetArgs([]string{"6001", "localhost"})
	require.Error(t, rootCmd.Execute())

	rootCmd.SetArgs([]string{"1000", "localhost", "6002"})
	err := rootCmd.Execute()
	require.ErrorContains(t, err, "greater than or equal to 1024")

	rootCmd.SetArgs([]string{"--node-capacity=0", "6001", "localhost", "6002"})
	err = rootCmd.Execute()
	require.ErrorContains(t, err, "invalid configuration")
}

// TestRootCmd_InitConfig checks that the flags are loaded into the config and the log level applied before
// the command runs.
func TestRootCmd_InitConfig(t *testing.T) {
	rootCmd.SetArgs([]string{
		fmt.Sprintf("--node-capacity=%d", defaults.Arena.NodeCapacity),
		"--log-level=debug",
		"--sentinel=bye",
		"1000", "localhost", "6002",
	})
	err := rootCmd.Execute()
	require.ErrorContains(t, err, "greater than or equal to 1024")

	require.NoError(t, confErr)
	require.Equal(t, "bye", conf.Relay.Sentinel)
	require.Equal(t, defaults.Arena.NodeCapacity, conf.Arena.NodeCapacity)
	require.Equal(t, zerolog.DebugLevel, log.GetLevel())
}
