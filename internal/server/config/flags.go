package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/chatroom/internal/flagx"
)

// parseFlags populates Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   gRPC bind address (e.g., ":50051")
//	-l string   HTTP bind address (e.g., ":8080")
//	-t string   store type: memory | postgres
//	-d string   PostgreSQL DSN
//	-o int      store call timeout, seconds
//	-r int      reconnect delay, milliseconds
//	-v string   log level
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-l", "-t", "-d", "-o", "-r", "-v"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrGRPC, "a", config.EndpointAddrGRPC, "gRPC address and port")
	fs.StringVar(&config.EndpointAddrHTTP, "l", config.EndpointAddrHTTP, "HTTP address and port")
	fs.StringVar(&config.StoreType, "t", config.StoreType, "store type (memory|postgres)")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")

	storeTimeout := fs.Int("o", int(config.StoreTimeout.Seconds()), "store call timeout (in seconds)")
	retryDelay := fs.Int("r", int(config.StoreRetryDelay.Milliseconds()), "reconnect delay (in milliseconds)")

	fs.StringVar(&config.LogLevel, "v", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	// integer flags override only when given
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "o":
			config.StoreTimeout = time.Duration(*storeTimeout) * time.Second
		case "r":
			config.StoreRetryDelay = time.Duration(*retryDelay) * time.Millisecond
		}
	})
}
