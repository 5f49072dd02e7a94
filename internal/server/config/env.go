package config

import (
	"os"
	"time"

	"github.com/dmitrijs2005/chatroom/internal/flagx"
	"github.com/joho/godotenv"
)

// Environment variables read by parseEnv.
const (
	EnvGRPCAddr        = "CHAT_GRPC_ADDR"
	EnvHTTPAddr        = "CHAT_HTTP_ADDR"
	EnvStore           = "CHAT_STORE"
	EnvDatabaseDSN     = "CHAT_DATABASE_DSN"
	EnvStoreTimeout    = "CHAT_STORE_TIMEOUT"
	EnvStoreRetryDelay = "CHAT_STORE_RETRY_DELAY"
	EnvLogLevel        = "CHAT_LOG_LEVEL"
)

// parseEnv overlays CHAT_* variables onto config. A .env file named by -e
// (or ./.env when present) is loaded first; variables already set in the
// process environment win over the file. Durations use time.ParseDuration
// syntax; unparsable values panic like the other config sources do.
func parseEnv(config *Config) {
	if path := flagx.EnvFileFlags(); path != "" {
		if err := godotenv.Load(path); err != nil {
			panic(err)
		}
	} else {
		_ = godotenv.Load()
	}

	setString(&config.EndpointAddrGRPC, EnvGRPCAddr)
	setString(&config.EndpointAddrHTTP, EnvHTTPAddr)
	setString(&config.StoreType, EnvStore)
	setString(&config.DatabaseDSN, EnvDatabaseDSN)
	setDuration(&config.StoreTimeout, EnvStoreTimeout)
	setDuration(&config.StoreRetryDelay, EnvStoreRetryDelay)
	setString(&config.LogLevel, EnvLogLevel)
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, key string) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		panic(err)
	}
	*dst = d
}
