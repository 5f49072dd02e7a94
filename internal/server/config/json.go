package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/chatroom/internal/flagx"
	"github.com/dmitrijs2005/chatroom/internal/timex"
)

// JsonConfig is the on-disk shape of the config file. Durations accept both
// strings such as "1s" and integer nanoseconds.
type JsonConfig struct {
	EndpointAddrGRPC string         `json:"endpoint_addr_grpc"`
	EndpointAddrHTTP string         `json:"endpoint_addr_http"`
	StoreType        string         `json:"store_type"`
	DatabaseDSN      string         `json:"database_dsn"`
	StoreTimeout     timex.Duration `json:"store_timeout"`
	StoreRetryDelay  timex.Duration `json:"store_retry_delay"`
	LogLevel         string         `json:"log_level"`
}

// parseJson loads the file named by -c/-config, if any, into config. Only
// fields present in the file override what is already set. An unreadable
// file or invalid JSON panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.EndpointAddrGRPC != "" {
		config.EndpointAddrGRPC = c.EndpointAddrGRPC
	}
	if c.EndpointAddrHTTP != "" {
		config.EndpointAddrHTTP = c.EndpointAddrHTTP
	}
	if c.StoreType != "" {
		config.StoreType = c.StoreType
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.StoreTimeout.Duration != 0 {
		config.StoreTimeout = c.StoreTimeout.Duration
	}
	if c.StoreRetryDelay.Duration != 0 {
		config.StoreRetryDelay = c.StoreRetryDelay.Duration
	}
	if c.LogLevel != "" {
		config.LogLevel = c.LogLevel
	}
}
