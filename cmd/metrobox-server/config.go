package main

import (
	"flag"
	"log"
	"os"
	"strconv"
)

// ServerConfig holds the server configuration
type ServerConfig struct {
	Addr        string
	ConfigFile  string
	Seed        int64
	Temperature float64
	Parallel    bool
	Workers     int
	WebhookURL  string
	LogLevel    string
}

// configResolver defines how to resolve a single configuration value
type configResolver struct {
	flagName    string
	envVarName  string
	defaultVal  string
	description string
	setter      func(*ServerConfig, string)
}

// loadServerConfig loads server configuration from CLI flags and environment
// variables. Uses a resolver pattern to make it easy to add new options.
func loadServerConfig() ServerConfig {
	cfg := ServerConfig{}

	resolvers := []configResolver{
		{
			flagName:    "addr",
			envVarName:  "METROBOX_ADDR",
			defaultVal:  ":8080",
			description: "HTTP listen address (e.g. :8080, 0.0.0.0:8080)",
			setter:      func(c *ServerConfig, v string) { c.Addr = v },
		},
		{
			flagName:    "config-file",
			envVarName:  "METROBOX_CONFIG_FILE",
			defaultVal:  "",
			description: "optional path to a JSON system config file to load at startup",
			setter:      func(c *ServerConfig, v string) { c.ConfigFile = v },
		},
		{
			flagName:    "seed",
			envVarName:  "METROBOX_SEED",
			defaultVal:  "0",
			description: "random seed (0 picks a time-based one)",
			setter: func(c *ServerConfig, v string) {
				if val, err := strconv.ParseInt(v, 10, 64); err == nil {
					c.Seed = val
				} else {
					log.Printf("Invalid value for seed: %s, using 0", v)
				}
			},
		},
		{
			flagName:    "temperature",
			envVarName:  "METROBOX_TEMPERATURE",
			defaultVal:  "298.15",
			description: "temperature in Kelvin for the acceptance test",
			setter: func(c *ServerConfig, v string) {
				if val, err := strconv.ParseFloat(v, 64); err == nil {
					c.Temperature = val
				} else {
					log.Printf("Invalid value for temperature: %s, using 298.15", v)
					c.Temperature = 298.15
				}
			},
		},
		{
			flagName:    "parallel",
			envVarName:  "METROBOX_PARALLEL",
			defaultVal:  "false",
			description: "use the parallel execution strategy",
			setter: func(c *ServerConfig, v string) {
				c.Parallel = v == "true" || v == "1"
			},
		},
		{
			flagName:    "workers",
			envVarName:  "METROBOX_WORKERS",
			defaultVal:  "0",
			description: "worker count for the parallel strategy (0 = NumCPU)",
			setter: func(c *ServerConfig, v string) {
				if val, err := strconv.Atoi(v); err == nil {
					c.Workers = val
				} else {
					log.Printf("Invalid value for workers: %s, using 0", v)
				}
			},
		},
		{
			flagName:    "webhook-url",
			envVarName:  "METROBOX_WEBHOOK_URL",
			defaultVal:  "",
			description: "optional webhook URL to POST move events to",
			setter:      func(c *ServerConfig, v string) { c.WebhookURL = v },
		},
		{
			flagName:    "log-level",
			envVarName:  "METROBOX_LOG_LEVEL",
			defaultVal:  "info",
			description: "Log level: debug, info, warn, error",
			setter:      func(c *ServerConfig, v string) { c.LogLevel = v },
		},
	}

	// Register string flags first
	flagVars := make(map[string]*string)
	for _, resolver := range resolvers {
		flagVars[resolver.flagName] = flag.String(resolver.flagName, "", resolver.description)
	}

	// Parse flags once
	flag.Parse()

	// Resolve values for each resolver
	for _, resolver := range resolvers {
		var value string
		if *flagVars[resolver.flagName] != "" {
			value = *flagVars[resolver.flagName]
		} else if envValue := os.Getenv(resolver.envVarName); envValue != "" {
			value = envValue
		} else {
			value = resolver.defaultVal
		}
		resolver.setter(&cfg, value)
	}

	return cfg
}
