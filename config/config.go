package config

import (
	"flag"
	"os"
	"sync"
	"time"
)

const (
	defaultServerAddress     = ":8080"
	defaultDatabaseDSN       = ""
	defaultProcessorAddr     = ":8181"
	defaultLogLevel          = "debug"
	defaultReconcileInterval = 15 * time.Second
)

type Config struct {
	ServerAddr        string
	DatabaseDSN       string
	ProcessorAddr     string
	LogLevel          string
	AuthTokenKey      string
	StationKeyHash    string
	StaffLogin        string
	StaffPasswordHash string
	ReconcileInterval time.Duration
}

var (
	once      sync.Once
	singleton *Config
)

// New returns new Config. It parses command line and environment variables only once.
func New() (*Config, error) {
	once.Do(func() {
		cfg := Config{}

		// initialize flags
		flag.StringVar(&cfg.ServerAddr, "a", defaultServerAddress, "kitchenflow server address")
		flag.StringVar(&cfg.DatabaseDSN, "d", defaultDatabaseDSN, "kitchenflow database DSN")
		flag.StringVar(&cfg.ProcessorAddr, "p", defaultProcessorAddr, "payment processor address")
		flag.StringVar(&cfg.LogLevel, "l", defaultLogLevel, "log level")
		flag.DurationVar(&cfg.ReconcileInterval, "i", defaultReconcileInterval, "payment reconcile interval")

		flag.Parse()

		// if environment variable is set, then using it
		if runAddrEnv := os.Getenv("RUN_ADDRESS"); runAddrEnv != "" {
			cfg.ServerAddr = runAddrEnv
		}
		if databaseURIEnv := os.Getenv("DATABASE_URI"); databaseURIEnv != "" {
			cfg.DatabaseDSN = databaseURIEnv
		}
		if processorAddrEnv := os.Getenv("PAYMENT_PROCESSOR_ADDRESS"); processorAddrEnv != "" {
			cfg.ProcessorAddr = processorAddrEnv
		}
		if logLevelEnv := os.Getenv("LOG_LEVEL"); logLevelEnv != "" {
			cfg.LogLevel = logLevelEnv
		}
		if intervalEnv := os.Getenv("RECONCILE_INTERVAL"); intervalEnv != "" {
			if d, err := time.ParseDuration(intervalEnv); err == nil {
				cfg.ReconcileInterval = d
			}
		}

		// secrets come from the environment only
		cfg.AuthTokenKey = os.Getenv("AUTH_TOKEN_KEY")
		cfg.StationKeyHash = os.Getenv("STATION_KEY_HASH")
		cfg.StaffLogin = os.Getenv("STAFF_LOGIN")
		cfg.StaffPasswordHash = os.Getenv("STAFF_PASSWORD_HASH")

		singleton = &cfg
	})

	return singleton, nil
}
