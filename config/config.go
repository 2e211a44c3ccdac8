package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"
)

const (
	defaultServerAddress        = ":8080"
	defaultDatabaseDSN          = ""
	defaultLogLevel             = "debug"
	defaultCatalogPath          = "configs/catalog.yaml"
	defaultWhatsAppNumber       = "5571999999999"
	defaultDeliveryFee          = 3.0
	defaultAdminLogin           = "admin"
	defaultExpiryReportInterval = time.Hour
)

type Config struct {
	ServerAddr           string
	DatabaseDSN          string
	LogLevel             string
	CatalogPath          string
	WhatsAppNumber       string
	DeliveryFee          float64
	AdminLogin           string
	AdminPasswordHash    string
	AuthTokenKey         string
	ExpiryReportInterval time.Duration
}

var (
	once      sync.Once
	singleton *Config
	loadErr   error
)

// New returns new Config. It parses command line and environment variables only once.
func New() (*Config, error) {
	once.Do(func() {
		singleton, loadErr = load(flag.CommandLine, os.Args[1:], os.Getenv)
	})

	return singleton, loadErr
}

func load(fs *flag.FlagSet, args []string, getenv func(string) string) (*Config, error) {
	cfg := Config{
		AdminLogin: defaultAdminLogin,
	}

	// initialize flags
	fs.StringVar(&cfg.ServerAddr, "a", defaultServerAddress, "server address")
	fs.StringVar(&cfg.DatabaseDSN, "d", defaultDatabaseDSN, "database DSN, in-memory store if empty")
	fs.StringVar(&cfg.LogLevel, "l", defaultLogLevel, "log level")
	fs.StringVar(&cfg.CatalogPath, "c", defaultCatalogPath, "product catalog path")
	fs.StringVar(&cfg.WhatsAppNumber, "w", defaultWhatsAppNumber, "store WhatsApp number")
	fs.Float64Var(&cfg.DeliveryFee, "f", defaultDeliveryFee, "delivery fee")
	fs.DurationVar(&cfg.ExpiryReportInterval, "i", defaultExpiryReportInterval, "expired loyalty cycles report interval")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	// if environment variable is set, then using it
	if runAddrEnv := getenv("RUN_ADDRESS"); runAddrEnv != "" {
		cfg.ServerAddr = runAddrEnv
	}
	if dataBaseURIEnv := getenv("DATABASE_URI"); dataBaseURIEnv != "" {
		cfg.DatabaseDSN = dataBaseURIEnv
	}
	if logLevelEnv := getenv("LOG_LEVEL"); logLevelEnv != "" {
		cfg.LogLevel = logLevelEnv
	}
	if catalogPathEnv := getenv("CATALOG_PATH"); catalogPathEnv != "" {
		cfg.CatalogPath = catalogPathEnv
	}
	if whatsAppEnv := getenv("WHATSAPP_NUMBER"); whatsAppEnv != "" {
		cfg.WhatsAppNumber = whatsAppEnv
	}
	if feeEnv := getenv("DELIVERY_FEE"); feeEnv != "" {
		fee, err := strconv.ParseFloat(feeEnv, 64)
		if err != nil {
			return nil, fmt.Errorf("DELIVERY_FEE: %w", err)
		}
		cfg.DeliveryFee = fee
	}
	if loginEnv := getenv("ADMIN_LOGIN"); loginEnv != "" {
		cfg.AdminLogin = loginEnv
	}
	if hashEnv := getenv("ADMIN_PASSWORD_HASH"); hashEnv != "" {
		cfg.AdminPasswordHash = hashEnv
	}
	if keyEnv := getenv("AUTH_TOKEN_KEY"); keyEnv != "" {
		cfg.AuthTokenKey = keyEnv
	}
	if intervalEnv := getenv("EXPIRY_REPORT_INTERVAL"); intervalEnv != "" {
		interval, err := time.ParseDuration(intervalEnv)
		if err != nil {
			return nil, fmt.Errorf("EXPIRY_REPORT_INTERVAL: %w", err)
		}
		cfg.ExpiryReportInterval = interval
	}

	if cfg.DeliveryFee < 0 {
		return nil, fmt.Errorf("delivery fee must not be negative: %v", cfg.DeliveryFee)
	}
	if cfg.ExpiryReportInterval <= 0 {
		return nil, fmt.Errorf("expiry report interval must be positive: %v", cfg.ExpiryReportInterval)
	}

	return &cfg, nil
}
