package config

import (
	"flag"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	defaults := Config{
		ServerAddr:           defaultServerAddress,
		LogLevel:             defaultLogLevel,
		CatalogPath:          defaultCatalogPath,
		WhatsAppNumber:       defaultWhatsAppNumber,
		DeliveryFee:          defaultDeliveryFee,
		AdminLogin:           defaultAdminLogin,
		ExpiryReportInterval: defaultExpiryReportInterval,
	}

	tests := []struct {
		name    string
		args    []string
		env     map[string]string
		want    func() Config
		wantErr bool
	}{
		{
			name: "defaults",
			want: func() Config { return defaults },
		},
		{
			name: "flags",
			args: []string{"-a", ":9090", "-d", "postgres://localhost/club", "-f", "7.5", "-i", "10m"},
			want: func() Config {
				c := defaults
				c.ServerAddr = ":9090"
				c.DatabaseDSN = "postgres://localhost/club"
				c.DeliveryFee = 7.5
				c.ExpiryReportInterval = 10 * time.Minute
				return c
			},
		},
		{
			name: "env_overrides_flags",
			args: []string{"-a", ":9090", "-l", "info"},
			env: map[string]string{
				"RUN_ADDRESS":         ":7070",
				"LOG_LEVEL":           "warn",
				"WHATSAPP_NUMBER":     "5571000000000",
				"ADMIN_LOGIN":         "owner",
				"ADMIN_PASSWORD_HASH": "$2a$10$hash",
				"DELIVERY_FEE":        "0",
				"AUTH_TOKEN_KEY":      "00ff",
			},
			want: func() Config {
				c := defaults
				c.ServerAddr = ":7070"
				c.LogLevel = "warn"
				c.WhatsAppNumber = "5571000000000"
				c.AdminLogin = "owner"
				c.AdminPasswordHash = "$2a$10$hash"
				c.DeliveryFee = 0
				c.AuthTokenKey = "00ff"
				return c
			},
		},
		{
			name:    "bad_fee_env",
			env:     map[string]string{"DELIVERY_FEE": "five"},
			wantErr: true,
		},
		{
			name:    "negative_fee",
			args:    []string{"-f", "-1"},
			wantErr: true,
		},
		{
			name:    "bad_interval_env",
			env:     map[string]string{"EXPIRY_REPORT_INTERVAL": "0s"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := flag.NewFlagSet(tt.name, flag.ContinueOnError)
			getenv := func(key string) string { return tt.env[key] }

			cfg, err := load(fs, tt.args, getenv)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)

			if diff := cmp.Diff(tt.want(), *cfg); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(flag.NewFlagSet("defaults", flag.ContinueOnError), nil, func(string) string { return "" })
	require.NoError(t, err)

	assert.Equal(t, 3.0, cfg.DeliveryFee)
	// no built-in signing key, one is generated at startup
	assert.Empty(t, cfg.AuthTokenKey)
}
