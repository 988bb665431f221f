package redis

import (
	"testing"

	"github.com/muhammadchandra19/exchange/services/candlestick-service/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestConfig_Validate(t *testing.T) {
	testCases := []struct {
		name      string
		mutate    func(c *Config)
		nilConfig bool
		wantField string
	}{
		{name: "default config is valid"},
		{name: "nil config", nilConfig: true, wantField: "config"},
		{name: "no addresses", mutate: func(c *Config) { c.Addrs = nil }, wantField: "addrs"},
		{name: "unknown mode", mutate: func(c *Config) { c.Mode = "sentinel" }, wantField: "mode"},
		{name: "zero connect timeout", mutate: func(c *Config) { c.ConnectTimeout = 0 }, wantField: "connect_timeout"},
		{name: "zero pool size", mutate: func(c *Config) { c.PoolSize = 0 }, wantField: "pool_size"},
		{name: "negative retries", mutate: func(c *Config) { c.MaxRetries = -1 }, wantField: "max_retries"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			if tc.mutate != nil {
				tc.mutate(cfg)
			}
			if tc.nilConfig {
				cfg = nil
			}

			err := cfg.Validate()
			if tc.wantField == "" {
				assert.NoError(t, err)
				return
			}

			var details *errors.ErrorDetails
			if assert.True(t, errors.As(err, &details)) {
				assert.Equal(t, tc.wantField, details.Field)
				assert.Equal(t, errors.RedisConfigError, errors.CodeOf(err))
			}
		})
	}
}
