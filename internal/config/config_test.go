package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newViper(values map[string]any) *viper.Viper {
	v := viper.New()
	for key, value := range values {
		v.Set(key, value)
	}
	return v
}

func TestFromViper_Defaults(t *testing.T) {
	t.Parallel()
	cfg, err := fromViper(newViper(map[string]any{"JWT_ACCESS_SECRET": "secret"}))
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "0.0.0.0", cfg.HTTP.Host)
	assert.Equal(t, 7090, cfg.HTTP.Port)
	assert.Equal(t, []string{"*"}, cfg.HTTP.CORSAllowedOrigins)
	assert.Empty(t, cfg.DB.DSN)
	assert.Equal(t, PricingConfig{
		CrewMarkup:      1.2,
		CraneMarkup:     1.25,
		TransportMarkup: 1.15,
		VATRate:         0.21,
		CrewRate:        1150,
		TransportFee:    450,
		HoursPerDay:     8,
		DefaultCity:     "Madrid",
	}, cfg.Pricing)
	assert.Equal(t, 10*time.Second, cfg.Mail.Timeout)
	assert.Equal(t, "gpt-4o-mini", cfg.Narrative.Model)
	assert.False(t, cfg.MailEnabled())
	assert.False(t, cfg.NarrativeEnabled())
}

func TestFromViper_Overrides(t *testing.T) {
	t.Parallel()
	cfg, err := fromViper(newViper(map[string]any{
		"JWT_ACCESS_SECRET":    "secret",
		"HTTP_PORT":            "8080",
		"CORS_ALLOWED_ORIGINS": "https://a.example, https://b.example,",
		"MARKUP_CRANE":         "1.4",
		"VAT_RATE":             "0.1",
		"MAIL_API_KEY":         "re_123",
		"MAIL_FROM":            "quotes@example.com",
		"MAIL_TIMEOUT":         "3s",
		"OPENAI_API_KEY":       "sk-legacy",
	}))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.HTTP.CORSAllowedOrigins)
	assert.InDelta(t, 1.4, cfg.Pricing.CraneMarkup, 1e-9)
	assert.InDelta(t, 0.1, cfg.Pricing.VATRate, 1e-9)
	assert.Equal(t, 3*time.Second, cfg.Mail.Timeout)
	assert.Equal(t, "sk-legacy", cfg.Narrative.APIKey)
	assert.True(t, cfg.MailEnabled())
	assert.True(t, cfg.NarrativeEnabled())
}

func TestFromViper_Validation(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		values map[string]any
		want   string
	}{
		{name: "missing secret", values: map[string]any{}, want: "JWT_ACCESS_SECRET is required"},
		{name: "markup below one", values: map[string]any{"JWT_ACCESS_SECRET": "s", "MARKUP_CREW": "0.8"}, want: "MARKUP_CREW must be at least 1"},
		{name: "vat as percent", values: map[string]any{"JWT_ACCESS_SECRET": "s", "VAT_RATE": "21"}, want: "VAT_RATE must be a fraction"},
		{name: "negative fee", values: map[string]any{"JWT_ACCESS_SECRET": "s", "TRANSPORT_COORDINATION_COST": "-1"}, want: "must not be negative"},
		{name: "long day", values: map[string]any{"JWT_ACCESS_SECRET": "s", "CRANE_HOURS_PER_DAY": "30"}, want: "CRANE_HOURS_PER_DAY"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := fromViper(newViper(tt.values))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
