package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type HTTPConfig struct {
	Host               string
	Port               int
	CORSAllowedOrigins []string
}

type DBConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime string
}

type AuthConfig struct {
	AccessSecret string
}

type PricingConfig struct {
	CrewMarkup      float64
	CraneMarkup     float64
	TransportMarkup float64
	VATRate         float64
	CrewRate        float64
	TransportFee    float64
	HoursPerDay     int
	DefaultCity     string
	CatalogFile     string
}

type MailConfig struct {
	APIURL  string
	APIKey  string
	From    string
	To      string
	Timeout time.Duration
}

type NarrativeConfig struct {
	APIURL  string
	APIKey  string
	Model   string
	Timeout time.Duration
}

type Config struct {
	Environment string
	CompanyName string
	HTTP        HTTPConfig
	DB          DBConfig
	Auth        AuthConfig
	Pricing     PricingConfig
	Mail        MailConfig
	Narrative   NarrativeConfig
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("app")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("./deploy")
	v.AddConfigPath("./internal/config")
	v.AutomaticEnv()

	_ = v.ReadInConfig()

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Environment: v.GetString("APP_ENV"),
		CompanyName: v.GetString("COMPANY_NAME"),
		HTTP: HTTPConfig{
			Host:               v.GetString("HTTP_HOST"),
			Port:               v.GetInt("HTTP_PORT"),
			CORSAllowedOrigins: parseList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		DB: DBConfig{
			DSN:             v.GetString("DB_DSN"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetString("DB_CONN_MAX_LIFETIME"),
		},
		Auth: AuthConfig{
			AccessSecret: v.GetString("JWT_ACCESS_SECRET"),
		},
		Pricing: PricingConfig{
			CrewMarkup:      v.GetFloat64("MARKUP_CREW"),
			CraneMarkup:     v.GetFloat64("MARKUP_CRANE"),
			TransportMarkup: v.GetFloat64("MARKUP_MISC"),
			VATRate:         v.GetFloat64("VAT_RATE"),
			CrewRate:        v.GetFloat64("CREW_RATE_PER_TEAM_DAY"),
			TransportFee:    v.GetFloat64("TRANSPORT_COORDINATION_COST"),
			HoursPerDay:     v.GetInt("CRANE_HOURS_PER_DAY"),
			DefaultCity:     v.GetString("DEFAULT_CITY"),
			CatalogFile:     v.GetString("CATALOG_FILE"),
		},
		Mail: MailConfig{
			APIURL:  v.GetString("MAIL_API_URL"),
			APIKey:  v.GetString("MAIL_API_KEY"),
			From:    v.GetString("MAIL_FROM"),
			To:      v.GetString("MAIL_TO"),
			Timeout: v.GetDuration("MAIL_TIMEOUT"),
		},
		Narrative: NarrativeConfig{
			APIURL:  v.GetString("NARRATIVE_API_URL"),
			APIKey:  v.GetString("NARRATIVE_API_KEY"),
			Model:   v.GetString("NARRATIVE_MODEL"),
			Timeout: v.GetDuration("NARRATIVE_TIMEOUT"),
		},
	}

	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.CompanyName == "" {
		cfg.CompanyName = "Montaje de Prefabricados"
	}
	if cfg.HTTP.Host == "" {
		cfg.HTTP.Host = "0.0.0.0"
	}
	if cfg.HTTP.Port == 0 {
		cfg.HTTP.Port = 7090
	}
	if len(cfg.HTTP.CORSAllowedOrigins) == 0 {
		cfg.HTTP.CORSAllowedOrigins = []string{"*"}
	}
	if cfg.Pricing.CrewMarkup == 0 {
		cfg.Pricing.CrewMarkup = 1.2
	}
	if cfg.Pricing.CraneMarkup == 0 {
		cfg.Pricing.CraneMarkup = 1.25
	}
	if cfg.Pricing.TransportMarkup == 0 {
		cfg.Pricing.TransportMarkup = 1.15
	}
	if cfg.Pricing.VATRate == 0 {
		cfg.Pricing.VATRate = 0.21
	}
	if cfg.Pricing.CrewRate == 0 {
		cfg.Pricing.CrewRate = 1150
	}
	if cfg.Pricing.TransportFee == 0 {
		cfg.Pricing.TransportFee = 450
	}
	if cfg.Pricing.HoursPerDay == 0 {
		cfg.Pricing.HoursPerDay = 8
	}
	if cfg.Pricing.DefaultCity == "" {
		cfg.Pricing.DefaultCity = "Madrid"
	}
	if cfg.Mail.APIURL == "" {
		cfg.Mail.APIURL = "https://api.resend.com/emails"
	}
	if cfg.Mail.Timeout == 0 {
		cfg.Mail.Timeout = 10 * time.Second
	}
	if cfg.Narrative.APIKey == "" {
		cfg.Narrative.APIKey = v.GetString("OPENAI_API_KEY")
	}
	if cfg.Narrative.APIURL == "" {
		cfg.Narrative.APIURL = "https://api.openai.com/v1/chat/completions"
	}
	if cfg.Narrative.Model == "" {
		cfg.Narrative.Model = "gpt-4o-mini"
	}
	if cfg.Narrative.Timeout == 0 {
		cfg.Narrative.Timeout = 8 * time.Second
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.Auth.AccessSecret == "" {
		return fmt.Errorf("JWT_ACCESS_SECRET is required")
	}
	markups := map[string]float64{
		"MARKUP_CREW":  cfg.Pricing.CrewMarkup,
		"MARKUP_CRANE": cfg.Pricing.CraneMarkup,
		"MARKUP_MISC":  cfg.Pricing.TransportMarkup,
	}
	for key, value := range markups {
		if value < 1 {
			return fmt.Errorf("%s must be at least 1, got %v", key, value)
		}
	}
	if cfg.Pricing.VATRate < 0 || cfg.Pricing.VATRate >= 1 {
		return fmt.Errorf("VAT_RATE must be a fraction, got %v", cfg.Pricing.VATRate)
	}
	if cfg.Pricing.CrewRate < 0 || cfg.Pricing.TransportFee < 0 {
		return fmt.Errorf("CREW_RATE_PER_TEAM_DAY and TRANSPORT_COORDINATION_COST must not be negative")
	}
	if cfg.Pricing.HoursPerDay < 0 || cfg.Pricing.HoursPerDay > 24 {
		return fmt.Errorf("CRANE_HOURS_PER_DAY must be between 1 and 24")
	}
	return nil
}

// MailEnabled reports whether notifications can be sent at all.
func (c *Config) MailEnabled() bool {
	return c.Mail.APIKey != "" && c.Mail.From != ""
}

// NarrativeEnabled reports whether a narrative endpoint is configured.
func (c *Config) NarrativeEnabled() bool {
	return c.Narrative.APIKey != ""
}

func parseList(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	items := strings.Split(raw, ",")
	result := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item != "" {
			result = append(result, item)
		}
	}
	return result
}
