package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/nurpe/liftquote/internal/auth"
	"github.com/nurpe/liftquote/internal/catalog"
	"github.com/nurpe/liftquote/internal/config"
	"github.com/nurpe/liftquote/internal/db"
	"github.com/nurpe/liftquote/internal/estimate"
	"github.com/nurpe/liftquote/internal/excel"
	httphandler "github.com/nurpe/liftquote/internal/http"
	"github.com/nurpe/liftquote/internal/http/middleware"
	"github.com/nurpe/liftquote/internal/httpclient"
	"github.com/nurpe/liftquote/internal/logger"
	"github.com/nurpe/liftquote/internal/mail"
	"github.com/nurpe/liftquote/internal/metrics"
	"github.com/nurpe/liftquote/internal/narrative"
	"github.com/nurpe/liftquote/internal/pdf"
	"github.com/nurpe/liftquote/internal/repository"
	"github.com/nurpe/liftquote/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Environment)
	decimal.MarshalJSONWithoutQuotes = true

	ref, err := catalog.Load(cfg.Pricing.CatalogFile, cfg.Pricing.DefaultCity)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load reference data")
	}
	engine := estimate.NewEngine(ref.Capacity, ref.Catalog,
		estimate.WithMarkups(cfg.Pricing.CrewMarkup, cfg.Pricing.CraneMarkup, cfg.Pricing.TransportMarkup),
		estimate.WithVATRate(cfg.Pricing.VATRate),
		estimate.WithCrewRate(cfg.Pricing.CrewRate),
		estimate.WithTransportFee(cfg.Pricing.TransportFee),
		estimate.WithHoursPerDay(cfg.Pricing.HoursPerDay),
	)

	submissions, err := newSubmissionRepository(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}

	m := metrics.New()
	quotes := service.NewQuoteService(service.Dependencies{
		Engine:      engine,
		Narrative:   newNarrative(cfg, log),
		Documents:   pdf.NewGenerator(),
		Sheets:      excel.NewGenerator(),
		Notifier:    newNotifier(cfg, log),
		Submissions: submissions,
		Recorder:    m,
	}, service.Options{
		Company:           cfg.CompanyName,
		InternalRecipient: cfg.Mail.To,
		NarrativeTimeout:  cfg.Narrative.Timeout,
	}, log)

	tokenParser := auth.NewParser(cfg.Auth.AccessSecret)
	handler := httphandler.NewHandler(quotes, ref.Catalog, ref.Capacity, log)
	authMiddleware := middleware.Auth(tokenParser)
	router := httphandler.NewRouter(handler, authMiddleware, m, httphandler.RouterConfig{
		Environment:    cfg.Environment,
		AllowedOrigins: cfg.HTTP.CORSAllowedOrigins,
	}, log)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	log.Info().
		Str("addr", addr).
		Strs("cities", ref.Catalog.Cities()).
		Bool("mail", cfg.MailEnabled()).
		Bool("narrative", cfg.NarrativeEnabled()).
		Msg("starting quote service")

	if err := router.Run(addr); err != nil {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}

func newSubmissionRepository(cfg *config.Config, log zerolog.Logger) (service.SubmissionRepository, error) {
	if cfg.DB.DSN == "" {
		log.Warn().Msg("DB_DSN not set, submissions are kept in memory")
		return repository.NewMemorySubmissionRepository(), nil
	}
	database, err := db.New(cfg, log)
	if err != nil {
		return nil, err
	}
	return repository.NewSubmissionRepository(database), nil
}

func newNotifier(cfg *config.Config, log zerolog.Logger) service.Notifier {
	if !cfg.MailEnabled() {
		log.Warn().Msg("mail provider not configured, submissions will record failed notifications")
		return mail.Disabled{}
	}
	client := httpclient.NewClient("mail", cfg.Mail.Timeout, log)
	return mail.NewSender(mail.Config{
		APIURL: cfg.Mail.APIURL,
		APIKey: cfg.Mail.APIKey,
		From:   cfg.Mail.From,
	}, client, log)
}

func newNarrative(cfg *config.Config, log zerolog.Logger) service.NarrativeGenerator {
	if !cfg.NarrativeEnabled() {
		return narrative.Disabled{}
	}
	client := httpclient.NewClientWithRetry("narrative", cfg.Narrative.Timeout, httpclient.RetryConfig{}, log)
	return narrative.NewClient(narrative.Config{
		APIURL: cfg.Narrative.APIURL,
		APIKey: cfg.Narrative.APIKey,
		Model:  cfg.Narrative.Model,
	}, client, log)
}
