// Command mintyfresh runs the weekly finance report pipeline once:
// pull transactions, categorize, aggregate, and email the result.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/carmstrong/mintyfresh/internal/config"
	"github.com/carmstrong/mintyfresh/internal/export"
	"github.com/carmstrong/mintyfresh/internal/logger"
	"github.com/carmstrong/mintyfresh/internal/mailer"
	"github.com/carmstrong/mintyfresh/internal/mapping"
	"github.com/carmstrong/mintyfresh/internal/render"
	"github.com/carmstrong/mintyfresh/internal/source"
	"github.com/carmstrong/mintyfresh/pkg/minty"
)

const runTimeout = 5 * time.Minute

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log := logger.New("info")
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	ctx, cancelTimeout := context.WithTimeout(ctx, runTimeout)
	defer cancelTimeout()

	if err := run(ctx, cfg, log); err != nil {
		log.Error().Err(err).Msg("Report run failed")
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	src := source.New(&source.Options{
		BaseURL: cfg.SourceURL,
		Token:   cfg.SourceToken,
		RetryConfig: &source.RetryConfig{
			MaxRetries: 3,
			RetryWait:  time.Second,
			MaxWait:    10 * time.Second,
		},
		Logger: &log,
	})

	mappingCfg := mapping.Config{
		Backend:       cfg.MappingBackend,
		CSVPath:       cfg.MappingPath,
		SpreadsheetID: cfg.SpreadsheetID,
		ReadRange:     cfg.MappingReadRange,
	}
	if cfg.MappingBackend == mapping.BackendSheets {
		creds, err := os.ReadFile(cfg.SheetsCredentials)
		if err != nil {
			return err
		}
		mappingCfg.CredentialsJSON = creds
	}
	loader, err := mapping.New(ctx, mappingCfg)
	if err != nil {
		return err
	}

	var exporter minty.Exporter
	if cfg.ExportBackend != "none" {
		exporter, err = export.New(cfg.ExportBackend, cfg.ExportPath)
		if err != nil {
			return err
		}
	}

	renderer, err := render.New(&render.Options{
		ReconciliationRows: cfg.ReconciliationRows,
		CategoryLinkBase:   cfg.CategoryLinkBase,
	})
	if err != nil {
		return err
	}

	sender, err := mailer.New(mailer.Config{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.MailFrom,
		To:       cfg.MailTo,
	})
	if err != nil {
		return err
	}

	client, err := minty.NewClient(&minty.ClientOptions{
		Source:      src,
		Mapping:     loader,
		Exporter:    exporter,
		Renderer:    renderer,
		Sender:      sender,
		SinceDate:   cfg.SinceDate,
		PivotMonths: cfg.PivotMonths,
		Subject:     cfg.Subject,
		Logger:      &zerologAdapter{log: log},
		SentryDSN:   cfg.SentryDSN,
	})
	if err != nil {
		return err
	}
	defer client.Close()

	log.Info().
		Str("source", cfg.SourceURL).
		Str("mapping_backend", cfg.MappingBackend).
		Str("export_backend", cfg.ExportBackend).
		Msg("Starting report run")

	return client.Reports.Run(ctx)
}

// zerologAdapter exposes a zerolog.Logger through the pipeline's
// key/value logging interface.
type zerologAdapter struct {
	log zerolog.Logger
}

func (a *zerologAdapter) Debug(msg string, keysAndValues ...interface{}) {
	a.event(a.log.Debug(), keysAndValues).Msg(msg)
}

func (a *zerologAdapter) Info(msg string, keysAndValues ...interface{}) {
	a.event(a.log.Info(), keysAndValues).Msg(msg)
}

func (a *zerologAdapter) Warn(msg string, keysAndValues ...interface{}) {
	a.event(a.log.Warn(), keysAndValues).Msg(msg)
}

func (a *zerologAdapter) Error(msg string, keysAndValues ...interface{}) {
	a.event(a.log.Error(), keysAndValues).Msg(msg)
}

func (a *zerologAdapter) event(e *zerolog.Event, keysAndValues []interface{}) *zerolog.Event {
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		e = e.Interface(key, keysAndValues[i+1])
	}
	return e
}
