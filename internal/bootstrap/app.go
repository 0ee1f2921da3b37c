// Package bootstrap wires configuration, logging, the TenderNed client and the notice
// parser into a single retrieval run.
package bootstrap

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jonesrussell/north-cloud/tenderned-notice/internal/config"
	"github.com/jonesrussell/north-cloud/tenderned-notice/internal/domain"
	infralogger "github.com/jonesrussell/north-cloud/tenderned-notice/internal/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/tenderned-notice/internal/metrics"
	"github.com/jonesrussell/north-cloud/tenderned-notice/internal/notice"
	"github.com/jonesrussell/north-cloud/tenderned-notice/internal/output"
	"github.com/jonesrussell/north-cloud/tenderned-notice/internal/tenderned"
)

// Options holds per-invocation settings that do not belong in the config file.
type Options struct {
	// PublicationID is passed through unchanged; non-positive ids fail validation.
	PublicationID domain.PublicationID
	// Stdout receives table and JSON output. Defaults to os.Stdout.
	Stdout io.Writer
	// Now defaults to time.Now.
	Now func() time.Time
}

// Run retrieves one notice and reports its contract title.
//
// Missing credentials are logged and end the run without error and without any
// network request. Every other failure is logged and returned.
func Run(ctx context.Context, cfg *config.Config, log infralogger.Logger, opts Options) error {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	m := metrics.New()
	defer writeMetrics(cfg, m, log)

	creds := cfg.Credentials()
	if !creds.Complete() {
		err := domain.NewConfigurationError(domain.ErrMissingCredentials)
		m.ObserveFailure(err)
		log.Error("Missing API credentials",
			infralogger.Bool("username_set", creds.Username != ""),
			infralogger.Bool("password_set", creds.Password != ""),
		)
		return nil
	}

	renderer, renderErr := output.New(cfg.Output.Format, opts.Stdout, log)
	if renderErr != nil {
		return domain.NewConfigurationError(renderErr)
	}

	session := tenderned.NewSession(creds, cfg.ClientConfig())
	client := tenderned.NewClient(session, log,
		tenderned.WithBaseURL(cfg.API.BaseURL),
		tenderned.WithMetrics(m),
	)

	n, err := fetchAndParse(ctx, client, notice.NewParser(log), opts.PublicationID)
	if err != nil {
		m.ObserveFailure(err)
		log.Error("Notice retrieval failed",
			infralogger.Int64("publication_id", int64(opts.PublicationID)),
			infralogger.String("kind", kindLabel(err)),
			infralogger.Error(err),
		)
		return err
	}

	m.ObserveNotice(opts.Now())

	if outErr := renderer.Render(n); outErr != nil {
		return fmt.Errorf("render notice: %w", outErr)
	}

	return nil
}

func fetchAndParse(
	ctx context.Context,
	client *tenderned.Client,
	parser *notice.Parser,
	id domain.PublicationID,
) (*domain.Notice, error) {
	body, err := client.FetchNoticeXML(ctx, id)
	if err != nil {
		return nil, err
	}

	n, err := parser.Parse(body)
	if err != nil {
		return nil, err
	}
	n.PublicationID = id

	return n, nil
}

func writeMetrics(cfg *config.Config, m *metrics.Metrics, log infralogger.Logger) {
	if cfg.Output.MetricsFile == "" {
		return
	}
	if err := m.WriteTextfile(cfg.Output.MetricsFile); err != nil {
		log.Warn("Failed to write metrics", infralogger.Error(err))
	}
}

func kindLabel(err error) string {
	if kind, ok := domain.KindOf(err); ok {
		return string(kind)
	}
	return "unknown"
}
