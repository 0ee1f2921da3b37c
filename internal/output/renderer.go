// Package output reports a parsed notice in the format chosen on the command line.
package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/jonesrussell/north-cloud/tenderned-notice/internal/domain"
	infralogger "github.com/jonesrussell/north-cloud/tenderned-notice/internal/infrastructure/logger"
)

// Supported formats.
const (
	FormatLog   = "log"
	FormatTable = "table"
	FormatJSON  = "json"
)

// Renderer reports one notice.
type Renderer interface {
	Render(n *domain.Notice) error
}

// New returns the renderer for format. Table and JSON output go to w; log output
// goes to log only.
func New(format string, w io.Writer, log infralogger.Logger) (Renderer, error) {
	switch format {
	case FormatLog, "":
		return &LogRenderer{logger: log}, nil
	case FormatTable:
		return &TableRenderer{out: w}, nil
	case FormatJSON:
		return &JSONRenderer{out: w}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}

// LogRenderer writes the notice details as a structured log entry.
type LogRenderer struct {
	logger infralogger.Logger
}

// Render logs the notice.
func (r *LogRenderer) Render(n *domain.Notice) error {
	r.logger.Info("Notice parsed",
		infralogger.String("publication_id", n.PublicationID.String()),
		infralogger.String("reference_number", n.ReferenceNumber),
		infralogger.Int("short_description_length", len(n.ShortDescription)),
	)
	return nil
}

// TableRenderer prints the notice as a two-column table.
type TableRenderer struct {
	out io.Writer
}

// Render formats and writes the notice table.
func (r *TableRenderer) Render(n *domain.Notice) error {
	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetStyle(table.StyleLight)

	t.AppendHeader(table.Row{"Field", "Value"})
	t.AppendRow(table.Row{"Publication ID", n.PublicationID.String()})
	t.AppendRow(table.Row{"Title", n.Title})
	if n.ReferenceNumber != "" {
		t.AppendRow(table.Row{"Reference", n.ReferenceNumber})
	}
	if n.ShortDescription != "" {
		t.AppendRow(table.Row{"Description", n.ShortDescription})
	}

	t.Render()
	return nil
}

// JSONRenderer writes the notice as indented JSON.
type JSONRenderer struct {
	out io.Writer
}

// Render encodes the notice.
func (r *JSONRenderer) Render(n *domain.Notice) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(n); err != nil {
		return fmt.Errorf("encode notice: %w", err)
	}
	return nil
}
