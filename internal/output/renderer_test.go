package output_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/jonesrussell/north-cloud/tenderned-notice/internal/domain"
	infralogger "github.com/jonesrussell/north-cloud/tenderned-notice/internal/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/tenderned-notice/internal/output"
)

var sample = &domain.Notice{
	PublicationID:    300000,
	Title:            "Road Maintenance 2024",
	ShortDescription: "Resurfacing of municipal roads.",
	ReferenceNumber:  "RM-24",
}

func TestNew_UnknownFormat(t *testing.T) {
	t.Parallel()

	_, err := output.New("csv", &bytes.Buffer{}, infralogger.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "csv")
}

func TestTableRenderer(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	r, err := output.New(output.FormatTable, &buf, infralogger.NewNop())
	require.NoError(t, err)
	require.NoError(t, r.Render(sample))

	out := buf.String()
	assert.Contains(t, out, "Road Maintenance 2024")
	assert.Contains(t, out, "300000")
	assert.Contains(t, out, "RM-24")
	assert.Contains(t, out, "Resurfacing of municipal roads.")
}

func TestTableRenderer_OmitsEmptyOptionalRows(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	r, err := output.New(output.FormatTable, &buf, infralogger.NewNop())
	require.NoError(t, err)
	require.NoError(t, r.Render(&domain.Notice{PublicationID: 1, Title: "Only title"}))

	assert.Contains(t, buf.String(), "Only title")
	assert.NotContains(t, buf.String(), "Reference")
	assert.NotContains(t, buf.String(), "Description")
}

func TestJSONRenderer(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	r, err := output.New(output.FormatJSON, &buf, infralogger.NewNop())
	require.NoError(t, err)
	require.NoError(t, r.Render(sample))

	var got domain.Notice
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, *sample, got)
	assert.Contains(t, buf.String(), `"publication_id": 300000`)
}

func TestLogRenderer_WritesNothingToOutput(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.InfoLevel)
	var buf bytes.Buffer

	r, err := output.New(output.FormatLog, &buf, infralogger.NewFromZap(zap.New(core)))
	require.NoError(t, err)
	require.NoError(t, r.Render(sample))

	assert.Empty(t, buf.String())
	entries := logs.FilterMessage("Notice parsed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "300000", entries[0].ContextMap()["publication_id"])
	assert.Equal(t, "RM-24", entries[0].ContextMap()["reference_number"])
}
