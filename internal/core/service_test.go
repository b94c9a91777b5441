package core

import (
	"bytes"
	"context"
	"testing"

	"github.com/JonMunkholm/barcodesheet/internal/audit"
	"github.com/JonMunkholm/barcodesheet/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_IngestAndExportAudited(t *testing.T) {
	rec := &audit.Memory{}
	svc := NewService(config.Default(), rec)

	c, created := svc.Session("")
	require.True(t, created)

	ctx := ContextWithUserAgent(ContextWithIPAddress(context.Background(), "10.0.0.7"), "test-agent")

	ws, err := svc.Ingest(ctx, c, "serials.xlsx", twoRecords(t))
	require.NoError(t, err)
	require.Equal(t, 2, ws.Len())

	var buf bytes.Buffer
	summary, err := svc.Export(ctx, c, &buf)
	require.NoError(t, err)
	assert.Equal(t, 4, summary.ImagesPlaced)

	entries := rec.Entries()
	require.Len(t, entries, 2)

	assert.Equal(t, audit.ActionIngest, entries[0].Action)
	assert.Equal(t, c.ID(), entries[0].SessionID)
	assert.Equal(t, "serials.xlsx", entries[0].Source)
	assert.Equal(t, 2, entries[0].Records)
	assert.Equal(t, "10.0.0.7", entries[0].IPAddress)
	assert.Equal(t, "test-agent", entries[0].UserAgent)

	assert.Equal(t, audit.ActionExport, entries[1].Action)
	assert.Equal(t, 4, entries[1].ImagesPlaced)
	assert.Equal(t, 1, entries[1].Pages)
}

func TestService_FailuresNotAudited(t *testing.T) {
	rec := &audit.Memory{}
	svc := NewService(config.Default(), rec)
	c, _ := svc.Session("")

	_, err := svc.Export(context.Background(), c, &bytes.Buffer{})
	assert.ErrorIs(t, err, ErrNoRecords)

	_, err = svc.Ingest(context.Background(), c, "x.xlsx", bytes.NewReader(nil))
	assert.Error(t, err)

	assert.Empty(t, rec.Entries())
}

func TestService_Defaults(t *testing.T) {
	cfg := config.Default()
	svc := NewService(cfg, nil)

	assert.Equal(t, "barcodes.pdf", svc.ExportFilename())
	assert.Equal(t, cfg.Export.MaxConcurrent, svc.ExportLimiterStatus().MaxConcurrent)

	opts := SymbolOptions(cfg)
	assert.Equal(t, 1.5, opts.ModuleWidth)
	assert.Equal(t, 50.0, opts.Height)
	assert.True(t, opts.DisplayValue)

	require.NoError(t, svc.WaitForExports(context.Background()))
}

func TestService_RecentAudit(t *testing.T) {
	rec := &audit.Memory{}
	svc := NewService(config.Default(), rec)
	c, _ := svc.Session("")

	_, err := svc.Ingest(context.Background(), c, "serials.xlsx", twoRecords(t))
	require.NoError(t, err)

	entries, err := svc.RecentAudit(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, audit.ActionIngest, entries[0].Action)

	entries, err = NewService(config.Default(), nil).RecentAudit(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
