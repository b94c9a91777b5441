package core

import (
	"context"
	"io"
	"time"

	"github.com/JonMunkholm/barcodesheet/internal/audit"
	"github.com/JonMunkholm/barcodesheet/internal/config"
	"github.com/JonMunkholm/barcodesheet/internal/logging"
	"github.com/JonMunkholm/barcodesheet/internal/symbol"
)

// auditTimeout bounds audit writes so a slow database never stalls a request.
const auditTimeout = 5 * time.Second

// Service wires sessions, the exporter and auditing together for the web
// layer.
type Service struct {
	cfg      *config.Config
	sessions *SessionStore
	limiter  *ExportLimiter
	exporter *Exporter
	recorder audit.Recorder
}

// NewService creates a Service from configuration. A nil recorder disables
// auditing.
func NewService(cfg *config.Config, recorder audit.Recorder) *Service {
	if recorder == nil {
		recorder = audit.Nop{}
	}

	limiter := NewExportLimiter(cfg.Export.MaxConcurrent, cfg.Export.MaxWaitTime)
	return &Service{
		cfg:      cfg,
		sessions: NewSessionStore(cfg.Session.TTL, SymbolOptions(cfg)),
		limiter:  limiter,
		exporter: NewExporter(ExporterConfig{
			Limiter:     limiter,
			RasterScale: cfg.Symbol.RasterScale,
			Timeout:     cfg.Export.Timeout,
		}),
		recorder: recorder,
	}
}

// SymbolOptions derives rendering options from configuration.
func SymbolOptions(cfg *config.Config) symbol.Options {
	opts := symbol.DefaultOptions()
	opts.ModuleWidth = cfg.Symbol.ModuleWidth
	opts.Height = cfg.Symbol.Height
	opts.DisplayValue = cfg.Symbol.DisplayValue
	return opts
}

// Session returns the controller for id, creating one when id is unknown.
func (s *Service) Session(id string) (*Controller, bool) {
	return s.sessions.GetOrCreate(id)
}

// Sessions exposes the session store.
func (s *Service) Sessions() *SessionStore {
	return s.sessions
}

// Ingest replaces the session's workspace with the records read from r.
func (s *Service) Ingest(ctx context.Context, c *Controller, name string, r io.Reader) (*Workspace, error) {
	ws, err := c.Ingest(ctx, name, r)
	if err != nil {
		return nil, err
	}

	s.record(ctx, audit.Entry{
		Action:     audit.ActionIngest,
		SessionID:  c.ID(),
		Source:     name,
		Generation: ws.Generation,
		Records:    ws.Len(),
	})
	return ws, nil
}

// Export writes the session's workspace as a PDF to w.
func (s *Service) Export(ctx context.Context, c *Controller, w io.Writer) (ExportSummary, error) {
	summary, err := s.exporter.Export(ctx, c, w)
	if err != nil {
		return summary, err
	}

	s.record(ctx, audit.Entry{
		Action:        audit.ActionExport,
		SessionID:     c.ID(),
		Source:        c.Workspace().Source,
		Generation:    summary.Generation,
		Records:       summary.Records,
		ImagesPlaced:  summary.ImagesPlaced,
		ImagesOmitted: summary.ImagesOmitted,
		Pages:         summary.Pages,
	})
	return summary, nil
}

// ExportFilename is the download name of exported documents.
func (s *Service) ExportFilename() string {
	return s.cfg.Export.Filename
}

// StartSessionSweeper removes expired sessions until ctx is cancelled.
func (s *Service) StartSessionSweeper(ctx context.Context) {
	s.sessions.Run(ctx, s.cfg.Session.CleanupInterval)
}

// ExportLimiterStatus reports export slot usage.
func (s *Service) ExportLimiterStatus() ExportLimiterStatus {
	return s.limiter.Status()
}

// WaitForExports blocks until in-flight exports finish or ctx is done.
func (s *Service) WaitForExports(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}

// record writes an audit entry. Failures are logged, never returned.
func (s *Service) record(ctx context.Context, e audit.Entry) {
	e.IPAddress = IPAddressFromContext(ctx)
	e.UserAgent = UserAgentFromContext(ctx)

	actx, cancel := context.WithTimeout(context.WithoutCancel(ctx), auditTimeout)
	defer cancel()

	if err := s.recorder.Record(actx, e); err != nil {
		logging.FromContext(ctx).Warn("audit write failed",
			"action", e.Action,
			"session", e.SessionID,
			"error", err,
		)
	}
}

// RecentAudit returns the newest audit entries when the recorder can list
// them, and an empty list otherwise.
func (s *Service) RecentAudit(ctx context.Context, limit int) ([]audit.Entry, error) {
	lister, ok := s.recorder.(audit.Lister)
	if !ok {
		return []audit.Entry{}, nil
	}
	return lister.Recent(ctx, limit)
}
