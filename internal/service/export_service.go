package service

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-seating-api/internal/dto"
	appErrors "github.com/noah-isme/sma-seating-api/pkg/errors"
	"github.com/noah-isme/sma-seating-api/pkg/export"
	"github.com/noah-isme/sma-seating-api/pkg/jobs"
	"github.com/noah-isme/sma-seating-api/pkg/storage"
)

const chartColumns = 8

type chartSource interface {
	Grid(ctx context.Context, arrangementID string) (*dto.GridSnapshot, error)
}

type chartStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

// ExportService renders seating charts asynchronously and serves them through
// signed download tokens.
type ExportService struct {
	grids     chartSource
	storage   chartStorage
	signer    *storage.SignedURLSigner
	queue     *jobs.Queue
	csv       *export.CSVExporter
	pdf       *export.PDFExporter
	retention time.Duration
	logger    *zap.Logger
}

// ExportConfig governs worker behaviour and file retention.
type ExportConfig struct {
	WorkerConcurrency int
	WorkerRetries     int
	RetentionTTL      time.Duration
}

type exportJobPayload struct {
	ArrangementID string
	Format        string
	Filename      string
}

// NewExportService constructs the export service and its worker queue.
func NewExportService(grids chartSource, store chartStorage, signer *storage.SignedURLSigner, logger *zap.Logger, cfg ExportConfig) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.RetentionTTL <= 0 {
		cfg.RetentionTTL = 24 * time.Hour
	}
	s := &ExportService{
		grids:     grids,
		storage:   store,
		signer:    signer,
		csv:       export.NewCSVExporter(),
		pdf:       export.NewPDFExporter(),
		retention: cfg.RetentionTTL,
		logger:    logger,
	}
	s.queue = jobs.NewQueue("seating-exports", s.process, jobs.QueueConfig{
		Workers:    cfg.WorkerConcurrency,
		MaxRetries: cfg.WorkerRetries,
		Logger:     logger,
	})
	return s
}

// Start launches the export workers and the retention sweep. Files older
// than the retention TTL are unreachable because their tokens have expired,
// so the sweep only reclaims disk space.
func (s *ExportService) Start(ctx context.Context) {
	s.queue.Start(ctx)
	go s.sweep(ctx)
}

func (s *ExportService) sweep(ctx context.Context) {
	ticker := time.NewTicker(s.retention)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := s.storage.CleanupOlderThan(s.retention)
			if err != nil {
				s.logger.Warn("export cleanup failed", zap.Error(err))
				continue
			}
			if len(removed) > 0 {
				s.logger.Info("expired exports removed", zap.Int("count", len(removed)))
			}
		}
	}
}

// Stop drains the export workers.
func (s *ExportService) Stop() {
	s.queue.Stop()
}

// Enqueue schedules a chart export and returns its signed download token.
func (s *ExportService) Enqueue(ctx context.Context, arrangementID string, req dto.ExportRequest) (*dto.ExportJobResponse, error) {
	if req.Format != "csv" && req.Format != "pdf" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}
	if _, err := s.grids.Grid(ctx, arrangementID); err != nil {
		return nil, err
	}

	jobID := uuid.NewString()
	filename := fmt.Sprintf("%s/%s.%s", arrangementID, jobID, req.Format)
	token, expiresAt, err := s.signer.Generate(jobID, filename)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign download token")
	}

	err = s.queue.Enqueue(jobs.Job{
		ID:   jobID,
		Type: "chart_export",
		Payload: exportJobPayload{
			ArrangementID: arrangementID,
			Format:        req.Format,
			Filename:      filename,
		},
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enqueue export")
	}

	return &dto.ExportJobResponse{JobID: jobID, Token: token, ExpiresAt: expiresAt}, nil
}

// Download validates a token and opens the rendered file. Files still being
// rendered surface as not found; the client retries.
func (s *ExportService) Download(token string) (*os.File, error) {
	_, relPath, _, err := s.signer.Parse(token, false)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrForbidden.Code, appErrors.ErrForbidden.Status, "invalid download token")
	}
	file, err := s.storage.Open(relPath)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "export not ready or expired")
	}
	return file, nil
}

func (s *ExportService) process(ctx context.Context, job jobs.Job) error {
	payload, ok := job.Payload.(exportJobPayload)
	if !ok {
		return fmt.Errorf("unexpected payload for job %s", job.ID)
	}

	snapshot, err := s.grids.Grid(ctx, payload.ArrangementID)
	if err != nil {
		return fmt.Errorf("load grid for export: %w", err)
	}

	started := time.Now()
	var rendered []byte
	switch payload.Format {
	case "pdf":
		occupants := make(map[int]string, len(snapshot.Seats))
		for _, cell := range snapshot.Seats {
			if cell.StudentID != "" {
				occupants[cell.Seat] = cell.FullName
			}
		}
		rendered, err = s.pdf.RenderSeatingChart("Seating Chart", snapshot.SeatCount, chartColumns, occupants)
	default:
		dataset := export.Dataset{Headers: []string{"seat", "student_id", "student_name"}}
		for _, cell := range snapshot.Seats {
			dataset.Rows = append(dataset.Rows, map[string]string{
				"seat":         fmt.Sprintf("%d", cell.Seat),
				"student_id":   cell.StudentID,
				"student_name": cell.FullName,
			})
		}
		rendered, err = s.csv.Render(dataset)
	}
	if err != nil {
		return fmt.Errorf("render %s export: %w", payload.Format, err)
	}

	if _, err := s.storage.Save(payload.Filename, rendered); err != nil {
		return fmt.Errorf("store export: %w", err)
	}

	s.logger.Info("seating chart exported",
		zap.String("arrangement_id", payload.ArrangementID),
		zap.String("format", payload.Format),
		zap.Duration("took", time.Since(started)))
	return nil
}
