package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-seating-api/internal/dto"
	appErrors "github.com/noah-isme/sma-seating-api/pkg/errors"
	"github.com/noah-isme/sma-seating-api/pkg/storage"
)

type chartSourceStub struct {
	snapshot *dto.GridSnapshot
	err      error
}

func (s *chartSourceStub) Grid(ctx context.Context, arrangementID string) (*dto.GridSnapshot, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.snapshot, nil
}

func newExportFixture(t *testing.T) (*ExportService, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewLocalStorage(dir)
	require.NoError(t, err)
	signer := storage.NewSignedURLSigner("test-secret", time.Minute)

	grids := &chartSourceStub{
		snapshot: &dto.GridSnapshot{
			ArrangementID: "arr-1",
			SeatCount:     4,
			Seats: []dto.GridSeat{
				{Seat: 1, StudentID: "alice", FullName: "Alice"},
				{Seat: 2},
				{Seat: 3, StudentID: "bob", FullName: "Bob"},
				{Seat: 4},
			},
		},
	}
	return NewExportService(grids, store, signer, nil, ExportConfig{}), dir
}

func TestExportEnqueueRejectsUnknownFormat(t *testing.T) {
	service, _ := newExportFixture(t)

	_, err := service.Enqueue(context.Background(), "arr-1", dto.ExportRequest{Format: "xlsx"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestExportRoundTrip(t *testing.T) {
	service, _ := newExportFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	service.Start(ctx)
	defer service.Stop()

	job, err := service.Enqueue(ctx, "arr-1", dto.ExportRequest{Format: "csv"})
	require.NoError(t, err)
	assert.NotEmpty(t, job.Token)
	assert.True(t, job.ExpiresAt.After(time.Now()))

	var file *os.File
	require.Eventually(t, func() bool {
		file, err = service.Download(job.Token)
		return err == nil
	}, 2*time.Second, 20*time.Millisecond, "export should become downloadable")
	defer file.Close()

	assert.Equal(t, ".csv", filepath.Ext(file.Name()))
	info, err := file.Stat()
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestExportDownloadRejectsBadToken(t *testing.T) {
	service, _ := newExportFixture(t)

	_, err := service.Download("not-a-token")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}
