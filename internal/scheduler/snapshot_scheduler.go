package scheduler

import (
	"context"
	"time"

	"github.com/cixi/storefront-backend/internal/app/repository"
	"github.com/cixi/storefront-backend/internal/app/service"
	"github.com/cixi/storefront-backend/internal/storage"
	"github.com/cixi/storefront-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

const snapshotTimeout = 2 * time.Minute

// SnapshotUploader stores a rendered snapshot; storage.S3Storage satisfies it
type SnapshotUploader interface {
	PutObject(ctx context.Context, key, contentType string, data []byte) (string, error)
}

// SnapshotScheduler periodically exports the whole catalog as XLSX to object storage
type SnapshotScheduler struct {
	cron          *cron.Cron
	spec          string
	exportService service.ExportService
	uploader      SnapshotUploader
}

func NewSnapshotScheduler(spec string, exportService service.ExportService, uploader SnapshotUploader) *SnapshotScheduler {
	return &SnapshotScheduler{
		cron:          cron.New(),
		spec:          spec,
		exportService: exportService,
		uploader:      uploader,
	}
}

func (s *SnapshotScheduler) Start() error {
	_, err := s.cron.AddFunc(s.spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), snapshotTimeout)
		defer cancel()
		if _, err := s.RunOnce(ctx); err != nil {
			logger.Error("Scheduled catalog snapshot failed", err)
		}
	})
	if err != nil {
		logger.Error("Failed to add cron job for catalog snapshot", err, map[string]interface{}{
			"spec": s.spec,
		})
		return err
	}

	s.cron.Start()
	logger.Info("Catalog snapshot scheduler started", map[string]interface{}{
		"spec": s.spec,
	})
	return nil
}

// RunOnce exports and uploads one snapshot, returning its URL
func (s *SnapshotScheduler) RunOnce(ctx context.Context) (string, error) {
	file, err := s.exportService.ExportProducts(service.ExportXLSX, repository.ProductFilter{})
	if err != nil {
		return "", err
	}

	url, err := s.uploader.PutObject(ctx, storage.SnapshotFolder+"/"+file.Name, file.ContentType, file.Data)
	if err != nil {
		return "", err
	}
	logger.Info("Catalog snapshot stored", map[string]interface{}{
		"url":   url,
		"bytes": len(file.Data),
	})
	return url, nil
}

// Stop waits for a running snapshot to finish
func (s *SnapshotScheduler) Stop() {
	logger.Info("Stopping catalog snapshot scheduler")
	<-s.cron.Stop().Done()
	logger.Info("Catalog snapshot scheduler stopped")
}
