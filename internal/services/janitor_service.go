package services

import (
	"Folio/internal/config"
	"Folio/internal/repository"
	"Folio/internal/storage"
	"context"
	"errors"
	"sync"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

const janitorBatchSize = 100

var ErrCleaningInProgress = errors.New("cleaning is in progress")

// CleanReport summarizes one janitor cycle.
type CleanReport struct {
	Removed         int
	Failed          int
	SessionsExpired int64
}

// Janitor retries blob deletions that failed while deleting nodes and drops
// expired sessions. Only one cycle runs at a time.
type Janitor struct {
	orphanBlobRepository repository.OrphanBlobRepository
	blobStore            storage.BlobStore
	authService          AuthService
	configuration        *config.Configuration
	logService           LogService
	cleaning             bool
	mutex                sync.Mutex
	cron                 *cron.Cron
}

func NewJanitorService(
	orphanBlobRepository repository.OrphanBlobRepository,
	blobStore storage.BlobStore,
	authService AuthService,
	logService LogService,
	configuration *config.Configuration,
) *Janitor {
	return &Janitor{
		orphanBlobRepository: orphanBlobRepository,
		blobStore:            blobStore,
		authService:          authService,
		logService:           logService,
		configuration:        configuration,
		cron:                 cron.New(),
	}
}

func (j *Janitor) tryBegin() bool {
	j.mutex.Lock()
	defer j.mutex.Unlock()
	if j.cleaning {
		return false
	}
	j.cleaning = true
	return true
}

func (j *Janitor) finish() {
	j.mutex.Lock()
	j.cleaning = false
	j.mutex.Unlock()
}

// ForceStartCleanCycle runs a cycle in the background right away.
func (j *Janitor) ForceStartCleanCycle() error {
	if !j.tryBegin() {
		return ErrCleaningInProgress
	}
	go func() {
		defer j.finish()
		j.startClean(context.Background(), true)
	}()
	return nil
}

func (j *Janitor) StartCleanCycle() error {
	schedule := j.configuration.Janitor.Schedule
	_, err := j.cron.AddFunc(schedule, func() {
		if !j.tryBegin() {
			return
		}
		defer j.finish()
		j.startClean(context.Background(), false)
	})
	if err != nil {
		j.logService.Log.WithFields(logrus.Fields{
			"job":   "clean",
			"cron":  schedule,
			"error": err.Error(),
		}).Error("failed to schedule cleaning job")
		return err
	}
	j.cron.Start()
	j.logService.Log.WithFields(logrus.Fields{
		"job":  "clean",
		"cron": schedule,
	}).Debug("cleaning job scheduled")
	return nil
}

// StopClean stops the schedule and waits for a running cycle to end.
func (j *Janitor) StopClean() {
	<-j.cron.Stop().Done()
	j.logService.Log.WithFields(logrus.Fields{
		"job":    "clean",
		"status": "stopped",
	}).Info("janitor stopped")
}

func (j *Janitor) IsCleaning() bool {
	j.mutex.Lock()
	defer j.mutex.Unlock()
	return j.cleaning
}

// RunOnce runs a cycle synchronously unless one is already running.
func (j *Janitor) RunOnce(ctx context.Context) (*CleanReport, error) {
	if !j.tryBegin() {
		return nil, ErrCleaningInProgress
	}
	defer j.finish()
	return j.startClean(ctx, true), nil
}

func (j *Janitor) startClean(ctx context.Context, forced bool) *CleanReport {
	logFields := logrus.Fields{"job": "clean", "status": "start"}
	if forced {
		logFields["status"] = "forced"
	} else {
		logFields["cron"] = j.configuration.Janitor.Schedule
	}
	j.logService.Log.WithFields(logFields).Debug("cleaning job started")

	report := &CleanReport{}
	orphans, err := j.orphanBlobRepository.FindBatch(ctx, janitorBatchSize)
	if err != nil {
		j.logService.Log.WithFields(logrus.Fields{
			"job":    "clean",
			"status": "error",
			"error":  err.Error(),
		}).Error("failed to load orphaned blobs")
	}

	for i := range orphans {
		orphan := &orphans[i]
		if err := j.blobStore.Delete(ctx, orphan.BlobKey); err != nil {
			report.Failed++
			j.logService.Log.WithFields(logrus.Fields{
				"job":      "clean",
				"status":   "error",
				"blob":     orphan.BlobKey,
				"attempts": orphan.Attempts + 1,
				"error":    err.Error(),
			}).Error("failed to delete orphaned blob")
			if markErr := j.orphanBlobRepository.MarkFailed(ctx, orphan, err); markErr != nil {
				j.logService.Log.WithError(markErr).Error("failed to update orphaned blob")
			}
			continue
		}
		if err := j.orphanBlobRepository.Delete(ctx, orphan.ID); err != nil {
			j.logService.Log.WithError(err).Error("failed to forget orphaned blob")
			continue
		}
		report.Removed++
	}

	if j.authService != nil {
		expired, err := j.authService.PurgeExpiredSessions(ctx)
		if err != nil {
			j.logService.Log.WithFields(logrus.Fields{
				"job":   "clean",
				"error": err.Error(),
			}).Error("failed to purge expired sessions")
		}
		report.SessionsExpired = expired
	}

	if report.Removed > 0 || report.Failed > 0 || report.SessionsExpired > 0 {
		j.logService.Log.WithFields(logrus.Fields{
			"job":      "clean",
			"status":   "success",
			"removed":  report.Removed,
			"failed":   report.Failed,
			"sessions": report.SessionsExpired,
		}).Info("cleaning job finished")
	}
	return report
}
