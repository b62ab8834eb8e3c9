package usage

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/clinsys/lab-gateway/internal/core/domain"
	"github.com/clinsys/lab-gateway/internal/core/ports/out"
)

// Tracker records per-instance request and failure counters. It is
// deliberately forgiving: a store failure is logged and swallowed so
// tracking can never mask the result of the remote operation it
// accounts for.
type Tracker struct {
	store out.UsageStorePort
	clock out.Clock

	// After failureThreshold consecutive remote failures an ATIVA
	// instance moves to ERRO; a later success moves it back. Zero
	// disables the policy.
	failureThreshold int

	mu     sync.Mutex
	logger out.LoggerPort
}

func NewTracker(store out.UsageStorePort, clock out.Clock, failureThreshold int, logger out.LoggerPort) *Tracker {
	return &Tracker{
		store:            store,
		clock:            clock,
		failureThreshold: failureThreshold,
		logger:           logger.WithModule("UsageTracker"),
	}
}

func (t *Tracker) RecordAttempt(ctx context.Context, instanceID uuid.UUID, success bool, errText string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	instance, err := t.store.GetInstance(ctx, instanceID)
	if err != nil {
		t.logger.Warn("usage.record.load_failed", out.LogFields{
			"instanceId": instanceID,
			"error":      err.Error(),
		})
		return
	}

	now := t.clock.Now()
	today := now.Format("2006-01-02")

	// Counters belong to a single day; roll over before counting.
	if instance.DailyResetDate != today {
		instance.DailyResetDate = today
		instance.RequestsToday = 0
		instance.FailedAttempts = 0
	}

	instance.RequestsToday++
	instance.LastAttemptAt = &now

	if success {
		instance.ConsecutiveFailures = 0
		instance.LastSyncAt = &now
		instance.LastError = ""
		if instance.Status == domain.InstanceStatusError {
			instance.Status = domain.InstanceStatusActive
		}
	} else {
		instance.FailedAttempts++
		instance.ConsecutiveFailures++
		instance.LastError = errText

		if t.failureThreshold > 0 &&
			instance.ConsecutiveFailures >= t.failureThreshold &&
			instance.Status == domain.InstanceStatusActive {
			instance.Status = domain.InstanceStatusError
			t.logger.Warn("usage.instance.marked_error", out.LogFields{
				"instanceId":          instanceID,
				"consecutiveFailures": instance.ConsecutiveFailures,
			})
		}
	}

	if err := t.store.SaveInstance(ctx, instance); err != nil {
		t.logger.Warn("usage.record.save_failed", out.LogFields{
			"instanceId": instanceID,
			"error":      err.Error(),
		})
	}
}

func (t *Tracker) Snapshot(ctx context.Context, instanceID uuid.UUID) (*domain.UsageSnapshot, error) {
	instance, err := t.store.GetInstance(ctx, instanceID)
	if err != nil {
		return nil, err
	}

	return &domain.UsageSnapshot{
		InstanceID:          instance.ID,
		TemplateSlug:        instance.TemplateSlug,
		Status:              instance.Status,
		RequestsToday:       instance.RequestsToday,
		FailedAttempts:      instance.FailedAttempts,
		ConsecutiveFailures: instance.ConsecutiveFailures,
		DailyResetDate:      instance.DailyResetDate,
		LastAttemptAt:       instance.LastAttemptAt,
		LastSyncAt:          instance.LastSyncAt,
		LastError:           instance.LastError,
	}, nil
}
