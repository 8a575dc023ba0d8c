package services

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"selfcare/internal/config"
	"selfcare/internal/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	maxErrorLength = 500

	// statusWriteTimeout bounds the final status update once ctx is gone.
	statusWriteTimeout = 5 * time.Second
)

// DispatchResult counts the outcome of one worker pass.
type DispatchResult struct {
	Sent   int
	Failed int
}

// ReminderWorker polls for due reminders and emails their owners.
type ReminderWorker struct {
	db        *gorm.DB
	emails    *EmailService
	log       *zap.Logger
	interval  time.Duration
	batchSize int
	now       func() time.Time
}

func NewReminderWorker(db *gorm.DB, emails *EmailService, log *zap.Logger, cfg config.ReminderConfig) *ReminderWorker {
	return &ReminderWorker{
		db:        db,
		emails:    emails,
		log:       log.Named("reminder_worker"),
		interval:  cfg.Interval,
		batchSize: cfg.BatchSize,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Start runs the worker until ctx is cancelled. The returned channel is
// closed once the worker has stopped.
func (w *ReminderWorker) Start(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		w.run(ctx)
	}()
	return done
}

func (w *ReminderWorker) run(ctx context.Context) {
	w.log.Info("reminder worker started", zap.Duration("interval", w.interval))

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info("reminder worker stopped")
			return
		case <-ticker.C:
			if _, err := w.RunOnce(ctx); err != nil && ctx.Err() == nil {
				w.log.Error("reminder pass failed", zap.Error(err))
			}
		}
	}
}

// RunOnce sends every reminder that is due, up to the batch size.
func (w *ReminderWorker) RunOnce(ctx context.Context) (DispatchResult, error) {
	var result DispatchResult

	var due []models.Reminder
	if err := w.db.WithContext(ctx).
		Where("status = ? AND scheduled_time <= ?", models.ReminderPending, w.now()).
		Order("scheduled_time").
		Limit(w.batchSize).
		Find(&due).Error; err != nil {
		return result, err
	}

	for _, r := range due {
		if ctx.Err() != nil {
			return result, ctx.Err()
		}
		claimed, err := w.claim(ctx, r.ID)
		if err != nil {
			w.log.Error("failed to claim reminder", zap.Uint("reminder_id", r.ID), zap.Error(err))
			continue
		}
		if !claimed {
			continue
		}
		if w.dispatch(ctx, r) {
			result.Sent++
		} else {
			result.Failed++
		}
	}

	if result.Sent > 0 || result.Failed > 0 {
		w.log.Info("reminders dispatched", zap.Int("sent", result.Sent), zap.Int("failed", result.Failed))
	}
	return result, nil
}

// claim moves a reminder from pending to sending. Only one caller can win.
func (w *ReminderWorker) claim(ctx context.Context, id uint) (bool, error) {
	res := w.db.WithContext(ctx).
		Model(&models.Reminder{}).
		Where("id = ? AND status = ?", id, models.ReminderPending).
		Update("status", models.ReminderSending)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (w *ReminderWorker) dispatch(ctx context.Context, r models.Reminder) bool {
	log := w.log.With(zap.Uint("reminder_id", r.ID), zap.Uint("user_id", r.UserID))

	var user models.User
	err := w.db.WithContext(ctx).First(&user, r.UserID).Error
	if err == nil {
		err = w.emails.SendReminder(ctx, user, r)
	}

	// A claimed row must leave "sending" even if shutdown cancelled ctx.
	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), statusWriteTimeout)
	defer cancel()

	if err != nil {
		log.Warn("reminder not sent", zap.Error(err))
		msg := truncateUTF8(err.Error(), maxErrorLength)
		if uerr := w.db.WithContext(writeCtx).Model(&models.Reminder{}).Where("id = ?", r.ID).
			Updates(map[string]any{
				"status":     models.ReminderFailed,
				"last_error": msg,
			}).Error; uerr != nil {
			log.Error("failed to record reminder failure", zap.Error(uerr))
		}
		return false
	}

	sentAt := w.now()
	if uerr := w.db.WithContext(writeCtx).Model(&models.Reminder{}).Where("id = ?", r.ID).
		Updates(map[string]any{
			"status":     models.ReminderSent,
			"email_sent": true,
			"sent_at":    sentAt,
		}).Error; uerr != nil {
		log.Error("failed to record sent reminder", zap.Error(uerr))
	}
	log.Debug("reminder sent")
	return true
}

// truncateUTF8 cuts s to at most n bytes without splitting a rune. Invalid
// byte sequences are replaced first.
func truncateUTF8(s string, n int) string {
	s = strings.ToValidUTF8(s, "\uFFFD")
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
