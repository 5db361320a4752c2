package jobs

import (
	"context"
	"time"

	"munaybol/constants"
	"munaybol/models"
	"munaybol/services/logger"

	"github.com/robfig/cron/v3"
)

// ReminderSender notifies owners of stays starting on a given day
type ReminderSender interface {
	SendCheckInReminders(ctx context.Context, day models.Date) (int, error)
}

// SessionArchiver archives chat sessions idle for longer than idle
type SessionArchiver interface {
	ArchiveIdleSessions(ctx context.Context, idle time.Duration) (int64, error)
}

const jobTimeout = 5 * time.Minute

// InitCronJobs registers the daily jobs and starts the scheduler
func InitCronJobs(c *cron.Cron, reminders ReminderSender, archiver SessionArchiver, log logger.Logger) error {
	// 08:00 every day
	if _, err := c.AddFunc("0 8 * * *", func() {
		RunCheckInReminders(reminders, models.Today().AddDays(1), log)
	}); err != nil {
		return err
	}

	// 03:00 every day
	if _, err := c.AddFunc("0 3 * * *", func() {
		RunArchive(archiver, log)
	}); err != nil {
		return err
	}

	c.Start()
	log.Info("Cron jobs iniciados")
	return nil
}

func RunCheckInReminders(reminders ReminderSender, day models.Date, log logger.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	n, err := reminders.SendCheckInReminders(ctx, day)
	if err != nil {
		log.Error("Error enviando recordatorios de check-in: %v", err)
		return
	}
	log.Info("Recordatorios de check-in enviados para %s: %d", day, n)
}

func RunArchive(archiver SessionArchiver, log logger.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	if _, err := archiver.ArchiveIdleSessions(ctx, constants.ChatArchiveAfter); err != nil {
		log.Error("Error archivando sesiones de chat: %v", err)
	}
}
