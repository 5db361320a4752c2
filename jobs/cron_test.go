package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"munaybol/constants"
	"munaybol/models"
	"munaybol/services/logger"

	"github.com/robfig/cron/v3"
)

type fakeReminders struct {
	day models.Date
	err error
}

func (f *fakeReminders) SendCheckInReminders(_ context.Context, day models.Date) (int, error) {
	f.day = day
	return 2, f.err
}

type fakeArchiver struct {
	idle time.Duration
}

func (f *fakeArchiver) ArchiveIdleSessions(_ context.Context, idle time.Duration) (int64, error) {
	f.idle = idle
	return 1, nil
}

func TestInitCronJobsRegistersBothJobs(t *testing.T) {
	c := cron.New()
	if err := InitCronJobs(c, &fakeReminders{}, &fakeArchiver{}, logger.Nop{}); err != nil {
		t.Fatalf("InitCronJobs: %v", err)
	}
	defer c.Stop()
	if n := len(c.Entries()); n != 2 {
		t.Fatalf("entries = %d, want 2", n)
	}
}

func TestRunJobs(t *testing.T) {
	r := &fakeReminders{}
	day := models.MustDate("2025-03-10")
	RunCheckInReminders(r, day, logger.Nop{})
	if !r.day.Equal(day) {
		t.Fatalf("reminders sent for %s, want %s", r.day, day)
	}

	// failures are logged, never panic
	RunCheckInReminders(&fakeReminders{err: errors.New("db caída")}, day, logger.Nop{})

	a := &fakeArchiver{}
	RunArchive(a, logger.Nop{})
	if a.idle != constants.ChatArchiveAfter {
		t.Fatalf("idle = %v, want %v", a.idle, constants.ChatArchiveAfter)
	}
}
