package reminder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"cuctask_bot/internal/domain"
	"cuctask_bot/internal/metrics"
)

// Interval is the scan cadence; reminders have minute granularity.
const Interval = time.Minute

type Store interface {
	FindAll(ctx context.Context) ([]*domain.Task, error)
	FindByID(ctx context.Context, id int64) (*domain.Task, error)
	Update(ctx context.Context, id int64, p domain.TaskPatch) (*domain.Task, error)
}

// Notifier delivers text to a chat channel.
type Notifier interface {
	Send(ctx context.Context, text, channelID string) error
}

// Scanner fires each armed reminder at most once, during the minute it is due.
// A minute that passes without a tick (process down, tick skipped) is never
// caught up.
type Scanner struct {
	store    Store
	notifier Notifier
	claimer  Claimer
	format   func(time.Time) string
	log      *slog.Logger
	now      func() time.Time

	tickMu sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewScanner(store Store, notifier Notifier, claimer Claimer, loc *time.Location, log *slog.Logger) *Scanner {
	if claimer == nil {
		claimer = NoopClaimer{}
	}
	if loc == nil {
		loc = time.Local
	}
	return &Scanner{
		store:    store,
		notifier: notifier,
		claimer:  claimer,
		format:   func(t time.Time) string { return t.In(loc).Format("15:04") },
		log:      log,
		now:      time.Now,
	}
}

// Start runs ticks on minute boundaries until ctx is cancelled or Stop is called.
func (s *Scanner) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.loop(ctx)
	}()
}

func (s *Scanner) loop(ctx context.Context) {
	now := s.now()
	first := time.NewTimer(now.Truncate(Interval).Add(Interval).Sub(now))
	defer first.Stop()

	s.log.Info("reminder scanner started", "first_tick_in", now.Truncate(Interval).Add(Interval).Sub(now).Round(time.Second))

	select {
	case <-ctx.Done():
		return
	case t := <-first.C:
		s.runTick(ctx, t)
	}

	ticker := time.NewTicker(Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("reminder scanner stopped")
			return
		case t := <-ticker.C:
			s.runTick(ctx, t)
		}
	}
}

// Stop cancels the loop and waits for an in-flight tick to finish.
func (s *Scanner) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		s.log.Warn("reminder scanner shutdown timeout, tick may not have completed")
	}
}

func (s *Scanner) runTick(ctx context.Context, now time.Time) {
	if !s.tickMu.TryLock() {
		s.log.Warn("previous reminder scan still running, skipping tick")
		return
	}
	defer s.tickMu.Unlock()

	start := time.Now()
	fired, err := s.tick(ctx, now)
	metrics.ScanDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		s.log.Error("reminder scan failed", "error", err)
		return
	}
	if fired > 0 {
		s.log.Info("reminder scan complete", "fired", fired)
	}
}

// Tick runs one scan for the minute containing now and returns how many
// reminders were dispatched.
func (s *Scanner) Tick(ctx context.Context, now time.Time) (int, error) {
	s.tickMu.Lock()
	defer s.tickMu.Unlock()
	return s.tick(ctx, now)
}

func (s *Scanner) tick(ctx context.Context, now time.Time) (int, error) {
	tasks, err := s.store.FindAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("load tasks: %w", err)
	}

	fired := 0
	for i, t := range tasks {
		if !t.DueAt(now) || !hasChannel(t) {
			continue
		}
		if s.fire(ctx, t, i+1, now) {
			fired++
		}
	}
	return fired, nil
}

// fire delivers one reminder. The reminded flag is written whether or not
// the send succeeded; failed sends are not retried.
func (s *Scanner) fire(ctx context.Context, t *domain.Task, index int, now time.Time) bool {
	log := s.log.With("task_id", t.ID)

	// the list may be stale if a command finished or re-edited the task meanwhile
	fresh, err := s.store.FindByID(ctx, t.ID)
	if err != nil {
		if !errors.Is(err, domain.ErrTaskNotFound) {
			log.Error("failed to reload task", "error", err)
		}
		return false
	}
	if !fresh.DueAt(now) || !hasChannel(fresh) {
		return false
	}

	ok, err := s.claimer.Claim(ctx, fresh.ID, now)
	if err != nil {
		log.Warn("reminder claim failed, sending anyway", "error", err)
	} else if !ok {
		log.Debug("reminder already claimed elsewhere")
		return false
	}

	if err := s.notifier.Send(ctx, s.message(fresh, index), *fresh.ChannelID); err != nil {
		metrics.RemindersFailed.Inc()
		log.Error("failed to send reminder", "channel_id", *fresh.ChannelID, "error", err)
	} else {
		metrics.RemindersSent.Inc()
	}

	if _, err := s.store.Update(ctx, fresh.ID, domain.TaskPatch{Reminded: domain.Bool(true)}); err != nil {
		log.Error("failed to mark task reminded", "error", err)
	}
	return true
}

func hasChannel(t *domain.Task) bool {
	return t.ChannelID != nil && *t.ChannelID != ""
}

func (s *Scanner) message(t *domain.Task, index int) string {
	deadline := "none"
	if t.Deadline != nil {
		deadline = s.format(*t.Deadline)
	}
	return fmt.Sprintf("🔔 Reminder for task [%d]: %s\n📅 Deadline: %s", index, t.Content, deadline)
}
