package scheduler

import (
	"fmt"
	"time"

	"boss_respawn_bot/internal/domain/notify"
	"boss_respawn_bot/internal/domain/timer"

	"github.com/benbjohnson/clock"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Options tunes the reminder loop.
type Options struct {
	// PollInterval is how often the store is scanned.
	PollInterval time.Duration
	// LeadTime is how long before a respawn the reminder goes out.
	LeadTime time.Duration
	// GracePeriod is how long past a respawn a timer survives before it is
	// removed as stale.
	GracePeriod time.Duration
}

// ReminderScheduler is the single background loop of the process. Every tick
// it scans all registered timers, sends the one reminder each respawn
// occurrence gets, and drops timers that respawned longer than GracePeriod
// ago. It runs until the process exits; Stop only drains a scan already in
// flight during shutdown.
type ReminderScheduler struct {
	cronEngine *cron.Cron
	store      timer.Store
	dispatcher notify.Dispatcher
	clk        clock.Clock
	opts       Options
	log        *logrus.Entry
}

func New(
	store timer.Store,
	dispatcher notify.Dispatcher,
	clk clock.Clock,
	opts Options,
	log *logrus.Entry,
) *ReminderScheduler {
	return &ReminderScheduler{
		cronEngine: cron.New(),
		store:      store,
		dispatcher: dispatcher,
		clk:        clk,
		opts:       opts,
		log:        log,
	}
}

// Start registers the poll job and starts the cron engine.
func (s *ReminderScheduler) Start() error {
	spec := fmt.Sprintf("@every %s", s.opts.PollInterval)
	if _, err := s.cronEngine.AddFunc(spec, s.runScan); err != nil {
		return fmt.Errorf("add reminder poll job: %w", err)
	}
	s.cronEngine.Start()
	s.log.WithFields(logrus.Fields{
		"poll_interval": s.opts.PollInterval.String(),
		"lead_time":     s.opts.LeadTime.String(),
		"grace_period":  s.opts.GracePeriod.String(),
	}).Info("Reminder scheduler started")
	return nil
}

// Stop halts the cron engine and waits for a running scan to finish.
func (s *ReminderScheduler) Stop() {
	ctx := s.cronEngine.Stop()
	<-ctx.Done()
	s.log.Info("Reminder scheduler stopped")
}

// runScan is the outer loop boundary: whatever a scan throws is logged here
// and the loop keeps ticking. One bad record must never halt delivery for
// all the others.
func (s *ReminderScheduler) runScan() {
	defer func() {
		if r := recover(); r != nil {
			s.log.WithField("panic", r).Error("Reminder scan panicked, resuming on next tick")
		}
	}()
	if err := s.Scan(); err != nil {
		s.log.WithError(err).Error("Reminder scan failed, resuming on next tick")
	}
}

// Scan walks every registered timer once, inside the store lock so it cannot
// interleave with a registration on the same key. Expired records are
// removed; timers inside the lead window get exactly one reminder per
// respawn occurrence, keyed by the occurrence itself.
func (s *ReminderScheduler) Scan() error {
	now := s.clk.Now()

	return s.store.Update(func(st *timer.State) error {
		changed := false

		for scopeID, scope := range st.Scopes {
			for name, rec := range scope.Timers {
				logCtx := s.log.WithFields(logrus.Fields{
					"scope":      scopeID,
					"entity":     name,
					"respawn_at": rec.RespawnAt.Format(time.RFC3339),
				})

				switch {
				case now.After(rec.RespawnAt.Add(s.opts.GracePeriod)):
					delete(scope.Timers, name)
					changed = true
					logCtx.Info("Timer expired past grace period, removed")

				case !now.Before(rec.RespawnAt.Add(-s.opts.LeadTime)) && !now.After(rec.RespawnAt):
					key := timer.NotifyKey(rec.RespawnAt)
					if rec.LastNotifiedKey == key {
						continue
					}
					msg := s.reminderText(name, rec.RespawnAt, now)
					for _, target := range scope.Targets {
						if err := s.dispatcher.Send(target, msg); err != nil {
							logCtx.WithError(err).WithField("target", target).
								Warn("Reminder dispatch failed for target")
						}
					}
					rec.LastNotifiedKey = key
					scope.Timers[name] = rec
					changed = true
					logCtx.WithField("targets", len(scope.Targets)).Info("Reminder dispatched")
				}
			}
		}

		if !changed {
			return timer.ErrNoChange
		}
		return nil
	})
}

func (s *ReminderScheduler) reminderText(entity string, respawnAt, now time.Time) string {
	leadMinutes := int(s.opts.LeadTime / time.Minute)
	return fmt.Sprintf("⏰【%s】%d分鐘後重生\n重生：%s\n%s",
		entity, leadMinutes, respawnAt.Format("15:04"), timer.RemainText(now, respawnAt))
}
