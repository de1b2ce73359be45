package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler re-reads the menu on a cron schedule so catalog edits show up
// without restarting the bot.
type Scheduler struct {
	cron        *cron.Cron
	ctx         context.Context
	cancel      context.CancelFunc
	refreshFunc func(ctx context.Context) error
}

func New() *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		cron:   cron.New(cron.WithLocation(time.UTC)),
		ctx:    ctx,
		cancel: cancel,
	}
}

// SetRefreshFunction устанавливает функцию обновления меню
func (s *Scheduler) SetRefreshFunction(f func(ctx context.Context) error) {
	s.refreshFunc = f
}

// Start запускает планировщик
func (s *Scheduler) Start(spec string) error {
	if s.refreshFunc == nil {
		log.Println("⚠️ Refresh function not set, scheduler will not refresh the menu")
		return nil
	}

	_, err := s.cron.AddFunc(spec, func() {
		log.Printf("🕘 Triggered scheduled menu refresh (%s)", spec)
		if err := s.refreshFunc(s.ctx); err != nil {
			log.Printf("❌ Scheduled menu refresh failed: %v", err)
		}
	})

	if err != nil {
		return err
	}

	s.cron.Start()
	log.Printf("📅 Scheduler started - menu refresh on %q (UTC)", spec)
	return nil
}

// Stop останавливает планировщик
func (s *Scheduler) Stop() {
	if s.cron != nil {
		ctx := s.cron.Stop()
		<-ctx.Done()
	}
	if s.cancel != nil {
		s.cancel()
	}
	log.Println("📅 Scheduler stopped")
}
