package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/royalmock/casino/pkg/repositories/round"
)

// DefaultRefreshInterval is how often the round archive index is refreshed
const DefaultRefreshInterval = 30 * time.Second

// RoundMaintenance runs periodic upkeep for the Elasticsearch round
// archive so indexed rounds become searchable without per-save refreshes.
type RoundMaintenance struct {
	scheduler *Scheduler
	repo      *round.ElasticsearchRepository
	interval  time.Duration
}

// NewRoundMaintenance creates the maintenance runner for an archive
func NewRoundMaintenance(repo *round.ElasticsearchRepository, interval time.Duration) *RoundMaintenance {
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}
	return &RoundMaintenance{
		scheduler: NewScheduler(),
		repo:      repo,
		interval:  interval,
	}
}

// Start schedules and launches the maintenance tasks
func (m *RoundMaintenance) Start(ctx context.Context) {
	m.scheduler.AddTask("index_refresh", m.interval, m.refresh)
	m.scheduler.Start(ctx)
	log.Println("Round archive maintenance started")
}

// Stop stops the maintenance tasks
func (m *RoundMaintenance) Stop() {
	m.scheduler.Stop()
	log.Println("Round archive maintenance stopped")
}

func (m *RoundMaintenance) refresh(ctx context.Context) error {
	return m.repo.Refresh(ctx)
}
