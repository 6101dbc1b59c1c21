// Package jobs runs background maintenance tasks on a cron schedule.
package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/leadhub/leadhub/pkg/leads"
	"github.com/leadhub/leadhub/pkg/logger"
)

// CronManager schedules periodic jobs
type CronManager struct {
	cron        *cron.Cron
	leadService *leads.Service
	log         logger.Logger
}

// NewCronManager creates a new cron manager
func NewCronManager(leadService *leads.Service, log logger.Logger) *CronManager {
	return &CronManager{
		cron:        cron.New(),
		leadService: leadService,
		log:         log,
	}
}

// SetupJobs registers all scheduled jobs
func (m *CronManager) SetupJobs() error {
	// Rewarm the analytics snapshot so dashboard reads stay cached.
	_, err := m.cron.AddFunc("@every 5m", m.refreshAnalytics)
	return err
}

// Start begins running scheduled jobs
func (m *CronManager) Start() {
	m.cron.Start()
}

// Stop halts the scheduler and waits for running jobs
func (m *CronManager) Stop() {
	ctx := m.cron.Stop()
	<-ctx.Done()
}

func (m *CronManager) refreshAnalytics() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if _, err := m.leadService.RefreshAnalytics(ctx); err != nil {
		m.log.Error("analytics refresh failed", "error", err)
		return
	}
	m.log.Debug("analytics snapshot refreshed")
}
