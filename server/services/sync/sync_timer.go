package sync

import (
	"context"

	"github.com/benbjohnson/clock"

	"github.com/rostersync/rostersync/common/logger"
	"github.com/rostersync/rostersync/common/util"
)

// SyncTimer implements a Service to periodically reconcile the local store against
// the external directory. The clock is injected so tests can drive the schedule.
type SyncTimer struct {
	*util.StatefulService
	syncService *SyncService
	config      SyncConfig
	clk         clock.Clock
	logger.Log
}

func NewSyncTimer(
	syncService *SyncService,
	config SyncConfig,
	clk clock.Clock,
	logFactory logger.LogFactory,
) *SyncTimer {
	s := &SyncTimer{
		syncService: syncService,
		config:      config,
		clk:         clk,
		Log:         logFactory("SyncTimer"),
	}
	s.StatefulService = util.NewStatefulService(context.Background(), s.Log, s.loop)
	return s
}

func (s *SyncTimer) loop() {
	s.Tracef("Running sync timer loop function...")
	if s.config.InitialSyncDelay > 0 {
		select {
		case <-s.StatefulService.Ctx().Done():
			s.Infof("Sync timer service closed; exiting...")
			return
		case <-s.clk.After(s.config.InitialSyncDelay):
		}
	}
	s.Infof("Performing initial sync...")
	s.doSync()
	s.Tracef("Starting sync timer loop...")
	ticker := s.clk.Ticker(s.config.SyncInterval)
	defer ticker.Stop()
	for {
		select {
		case <-s.StatefulService.Ctx().Done():
			s.Infof("Sync timer service closed; exiting...")
			return

		case <-ticker.C:
			s.doSync()
		}
	}
}

// Performs one scheduled reconciliation run, bounded by the configured run timeout.
func (s *SyncTimer) doSync() {
	ctx := s.StatefulService.Ctx()
	if s.config.RunTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.RunTimeout)
		defer cancel()
	}

	// Scheduled runs never re-apply field mappings; an operator requests that explicitly.
	_, err := s.syncService.SyncNow(ctx, false)
	if err != nil {
		s.Errorf("Error performing scheduled sync against directory '%s': %s", s.config.DirectoryName, err.Error())
	}
}
