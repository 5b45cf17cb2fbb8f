package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/retail-etl/internal/database"
)

// MaintenanceJob keeps the store healthy while the API is serving:
// truncates the WAL file and pings the connection.
type MaintenanceJob struct {
	db  *database.DB
	log zerolog.Logger
}

// NewMaintenanceJob creates a new maintenance job
func NewMaintenanceJob(db *database.DB, log zerolog.Logger) *MaintenanceJob {
	return &MaintenanceJob{
		db:  db,
		log: log.With().Str("job", "store-maintenance").Logger(),
	}
}

// Name returns the job name
func (j *MaintenanceJob) Name() string {
	return "store-maintenance"
}

// Run performs one maintenance pass
func (j *MaintenanceJob) Run() error {
	if err := j.db.WALCheckpoint("TRUNCATE"); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := j.db.QuickCheck(ctx); err != nil {
		return err
	}

	j.log.Debug().Msg("Maintenance pass completed")
	return nil
}
