package monitoringRepository

import (
	"time"

	"ProjectMonitoring/internal/entity"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

type SQLExecutor interface {
	sqlx.ExtContext
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	QueryRowxContext(ctx context.Context, query string, args ...interface{}) *sqlx.Row
	Rebind(query string) string
}

func New(db *sqlx.DB, log *logrus.Logger) Repository {
	return &repository{
		DB:  db,
		log: log,
	}
}

type repository struct {
	DB  *sqlx.DB
	log *logrus.Logger
}

type Repository interface {
	NewClient(tx bool) (Client, error)
}

func (r *repository) NewClient(tx bool) (Client, error) {
	var sqlExecutor SQLExecutor
	var commitFunc, rollbackFunc func() error

	sqlExecutor = r.DB

	if tx {
		txx, err := r.DB.Beginx()
		if err != nil {
			return Client{}, err
		}

		sqlExecutor = txx
		commitFunc = txx.Commit
		rollbackFunc = txx.Rollback
	} else {
		commitFunc = func() error { return nil }
		rollbackFunc = func() error { return nil }
	}

	return Client{
		Detection: &detectionRepository{q: sqlExecutor, log: r.log},
		Commit:    commitFunc,
		Rollback:  rollbackFunc,
	}, nil
}

// TimeRange bounds a log query. Start is inclusive, End exclusive; a nil
// bound leaves that side open.
type TimeRange struct {
	Start *time.Time
	End   *time.Time
}

type Client struct {
	Detection interface {
		CreateDetection(c context.Context, detection entity.DetectionLog) error
		GetDetectionsByEmployee(c context.Context, employeeID string, timeRange TimeRange, limit int) ([]entity.DetectionLog, error)
	}

	Commit   func() error
	Rollback func() error
}

type detectionRepository struct {
	q   SQLExecutor
	log *logrus.Logger
}
