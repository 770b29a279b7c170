// Package analytics records privacy-preserving page views and project clicks
// in SQLite. Nothing here is needed to serve the site; the server only wires
// it when analytics are enabled.
package analytics

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	sqlitemigrate "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/Zachkp/portfolio/internal/logger"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

const (
	driverName       = "sqlite"
	busyTimeoutMS    = 5000
	recentVisitLimit = 50
	topProjectLimit  = 10
	week             = 7 * 24 * time.Hour
)

// Visit is one recorded page view.
type Visit struct {
	ID        int64     `json:"id"`
	HashedIP  string    `json:"hashed_ip"`
	UserAgent string    `json:"user_agent"`
	Path      string    `json:"path"`
	Timestamp time.Time `json:"timestamp"`
}

// ProjectStat is the click count of one project.
type ProjectStat struct {
	Key           string    `json:"project"`
	Clicks        int64     `json:"clicks"`
	LastClickedAt time.Time `json:"last_clicked_at"`
}

// Stats summarizes everything the store holds.
type Stats struct {
	TotalVisitors    int64         `json:"total_visitors"`
	UniqueVisitors   int64         `json:"unique_visitors"`
	VisitorsToday    int64         `json:"visitors_today"`
	VisitorsThisWeek int64         `json:"visitors_this_week"`
	TotalClicks      int64         `json:"total_clicks"`
	TopProjects      []ProjectStat `json:"top_projects"`
	RecentVisitors   []Visit       `json:"recent_visitors"`
}

type visitRow struct {
	ID        int64  `db:"id"`
	HashedIP  string `db:"hashed_ip"`
	UserAgent string `db:"user_agent"`
	Path      string `db:"path"`
	VisitedAt int64  `db:"visited_at"`
}

type projectRow struct {
	Key           string `db:"project_key"`
	Clicks        int64  `db:"clicks"`
	LastClickedAt int64  `db:"last_clicked_at"`
}

// Store is the SQLite-backed analytics repository.
type Store struct {
	db *sqlx.DB
}

// NewStore wraps an already migrated database.
func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// Open opens (creating if needed) the database at path and applies pending
// migrations.
func Open(path string, log logger.Logger) (*Store, error) {
	dsn := fmt.Sprintf("%s?_pragma=busy_timeout(%d)", path, busyTimeoutMS)

	db, err := sqlx.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open analytics database: %w", err)
	}

	if err := Migrate(db.DB, log); err != nil {
		_ = db.Close()
		return nil, err
	}

	// one writer avoids SQLITE_BUSY between the tracker goroutines
	db.SetMaxOpenConns(1)

	return NewStore(db), nil
}

// Migrate applies the embedded schema migrations to db.
func Migrate(db *sql.DB, log logger.Logger) error {
	src, err := iofs.New(migrationFS, "migrations")
	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}

	driver, err := sqlitemigrate.WithInstance(db, &sqlitemigrate.Config{})
	if err != nil {
		return fmt.Errorf("create sqlite migration driver: %w", err)
	}

	// m.Close would close db as well, so the instance is left for GC.
	m, err := migrate.NewWithInstance("iofs", src, driverName, driver)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Debug("No pending analytics migrations")
			return nil
		}
		return fmt.Errorf("run analytics migrations: %w", err)
	}

	version, _, _ := m.Version()
	log.Info("Analytics migrations applied", logger.Int("version", int(version)))
	return nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// RecordVisit stores one page view. The caller hashes the IP.
func (s *Store) RecordVisit(ctx context.Context, hashedIP, userAgent, path string, at time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO visitors (hashed_ip, user_agent, path, visited_at)
		VALUES (?, ?, ?, ?)`,
		hashedIP, userAgent, path, at.Unix(),
	)
	if err != nil {
		return fmt.Errorf("record visit: %w", err)
	}
	return nil
}

// RecordProjectClick increments the click count of the project key.
func (s *Store) RecordProjectClick(ctx context.Context, key string, at time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO project_clicks (project_key, clicks, last_clicked_at)
		VALUES (?, 1, ?)
		ON CONFLICT (project_key) DO UPDATE SET
			clicks = clicks + 1,
			last_clicked_at = excluded.last_clicked_at`,
		key, at.Unix(),
	)
	if err != nil {
		return fmt.Errorf("record project click: %w", err)
	}
	return nil
}

// PruneBefore deletes visits older than cutoff and reports how many went.
func (s *Store) PruneBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM visitors WHERE visited_at < ?`, cutoff.Unix())
	if err != nil {
		return 0, fmt.Errorf("prune visitors: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("prune visitors rows affected: %w", err)
	}
	return n, nil
}

// Stats aggregates the stored data as of now. "Today" starts at midnight in
// now's location.
func (s *Store) Stats(ctx context.Context, now time.Time) (*Stats, error) {
	stats := &Stats{}

	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	counts := []struct {
		dst   *int64
		query string
		args  []any
	}{
		{&stats.TotalVisitors, `SELECT COUNT(*) FROM visitors`, nil},
		{&stats.UniqueVisitors, `SELECT COUNT(DISTINCT hashed_ip) FROM visitors`, nil},
		{&stats.VisitorsToday, `SELECT COUNT(*) FROM visitors WHERE visited_at >= ?`, []any{midnight.Unix()}},
		{&stats.VisitorsThisWeek, `SELECT COUNT(*) FROM visitors WHERE visited_at >= ?`, []any{now.Add(-week).Unix()}},
		{&stats.TotalClicks, `SELECT COALESCE(SUM(clicks), 0) FROM project_clicks`, nil},
	}
	for _, q := range counts {
		if err := s.db.GetContext(ctx, q.dst, q.query, q.args...); err != nil {
			return nil, fmt.Errorf("stats query %q: %w", q.query, err)
		}
	}

	var projects []projectRow
	if err := s.db.SelectContext(ctx, &projects, `
		SELECT project_key, clicks, last_clicked_at
		FROM project_clicks
		ORDER BY clicks DESC, last_clicked_at DESC
		LIMIT ?`, topProjectLimit); err != nil {
		return nil, fmt.Errorf("top projects: %w", err)
	}
	stats.TopProjects = make([]ProjectStat, 0, len(projects))
	for _, p := range projects {
		stats.TopProjects = append(stats.TopProjects, ProjectStat{
			Key:           p.Key,
			Clicks:        p.Clicks,
			LastClickedAt: time.Unix(p.LastClickedAt, 0).UTC(),
		})
	}

	var visits []visitRow
	if err := s.db.SelectContext(ctx, &visits, `
		SELECT id, hashed_ip, user_agent, path, visited_at
		FROM visitors
		ORDER BY visited_at DESC, id DESC
		LIMIT ?`, recentVisitLimit); err != nil {
		return nil, fmt.Errorf("recent visitors: %w", err)
	}
	stats.RecentVisitors = make([]Visit, 0, len(visits))
	for _, v := range visits {
		stats.RecentVisitors = append(stats.RecentVisitors, Visit{
			ID:        v.ID,
			HashedIP:  v.HashedIP,
			UserAgent: v.UserAgent,
			Path:      v.Path,
			Timestamp: time.Unix(v.VisitedAt, 0).UTC(),
		})
	}

	return stats, nil
}
