package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/obralink/avance/pkg/finance"
	"github.com/obralink/avance/pkg/schedule"

	_ "modernc.org/sqlite"
)

const dateLayout = "2006-01-02"

// SQLite implements Store on an embedded SQLite database. It is the
// default backend for single-node deployments.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the database at path and migrates the
// schema. SQLite works best over a single connection.
func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %q: %w", path, err)
	}
	db.SetMaxOpenConns(1)
	return NewSQLite(db)
}

// NewSQLite wraps an existing connection and migrates the schema.
func NewSQLite(db *sql.DB) (*SQLite, error) {
	s := &SQLite{db: db}
	if err := s.migrate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *SQLite) migrate() error {
	query := `
	CREATE TABLE IF NOT EXISTS projects (
		id   TEXT PRIMARY KEY,
		code TEXT NOT NULL,
		name TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS snapshots (
		id          TEXT PRIMARY KEY,
		project_id  TEXT NOT NULL,
		is_baseline INTEGER NOT NULL DEFAULT 0,
		created_at  TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS planned_tasks (
		id                 TEXT NOT NULL,
		snapshot_id        TEXT NOT NULL,
		name               TEXT,
		parent_id          TEXT,
		start_date         TEXT,
		end_date           TEXT,
		planned_cost_minor INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (snapshot_id, id)
	);
	CREATE TABLE IF NOT EXISTS actual_progress (
		id           TEXT PRIMARY KEY,
		project_id   TEXT NOT NULL,
		kind         TEXT NOT NULL,
		period_start TEXT,
		period_end   TEXT,
		amount_minor INTEGER,
		task_id      TEXT,
		advance_date TEXT,
		percent      REAL
	);`
	_, err := s.db.ExecContext(context.Background(), query)
	return err
}

func (s *SQLite) GetProject(ctx context.Context, id string) (*schedule.Project, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, code, name FROM projects WHERE id = ?`, id)
	var p schedule.Project
	err := row.Scan(&p.ID, &p.Code, &p.Name)
	if err == sql.ErrNoRows {
		return nil, ErrProjectNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get project: %w", err)
	}
	return &p, nil
}

func (s *SQLite) ListSnapshots(ctx context.Context, projectID string) ([]schedule.Snapshot, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, project_id, is_baseline, created_at FROM snapshots WHERE project_id = ? ORDER BY created_at`, projectID)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var snapshots []schedule.Snapshot
	for rows.Next() {
		var snap schedule.Snapshot
		var createdAt string
		if err := rows.Scan(&snap.ID, &snap.ProjectID, &snap.IsBaseline, &createdAt); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		snap.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		snapshots = append(snapshots, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range snapshots {
		tasks, err := s.listTasks(ctx, snapshots[i].ID)
		if err != nil {
			return nil, err
		}
		snapshots[i].Tasks = tasks
	}
	return snapshots, nil
}

func (s *SQLite) listTasks(ctx context.Context, snapshotID string) ([]schedule.PlannedTask, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, parent_id, start_date, end_date, planned_cost_minor
		 FROM planned_tasks WHERE snapshot_id = ? ORDER BY id`, snapshotID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var tasks []schedule.PlannedTask
	for rows.Next() {
		var t schedule.PlannedTask
		var parent, start, end sql.NullString
		var cost int64
		if err := rows.Scan(&t.ID, &t.Name, &parent, &start, &end, &cost); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		t.ParentID = parent.String
		t.Start = parseDate(start)
		t.End = parseDate(end)
		t.PlannedCost = finance.Money(cost)
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (s *SQLite) ListActualProgress(ctx context.Context, projectID string) ([]schedule.ActualProgress, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, kind, period_start, period_end, amount_minor, task_id, advance_date, percent
		 FROM actual_progress WHERE project_id = ? ORDER BY id`, projectID)
	if err != nil {
		return nil, fmt.Errorf("list actual progress: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []schedule.ActualProgress
	for rows.Next() {
		var r schedule.ActualProgress
		var kind string
		var periodStart, periodEnd, taskID, advanceDate sql.NullString
		var amount sql.NullInt64
		var percent sql.NullFloat64
		if err := rows.Scan(&r.ID, &kind, &periodStart, &periodEnd, &amount, &taskID, &advanceDate, &percent); err != nil {
			return nil, fmt.Errorf("scan actual progress: %w", err)
		}
		r.Kind = schedule.SourceKind(kind)
		r.PeriodStart = parseDate(periodStart)
		r.PeriodEnd = parseDate(periodEnd)
		r.Amount = finance.Money(amount.Int64)
		r.TaskID = taskID.String
		r.Date = parseDate(advanceDate)
		r.Percent = percent.Float64
		records = append(records, r)
	}
	return records, rows.Err()
}

func (s *SQLite) PutProject(ctx context.Context, p schedule.Project) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO projects (id, code, name) VALUES (?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET code = excluded.code, name = excluded.name`,
		p.ID, p.Code, p.Name)
	if err != nil {
		return fmt.Errorf("put project: %w", err)
	}
	return nil
}

func (s *SQLite) PutSnapshot(ctx context.Context, snap schedule.Snapshot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("put snapshot: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO snapshots (id, project_id, is_baseline, created_at) VALUES (?, ?, ?, ?)`,
		snap.ID, snap.ProjectID, snap.IsBaseline, snap.CreatedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("put snapshot: %w", err)
	}
	for _, t := range snap.Tasks {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO planned_tasks (id, snapshot_id, name, parent_id, start_date, end_date, planned_cost_minor)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			t.ID, snap.ID, t.Name, nullIfEmpty(t.ParentID), fmtDate(t.Start), fmtDate(t.End), int64(t.PlannedCost))
		if err != nil {
			return fmt.Errorf("put task %s: %w", t.ID, err)
		}
	}
	return tx.Commit()
}

func (s *SQLite) PutActualProgress(ctx context.Context, projectID string, r schedule.ActualProgress) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO actual_progress (id, project_id, kind, period_start, period_end, amount_minor, task_id, advance_date, percent)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, projectID, string(r.Kind), fmtDate(r.PeriodStart), fmtDate(r.PeriodEnd),
		int64(r.Amount), nullIfEmpty(r.TaskID), fmtDate(r.Date), r.Percent)
	if err != nil {
		return fmt.Errorf("put actual progress: %w", err)
	}
	return nil
}

// Close releases the underlying database handle.
func (s *SQLite) Close() error { return s.db.Close() }

func fmtDate(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC().Format(dateLayout)
}

func parseDate(s sql.NullString) time.Time {
	if !s.Valid || s.String == "" {
		return time.Time{}
	}
	t, err := time.Parse(dateLayout, s.String)
	if err != nil {
		return time.Time{}
	}
	return t
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
