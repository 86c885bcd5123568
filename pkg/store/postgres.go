package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/obralink/avance/pkg/finance"
	"github.com/obralink/avance/pkg/schedule"

	_ "github.com/lib/pq"
)

// Postgres implements Store on PostgreSQL for shared deployments.
// Schema management is external (migrations run by the deployment),
// matching how the scheduling services own these tables.
type Postgres struct {
	db *sql.DB
}

// OpenPostgres connects using a lib/pq connection string.
func OpenPostgres(url string) (*Postgres, error) {
	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return NewPostgres(db), nil
}

// NewPostgres wraps an existing connection.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) GetProject(ctx context.Context, id string) (*schedule.Project, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, code, name FROM projects WHERE id = $1`, id)
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

func (s *Postgres) ListSnapshots(ctx context.Context, projectID string) ([]schedule.Snapshot, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, project_id, is_baseline, created_at FROM snapshots WHERE project_id = $1 ORDER BY created_at`, projectID)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var snapshots []schedule.Snapshot
	for rows.Next() {
		var snap schedule.Snapshot
		if err := rows.Scan(&snap.ID, &snap.ProjectID, &snap.IsBaseline, &snap.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
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

func (s *Postgres) listTasks(ctx context.Context, snapshotID string) ([]schedule.PlannedTask, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, parent_id, start_date, end_date, planned_cost_minor
		 FROM planned_tasks WHERE snapshot_id = $1 ORDER BY id`, snapshotID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var tasks []schedule.PlannedTask
	for rows.Next() {
		var t schedule.PlannedTask
		var parent sql.NullString
		var start, end sql.NullTime
		var cost int64
		if err := rows.Scan(&t.ID, &t.Name, &parent, &start, &end, &cost); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		t.ParentID = parent.String
		t.Start = nullDay(start)
		t.End = nullDay(end)
		t.PlannedCost = finance.Money(cost)
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (s *Postgres) ListActualProgress(ctx context.Context, projectID string) ([]schedule.ActualProgress, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, kind, period_start, period_end, amount_minor, task_id, advance_date, percent
		 FROM actual_progress WHERE project_id = $1 ORDER BY id`, projectID)
	if err != nil {
		return nil, fmt.Errorf("list actual progress: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []schedule.ActualProgress
	for rows.Next() {
		var r schedule.ActualProgress
		var kind string
		var taskID sql.NullString
		var periodStart, periodEnd, advanceDate sql.NullTime
		var amount sql.NullInt64
		var percent sql.NullFloat64
		if err := rows.Scan(&r.ID, &kind, &periodStart, &periodEnd, &amount, &taskID, &advanceDate, &percent); err != nil {
			return nil, fmt.Errorf("scan actual progress: %w", err)
		}
		r.Kind = schedule.SourceKind(kind)
		r.PeriodStart = nullDay(periodStart)
		r.PeriodEnd = nullDay(periodEnd)
		r.Amount = finance.Money(amount.Int64)
		r.TaskID = taskID.String
		r.Date = nullDay(advanceDate)
		r.Percent = percent.Float64
		records = append(records, r)
	}
	return records, rows.Err()
}

func (s *Postgres) PutProject(ctx context.Context, p schedule.Project) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO projects (id, code, name) VALUES ($1, $2, $3)
		 ON CONFLICT (id) DO UPDATE SET code = EXCLUDED.code, name = EXCLUDED.name`,
		p.ID, p.Code, p.Name)
	if err != nil {
		return fmt.Errorf("put project: %w", err)
	}
	return nil
}

func (s *Postgres) PutSnapshot(ctx context.Context, snap schedule.Snapshot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("put snapshot: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO snapshots (id, project_id, is_baseline, created_at) VALUES ($1, $2, $3, $4)`,
		snap.ID, snap.ProjectID, snap.IsBaseline, snap.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("put snapshot: %w", err)
	}
	for _, t := range snap.Tasks {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO planned_tasks (id, snapshot_id, name, parent_id, start_date, end_date, planned_cost_minor)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			t.ID, snap.ID, t.Name, nullIfEmpty(t.ParentID), nullTime(t.Start), nullTime(t.End), int64(t.PlannedCost))
		if err != nil {
			return fmt.Errorf("put task %s: %w", t.ID, err)
		}
	}
	return tx.Commit()
}

func (s *Postgres) PutActualProgress(ctx context.Context, projectID string, r schedule.ActualProgress) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO actual_progress (id, project_id, kind, period_start, period_end, amount_minor, task_id, advance_date, percent)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		r.ID, projectID, string(r.Kind), nullTime(r.PeriodStart), nullTime(r.PeriodEnd),
		int64(r.Amount), nullIfEmpty(r.TaskID), nullTime(r.Date), r.Percent)
	if err != nil {
		return fmt.Errorf("put actual progress: %w", err)
	}
	return nil
}

// Close releases the underlying database handle.
func (s *Postgres) Close() error { return s.db.Close() }

func nullDay(t sql.NullTime) time.Time {
	if !t.Valid {
		return time.Time{}
	}
	return schedule.Day(t.Time)
}

func nullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC()
}
