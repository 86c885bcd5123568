// Package importer loads project fixtures — a project, its schedule
// snapshots and its actual-progress records — from JSON documents.
// Documents are validated against an embedded JSON Schema before
// anything is converted: a structurally invalid document is rejected
// whole, while per-record date problems inside a valid document follow
// the engine's skip-and-continue policy and surface as anomalies.
package importer

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/obralink/avance/pkg/finance"
	"github.com/obralink/avance/pkg/schedule"
	"github.com/obralink/avance/pkg/store"
)

//go:embed fixture_schema.json
var fixtureSchemaJSON string

var fixtureSchema = mustCompileSchema()

func mustCompileSchema() *jsonschema.Schema {
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020
	const url = "https://avance.schemas.local/fixture.schema.json"
	if err := c.AddResource(url, strings.NewReader(fixtureSchemaJSON)); err != nil {
		panic(err)
	}
	return c.MustCompile(url)
}

// Fixture is a validated, converted fixture document.
type Fixture struct {
	Project   schedule.Project
	Snapshots []schedule.Snapshot
	Actuals   []schedule.ActualProgress
	Anomalies []schedule.Anomaly
}

type fixtureDoc struct {
	Project struct {
		ID     string `json:"id"`
		Codigo string `json:"codigo"`
		Nombre string `json:"nombre"`
	} `json:"project"`
	Snapshots []struct {
		ID         string `json:"id"`
		IsBaseline bool   `json:"is_baseline"`
		CreatedAt  string `json:"created_at"`
		Tasks      []struct {
			ID          string  `json:"id"`
			Name        string  `json:"name"`
			ParentID    string  `json:"parent_id"`
			Start       string  `json:"start"`
			End         string  `json:"end"`
			PlannedCost float64 `json:"planned_cost"`
		} `json:"tasks"`
	} `json:"snapshots"`
	Actuals []struct {
		ID          string  `json:"id"`
		Kind        string  `json:"kind"`
		PeriodStart string  `json:"period_start"`
		PeriodEnd   string  `json:"period_end"`
		Amount      float64 `json:"amount"`
		TaskID      string  `json:"task_id"`
		Date        string  `json:"date"`
		Percent     float64 `json:"percent"`
	} `json:"actuals"`
}

// LoadFile reads, validates and converts a fixture file.
func LoadFile(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture %q: %w", path, err)
	}
	return Parse(data)
}

// Parse validates a fixture document against the schema and converts
// it into domain types.
func Parse(data []byte) (*Fixture, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("fixture is not valid JSON: %w", err)
	}
	if err := fixtureSchema.Validate(raw); err != nil {
		return nil, fmt.Errorf("fixture failed schema validation: %w", err)
	}

	var doc fixtureDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode fixture: %w", err)
	}

	f := &Fixture{Project: schedule.Project{
		ID:   doc.Project.ID,
		Code: doc.Project.Codigo,
		Name: doc.Project.Nombre,
	}}

	for _, s := range doc.Snapshots {
		snap := schedule.Snapshot{
			ID:         s.ID,
			ProjectID:  f.Project.ID,
			IsBaseline: s.IsBaseline,
		}
		createdAt, err := time.Parse(time.RFC3339, s.CreatedAt)
		if err != nil {
			f.note("snapshot", s.ID, "unparsable created_at")
		}
		snap.CreatedAt = createdAt

		for _, t := range s.Tasks {
			task := schedule.PlannedTask{
				ID:          t.ID,
				Name:        t.Name,
				ParentID:    t.ParentID,
				Start:       f.day("task", t.ID, t.Start),
				End:         f.day("task", t.ID, t.End),
				PlannedCost: finance.FromUnits(t.PlannedCost),
			}
			snap.Tasks = append(snap.Tasks, task)
		}
		f.Snapshots = append(f.Snapshots, snap)
	}

	for _, a := range doc.Actuals {
		f.Actuals = append(f.Actuals, schedule.ActualProgress{
			ID:          a.ID,
			Kind:        schedule.SourceKind(a.Kind),
			PeriodStart: f.day("actual", a.ID, a.PeriodStart),
			PeriodEnd:   f.day("actual", a.ID, a.PeriodEnd),
			Amount:      finance.FromUnits(a.Amount),
			TaskID:      a.TaskID,
			Date:        f.day("actual", a.ID, a.Date),
			Percent:     a.Percent,
		})
	}
	return f, nil
}

// Seed writes a fixture into a store.
func Seed(ctx context.Context, w store.Writer, f *Fixture) error {
	if err := w.PutProject(ctx, f.Project); err != nil {
		return err
	}
	for _, s := range f.Snapshots {
		if err := w.PutSnapshot(ctx, s); err != nil {
			return err
		}
	}
	for _, a := range f.Actuals {
		if err := w.PutActualProgress(ctx, f.Project.ID, a); err != nil {
			return err
		}
	}
	return nil
}

// day parses an ISO calendar day, leaving the date zero (and recording
// an anomaly) when it does not parse. The engine downstream skips the
// affected record the same way.
func (f *Fixture) day(stage, ref, s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		f.note(stage, ref, fmt.Sprintf("unparsable date %q", s))
		return time.Time{}
	}
	return t
}

func (f *Fixture) note(stage, ref, reason string) {
	f.Anomalies = append(f.Anomalies, schedule.Anomaly{Stage: stage, Ref: ref, Reason: reason})
}
