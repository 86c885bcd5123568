package importer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/obralink/avance/pkg/finance"
	"github.com/obralink/avance/pkg/schedule"
	"github.com/obralink/avance/pkg/store"
)

const validFixture = `{
  "project": {"id": "p1", "codigo": "OBR-001", "nombre": "Planta Norte"},
  "snapshots": [{
    "id": "s1", "is_baseline": true, "created_at": "2026-01-15T10:30:00Z",
    "tasks": [
      {"id": "t1", "name": "Cimentación", "start": "2026-02-02", "end": "2026-02-08", "planned_cost": 700},
      {"id": "t2", "name": "Estructura", "start": "2026-02-09", "end": "2026-02-20", "planned_cost": 300}
    ]
  }],
  "actuals": [
    {"id": "v1", "kind": "approved-valuation", "period_start": "2026-02-01", "period_end": "2026-02-28", "amount": 350},
    {"id": "a1", "kind": "advance-percentage", "task_id": "t1", "date": "2026-02-05", "percent": 0.25}
  ]
}`

func TestParse_Valid(t *testing.T) {
	f, err := Parse([]byte(validFixture))
	require.NoError(t, err)
	assert.Empty(t, f.Anomalies)

	assert.Equal(t, "OBR-001", f.Project.Code)
	require.Len(t, f.Snapshots, 1)
	assert.True(t, f.Snapshots[0].IsBaseline)
	assert.Equal(t, "p1", f.Snapshots[0].ProjectID)
	require.Len(t, f.Snapshots[0].Tasks, 2)
	assert.Equal(t, finance.FromUnits(700), f.Snapshots[0].Tasks[0].PlannedCost)

	require.Len(t, f.Actuals, 2)
	assert.Equal(t, schedule.SourceValuation, f.Actuals[0].Kind)
	assert.Equal(t, schedule.SourceAdvance, f.Actuals[1].Kind)
}

func TestParse_RejectsSchemaViolations(t *testing.T) {
	cases := map[string]string{
		"missing project":  `{"snapshots": []}`,
		"bad kind":         `{"project": {"id":"p","codigo":"c","nombre":"n"}, "actuals":[{"id":"x","kind":"guess"}]}`,
		"negative cost":    `{"project": {"id":"p","codigo":"c","nombre":"n"}, "snapshots":[{"id":"s","created_at":"2026-01-01T00:00:00Z","tasks":[{"id":"t","planned_cost":-5}]}]}`,
		"percent over one": `{"project": {"id":"p","codigo":"c","nombre":"n"}, "actuals":[{"id":"x","kind":"advance-percentage","percent":1.5}]}`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			assert.ErrorContains(t, err, "schema validation")
		})
	}
}

func TestParse_NotJSON(t *testing.T) {
	_, err := Parse([]byte("not json"))
	assert.ErrorContains(t, err, "not valid JSON")
}

func TestParse_BadDateIsAnomalyNotError(t *testing.T) {
	doc := `{
	  "project": {"id": "p1", "codigo": "c", "nombre": "n"},
	  "snapshots": [{"id": "s1", "created_at": "2026-01-01T00:00:00Z",
	    "tasks": [{"id": "t1", "start": "02/02/2026", "end": "2026-02-08", "planned_cost": 100}]}]
	}`
	f, err := Parse([]byte(doc))
	require.NoError(t, err)
	require.Len(t, f.Anomalies, 1)
	assert.Equal(t, "t1", f.Anomalies[0].Ref)
	assert.True(t, f.Snapshots[0].Tasks[0].Start.IsZero(), "bad date stays zero for the engine to skip")
}

func TestSeed(t *testing.T) {
	f, err := Parse([]byte(validFixture))
	require.NoError(t, err)

	mem := store.NewMemory()
	require.NoError(t, Seed(context.Background(), mem, f))

	ctx := context.Background()
	p, err := mem.GetProject(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "Planta Norte", p.Name)

	snaps, err := mem.ListSnapshots(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, snaps, 1)

	actuals, err := mem.ListActualProgress(ctx, "p1")
	require.NoError(t, err)
	assert.Len(t, actuals, 2)
}
