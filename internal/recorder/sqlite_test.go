package recorder

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"SectorRRG/internal/model"
)

func snapshot() *RunSnapshot {
	day := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	return &RunSnapshot{
		Provider: "mock",
		Duration: 1500 * time.Millisecond,
		Graph: &model.RotationGraph{
			Benchmark: model.Instrument{Symbol: "SPY"},
			Lookback:  model.Lookback14D,
			AsOf:      day,
			Trails: []model.InstrumentTrail{
				{Instrument: model.Instrument{Symbol: "XLK", Label: "IT"}, Head: model.RotationPoint{Date: day, RS: 1.25, MOM: -0.5}, Quadrant: model.QuadrantWeakening},
				{Instrument: model.Instrument{Symbol: "XLU", Label: "UT"}, Head: model.RotationPoint{Date: day, RS: -0.75, MOM: 0.25}, Quadrant: model.QuadrantImproving},
			},
		},
	}
}

func openTest(t *testing.T) *SQLiteRecorder {
	r, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "rrg.db"), arbor.NewLogger())
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })
	return r
}

func TestRecordRun(t *testing.T) {
	r := openTest(t)
	snap := snapshot()

	require.NoError(t, r.RecordRun(snap))
	_, err := uuid.Parse(snap.RunID)
	require.NoError(t, err)

	var (
		benchmark, lookback, asOf string
		instruments, durationMS   int
	)
	require.NoError(t, r.db.QueryRow(
		`SELECT benchmark, lookback, as_of, instruments, duration_ms FROM rotation_runs WHERE run_id = ?`, snap.RunID,
	).Scan(&benchmark, &lookback, &asOf, &instruments, &durationMS))
	assert.Equal(t, "SPY", benchmark)
	assert.Equal(t, "14D", lookback)
	assert.Equal(t, "2024-06-03", asOf)
	assert.Equal(t, 2, instruments)
	assert.Equal(t, 1500, durationMS)

	var (
		rs, mom  float64
		quadrant string
	)
	require.NoError(t, r.db.QueryRow(
		`SELECT rs, mom, quadrant FROM rotation_points WHERE run_id = ? AND symbol = 'XLK'`, snap.RunID,
	).Scan(&rs, &mom, &quadrant))
	assert.Equal(t, 1.25, rs)
	assert.Equal(t, -0.5, mom)
	assert.Equal(t, "WEAKENING", quadrant)
}

func TestRecordRunKeepsHistory(t *testing.T) {
	r := openTest(t)
	require.NoError(t, r.RecordRun(snapshot()))
	require.NoError(t, r.RecordRun(snapshot()))

	var runs, points int
	require.NoError(t, r.db.QueryRow(`SELECT COUNT(*) FROM rotation_runs`).Scan(&runs))
	require.NoError(t, r.db.QueryRow(`SELECT COUNT(*) FROM rotation_points`).Scan(&points))
	assert.Equal(t, 2, runs)
	assert.Equal(t, 4, points)
}

func TestRecordRunDuplicateID(t *testing.T) {
	r := openTest(t)
	snap := snapshot()
	snap.RunID = "fixed"
	require.NoError(t, r.RecordRun(snap))
	require.Error(t, r.RecordRun(snap))

	var points int
	require.NoError(t, r.db.QueryRow(`SELECT COUNT(*) FROM rotation_points`).Scan(&points))
	assert.Equal(t, 2, points)
}

func TestReopenMigrates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rrg.db")
	r, err := NewSQLiteRecorder(path, arbor.NewLogger())
	require.NoError(t, err)
	require.NoError(t, r.RecordRun(snapshot()))
	require.NoError(t, r.Close())

	r, err = NewSQLiteRecorder(path, arbor.NewLogger())
	require.NoError(t, err)
	defer r.Close()
	var runs int
	require.NoError(t, r.db.QueryRow(`SELECT COUNT(*) FROM rotation_runs`).Scan(&runs))
	assert.Equal(t, 1, runs)
}

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NewNoopRecorder()
	assert.NoError(t, r.RecordRun(snapshot()))
	assert.NoError(t, r.Close())
}
