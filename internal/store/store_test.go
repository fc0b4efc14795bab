package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rmarien/botsim/internal/trace"
)

func recordedRun() *trace.Recorder {
	rec := trace.NewRecorder()
	for step := int64(0); step < 3; step++ {
		rec.Append(trace.Record{
			Step: step,
			Time: float64(step) * 0.01,
			Dt:   0.01,
			Bodies: []trace.BodyRecord{
				{Step: step, Time: float64(step) * 0.01, Body: "bot/chassis", X: float64(step) * 0.1},
			},
			Motors: []trace.MotorRecord{
				{Step: step, Motor: "bot/left_motor", Command: 0.5, SlipRatio: 0.05},
			},
		})
	}
	return rec
}

func TestSaveAndLoadRun(t *testing.T) {
	s := New(t.TempDir())
	require.NoError(t, s.Init())

	runID, err := s.Save(RunMetadata{
		Scenario:    "arena",
		Seed:        7,
		Dt:          0.01,
		Duration:    0.03,
		Controllers: map[string]string{"bot": "constant"},
	}, recordedRun())
	require.NoError(t, err)
	assert.Contains(t, runID, "arena_")

	meta, err := s.Load(runID)
	require.NoError(t, err)
	assert.Equal(t, runID, meta.ID)
	assert.Equal(t, int64(7), meta.Seed)
	assert.Equal(t, int64(3), meta.Steps)
	assert.Equal(t, "constant", meta.Controllers["bot"])
	require.Len(t, meta.Motors, 1)
	assert.Equal(t, "bot/left_motor", meta.Motors[0].Motor)

	bodies, err := s.LoadBodies(runID)
	require.NoError(t, err)
	require.Len(t, bodies, 3)
	assert.InDelta(t, 0.2, bodies[2].X, 1e-9)

	motors, err := s.LoadMotors(runID)
	require.NoError(t, err)
	require.Len(t, motors, 3)
}

func TestSaveWithoutRecorder(t *testing.T) {
	s := New(t.TempDir())
	require.NoError(t, s.Init())

	runID, err := s.Save(RunMetadata{Scenario: "empty"}, nil)
	require.NoError(t, err)

	meta, err := s.Load(runID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), meta.Steps)

	_, err = s.LoadBodies(runID)
	assert.Error(t, err, "no telemetry files are written for an empty run")
}

func TestListSkipsMalformed(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)
	require.NoError(t, s.Init())

	_, err := s.Save(RunMetadata{Scenario: "good"}, nil)
	require.NoError(t, err)

	// A junk directory without metadata and a stray file must both be
	// skipped.
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "junk"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "stray.txt"), []byte("x"), 0644))

	runs, err := s.List()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "good", runs[0].Scenario)
}

func TestListMissingBaseDir(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "never_created"))
	runs, err := s.List()
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestExportJSONRegroupsTicks(t *testing.T) {
	s := New(t.TempDir())
	require.NoError(t, s.Init())

	runID, err := s.Save(RunMetadata{Scenario: "arena", Dt: 0.01}, recordedRun())
	require.NoError(t, err)

	out := filepath.Join(t.TempDir(), "run.json")
	require.NoError(t, s.ExportJSON(runID, out))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	var export ExportData
	require.NoError(t, json.Unmarshal(data, &export))

	assert.Equal(t, runID, export.Meta.ID)
	require.Len(t, export.Records, 3)
	rec := export.Records[1]
	assert.Equal(t, int64(1), rec.Step)
	assert.Equal(t, 0.01, rec.Dt)
	require.Len(t, rec.Bodies, 1)
	require.Len(t, rec.Motors, 1)
	assert.Equal(t, "bot/left_motor", rec.Motors[0].Motor)
}
