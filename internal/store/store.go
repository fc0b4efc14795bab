// Package store persists simulation runs: a directory per run holding
// metadata.json plus the body and motor telemetry as CSV.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rmarien/botsim/internal/trace"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) Dir() string { return s.baseDir }

// RunMetadata describes one persisted run.
type RunMetadata struct {
	ID          string               `json:"id"`
	Scenario    string               `json:"scenario"`
	Timestamp   time.Time            `json:"timestamp"`
	Seed        int64                `json:"seed"`
	Dt          float64              `json:"dt"`
	Duration    float64              `json:"duration"`
	Steps       int64                `json:"steps"`
	Controllers map[string]string    `json:"controllers"`
	Errors      map[string]string    `json:"controller_errors,omitempty"`
	Motors      []trace.MotorSummary `json:"motor_summary,omitempty"`
}

// Save writes a run directory with metadata and the recorder's telemetry,
// returning the run id.
func (s *Store) Save(meta RunMetadata, rec *trace.Recorder) (string, error) {
	runID := fmt.Sprintf("%s_%d", meta.Scenario, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Timestamp = time.Now()
	if rec != nil {
		meta.Steps = int64(rec.Len())
		meta.Motors = trace.Summarize(rec.Records())
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()
	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	if rec == nil || rec.Len() == 0 {
		return runID, nil
	}
	if err := rec.WriteBodyCSV(filepath.Join(runDir, "bodies.csv")); err != nil {
		return "", err
	}
	if err := rec.WriteMotorCSV(filepath.Join(runDir, "motors.csv")); err != nil {
		return "", err
	}
	return runID, nil
}

// List returns metadata for every readable run, skipping anything
// malformed.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}
	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadBodies reads a run's body telemetry back.
func (s *Store) LoadBodies(runID string) ([]trace.BodyRecord, error) {
	return trace.ReadBodyCSV(filepath.Join(s.baseDir, runID, "bodies.csv"))
}

// LoadMotors reads a run's motor telemetry back.
func (s *Store) LoadMotors(runID string) ([]trace.MotorRecord, error) {
	return trace.ReadMotorCSV(filepath.Join(s.baseDir, runID, "motors.csv"))
}
