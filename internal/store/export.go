package store

import (
	"encoding/json"
	"io"
	"os"

	"github.com/rmarien/botsim/internal/trace"
)

// ExportData is the self-contained JSON form of a run, for handing to
// external analysis tools.
type ExportData struct {
	Meta    RunMetadata    `json:"meta"`
	Records []trace.Record `json:"records"`
}

// ExportJSON writes a persisted run as one JSON document.
func (s *Store) ExportJSON(runID, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return s.exportJSON(runID, file)
}

// ExportJSONStdout writes a persisted run as JSON to stdout.
func (s *Store) ExportJSONStdout(runID string) error {
	return s.exportJSON(runID, os.Stdout)
}

func (s *Store) exportJSON(runID string, w io.Writer) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	bodies, err := s.LoadBodies(runID)
	if err != nil {
		return err
	}
	motors, _ := s.LoadMotors(runID)

	// Regroup the flat CSV rows into per-tick records.
	byStep := map[int64]*trace.Record{}
	var order []int64
	for _, b := range bodies {
		rec, ok := byStep[b.Step]
		if !ok {
			rec = &trace.Record{Step: b.Step, Time: b.Time, Dt: meta.Dt}
			byStep[b.Step] = rec
			order = append(order, b.Step)
		}
		rec.Bodies = append(rec.Bodies, b)
	}
	for _, m := range motors {
		if rec, ok := byStep[m.Step]; ok {
			rec.Motors = append(rec.Motors, m)
		}
	}

	data := ExportData{Meta: *meta}
	for _, step := range order {
		data.Records = append(data.Records, *byStep[step])
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}
