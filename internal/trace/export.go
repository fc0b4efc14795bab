package trace

import (
	"os"

	"github.com/gocarina/gocsv"
)

// WriteMotorCSV writes the flattened motor telemetry to a CSV file.
func (r *Recorder) WriteMotorCSV(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return gocsv.MarshalFile(r.Motors(), f)
}

// WriteBodyCSV writes every body record to a CSV file.
func (r *Recorder) WriteBodyCSV(path string) error {
	var rows []BodyRecord
	for _, rec := range r.records {
		rows = append(rows, rec.Bodies...)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return gocsv.MarshalFile(rows, f)
}

// ReadBodyCSV loads body records back from a CSV file.
func ReadBodyCSV(path string) ([]BodyRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var rows []BodyRecord
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// ReadMotorCSV loads motor records back from a CSV file.
func ReadMotorCSV(path string) ([]MotorRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var rows []MotorRecord
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}
