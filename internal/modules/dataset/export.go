package dataset

import (
	"fmt"
	"io"
	"os"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/aristath/talentwatch/internal/domain"
)

// exportEnvelope is the on-disk export format: a versioned msgpack document
// so future field changes stay readable.
type exportEnvelope struct {
	Version int                `msgpack:"version"`
	Records []domain.JobRecord `msgpack:"records"`
}

const exportVersion = 1

// WriteExport serializes records as a msgpack export stream.
func WriteExport(w io.Writer, records []domain.JobRecord) error {
	env := exportEnvelope{Version: exportVersion, Records: records}
	if err := msgpack.NewEncoder(w).Encode(&env); err != nil {
		return fmt.Errorf("failed to encode export: %w", err)
	}
	return nil
}

// ReadExport parses a msgpack export stream.
func ReadExport(r io.Reader) ([]domain.JobRecord, error) {
	var env exportEnvelope
	if err := msgpack.NewDecoder(r).Decode(&env); err != nil {
		return nil, fmt.Errorf("failed to decode export: %w", err)
	}
	if env.Version != exportVersion {
		return nil, fmt.Errorf("unsupported export version %d", env.Version)
	}
	return env.Records, nil
}

// ImportFile loads a msgpack export file into the service.
func (s *Service) ImportFile(path string, replace bool) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open export file: %w", err)
	}
	defer f.Close()

	records, err := ReadExport(f)
	if err != nil {
		return 0, err
	}
	return s.Import(records, replace)
}

// ExportFile writes the current snapshot to a msgpack export file.
func (s *Service) ExportFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer f.Close()
	return WriteExport(f, s.Records())
}
