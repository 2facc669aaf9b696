package scoring

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"
)

// DumpWriter persists anonymized score dumps as msgpack files.
type DumpWriter struct {
	dir string
	log zerolog.Logger
}

// NewDumpWriter creates a dump writer rooted at dir
func NewDumpWriter(dir string, log zerolog.Logger) *DumpWriter {
	return &DumpWriter{
		dir: dir,
		log: log.With().Str("component", "dump_writer").Logger(),
	}
}

// Write anonymizes the rows and writes them to a new msgpack file, returning
// the file path.
func (w *DumpWriter) Write(rows []*TargetRow) (string, error) {
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create dump directory: %w", err)
	}

	payload, err := msgpack.Marshal(AnonymizeDataDump(rows))
	if err != nil {
		return "", fmt.Errorf("failed to encode dump: %w", err)
	}

	path := filepath.Join(w.dir, fmt.Sprintf("scores-%s.msgpack", uuid.New().String()))
	if err := os.WriteFile(path, payload, 0644); err != nil {
		return "", fmt.Errorf("failed to write dump: %w", err)
	}

	w.log.Info().Str("path", path).Int("rows", len(rows)).Msg("Wrote anonymized score dump")
	return path, nil
}
