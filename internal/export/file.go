// Package export persists canonical lookup artifacts outside the live
// message channel, either on the local filesystem or in an S3 bucket.
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/msalhab/deedbridge/internal/bridge"
	"github.com/msalhab/deedbridge/internal/filex"
	"github.com/msalhab/deedbridge/internal/logging"
)

// FileExporter writes one JSON file per successful lookup into a directory.
type FileExporter struct {
	dir    string
	logger logging.Logger
}

func NewFileExporter(dir string, logger logging.Logger) *FileExporter {
	return &FileExporter{
		dir:    dir,
		logger: logger.With("module", "file_exporter"),
	}
}

// Export writes the artifact as <requestID>.json. Requests without an id
// get a generated one so no artifact overwrites another.
func (e *FileExporter) Export(ctx context.Context, requestID string, artifact *bridge.Artifact) error {
	dir, err := filex.EnsureDir(e.dir)
	if err != nil {
		return fmt.Errorf("export dir error: %w", err)
	}

	data, err := json.MarshalIndent(artifact, "", "  ")
	if err != nil {
		return fmt.Errorf("artifact encode error: %w", err)
	}

	path := filepath.Join(dir, artifactName(requestID))
	if err := os.WriteFile(path, data, 0o640); err != nil {
		return fmt.Errorf("artifact write error: %w", err)
	}

	e.logger.Debug(ctx, "artifact written", "path", path)
	return nil
}

func artifactName(requestID string) string {
	if requestID == "" {
		requestID = uuid.NewString()
	}
	return requestID + ".json"
}
