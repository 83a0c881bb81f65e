package release

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/qkauia-guy/self-drawn/pkg/pipeline"
)

// Record is the release marker written to the target after a deploy.
type Record struct {
	RunID       string    `json:"run_id"`
	Project     string    `json:"project"`
	Target      string    `json:"target"`
	Status      string    `json:"status"`
	Suppressed  int       `json:"suppressed"`
	StartedAt   time.Time `json:"started_at"`
	CompletedAt time.Time `json:"completed_at"`
}

// FileWriter writes a file on the deployment target. The local deploy path
// uses os.WriteFile; the remote path uses SFTP.
type FileWriter interface {
	WriteFile(ctx context.Context, path string, data []byte, perm os.FileMode) error
}

// LocalFileWriter writes files on the local filesystem.
type LocalFileWriter struct{}

// WriteFile writes data to path, creating parent directories as needed.
func (LocalFileWriter) WriteFile(_ context.Context, path string, data []byte, perm os.FileMode) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return os.WriteFile(path, data, perm)
}

// NewRecord builds a release record from a finished run.
func NewRecord(run *pipeline.Run, project, target string) *Record {
	return &Record{
		RunID:       run.ID,
		Project:     project,
		Target:      target,
		Status:      string(run.Status),
		Suppressed:  run.Suppressed,
		StartedAt:   run.StartedAt,
		CompletedAt: run.CompletedAt,
	}
}

// Write serializes the record as JSON and writes it via the given writer.
func (r *Record) Write(ctx context.Context, w FileWriter, path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal release record: %w", err)
	}
	data = append(data, '\n')

	if err := w.WriteFile(ctx, path, data, 0644); err != nil {
		return fmt.Errorf("failed to write release record: %w", err)
	}
	return nil
}
