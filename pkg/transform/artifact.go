package transform

import (
	"context"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/matzehuels/sizereport/pkg/errors"
	"github.com/matzehuels/sizereport/pkg/observability"
)

// artifactPrefix starts the name of every temporary file the registry writes.
const artifactPrefix = "sizereport-"

// artifact is a temporary file that lives for a single transform call.
// Callers must defer remove immediately after a successful create.
type artifact struct {
	path string
}

// createArtifact opens a new uniquely named file in dir for writing.
// The caller owns the returned file and must close it before remove.
func createArtifact(ctx context.Context, dir, suffix string) (*artifact, *os.File, error) {
	path := filepath.Join(dir, artifactPrefix+uuid.NewString()+suffix)
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		return nil, nil, errors.Wrap(errors.ErrCodeArtifact, err, "create temp file")
	}
	observability.Artifact().OnArtifactCreate(ctx, path)
	return &artifact{path: path}, f, nil
}

// writeArtifact stores data in a new artifact. On failure nothing is left on
// disk.
func writeArtifact(ctx context.Context, dir, suffix string, data []byte) (*artifact, error) {
	a, f, err := createArtifact(ctx, dir, suffix)
	if err != nil {
		return nil, err
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		a.remove(ctx)
		return nil, errors.Wrap(errors.ErrCodeArtifact, err, "write temp file")
	}
	if err := f.Close(); err != nil {
		a.remove(ctx)
		return nil, errors.Wrap(errors.ErrCodeArtifact, err, "close temp file")
	}
	return a, nil
}

// size returns the artifact's size on disk.
func (a *artifact) size() (int64, error) {
	info, err := os.Stat(a.path)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeArtifact, err, "stat temp file")
	}
	return info.Size(), nil
}

// remove deletes the artifact. It is safe to call more than once.
func (a *artifact) remove(ctx context.Context) {
	var n int64
	if info, err := os.Stat(a.path); err == nil {
		n = info.Size()
	}
	err := os.Remove(a.path)
	if os.IsNotExist(err) {
		return
	}
	observability.Artifact().OnArtifactRemove(ctx, a.path, n, err)
}
