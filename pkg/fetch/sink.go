package fetch

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/core-tools/hsu-charm-nginx/pkg/errors"
	"github.com/core-tools/hsu-charm-nginx/pkg/workload/processcontrol"

	"github.com/google/renameio"
)

// Sink stores a downloaded body
type Sink interface {
	// Path names the destination for logs and results
	Path() string

	// Write consumes source entirely and stores it
	Write(ctx context.Context, source io.Reader) error
}

type localSink struct {
	path string
	perm os.FileMode
}

// NewLocalSink writes to path on the local filesystem. The file is
// replaced atomically, so a failed download leaves no partial file.
func NewLocalSink(path string, perm os.FileMode) Sink {
	return &localSink{path: path, perm: perm}
}

func (s *localSink) Path() string {
	return s.path
}

func (s *localSink) Write(ctx context.Context, source io.Reader) error {
	pending, err := renameio.TempFile(filepath.Dir(s.path), s.path)
	if err != nil {
		return errors.NewIOError("failed to create pending file", err).WithContext("path", s.path)
	}
	defer pending.Cleanup()

	if _, err := io.Copy(pending, source); err != nil {
		return errors.NewIOError("failed to write pending file", err).WithContext("path", s.path)
	}
	if err := pending.Chmod(s.perm); err != nil {
		return errors.NewIOError("failed to set file mode", err).WithContext("path", s.path)
	}
	if err := pending.CloseAtomicallyReplace(); err != nil {
		return errors.NewIOError("failed to replace file", err).WithContext("path", s.path)
	}
	return nil
}

type pushSink struct {
	pusher processcontrol.FilePusher
	path   string
	perm   os.FileMode
}

// NewPushSink streams the body into a workload filesystem through pusher
func NewPushSink(pusher processcontrol.FilePusher, path string, perm os.FileMode) Sink {
	return &pushSink{pusher: pusher, path: path, perm: perm}
}

func (s *pushSink) Path() string {
	return s.path
}

func (s *pushSink) Write(ctx context.Context, source io.Reader) error {
	return s.pusher.Push(ctx, s.path, source, processcontrol.PushOptions{
		MakeDirs:    true,
		Permissions: s.perm,
	})
}
