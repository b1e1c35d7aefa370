package logger

import (
	"io"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

// FileOptions configures size based rotation of the log file.
type FileOptions struct {
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// OpenFile routes loggers created afterwards to a rotating file at path.
// Closing the returned closer restores stderr.
func OpenFile(path string, o FileOptions) (io.Closer, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	lj := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    o.MaxSizeMB,
		MaxBackups: o.MaxBackups,
		MaxAge:     o.MaxAgeDays,
		Compress:   o.Compress,
	}
	SetOutput(lj)
	return fileCloser{lj}, nil
}

type fileCloser struct {
	lj *lumberjack.Logger
}

func (c fileCloser) Close() error {
	SetOutput(nil)
	return c.lj.Close()
}
