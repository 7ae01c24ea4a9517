package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

// SetupLogFile returns a size-rotated log file writer in dir that keeps at most
// maxFiles old files. Caller must close it.
func SetupLogFile(dir string, maxFiles int) (io.WriteCloser, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	return &lumberjack.Logger{
		Filename:   filepath.Join(dir, "server.log"),
		MaxSize:    50, // megabytes
		MaxBackups: maxFiles,
		MaxAge:     28, // days
		Compress:   true,
	}, nil
}

// LogWriter tees stdout with the rotated file when dir is set.
// The returned closer is a no-op when no file is used.
func LogWriter(dir string, maxFiles int) (io.Writer, func() error, error) {
	if dir == "" {
		return os.Stdout, func() error { return nil }, nil
	}

	f, err := SetupLogFile(dir, maxFiles)
	if err != nil {
		return nil, nil, err
	}
	return io.MultiWriter(os.Stdout, f), f.Close, nil
}
