// Package audit writes the append-only action log. One line per mutating
// action, `timestamp | user | action | detail`, in a file per calendar day.
// The log is a write-only sink for operators: nothing in the application
// reads it back, and a failed write must never fail the action it records.
package audit

import (
	"fmt"
	"log/slog"
	"os"
	"os/user"
	"path/filepath"
	"time"
)

// Logger appends audit lines to a date-suffixed file in dir, switching files
// when the day rolls over.
type Logger struct {
	dir  string
	user string

	file    *os.File
	fileDay string

	now func() time.Time
}

// Open prepares an audit logger writing into dir. The directory is created
// if it does not exist.
func Open(dir string) (*Logger, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory %s: %w", dir, err)
	}
	return &Logger{dir: dir, user: CurrentUser(), now: time.Now}, nil
}

// CurrentUser returns the best available name for the local user.
func CurrentUser() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	if name := os.Getenv("USER"); name != "" {
		return name
	}
	return "unknown"
}

// Log appends one audit line. Errors are reported once through slog and
// otherwise swallowed; callers never see them.
func (l *Logger) Log(action, detail string) {
	if l == nil {
		return
	}
	now := l.now()
	f, err := l.fileFor(now)
	if err != nil {
		slog.Warn("audit log unavailable", "error", err)
		return
	}
	line := fmt.Sprintf("%s | %s | %s | %s\n",
		now.Format("2006-01-02 15:04:05"), l.user, action, detail)
	if _, err := f.WriteString(line); err != nil {
		slog.Warn("audit write failed", "action", action, "error", err)
	}
}

// fileFor returns the open file for the given day, rotating if the day has
// changed since the last write.
func (l *Logger) fileFor(now time.Time) (*os.File, error) {
	day := now.Format("2006-01-02")
	if l.file != nil && day == l.fileDay {
		return l.file, nil
	}
	if l.file != nil {
		l.file.Close()
		l.file = nil
	}
	path := filepath.Join(l.dir, fmt.Sprintf("flashdeck-%s.log", day))
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit file %s: %w", path, err)
	}
	l.file = f
	l.fileDay = day
	return f, nil
}

// Close releases the current log file, if any.
func (l *Logger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}
