// Package logging provides the console logger used across the service.
package logging

import (
	"fmt"
	"log"
	"os"
	"strings"
)

// Logger writes leveled, key/value structured lines to the console.
type Logger struct {
	out *log.Logger
}

// NewLogger creates a new Logger.
func NewLogger() *Logger {
	return &Logger{
		out: log.New(os.Stdout, "", log.LstdFlags),
	}
}

// Debug logs a debug message with optional key/value pairs.
func (l *Logger) Debug(msg string, args ...any) {
	l.write("DEBUG", msg, args)
}

// Info logs an informational message with optional key/value pairs.
func (l *Logger) Info(msg string, args ...any) {
	l.write("INFO", msg, args)
}

// Warn logs a warning with optional key/value pairs.
func (l *Logger) Warn(msg string, args ...any) {
	l.write("WARN", msg, args)
}

// Error logs an error message with optional key/value pairs.
func (l *Logger) Error(msg string, args ...any) {
	l.write("ERROR", msg, args)
}

func (l *Logger) write(level, msg string, args []any) {
	var b strings.Builder
	b.WriteString(level)
	b.WriteString(": ")
	b.WriteString(msg)
	for i := 0; i+1 < len(args); i += 2 {
		fmt.Fprintf(&b, " %v=%v", args[i], args[i+1])
	}
	if len(args)%2 != 0 {
		fmt.Fprintf(&b, " %v", args[len(args)-1])
	}
	l.out.Print(b.String())
}
