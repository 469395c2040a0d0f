package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options controls where logs go and how chatty the console is
type Options struct {
	// Dir holds the JSON log files (default "logs")
	Dir string

	// Env prefixes the log file name
	Env string

	// Verbose lowers the console level from Info to Debug
	Verbose bool
}

// New builds a logger that tees a coloured console encoder and a JSON file encoder.
// The file always receives Debug entries.
func New(opts Options) (*zap.Logger, error) {
	dir := opts.Dir
	if dir == "" {
		dir = "logs"
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create logs directory: %w", err)
	}

	name := opts.Env
	if name == "" {
		name = "allocator"
	}
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	logPath := filepath.Join(dir, fmt.Sprintf("%s_%s.log", name, timestamp))
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	consoleLevel := zapcore.InfoLevel
	if opts.Verbose {
		consoleLevel = zapcore.DebugLevel
	}

	core := zapcore.NewTee(
		zapcore.NewCore(consoleEncoder(), zapcore.AddSync(os.Stdout), consoleLevel),
		zapcore.NewCore(fileEncoder(), zapcore.AddSync(logFile), zapcore.DebugLevel),
	)

	return zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)), nil
}

func consoleEncoder() zapcore.Encoder {
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
	cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	return zapcore.NewConsoleEncoder(cfg)
}

func fileEncoder() zapcore.Encoder {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "timestamp"
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	return zapcore.NewJSONEncoder(cfg)
}
