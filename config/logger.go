package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"

	"swfplay/misc"
)

const (
	levelDebug  = "debug"
	levelNormal = "normal"
)

type LoggerConfig struct {
	Level       string `yaml:"level" validate:"required,oneof=none debug normal"`
	Destination string `yaml:"destination,omitempty" sanitize:"path_clean,assure_dir_exists_for_file" validate:"omitempty,filepath"`
	Mode        string `yaml:"mode,omitempty" validate:"omitempty,oneof=append overwrite"`
}

type LoggingConfig struct {
	FileLogger    LoggerConfig `yaml:"file"`
	ConsoleLogger LoggerConfig `yaml:"console"`
}

// PanicLogName is where runtime crash output goes while file logging is on.
func (conf *LoggingConfig) PanicLogName() string {
	return filepath.Join(filepath.Dir(conf.FileLogger.Destination), misc.GetAppName()+"-panic.log")
}

// Prepare builds program logger: console output split between stdout and
// stderr plus optional log file. When debug report is requested the file
// log always runs at debug level and ends up in the report.
func (conf *LoggingConfig) Prepare(rpt *Report) (*zap.Logger, error) {
	file := conf.FileLogger
	if rpt != nil {
		file.Level, file.Mode = levelDebug, "overwrite"
	}

	fileCore, redirected, err := file.fileCore(conf.PanicLogName(), rpt)
	if err != nil {
		return nil, err
	}

	log := zap.New(zapcore.NewTee(conf.ConsoleLogger.consoleCore(), fileCore), zap.AddCaller())
	if len(redirected) > 0 {
		log.Warn("Log file was redirected to new location", zap.String("location", redirected))
	}
	return log.Named(misc.GetAppName()), nil
}

func minLevel(level string) (zapcore.Level, bool) {
	switch level {
	case levelDebug:
		return zapcore.DebugLevel, true
	case levelNormal:
		return zapcore.InfoLevel, true
	}
	return zapcore.InvalidLevel, false
}

// consoleCore sends errors to stderr and everything else to stdout.
func (conf *LoggerConfig) consoleCore() zapcore.Core {
	lowest, ok := minLevel(conf.Level)
	if !ok {
		return zapcore.NewNopCore()
	}
	return zapcore.NewTee(
		zapcore.NewCore(consoleEncoder(os.Stdout), zapcore.Lock(os.Stdout),
			zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
				return lowest <= lvl && lvl < zapcore.ErrorLevel
			})),
		zapcore.NewCore(consoleEncoder(os.Stderr), zapcore.Lock(os.Stderr),
			zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
				return lvl >= zapcore.ErrorLevel
			})),
	)
}

func consoleEncoder(stream *os.File) zapcore.Encoder {
	ec := zap.NewDevelopmentEncoderConfig()
	ec.EncodeCaller = nil
	ec.EncodeLevel = zapcore.CapitalLevelEncoder
	if EnableColorOutput(stream) {
		ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
		ec.TimeKey = zapcore.OmitKey
	}
	return issueEncoder{zapcore.NewConsoleEncoder(ec)}
}

// fileCore opens log file, falling back to a temporary one when destination
// is not writable. Name of the fallback file is returned so it could be
// reported.
func (conf *LoggerConfig) fileCore(panicName string, rpt *Report) (zapcore.Core, string, error) {
	lowest, ok := minLevel(conf.Level)
	if !ok {
		return zapcore.NewNopCore(), "", nil
	}
	capturePanics(panicName, conf.Mode, rpt)

	var redirected string
	f, err := openLog(conf.Destination, conf.Mode)
	if err != nil {
		if f, err = os.CreateTemp("", misc.GetAppName()+".*.log"); err != nil {
			return nil, "", fmt.Errorf("unable to access file log destination (%s): %w", conf.Destination, err)
		}
		redirected = f.Name()
	}
	rpt.Store("final.log", f.Name())

	enc := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	return zapcore.NewCore(enc, zapcore.Lock(f), zap.NewAtomicLevelAt(lowest)), redirected, nil
}

// capturePanics redirects runtime crash output to a file, quietly giving up
// when neither requested nor temporary file could be created.
func capturePanics(name, mode string, rpt *Report) {
	f, err := openLog(name, mode)
	if err != nil {
		if f, err = os.CreateTemp("", misc.GetAppName()+"-panic.*.log"); err != nil {
			return
		}
	}
	defer f.Close()
	if err := debug.SetCrashOutput(f, debug.CrashOptions{}); err == nil {
		rpt.Store("panic.log", f.Name())
	}
}

func openLog(name, mode string) (*os.File, error) {
	flags := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	if mode == "append" {
		flags = os.O_CREATE | os.O_WRONLY | os.O_APPEND
	}
	return os.OpenFile(name, flags, 0644)
}

// issueEncoder keeps console readable: a combined error, like the list of
// problems found in a movie, is printed as its first entry and a count.
// Full errors still go to the log file.
type issueEncoder struct {
	zapcore.Encoder
}

func (e issueEncoder) Clone() zapcore.Encoder {
	return issueEncoder{e.Encoder.Clone()}
}

func (e issueEncoder) EncodeEntry(ent zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	out := make([]zapcore.Field, 0, len(fields))
	for _, f := range fields {
		if err, ok := f.Interface.(error); ok && f.Type == zapcore.ErrorType {
			f.Interface = shortError(err)
		}
		out = append(out, f)
	}
	return e.Encoder.EncodeEntry(ent, out)
}

// shortError also drops verbose formatting (stack traces and such) as only
// the message survives.
func shortError(err error) error {
	if errs := multierr.Errors(err); len(errs) > 1 {
		return fmt.Errorf("%s (and %d more)", errs[0].Error(), len(errs)-1)
	}
	return errors.New(err.Error())
}
