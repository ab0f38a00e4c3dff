// Package state defines shared program state.
package state

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/encoding"

	"swfplay/config"
	"swfplay/display"
	"swfplay/movie"
	"swfplay/swf/tag"
)

type envKey struct{}

// LocalEnv keeps everything program needs in a single place.
type LocalEnv struct {
	Cfg *config.Config
	Rpt *config.Report
	Log *zap.Logger

	// Text decodes strings of movies before version 6, nil keeps raw bytes.
	Text tag.TextDecoder
	// CodePage is forced for non UTF-8 file names in zip archives.
	CodePage encoding.Encoding

	start         time.Time
	restoreStdLog func()
}

func EnvFromContext(ctx context.Context) *LocalEnv {
	if env, ok := ctx.Value(envKey{}).(*LocalEnv); ok {
		return env
	}
	// this should never happen
	panic("localenv not found in context")
}

func ContextWithEnv(ctx context.Context) context.Context {
	return context.WithValue(ctx, envKey{}, newLocalEnv())
}

func (e *LocalEnv) Uptime() time.Duration {
	return time.Since(e.start)
}

func (e *LocalEnv) RedirectStdLog() {
	if e.Log == nil {
		return
	}
	e.restoreStdLog = zap.RedirectStdLog(e.Log)
}

func (e *LocalEnv) RestoreStdLog() {
	if e.Log != nil {
		_ = e.Log.Sync()
	}
	if e.restoreStdLog != nil {
		e.restoreStdLog()
	}
}

// MovieOptions translates parser configuration into loader options.
func (e *LocalEnv) MovieOptions() movie.Options {
	opts := movie.Options{Text: e.Text}
	if e.Cfg == nil {
		return opts
	}
	if e.Cfg.Parser.Overrun == config.OverrunModeKeep {
		opts.Overrun = tag.OverrunKeep
	}
	opts.MaxTagLength = e.Cfg.Parser.MaxTagLength
	return opts
}

// PlayerOptions translates player configuration into playback options.
func (e *LocalEnv) PlayerOptions() display.Options {
	if e.Cfg == nil {
		return display.Options{}
	}
	return display.Options{
		Loop:           e.Cfg.Player.Loop,
		FireEnterFrame: e.Cfg.Player.FireEnterFrame,
	}
}

// PrepareText sets up the legacy string decoder from configuration.
func (e *LocalEnv) PrepareText() error {
	if e.Cfg == nil {
		return nil
	}
	dec, err := tag.NewTextDecoder(e.Cfg.Parser.LegacyEncoding)
	if err != nil {
		return fmt.Errorf("unable to use legacy encoding %q: %w", e.Cfg.Parser.LegacyEncoding, err)
	}
	e.Text = dec
	return nil
}
