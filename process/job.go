package process

import (
	"context"
	"fmt"
	"runtime/debug"
	"strconv"
	"strings"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"swfplay/config"
	"swfplay/display"
	"swfplay/movie"
	"swfplay/script"
	"swfplay/state"
	"swfplay/swf/event"
)

// job turns a loaded movie into output.
type job interface {
	name() string
	format() config.DumpFormat
	execute(ctx context.Context, m *movie.Movie, log *zap.Logger) ([]byte, error)
}

// processMovie loads a single movie. "src" is part of the source path (always
// including file name) relative to the original path.
func processMovie(ctx context.Context, data []byte, src string, j job, out *sink, log *zap.Logger) (rerr error) {
	env := state.EnvFromContext(ctx)
	log = log.With(zap.String("movie", src))

	log.Info("Processing movie", zap.String("job", j.name()))
	defer func(start time.Time) {
		// malformed movies should not stop processing of the rest
		if r := recover(); r != nil {
			log.Error("Processing ended with panic",
				zap.Any("panic", r), zap.Duration("elapsed", time.Since(start)), zap.ByteString("stack", debug.Stack()))
			rerr = fmt.Errorf("processing panic: %v", r)
		} else {
			log.Info("Processing movie completed", zap.Duration("elapsed", time.Since(start)))
		}
	}(time.Now())

	m, err := movie.Load(data, env.MovieOptions(), log)
	if err != nil {
		env.Rpt.StoreData("input/"+src, data)
		return fmt.Errorf("unable to load movie (%s): %w", src, err)
	}
	if issues := multierr.Errors(m.Issues); len(issues) > 0 {
		log.Warn("Movie loaded with issues", zap.Int("count", len(issues)), zap.Error(m.Issues))
		// keep problematic input for troubleshooting
		env.Rpt.StoreData("input/"+src, data)
		env.Rpt.StoreText("tree/"+src+".txt", m.Tree(env.Cfg.Dump.PayloadBytes))
	}

	result, err := j.execute(ctx, m, log)
	if err != nil {
		return err
	}
	env.Rpt.StoreData(j.name()+"/"+src+j.format().Ext(), result)
	return out.write(src, j.format(), result, log)
}

type dumpJob struct {
	out          config.DumpFormat
	payloadBytes int
}

func (j *dumpJob) name() string              { return "dump" }
func (j *dumpJob) format() config.DumpFormat { return j.out }

func (j *dumpJob) execute(_ context.Context, m *movie.Movie, _ *zap.Logger) ([]byte, error) {
	switch j.out {
	case config.DumpFormatYaml:
		return m.Summary().YAML()
	case config.DumpFormatCbor:
		return m.Summary().CBOR()
	}
	return []byte(m.Tree(j.payloadBytes)), nil
}

// notification is a host event delivered after the last frame.
type notification struct {
	trigger event.Trigger
	key     uint8
}

// parseNotification accepts "trigger" or "keyPress:code".
func parseNotification(arg string) (notification, error) {
	name, code, hasKey := strings.Cut(arg, ":")
	t, err := event.ParseTrigger(name)
	if err != nil {
		return notification{}, fmt.Errorf("bad notification %q: %w", arg, err)
	}
	n := notification{trigger: t}
	if hasKey {
		if t != event.TriggerKeyPress {
			return notification{}, fmt.Errorf("bad notification %q: key code is only allowed for %s", arg, event.TriggerKeyPress)
		}
		k, err := strconv.ParseUint(code, 0, 8)
		if err != nil {
			return notification{}, fmt.Errorf("bad notification %q: %w", arg, err)
		}
		n.key = uint8(k)
	}
	return n, nil
}

type playJob struct {
	frames int
	opts   display.Options
	notify []notification
}

func (j *playJob) name() string              { return "play" }
func (j *playJob) format() config.DumpFormat { return config.DumpFormatText }

func (j *playJob) execute(ctx context.Context, m *movie.Movie, log *zap.Logger) ([]byte, error) {
	rec := &script.Recorder{}
	p := display.NewPlayer(m, script.Tee{rec, script.NewLogger(log)}, j.opts, log)
	for i := 0; i < j.frames; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		p.Advance()
	}
	for _, n := range j.notify {
		calls := p.Notify(n.trigger, n.key)
		log.Debug("Notification delivered", zap.Stringer("trigger", n.trigger), zap.Uint8("key", n.key), zap.Int("calls", calls))
	}

	var b strings.Builder
	b.WriteString(p.String())
	fmt.Fprintf(&b, "Calls: %d\n", len(rec.Calls))
	for _, c := range rec.Calls {
		fmt.Fprintf(&b, "  %s\n", c)
	}
	return []byte(b.String()), nil
}
