// Package process resolves command line sources into movies and runs dump
// and play jobs on them.
package process

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/ianaindex"

	"swfplay/archive"
	"swfplay/config"
	"swfplay/state"
)

// Dump writes a description of every movie found in the source.
func Dump(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)
	log := env.Log.Named("dump")

	format := env.Cfg.Dump.Format
	if cmd.IsSet("format") {
		f, err := config.ParseDumpFormat(cmd.String("format"))
		if err != nil {
			log.Warn("Unknown dump format requested, using configured one", zap.Stringer("format", format), zap.Error(err))
		} else {
			format = f
		}
	}
	if format == config.DumpFormatCbor && len(cmd.Args().Get(1)) == 0 {
		return errors.New("cbor output requires destination directory")
	}
	if cmd.IsSet("payload-bytes") {
		env.Cfg.Dump.PayloadBytes = cmd.Int("payload-bytes")
	}
	return run(ctx, cmd, &dumpJob{out: format, payloadBytes: env.Cfg.Dump.PayloadBytes}, log)
}

// Play runs every movie found in the source for a number of frames and
// writes resulting display lists and script calls.
func Play(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)
	log := env.Log.Named("play")

	if cmd.IsSet("frames") {
		env.Cfg.Player.Frames = cmd.Int("frames")
	}
	if env.Cfg.Player.Frames < 1 {
		return fmt.Errorf("number of frames must be positive, got %d", env.Cfg.Player.Frames)
	}
	if cmd.IsSet("loop") {
		env.Cfg.Player.Loop = cmd.Bool("loop")
	}

	job := &playJob{frames: env.Cfg.Player.Frames, opts: env.PlayerOptions()}
	for _, arg := range cmd.StringSlice("notify") {
		n, err := parseNotification(arg)
		if err != nil {
			return err
		}
		job.notify = append(job.notify, n)
	}
	return run(ctx, cmd, job, log)
}

// run handles common command line processing: source and destination,
// archive name encoding and then processes all movies with job.
func run(ctx context.Context, cmd *cli.Command, j job, log *zap.Logger) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return errors.New("no input source has been specified")
	}
	if src, err = filepath.Abs(src); err != nil {
		return err
	}

	out := &sink{w: cmd.Root().Writer, overwrite: cmd.Bool("overwrite"), rpt: env.Rpt}
	if out.w == nil {
		out.w = os.Stdout
	}
	if dst := cmd.Args().Get(1); len(dst) > 0 {
		if out.dir, err = filepath.Abs(dst); err != nil {
			return err
		}
	}
	if cmd.Args().Len() > 2 {
		log.Warn("Mailformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[2:]))
	}

	// Since zip "standard" does not define file name encoding we may need to
	// force archaic code page for old archives
	cp := cmd.String("force-zip-cp")
	if len(cp) > 0 {
		env.CodePage, err = ianaindex.IANA.Encoding(cp)
		if err != nil || env.CodePage == nil {
			log.Warn("Unknown character set specification. Ignoring...", zap.String("charset", cp), zap.Error(err))
			env.CodePage = nil
		} else {
			n, _ := ianaindex.IANA.Name(env.CodePage)
			log.Debug("Forcefully converting all non UTF-8 file names in archives", zap.String("charset", n))
		}
	}

	log.Info("Processing starting", zap.String("source", src), zap.String("destination", out.dir))
	defer func(start time.Time) {
		log.Info("Processing completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	return process(ctx, src, j, out, log)
}

// process determines the input type (directory, archive, path inside archive
// or single file) and processes it accordingly.
func process(ctx context.Context, src string, j job, out *sink, log *zap.Logger) error {
	var head, tail string
	for head = src; len(head) != 0; head, tail = filepath.Split(head) {
		if err := ctx.Err(); err != nil {
			return err
		}

		head = strings.TrimSuffix(head, string(filepath.Separator))

		fi, err := os.Stat(head)
		if err != nil {
			// does not exists - probably path in archive
			continue
		}

		if fi.Mode().IsDir() {
			if len(tail) != 0 {
				// directory cannot have tail - it would be simple file
				return fmt.Errorf("input source was not found (%s) => (%s)", head, strings.TrimPrefix(src, head))
			}
			if err := processDir(ctx, head, j, out, log); err != nil {
				return fmt.Errorf("unable to process directory: %w", err)
			}
			break
		}

		if !fi.Mode().IsRegular() {
			return fmt.Errorf("unexpected path mode for (%s) => (%s)", head, strings.TrimPrefix(src, head))
		}

		isArchive, err := isArchiveFile(head)
		if err != nil {
			return fmt.Errorf("unable to check archive type: %w", err)
		}
		if isArchive {
			// we need to look inside to see if path makes sense
			tail = strings.TrimPrefix(strings.TrimPrefix(src, head), string(filepath.Separator))
			if err := processArchive(ctx, head, filepath.ToSlash(tail), "", j, out, log); err != nil {
				return fmt.Errorf("unable to process archive: %w", err)
			}
			break
		}

		isMovie, err := isMovieFile(head)
		if err != nil {
			return fmt.Errorf("unable to check file type: %w", err)
		}
		if isMovie && len(tail) == 0 {
			data, err := os.ReadFile(head)
			if err != nil {
				return fmt.Errorf("unable to read movie: %w", err)
			}
			if err := processMovie(ctx, data, filepath.Base(head), j, out, log); err != nil {
				log.Error("Unable to process file", zap.String("file", head), zap.Error(err))
			}
			break
		}
		return fmt.Errorf("input was not recognized as SWF movie (%s)", head)
	}
	if len(head) == 0 {
		return fmt.Errorf("input source was not found (%s)", src)
	}
	return nil
}

// processDir walks directory tree finding movies and archives and processes
// them.
func processDir(ctx context.Context, dir string, j job, out *sink, log *zap.Logger) (err error) {
	count := 0
	defer func() {
		if err == nil && count == 0 {
			log.Debug("Nothing to process", zap.String("dir", dir))
		}
	}()

	err = filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err != nil {
			log.Warn("Skipping path", zap.String("path", path), zap.Error(err))
			return nil
		}
		if !info.Mode().IsRegular() {
			return nil
		}

		rel := strings.TrimPrefix(strings.TrimPrefix(path, dir), string(filepath.Separator))

		isArchive, err := isArchiveFile(path)
		if err != nil {
			log.Warn("Skipping file", zap.String("file", path), zap.Error(err))
			return nil
		}
		if isArchive {
			count++
			if err := processArchive(ctx, path, "", rel, j, out, log); err != nil {
				log.Error("Unable to process archive", zap.String("file", path), zap.Error(err))
			}
			return nil
		}

		isMovie, err := isMovieFile(path)
		if err != nil {
			log.Warn("Skipping file", zap.String("file", path), zap.Error(err))
			return nil
		}
		if !isMovie {
			log.Debug("Skipping file, not recognized as movie or archive", zap.String("file", path))
			return nil
		}

		count++

		data, err := os.ReadFile(path)
		if err != nil {
			log.Error("Unable to process file", zap.String("file", path), zap.Error(err))
			return nil
		}
		if err := processMovie(ctx, data, rel, j, out, log); err != nil {
			log.Error("Unable to process file", zap.String("file", path), zap.Error(err))
		}
		return nil
	})
	return err
}

// processArchive walks all files inside archive, finds movies under "pathIn"
// and processes them. Results are named after "pathOut" joined with path in
// archive.
func processArchive(ctx context.Context, path, pathIn, pathOut string, j job, out *sink, log *zap.Logger) (err error) {
	count := 0
	defer func() {
		if err == nil && count == 0 {
			log.Debug("Nothing to process", zap.String("archive", path))
		}
	}()

	cp := state.EnvFromContext(ctx).CodePage

	err = archive.Walk(path, pathIn, func(archive string, f *zip.File) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		isMovie, err := isMovieInArchive(f)
		if err != nil {
			log.Warn("Skipping file in archive",
				zap.String("archive", archive), zap.String("path", f.FileHeader.Name), zap.Error(err))
			return nil
		}
		if !isMovie {
			log.Debug("Skipping file, not recognized as movie", zap.String("archive", archive), zap.String("file", f.FileHeader.Name))
			return nil
		}

		count++

		data, err := readEntry(f)
		if err != nil {
			log.Error("Unable to process file in archive",
				zap.String("archive", archive), zap.String("file", f.FileHeader.Name), zap.Error(err))
			return nil
		}

		pathInArchive := f.FileHeader.Name
		if cp != nil && f.FileHeader.NonUTF8 {
			// forcing zip file name encoding
			if n, err := cp.NewDecoder().String(pathInArchive); err == nil {
				pathInArchive = n
			} else {
				n, _ = ianaindex.IANA.Name(cp)
				log.Warn("Unable to convert archive name from specified encoding",
					zap.String("charset", n), zap.String("path", pathInArchive), zap.Error(err))
			}
		}
		if err := processMovie(ctx, data, filepath.Join(pathOut, pathInArchive), j, out, log); err != nil {
			log.Error("Unable to process file in archive",
				zap.String("archive", archive), zap.String("file", f.FileHeader.Name), zap.Error(err))
		}
		return nil
	})
	return err
}

func readEntry(f *zip.File) ([]byte, error) {
	r, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}
