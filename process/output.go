package process

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"swfplay/config"
)

// sink receives one result per processed movie, either as a stream of
// separated documents or as files under a destination directory.
type sink struct {
	dir       string
	w         io.Writer
	overwrite bool
	// rpt keeps copies of replaced files, may be nil.
	rpt *config.Report
}

// write stores result for movie "src", which is a relative path (always
// including file name) of the movie inside processed source.
func (s *sink) write(src string, format config.DumpFormat, data []byte, log *zap.Logger) error {
	if len(s.dir) == 0 {
		return s.stream(src, format, data)
	}

	name := outputPath(s.dir, src, format.Ext())
	if _, err := os.Stat(name); err == nil {
		if !s.overwrite {
			return fmt.Errorf("output file already exists: %s", name)
		}
		log.Warn("Overwriting existing file", zap.String("file", name))
		if err := s.rpt.StoreCopy("replaced/"+filepath.ToSlash(src)+format.Ext(), name); err != nil {
			log.Warn("Unable to keep replaced file in report", zap.String("file", name), zap.Error(err))
		}
	} else if !os.IsNotExist(err) {
		return err
	} else if err := os.MkdirAll(filepath.Dir(name), 0755); err != nil {
		return fmt.Errorf("unable to create output directory: %w", err)
	}
	if err := os.WriteFile(name, data, 0644); err != nil {
		return fmt.Errorf("unable to write output: %w", err)
	}
	log.Debug("Output written", zap.String("file", name), zap.Int("size", len(data)))
	return nil
}

func (s *sink) stream(src string, format config.DumpFormat, data []byte) error {
	var err error
	switch format {
	case config.DumpFormatText:
		_, err = fmt.Fprintf(s.w, "== %s ==\n%s", src, data)
	case config.DumpFormatYaml:
		_, err = fmt.Fprintf(s.w, "---\n# %s\n%s", src, data)
	default:
		return errors.New("binary output requires destination directory")
	}
	return err
}

// outputPath mirrors relative source path under destination directory
// replacing movie extension.
func outputPath(dir, src, ext string) string {
	parts := strings.Split(filepath.ToSlash(src), "/")
	out := make([]string, 0, len(parts)+1)
	out = append(out, dir)
	for i, p := range parts {
		if len(p) == 0 || p == "." {
			continue
		}
		if i == len(parts)-1 {
			p = strings.TrimSuffix(p, filepath.Ext(p)) + ext
		}
		out = append(out, config.CleanFileName(p))
	}
	return filepath.Join(out...)
}
