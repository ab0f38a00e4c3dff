package process

import (
	"archive/zip"
	"errors"
	"io"
	"os"

	"github.com/h2non/filetype"

	"swfplay/movie"
)

// sniffSize is enough for filetype matchers and container signatures.
const sniffSize = 262

func readHead(r io.Reader) ([]byte, error) {
	head := make([]byte, sniffSize)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return head[:n], nil
}

func sniffFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return readHead(f)
}

// isArchiveFile checks whether file content is a zip archive.
func isArchiveFile(path string) (bool, error) {
	head, err := sniffFile(path)
	if err != nil {
		return false, err
	}
	return filetype.Is(head, "zip"), nil
}

// isMovieFile checks whether file starts with one of the container
// signatures.
func isMovieFile(path string) (bool, error) {
	head, err := sniffFile(path)
	if err != nil {
		return false, err
	}
	return movie.IsMovie(head), nil
}

// isMovieInArchive is isMovieFile for an archive entry.
func isMovieInArchive(f *zip.File) (bool, error) {
	r, err := f.Open()
	if err != nil {
		return false, err
	}
	defer r.Close()
	head, err := readHead(r)
	if err != nil {
		return false, err
	}
	return movie.IsMovie(head), nil
}
