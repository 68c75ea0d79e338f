package file

import (
	"bufio"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/muhammadchandra19/orderflow/pkg/errors"
	"github.com/muhammadchandra19/orderflow/pkg/logger"
)

// maxLineBytes bounds a single feed line.
const maxLineBytes = 4 << 20

// Source reads newline-delimited feed lines from a local file. Files ending
// in .gz are decompressed on the fly.
type Source struct {
	path   string
	logger logger.Interface
}

// NewSource creates a new file source.
func NewSource(path string, logger logger.Interface) *Source {
	return &Source{path: path, logger: logger}
}

// Name returns the source name.
func (s *Source) Name() string {
	return "file:" + s.path
}

// ReadLines reads every non-blank line of the file.
func (s *Source) ReadLines(ctx context.Context) ([]string, error) {
	if s.path == "" {
		return nil, errors.NewErrorDetails("feed file path is empty", string(errors.FeedSourceError), "path")
	}

	f, err := os.Open(s.path)
	if err != nil {
		return nil, errors.NewTracer("failed to open feed file: " + err.Error()).Wrap(err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(strings.ToLower(s.path), ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, errors.TracerFromError(err)
		}
		defer gz.Close()
		r = gz
	}

	lines, err := ReadAll(ctx, r)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "feed file loaded",
		logger.Field{Key: "path", Value: s.path},
		logger.Field{Key: "lines", Value: len(lines)},
	)
	return lines, nil
}

// ReadAll splits r into non-blank lines, checking ctx between chunks.
func ReadAll(ctx context.Context, r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	var lines []string
	for n := 0; scanner.Scan(); n++ {
		if n%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return nil, errors.NewErrorDetails(
				fmt.Sprintf("feed line exceeds %d bytes", maxLineBytes),
				string(errors.FeedSourceError),
				"line",
			)
		}
		return nil, errors.TracerFromError(err)
	}
	return lines, nil
}
