// Package download streams resolved song URLs to local files.
package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/liuran001/hymusic/core"
	"github.com/liuran001/hymusic/core/platform"
)

// ErrIncomplete is returned when fewer bytes arrive than the stream declared.
var ErrIncomplete = errors.New("download: incomplete")

// Opener opens a streaming GET. transport.Client satisfies it.
type Opener interface {
	Open(ctx context.Context, rawURL string) (io.ReadCloser, int64, error)
}

// ProgressFunc receives the bytes written so far and the expected total,
// which is 0 when unknown.
type ProgressFunc func(written, total int64)

// Service writes streams to disk verbatim.
type Service struct {
	opener  Opener
	timeout time.Duration
	logger  core.Logger
}

// Options configures a Service.
type Options struct {
	// Timeout bounds one download. Zero means no limit beyond ctx.
	Timeout time.Duration
	Logger  core.Logger
}

// NewService creates a download service.
func NewService(opener Opener, opts Options) *Service {
	return &Service{opener: opener, timeout: opts.Timeout, logger: opts.Logger}
}

// Download fetches stream into destPath. Bytes land in destPath+".part"
// first and are renamed only after a complete copy.
func (s *Service) Download(ctx context.Context, stream *platform.StreamURL, destPath string, progress ProgressFunc) (int64, error) {
	if stream == nil || stream.URL == "" {
		return 0, errors.New("download: stream url missing")
	}
	if destPath == "" {
		return 0, errors.New("download: dest path missing")
	}
	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return 0, fmt.Errorf("download: %w", err)
	}
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	body, length, err := s.opener.Open(ctx, stream.URL)
	if err != nil {
		return 0, fmt.Errorf("download: %w", err)
	}
	defer body.Close()

	total := stream.Size
	if total <= 0 && length > 0 {
		total = length
	}
	partPath := destPath + ".part"
	file, err := os.Create(partPath)
	if err != nil {
		return 0, fmt.Errorf("download: %w", err)
	}
	written, copyErr := copyWithProgress(file, body, total, progress)
	closeErr := file.Close()
	if copyErr == nil && closeErr != nil {
		copyErr = closeErr
	}
	if copyErr == nil && total > 0 && written != total {
		copyErr = fmt.Errorf("%w: got %d bytes, expected %d", ErrIncomplete, written, total)
	}
	if copyErr != nil {
		_ = os.Remove(partPath)
		return 0, fmt.Errorf("download: %w", copyErr)
	}
	if err := os.Rename(partPath, destPath); err != nil {
		_ = os.Remove(partPath)
		return 0, fmt.Errorf("download: %w", err)
	}
	if s.logger != nil {
		s.logger.Debug("download finished", "path", destPath, "bytes", written, "quality", stream.Quality.String())
	}
	return written, nil
}

func copyWithProgress(dst io.Writer, src io.Reader, total int64, progress ProgressFunc) (int64, error) {
	if progress == nil {
		return io.Copy(dst, src)
	}

	buf := make([]byte, 32*1024)
	var written int64

	for {
		nr, err := src.Read(buf)
		if nr > 0 {
			nw, ew := dst.Write(buf[0:nr])
			if nw > 0 {
				written += int64(nw)
				progress(written, total)
			}
			if ew != nil {
				return written, ew
			}
			if nr != nw {
				return written, io.ErrShortWrite
			}
		}
		if err != nil {
			if err == io.EOF {
				return written, nil
			}
			return written, err
		}
	}
}

var unsafeName = strings.NewReplacer(
	"/", "_", "\\", "_", ":", "_", "*", "_", "?", "_",
	"\"", "_", "<", "_", ">", "_", "|", "_",
)

// FileName builds "artist - title.format" with path separators and other
// reserved characters replaced. A format that is not a short alphanumeric
// extension falls back to mp3.
func FileName(artist, title, format string) string {
	format = strings.ToLower(strings.TrimSpace(format))
	if !validFormat(format) {
		format = "mp3"
	}
	name := strings.TrimSpace(title)
	if artist = strings.TrimSpace(artist); artist != "" {
		name = artist + " - " + name
	}
	return SafeName(name) + "." + format
}

// SafeName replaces reserved path characters in name. An empty name, or one
// made only of dots, becomes "untitled".
func SafeName(name string) string {
	name = unsafeName.Replace(strings.TrimSpace(name))
	if strings.Trim(name, ". ") == "" {
		return "untitled"
	}
	return name
}

func validFormat(format string) bool {
	if format == "" || len(format) > 8 {
		return false
	}
	for _, r := range format {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}
