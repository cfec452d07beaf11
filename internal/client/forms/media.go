package forms

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/sync/errgroup"

	"github.com/voatnetwork/voat/internal/client/models"
)

const MaxMediaSize = 10 * 1024 * 1024

var (
	ErrUnsupportedMedia = errors.New("please select an image, video, audio, or PDF file")
	ErrMediaTooLarge    = errors.New("file size must be less than 10MB")
)

// MediaCategory classifies a MIME type, returning "" for unsupported types.
func MediaCategory(mime string) string {
	switch {
	case strings.HasPrefix(mime, "image/"):
		return "image"
	case strings.HasPrefix(mime, "video/"):
		return "video"
	case strings.HasPrefix(mime, "audio/"):
		return "audio"
	case mime == "application/pdf":
		return "pdf"
	default:
		return ""
	}
}

// ReadMediaFrom reads r fully, detects its type from content and encodes it
// as a data URL. Content over MaxMediaSize is rejected.
func ReadMediaFrom(name string, r io.Reader) (*models.MediaFile, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxMediaSize+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	if len(data) > MaxMediaSize {
		return nil, fmt.Errorf("%s: %w", name, ErrMediaTooLarge)
	}

	mt := mimetype.Detect(data)
	mime, _, _ := strings.Cut(mt.String(), ";")
	category := MediaCategory(mime)
	if category == "" {
		return nil, fmt.Errorf("%s (%s): %w", name, mime, ErrUnsupportedMedia)
	}

	var buf bytes.Buffer
	buf.WriteString("data:" + mime + ";base64,")
	buf.WriteString(base64.StdEncoding.EncodeToString(data))

	return &models.MediaFile{
		Name:     name,
		MIME:     mime,
		Size:     int64(len(data)),
		DataURL:  buf.String(),
		Category: category,
	}, nil
}

// ReadMedia reads a file from disk. The size is checked before reading.
func ReadMedia(path string) (*models.MediaFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if st.Size() > MaxMediaSize {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), ErrMediaTooLarge)
	}
	return ReadMediaFrom(filepath.Base(path), f)
}

// ReadMediaFiles reads all paths concurrently. The result keeps the input
// order; if any read fails nothing is returned.
func ReadMediaFiles(ctx context.Context, paths []string) ([]*models.MediaFile, error) {
	out := make([]*models.MediaFile, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	for i, p := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			m, err := ReadMedia(p)
			if err != nil {
				return err
			}
			out[i] = m
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
