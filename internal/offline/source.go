package offline

import (
	"compress/gzip"
	"io"
	"os"
	"strings"

	"github.com/ulikunitz/xz"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/transform"

	"github.com/irron2004/bible2ppt/core/errors"
	"github.com/irron2004/bible2ppt/internal/config"
)

// source is an open scripture dump with decompression and decoding applied.
type source struct {
	io.Reader
	file         *os.File
	decompressor io.Closer
}

// openSource opens path, decompressing .xz and .gz files and decoding
// EUC-KR when encoding asks for it.
func openSource(path, encoding string) (*source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	var reader io.Reader = f
	var decompressor io.Closer

	switch {
	case strings.HasSuffix(path, ".xz"):
		xzr, err := xz.NewReader(f)
		if err != nil {
			f.Close()
			return nil, errors.Wrap(err, "xz reader")
		}
		reader = xzr
	case strings.HasSuffix(path, ".gz"):
		gzr, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, errors.Wrap(err, "gzip reader")
		}
		reader = gzr
		decompressor = gzr
	}

	if encoding == config.EncodingEUCKR {
		reader = transform.NewReader(reader, korean.EUCKR.NewDecoder())
	}

	return &source{Reader: reader, file: f, decompressor: decompressor}, nil
}

// Close closes the source and any decompressor.
func (s *source) Close() error {
	var errs []error
	if s.decompressor != nil {
		if err := s.decompressor.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := s.file.Close(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}

// isOSIS reports whether path names an OSIS XML document, ignoring any
// compression suffix.
func isOSIS(path string) bool {
	p := strings.TrimSuffix(strings.TrimSuffix(path, ".xz"), ".gz")
	return strings.HasSuffix(strings.ToLower(p), ".xml")
}
