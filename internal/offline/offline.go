// Package offline loads the bundled scripture dump once per process and
// shares the resulting tree.
package offline

import (
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/irron2004/bible2ppt/core/bible"
	"github.com/irron2004/bible2ppt/core/canon"
	"github.com/irron2004/bible2ppt/core/errors"
	"github.com/irron2004/bible2ppt/core/ingest"
	"github.com/irron2004/bible2ppt/internal/config"
	"github.com/irron2004/bible2ppt/internal/logging"
)

// DefaultFileName is the dump looked up when no path is configured.
const DefaultFileName = "bible.txt"

// Provider parses the scripture dump on first use. Concurrent first callers
// wait for one parse; every caller then gets the same tree or the same error.
type Provider struct {
	path     string
	encoding string
	registry *canon.Registry
	opts     []ingest.Option

	parse func(io.Reader, *canon.Registry, ...ingest.Option) (*bible.Tree, error)
	load  func() (*bible.Tree, error)
}

// NewProvider returns a provider for the dump at path. A nil registry means
// canon.Default().
func NewProvider(path, encoding string, reg *canon.Registry, opts ...ingest.Option) *Provider {
	if reg == nil {
		reg = canon.Default()
	}
	p := &Provider{
		path:     path,
		encoding: encoding,
		registry: reg,
		opts:     opts,
		parse:    ingest.Parse,
	}
	if isOSIS(path) {
		p.parse = ingest.ParseOSIS
	}
	p.load = sync.OnceValues(p.read)
	return p
}

// FromConfig resolves the dump location from cfg and returns its provider.
func FromConfig(cfg *config.Config) (*Provider, error) {
	path, err := ResolvePath(cfg.BiblePath)
	if err != nil {
		return nil, err
	}
	return NewProvider(path, cfg.Encoding, nil), nil
}

// Path returns the dump location.
func (p *Provider) Path() string {
	return p.path
}

// Tree returns the parsed tree, parsing it on the first call.
func (p *Provider) Tree() (*bible.Tree, error) {
	return p.load()
}

func (p *Provider) read() (*bible.Tree, error) {
	start := time.Now()

	src, err := openSource(p.path, p.encoding)
	if err != nil {
		return nil, errors.NewIO("open", p.path, err)
	}
	defer src.Close()

	tree, err := p.parse(src, p.registry, p.opts...)
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", p.path)
	}

	logging.IngestComplete(p.path, tree.ID, len(tree.Books), tree.VerseCount(), time.Since(start),
		"encoding", p.encoding)
	return tree, nil
}

// ResolvePath locates the scripture dump. A configured path must exist;
// otherwise DefaultFileName is searched next to the executable and then in
// the working directory.
func ResolvePath(configured string) (string, error) {
	return resolvePath(configured, searchDirs())
}

func resolvePath(configured string, dirs []string) (string, error) {
	if configured != "" {
		if _, err := os.Stat(configured); err != nil {
			if os.IsNotExist(err) {
				return "", errors.NewNotFound("bible text", configured)
			}
			return "", errors.NewIO("stat", configured, err)
		}
		return configured, nil
	}

	for _, dir := range dirs {
		candidate := filepath.Join(dir, DefaultFileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
	}
	return "", errors.NewNotFound("bible text", DefaultFileName)
}

func searchDirs() []string {
	var dirs []string
	if exe, err := os.Executable(); err == nil {
		dirs = append(dirs, filepath.Dir(exe))
	}
	if wd, err := os.Getwd(); err == nil {
		dirs = append(dirs, wd)
	}
	return dirs
}
