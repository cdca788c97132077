// Command bible2ppt loads the offline Korean bible, resolves passage
// references against it and seeds a SQLite store.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"

	"github.com/irron2004/bible2ppt/core/bible"
	"github.com/irron2004/bible2ppt/core/ingest"
	"github.com/irron2004/bible2ppt/internal/config"
	"github.com/irron2004/bible2ppt/internal/offline"
	"github.com/irron2004/bible2ppt/internal/store"
)

const version = "0.1.0"

// CLI defines the command-line interface for bible2ppt.
type CLI struct {
	// Global flags
	Config    string `help:"YAML configuration file" type:"path" env:"BIBLE2PPT_CONFIG"`
	Bible     string `help:"Scripture dump (.txt or OSIS .xml, optionally .xz or .gz)" type:"path"`
	DB        string `name:"db" help:"SQLite store path" type:"path"`
	LogLevel  string `help:"Log level (debug, info, warn, error)"`
	LogFormat string `help:"Log format (text, json)"`

	Bibles   BiblesCmd   `cmd:"" help:"List bibles"`
	Books    BooksCmd    `cmd:"" help:"List the books of a bible"`
	Chapters ChaptersCmd `cmd:"" help:"List the chapters of a book"`
	Verses   VersesCmd   `cmd:"" help:"Print the verses of one chapter"`
	Passage  PassageCmd  `cmd:"" help:"Resolve a passage reference such as 창1:1-3"`
	Seed     SeedCmd     `cmd:"" help:"Load the bible into the SQLite store"`
	Version  VersionCmd  `cmd:"" help:"Print version information"`
}

// App carries the resolved configuration into commands.
type App struct {
	Config *config.Config
	Out    io.Writer

	provider *offline.Provider
}

// Tree loads the offline bible on first use.
func (a *App) Tree() (*bible.Tree, error) {
	if a.provider == nil {
		p, err := offline.FromConfig(a.Config)
		if err != nil {
			return nil, err
		}
		a.provider = p
	}
	return a.provider.Tree()
}

// OpenStore opens the configured SQLite store.
func (a *App) OpenStore(ctx context.Context) (*store.Store, error) {
	return store.Open(ctx, a.Config.DatabasePath)
}

// exitError carries a process exit status.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func (c *CLI) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return nil, err
	}
	if c.Bible != "" {
		cfg.BiblePath = c.Bible
	}
	if c.DB != "" {
		cfg.DatabasePath = c.DB
	}
	if c.LogLevel != "" {
		cfg.Log.Level = c.LogLevel
	}
	if c.LogFormat != "" {
		cfg.Log.Format = c.LogFormat
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// run executes one command line and returns the process exit status.
func run(args []string, stdout, stderr io.Writer) int {
	var cli CLI
	parser, err := kong.New(&cli,
		kong.Name("bible2ppt"),
		kong.Description("Offline scripture lookup for presentation slides"),
		kong.Writers(stdout, stderr),
		kong.UsageOnError(),
		kong.Vars{"default_bible_id": ingest.DefaultID},
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)
	if err != nil {
		fmt.Fprintf(stderr, "bible2ppt: %v\n", err)
		return 1
	}

	kctx, err := parser.Parse(args)
	if err != nil {
		fmt.Fprintf(stderr, "bible2ppt: %v\n", err)
		return 1
	}

	cfg, err := cli.loadConfig()
	if err != nil {
		fmt.Fprintf(stderr, "bible2ppt: %v\n", err)
		return 1
	}
	if err := cfg.InitLogging(stderr); err != nil {
		fmt.Fprintf(stderr, "bible2ppt: %v\n", err)
		return 1
	}

	app := &App{Config: cfg, Out: stdout}
	if err := kctx.Run(app); err != nil {
		fmt.Fprintf(stderr, "bible2ppt: %v\n", err)
		var ee *exitError
		if errors.As(err, &ee) {
			return ee.code
		}
		return 1
	}
	return 0
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}
