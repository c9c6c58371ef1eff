package main

import (
	"database/sql"
	"fmt"
	"io"
	"os"

	"lstbot/internal/catalog"
	"lstbot/internal/config"
	"lstbot/internal/database"
	"lstbot/internal/lexicon"
	"lstbot/internal/repository/postgres"
	"lstbot/internal/service"

	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
)

type globalOptions struct {
	clipsDir string
	manifest string
	json     bool
	verbose  bool
}

// commandContext builds shared resources on first use
type commandContext struct {
	opts *globalOptions

	logger *zap.Logger
	db     *sql.DB
	lex    *lexicon.Lexicon
}

func newCommandContext(opts *globalOptions) *commandContext {
	return &commandContext{opts: opts}
}

func (c *commandContext) log() *zap.Logger {
	if c.logger != nil {
		return c.logger
	}
	c.logger = zap.NewNop()
	if c.opts.verbose {
		if l, err := zap.NewDevelopment(); err == nil {
			c.logger = l
		}
	}
	return c.logger
}

func (c *commandContext) lexicon() (*lexicon.Lexicon, error) {
	if c.lex != nil {
		return c.lex, nil
	}
	lex, err := lexicon.Default()
	if err != nil {
		return nil, err
	}
	c.lex = lex
	return lex, nil
}

// database connects once and applies migrations
func (c *commandContext) database() (*sql.DB, error) {
	if c.db != nil {
		return c.db, nil
	}

	dbCfg, err := config.LoadDatabase()
	if err != nil {
		return nil, err
	}
	db, err := database.Connect(dbCfg.DSN(), database.RetryPolicy{Attempts: 1}, c.log())
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db, database.DefaultMigrations, c.log()); err != nil {
		db.Close()
		return nil, err
	}
	c.db = db
	return db, nil
}

func (c *commandContext) source() service.CatalogSource {
	return service.DirSource(c.opts.clipsDir, c.opts.manifest)
}

func (c *commandContext) hasFileSource() bool {
	return c.opts.clipsDir != "" || c.opts.manifest != ""
}

// catalog reads signs from --manifest or --clips, or else from the database
func (c *commandContext) catalog() (*catalog.Catalog, error) {
	if c.hasFileSource() {
		entries, _, err := service.ImportEntries(c.source())
		if err != nil {
			return nil, err
		}
		return catalog.New(entries, c.log()), nil
	}

	db, err := c.database()
	if err != nil {
		return nil, fmt.Errorf("no --clips or --manifest given and database unavailable: %w", err)
	}
	return service.LoadCatalog(postgres.NewSignRepo(db), service.CatalogSource{}, c.log())
}

// useJSON reports whether output to w should be JSON. Tables are only
// printed to terminals unless --json is set.
func (c *commandContext) useJSON(w io.Writer) bool {
	if c.opts.json {
		return true
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd)
}

func (c *commandContext) close() {
	if c.db != nil {
		c.db.Close()
		c.db = nil
	}
	if c.logger != nil {
		_ = c.logger.Sync()
	}
}
