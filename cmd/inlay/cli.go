package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v2"

	"inlay/internal/config"
	"inlay/internal/errors"
	"inlay/internal/ingest"
	"inlay/internal/ops"
	"inlay/internal/web"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(db *sql.DB, cfg *config.Config, logger *log.Logger) *cli.App {
	app := &cli.App{
		Name:    "inlay",
		Usage:   "Content record store with image-reference extraction",
		Version: Version,
		Commands: []*cli.Command{
			imagesCmd(db, cfg, logger),
			fetchCmd(db),
			listCmd(db),
			filesCmd(db),
			resolveCmd(db),
			importCmd(db),
			serveCmd(db, cfg, logger),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// imagesCmd creates the images command.
func imagesCmd(db *sql.DB, cfg *config.Config, logger *log.Logger) *cli.Command {
	return &cli.Command{
		Name:      "images",
		Usage:     "Extract every image a record references",
		ArgsUsage: "<record-id>",
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return outputError(errors.NewInvalidRequest("record id is required"))
			}

			output, err := ops.Images(db, cfg, logger, ops.ImagesInput{RecordID: c.Args().First()})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// fetchCmd creates the fetch command.
func fetchCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "fetch",
		Usage:     "Fetch a record by ID",
		ArgsUsage: "<record-id>",
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return outputError(errors.NewInvalidRequest("record id is required"))
			}

			output, err := ops.Fetch(db, ops.FetchInput{RecordID: c.Args().First()})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// listCmd creates the list command.
func listCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List record summaries, newest first",
		Action: func(c *cli.Context) error {
			output, err := ops.List(db)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// filesCmd creates the files command.
func filesCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "files",
		Usage: "List stored file entities, newest first",
		Action: func(c *cli.Context) error {
			output, err := ops.Files(db)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// resolveCmd creates the resolve command.
func resolveCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "resolve",
		Usage:     "Resolve a UUID to the entity it addresses",
		ArgsUsage: "<uuid>",
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return outputError(errors.NewInvalidRequest("uuid is required"))
			}

			output, err := ops.Resolve(db, ops.ResolveInput{UUID: c.Args().First()})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// importCmd creates the import command.
func importCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "import",
		Usage: "Import field definitions, files, and records from a JSONL fixture",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "path", Aliases: []string{"p"}, Required: true, Usage: "Fixture file path"},
		},
		Action: func(c *cli.Context) error {
			output, err := ingest.Import(db, ingest.ImportInput{Path: c.String("path")})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// serveCmd creates the serve command.
func serveCmd(db *sql.DB, cfg *config.Config, logger *log.Logger) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the JSON API server",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Aliases: []string{"b"}, Value: "127.0.0.1", Usage: "Bind address"},
			&cli.IntFlag{Name: "port", Aliases: []string{"p"}, Value: 8383, Usage: "Listen port"},
		},
		Action: func(c *cli.Context) error {
			srv := web.NewServer(db, cfg, logger, c.String("bind"), c.Int("port"))
			return web.Run(srv, logger)
		},
	}
}

// Helper functions

// outputJSON marshals result to stdout as JSON.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	if iErr, ok := err.(*errors.InlayError); ok {
		return cli.Exit(fmt.Sprintf("[%s] %s", iErr.Code, iErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}
