package main

import (
	"github.com/urfave/cli/v3"

	"soundshelf/internal/store"
	"soundshelf/shared/go/config"
)

// Command builds the CLI definition.
func (r *Runner) Command() *cli.Command {
	return &cli.Command{
		Name:  "soundshelfctl",
		Usage: "Operate on the soundshelf catalog store",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "backend",
				Usage:   "Store backend: file, postgres or sqlite",
				Value:   config.BackendFile,
				Sources: cli.EnvVars("STORE_BACKEND"),
			},
			&cli.StringFlag{
				Name:    "path",
				Usage:   "Snapshot file or sqlite database path",
				Value:   "./database.json",
				Sources: cli.EnvVars("STORE_PATH"),
			},
			&cli.StringFlag{
				Name:    "database-url",
				Usage:   "Postgres connection string",
				Sources: cli.EnvVars("DATABASE_URL"),
			},
			&cli.StringFlag{
				Name:    "table",
				Usage:   "Snapshot table for SQL backends",
				Value:   store.DefaultTable,
				Sources: cli.EnvVars("STORE_TABLE"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "validate",
				Usage:  "Load the catalog and report validation problems",
				Action: r.Validate,
			},
			{
				Name:  "add-user",
				Usage: "Provision a user account",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "username",
						Aliases:  []string{"u"},
						Usage:    "Login name",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "password",
						Aliases:  []string{"p"},
						Usage:    "Initial password",
						Required: true,
						Sources:  cli.EnvVars("SOUNDSHELF_PASSWORD"),
					},
					&cli.StringFlag{
						Name:  "email",
						Usage: "Contact address",
					},
					&cli.StringFlag{
						Name:  "id",
						Usage: "User id (default: random UUID)",
					},
				},
				Action: r.AddUser,
			},
			{
				Name:  "import",
				Usage: "Add artists, albums and tracks from a TOML manifest",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "manifest",
						Aliases:  []string{"m"},
						Usage:    "Path to the catalog manifest",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "dry-run",
						Usage: "Validate the manifest without writing",
					},
				},
				Action: r.Import,
			},
			{
				Name:  "hash-passwords",
				Usage: "Replace plaintext passwords in a JSON snapshot with bcrypt hashes",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Usage:    "Snapshot file to rewrite in place",
						Required: true,
					},
				},
				Action: r.HashPasswords,
			},
		},
	}
}
