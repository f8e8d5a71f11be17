package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/urfave/cli/v3"

	"soundshelf/internal/audio"
	"soundshelf/internal/auth"
	"soundshelf/internal/manifest"
	"soundshelf/internal/store"
	"soundshelf/shared/go/config"
	"soundshelf/shared/go/logging"
	"soundshelf/shared/go/models"
)

// Runner holds the dependencies of the CLI actions.
type Runner struct {
	logger *logging.Logger
	output io.Writer
	probe  manifest.DurationProbe
}

// RunnerOpts configures a Runner. Zero values select defaults.
type RunnerOpts struct {
	Logger *logging.Logger
	Output io.Writer
	Probe  manifest.DurationProbe
}

// NewRunner creates a Runner with the provided options.
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Logger == nil {
		opts.Logger = logging.Nop()
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Probe == nil {
		opts.Probe = audio.FileDuration
	}
	return &Runner{logger: opts.Logger, output: opts.Output, probe: opts.Probe}
}

func (r *Runner) printf(format string, args ...any) {
	fmt.Fprintf(r.output, format+"\n", args...)
}

func storeConfig(cmd *cli.Command) config.StoreConfig {
	return config.StoreConfig{
		Backend:     strings.ToLower(cmd.String("backend")),
		Path:        cmd.String("path"),
		DatabaseURL: cmd.String("database-url"),
		Table:       cmd.String("table"),
	}
}

// openStore loads the catalog selected by the global flags.
func (r *Runner) openStore(ctx context.Context, cmd *cli.Command) (*store.Store, io.Closer, error) {
	cfg := storeConfig(cmd)
	persister, closer, err := store.OpenBackend(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	st, err := store.Open(ctx, persister)
	if err != nil {
		_ = closer.Close()
		return nil, nil, err
	}
	r.logger.WithContext(ctx).Debug().Str("backend", cfg.Backend).Msg("Catalog opened")
	return st, closer, nil
}

// Validate loads the catalog, which runs snapshot validation, and prints entity counts.
func (r *Runner) Validate(ctx context.Context, cmd *cli.Command) error {
	st, closer, err := r.openStore(ctx, cmd)
	if err != nil {
		return err
	}
	defer closer.Close()

	counts := st.Reader().Counts()
	kinds := make([]string, 0, len(counts))
	for kind := range counts {
		kinds = append(kinds, kind)
	}
	slices.Sort(kinds)

	r.printf("catalog ok")
	for _, kind := range kinds {
		r.printf("  %-10s %d", kind, counts[kind])
	}
	return nil
}

// AddUser provisions an account with a bcrypt hashed password.
func (r *Runner) AddUser(ctx context.Context, cmd *cli.Command) error {
	hash, err := auth.HashPassword(cmd.String("password"))
	if err != nil {
		return err
	}
	id := cmd.String("id")
	if id == "" {
		id = uuid.NewString()
	}

	st, closer, err := r.openStore(ctx, cmd)
	if err != nil {
		return err
	}
	defer closer.Close()

	user := models.User{
		ID:           id,
		Username:     strings.TrimSpace(cmd.String("username")),
		PasswordHash: hash,
		Email:        cmd.String("email"),
	}
	err = st.Update(ctx, func(tx *store.Tx) error {
		if _, exists := tx.User(id); exists {
			return fmt.Errorf("user %q already exists", id)
		}
		return tx.PutUser(user)
	})
	if err != nil {
		return fmt.Errorf("add user: %w", err)
	}

	r.printf("created user %s (%s)", user.Username, user.ID)
	return nil
}

// Import applies a TOML manifest to the catalog in a single update.
func (r *Runner) Import(ctx context.Context, cmd *cli.Command) error {
	m, err := manifest.Load(cmd.String("manifest"))
	if err != nil {
		return err
	}
	if cmd.Bool("dry-run") {
		r.printf("manifest ok: %d artists, %d albums, %d tracks", len(m.Artists), len(m.Albums), len(m.Tracks))
		return nil
	}

	st, closer, err := r.openStore(ctx, cmd)
	if err != nil {
		return err
	}
	defer closer.Close()

	var sum manifest.Summary
	err = st.Update(ctx, func(tx *store.Tx) error {
		var err error
		sum, err = m.Apply(tx, r.probe)
		return err
	})
	if err != nil {
		return fmt.Errorf("import: %w", err)
	}

	r.printf("imported %d artists, %d albums, %d tracks (%d durations probed)", sum.Artists, sum.Albums, sum.Tracks, sum.Probed)
	return nil
}

// HashPasswords rewrites legacy plaintext passwords in a JSON snapshot file.
func (r *Runner) HashPasswords(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("file")
	n, err := hashPasswordFile(path)
	if err != nil {
		return err
	}
	r.logger.WithContext(ctx).Info().Str("file", path).Int("users", n).Msg("Passwords hashed")
	r.printf("hashed %d passwords in %s", n, path)
	return nil
}
