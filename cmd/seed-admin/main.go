// Command seed-admin creates an identity directly in the store, typically the first administrator.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/visage-campus/visage-backend/internal/config"
	"github.com/visage-campus/visage-backend/internal/domain"
	"github.com/visage-campus/visage-backend/internal/observability"
	"github.com/visage-campus/visage-backend/internal/persistence"
	"github.com/visage-campus/visage-backend/internal/repository"
	"github.com/visage-campus/visage-backend/internal/service"
)

const passwordEnv = "VISAGE_SEED_PASSWORD"

// readPassword is replaced in tests to avoid touching the terminal.
var readPassword = term.ReadPassword

type options struct {
	IDNumber string
	FullName string
	Email    string
	Role     domain.RoleName
	Course   string
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	fs := flag.NewFlagSet("seed-admin", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var opts options
	var role string
	fs.StringVar(&opts.IDNumber, "id", "", "login identifier, e.g. ADM-001")
	fs.StringVar(&opts.FullName, "name", "", "display name")
	fs.StringVar(&opts.Email, "email", "", "contact email")
	fs.StringVar(&role, "role", string(domain.RoleAdmin), "admin, faculty or student")
	fs.StringVar(&opts.Course, "course", "", "optional course")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	opts.Role = domain.RoleName(strings.ToLower(strings.TrimSpace(role)))
	switch {
	case strings.TrimSpace(opts.IDNumber) == "":
		return options{}, errors.New("-id is required")
	case strings.TrimSpace(opts.FullName) == "":
		return options{}, errors.New("-name is required")
	case strings.TrimSpace(opts.Email) == "":
		return options{}, errors.New("-email is required")
	case !opts.Role.Valid():
		return options{}, fmt.Errorf("unknown role %q", role)
	}
	return opts, nil
}

// resolvePassword prefers the environment and falls back to a no-echo prompt.
func resolvePassword(getenv func(string) string, stdin *os.File, w io.Writer) (string, error) {
	if pw := getenv(passwordEnv); pw != "" {
		return pw, nil
	}
	if !term.IsTerminal(int(stdin.Fd())) {
		return "", fmt.Errorf("%s is not set and stdin is not a terminal", passwordEnv)
	}
	fmt.Fprint(w, "Password: ")
	pw, err := readPassword(int(stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return "", err
	}
	return string(pw), nil
}

func roleID(ctx context.Context, roles repository.RoleRepository, name domain.RoleName) (int, error) {
	list, err := roles.List(ctx)
	if err != nil {
		return 0, err
	}
	for _, r := range list {
		if r.Name == name {
			return r.ID, nil
		}
	}
	return 0, fmt.Errorf("role %q is not in the catalogue", name)
}

func provision(ctx context.Context, users *service.UserService, roles repository.RoleRepository, opts options, password string) (*domain.Identity, error) {
	id, err := roleID(ctx, roles, opts.Role)
	if err != nil {
		return nil, err
	}
	return users.Provision(ctx, service.NewUser{
		IDNumber: opts.IDNumber,
		Email:    opts.Email,
		Password: password,
		FullName: opts.FullName,
		Course:   opts.Course,
		RoleID:   id,
	})
}

func main() {
	opts, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		log.Fatalf("seed-admin: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logger, err := observability.NewLogger(cfg.Logger, cfg.IsProduction())
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	password, err := resolvePassword(os.Getenv, os.Stdin, os.Stderr)
	if err != nil {
		logger.Fatal("no password", zap.Error(err))
	}

	ctx := context.Background()
	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if err := persistence.RunMigrations(ctx, pg.SQL(), logger); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	roles := repository.NewRoleRepository(pg.SQL())
	users := service.NewUserService(*cfg, service.UserDependencies{
		UserRepo: repository.NewUserRepository(pg.SQL()),
		RoleRepo: roles,
	})

	identity, err := provision(ctx, users, roles, opts, password)
	if err != nil {
		logger.Fatal("failed to create identity", zap.String("id_number", opts.IDNumber), zap.Error(err))
	}
	logger.Info("identity created",
		zap.Int64("user_id", identity.ID),
		zap.String("id_number", identity.IDNumber),
		zap.String("role", string(identity.Role)))
}
