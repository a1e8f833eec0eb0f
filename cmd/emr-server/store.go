package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/synapse/emr/internal/config"
	"github.com/synapse/emr/internal/domain/account"
	"github.com/synapse/emr/internal/domain/patient"
	"github.com/synapse/emr/internal/platform/db"
	"github.com/synapse/emr/internal/platform/docstore"
)

// store is the configured document backend plus the pool behind it, if any.
type store struct {
	docstore.Store
	pool *pgxpool.Pool
}

func (s *store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func openStore(ctx context.Context, cfg *config.Config) (*store, error) {
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
		if err != nil {
			return nil, err
		}
		return &store{Store: docstore.NewPGStore(pool), pool: pool}, nil
	case config.DriverFile:
		return &store{Store: docstore.NewOSFileStore(cfg.DataDir)}, nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}

func storeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store",
		Short: "Manage the patient and user documents",
	}
	cmd.AddCommand(storeMigrateCmd(), storeImportCmd(), storeCheckCmd())
	return cmd
}

func openPool(ctx context.Context) (*pgxpool.Pool, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}
	return db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
}

func storeMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create the Postgres documents table",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			pool, err := openPool(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool)
			if status, _ := cmd.Flags().GetBool("status"); status {
				statuses, err := migrator.Status(ctx)
				if err != nil {
					return fmt.Errorf("failed to get migration status: %w", err)
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "%-10s %-30s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
				for _, s := range statuses {
					state, appliedAt := "pending", ""
					if s.Applied {
						state = "applied"
						if s.AppliedAt != nil {
							appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
						}
					}
					fmt.Fprintf(out, "%-10d %-30s %-10s %s\n", s.Version, s.Name, state, appliedAt)
				}
				return nil
			}

			count, err := migrator.Up(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}
	cmd.Flags().Bool("status", false, "Show migration status instead of applying")
	return cmd
}

func storeImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Copy the JSON patient and user files into the Postgres store",
		RunE: func(cmd *cobra.Command, args []string) error {
			patientsFile, _ := cmd.Flags().GetString("patients")
			usersFile, _ := cmd.Flags().GetString("users")

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			pool, err := openPool(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			n, err := importDocuments(ctx, docstore.NewOSFileStore("."), docstore.NewPGStore(pool), cfg, patientsFile, usersFile)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d patient(s) and users.\n", n)
			return nil
		},
	}
	cmd.Flags().String("patients", "mock_data.json", "Patient collection JSON file")
	cmd.Flags().String("users", "users.json", "User credential JSON file")
	return cmd
}

// importDocuments decodes both source files before writing either, so a
// malformed file leaves the destination untouched. It returns the number of
// patients imported.
func importDocuments(ctx context.Context, src, dst docstore.Store, cfg *config.Config, patientsFile, usersFile string) (int, error) {
	patients, err := patient.NewDocumentRepository(src, patientsFile).LoadPatients(ctx)
	if err != nil {
		return 0, err
	}
	// Validated as a credential map, copied verbatim.
	if _, err := account.NewDocumentStore(src, usersFile).LoadUsers(ctx); err != nil {
		return 0, err
	}
	usersData, err := src.Read(ctx, usersFile)
	if err != nil {
		return 0, err
	}

	if err := patient.NewDocumentRepository(dst, cfg.PatientsDocument).SavePatients(ctx, patients); err != nil {
		return 0, err
	}
	if err := dst.Write(ctx, cfg.UsersDocument, usersData); err != nil {
		return 0, err
	}
	return len(patients), nil
}

func storeCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Load both documents through the configured store and print counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			st, err := openStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			report, err := checkDocuments(ctx, st, cfg)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), report)
			return nil
		},
	}
}

func checkDocuments(ctx context.Context, st docstore.Store, cfg *config.Config) (string, error) {
	if err := st.Ping(ctx); err != nil {
		return "", err
	}
	patients, err := patient.NewDocumentRepository(st, cfg.PatientsDocument).LoadPatients(ctx)
	if err != nil {
		return "", err
	}
	users, err := account.NewDocumentStore(st, cfg.UsersDocument).LoadUsers(ctx)
	if err != nil {
		return "", err
	}
	reports := 0
	for _, p := range patients {
		reports += len(p.MedicalReports)
	}
	return fmt.Sprintf("%s: %d patient(s), %d medical report(s)\n%s: %d user(s)",
		cfg.PatientsDocument, len(patients), reports, cfg.UsersDocument, len(users)), nil
}
