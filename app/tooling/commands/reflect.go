package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jrazmi/repogen/infrastructure/postgresdb"
	"github.com/jrazmi/repogen/infrastructure/sqldb"
	"github.com/jrazmi/repogen/schema/reflector"
	"github.com/jrazmi/repogen/sdk/environment"
	"github.com/jrazmi/repogen/sdk/logger"
)

// ReflectSchema reads table metadata from a live database and writes it as a
// JSON descriptor that generate accepts.
func ReflectSchema(ctx context.Context, log *logger.Logger, args []string) error {
	fs := flag.NewFlagSet("reflect-schema", flag.ContinueOnError)
	driver := fs.String("driver", "postgres", "Database driver: postgres, mysql or sqlite")
	dsn := fs.String("dsn", "", "Connection string (defaults to the environment configuration)")
	schemaName := fs.String("schema", "", "Schema to reflect (postgres defaults to public, mysql to the DSN database)")
	outputDir := fs.String("output", "schema/reflector/output", "Output directory for the JSON descriptor")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return fmt.Errorf("parse flags: %w", err)
	}

	store, closeStore, err := openStore(ctx, log, *driver, *dsn)
	if err != nil {
		return err
	}
	defer closeStore()

	if *schemaName == "" && *driver == "postgres" {
		*schemaName = "public"
	}

	log.InfoContext(ctx, "reflecting schema",
		"driver", *driver,
		"database", store.GetDatabaseName(),
		"schema", *schemaName,
	)

	reflected, err := reflector.NewReflector(store, log.Logger).Reflect(ctx, *schemaName)
	if err != nil {
		return fmt.Errorf("reflect schema: %w", err)
	}
	log.InfoContext(ctx, "discovered tables", "count", len(reflected.Tables))

	if err := os.MkdirAll(*outputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	name := *schemaName
	if name == "" {
		name = store.GetDatabaseName()
	}
	jsonPath := filepath.Join(*outputDir, name+".json")
	if err := reflector.WriteJSON(reflected, jsonPath); err != nil {
		return fmt.Errorf("write JSON: %w", err)
	}
	log.InfoContext(ctx, "generated JSON", "path", jsonPath)
	return nil
}

func openStore(ctx context.Context, log *logger.Logger, driver, dsn string) (reflector.Store, func(), error) {
	switch driver {
	case "postgres":
		opts := []postgresdb.Option{postgresdb.WithLogger(log.Logger)}
		if dsn != "" {
			opts = append(opts, postgresdb.WithDatabaseURL(dsn))
		}
		db, err := postgresdb.NewFromEnv(environment.Prefix, opts...)
		if err != nil {
			return nil, nil, fmt.Errorf("configuring postgres support: %w", err)
		}
		log.InfoContext(ctx, "init", "service", "postgres")
		return reflector.NewPostgresStore(db.Pool()), db.Close, nil

	case "mysql", "sqlite":
		var cfg sqldb.Options
		if err := environment.ParseEnvTags(environment.Prefix, &cfg); err != nil {
			return nil, nil, fmt.Errorf("parsing database config: %w", err)
		}
		cfg.Driver = driver
		if dsn != "" {
			cfg.DSN = dsn
		}

		db, err := sqldb.Open(cfg, sqldb.WithLogger(log.Logger))
		if err != nil {
			return nil, nil, fmt.Errorf("configuring %s support: %w", driver, err)
		}
		closeDB := func() { db.Close() }
		log.InfoContext(ctx, "init", "service", driver)

		if driver == "sqlite" {
			name := strings.TrimSuffix(filepath.Base(cfg.DSN), filepath.Ext(cfg.DSN))
			return reflector.NewSQLiteStore(db.DB(), name), closeDB, nil
		}
		store, err := reflector.NewMySQLStore(db.DB(), cfg.DSN)
		if err != nil {
			closeDB()
			return nil, nil, err
		}
		return store, closeDB, nil

	default:
		return nil, nil, fmt.Errorf("unsupported driver %q: want postgres, mysql or sqlite", driver)
	}
}
