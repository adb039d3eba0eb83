package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/lib/pq"

	"caregiver-support/internal/catalog"
	"caregiver-support/internal/config"
	"caregiver-support/internal/core"
	"caregiver-support/internal/db"
)

// loadRuleset reads the rule catalog once, from the database when
// DATABASE_URL is set, else from RULES_FILE, else the built-in tables.
func loadRuleset(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*core.Ruleset, error) {
	var (
		specs  core.RuleSpecs
		source string
	)
	switch {
	case cfg.DatabaseURL != "":
		source = "postgres"
		conn, err := openDB(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		defer conn.Close()
		if specs, err = db.NewRuleRepository(conn).LoadRules(ctx); err != nil {
			return nil, fmt.Errorf("load rules from database: %w", err)
		}
		if isEmpty(specs) {
			logger.Warn("rule tables are empty, using built-in rules; run `db seed` to populate them")
			specs, source = core.DefaultRules(), "builtin"
		}
	case cfg.RulesFile != "":
		source = cfg.RulesFile
		var err error
		if specs, err = catalog.LoadFile(cfg.RulesFile); err != nil {
			return nil, err
		}
	default:
		specs, source = core.DefaultRules(), "builtin"
	}

	rs, err := core.Compile(specs)
	if err != nil {
		return nil, fmt.Errorf("compile rules from %s: %w", source, err)
	}
	emergency, urgent, topics := rs.Len()
	logger.Info("rules loaded",
		"source", source,
		"emergency", emergency,
		"urgent", urgent,
		"topics", topics,
	)
	return rs, nil
}

// openDB opens and pings a PostgreSQL connection and applies the schema.
func openDB(ctx context.Context, url string) (*sql.DB, error) {
	if url == "" {
		return nil, errors.New("DATABASE_URL must be set")
	}
	conn, err := sql.Open("postgres", url)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := conn.PingContext(pingCtx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := db.Migrate(ctx, conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return conn, nil
}

func isEmpty(s core.RuleSpecs) bool {
	return len(s.Emergency) == 0 && len(s.Urgent) == 0 && len(s.Topics) == 0
}
