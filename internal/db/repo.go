package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"caregiver-support/internal/core"
	"caregiver-support/pkg"
)

// RuleRepository reads and writes the rule catalog stored in PostgreSQL.
// The catalog is read once at startup; nothing here is called per request.
type RuleRepository struct {
	DB *sql.DB
}

// NewRuleRepository constructs a RuleRepository from an existing sql.DB.
// The caller is responsible for managing the DB connection lifecycle.
func NewRuleRepository(db *sql.DB) *RuleRepository { return &RuleRepository{DB: db} }

// LoadRules returns the stored catalog with every list in position order.
// An empty database yields empty specs and no error.
func (r *RuleRepository) LoadRules(ctx context.Context) (core.RuleSpecs, error) {
	var specs core.RuleSpecs
	rows, err := r.DB.QueryContext(ctx,
		`SELECT tier, pattern, label
         FROM pattern_rules
         ORDER BY tier, position`)
	if err != nil {
		return specs, fmt.Errorf("query pattern rules: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var tier pkg.Tier
		var p core.PatternSpec
		if err := rows.Scan(&tier, &p.Pattern, &p.Label); err != nil {
			return specs, fmt.Errorf("scan pattern rule: %w", err)
		}
		switch tier {
		case pkg.TierEmergency:
			specs.Emergency = append(specs.Emergency, p)
		case pkg.TierUrgent:
			specs.Urgent = append(specs.Urgent, p)
		default:
			return specs, fmt.Errorf("pattern rule %q: unknown tier %q", p.Label, tier)
		}
	}
	if err := rows.Err(); err != nil {
		return specs, err
	}

	topicRows, err := r.DB.QueryContext(ctx,
		`SELECT name, triggers, what_to_try, what_to_log
         FROM topic_rules
         ORDER BY position`)
	if err != nil {
		return specs, fmt.Errorf("query topic rules: %w", err)
	}
	defer topicRows.Close()
	for topicRows.Next() {
		var t core.TopicSpec
		if err := topicRows.Scan(&t.Name, pq.Array(&t.Triggers), pq.Array(&t.Try), pq.Array(&t.Log)); err != nil {
			return specs, fmt.Errorf("scan topic rule: %w", err)
		}
		specs.Topics = append(specs.Topics, t)
	}
	return specs, topicRows.Err()
}

// SeedRules replaces the stored catalog with specs in a single transaction.
func (r *RuleRepository) SeedRules(ctx context.Context, specs core.RuleSpecs) (err error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM pattern_rules`); err != nil {
		return fmt.Errorf("clear pattern rules: %w", err)
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM topic_rules`); err != nil {
		return fmt.Errorf("clear topic rules: %w", err)
	}
	for _, group := range []struct {
		tier  pkg.Tier
		rules []core.PatternSpec
	}{
		{pkg.TierEmergency, specs.Emergency},
		{pkg.TierUrgent, specs.Urgent},
	} {
		for i, p := range group.rules {
			if _, err = tx.ExecContext(ctx,
				`INSERT INTO pattern_rules (tier, position, pattern, label)
                 VALUES ($1, $2, $3, $4)`,
				string(group.tier), i, p.Pattern, p.Label,
			); err != nil {
				return fmt.Errorf("insert pattern rule %q: %w", p.Label, err)
			}
		}
	}
	for i, t := range specs.Topics {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO topic_rules (position, name, triggers, what_to_try, what_to_log)
             VALUES ($1, $2, $3, $4, $5)`,
			i, t.Name, pq.Array(t.Triggers), pq.Array(nonNil(t.Try)), pq.Array(nonNil(t.Log)),
		); err != nil {
			return fmt.Errorf("insert topic rule %q: %w", t.Name, err)
		}
	}
	return tx.Commit()
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
