package db

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"caregiver-support/internal/core"
)

func newMock(t *testing.T) (*RuleRepository, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return NewRuleRepository(conn), mock
}

func TestLoadRules(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(`SELECT tier, pattern, label\s+FROM pattern_rules`).
		WillReturnRows(sqlmock.NewRows([]string{"tier", "pattern", "label"}).
			AddRow("EMERGENCY", `\bseizure\b`, "Seizure").
			AddRow("URGENT", `\bhigh fever\b`, "High fever").
			AddRow("URGENT", `\bfell\b`, "Fall"))
	mock.ExpectQuery(`SELECT name, triggers, what_to_try, what_to_log\s+FROM topic_rules`).
		WillReturnRows(sqlmock.NewRows([]string{"name", "triggers", "what_to_try", "what_to_log"}).
			AddRow("Sleep trouble", []byte(`{"\\binsomnia\\b"}`), []byte(`{"Keep a schedule.","Dim lights."}`), []byte(`{}`)))

	specs, err := repo.LoadRules(context.Background())
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	assert.Equal(t, []core.PatternSpec{{Pattern: `\bseizure\b`, Label: "Seizure"}}, specs.Emergency)
	assert.Equal(t, []core.PatternSpec{
		{Pattern: `\bhigh fever\b`, Label: "High fever"},
		{Pattern: `\bfell\b`, Label: "Fall"},
	}, specs.Urgent)
	require.Len(t, specs.Topics, 1)
	assert.Equal(t, core.TopicSpec{
		Name:     "Sleep trouble",
		Triggers: []string{`\binsomnia\b`},
		Try:      []string{"Keep a schedule.", "Dim lights."},
		Log:      []string{},
	}, specs.Topics[0])

	_, err = core.Compile(specs)
	assert.NoError(t, err)
}

func TestLoadRulesUnknownTier(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectQuery(`FROM pattern_rules`).
		WillReturnRows(sqlmock.NewRows([]string{"tier", "pattern", "label"}).
			AddRow("ROUTINE", "x", "X"))

	_, err := repo.LoadRules(context.Background())
	assert.ErrorContains(t, err, "unknown tier")
}

func TestLoadRulesQueryError(t *testing.T) {
	repo, mock := newMock(t)
	boom := errors.New("connection refused")
	mock.ExpectQuery(`FROM pattern_rules`).WillReturnError(boom)

	_, err := repo.LoadRules(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestSeedRules(t *testing.T) {
	repo, mock := newMock(t)
	specs := core.RuleSpecs{
		Emergency: []core.PatternSpec{{Pattern: `\bseizure\b`, Label: "Seizure"}},
		Urgent:    []core.PatternSpec{{Pattern: `\bfell\b`, Label: "Fall"}},
		Topics:    []core.TopicSpec{{Name: "Sleep trouble", Triggers: []string{`\binsomnia\b`}}},
	}

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM pattern_rules`).WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(`DELETE FROM topic_rules`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO pattern_rules`).
		WithArgs("EMERGENCY", 0, `\bseizure\b`, "Seizure").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO pattern_rules`).
		WithArgs("URGENT", 0, `\bfell\b`, "Fall").
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectExec(`INSERT INTO topic_rules`).
		WithArgs(0, "Sleep trouble", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.SeedRules(context.Background(), specs))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeedRulesRollsBackOnError(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM pattern_rules`).WillReturnError(errors.New("permission denied"))
	mock.ExpectRollback()

	err := repo.SeedRules(context.Background(), core.DefaultRules())
	assert.ErrorContains(t, err, "clear pattern rules")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrate(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS pattern_rules`).WillReturnResult(sqlmock.NewResult(0, 0))
	require.NoError(t, Migrate(context.Background(), conn))
	assert.NoError(t, mock.ExpectationsWereMet())
}
