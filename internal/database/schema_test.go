package database

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

type recordingExecer struct {
	stmts  []string
	failAt int
}

func (r *recordingExecer) Exec(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	if r.failAt > 0 && len(r.stmts)+1 == r.failAt {
		return pgconn.CommandTag{}, errors.New("permission denied")
	}
	r.stmts = append(r.stmts, sql)
	return pgconn.NewCommandTag("CREATE TABLE"), nil
}

func TestMigrate(t *testing.T) {
	db := &recordingExecer{}
	if err := Migrate(context.Background(), db); err != nil {
		t.Fatalf("Migrate failed: %v", err)
	}
	if len(db.stmts) != len(schema) {
		t.Fatalf("statements = %d, want %d", len(db.stmts), len(schema))
	}
	if !strings.Contains(db.stmts[0], "recording_sessions") {
		t.Errorf("first statement = %q, want the sessions table", db.stmts[0])
	}
	for _, table := range []string{"gaze_samples", "positioning_samples", "trigger_events"} {
		found := false
		for _, s := range db.stmts {
			if strings.Contains(s, "CREATE TABLE IF NOT EXISTS "+table) {
				found = true
			}
		}
		if !found {
			t.Errorf("no CREATE TABLE for %s", table)
		}
	}
}

func TestMigrate_StopsOnError(t *testing.T) {
	db := &recordingExecer{failAt: 2}
	err := Migrate(context.Background(), db)
	if err == nil {
		t.Fatal("Migrate succeeded with a failing statement")
	}
	if !strings.Contains(err.Error(), "schema statement 1") {
		t.Errorf("error = %q, want it to name statement 1", err)
	}
	if len(db.stmts) != 1 {
		t.Errorf("statements run = %d, want 1", len(db.stmts))
	}
}
