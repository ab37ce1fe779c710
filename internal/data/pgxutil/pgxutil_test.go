package pgxutil

import (
	"database/sql"
	"testing"

	"github.com/jackc/pgx/v5"
)

func TestToPgxTxOptions(t *testing.T) {
	t.Parallel()

	if got := toPgxTxOptions(nil); got != (pgx.TxOptions{}) {
		t.Fatalf("nil options should map to zero value, got %+v", got)
	}

	got := toPgxTxOptions(&sql.TxOptions{
		Isolation: sql.LevelSerializable,
		ReadOnly:  true,
	})
	if got.IsoLevel != pgx.Serializable {
		t.Fatalf("IsoLevel = %q, want %q", got.IsoLevel, pgx.Serializable)
	}
	if got.AccessMode != pgx.ReadOnly {
		t.Fatalf("AccessMode = %q, want %q", got.AccessMode, pgx.ReadOnly)
	}
}

func TestToPgxIsoLevel(t *testing.T) {
	t.Parallel()

	tests := map[sql.IsolationLevel]pgx.TxIsoLevel{
		sql.LevelDefault:         pgx.TxIsoLevel(""),
		sql.LevelSerializable:    pgx.Serializable,
		sql.LevelRepeatableRead:  pgx.RepeatableRead,
		sql.LevelReadCommitted:   pgx.ReadCommitted,
		sql.LevelReadUncommitted: pgx.ReadUncommitted,
	}

	for input, want := range tests {
		if got := toPgxIsoLevel(input); got != want {
			t.Fatalf("toPgxIsoLevel(%v) = %q, want %q", input, got, want)
		}
	}
}

func TestToPgxAccessMode(t *testing.T) {
	t.Parallel()

	if got := toPgxAccessMode(true); got != pgx.ReadOnly {
		t.Fatalf("readOnly = %q, want %q", got, pgx.ReadOnly)
	}
	if got := toPgxAccessMode(false); got != pgx.ReadWrite {
		t.Fatalf("readWrite = %q, want %q", got, pgx.ReadWrite)
	}
}
