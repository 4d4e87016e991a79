package db

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRebind(t *testing.T) {
	q := "SELECT a FROM t WHERE x = ? AND y = ?"

	if got := SQLite.Rebind(q); got != q {
		t.Fatalf("sqlite rebind changed the query: %q", got)
	}

	want := "SELECT a FROM t WHERE x = $1 AND y = $2"
	if got := Postgres.Rebind(q); got != want {
		t.Fatalf("postgres rebind = %q, want %q", got, want)
	}
}

func TestOpenSQLiteInMemory(t *testing.T) {
	conn, err := OpenSQLite("file::memory:")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer conn.Close()

	var one int
	if err := conn.QueryRow("SELECT 1").Scan(&one); err != nil || one != 1 {
		t.Fatalf("select 1 = %d, %v", one, err)
	}
}

func TestConnectCreatesSQLiteDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "app.db")

	conn, dialect, err := Connect("", path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer conn.Close()

	if dialect != SQLite {
		t.Fatalf("dialect = %s, want sqlite", dialect)
	}
	if _, err := os.Stat(filepath.Dir(path)); err != nil {
		t.Fatalf("expected directory to exist: %v", err)
	}
}
