package kiosk_test

import (
	"context"
	"path"
	"strings"
	"testing"

	kiosk "github.com/goliatone/go-kiosk"
	"github.com/goliatone/go-kiosk/pkg/testsupport"
)

func TestMigrations_ApplyToSQLite(t *testing.T) {
	db, err := testsupport.NewBunSQLiteDB()
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	fsys := kiosk.GetMigrationsFS()

	entries, err := fsys.ReadDir("data/sql/migrations")
	if err != nil {
		t.Fatalf("read migrations: %v", err)
	}
	if len(entries) == 0 {
		t.Fatal("expected at least one migration")
	}

	for _, entry := range entries {
		if !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		ddl, err := fsys.ReadFile(path.Join("data/sql/migrations", entry.Name()))
		if err != nil {
			t.Fatalf("read %s: %v", entry.Name(), err)
		}
		if _, err := db.ExecContext(ctx, string(ddl)); err != nil {
			t.Fatalf("apply %s: %v", entry.Name(), err)
		}
	}

	for _, table := range []string{"refs", "assets", "nodes", "products", "selectors", "tags"} {
		var count int
		if err := db.NewSelect().Table(table).ColumnExpr("count(*)").Scan(ctx, &count); err != nil {
			t.Fatalf("query %s: %v", table, err)
		}
		if count != 0 {
			t.Fatalf("expected empty %s table, got %d rows", table, count)
		}
	}
}
