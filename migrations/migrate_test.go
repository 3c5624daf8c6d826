package migrations_test

import (
	"context"
	"testing"

	"github.com/ikanisa/dinein-malta-sub006/internal/testutil"
	"github.com/ikanisa/dinein-malta-sub006/migrations"
)

func TestApplyIsIdempotent(t *testing.T) {
	pool := testutil.NewTestPool(t)
	ctx := context.Background()

	if err := migrations.Apply(ctx, pool); err != nil {
		t.Fatalf("first apply: %v", err)
	}
	if err := migrations.Apply(ctx, pool); err != nil {
		t.Fatalf("second apply: %v", err)
	}

	var count int
	if err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM schema_migrations`).Scan(&count); err != nil {
		t.Fatalf("count migrations: %v", err)
	}
	if count < 2 {
		t.Fatalf("expected at least 2 recorded migrations, got %d", count)
	}

	for _, table := range []string{"venues", "menu_items", "orders", "order_items", "bell_requests", "audit_log"} {
		var exists bool
		err := pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name = $1)`, table).Scan(&exists)
		if err != nil {
			t.Fatalf("check table %s: %v", table, err)
		}
		if !exists {
			t.Fatalf("expected table %s to exist", table)
		}
	}
}
