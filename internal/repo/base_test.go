package repo

import (
	"context"
	"errors"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	return conn
}

func TestNewBaseStoresConnection(t *testing.T) {
	db := newTestDB(t)
	base := NewBase(db)

	if base.db != db {
		t.Fatalf("expected base db to match provided connection")
	}
}

func TestBaseDB_BindsContext(t *testing.T) {
	db := newTestDB(t)
	base := NewBase(db)

	ctx := context.WithValue(context.Background(), struct{}{}, "value")
	withCtx := base.DB(ctx)

	if withCtx == nil {
		t.Fatalf("expected non-nil DB when context provided")
	}
	if withCtx.Statement == nil {
		t.Fatalf("expected statement created after WithContext")
	}
	if withCtx.Statement.Context != ctx {
		t.Fatalf("expected context to flow through, got %v", withCtx.Statement.Context)
	}

	withoutCtx := base.DB(nil)
	if withoutCtx != db {
		t.Fatalf("expected nil context to return raw connection")
	}
}

type note struct {
	ID   uint `gorm:"primaryKey"`
	Body string
}

func TestBaseInTxRollsBackOnError(t *testing.T) {
	conn, err := gorm.Open(sqlite.Open("file:base_intx?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&note{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	base := NewBase(conn)
	ctx := context.Background()

	boom := errors.New("boom")
	err = base.InTx(ctx, func(tx *gorm.DB) error {
		if err := tx.Create(&note{Body: "discarded"}).Error; err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	if err := base.InTx(ctx, func(tx *gorm.DB) error {
		return tx.Create(&note{Body: "kept"}).Error
	}); err != nil {
		t.Fatalf("commit: %v", err)
	}

	var bodies []string
	if err := base.DB(ctx).Model(&note{}).Pluck("body", &bodies).Error; err != nil {
		t.Fatalf("pluck: %v", err)
	}
	if len(bodies) != 1 || bodies[0] != "kept" {
		t.Fatalf("expected only committed row, got %v", bodies)
	}
}
