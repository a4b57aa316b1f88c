package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/storefront-backend/internal/data/repos/testutil"
)

func TestExistsAndVariantExists(t *testing.T) {
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	repo := NewProductRepo(tx, testutil.Logger(t))

	p := testutil.SeedProduct(t, ctx, tx, "sku-exists")
	v := testutil.SeedVariant(t, ctx, tx, p.ID, "sku-exists-v1")

	exists, err := repo.Exists(ctx, tx, p.ID)
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if !exists {
		t.Fatalf("seeded product should exist")
	}

	exists, err = repo.Exists(ctx, tx, uuid.New())
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if exists {
		t.Fatalf("random id should not exist")
	}

	ok, err := repo.VariantExists(ctx, tx, p.ID, v.ID)
	if err != nil {
		t.Fatalf("variant exists: %v", err)
	}
	if !ok {
		t.Fatalf("seeded variant should exist under its product")
	}

	// A variant only exists within its own product.
	other := testutil.SeedProduct(t, ctx, tx, "sku-exists-other")
	ok, err = repo.VariantExists(ctx, tx, other.ID, v.ID)
	if err != nil {
		t.Fatalf("variant exists: %v", err)
	}
	if ok {
		t.Fatalf("variant must not exist under a different product")
	}
}
