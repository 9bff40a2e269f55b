package store

import (
	"testing"

	"github.com/wrenfield/chorejar/internal/database"
)

func setupStoreItemTestDB(t *testing.T) *StoreItemStore {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewStoreItemStore(db)
}

func TestStoreItemCRUD(t *testing.T) {
	ss := setupStoreItemTestDB(t)

	item, err := ss.Create("Lego Set", "Small castle kit", 10.00, "blocks")
	if err != nil {
		t.Fatalf("create item: %v", err)
	}
	if item.Name != "Lego Set" || item.Price != 10.00 {
		t.Errorf("item = %+v, want Lego Set at 10.00", item)
	}
	if !item.Available {
		t.Error("new items should be available")
	}

	updated, err := ss.Update(item.ID, "Lego Set", "Small castle kit", 12.00, "blocks", false)
	if err != nil {
		t.Fatalf("update item: %v", err)
	}
	if updated.Price != 12.00 || updated.Available {
		t.Errorf("updated = %+v, want price 12 unavailable", updated)
	}

	available, err := ss.ListAvailable()
	if err != nil {
		t.Fatalf("list available: %v", err)
	}
	if len(available) != 0 {
		t.Errorf("available = %+v, want empty", available)
	}

	if err := ss.Delete(item.ID); err != nil {
		t.Fatalf("delete item: %v", err)
	}
	got, err := ss.GetByID(item.ID)
	if err != nil {
		t.Fatalf("get deleted item: %v", err)
	}
	if got != nil {
		t.Error("expected nil for deleted item")
	}
}
