package services

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"resto_pos_backend/internal/database"
	"resto_pos_backend/internal/models"
	"resto_pos_backend/internal/repositories"
)

// newTestDB opens an in-memory sqlite database with the full schema applied.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	_, err = db.Exec("PRAGMA foreign_keys = ON")
	require.NoError(t, err)
	require.NoError(t, database.ApplySchema(db, database.DriverSQLite))
	t.Cleanup(func() { db.Close() })
	return db
}

// seedCatalog inserts a small product set and returns a catalog over it.
func seedCatalog(t *testing.T, db *sql.DB) *CatalogService {
	t.Helper()
	productRepo := repositories.NewProductRepository(db)
	catalog := NewCatalogService(productRepo, db)

	products := []models.Product{
		{ID: "p-burger", Name: "Burger", Price: 5.50, Category: "Mains"},
		{ID: "p-fries", Name: "Fries", Price: 2.25, Category: "Sides"},
		{ID: "p-cola", Name: "Cola", Price: 1.75, Category: "Drinks"},
	}
	for i := range products {
		_, err := catalog.CreateProduct(&products[i])
		require.NoError(t, err)
	}
	return catalog
}

type testStack struct {
	db      *sql.DB
	catalog *CatalogService
	tables  *TableService
	orders  OrderService
	repo    repositories.OrderRepository
}

// newTestStack wires the full service stack over an in-memory database.
func newTestStack(t *testing.T) *testStack {
	t.Helper()
	db := newTestDB(t)
	catalog := seedCatalog(t, db)
	orderRepo := repositories.NewOrderRepository(db)
	tables := NewTableService(orderRepo, 12)
	require.NoError(t, tables.Reconcile())
	orders, err := NewOrderService(orderRepo, catalog, tables, db)
	require.NoError(t, err)
	return &testStack{db: db, catalog: catalog, tables: tables, orders: orders, repo: orderRepo}
}

func intPtr(n int) *int { return &n }

func strPtr(s string) *string { return &s }
