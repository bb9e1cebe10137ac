package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resto_pos_backend/internal/models"
)

func TestProductCRUD(t *testing.T) {
	db := newTestDB(t)
	repo := NewProductRepository(db)

	product := &models.Product{ID: "p1", Name: "Burger", Price: 5.50, Category: "Mains"}
	require.NoError(t, repo.CreateProduct(db, product))

	got, err := repo.GetProductByID("p1")
	require.NoError(t, err)
	assert.Equal(t, "Burger", got.Name)

	product.Price = 6.00
	require.NoError(t, repo.UpdateProduct(db, product))
	got, err = repo.GetProductByID("p1")
	require.NoError(t, err)
	assert.Equal(t, 6.00, got.Price)

	require.NoError(t, repo.DeleteProduct(db, "p1"))
	_, err = repo.GetProductByID("p1")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.DeleteProduct(db, "p1"), ErrNotFound)
}

func TestCreateProductDuplicateID(t *testing.T) {
	db := newTestDB(t)
	repo := NewProductRepository(db)

	product := &models.Product{ID: "p1", Name: "Burger", Price: 5.50, Category: "Mains"}
	require.NoError(t, repo.CreateProduct(db, product))

	err := repo.CreateProduct(db, &models.Product{ID: "p1", Name: "Other", Price: 1, Category: "Mains"})
	assert.ErrorIs(t, err, ErrDuplicateKey)
}
