package repositories

import (
	"database/sql"
	"errors"
	"fmt"

	"resto_pos_backend/internal/models"
)

// ProductRepository defines the interface for catalog database operations.
type ProductRepository interface {
	CreateProduct(executor SQLExecutor, product *models.Product) error
	GetProductByID(productID string) (*models.Product, error)
	GetProducts() ([]models.Product, error)
	UpdateProduct(executor SQLExecutor, product *models.Product) error
	DeleteProduct(executor SQLExecutor, productID string) error
}

type productRepository struct {
	db *sql.DB
}

// NewProductRepository creates a new instance of ProductRepository.
func NewProductRepository(db *sql.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) CreateProduct(executor SQLExecutor, product *models.Product) error {
	query := `INSERT INTO products (id, name, price, category, image) VALUES ($1, $2, $3, $4, $5)`
	_, err := executor.Exec(query, product.ID, product.Name, product.Price, product.Category, product.Image)
	if err != nil {
		if isDuplicateKey(err) {
			return fmt.Errorf("%w: product id %s", ErrDuplicateKey, product.ID)
		}
		return fmt.Errorf("%w: creating product %s: %v", ErrDatabaseError, product.ID, err)
	}
	return nil
}

func (r *productRepository) GetProductByID(productID string) (*models.Product, error) {
	product := &models.Product{}
	query := `SELECT id, name, price, category, image FROM products WHERE id = $1`
	err := r.db.QueryRow(query, productID).Scan(
		&product.ID, &product.Name, &product.Price, &product.Category, &product.Image,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting product by ID %s: %v", ErrDatabaseError, productID, err)
	}
	return product, nil
}

func (r *productRepository) GetProducts() ([]models.Product, error) {
	products := []models.Product{}
	query := `SELECT id, name, price, category, image FROM products ORDER BY category, name`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("%w: querying products: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var p models.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.Category, &p.Image); err != nil {
			return nil, fmt.Errorf("%w: scanning product: %v", ErrDatabaseError, err)
		}
		products = append(products, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating product rows: %v", ErrDatabaseError, err)
	}
	return products, nil
}

func (r *productRepository) UpdateProduct(executor SQLExecutor, product *models.Product) error {
	query := `UPDATE products SET name = $1, price = $2, category = $3, image = $4 WHERE id = $5`
	result, err := executor.Exec(query, product.Name, product.Price, product.Category, product.Image, product.ID)
	if err != nil {
		return fmt.Errorf("%w: updating product %s: %v", ErrDatabaseError, product.ID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for product update %s: %v", ErrDatabaseError, product.ID, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *productRepository) DeleteProduct(executor SQLExecutor, productID string) error {
	query := `DELETE FROM products WHERE id = $1`
	result, err := executor.Exec(query, productID)
	if err != nil {
		return fmt.Errorf("%w: deleting product %s: %v", ErrDatabaseError, productID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for deleting product %s: %v", ErrDatabaseError, productID, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
