package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"resto_pos_backend/internal/models"
	"resto_pos_backend/internal/repositories"
)

var ErrProductNotFound = errors.New("product not found")

// CatalogService manages the product catalog and serves as the price source
// for order building.
type CatalogService struct {
	productRepo repositories.ProductRepository
	db          *sql.DB
}

func NewCatalogService(productRepo repositories.ProductRepository, db *sql.DB) *CatalogService {
	return &CatalogService{productRepo: productRepo, db: db}
}

func (s *CatalogService) GetProduct(id string) (*models.Product, error) {
	product, err := s.productRepo.GetProductByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrProductNotFound, id)
		}
		return nil, err
	}
	return product, nil
}

func (s *CatalogService) ListProducts() ([]models.Product, error) {
	return s.productRepo.GetProducts()
}

func (s *CatalogService) CreateProduct(product *models.Product) (*models.Product, error) {
	if err := validateProduct(product); err != nil {
		return nil, err
	}
	if product.ID == "" {
		product.ID = uuid.NewString()
	}
	if err := s.productRepo.CreateProduct(s.db, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *CatalogService) UpdateProduct(product *models.Product) (*models.Product, error) {
	if err := validateProduct(product); err != nil {
		return nil, err
	}
	if err := s.productRepo.UpdateProduct(s.db, product); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrProductNotFound, product.ID)
		}
		return nil, err
	}
	return product, nil
}

func (s *CatalogService) DeleteProduct(id string) error {
	if err := s.productRepo.DeleteProduct(s.db, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrProductNotFound, id)
		}
		return err
	}
	return nil
}

func validateProduct(product *models.Product) error {
	if strings.TrimSpace(product.Name) == "" {
		return fmt.Errorf("%w: product name is required", ErrValidation)
	}
	if product.Price < 0 {
		return fmt.Errorf("%w: product price must not be negative", ErrValidation)
	}
	return nil
}
