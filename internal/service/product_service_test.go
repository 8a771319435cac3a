package service

import (
	"context"
	"testing"

	"github.com/DarThunder/tienda-api/internal/domain"
	"github.com/DarThunder/tienda-api/internal/dto"
	pkgdto "github.com/DarThunder/tienda-api/pkg/dto"
	"github.com/DarThunder/tienda-api/pkg/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProductRepo struct {
	products     map[int64]domain.Product
	addedProduct *domain.Product
	updated      *domain.Product
	deletedID    int64
	listErr      error
}

func (r *fakeProductRepo) GetProducts(ctx context.Context, filter pkgdto.Filter) ([]domain.Product, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	data := make([]domain.Product, 0, len(r.products))
	for _, product := range r.products {
		data = append(data, product)
	}
	return data, nil
}

func (r *fakeProductRepo) GetProductByID(ctx context.Context, id int64) (domain.Product, error) {
	return r.products[id], nil
}

func (r *fakeProductRepo) AddProduct(ctx context.Context, data domain.Product) (int64, error) {
	r.addedProduct = &data
	return 3, nil
}

func (r *fakeProductRepo) UpdateProduct(ctx context.Context, data domain.Product) error {
	r.updated = &data
	return nil
}

func (r *fakeProductRepo) DeleteProduct(ctx context.Context, id int64) error {
	r.deletedID = id
	return nil
}

func (r *fakeProductRepo) GetLowStockProducts(ctx context.Context, threshold int64) ([]domain.Product, error) {
	var data []domain.Product
	for _, product := range r.products {
		if product.Stock <= threshold {
			data = append(data, product)
		}
	}
	return data, nil
}

func TestAddProduct(t *testing.T) {
	repo := &fakeProductRepo{products: map[int64]domain.Product{}}
	svc := CreateProductService(repo, testConfig(), nil, nil)

	id, err := svc.AddProduct(context.Background(), dto.ProductRequest{Name: "Camisa Blanca", Price: 399.99, Size: "M", Stock: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(3), id)

	require.NotNil(t, repo.addedProduct)
	assert.Equal(t, "Camisa Blanca", repo.addedProduct.Name)
	assert.Equal(t, 399.99, repo.addedProduct.Price)
	assert.Equal(t, int64(20), repo.addedProduct.Stock)
	assert.NotEmpty(t, repo.addedProduct.ExternalID)
}

func TestAddProductValidation(t *testing.T) {
	testCases := []struct {
		Name        string
		Request     dto.ProductRequest
		ExpectedErr error
	}{
		{"empty name", dto.ProductRequest{Name: "  ", Price: 10, Stock: 1}, errs.ErrEmptyProductName},
		{"negative price", dto.ProductRequest{Name: "Jeans", Price: -1, Stock: 1}, errs.ErrNegativePrice},
		{"negative stock", dto.ProductRequest{Name: "Jeans", Price: 10, Stock: -1}, errs.ErrNegativeStock},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			repo := &fakeProductRepo{products: map[int64]domain.Product{}}
			svc := CreateProductService(repo, testConfig(), nil, nil)

			_, err := svc.AddProduct(context.Background(), tc.Request)
			assert.ErrorIs(t, err, tc.ExpectedErr)
			assert.Nil(t, repo.addedProduct, "nothing may be persisted on validation failure")
		})
	}
}

func TestGetProductByID(t *testing.T) {
	repo := &fakeProductRepo{products: map[int64]domain.Product{
		1: {ID: 1, Name: "Camisa Blanca", Price: 399.99, Size: "M", Stock: 20},
	}}
	svc := CreateProductService(repo, testConfig(), nil, nil)

	resp, err := svc.GetProductByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, dto.ProductResponse{ID: 1, Name: "Camisa Blanca", Price: 399.99, Size: "M", Stock: 20}, resp)
}

func TestGetProductByIDNotFound(t *testing.T) {
	repo := &fakeProductRepo{products: map[int64]domain.Product{}}
	svc := CreateProductService(repo, testConfig(), nil, nil)

	_, err := svc.GetProductByID(context.Background(), 999999)
	assert.ErrorIs(t, err, errs.ErrProductNotFound)
}

func TestUpdateProduct(t *testing.T) {
	repo := &fakeProductRepo{products: map[int64]domain.Product{
		1: {ID: 1, Name: "Camisa Blanca", Price: 399.99, Size: "M", Stock: 20},
	}}
	svc := CreateProductService(repo, testConfig(), nil, nil)

	resp, err := svc.UpdateProduct(context.Background(), dto.ProductRequest{ID: 1, Name: "Camisa Negra", Price: 449.99, Size: "L", Stock: 5})
	require.NoError(t, err)
	assert.Equal(t, "Camisa Negra", resp.Name)

	require.NotNil(t, repo.updated)
	assert.Equal(t, int64(1), repo.updated.ID)
	assert.Equal(t, 449.99, repo.updated.Price)
}

func TestUpdateProductNotFound(t *testing.T) {
	repo := &fakeProductRepo{products: map[int64]domain.Product{}}
	svc := CreateProductService(repo, testConfig(), nil, nil)

	_, err := svc.UpdateProduct(context.Background(), dto.ProductRequest{ID: 7, Name: "Jeans", Price: 10, Stock: 1})
	assert.ErrorIs(t, err, errs.ErrProductNotFound)
}

func TestCheckLowStockWithoutBroker(t *testing.T) {
	repo := &fakeProductRepo{products: map[int64]domain.Product{
		1: {ID: 1, Name: "Camisa Blanca", Stock: 2},
		2: {ID: 2, Name: "Jeans Slim Fit", Stock: 50},
	}}
	svc := CreateProductService(repo, testConfig(), nil, nil)

	// no producer wired, the scan must still succeed
	assert.NoError(t, svc.CheckLowStock(context.Background()))
}
