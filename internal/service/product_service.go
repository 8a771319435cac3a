package service

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/DarThunder/tienda-api/config"
	"github.com/DarThunder/tienda-api/internal/domain"
	"github.com/DarThunder/tienda-api/internal/dto"
	"github.com/DarThunder/tienda-api/internal/repository"
	pkgdto "github.com/DarThunder/tienda-api/pkg/dto"
	"github.com/DarThunder/tienda-api/pkg/errs"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
	"github.com/sony/gobreaker/v2"
)

type ProductService interface {
	GetProducts(ctx context.Context, filter pkgdto.Filter) (resp []dto.ProductResponse, err error)
	GetProductByID(ctx context.Context, id int64) (resp dto.ProductResponse, err error)
	AddProduct(ctx context.Context, data dto.ProductRequest) (id int64, err error)
	UpdateProduct(ctx context.Context, data dto.ProductRequest) (resp dto.ProductResponse, err error)
	DeleteProduct(ctx context.Context, id int64) (err error)
	CheckLowStock(ctx context.Context) (err error)
}

type ProductServiceImpl struct {
	repo          repository.ProductRepository
	config        config.Config
	kafkaProducer *kafka.Conn
	breaker       *gobreaker.CircuitBreaker[[]byte]
}

func CreateProductService(repo repository.ProductRepository, config config.Config, kafkaProducer *kafka.Conn, breaker *gobreaker.CircuitBreaker[[]byte]) ProductService {
	return &ProductServiceImpl{repo: repo, config: config, kafkaProducer: kafkaProducer, breaker: breaker}
}

func validateProduct(data dto.ProductRequest) error {
	if strings.TrimSpace(data.Name) == "" {
		return errs.ErrEmptyProductName
	}
	if data.Price < 0 {
		return errs.ErrNegativePrice
	}
	if data.Stock < 0 {
		return errs.ErrNegativeStock
	}
	return nil
}

func toProductResponse(data domain.Product) dto.ProductResponse {
	return dto.ProductResponse{
		ID:    data.ID,
		Name:  data.Name,
		Price: data.Price,
		Size:  data.Size,
		Stock: data.Stock,
	}
}

func (s *ProductServiceImpl) GetProducts(ctx context.Context, filter pkgdto.Filter) (resp []dto.ProductResponse, err error) {
	products, err := s.repo.GetProducts(ctx, filter)
	if err != nil {
		return nil, err
	}

	resp = make([]dto.ProductResponse, 0, len(products))
	for _, product := range products {
		resp = append(resp, toProductResponse(product))
	}

	return resp, nil
}

func (s *ProductServiceImpl) GetProductByID(ctx context.Context, id int64) (resp dto.ProductResponse, err error) {
	product, err := s.repo.GetProductByID(ctx, id)
	if err != nil {
		return
	}

	if product.ID == 0 {
		return resp, errs.ErrProductNotFound
	}

	return toProductResponse(product), nil
}

func (s *ProductServiceImpl) AddProduct(ctx context.Context, data dto.ProductRequest) (id int64, err error) {
	if err = validateProduct(data); err != nil {
		return 0, err
	}

	productEnt := domain.Product{
		ExternalID: ulid.Make().String(),
		Name:       data.Name,
		Price:      data.Price,
		Size:       data.Size,
		Stock:      data.Stock,
	}

	id, err = s.repo.AddProduct(ctx, productEnt)
	if err != nil {
		return 0, err
	}

	return id, nil
}

func (s *ProductServiceImpl) UpdateProduct(ctx context.Context, data dto.ProductRequest) (resp dto.ProductResponse, err error) {
	if err = validateProduct(data); err != nil {
		return
	}

	product, err := s.repo.GetProductByID(ctx, data.ID)
	if err != nil {
		return
	}

	if product.ID == 0 {
		return resp, errs.ErrProductNotFound
	}

	product.Name = data.Name
	product.Price = data.Price
	product.Size = data.Size
	product.Stock = data.Stock

	if err = s.repo.UpdateProduct(ctx, product); err != nil {
		return
	}

	return toProductResponse(product), nil
}

func (s *ProductServiceImpl) DeleteProduct(ctx context.Context, id int64) (err error) {
	return s.repo.DeleteProduct(ctx, id)
}

// CheckLowStock is run periodically by the scheduler. It reports products at
// or below the configured threshold and, when a broker is wired, publishes a
// low_stock event for downstream restocking.
func (s *ProductServiceImpl) CheckLowStock(ctx context.Context) (err error) {
	products, err := s.repo.GetLowStockProducts(ctx, s.config.LowStockThreshold)
	if err != nil {
		return err
	}

	if len(products) == 0 {
		return nil
	}

	resp := make([]dto.ProductResponse, 0, len(products))
	for _, product := range products {
		log.Warn().
			Int64("productID", product.ID).
			Str("name", product.Name).
			Int64("stock", product.Stock).
			Msg("Product stock is running low")
		resp = append(resp, toProductResponse(product))
	}

	if s.kafkaProducer == nil {
		return nil
	}

	kafkaMsg := dto.KafkaMessage{
		EventType: "low_stock",
		Data:      resp,
	}

	jsonMsg, err := json.Marshal(kafkaMsg)
	if err != nil {
		return err
	}

	_, err = s.breaker.Execute(func() ([]byte, error) {
		_, writeErr := s.kafkaProducer.WriteMessages(kafka.Message{Value: jsonMsg})
		return nil, writeErr
	})
	if err != nil {
		log.Error().Err(err).Str("component", "CheckLowStock").Msg("")
	}

	return nil
}
