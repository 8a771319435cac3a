package service

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"time"

	"github.com/DarThunder/tienda-api/config"
	"github.com/DarThunder/tienda-api/internal/domain"
	"github.com/DarThunder/tienda-api/internal/dto"
	"github.com/DarThunder/tienda-api/internal/repository"
	pkgdto "github.com/DarThunder/tienda-api/pkg/dto"
	"github.com/DarThunder/tienda-api/pkg/errs"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
	"github.com/sony/gobreaker/v2"
)

// maxTrxRetries bounds how often a losing serialization conflict is replayed
// before the caller is told to retry later.
const maxTrxRetries = 3

type OrderService interface {
	AddOrder(ctx context.Context, req dto.OrderRequest) (id int64, err error)
	GetOrders(ctx context.Context, userID int64, filter pkgdto.Filter) (resp []dto.OrderResponse, err error)
	GetOrderByID(ctx context.Context, userID int64, orderID int64) (resp dto.OrderResponse, err error)
}

type OrderServiceImpl struct {
	repository    repository.OrderRepository
	config        *config.Config
	kafkaProducer *kafka.Conn
	breaker       *gobreaker.CircuitBreaker[[]byte]
}

func CreateOrderService(repository repository.OrderRepository, config *config.Config, kafkaProducer *kafka.Conn, breaker *gobreaker.CircuitBreaker[[]byte]) OrderService {
	return &OrderServiceImpl{
		repository:    repository,
		config:        config,
		kafkaProducer: kafkaProducer,
		breaker:       breaker,
	}
}

// aggregateItems folds duplicate product ids into single line items sorted by
// product id. Locking rows in ascending id order keeps concurrent orders from
// deadlocking against each other.
func aggregateItems(items []dto.OrderItem) ([]dto.OrderItem, error) {
	quantities := make(map[int64]int64)
	for _, item := range items {
		if item.ProductID <= 0 {
			return nil, errs.ErrClient
		}
		if item.Quantity <= 0 {
			return nil, errs.ErrInvalidQuantity
		}
		quantities[item.ProductID] += item.Quantity
	}

	merged := make([]dto.OrderItem, 0, len(quantities))
	for productID, quantity := range quantities {
		merged = append(merged, dto.OrderItem{ProductID: productID, Quantity: quantity})
	}
	sort.Slice(merged, func(i, j int) bool { return merged[i].ProductID < merged[j].ProductID })

	return merged, nil
}

func (s *OrderServiceImpl) AddOrder(ctx context.Context, req dto.OrderRequest) (id int64, err error) {
	if len(req.OrderItems) == 0 {
		return 0, errs.ErrEmptyOrder
	}

	items, err := aggregateItems(req.OrderItems)
	if err != nil {
		return 0, err
	}

	trxNumber, err := uuid.NewV7()
	if err != nil {
		log.Error().Err(err).Str("component", "AddOrder").Msg("")
		return 0, errs.ErrInternalServer
	}

	var orderID int64
	var total float64

	for attempt := 0; attempt < maxTrxRetries; attempt++ {
		orderID, total, err = s.createOrderTrx(ctx, req.UserID, trxNumber.String(), items)
		if err == nil || !errors.Is(err, repository.ErrSerialization) {
			break
		}
		log.Warn().Int("attempt", attempt+1).Str("component", "AddOrder").Msg("Retrying order transaction after serialization failure")
		time.Sleep(time.Millisecond * time.Duration(50*(attempt+1)))
	}
	if errors.Is(err, repository.ErrSerialization) {
		return 0, errs.ErrStoreUnavailable
	}
	if err != nil {
		return 0, err
	}

	s.publishOrderCreated(dto.OrderResponse{
		ID:                orderID,
		TransactionNumber: trxNumber.String(),
		Total:             total,
		Status:            domain.OrderStatusCreated,
	})

	return orderID, nil
}

func (s *OrderServiceImpl) createOrderTrx(ctx context.Context, userID int64, trxNumber string, items []dto.OrderItem) (orderID int64, total float64, err error) {
	err = s.repository.HandleTrx(ctx, func(ctx context.Context, repo repository.OrderRepository) error {
		timestamp := time.Now().UnixMilli()
		orderItems := make([]domain.OrderItem, 0, len(items))
		total = 0

		for _, item := range items {
			product, err := repo.GetProductForUpdate(ctx, item.ProductID)
			if err != nil {
				return err
			}

			if product.ID == 0 {
				return errs.ErrProductNotFound
			}

			if product.Stock < item.Quantity {
				return errs.ErrInsufficientStock
			}

			if err := repo.DecrementProductStock(ctx, product.ID, item.Quantity); err != nil {
				return err
			}

			total += product.Price * float64(item.Quantity)
			orderItems = append(orderItems, domain.OrderItem{
				ProductID:   product.ID,
				ProductName: product.Name,
				Quantity:    item.Quantity,
				UnitPrice:   product.Price,
				CreatedAt:   timestamp,
				UpdatedAt:   timestamp,
			})
		}

		orderID, err = repo.AddOrder(ctx, domain.Order{
			UserID:            userID,
			TransactionNumber: trxNumber,
			Total:             total,
			Status:            domain.OrderStatusCreated,
		})
		if err != nil {
			return err
		}

		for i := range orderItems {
			orderItems[i].OrderID = orderID
		}

		return repo.AddOrderItems(ctx, orderItems)
	})

	return orderID, total, err
}

// publishOrderCreated is best effort: the order is already durable, so a
// broker outage must not fail the request.
func (s *OrderServiceImpl) publishOrderCreated(order dto.OrderResponse) {
	if s.kafkaProducer == nil {
		return
	}

	kafkaMsg := dto.KafkaMessage{
		EventType: "order_created",
		Data:      order,
	}

	jsonMsg, err := json.Marshal(kafkaMsg)
	if err != nil {
		log.Error().Err(err).Str("component", "publishOrderCreated").Msg("")
		return
	}

	maxRetries := 3
	for i := 0; i < maxRetries; i++ {
		_, err = s.breaker.Execute(func() ([]byte, error) {
			_, writeErr := s.kafkaProducer.WriteMessages(kafka.Message{
				Key:   []byte(order.TransactionNumber),
				Value: jsonMsg,
			})
			return nil, writeErr
		})
		if err == nil {
			return
		}
		log.Error().Err(err).Str("component", "publishOrderCreated").Msg("")
		time.Sleep(time.Second * time.Duration(i+1))
	}
}

func toOrderResponse(order domain.Order) dto.OrderResponse {
	resp := dto.OrderResponse{
		ID:                order.ID,
		TransactionNumber: order.TransactionNumber,
		Total:             order.Total,
		Status:            order.Status,
	}

	for _, item := range order.OrderItems {
		resp.Items = append(resp.Items, dto.OrderItemResponse{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		})
	}

	return resp
}

func (s *OrderServiceImpl) GetOrders(ctx context.Context, userID int64, filter pkgdto.Filter) (resp []dto.OrderResponse, err error) {
	orders, err := s.repository.GetOrdersByUserID(ctx, userID, filter)
	if err != nil {
		return nil, err
	}

	resp = make([]dto.OrderResponse, 0, len(orders))
	for _, order := range orders {
		resp = append(resp, toOrderResponse(order))
	}

	return resp, nil
}

func (s *OrderServiceImpl) GetOrderByID(ctx context.Context, userID int64, orderID int64) (resp dto.OrderResponse, err error) {
	order, err := s.repository.GetOrderByID(ctx, orderID)
	if err != nil {
		return
	}

	// a foreign order is reported as missing, not as forbidden
	if order.ID == 0 || order.UserID != userID {
		return resp, errs.ErrOrderNotFound
	}

	order.OrderItems, err = s.repository.GetOrderItems(ctx, order.ID)
	if err != nil {
		return
	}

	return toOrderResponse(order), nil
}
