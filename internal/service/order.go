package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"digistore/internal/apperr"
	"digistore/internal/dto"
	"digistore/internal/model"
	"digistore/internal/repository"
)

type OrderService interface {
	// Checkout computes totals from the submitted line items, applies an
	// optional coupon and persists the order atomically. Any validation
	// failure aborts the whole creation; no partial order survives.
	Checkout(ctx context.Context, userID string, req *dto.CheckoutRequest) (*model.Order, error)
	GetOrder(ctx context.Context, orderID, userID string) (*model.Order, error)
	ListUserOrders(ctx context.Context, userID string) ([]*model.Order, error)
	ListOrders(ctx context.Context, filter repository.OrderFilter) ([]*model.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID string, status model.OrderStatus) (*model.Order, error)
	UpdatePaymentStatus(ctx context.Context, orderID string, status model.PaymentStatus) (*model.Order, error)
	// HandlePaymentEvent applies an externally-driven payment status
	// change, deduplicating redelivered events by their id.
	HandlePaymentEvent(ctx context.Context, event *dto.PaymentEvent) error
}

type orderServiceImpl struct {
	db               *gorm.DB
	logger           *zap.Logger
	orderRepo        repository.OrderRepository
	productRepo      repository.ProductRepository
	userRepo         repository.UserRepository
	couponRepo       repository.CouponRepository
	webhookEventRepo repository.WebhookEventRepository
	couponService    CouponService
	downloadService  DownloadService
}

func NewOrderService(
	db *gorm.DB,
	logger *zap.Logger,
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
	couponRepo repository.CouponRepository,
	webhookEventRepo repository.WebhookEventRepository,
	couponService CouponService,
	downloadService DownloadService,
) OrderService {
	return &orderServiceImpl{
		db:               db,
		logger:           logger,
		orderRepo:        orderRepo,
		productRepo:      productRepo,
		userRepo:         userRepo,
		couponRepo:       couponRepo,
		webhookEventRepo: webhookEventRepo,
		couponService:    couponService,
		downloadService:  downloadService,
	}
}

func (s *orderServiceImpl) Checkout(ctx context.Context, userID string, req *dto.CheckoutRequest) (*model.Order, error) {
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user", userID)
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	productIDs := make([]string, len(req.Items))
	for i, item := range req.Items {
		if item.Quantity <= 0 {
			return nil, apperr.InvalidState("item quantity must be positive")
		}
		if item.Price.LessThanOrEqual(decimal.Zero) {
			return nil, apperr.InvalidState("item price must be positive")
		}
		productIDs[i] = item.ProductID
	}

	products, err := s.productRepo.FindMany(ctx, productIDs)
	if err != nil {
		return nil, fmt.Errorf("find products: %w", err)
	}
	productByID := make(map[string]*model.Product, len(products))
	for _, product := range products {
		productByID[product.ID] = product
	}

	// The submitted unit price is the one locked in at add-to-cart time;
	// totals are not re-derived from the live catalog.
	totalAmount := decimal.Zero
	items := make([]*model.OrderItem, len(req.Items))
	for i, item := range req.Items {
		if _, ok := productByID[item.ProductID]; !ok {
			return nil, apperr.NotFound("product", item.ProductID)
		}

		totalAmount = totalAmount.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
		items[i] = &model.OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		}
	}

	discountAmount := decimal.Zero
	var coupon *model.Coupon
	if req.CouponCode != "" {
		coupon, discountAmount, err = s.couponService.Evaluate(ctx, req.CouponCode, totalAmount)
		if err != nil {
			return nil, err
		}
	}

	order := &model.Order{
		UserID:         userID,
		TotalAmount:    totalAmount,
		DiscountAmount: discountAmount,
		FinalAmount:    totalAmount.Sub(discountAmount),
		Status:         model.OrderStatusPending,
		PaymentStatus:  model.PaymentStatusPending,
	}
	if coupon != nil {
		order.CouponID = &coupon.ID
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if coupon != nil {
			// Conditional increment: losing the race for the last use of
			// a capped coupon fails here and rolls the order back.
			if err := s.couponRepo.RedeemUse(ctx, tx, coupon.ID); err != nil {
				if errors.Is(err, repository.ErrCouponExhausted) {
					return apperr.LimitExceeded("coupon %s usage limit reached", coupon.Code)
				}
				return fmt.Errorf("redeem coupon use: %w", err)
			}
		}

		if err := s.orderRepo.Create(ctx, tx, order); err != nil {
			return fmt.Errorf("store order: %w", err)
		}

		for _, item := range items {
			item.OrderID = order.ID
		}
		if err := s.orderRepo.CreateItems(ctx, tx, items); err != nil {
			return fmt.Errorf("store order items: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	order.Items = make([]model.OrderItem, len(items))
	for i, item := range items {
		order.Items[i] = *item
	}

	return order, nil
}

func (s *orderServiceImpl) GetOrder(ctx context.Context, orderID, userID string) (*model.Order, error) {
	order, err := s.findOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, apperr.InvalidState("order %s belongs to a different user", orderID)
	}
	return order, nil
}

func (s *orderServiceImpl) ListUserOrders(ctx context.Context, userID string) ([]*model.Order, error) {
	return s.orderRepo.ListByUser(ctx, userID)
}

func (s *orderServiceImpl) ListOrders(ctx context.Context, filter repository.OrderFilter) ([]*model.Order, error) {
	return s.orderRepo.List(ctx, filter)
}

// UpdateOrderStatus sets the order half of the composite state. Any status
// may follow any other, so admins can move an order backward. Reaching
// completed/completed triggers download provisioning.
func (s *orderServiceImpl) UpdateOrderStatus(ctx context.Context, orderID string, status model.OrderStatus) (*model.Order, error) {
	if !model.ValidOrderStatus(status) {
		return nil, apperr.InvalidState("unknown order status %q", status)
	}

	order, err := s.findOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := s.orderRepo.UpdateStatus(ctx, orderID, status); err != nil {
		return nil, fmt.Errorf("update order status: %w", err)
	}
	order.Status = status

	s.provisionIfCompleted(ctx, order)

	return order, nil
}

func (s *orderServiceImpl) UpdatePaymentStatus(ctx context.Context, orderID string, status model.PaymentStatus) (*model.Order, error) {
	if !model.ValidPaymentStatus(status) {
		return nil, apperr.InvalidState("unknown payment status %q", status)
	}

	order, err := s.findOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := s.orderRepo.UpdatePaymentStatus(ctx, orderID, status); err != nil {
		return nil, fmt.Errorf("update payment status: %w", err)
	}
	order.PaymentStatus = status

	s.provisionIfCompleted(ctx, order)

	return order, nil
}

func (s *orderServiceImpl) HandlePaymentEvent(ctx context.Context, event *dto.PaymentEvent) error {
	processed, err := s.webhookEventRepo.Exists(ctx, event.EventID)
	if err != nil {
		return fmt.Errorf("check webhook event: %w", err)
	}
	if processed {
		// redelivery; the first delivery already applied it
		return nil
	}

	if _, err := s.UpdatePaymentStatus(ctx, event.OrderID, event.PaymentStatus); err != nil {
		return err
	}

	if err := s.webhookEventRepo.MarkProcessed(ctx, event.EventID, "payment."+string(event.PaymentStatus)); err != nil {
		return fmt.Errorf("mark webhook event processed: %w", err)
	}

	return nil
}

func (s *orderServiceImpl) findOrder(ctx context.Context, orderID string) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("order", orderID)
		}
		return nil, fmt.Errorf("find order: %w", err)
	}
	return order, nil
}

// provisionIfCompleted hands a fully completed order to download
// provisioning. Failures are logged and swallowed: once the status fields
// are validly set, completion must not be blocked by grant creation.
func (s *orderServiceImpl) provisionIfCompleted(ctx context.Context, order *model.Order) {
	if !order.Completed() {
		return
	}

	if err := s.downloadService.ProvisionOrder(ctx, order); err != nil {
		s.logger.Error("provision download grants",
			zap.String("order_id", order.ID),
			zap.Error(err),
		)
	}
}
