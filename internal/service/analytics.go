package service

import (
	"context"
	"fmt"

	"digistore/internal/dto"
	"digistore/internal/repository"
)

const (
	topProductsLimit  = 5
	recentOrdersLimit = 5
)

type AnalyticsService interface {
	Dashboard(ctx context.Context) (*dto.Dashboard, error)
}

type analyticsServiceImpl struct {
	analyticsRepo repository.AnalyticsRepository
	orderRepo     repository.OrderRepository
}

func NewAnalyticsService(analyticsRepo repository.AnalyticsRepository, orderRepo repository.OrderRepository) AnalyticsService {
	return &analyticsServiceImpl{
		analyticsRepo: analyticsRepo,
		orderRepo:     orderRepo,
	}
}

func (s *analyticsServiceImpl) Dashboard(ctx context.Context) (*dto.Dashboard, error) {
	dashboard := &dto.Dashboard{}

	var err error
	if dashboard.TotalOrders, err = s.analyticsRepo.CountOrders(ctx); err != nil {
		return nil, fmt.Errorf("count orders: %w", err)
	}
	if dashboard.TotalUsers, err = s.analyticsRepo.CountUsers(ctx); err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	if dashboard.TotalProducts, err = s.analyticsRepo.CountProducts(ctx); err != nil {
		return nil, fmt.Errorf("count products: %w", err)
	}
	if dashboard.TotalReviews, err = s.analyticsRepo.CountReviews(ctx); err != nil {
		return nil, fmt.Errorf("count reviews: %w", err)
	}
	if dashboard.Revenue, err = s.analyticsRepo.Revenue(ctx); err != nil {
		return nil, fmt.Errorf("sum revenue: %w", err)
	}
	if dashboard.AverageOrderValue, err = s.analyticsRepo.AverageOrderValue(ctx); err != nil {
		return nil, fmt.Errorf("average order value: %w", err)
	}
	if dashboard.OrdersByStatus, err = s.analyticsRepo.OrdersByStatus(ctx); err != nil {
		return nil, fmt.Errorf("orders by status: %w", err)
	}
	if dashboard.TopProducts, err = s.analyticsRepo.TopProducts(ctx, topProductsLimit); err != nil {
		return nil, fmt.Errorf("top products: %w", err)
	}
	if dashboard.RecentOrders, err = s.orderRepo.List(ctx, repository.OrderFilter{Limit: recentOrdersLimit}); err != nil {
		return nil, fmt.Errorf("recent orders: %w", err)
	}

	return dashboard, nil
}
