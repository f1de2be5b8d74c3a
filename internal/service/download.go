package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"digistore/internal/apperr"
	"digistore/internal/config"
	"digistore/internal/dto"
	"digistore/internal/model"
	"digistore/internal/repository"
)

// downloadClaims is the payload of a download token: a signed, expiring
// reference to one grant. Tokens are stateless, so they survive restarts
// and stay valid across replicas; revocation happens through the grant
// re-check on every redemption.
type downloadClaims struct {
	GrantID string `json:"grant_id"`
	jwt.RegisteredClaims
}

type DownloadService interface {
	// ProvisionOrder creates one grant per digital line item of a fully
	// completed order. Safe to call again for the same order.
	ProvisionOrder(ctx context.Context, order *model.Order) error
	CreateGrant(ctx context.Context, userID, productID, orderID string) (*model.DownloadGrant, error)
	ValidateGrant(ctx context.Context, grantID, userID string) (*dto.GrantValidation, error)
	IncrementDownloadCount(ctx context.Context, grantID string) error
	IssueToken(ctx context.Context, grantID, userID string) (*dto.DownloadToken, error)
	// RedeemToken verifies the token, re-validates the underlying grant,
	// advances the download counter and returns the asset location.
	RedeemToken(ctx context.Context, token string) (*dto.DownloadAsset, error)
	ListUserGrants(ctx context.Context, userID string) ([]*dto.GrantInfo, error)
}

type downloadServiceImpl struct {
	downloadRepo repository.DownloadRepository
	productRepo  repository.ProductRepository
	orderRepo    repository.OrderRepository
	cfg          config.Downloads
	now          func() time.Time
}

func NewDownloadService(
	downloadRepo repository.DownloadRepository,
	productRepo repository.ProductRepository,
	orderRepo repository.OrderRepository,
	cfg config.Downloads,
) DownloadService {
	return &downloadServiceImpl{
		downloadRepo: downloadRepo,
		productRepo:  productRepo,
		orderRepo:    orderRepo,
		cfg:          cfg,
		now:          time.Now,
	}
}

func (s *downloadServiceImpl) ProvisionOrder(ctx context.Context, order *model.Order) error {
	if len(order.Items) == 0 {
		return nil
	}

	productIDs := make([]string, len(order.Items))
	for i, item := range order.Items {
		productIDs[i] = item.ProductID
	}
	products, err := s.productRepo.FindMany(ctx, productIDs)
	if err != nil {
		return fmt.Errorf("find order products: %w", err)
	}

	expiresAt := s.now().Add(s.cfg.GrantTTL)
	for _, product := range products {
		if !product.Digital() {
			continue
		}

		grant := &model.DownloadGrant{
			UserID:    order.UserID,
			ProductID: product.ID,
			OrderID:   order.ID,
			ExpiresAt: &expiresAt,
		}
		// Insert-or-ignore on (user, product, order): re-entering the
		// completed state never duplicates grants.
		if err := s.downloadRepo.CreateGrant(ctx, grant); err != nil {
			return fmt.Errorf("create grant for product %s: %w", product.ID, err)
		}
	}

	return nil
}

func (s *downloadServiceImpl) CreateGrant(ctx context.Context, userID, productID, orderID string) (*model.DownloadGrant, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("product", productID)
		}
		return nil, fmt.Errorf("find product: %w", err)
	}
	if !product.Digital() {
		return nil, apperr.InvalidState("product %s has no digital asset", productID)
	}

	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("order", orderID)
		}
		return nil, fmt.Errorf("find order: %w", err)
	}
	// An order owned by someone else reads as missing.
	if order.UserID != userID {
		return nil, apperr.NotFound("order", orderID)
	}

	expiresAt := s.now().Add(s.cfg.GrantTTL)
	grant := &model.DownloadGrant{
		UserID:    userID,
		ProductID: productID,
		OrderID:   orderID,
		ExpiresAt: &expiresAt,
	}
	if err := s.downloadRepo.CreateGrant(ctx, grant); err != nil {
		return nil, fmt.Errorf("create download grant: %w", err)
	}

	return grant, nil
}

func (s *downloadServiceImpl) ValidateGrant(ctx context.Context, grantID, userID string) (*dto.GrantValidation, error) {
	grant, _, err := s.evaluateGrant(ctx, grantID, userID)
	if err != nil {
		var appErr *apperr.Error
		if errors.As(err, &appErr) {
			return &dto.GrantValidation{Valid: false, Reason: appErr.Message}, nil
		}
		return nil, err
	}

	return &dto.GrantValidation{Valid: true, Grant: grant}, nil
}

func (s *downloadServiceImpl) IncrementDownloadCount(ctx context.Context, grantID string) error {
	grant, err := s.downloadRepo.FindGrantByID(ctx, grantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("download grant", grantID)
		}
		return fmt.Errorf("find download grant: %w", err)
	}

	product, err := s.productRepo.FindByID(ctx, grant.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("product", grant.ProductID)
		}
		return fmt.Errorf("find grant product: %w", err)
	}

	return s.incrementCount(ctx, grantID, product.DownloadLimit)
}

func (s *downloadServiceImpl) IssueToken(ctx context.Context, grantID, userID string) (*dto.DownloadToken, error) {
	if _, _, err := s.evaluateGrant(ctx, grantID, userID); err != nil {
		return nil, err
	}

	expiresAt := s.now().Add(s.cfg.TokenTTL)
	claims := &downloadClaims{
		GrantID: grantID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(s.now()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.TokenSecret))
	if err != nil {
		return nil, fmt.Errorf("sign download token: %w", err)
	}

	return &dto.DownloadToken{Token: signed, ExpiresAt: expiresAt}, nil
}

func (s *downloadServiceImpl) RedeemToken(ctx context.Context, token string) (*dto.DownloadAsset, error) {
	claims := &downloadClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.TokenSecret), nil
	}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithTimeFunc(s.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperr.Expired("download token has expired")
		}
		return nil, apperr.InvalidState("invalid download token")
	}

	// A valid signature is not enough: the grant behind it may have
	// expired or run out of downloads since the token was issued.
	grant, product, err := s.evaluateGrant(ctx, claims.GrantID, claims.Subject)
	if err != nil {
		return nil, err
	}

	if err := s.incrementCount(ctx, grant.ID, product.DownloadLimit); err != nil {
		return nil, err
	}

	asset := &dto.DownloadAsset{
		ProductID:   product.ID,
		ProductName: product.Name,
		FileURL:     product.FileURL,
	}
	if product.DownloadLimit != nil {
		remaining := *product.DownloadLimit - grant.DownloadCount - 1
		if remaining < 0 {
			remaining = 0
		}
		asset.Remaining = &remaining
	}

	return asset, nil
}

func (s *downloadServiceImpl) ListUserGrants(ctx context.Context, userID string) ([]*dto.GrantInfo, error) {
	grants, err := s.downloadRepo.ListGrantsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list grants: %w", err)
	}
	if len(grants) == 0 {
		return []*dto.GrantInfo{}, nil
	}

	productIDs := make([]string, len(grants))
	for i, grant := range grants {
		productIDs[i] = grant.ProductID
	}
	products, err := s.productRepo.FindMany(ctx, productIDs)
	if err != nil {
		return nil, fmt.Errorf("find grant products: %w", err)
	}
	productByID := make(map[string]*model.Product, len(products))
	for _, product := range products {
		productByID[product.ID] = product
	}

	infos := make([]*dto.GrantInfo, 0, len(grants))
	for _, grant := range grants {
		info := &dto.GrantInfo{
			ID:            grant.ID,
			OrderID:       grant.OrderID,
			ProductID:     grant.ProductID,
			DownloadCount: grant.DownloadCount,
			ExpiresAt:     grant.ExpiresAt,
			CreatedAt:     grant.CreatedAt,
		}
		if product, ok := productByID[grant.ProductID]; ok {
			info.ProductName = product.Name
			info.ProductSlug = product.Slug
			info.DownloadLimit = product.DownloadLimit
		}
		infos = append(infos, info)
	}

	return infos, nil
}

// evaluateGrant checks existence, ownership, expiry and the remaining
// download budget. Grants of other users read as missing.
func (s *downloadServiceImpl) evaluateGrant(ctx context.Context, grantID, userID string) (*model.DownloadGrant, *model.Product, error) {
	grant, err := s.downloadRepo.FindGrantByID(ctx, grantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apperr.NotFound("download grant", grantID)
		}
		return nil, nil, fmt.Errorf("find download grant: %w", err)
	}
	if grant.UserID != userID {
		return nil, nil, apperr.NotFound("download grant", grantID)
	}
	if grant.ExpiresAt != nil && grant.ExpiresAt.Before(s.now()) {
		return nil, nil, apperr.Expired("download grant %s has expired", grantID)
	}

	product, err := s.productRepo.FindByID(ctx, grant.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apperr.NotFound("product", grant.ProductID)
		}
		return nil, nil, fmt.Errorf("find grant product: %w", err)
	}
	if product.DownloadLimit != nil && grant.DownloadCount >= *product.DownloadLimit {
		return nil, nil, apperr.LimitExceeded("download limit reached for grant %s", grantID)
	}

	return grant, product, nil
}

// incrementCount advances the counter through the guarded update; the limit
// is re-checked inside the statement, so concurrent downloads cannot push
// past it.
func (s *downloadServiceImpl) incrementCount(ctx context.Context, grantID string, limit *int) error {
	err := s.downloadRepo.IncrementCount(ctx, grantID, limit)
	if err == nil {
		return nil
	}
	if errors.Is(err, repository.ErrDownloadLimitReached) {
		return apperr.LimitExceeded("download limit reached for grant %s", grantID)
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound("download grant", grantID)
	}
	return fmt.Errorf("increment download count: %w", err)
}
