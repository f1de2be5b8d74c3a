package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"digistore/internal/apperr"
	"digistore/internal/config"
	"digistore/internal/handler"
	"digistore/internal/middleware"
	"digistore/internal/service"
)

// Services bundles everything the HTTP layer depends on.
type Services struct {
	Auth      service.AuthService
	Catalog   service.CatalogService
	Cart      service.CartService
	Order     service.OrderService
	Coupon    service.CouponService
	Download  service.DownloadService
	Review    service.ReviewService
	Blog      service.BlogService
	Contact   service.ContactService
	Setting   service.SettingService
	Analytics service.AnalyticsService
}

type Server struct {
	echo *echo.Echo
	cfg  config.Auth

	authHandler      *handler.AuthHandler
	catalogHandler   *handler.CatalogHandler
	cartHandler      *handler.CartHandler
	orderHandler     *handler.OrderHandler
	couponHandler    *handler.CouponHandler
	downloadHandler  *handler.DownloadHandler
	reviewHandler    *handler.ReviewHandler
	blogHandler      *handler.BlogHandler
	contactHandler   *handler.ContactHandler
	settingHandler   *handler.SettingHandler
	analyticsHandler *handler.AnalyticsHandler
	webhookHandler   *handler.WebhookHandler
}

func NewServer(logger *zap.Logger, cfg config.Auth, svc Services) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Validator = &requestValidator{validate: validator.New()}
	e.HTTPErrorHandler = newErrorHandler(logger)

	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			logger.Info("request",
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.Error(v.Error),
			)
			return nil
		},
	}))
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())

	s := &Server{
		echo: e,
		cfg:  cfg,

		authHandler:      handler.NewAuthHandler(svc.Auth),
		catalogHandler:   handler.NewCatalogHandler(svc.Catalog),
		cartHandler:      handler.NewCartHandler(svc.Cart),
		orderHandler:     handler.NewOrderHandler(svc.Order),
		couponHandler:    handler.NewCouponHandler(svc.Coupon),
		downloadHandler:  handler.NewDownloadHandler(svc.Download),
		reviewHandler:    handler.NewReviewHandler(svc.Review, svc.Catalog),
		blogHandler:      handler.NewBlogHandler(svc.Blog),
		contactHandler:   handler.NewContactHandler(svc.Contact),
		settingHandler:   handler.NewSettingHandler(svc.Setting),
		analyticsHandler: handler.NewAnalyticsHandler(svc.Analytics),
		webhookHandler:   handler.NewWebhookHandler(svc.Order),
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.echo.Group("/api")

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})

	// -------- public --------
	api.POST("/auth/register", s.authHandler.Register)
	api.POST("/auth/login", s.authHandler.Login)

	api.GET("/categories", s.catalogHandler.ListCategories)
	api.GET("/categories/:slug", s.catalogHandler.GetCategory)
	api.GET("/products", s.catalogHandler.ListProducts)
	api.GET("/products/:slug", s.catalogHandler.GetProduct)
	api.GET("/products/:slug/reviews", s.reviewHandler.ListByProduct)
	api.GET("/products/:slug/reviews/summary", s.reviewHandler.Summary)

	api.GET("/blog", s.blogHandler.ListPosts)
	api.GET("/blog/:slug", s.blogHandler.GetPost)
	api.POST("/contact", s.contactHandler.Submit)
	api.POST("/coupons/validate", s.couponHandler.Validate)

	// token is the credential; no session required
	api.GET("/downloads/file", s.downloadHandler.Redeem)

	// -------- payment webhooks --------
	api.POST("/webhooks/payment", s.webhookHandler.PaymentEvent)

	// -------- authenticated --------
	authed := api.Group("", middleware.AuthMiddleware(s.cfg.JWTSecret))
	authed.GET("/me", s.authHandler.Profile)

	authed.GET("/cart", s.cartHandler.GetCart)
	authed.POST("/cart/items", s.cartHandler.AddItem)
	authed.PATCH("/cart/items/:productID", s.cartHandler.UpdateItem)
	authed.DELETE("/cart/items/:productID", s.cartHandler.RemoveItem)
	authed.DELETE("/cart", s.cartHandler.ClearCart)

	authed.POST("/checkout", s.orderHandler.Checkout)
	authed.GET("/orders", s.orderHandler.ListMyOrders)
	authed.GET("/orders/:id", s.orderHandler.GetOrder)

	authed.GET("/downloads", s.downloadHandler.ListMyGrants)
	authed.POST("/downloads/:grantID/token", s.downloadHandler.IssueToken)

	authed.POST("/products/:slug/reviews", s.reviewHandler.Add)
	authed.DELETE("/reviews/:id", s.reviewHandler.Delete)

	// -------- admin --------
	admin := api.Group("/admin", middleware.AuthMiddleware(s.cfg.JWTSecret), middleware.AdminOnly())

	admin.POST("/categories", s.catalogHandler.CreateCategory)
	admin.PATCH("/categories/:id", s.catalogHandler.UpdateCategory)
	admin.DELETE("/categories/:id", s.catalogHandler.DeleteCategory)

	admin.GET("/products", s.catalogHandler.ListAllProducts)
	admin.POST("/products", s.catalogHandler.CreateProduct)
	admin.PATCH("/products/:id", s.catalogHandler.UpdateProduct)
	admin.DELETE("/products/:id", s.catalogHandler.DeleteProduct)

	admin.GET("/coupons", s.couponHandler.List)
	admin.GET("/coupons/:id", s.couponHandler.Get)
	admin.POST("/coupons", s.couponHandler.Create)
	admin.PATCH("/coupons/:id", s.couponHandler.Update)
	admin.DELETE("/coupons/:id", s.couponHandler.Delete)

	admin.GET("/orders", s.orderHandler.ListOrders)
	admin.PATCH("/orders/:id/status", s.orderHandler.UpdateStatus)
	admin.PATCH("/orders/:id/payment", s.orderHandler.UpdatePaymentStatus)

	admin.GET("/blog", s.blogHandler.ListAllPosts)
	admin.POST("/blog", s.blogHandler.CreatePost)
	admin.PATCH("/blog/:id", s.blogHandler.UpdatePost)
	admin.DELETE("/blog/:id", s.blogHandler.DeletePost)

	admin.GET("/contact", s.contactHandler.List)
	admin.PATCH("/contact/:id/read", s.contactHandler.MarkRead)

	admin.GET("/settings", s.settingHandler.All)
	admin.GET("/settings/:key", s.settingHandler.Get)
	admin.PUT("/settings/:key", s.settingHandler.Set)

	admin.GET("/analytics/dashboard", s.analyticsHandler.Dashboard)
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

type requestValidator struct {
	validate *validator.Validate
}

func (v *requestValidator) Validate(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

// newErrorHandler maps service errors onto transport codes. Anything
// without a Kind is an internal error and its detail stays out of the
// response body.
func newErrorHandler(logger *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		message := "internal server error"

		var httpErr *echo.HTTPError
		var appErr *apperr.Error
		switch {
		case errors.As(err, &httpErr):
			status = httpErr.Code
			message = fmt.Sprintf("%v", httpErr.Message)
		case errors.As(err, &appErr):
			status = statusForKind(appErr.Kind)
			message = appErr.Message
		default:
			logger.Error("unhandled request error",
				zap.String("uri", c.Request().RequestURI),
				zap.Error(err),
			)
		}

		if status >= http.StatusInternalServerError {
			message = "internal server error"
		}

		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(status)
		} else {
			writeErr = c.JSON(status, map[string]string{"error": message})
		}
		if writeErr != nil {
			logger.Error("write error response", zap.Error(writeErr))
		}
	}
}

func statusForKind(kind apperr.Kind) int {
	switch kind {
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindInvalidState:
		return http.StatusUnprocessableEntity
	case apperr.KindLimitExceeded:
		return http.StatusConflict
	case apperr.KindExpired:
		return http.StatusGone
	default:
		return http.StatusInternalServerError
	}
}
