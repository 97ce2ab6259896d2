package app

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"weddingmarket/internal/lock"
	"weddingmarket/internal/middleware"
	"weddingmarket/internal/modules/booking"
	"weddingmarket/internal/modules/catalog"
	"weddingmarket/internal/modules/invitation"
	"weddingmarket/internal/modules/jobs"
	"weddingmarket/internal/modules/order"
	"weddingmarket/internal/modules/payment"
	"weddingmarket/internal/notification"
	jwtsvc "weddingmarket/internal/pkg/jwt"
	"weddingmarket/internal/repository"
)

// Deps are the process-wide collaborators the HTTP surface is built from.
type Deps struct {
	DB          *gorm.DB
	Gateway     payment.Gateway
	Locker      lock.Locker
	Publisher   notification.Publisher
	Tokens      *jwtsvc.Service
	Currency    string
	CORSOrigins []string
	FrontendURL string
	Logger      *zap.Logger
}

// NewRouter wires repositories, services and handlers and mounts every route
// under /api.
func NewRouter(d Deps) *gin.Engine {
	log := d.Logger
	if log == nil {
		log = zap.NewNop()
	}
	db := d.DB

	userRepo := repository.NewUserRepository(db)
	templateRepo := repository.NewTemplateRepository(db)
	packageRepo := repository.NewPackageRepository(db)
	inquiryRepo := repository.NewInquiryRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	staffRepo := repository.NewStaffRepository(db)
	jobRepo := repository.NewJobRepository(db)
	webhookRepo := repository.NewWebhookEventRepository(db)
	invitationRepo := repository.NewInvitationRepository(db)

	paymentHandler := payment.NewHandler(payment.NewService(payment.Dependencies{
		DB:        db,
		Orders:    orderRepo,
		Inquiries: inquiryRepo,
		Templates: templateRepo,
		Packages:  packageRepo,
		Users:     userRepo,
		Events:    webhookRepo,
		Gateway:   d.Gateway,
		Locker:    d.Locker,
		Publisher: d.Publisher,
		Currency:  d.Currency,
		Logger:    log,
	}))
	bookingHandler := booking.NewHandler(booking.NewService(db, inquiryRepo, packageRepo, staffRepo, jobRepo, d.Publisher, log))
	catalogHandler := catalog.NewHandler(catalog.NewService(templateRepo, packageRepo, log))
	orderHandler := order.NewHandler(order.NewService(orderRepo, templateRepo, packageRepo, log))
	jobsHandler := jobs.NewHandler(jobs.NewService(jobRepo, userRepo, log))
	invitationHandler := invitation.NewHandler(invitation.NewService(orderRepo, templateRepo, invitationRepo, d.Publisher, d.FrontendURL, log))

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.ErrorLogger(log), middleware.CORS(d.CORSOrigins))
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		// public
		paymentHandler.RegisterWebhookRoutes(api)
		bookingHandler.RegisterPublicRoutes(api)
		catalogHandler.RegisterPublicRoutes(api)
		jobsHandler.RegisterPublicRoutes(api)
		invitationHandler.RegisterPublicRoutes(api)

		protected := api.Group("")
		protected.Use(middleware.JWTAuth(d.Tokens))
		{
			paymentHandler.RegisterProtectedRoutes(protected)
			orderHandler.RegisterProtectedRoutes(protected)
			jobsHandler.RegisterProtectedRoutes(protected)
			invitationHandler.RegisterProtectedRoutes(protected)
		}

		admin := api.Group("/admin")
		admin.Use(middleware.JWTAuth(d.Tokens), middleware.AdminOnly())
		{
			bookingHandler.RegisterAdminRoutes(admin)
			catalogHandler.RegisterAdminRoutes(admin)
			jobsHandler.RegisterAdminRoutes(admin)
		}
	}
	return r
}
