package api

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/noq-backend/internal/auth"
	"github.com/nekogravitycat/noq-backend/internal/availability"
	availabilityHttp "github.com/nekogravitycat/noq-backend/internal/availability/http"
	"github.com/nekogravitycat/noq-backend/internal/booking"
	bookingHttp "github.com/nekogravitycat/noq-backend/internal/booking/http"
	"github.com/nekogravitycat/noq-backend/internal/client"
	clientHttp "github.com/nekogravitycat/noq-backend/internal/client/http"
	"github.com/nekogravitycat/noq-backend/internal/host"
	hostHttp "github.com/nekogravitycat/noq-backend/internal/host/http"
	"github.com/nekogravitycat/noq-backend/internal/product"
	productHttp "github.com/nekogravitycat/noq-backend/internal/product/http"
	"github.com/nekogravitycat/noq-backend/internal/region"
	regionHttp "github.com/nekogravitycat/noq-backend/internal/region/http"
	"github.com/nekogravitycat/noq-backend/internal/user"
	userHttp "github.com/nekogravitycat/noq-backend/internal/user/http"
)

// Config holds the services the router wires into handlers.
type Config struct {
	IsProduction bool
	ProdOrigins  string

	UserService         user.Service
	RegionService       region.Service
	HostService         host.Service
	ProductService      product.Service
	ClientService       client.Service
	AvailabilityService availability.Service
	BookingService      booking.Service
	JWTManager          *auth.JWTManager
}

// NewRouter initializes the HTTP router engine.
// It is responsible for assembling middleware (CORS, Logger, Auth) and registering routes for various modules.
func NewRouter(cfg Config) *gin.Engine {
	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global Middleware:
	// - Logger: Logs request information to the console.
	// - Recovery: Captures panics to prevent server crashes and returns a 500 error.
	r.Use(gin.Logger(), gin.Recovery())

	// Configure CORS (Cross-Origin Resource Sharing).
	// Without configured origins only same-origin requests are served.
	if origins := allowedOrigins(cfg.IsProduction, cfg.ProdOrigins); len(origins) > 0 {
		corsConfig := cors.DefaultConfig()
		corsConfig.AllowOrigins = origins
		corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
		corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
		r.Use(cors.New(corsConfig))
	}

	// authMiddleware: Validates if the request contains a valid JWT.
	authMiddleware := auth.AuthRequired(cfg.JWTManager)
	// adminMiddleware: Further checks that the authenticated user is an admin.
	adminMiddleware := RequireRole(cfg.UserService, user.RoleAdmin)
	// activeMiddleware: Any active account; the role is reloaded for permission checks in handlers.
	activeMiddleware := RequireRole(cfg.UserService, user.Roles...)
	// staffMiddleware: Users who register and look after clients.
	staffMiddleware := RequireRole(cfg.UserService, user.RoleAdmin, user.RoleCaseworker, user.RoleVolunteer)
	// caseworkerMiddleware: Users who may remove client records.
	caseworkerMiddleware := RequireRole(cfg.UserService, user.RoleAdmin, user.RoleCaseworker)

	// Initialize HTTP Handlers for each module (injecting Service dependencies).
	userHandler := userHttp.NewHandler(cfg.UserService, cfg.JWTManager)
	regionHandler := regionHttp.NewHandler(cfg.RegionService)
	hostHandler := hostHttp.NewHandler(cfg.HostService)
	productHandler := productHttp.NewHandler(cfg.ProductService, cfg.HostService)
	clientHandler := clientHttp.NewHandler(cfg.ClientService)
	availabilityHandler := availabilityHttp.NewHandler(cfg.AvailabilityService, cfg.BookingService)
	bookingHandler := bookingHttp.NewHandler(cfg.BookingService, cfg.HostService, cfg.ProductService)

	// Register API routes under /v1
	v1 := r.Group("/v1")
	{
		userHttp.RegisterRoutes(v1, userHandler, authMiddleware, adminMiddleware)
		regionHttp.RegisterRoutes(v1, regionHandler, authMiddleware, adminMiddleware)
		hostHttp.RegisterRoutes(v1, hostHandler, authMiddleware, adminMiddleware)
		productHttp.RegisterRoutes(v1, productHandler, authMiddleware, activeMiddleware)
		availabilityHttp.RegisterRoutes(v1, availabilityHandler, authMiddleware, activeMiddleware)
		clientHttp.RegisterRoutes(v1, clientHandler, authMiddleware, staffMiddleware, caseworkerMiddleware)
		bookingHttp.RegisterRoutes(v1, bookingHandler, authMiddleware, activeMiddleware)
	}

	return r
}

func allowedOrigins(isProduction bool, prodOrigins string) []string {
	if !isProduction {
		return []string{
			"http://localhost:3000",
			"http://localhost:8081", // Swagger
		}
	}

	var origins []string
	for _, o := range strings.Split(prodOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
