package app

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nekogravitycat/noq-backend/internal/api"
	"github.com/nekogravitycat/noq-backend/internal/auth"
	"github.com/nekogravitycat/noq-backend/internal/availability"
	"github.com/nekogravitycat/noq-backend/internal/booking"
	"github.com/nekogravitycat/noq-backend/internal/client"
	"github.com/nekogravitycat/noq-backend/internal/db"
	"github.com/nekogravitycat/noq-backend/internal/host"
	"github.com/nekogravitycat/noq-backend/internal/jobs"
	"github.com/nekogravitycat/noq-backend/internal/pkg/clock"
	"github.com/nekogravitycat/noq-backend/internal/product"
	"github.com/nekogravitycat/noq-backend/internal/region"
	"github.com/nekogravitycat/noq-backend/internal/scheduler"
	"github.com/nekogravitycat/noq-backend/internal/user"
)

// Config holds the dependencies and settings required to start the application.
type Config struct {
	IsProduction bool
	ProdOrigins  string
	DBPool       *pgxpool.Pool
	JWTSecret    string
	JWTTTL       time.Duration
	BcryptCost   int

	Location             *time.Location
	BookingTxRetries     int
	ReconcileSchedule    string
	ReconcileHorizonDays int
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router     *gin.Engine
	JWTManager *auth.JWTManager
	Scheduler  *scheduler.Scheduler
	Reconciler *jobs.Reconciler
}

// NewContainer initializes all modules and returns the container.
func NewContainer(cfg Config) (*Container, error) {
	// Init Components
	passwordHasher := auth.NewBcryptPasswordHasher(cfg.BcryptCost)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)
	txManager := db.NewTxManager(cfg.DBPool, cfg.BookingTxRetries)
	clk := clock.NewSystem(cfg.Location)

	// User Module
	userRepo := user.NewPgxRepository(cfg.DBPool)
	userService := user.NewService(userRepo, passwordHasher)

	// Region Module
	regionRepo := region.NewPgxRepository(cfg.DBPool)
	regionService := region.NewService(regionRepo)

	// Host Module
	hostRepo := host.NewPgxRepository(cfg.DBPool)
	hostService := host.NewService(hostRepo, regionService, userService)

	// Client Module
	clientRepo := client.NewPgxRepository(cfg.DBPool)
	clientService := client.NewService(clientRepo, regionService)

	// Availability projection
	productRepo := product.NewPgxRepository(cfg.DBPool)
	availabilityRepo := availability.NewPgxRepository(cfg.DBPool)
	projector := availability.NewProjector(availabilityRepo)

	// Booking Module
	bookingRepo := booking.NewPgxRepository(cfg.DBPool)
	bookingService := booking.NewService(txManager, bookingRepo, productRepo, clientService, projector, clk)

	// Reconcile job, also run after a product's capacity changes
	reconciler := jobs.NewReconciler(productRepo, bookingService, clk, cfg.ReconcileHorizonDays)

	// Product Module
	productService := product.NewService(productRepo, hostService, reconciler)
	availabilityService := availability.NewService(availabilityRepo, productService)

	sched, err := scheduler.New(cfg.Location, scheduler.Job{
		Name: "ReconcileAvailability",
		Spec: cfg.ReconcileSchedule,
		Run:  reconciler.ReconcileAvailability,
	})
	if err != nil {
		return nil, fmt.Errorf("init scheduler: %w", err)
	}

	// API Router Config
	routerParams := api.Config{
		IsProduction:        cfg.IsProduction,
		ProdOrigins:         cfg.ProdOrigins,
		UserService:         userService,
		RegionService:       regionService,
		HostService:         hostService,
		ProductService:      productService,
		ClientService:       clientService,
		AvailabilityService: availabilityService,
		BookingService:      bookingService,
		JWTManager:          jwtManager,
	}

	// Router
	router := api.NewRouter(routerParams)

	return &Container{
		Router:     router,
		JWTManager: jwtManager,
		Scheduler:  sched,
		Reconciler: reconciler,
	}, nil
}
