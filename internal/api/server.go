package api

import (
	"github.com/gin-gonic/gin"
	"github.com/vlasovdm/resell-tracker/internal/api/handlers"
	"github.com/vlasovdm/resell-tracker/internal/api/middleware"
	"github.com/vlasovdm/resell-tracker/internal/config"
	"github.com/vlasovdm/resell-tracker/internal/service"
)

type Server struct {
	router   *gin.Engine
	config   *config.Config
	services *service.Services
}

func NewServer(cfg *config.Config, services *service.Services) *Server {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	server := &Server{
		router:   router,
		config:   cfg,
		services: services,
	}

	server.setupRoutes()

	return server
}

func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

func (s *Server) setupRoutes() {
	s.router.Use(middleware.CORS())
	s.router.Use(middleware.RequestLogger())

	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := s.router.Group("/api/v1")

	authHandler := handlers.NewAuthHandler(s.services.Auth)
	itemHandler := handlers.NewItemHandler(s.services.Item)
	rentalHandler := handlers.NewRentalHandler(s.services.Rental)
	statsHandler := handlers.NewStatsHandler(s.services.Stats)

	// вход по telegram id (публичный)
	api.POST("/auth/telegram", authHandler.Login)

	protected := api.Group("")
	protected.Use(middleware.Auth(s.services.Auth))
	{
		// товары перекупа
		items := protected.Group("/items")
		{
			items.POST("", itemHandler.Create)
			items.GET("", itemHandler.List)
			items.POST("/sell", itemHandler.Sell)
			items.DELETE("/:id", itemHandler.Delete)
		}

		// автомобили и аренды
		cars := protected.Group("/cars")
		{
			cars.POST("", rentalHandler.CreateCar)
			cars.GET("", rentalHandler.ListCars)
			cars.DELETE("/:id", rentalHandler.DeleteCar)
		}

		rentals := protected.Group("/rentals")
		{
			rentals.POST("", rentalHandler.CreateRental)
			rentals.GET("/active", rentalHandler.ListActive)
			rentals.PUT("/:id", rentalHandler.UpdateRental)
		}

		// статистика
		stats := protected.Group("/stats")
		{
			stats.GET("/resell", statsHandler.GetResellSummary)
			stats.GET("/sales", statsHandler.GetSales)
			stats.GET("/rentals", statsHandler.GetRentalStats)
		}
	}
}
