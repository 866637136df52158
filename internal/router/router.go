package router

import (
	"github.com/gin-gonic/gin"

	"github.com/atlastours/atlas-backend/config"
	"github.com/atlastours/atlas-backend/internal/app/controller"
	"github.com/atlastours/atlas-backend/internal/middleware"
)

type Router struct {
	authController    *controller.AuthController
	tourController    *controller.TourController
	reviewController  *controller.ReviewController
	bookingController *controller.BookingController
	authMiddleware    *middleware.AuthMiddleware
	config            *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	tourController *controller.TourController,
	reviewController *controller.ReviewController,
	bookingController *controller.BookingController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:    authController,
		tourController:    tourController,
		reviewController:  reviewController,
		bookingController: bookingController,
		authMiddleware:    authMiddleware,
		config:            cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "Atlas Tours API is running",
		})
	})

	v1 := router.Group("/api/v1")
	{
		users := v1.Group("/users")
		{
			users.POST("/signup", r.authController.Signup)
			users.POST("/login", r.authController.Login)
			users.POST("/forgotPassword", r.authController.ForgotPassword)
			users.GET("/me", r.authMiddleware.Authenticate(), r.authController.GetMe)
			users.PATCH("/updateMyPassword", r.authMiddleware.Authenticate(), r.authController.UpdatePassword)
		}

		// The reset link mailed to the user points here
		v1.PATCH("/resetPassword/:token", r.authController.ResetPassword)

		tours := v1.Group("/tours")
		{
			tours.GET("", r.tourController.ListTours)
			tours.GET("/top-5-cheap", r.tourController.TopCheap)
			tours.GET("/stats", r.tourController.Stats)
			tours.GET("/monthly-plan/:year",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole("admin", "guide"),
				r.tourController.MonthlyPlan,
			)
			tours.GET("/:id", r.tourController.GetTour)

			tours.POST("",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole("admin"),
				r.tourController.CreateTour,
			)
			tours.PATCH("/:id",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole("admin"),
				r.tourController.UpdateTour,
			)
			tours.DELETE("/:id",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole("admin"),
				r.tourController.DeleteTour,
			)

			tours.GET("/:id/reviews", r.reviewController.ListByTour)
			tours.POST("/:id/reviews",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole("user"),
				r.reviewController.Create,
			)
		}

		reviews := v1.Group("/reviews")
		reviews.Use(r.authMiddleware.Authenticate())
		{
			reviews.PATCH("/:id", r.reviewController.Update)
			reviews.DELETE("/:id", r.reviewController.Delete)
		}

		bookings := v1.Group("/bookings")
		bookings.Use(r.authMiddleware.Authenticate())
		{
			bookings.POST("/checkout/card", r.bookingController.CheckoutCard)
			bookings.POST("/checkout/wallet", r.bookingController.CheckoutWallet)
			bookings.GET("/me", r.bookingController.ListMine)
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
