package routes

import (
	"net/http"

	"munaybol/constants"
	"munaybol/controllers"
	_ "munaybol/docs"
	middlewares "munaybol/middleware"
	"munaybol/services"
	"munaybol/services/logger"
	"munaybol/services/notification"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Deps carries the services the HTTP layer is built on
type Deps struct {
	Logger        logger.Logger
	Tokens        *services.TokenService
	Auth          *services.AuthService
	Github        *services.GithubOAuth
	Users         *services.UserService
	Catalog       *services.CatalogService
	Availability  *services.AvailabilityService
	Reservations  *services.ReservationService
	Reviews       *services.ReviewService
	Payments      *services.PaymentService
	Uploads       *services.UploadService
	Chat          *services.ChatService
	Notifications *notification.Service
	Hub           *notification.Hub
}

func SetupRoutes(router *gin.Engine, d Deps) {
	router.Use(middlewares.RequestLogger(d.Logger), middlewares.ErrorHandler())

	authController := controllers.NewAuthController(d.Auth, d.Github)
	userController := controllers.NewUserController(d.Users)
	catalogController := controllers.NewCatalogController(d.Catalog)
	roomController := controllers.NewRoomController(d.Catalog, d.Availability)
	reservationController := controllers.NewReservationController(d.Reservations)
	reviewController := controllers.NewReviewController(d.Reviews)
	paymentController := controllers.NewPaymentController(d.Payments)
	uploadController := controllers.NewUploadController(d.Uploads)
	chatController := controllers.NewChatController(d.Chat)
	notificationController := controllers.NewNotificationController(d.Notifications, d.Hub, d.Tokens)

	auth := middlewares.AuthMiddleware(d.Tokens)
	optional := middlewares.OptionalAuthMiddleware(d.Tokens)
	superadmin := middlewares.AuthMiddleware(d.Tokens, constants.RoleSuperAdmin)

	router.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/ws/notifications/", notificationController.Subscribe)

	api := router.Group("/api")

	usuarios := api.Group("/usuarios")
	usuarios.POST("/registro/", authController.Register)
	usuarios.POST("/registro-superusuario/", optional, authController.RegisterSuperAdmin)
	usuarios.POST("/login/", authController.Login)
	usuarios.POST("/login/superadmin/", authController.LoginSuperAdmin)
	usuarios.GET("/me/", auth, userController.Me)
	usuarios.PATCH("/me/", auth, userController.UpdateMe)
	usuarios.GET("/", auth, userController.List)
	usuarios.GET("/:id/", auth, userController.Get)
	usuarios.PUT("/:id/", auth, userController.Update)
	usuarios.PATCH("/:id/", auth, userController.Update)
	usuarios.DELETE("/:id/", auth, userController.Disable)

	authGroup := api.Group("/auth")
	authGroup.POST("/token/refresh/", authController.Refresh)
	authGroup.POST("/google/", authController.Google)
	authGroup.GET("/github/login/", authController.GithubLogin)
	authGroup.GET("/github/callback/", authController.GithubCallback)

	hoteles := api.Group("/hoteles")
	hoteles.GET("/", optional, catalogController.ListHotels)
	hoteles.GET("/:id/", optional, catalogController.GetHotel)
	hoteles.POST("/", auth, catalogController.CreateHotel)
	hoteles.PUT("/:id/", auth, catalogController.UpdateHotel)
	hoteles.PATCH("/:id/", auth, catalogController.UpdateHotel)
	hoteles.DELETE("/:id/", auth, catalogController.DeleteHotel)

	lugares := api.Group("/lugares")
	lugares.GET("/", optional, catalogController.ListPlaces)
	lugares.GET("/:id/", optional, catalogController.GetPlace)
	lugares.POST("/", auth, catalogController.CreatePlace)
	lugares.PUT("/:id/", auth, catalogController.UpdatePlace)
	lugares.PATCH("/:id/", auth, catalogController.UpdatePlace)
	lugares.DELETE("/:id/", auth, catalogController.DeletePlace)

	paquetes := api.Group("/paquetes")
	paquetes.GET("/", optional, catalogController.ListPackages)
	paquetes.GET("/:id/", optional, catalogController.GetPackage)
	paquetes.POST("/", auth, catalogController.CreatePackage)
	paquetes.PUT("/:id/", auth, catalogController.UpdatePackage)
	paquetes.PATCH("/:id/", auth, catalogController.UpdatePackage)
	paquetes.DELETE("/:id/", auth, catalogController.DeletePackage)

	habitaciones := api.Group("/habitaciones")
	habitaciones.GET("/", optional, roomController.List)
	habitaciones.GET("/:num/", optional, roomController.Get)
	habitaciones.GET("/:num/disponibilidad/", optional, roomController.Availability)
	habitaciones.POST("/", auth, roomController.Create)
	habitaciones.PUT("/:num/", auth, roomController.Update)
	habitaciones.PATCH("/:num/", auth, roomController.Update)
	habitaciones.DELETE("/:num/", auth, roomController.Delete)

	reservas := api.Group("/reservas", auth)
	reservas.GET("/", reservationController.List)
	reservas.POST("/", reservationController.Create)
	reservas.GET("/:id/", reservationController.Get)
	reservas.PUT("/:id/", reservationController.Update)
	reservas.PATCH("/:id/", reservationController.Update)
	reservas.DELETE("/:id/", reservationController.Cancel)
	reservas.POST("/:id/cancelar/", reservationController.Cancel)
	reservas.POST("/:id/reactivar/", reservationController.Reactivate)

	resenas := api.Group("/resenas")
	resenas.GET("/", optional, reviewController.List)
	resenas.GET("/:id/", optional, reviewController.Get)
	resenas.POST("/", auth, reviewController.Create)
	resenas.PUT("/:id/", auth, reviewController.Update)
	resenas.PATCH("/:id/", auth, reviewController.Update)
	resenas.DELETE("/:id/", auth, reviewController.Delete)

	pagos := api.Group("/pagos", auth)
	pagos.GET("/", paymentController.List)
	pagos.POST("/", paymentController.Create)
	pagos.GET("/:id/", paymentController.Get)
	pagos.PUT("/:id/", paymentController.Update)
	pagos.PATCH("/:id/", paymentController.Update)
	pagos.DELETE("/:id/", paymentController.Delete)

	sugerencias := api.Group("/sugerencias", auth)
	sugerencias.GET("/", paymentController.ListSuggestions)
	sugerencias.POST("/", paymentController.CreateSuggestion)
	sugerencias.GET("/:id/", paymentController.GetSuggestion)
	sugerencias.DELETE("/:id/", paymentController.DeleteSuggestion)

	notifications := api.Group("/notifications", auth)
	notifications.GET("/", notificationController.List)
	notifications.POST("/mark-all-read/", notificationController.MarkAllRead)
	notifications.GET("/:id/", notificationController.Get)
	notifications.PATCH("/:id/", notificationController.SetRead)
	notifications.DELETE("/:id/", notificationController.Delete)

	api.POST("/uploads/imagen/", superadmin, uploadController.UploadImage)

	api.POST("/llm/generate/", optional, middlewares.SessionMiddleware(), chatController.Generate)

	chat := api.Group("/chat/sessions", optional, middlewares.SessionMiddleware())
	chat.GET("/", chatController.ListSessions)
	chat.POST("/", chatController.CreateSession)
	chat.GET("/:id/", chatController.GetSession)
	chat.PATCH("/:id/", chatController.UpdateSession)
	chat.DELETE("/:id/", chatController.DeleteSession)
	chat.GET("/:id/messages/", chatController.Messages)
	chat.POST("/:id/messages/", chatController.SendMessage)
}
