package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"hotel-ops/controllers"
	"hotel-ops/middleware"
)

type Controllers struct {
	Auth         *controllers.AuthController
	Users        *controllers.UserController
	Rooms        *controllers.RoomController
	Guests       *controllers.GuestController
	Reservations *controllers.ReservationController
	Bills        *controllers.BillController
}

func corsConfig(origins []string) cors.Config {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	allowCredentials := true
	for _, origin := range origins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}
	return cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}
}

// SetupRouter wires every controller behind the bearer-token middleware,
// leaving /login, /health and /metrics open.
func SetupRouter(ctl Controllers, resolver middleware.TokenResolver, corsOrigins []string, log zerolog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.Logger(log))
	r.Use(cors.New(corsConfig(corsOrigins)))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.POST("/login", ctl.Auth.Login)

	api := r.Group("")
	api.Use(middleware.RequireAuth(resolver))
	{
		api.POST("/logout", ctl.Auth.Logout)

		users := api.Group("/users")
		{
			users.GET("", ctl.Users.ListUsers)
			users.POST("", ctl.Users.CreateUser)
			// must be registered before /:id
			users.GET("/me", ctl.Users.Me)
			users.GET("/:id", ctl.Users.GetUser)
			users.DELETE("/:id", ctl.Users.DeleteUser)
		}

		rooms := api.Group("/rooms")
		{
			rooms.GET("", ctl.Rooms.ListRooms)
			rooms.POST("", ctl.Rooms.CreateRoom)
			rooms.GET("/by-number/:number", ctl.Rooms.GetRoomByNumber)
			rooms.GET("/:id", ctl.Rooms.GetRoom)
			rooms.PATCH("/:id", ctl.Rooms.UpdateRoom)
			rooms.PUT("/:id", ctl.Rooms.UpdateRoom)
			rooms.PATCH("/:id/status", ctl.Rooms.SetRoomStatus)
			rooms.POST("/:id/restore", ctl.Rooms.RestoreRoom)
			rooms.DELETE("/:id", ctl.Rooms.DeleteRoom)
		}

		guests := api.Group("/guests")
		{
			guests.GET("", ctl.Guests.GetGuests)
			guests.POST("", ctl.Guests.CreateGuest)
			guests.GET("/:id", ctl.Guests.GetGuestByID)
			guests.DELETE("/:id", ctl.Guests.DeleteGuest)
		}

		reservations := api.Group("/reservations")
		{
			reservations.GET("", ctl.Reservations.ListReservations)
			reservations.POST("", ctl.Reservations.CreateReservation)
			reservations.GET("/:id", ctl.Reservations.GetReservation)
			reservations.PATCH("/:id/status", ctl.Reservations.UpdateReservationStatus)
			reservations.GET("/:id/bill", ctl.Reservations.GetReservationBill)
		}

		bills := api.Group("/bills")
		{
			bills.GET("", ctl.Bills.ListBills)
			bills.POST("", ctl.Bills.CreateBill)
			bills.GET("/:id", ctl.Bills.GetBill)
			bills.POST("/:id/pay", ctl.Bills.PayBill)
		}
	}

	return r
}
