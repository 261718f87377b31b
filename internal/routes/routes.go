package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/ourmemory/ourmemory-backend/internal/handler"
	"github.com/ourmemory/ourmemory-backend/internal/middleware"
	"github.com/ourmemory/ourmemory-backend/pkg/jwt"
)

// Handlers groups every API handler mounted under /api/v1
type Handlers struct {
	User   *handler.UserHandler
	Room   *handler.RoomHandler
	Memory *handler.MemoryHandler
	Friend *handler.FriendHandler
	Todo   *handler.TodoHandler
	Notice *handler.NoticeHandler
	Fcm    *handler.FcmHandler
	WS     *handler.WSHandler
}

// Setup configures all API routes. rateLimiter may be nil.
func Setup(router *gin.Engine, h *Handlers, jwtManager *jwt.Manager, rateLimiter *middleware.RateLimiter) {
	api := router.Group("/api/v1")

	// 인증 불필요
	users := api.Group("/users")
	users.POST("/signup", h.User.SignUp)
	users.POST("/signin", h.User.SignIn)
	users.POST("/refresh", h.User.Refresh)

	authed := []gin.HandlerFunc{middleware.JWTAuth(jwtManager)}
	if rateLimiter != nil {
		authed = append(authed, rateLimiter.Middleware())
	}

	// Users
	me := api.Group("/users", authed...)
	me.GET("", h.User.SearchUsers)
	me.GET("/me", h.User.GetMe)
	me.PATCH("/me", h.User.UpdateMe)
	me.DELETE("/me", h.User.DeleteMe)
	me.PATCH("/me/push-token", h.User.UpdatePushToken)
	me.PUT("/me/profile-image", h.User.UploadProfileImage)
	me.GET("/:user_id", h.User.GetUser)

	// Rooms
	rooms := api.Group("/rooms", authed...)
	rooms.POST("", h.Room.CreateRoom)
	rooms.GET("", h.Room.GetRooms)
	rooms.GET("/:room_id", h.Room.GetRoom)
	rooms.PATCH("/:room_id", h.Room.UpdateRoom)
	rooms.DELETE("/:room_id", h.Room.DeleteRoom)
	rooms.POST("/:room_id/members", h.Room.AddMembers)
	rooms.DELETE("/:room_id/members/me", h.Room.ExitRoom)
	rooms.PATCH("/:room_id/owner", h.Room.TransferOwner)

	// Memories
	memories := api.Group("/memories", authed...)
	memories.POST("", h.Memory.CreateMemory)
	memories.GET("", h.Memory.GetMemories)
	memories.GET("/search", h.Memory.SearchMemories)
	memories.GET("/:memory_id", h.Memory.GetMemory)
	memories.PUT("/:memory_id", h.Memory.UpdateMemory)
	memories.DELETE("/:memory_id", h.Memory.DeleteMemory)
	memories.POST("/:memory_id/share", h.Memory.ShareMemory)

	// Friends
	friends := api.Group("/friends", authed...)
	friends.GET("", h.Friend.GetFriends)
	friends.POST("/:user_id", h.Friend.RequestFriend)
	friends.POST("/:user_id/accept", h.Friend.AcceptFriend)
	friends.POST("/:user_id/readd", h.Friend.ReAddFriend)
	friends.PATCH("/:user_id/status", h.Friend.PatchFriendStatus)
	friends.DELETE("/:user_id/request", h.Friend.CancelFriend)
	friends.DELETE("/:user_id", h.Friend.DeleteFriend)

	// Todos
	todos := api.Group("/todos", authed...)
	todos.POST("", h.Todo.CreateTodo)
	todos.GET("", h.Todo.GetTodos)
	todos.PATCH("/:todo_id", h.Todo.UpdateTodo)
	todos.DELETE("/:todo_id", h.Todo.DeleteTodo)

	// Notices
	notices := api.Group("/notices", authed...)
	notices.GET("", h.Notice.GetNotices)
	notices.DELETE("", h.Notice.DeleteNotices)
	notices.DELETE("/:notice_id", h.Notice.DeleteNotice)

	// FCM
	api.POST("/fcm/send", append(authed, h.Fcm.Send)...)

	// WebSocket (실시간 알림), 토큰은 ?token= 으로도 전달 가능
	if h.WS != nil {
		api.GET("/ws/notices", middleware.JWTAuth(jwtManager), h.WS.Connect)
	}
}
