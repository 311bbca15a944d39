package server

import (
	handler "hidden-market/services/market/handler"

	"github.com/gin-gonic/gin"
)

// SetupRouter configures all Gin routes for the application. objectDir is
// served under objectURL so uploaded images resolve.
func SetupRouter(marketHandler *handler.MarketHandler, sessions SessionRestorer, objectDir, objectURL string) *gin.Engine {
	router := gin.New() // New router without default middleware for full control over middleware and logging

	router.Use(gin.Recovery())          // recover from panics
	router.Use(RequestLoggerMiddleware) // custom request logging

	if objectDir != "" && objectURL != "" {
		router.Static(objectURL, objectDir)
	}

	router.POST("/session/login", marketHandler.LoginHandler)
	router.GET("/categories", marketHandler.CategoriesHandler)

	auth := router.Group("", SessionMiddleware(sessions))

	sess := auth.Group("/session")
	{
		sess.GET("", marketHandler.SessionInfoHandler)
		sess.POST("/logout", marketHandler.LogoutHandler)
		sess.PUT("/profile", marketHandler.SaveProfileHandler)
	}

	listings := auth.Group("/listings")
	{
		listings.GET("", marketHandler.ListListingsHandler)
		listings.POST("", marketHandler.CreateListingHandler)
		listings.GET("/:listing_id", marketHandler.GetListingHandler)
		listings.DELETE("/:listing_id", marketHandler.DeleteListingHandler)
		listings.POST("/:listing_id/bids", marketHandler.PlaceBidHandler)
		listings.POST("/:listing_id/buy-now", marketHandler.BuyNowHandler)
		listings.POST("/:listing_id/close", marketHandler.CloseEarlyHandler)
		listings.POST("/:listing_id/extend", marketHandler.ExtendHandler)
		listings.POST("/:listing_id/like", marketHandler.ToggleLikeHandler)
	}
	auth.DELETE("/detail", marketHandler.CloseDetailHandler)

	chats := auth.Group("/chats")
	{
		chats.GET("", marketHandler.ListChatsHandler)
		chats.POST("/messages", marketHandler.SendMessageHandler)
		chats.DELETE("/active", marketHandler.CloseChatHandler)
		chats.POST("/:partner_id", marketHandler.OpenChatHandler)
	}

	notifications := auth.Group("/notifications")
	{
		notifications.GET("", marketHandler.NotificationsHandler)
		notifications.DELETE("", marketHandler.ClearNotificationsHandler)
	}

	auth.GET("/me/stats", marketHandler.StatsHandler)
	auth.GET("/ws", marketHandler.LiveHandler)

	return router
}
