package handler

import (
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"time"

	"hidden-market/internal/clientstate"
	market "hidden-market/internal/marketService"
	"hidden-market/internal/marketerrors"
	model "hidden-market/internal/models"
	"hidden-market/internal/session"
	"hidden-market/services/market/helpers"
	"hidden-market/utils"

	"github.com/gin-gonic/gin"
)

//go:generate mockgen -destination=mock_handler.go -package=handler hidden-market/services/market/handler MarketServiceInterface,SessionManagerInterface

type MarketServiceInterface interface {
	CreateListing(ctx context.Context, c *clientstate.Client, in market.NewListing) (model.Listing, error)
	PlaceBid(ctx context.Context, c *clientstate.Client, listingID string, amount int64) (model.Bid, error)
	BuyNow(ctx context.Context, c *clientstate.Client, listingID string) (model.Listing, error)
	CloseEarly(ctx context.Context, c *clientstate.Client, listingID string) (market.CloseOutcome, error)
	ExtendEndTime(ctx context.Context, c *clientstate.Client, listingID string) (model.Listing, error)
	DeleteListing(ctx context.Context, c *clientstate.Client, listingID string) error
	SaveProfile(ctx context.Context, c *clientstate.Client, name string, avatar *market.Upload) (model.Session, error)
	OpenChat(ctx context.Context, c *clientstate.Client, partnerID string) ([]model.Message, error)
	SendMessage(ctx context.Context, c *clientstate.Client, content string) (model.Message, error)
}

type SessionManagerInterface interface {
	Login(ctx context.Context) (string, model.Session, error)
	Issue(sess model.Session) (string, error)
	Logout(sessionID string)
}

// LivePusher streams change and countdown frames over a websocket
type LivePusher interface {
	Serve(gc *gin.Context, sessionID string, client *clientstate.Client)
}

type MarketHandler struct {
	service  MarketServiceInterface
	sessions SessionManagerInterface
	live     LivePusher
}

func NewMarketHandler(service MarketServiceInterface, sessions SessionManagerInterface, live LivePusher) *MarketHandler {
	return &MarketHandler{service: service, sessions: sessions, live: live}
}

// mustClient fetches the session client the auth middleware attached
func mustClient(c *gin.Context, handlerName string) (*clientstate.Client, string, bool) {
	client, sid, ok := helpers.ClientFrom(c)
	if !ok {
		helpers.RespondError(c, handlerName, marketerrors.ErrUnauthenticated, nil)
		return nil, "", false
	}
	return client, sid, true
}

func setSessionCookie(c *gin.Context, token string) {
	// MaxAge 0 keeps the cookie for the browser session only
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(session.CookieName, token, 0, "/", "", false, true)
}

func openUpload(fh *multipart.FileHeader) (*market.Upload, func(), error) {
	f, err := fh.Open()
	if err != nil {
		return nil, nil, err
	}
	return &market.Upload{Filename: fh.Filename, Body: f}, func() { f.Close() }, nil
}

// LoginHandler handles POST /session/login
func (h *MarketHandler) LoginHandler(c *gin.Context) {
	token, sess, err := h.sessions.Login(c.Request.Context())
	if err != nil {
		helpers.RespondError(c, "LoginHandler", err, nil)
		return
	}

	setSessionCookie(c, token)
	utils.JSONResponse(c, http.StatusCreated, helpers.SessionResponse{Token: token, Session: sess}, "logged in")
	helpers.LogSuccess("LoginHandler", "session created", map[string]any{"user_id": sess.UserID})
}

// LogoutHandler handles POST /session/logout
func (h *MarketHandler) LogoutHandler(c *gin.Context) {
	client, sid, ok := mustClient(c, "LogoutHandler")
	if !ok {
		return
	}
	user := client.UserID()
	h.sessions.Logout(sid)

	c.SetCookie(session.CookieName, "", -1, "/", "", false, true)
	utils.JSONResponse(c, http.StatusOK, nil, "logged out")
	helpers.LogSuccess("LogoutHandler", "session closed", map[string]any{"user_id": user})
}

// SessionInfoHandler handles GET /session
func (h *MarketHandler) SessionInfoHandler(c *gin.Context) {
	client, _, ok := mustClient(c, "SessionInfoHandler")
	if !ok {
		return
	}
	utils.JSONResponse(c, http.StatusOK, helpers.SessionResponse{Session: client.Session()}, "session retrieved successfully")
}

// SaveProfileHandler handles PUT /session/profile
func (h *MarketHandler) SaveProfileHandler(c *gin.Context) {
	client, _, ok := mustClient(c, "SaveProfileHandler")
	if !ok {
		return
	}

	var avatar *market.Upload
	if fh, err := c.FormFile("avatar"); err == nil {
		up, closeFn, err := openUpload(fh)
		if err != nil {
			helpers.HandleBindError(c, "SaveProfileHandler", err)
			return
		}
		defer closeFn()
		avatar = up
	}

	sess, err := h.service.SaveProfile(c.Request.Context(), client, c.PostForm("name"), avatar)
	if err != nil {
		helpers.RespondError(c, "SaveProfileHandler", err, map[string]any{"user_id": client.UserID()})
		return
	}

	token, err := h.sessions.Issue(sess)
	if err != nil {
		helpers.RespondError(c, "SaveProfileHandler", err, map[string]any{"user_id": sess.UserID})
		return
	}
	setSessionCookie(c, token)

	utils.JSONResponse(c, http.StatusOK, helpers.SessionResponse{Token: token, Session: sess}, "프로필이 변경되었습니다.")
	helpers.LogSuccess("SaveProfileHandler", "profile saved", map[string]any{"user_id": sess.UserID})
}

// ListListingsHandler handles GET /listings
func (h *MarketHandler) ListListingsHandler(c *gin.Context) {
	client, _, ok := mustClient(c, "ListListingsHandler")
	if !ok {
		return
	}

	var q helpers.ListingQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		helpers.HandleBindError(c, "ListListingsHandler", err)
		return
	}
	view, err := parseViewQuery(q)
	if err != nil {
		helpers.RespondError(c, "ListListingsHandler", err, nil)
		return
	}

	now := client.Now()
	listings := client.View(view)
	out := make([]helpers.ListingResponse, 0, len(listings))
	for _, l := range listings {
		out = append(out, helpers.NewListingResponse(l, client.Liked(l.ID), now))
	}

	utils.JSONResponse(c, http.StatusOK, out, "listings retrieved successfully")
}

func parseViewQuery(q helpers.ListingQuery) (clientstate.ViewQuery, error) {
	tab, err := clientstate.ParseTab(q.Tab)
	if err != nil {
		return clientstate.ViewQuery{}, err
	}
	category, err := clientstate.ParseCategory(q.Category)
	if err != nil {
		return clientstate.ViewQuery{}, err
	}
	sortKey, err := clientstate.ParseSortKey(q.Sort)
	if err != nil {
		return clientstate.ViewQuery{}, err
	}
	return clientstate.ViewQuery{Tab: tab, Category: category, Search: q.Search, Sort: sortKey}, nil
}

// CategoriesHandler handles GET /categories
func (h *MarketHandler) CategoriesHandler(c *gin.Context) {
	utils.JSONResponse(c, http.StatusOK, clientstate.Categories, "categories retrieved successfully")
}

// CreateListingHandler handles POST /listings
func (h *MarketHandler) CreateListingHandler(c *gin.Context) {
	client, _, ok := mustClient(c, "CreateListingHandler")
	if !ok {
		return
	}

	var req helpers.CreateListingRequest
	if err := c.ShouldBind(&req); err != nil {
		helpers.HandleBindError(c, "CreateListingHandler", err)
		return
	}
	endTime, ok := helpers.ParseEndTime(req.EndTime, time.Local)
	if !ok {
		helpers.HandleBindError(c, "CreateListingHandler", fmt.Errorf("end_time %q is not a valid time", req.EndTime))
		return
	}

	in := market.NewListing{
		Title:       req.Title,
		Description: req.Description,
		StartPrice:  req.StartPrice,
		BidUnit:     req.BidUnit,
		BuyNowPrice: req.BuyNowPrice,
		Category:    clientstate.Category(req.Category),
		EndTime:     endTime,
	}
	if fh, err := c.FormFile("image"); err == nil {
		up, closeFn, err := openUpload(fh)
		if err != nil {
			helpers.HandleBindError(c, "CreateListingHandler", err)
			return
		}
		defer closeFn()
		in.Image = up
	}

	listing, err := h.service.CreateListing(c.Request.Context(), client, in)
	if err != nil {
		helpers.RespondError(c, "CreateListingHandler", err, map[string]any{"user_id": client.UserID(), "title": req.Title})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, helpers.NewListingResponse(listing, false, client.Now()), "물품이 등록되었습니다.")
	helpers.LogSuccess("CreateListingHandler", "listing created", map[string]any{
		"listing_id": listing.ID,
		"seller_id":  listing.SellerID,
	})
}

// GetListingHandler handles GET /listings/:listing_id and opens its detail
func (h *MarketHandler) GetListingHandler(c *gin.Context) {
	client, _, ok := mustClient(c, "GetListingHandler")
	if !ok {
		return
	}
	listingID := c.Param("listing_id")

	listing, err := client.OpenDetail(c.Request.Context(), listingID)
	if err != nil {
		helpers.RespondError(c, "GetListingHandler", err, map[string]any{"listing_id": listingID})
		return
	}
	_, bids := client.Ledger.Bids()

	resp := helpers.NewDetailResponse(listing, bids, client.UserID(), client.Liked(listingID), client.Now())
	utils.JSONResponse(c, http.StatusOK, resp, "listing retrieved successfully")
}

// CloseDetailHandler handles DELETE /detail
func (h *MarketHandler) CloseDetailHandler(c *gin.Context) {
	client, _, ok := mustClient(c, "CloseDetailHandler")
	if !ok {
		return
	}
	client.CloseDetail()
	utils.JSONResponse(c, http.StatusOK, nil, "detail closed")
}

// PlaceBidHandler handles POST /listings/:listing_id/bids
func (h *MarketHandler) PlaceBidHandler(c *gin.Context) {
	client, _, ok := mustClient(c, "PlaceBidHandler")
	if !ok {
		return
	}
	listingID := c.Param("listing_id")

	var req helpers.PlaceBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "PlaceBidHandler", err)
		return
	}

	bid, err := h.service.PlaceBid(c.Request.Context(), client, listingID, req.Amount)
	if err != nil {
		helpers.RespondError(c, "PlaceBidHandler", err, map[string]any{
			"listing_id": listingID,
			"user_id":    client.UserID(),
			"amount":     req.Amount,
		})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, bid, "입찰 성공! 🔥")
	helpers.LogSuccess("PlaceBidHandler", "bid recorded successfully", map[string]any{
		"bid_id":     bid.ID,
		"listing_id": bid.ListingID,
		"user_id":    bid.BidderID,
		"amount":     bid.Amount,
	})
}

// BuyNowHandler handles POST /listings/:listing_id/buy-now
func (h *MarketHandler) BuyNowHandler(c *gin.Context) {
	client, _, ok := mustClient(c, "BuyNowHandler")
	if !ok {
		return
	}
	listingID := c.Param("listing_id")

	listing, err := h.service.BuyNow(c.Request.Context(), client, listingID)
	if err != nil {
		helpers.RespondError(c, "BuyNowHandler", err, map[string]any{"listing_id": listingID, "user_id": client.UserID()})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.NewListingResponse(listing, client.Liked(listingID), client.Now()),
		"낙찰되었습니다! 판매자와 채팅을 통해 거래를 마무리해주세요. 🎉")
	helpers.LogSuccess("BuyNowHandler", "listing bought", map[string]any{
		"listing_id": listingID,
		"user_id":    client.UserID(),
		"price":      listing.CurrentPrice,
	})
}

// CloseEarlyHandler handles POST /listings/:listing_id/close
func (h *MarketHandler) CloseEarlyHandler(c *gin.Context) {
	client, _, ok := mustClient(c, "CloseEarlyHandler")
	if !ok {
		return
	}
	listingID := c.Param("listing_id")

	outcome, err := h.service.CloseEarly(c.Request.Context(), client, listingID)
	if err != nil {
		helpers.RespondError(c, "CloseEarlyHandler", err, map[string]any{"listing_id": listingID, "user_id": client.UserID()})
		return
	}

	message := "종료되었습니다. 입찰자가 없어 유찰 처리됩니다."
	if outcome.HadWinner {
		message = "판매가 완료되었습니다! 최고가 입찰자에게 낙찰되었습니다."
	}
	utils.JSONResponse(c, http.StatusOK, outcome, message)
	helpers.LogSuccess("CloseEarlyHandler", "listing closed early", map[string]any{
		"listing_id": listingID,
		"had_winner": outcome.HadWinner,
	})
}

// ExtendHandler handles POST /listings/:listing_id/extend
func (h *MarketHandler) ExtendHandler(c *gin.Context) {
	client, _, ok := mustClient(c, "ExtendHandler")
	if !ok {
		return
	}
	listingID := c.Param("listing_id")

	listing, err := h.service.ExtendEndTime(c.Request.Context(), client, listingID)
	if err != nil {
		helpers.RespondError(c, "ExtendHandler", err, map[string]any{"listing_id": listingID})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.NewListingResponse(listing, client.Liked(listingID), client.Now()), "1시간 연장되었습니다.")
	helpers.LogSuccess("ExtendHandler", "listing extended", map[string]any{
		"listing_id": listingID,
		"end_time":   listing.EndTime.Format(time.RFC3339),
	})
}

// DeleteListingHandler handles DELETE /listings/:listing_id
func (h *MarketHandler) DeleteListingHandler(c *gin.Context) {
	client, _, ok := mustClient(c, "DeleteListingHandler")
	if !ok {
		return
	}
	listingID := c.Param("listing_id")

	if err := h.service.DeleteListing(c.Request.Context(), client, listingID); err != nil {
		helpers.RespondError(c, "DeleteListingHandler", err, map[string]any{"listing_id": listingID})
		return
	}

	utils.JSONResponse(c, http.StatusOK, nil, "판매가 취소되었습니다.")
	helpers.LogSuccess("DeleteListingHandler", "listing deleted", map[string]any{"listing_id": listingID})
}

// ToggleLikeHandler handles POST /listings/:listing_id/like
func (h *MarketHandler) ToggleLikeHandler(c *gin.Context) {
	client, _, ok := mustClient(c, "ToggleLikeHandler")
	if !ok {
		return
	}
	liked := client.ToggleLike(c.Param("listing_id"))
	utils.JSONResponse(c, http.StatusOK, gin.H{"liked": liked}, "like toggled")
}

// ListChatsHandler handles GET /chats
func (h *MarketHandler) ListChatsHandler(c *gin.Context) {
	client, _, ok := mustClient(c, "ListChatsHandler")
	if !ok {
		return
	}
	partners := client.Chat.Partners()
	if partners == nil {
		partners = []string{}
	}
	utils.JSONResponse(c, http.StatusOK, gin.H{"partners": partners, "active": client.Chat.Active()}, "chats retrieved successfully")
}

// OpenChatHandler handles POST /chats/:partner_id
func (h *MarketHandler) OpenChatHandler(c *gin.Context) {
	client, _, ok := mustClient(c, "OpenChatHandler")
	if !ok {
		return
	}
	partnerID := c.Param("partner_id")

	msgs, err := h.service.OpenChat(c.Request.Context(), client, partnerID)
	if err != nil {
		helpers.RespondError(c, "OpenChatHandler", err, map[string]any{"partner_id": partnerID})
		return
	}
	if msgs == nil {
		msgs = []model.Message{}
	}
	utils.JSONResponse(c, http.StatusOK, helpers.ChatResponse{Partner: partnerID, Messages: msgs}, "conversation opened")
}

// SendMessageHandler handles POST /chats/messages
func (h *MarketHandler) SendMessageHandler(c *gin.Context) {
	client, _, ok := mustClient(c, "SendMessageHandler")
	if !ok {
		return
	}

	var req helpers.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "SendMessageHandler", err)
		return
	}

	msg, err := h.service.SendMessage(c.Request.Context(), client, req.Content)
	if err != nil {
		helpers.RespondError(c, "SendMessageHandler", err, map[string]any{"user_id": client.UserID()})
		return
	}
	utils.JSONResponse(c, http.StatusCreated, msg, "message sent")
}

// CloseChatHandler handles DELETE /chats/active
func (h *MarketHandler) CloseChatHandler(c *gin.Context) {
	client, _, ok := mustClient(c, "CloseChatHandler")
	if !ok {
		return
	}
	client.Chat.Close()
	utils.JSONResponse(c, http.StatusOK, nil, "conversation closed")
}

// NotificationsHandler handles GET /notifications
func (h *MarketHandler) NotificationsHandler(c *gin.Context) {
	client, _, ok := mustClient(c, "NotificationsHandler")
	if !ok {
		return
	}
	items := client.Notifications.List()
	if items == nil {
		items = []string{}
	}
	utils.JSONResponse(c, http.StatusOK, items, "notifications retrieved successfully")
}

// ClearNotificationsHandler handles DELETE /notifications
func (h *MarketHandler) ClearNotificationsHandler(c *gin.Context) {
	client, _, ok := mustClient(c, "ClearNotificationsHandler")
	if !ok {
		return
	}
	client.Notifications.Clear()
	utils.JSONResponse(c, http.StatusOK, nil, "notifications cleared")
}

// StatsHandler handles GET /me/stats
func (h *MarketHandler) StatsHandler(c *gin.Context) {
	client, _, ok := mustClient(c, "StatsHandler")
	if !ok {
		return
	}
	utils.JSONResponse(c, http.StatusOK, client.Stats(), "stats retrieved successfully")
}

// LiveHandler handles GET /ws
func (h *MarketHandler) LiveHandler(c *gin.Context) {
	client, sid, ok := mustClient(c, "LiveHandler")
	if !ok {
		return
	}
	h.live.Serve(c, sid, client)
}
