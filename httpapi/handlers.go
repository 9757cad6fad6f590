// Package httpapi exposes the non-realtime lookup surface: room creation and
// room info over plain JSON, mapping 1:1 onto the core operations.
package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/UsmanDevCraft/quick-doodle-backend/game"
)

type RoomHandler struct {
	service *game.Service
}

func NewRoomHandler(service *game.Service) *RoomHandler {
	return &RoomHandler{service: service}
}

func (h *RoomHandler) RegisterRoutes(r gin.IRouter) {
	rooms := r.Group("/api/rooms")
	rooms.POST("/createroom", h.CreateRoom)
	rooms.GET("/:roomId", h.GetRoomInfo)
}

type createRoomRequest struct {
	RoomID   string `json:"roomId" binding:"required"`
	Username string `json:"username" binding:"required"`
	Mode     string `json:"mode"`
}

func (h *RoomHandler) CreateRoom(ctx *gin.Context) {
	var req createRoomRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid request"})
		return
	}

	// No connection yet: the creator joins over the socket afterwards.
	info, err := h.service.CreateRoom(ctx.Request.Context(), req.RoomID, req.Username, game.RoomMode(req.Mode), nil)
	if err != nil {
		log.Error().Err(err).Str("room", req.RoomID).Msg("createRoom failed")
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error"})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"success": true, "data": info})
}

func (h *RoomHandler) GetRoomInfo(ctx *gin.Context) {
	roomID := ctx.Param("roomId")
	username := ctx.Query("username")

	details, ok := h.service.RoomDetails(ctx.Request.Context(), roomID, username)
	if !ok {
		ctx.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Room not found"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "data": details})
}
