package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"hotel-ops/apperr"
	"hotel-ops/middleware"
	"hotel-ops/models"
	"hotel-ops/services"
	"hotel-ops/utils"
)

type RoomController struct {
	RoomSvc *services.RoomService
}

func NewRoomController(svc *services.RoomService) *RoomController {
	return &RoomController{RoomSvc: svc}
}

type createRoomRequest struct {
	RoomNumber int             `json:"room_number" binding:"required"`
	RoomType   models.RoomType `json:"room_type" binding:"required"`
	Capacity   int             `json:"capacity" binding:"required"`
	Price      decimal.Decimal `json:"price"`
}

type updateRoomRequest struct {
	RoomNumber *int               `json:"room_number"`
	RoomType   *models.RoomType   `json:"room_type"`
	Capacity   *int               `json:"capacity"`
	Price      *decimal.Decimal   `json:"price"`
	Status     *models.RoomStatus `json:"status"`
}

type roomStatusRequest struct {
	Status models.RoomStatus `json:"status" binding:"required"`
}

// GET /rooms?status=&include_inactive=
func (rc *RoomController) ListRooms(c *gin.Context) {
	var filter services.RoomFilter
	if raw := c.Query("status"); raw != "" {
		status := models.RoomStatus(raw)
		if !status.Valid() {
			utils.JSONError(c, apperr.InvalidArgument("unknown room status %q", raw))
			return
		}
		filter.Status = &status
	}
	includeInactive, ok := parseBoolQuery(c, "include_inactive")
	if !ok {
		return
	}
	if includeInactive != nil {
		filter.IncludeInactive = *includeInactive
	}

	rooms, err := rc.RoomSvc.List(c.Request.Context(), middleware.CurrentUser(c), filter)
	if err != nil {
		utils.JSONError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, rooms)
}

func (rc *RoomController) CreateRoom(c *gin.Context) {
	var req createRoomRequest
	if !bindJSON(c, &req) {
		return
	}
	room, err := rc.RoomSvc.Create(c.Request.Context(), middleware.CurrentUser(c), services.CreateRoomInput{
		RoomNumber: req.RoomNumber,
		RoomType:   req.RoomType,
		Capacity:   req.Capacity,
		Price:      req.Price,
	})
	if err != nil {
		utils.JSONError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, room)
}

func (rc *RoomController) GetRoom(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	room, err := rc.RoomSvc.Get(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		utils.JSONError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, room)
}

// GET /rooms/by-number/:number
func (rc *RoomController) GetRoomByNumber(c *gin.Context) {
	number, err := strconv.Atoi(c.Param("number"))
	if err != nil || number <= 0 {
		utils.JSONError(c, apperr.InvalidArgument("invalid room number %q", c.Param("number")))
		return
	}
	room, err := rc.RoomSvc.GetByNumber(c.Request.Context(), middleware.CurrentUser(c), number)
	if err != nil {
		utils.JSONError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, room)
}

func (rc *RoomController) UpdateRoom(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req updateRoomRequest
	if !bindJSON(c, &req) {
		return
	}
	room, err := rc.RoomSvc.Update(c.Request.Context(), middleware.CurrentUser(c), id, services.UpdateRoomInput{
		RoomNumber: req.RoomNumber,
		RoomType:   req.RoomType,
		Capacity:   req.Capacity,
		Price:      req.Price,
		Status:     req.Status,
	})
	if err != nil {
		utils.JSONError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, room)
}

// PATCH /rooms/:id/status
func (rc *RoomController) SetRoomStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req roomStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	room, err := rc.RoomSvc.SetStatus(c.Request.Context(), middleware.CurrentUser(c), id, req.Status)
	if err != nil {
		utils.JSONError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, room)
}

// DELETE /rooms/:id marks the room inactive; the row is kept.
func (rc *RoomController) DeleteRoom(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	room, err := rc.RoomSvc.SoftDelete(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		utils.JSONError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, room)
}

func (rc *RoomController) RestoreRoom(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	room, err := rc.RoomSvc.Restore(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		utils.JSONError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, room)
}
