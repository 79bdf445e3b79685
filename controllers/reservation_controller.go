package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hotel-ops/apperr"
	"hotel-ops/middleware"
	"hotel-ops/models"
	"hotel-ops/services"
	"hotel-ops/utils"
)

type ReservationController struct {
	ReservationSvc *services.ReservationService
	BillingSvc     *services.BillingService
}

func NewReservationController(svc *services.ReservationService, billing *services.BillingService) *ReservationController {
	return &ReservationController{ReservationSvc: svc, BillingSvc: billing}
}

type createReservationRequest struct {
	RoomID     uint   `json:"room_id" binding:"required"`
	GuestID    uint   `json:"guest_id" binding:"required"`
	CheckIn    string `json:"check_in" binding:"required"`
	CheckOut   string `json:"check_out" binding:"required"`
	NoOfGuests int    `json:"no_of_guests"`
}

type reservationStatusRequest struct {
	Status models.ReservationStatus `json:"status" binding:"required"`
}

func (rc *ReservationController) CreateReservation(c *gin.Context) {
	var req createReservationRequest
	if !bindJSON(c, &req) {
		return
	}
	checkIn, err := utils.ParseDate(req.CheckIn)
	if err != nil {
		utils.JSONError(c, apperr.InvalidArgument("check_in: %v", err))
		return
	}
	checkOut, err := utils.ParseDate(req.CheckOut)
	if err != nil {
		utils.JSONError(c, apperr.InvalidArgument("check_out: %v", err))
		return
	}

	reservation, err := rc.ReservationSvc.Create(c.Request.Context(), middleware.CurrentUser(c), services.CreateReservationInput{
		RoomID:     req.RoomID,
		GuestID:    req.GuestID,
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		NoOfGuests: req.NoOfGuests,
	})
	if err != nil {
		utils.JSONError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, reservation)
}

// GET /reservations?status=
func (rc *ReservationController) ListReservations(c *gin.Context) {
	var filter services.ReservationFilter
	if raw := c.Query("status"); raw != "" {
		status := models.ReservationStatus(raw)
		filter.Status = &status
	}
	reservations, err := rc.ReservationSvc.List(c.Request.Context(), middleware.CurrentUser(c), filter)
	if err != nil {
		utils.JSONError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, reservations)
}

func (rc *ReservationController) GetReservation(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	reservation, err := rc.ReservationSvc.Get(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		utils.JSONError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, reservation)
}

// PATCH /reservations/:id/status
func (rc *ReservationController) UpdateReservationStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req reservationStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	reservation, err := rc.ReservationSvc.UpdateStatus(c.Request.Context(), middleware.CurrentUser(c), id, req.Status)
	if err != nil {
		utils.JSONError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, reservation)
}

// GET /reservations/:id/bill
func (rc *ReservationController) GetReservationBill(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	bill, err := rc.BillingSvc.GetByReservation(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		utils.JSONError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, bill)
}
