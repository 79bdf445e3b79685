package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hotel-ops/middleware"
	"hotel-ops/services"
	"hotel-ops/utils"
)

type GuestController struct {
	GuestSvc *services.GuestService
}

func NewGuestController(svc *services.GuestService) *GuestController {
	return &GuestController{GuestSvc: svc}
}

type createGuestRequest struct {
	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone"`
	Email string `json:"email" binding:"required"`
}

func (gc *GuestController) GetGuests(c *gin.Context) {
	guests, err := gc.GuestSvc.List(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		utils.JSONError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, guests)
}

func (gc *GuestController) GetGuestByID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	guest, err := gc.GuestSvc.Get(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		utils.JSONError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, guest)
}

func (gc *GuestController) CreateGuest(c *gin.Context) {
	var req createGuestRequest
	if !bindJSON(c, &req) {
		return
	}
	guest, err := gc.GuestSvc.Create(c.Request.Context(), middleware.CurrentUser(c), services.CreateGuestInput{
		Name:  req.Name,
		Phone: req.Phone,
		Email: req.Email,
	})
	if err != nil {
		utils.JSONError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, guest)
}

// DELETE /guests/:id also removes the guest's reservations and bills.
func (gc *GuestController) DeleteGuest(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := gc.GuestSvc.Delete(c.Request.Context(), middleware.CurrentUser(c), id); err != nil {
		utils.JSONError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"deleted": id})
}
