package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hotel-ops/middleware"
	"hotel-ops/services"
	"hotel-ops/utils"
)

type BillController struct {
	BillingSvc *services.BillingService
}

func NewBillController(svc *services.BillingService) *BillController {
	return &BillController{BillingSvc: svc}
}

type createBillRequest struct {
	ReservationID uint `json:"reservation_id" binding:"required"`
}

func (bc *BillController) CreateBill(c *gin.Context) {
	var req createBillRequest
	if !bindJSON(c, &req) {
		return
	}
	bill, err := bc.BillingSvc.CreateBill(c.Request.Context(), middleware.CurrentUser(c), req.ReservationID)
	if err != nil {
		utils.JSONError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, bill)
}

// GET /bills?paid=
func (bc *BillController) ListBills(c *gin.Context) {
	paid, ok := parseBoolQuery(c, "paid")
	if !ok {
		return
	}
	bills, err := bc.BillingSvc.List(c.Request.Context(), middleware.CurrentUser(c), services.BillFilter{Paid: paid})
	if err != nil {
		utils.JSONError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, bills)
}

func (bc *BillController) GetBill(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	bill, err := bc.BillingSvc.Get(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		utils.JSONError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, bill)
}

// POST /bills/:id/pay
func (bc *BillController) PayBill(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	bill, err := bc.BillingSvc.MarkPaid(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		utils.JSONError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, bill)
}
