package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hotel-ops/middleware"
	"hotel-ops/services"
	"hotel-ops/utils"
)

type AuthController struct {
	AuthSvc *services.AuthService
}

func NewAuthController(svc *services.AuthService) *AuthController {
	return &AuthController{AuthSvc: svc}
}

type loginPayload struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// Login accepts JSON or form-encoded credentials and returns a bearer token
// as {access_token, token_type}.
func (ac *AuthController) Login(c *gin.Context) {
	var payload loginPayload
	if err := c.ShouldBind(&payload); err != nil {
		payload = loginPayload{}
	}
	token, err := ac.AuthSvc.Authenticate(c.Request.Context(), payload.Username, payload.Password)
	if err != nil {
		c.Header("WWW-Authenticate", "Bearer")
		utils.JSONError(c, err)
		return
	}
	c.JSON(http.StatusOK, token)
}

func (ac *AuthController) Logout(c *gin.Context) {
	if err := ac.AuthSvc.Logout(c.Request.Context(), middleware.CurrentClaims(c)); err != nil {
		utils.JSONError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"logged_out": true})
}
