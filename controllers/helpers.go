package controllers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"hotel-ops/apperr"
	"hotel-ops/utils"
)

// parseID reads a positive numeric path parameter.
func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		utils.JSONError(c, apperr.InvalidArgument("invalid %s %q", name, c.Param(name)))
		return 0, false
	}
	return uint(id), true
}

// bindJSON binds the body into dst and writes a 400 on failure.
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		utils.JSONError(c, apperr.InvalidArgument("invalid request payload: %v", err))
		return false
	}
	return true
}

func parseBoolQuery(c *gin.Context, name string) (*bool, bool) {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		return nil, true
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		utils.JSONError(c, apperr.InvalidArgument("invalid %s %q", name, raw))
		return nil, false
	}
	return &v, true
}
