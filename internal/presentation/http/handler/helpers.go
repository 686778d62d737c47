package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/imranmdl/tile-granite-management-sub002/internal/domain/enum"
	"github.com/imranmdl/tile-granite-management-sub002/internal/presentation/http/dto/response"
	"github.com/imranmdl/tile-granite-management-sub002/internal/presentation/http/middleware"
)

const dateLayout = "2006-01-02"

// GetUserID extracts the authenticated user ID from the Gin context
func GetUserID(c *gin.Context) *int64 {
	userIDVal, exists := c.Get(middleware.ContextUserID)
	if !exists {
		return nil
	}
	userID, ok := userIDVal.(int64)
	if !ok {
		return nil
	}
	return &userID
}

// GetUserRoles extracts the user roles from the Gin context
func GetUserRoles(c *gin.Context) []string {
	roles, exists := c.Get(middleware.ContextRoles)
	if !exists {
		return nil
	}
	list, _ := roles.([]string)
	return list
}

// IsAdmin checks if the user has the admin role
func IsAdmin(c *gin.Context) bool {
	for _, role := range GetUserRoles(c) {
		if role == middleware.RoleAdmin {
			return true
		}
	}
	return false
}

// pathID parses a positive integer path parameter. It writes a 400 and
// returns false when the value is malformed.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, "Invalid "+name)
		return 0, false
	}
	return id, true
}

// optionalDate parses a YYYY-MM-DD value. Empty input yields nil.
func optionalDate(c *gin.Context, field, value string) (*time.Time, bool) {
	if value == "" {
		return nil, true
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		response.BadRequest(c, field+" must be YYYY-MM-DD")
		return nil, false
	}
	return &t, true
}

// costModeQuery reads mode=simple|detailed. A missing mode yields nil so the
// configured mode applies.
func costModeQuery(c *gin.Context) (*enum.CostMode, bool) {
	switch v := c.Query("mode"); v {
	case "":
		return nil, true
	case "simple", "detailed":
		m := enum.ParseCostMode(v)
		return &m, true
	default:
		response.BadRequest(c, "mode must be simple or detailed")
		return nil, false
	}
}
