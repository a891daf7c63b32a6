package admin

import (
	handlershared "github.com/funfair-next/internal/http/handlers/shared"

	"github.com/gin-gonic/gin"
)

func getStaffID(c *gin.Context) (uint, bool) {
	return handlershared.GetContextUint(c, "user_id")
}

func getStaffRole(c *gin.Context) string {
	return handlershared.GetContextString(c, "user_role")
}
