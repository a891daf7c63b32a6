package shared

import (
	"strconv"
	"strings"

	"github.com/funfair-next/internal/repository"

	"github.com/gin-gonic/gin"
)

const maxListLimit = 200

// ParseListQuery 解析列表端点统一查询参数。
// order 支持 "-createdAt" 形式的倒序前缀；limit=false 表示不分页。
func ParseListQuery(c *gin.Context) repository.ListQuery {
	q := repository.ListQuery{
		Order: strings.TrimSpace(c.Query("order")),
	}

	rawLimit := strings.TrimSpace(c.Query("limit"))
	if strings.EqualFold(rawLimit, "false") {
		q.NoLimit = true
	} else if rawLimit != "" {
		if limit, err := strconv.Atoi(rawLimit); err == nil && limit > 0 {
			if limit > maxListLimit {
				limit = maxListLimit
			}
			q.Limit = limit
		}
	}

	if rawSkip := strings.TrimSpace(c.Query("skip")); rawSkip != "" {
		if skip, err := strconv.Atoi(rawSkip); err == nil && skip > 0 {
			q.Skip = skip
		}
	}
	return q
}

// ParseUintParam 解析路径中的数字ID参数
func ParseUintParam(c *gin.Context, name string) (uint, bool) {
	value, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || value == 0 {
		return 0, false
	}
	return uint(value), true
}

// ParseUintQuery 解析查询参数中的数字，缺省或非法时返回 0
func ParseUintQuery(c *gin.Context, name string) uint {
	value, err := strconv.ParseUint(strings.TrimSpace(c.Query(name)), 10, 64)
	if err != nil {
		return 0
	}
	return uint(value)
}

// ParseBoolQuery 解析查询参数中的布尔值，缺省时返回 nil
func ParseBoolQuery(c *gin.Context, name string) *bool {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return nil
	}
	return &value
}
