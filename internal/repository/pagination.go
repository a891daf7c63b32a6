package repository

import (
	"strings"

	"gorm.io/gorm"
)

// ListQuery 列表端点统一查询参数（order/limit/skip，limit=false 时不分页）
type ListQuery struct {
	Order   string
	Limit   int
	Skip    int
	NoLimit bool
}

const defaultListLimit = 20

// sortableColumns 允许排序的字段（请求侧 camelCase 到列名的映射）
var sortableColumns = map[string]string{
	"id":        "id",
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"date":      "date",
	"price":     "price",
	"status":    "status",
	"title":     "title",
	"name":      "name",
	"end":       "end",
	"paidAt":    "paid_at",
	"amount":    "amount",
}

// applyListQuery 应用排序与分页。排序字段白名单校验，未知字段忽略。
func applyListQuery(query *gorm.DB, q ListQuery) *gorm.DB {
	if query == nil {
		return query
	}
	if order := buildOrderClause(q.Order); order != "" {
		query = query.Order(order)
	} else {
		query = query.Order("id desc")
	}
	if q.NoLimit {
		return query
	}
	limit := q.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	skip := q.Skip
	if skip < 0 {
		skip = 0
	}
	return query.Limit(limit).Offset(skip)
}

// buildOrderClause 解析 "-createdAt" 形式的排序参数
func buildOrderClause(order string) string {
	field := strings.TrimSpace(order)
	if field == "" {
		return ""
	}
	desc := false
	if strings.HasPrefix(field, "-") {
		desc = true
		field = field[1:]
	}
	column, ok := sortableColumns[field]
	if !ok {
		return ""
	}
	if desc {
		return column + " desc"
	}
	return column + " asc"
}
