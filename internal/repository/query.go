package repository

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// paginate 非法页码按第一页处理，pageSize<=0 不分页
func paginate(query *gorm.DB, page, pageSize int) *gorm.DB {
	if query == nil || pageSize <= 0 {
		return query
	}
	if page < 1 {
		page = 1
	}
	return query.Limit(pageSize).Offset((page - 1) * pageSize)
}

// searchColumns 任一列模糊匹配 term，postgres 下不区分大小写
func searchColumns(query *gorm.DB, term string, columns ...string) *gorm.DB {
	term = strings.TrimSpace(term)
	if query == nil || term == "" {
		return query
	}
	condition, count := likeCondition(dialectName(query), columns)
	if count == 0 {
		return query
	}
	pattern := "%" + likeEscaper.Replace(term) + "%"
	args := make([]interface{}, count)
	for i := range args {
		args[i] = pattern
	}
	return query.Where(condition, args...)
}

func likeCondition(dialect string, columns []string) (string, int) {
	operator := "LIKE"
	if dialect == "postgres" {
		operator = "ILIKE"
	}
	parts := make([]string, 0, len(columns))
	for _, column := range columns {
		if column = strings.TrimSpace(column); column != "" {
			parts = append(parts, fmt.Sprintf(`%s %s ? ESCAPE '\'`, column, operator))
		}
	}
	return strings.Join(parts, " OR "), len(parts)
}

func dialectName(db *gorm.DB) string {
	if db == nil || db.Dialector == nil {
		return "sqlite"
	}
	switch name := strings.ToLower(db.Dialector.Name()); name {
	case "postgres", "postgresql":
		return "postgres"
	case "":
		return "sqlite"
	default:
		return name
	}
}
