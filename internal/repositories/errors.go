package repositories

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// isDuplicateKey распознает нарушение уникального индекса. Postgres с
// TranslateError отдает gorm.ErrDuplicatedKey; текст проверяется для
// драйверов без трансляции ошибок.
func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}

// Pagination - общие параметры постраничной выборки
type Pagination struct {
	Page     int
	PageSize int
}

func (p Pagination) offset() int {
	if p.Page <= 1 {
		return 0
	}
	return (p.Page - 1) * p.limit()
}

func (p Pagination) limit() int {
	if p.PageSize <= 0 {
		return 20
	}
	return p.PageSize
}

// containsPattern - шаблон LIKE для поиска подстроки без учета регистра
func containsPattern(s string) string {
	return "%" + strings.ToLower(strings.TrimSpace(s)) + "%"
}
