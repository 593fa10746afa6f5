package utils

import (
	"asset-control/pkg/types"
)

// NewPagination считает метаданные страницы по договоренностям списков:
// limit = 0 — выгрузка без ограничения (одна страница), число страниц
// не бывает меньше единицы, а текущая страница прижимается вниз, если
// после смены фильтра она вышла за последнюю.
func NewPagination(total uint64, page, limit int) types.Pagination {
	if page < 1 {
		page = 1
	}

	totalPages := 1
	if limit > 0 {
		totalPages = int((total + uint64(limit) - 1) / uint64(limit))
		if totalPages < 1 {
			totalPages = 1
		}
	}

	if page > totalPages {
		page = totalPages
	}

	return types.Pagination{
		TotalCount: total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}
}

// PageOffset переводит номер страницы в смещение для SQL-запроса.
func PageOffset(page, limit int) int {
	if page < 1 || limit <= 0 {
		return 0
	}
	return (page - 1) * limit
}

// ClampPage прижимает запрошенную страницу к последней, когда после
// подсчета строк выяснилось, что она вышла за конец списка (например,
// фильтр сжал выборку). Возвращает страницу, которая реально будет
// отдана, и пересчитанное смещение — то же прижатие выполняет
// NewPagination для метаданных ответа, поэтому тело и метаданные
// всегда описывают одну и ту же страницу.
func ClampPage(total uint64, page, limit int) (int, int) {
	if limit <= 0 {
		return 1, 0
	}
	if page < 1 {
		page = 1
	}
	totalPages := int((total + uint64(limit) - 1) / uint64(limit))
	if totalPages < 1 {
		totalPages = 1
	}
	if page > totalPages {
		page = totalPages
	}
	return page, (page - 1) * limit
}
