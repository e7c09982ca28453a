package dto

// PageMeta - метаданные пагинации в ответах списков.
type PageMeta struct {
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
}

// ListResponse - общий ответ со списком и пагинацией.
type ListResponse[T any] struct {
	Items []T      `json:"items"`
	Meta  PageMeta `json:"meta"`
}

func NewListResponse[T any](items []T, total int64, page, pageSize int) *ListResponse[T] {
	if items == nil {
		items = []T{}
	}
	return &ListResponse[T]{
		Items: items,
		Meta:  PageMeta{Total: total, Page: page, PageSize: pageSize},
	}
}
