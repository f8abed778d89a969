package content

import "errors"

var ErrInvalidPerPage = errors.New("invalid perPage")

// 1ページ分の結果とページング情報。
type Page[T any] struct {
	Items        []T  `json:"items"`
	CurrentPage  int  `json:"currentPage"`
	TotalPages   int  `json:"totalPages"`
	TotalItems   int  `json:"totalItems"`
	ItemsPerPage int  `json:"itemsPerPage"`
	HasNextPage  bool `json:"hasNextPage"`
	HasPrevPage  bool `json:"hasPrevPage"`
}

// Paginate は並び済みのitemsを切り出す。
// 範囲外のpageはエラーにせず [1, max(totalPages,1)] に丸める。
// 入力スライスは変更しない（返すItemsは新しいスライス）。
func Paginate[T any](items []T, page, perPage int) (Page[T], error) {
	if perPage < 1 {
		return Page[T]{}, ErrInvalidPerPage
	}

	total := len(items)
	totalPages := (total + perPage - 1) / perPage

	lastPage := totalPages
	if lastPage < 1 {
		lastPage = 1
	}
	if page < 1 {
		page = 1
	}
	if page > lastPage {
		page = lastPage
	}

	start := (page - 1) * perPage
	end := start + perPage
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	out := make([]T, end-start)
	copy(out, items[start:end])

	return Page[T]{
		Items:        out,
		CurrentPage:  page,
		TotalPages:   totalPages,
		TotalItems:   total,
		ItemsPerPage: perPage,
		HasNextPage:  page < totalPages,
		HasPrevPage:  page > 1,
	}, nil
}
