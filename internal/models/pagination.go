package models

// PagedResult is one bounded slice of an ordered result set, plus flags
// indicating whether further slices exist in either direction. Pages are
// 1-based. A page past the end of the result set is an empty page with
// HasNext false, not an error.
type PagedResult[T any] struct {
	Items    []T  `json:"items"`
	Page     int  `json:"page"`
	PageSize int  `json:"page_size"`
	HasNext  bool `json:"has_next"`
	HasPrev  bool `json:"has_prev"`
}
