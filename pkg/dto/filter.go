package dto

import "github.com/DarThunder/tienda-api/pkg/errs"

type Filter struct {
	Limit int    `query:"limit"`
	Page  int    `query:"page"`
	Q     string `query:"q"`
}

// Validate rejects negative paging values before they reach the store, where
// a negative LIMIT is a query error.
func (f Filter) Validate() error {
	if f.Limit < 0 || f.Page < 0 {
		return errs.ErrClient
	}
	return nil
}
