// Package service holds the presentation logic behind the NFT views: paging,
// selection and bulk actions over the wallet gateway.
package service

import "errors"

var (
	ErrEmptySelection = errors.New("no nfts selected")
	ErrInvalidFee     = errors.New("invalid fee")
	ErrNoBurnAddress  = errors.New("wallet has no burn address")
	ErrMissingAddress = errors.New("destination address is required")
)
