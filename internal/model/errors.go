package model

import "errors"

var (
	ErrFetchFailure         = errors.New("quote fetch failed")
	ErrQuoteIncomplete      = errors.New("quote incomplete")
	ErrConfigurationInvalid = errors.New("invalid configuration")
)
