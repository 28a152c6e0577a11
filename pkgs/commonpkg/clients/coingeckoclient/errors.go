package coingeckoclient

import "errors"

var (
	ErrRateLimited      = errors.New("rate limit exceeded")
	ErrUnexpectedStatus = errors.New("unexpected API status")
	ErrCoinNotFound     = errors.New("coin not found")
)
