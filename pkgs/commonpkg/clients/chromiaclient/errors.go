package chromiaclient

import "errors"

var (
	ErrCommandFailed = errors.New("vector store command failed")
	ErrRIDNotFound   = errors.New("blockchain RID not found")
	ErrNotConfirmed  = errors.New("transaction not confirmed")
	ErrInvalidText   = errors.New("text cannot be passed to chr")
)
