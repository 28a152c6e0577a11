package chromastore

import "errors"

var ErrIncompleteResult = errors.New("chroma query result is incomplete")
