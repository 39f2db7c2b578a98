package catalog

import "errors"

// ErrNotFound 更新目标不存在
var ErrNotFound = errors.New("document not found")
