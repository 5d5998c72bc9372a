package domain

import "errors"

// 业务错误，API 层通过 errors.Is 映射为 HTTP 状态码
var (
	ErrNotFound     = errors.New("registro não encontrado")
	ErrInvalidInput = errors.New("dados inválidos")
	ErrConflict     = errors.New("registro já existe")
)
