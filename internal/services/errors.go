package services

import "errors"

// общие ошибки доменного слоя; хендлеры мапят их на HTTP-статусы
var (
	ErrNotFound  = errors.New("not found")
	ErrForbidden = errors.New("forbidden")
)
