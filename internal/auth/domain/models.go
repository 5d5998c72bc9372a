package domain

import (
	"errors"
	"time"
)

// User 系统登录用户
type User struct {
	ID           int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string     `gorm:"type:varchar(80);uniqueIndex;not null" json:"username"`
	Email        string     `gorm:"type:varchar(120);uniqueIndex;not null" json:"email"`
	PasswordHash string     `gorm:"type:varchar(255);not null" json:"-"`
	IsActive     bool       `gorm:"not null;default:true" json:"is_active"`
	CreatedAt    time.Time  `json:"created_at"`
	LastLogin    *time.Time `json:"last_login"`
}

func (User) TableName() string {
	return "users"
}

var (
	ErrNotFound     = errors.New("Usuário não encontrado")
	ErrInvalidInput = errors.New("dados inválidos")
	ErrConflict     = errors.New("já está em uso")
	ErrUnauthorized = errors.New("não autenticado")
	ErrForbidden    = errors.New("não autorizado")
)

// Error 面向用户的提示，同时可以用 errors.Is 匹配哨兵错误
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Unwrap() error { return e.Kind }

func Fail(kind error, msg string) error {
	return &Error{Kind: kind, Msg: msg}
}
