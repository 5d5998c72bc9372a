package api

import "github.com/camaramunicipal/prestacontas/internal/auth/domain"

type RegisterReq struct {
	Username string `json:"username" binding:"required,max=80"`
	Email    string `json:"email" binding:"required,email,max=120"`
	Password string `json:"password" binding:"required"`
}

type LoginReq struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type ChangePasswordReq struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

type UpdateUserReq struct {
	Username string `json:"username" binding:"omitempty,max=80"`
	Email    string `json:"email" binding:"omitempty,email,max=120"`
	Password string `json:"password"`
}

type RegisterResp struct {
	Message string       `json:"message"`
	User    *domain.User `json:"user"`
}

type LoginResp struct {
	Message      string       `json:"message"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	User         *domain.User `json:"user"`
}

type RefreshResp struct {
	AccessToken string `json:"access_token"`
}

type MessageResp struct {
	Message string `json:"message"`
}

type ErrorResp struct {
	Error string `json:"error"`
}
