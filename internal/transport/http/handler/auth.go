package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"jogai-backend/internal/app"
	"jogai-backend/internal/transport/http/middleware"
	"jogai-backend/internal/transport/http/response"
)

// User-facing strings stay in Portuguese: the deployed Flutter client
// displays these bodies verbatim.

type AuthHandler struct {
	authService *app.AuthService
}

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type ChangePasswordRequest struct {
	UserID          uint   `json:"user_id"`
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func NewAuthHandler(authService *app.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Usuário e senha são obrigatórios")
		return
	}

	result, err := h.authService.Register(app.RegisterInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, "Usuário e senha são obrigatórios")
		case errors.Is(err, app.ErrUserExists):
			response.Error(c, http.StatusBadRequest, "Usuário já existe")
		default:
			response.Error(c, http.StatusInternalServerError, "Erro ao registrar usuário")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Usuário registrado com sucesso!",
		"user_id": result.User.ID,
		"token":   result.Token,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Usuário e senha são obrigatórios")
		return
	}

	result, err := h.authService.Login(app.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, "Usuário e senha são obrigatórios")
		case errors.Is(err, app.ErrInvalidCredential):
			response.Error(c, http.StatusUnauthorized, "Credenciais inválidas")
		default:
			response.Error(c, http.StatusInternalServerError, "Erro ao efetuar login")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Login bem-sucedido!",
		"user_id":  result.User.ID,
		"username": result.User.Username,
		"token":    result.Token,
	})
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Todos os campos são obrigatórios: user_id, current_password, new_password")
		return
	}

	if req.UserID == 0 {
		if tokenUserID, ok := middleware.UserIDFromContext(c); ok {
			req.UserID = tokenUserID
		}
	}
	if req.UserID == 0 || req.CurrentPassword == "" || req.NewPassword == "" {
		response.Error(c, http.StatusBadRequest, "Todos os campos são obrigatórios: user_id, current_password, new_password")
		return
	}

	err := h.authService.ChangePassword(app.ChangePasswordInput{
		UserID:          req.UserID,
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrUserNotFound):
			response.Error(c, http.StatusNotFound, "Usuário não encontrado")
		case errors.Is(err, app.ErrWrongPassword):
			response.Error(c, http.StatusForbidden, "Senha atual incorreta")
		case errors.Is(err, app.ErrPasswordTooShort):
			response.Error(c, http.StatusBadRequest, "Nova senha deve ter pelo menos 6 caracteres")
		case errors.Is(err, app.ErrPasswordUnchanged):
			response.Error(c, http.StatusBadRequest, "Nova senha não pode ser igual à senha atual")
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, "Todos os campos são obrigatórios: user_id, current_password, new_password")
		default:
			response.Error(c, http.StatusInternalServerError, "Erro ao alterar senha")
		}
		return
	}

	response.Message(c, http.StatusOK, "Senha alterada com sucesso!")
}

func (h *AuthHandler) DeleteUser(c *gin.Context) {
	userID, ok := parseIDParam(c, "user_id")
	if !ok {
		response.Error(c, http.StatusBadRequest, "user_id inválido")
		return
	}

	if err := h.authService.DeleteUser(c.Request.Context(), userID); err != nil {
		switch {
		case errors.Is(err, app.ErrUserNotFound):
			response.Error(c, http.StatusNotFound, "Usuário não encontrado")
		default:
			response.Error(c, http.StatusInternalServerError, "Erro ao deletar usuário")
		}
		return
	}

	response.Message(c, http.StatusOK, "Usuário deletado com sucesso")
}
