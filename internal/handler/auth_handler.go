package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"yatube/internal/service"
)

type UserResponse struct {
	UserId   string `json:"userId"`
	Username string `json:"username"`
}

type AuthResponse struct {
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
	User         UserResponse `json:"user"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
	Next     string `json:"next"`
}

func isJSON(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "application/json")
}

// safeNext accepts only local absolute paths.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return ""
	}
	return next
}

func (h *Handlers) setAccessCookie(w http.ResponseWriter, accessToken string) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.Cfg.AccessCookieName,
		Value:    accessToken,
		Path:     "/",
		MaxAge:   int(h.Cfg.AccessTokenDuration.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handlers) LoginPage(w http.ResponseWriter, r *http.Request) {
	render(w, http.StatusOK, TemplateLogin, map[string]interface{}{
		"next": safeNext(r.URL.Query().Get("next")),
	})
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if isJSON(r) {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, "Неверный формат запроса", http.StatusBadRequest)
			return
		}
	} else {
		req = LoginRequest{
			Username: strings.TrimSpace(r.PostFormValue("username")),
			Password: r.PostFormValue("password"),
			Next:     r.PostFormValue("next"),
		}
	}
	if req.Next == "" {
		req.Next = r.URL.Query().Get("next")
	}
	next := safeNext(req.Next)

	if err := h.Validate.Struct(req); err != nil {
		h.loginFailed(w, r, next, "Введите имя пользователя и пароль", http.StatusBadRequest)
		return
	}

	user, accessToken, refreshToken, err := h.AuthService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		h.loginFailed(w, r, next, "Неверное имя пользователя или пароль", http.StatusForbidden)
		return
	}

	h.setAccessCookie(w, accessToken)

	if next != "" {
		redirect(w, r, next)
		return
	}

	writeSuccess(w, AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         UserResponse{UserId: user.UserID, Username: user.Username},
	}, http.StatusOK)
}

// loginFailed answers JSON clients with an error and re-renders the login
// page for form submissions.
func (h *Handlers) loginFailed(w http.ResponseWriter, r *http.Request, next, message string, statusCode int) {
	if isJSON(r) {
		WriteError(w, message, statusCode)
		return
	}
	render(w, http.StatusOK, TemplateLogin, map[string]interface{}{
		"next":  next,
		"error": message,
	})
}

func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, "Неверный формат запроса", http.StatusBadRequest)
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	if err := h.Validate.Struct(req); err != nil {
		WriteError(w, "Неверные данные", http.StatusBadRequest)
		return
	}

	if _, err := h.AuthService.Register(r.Context(), req); err != nil {
		if errors.Is(err, service.ErrUserExists) {
			WriteError(w, "Пользователь с таким именем уже существует", http.StatusConflict)
		} else {
			serverError(w, err)
		}
		return
	}

	user, accessToken, refreshToken, err := h.AuthService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		serverError(w, err)
		return
	}

	h.setAccessCookie(w, accessToken)

	writeSuccess(w, AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         UserResponse{UserId: user.UserID, Username: user.Username},
	}, http.StatusCreated)
}

func (h *Handlers) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RefreshToken string `json:"refreshToken" validate:"required"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, "Неверный формат запроса", http.StatusBadRequest)
		return
	}

	if err := h.Validate.Struct(req); err != nil {
		WriteError(w, "Отсутствует refreshToken", http.StatusBadRequest)
		return
	}

	user, accessToken, refreshToken, err := h.AuthService.RefreshTokens(r.Context(), req.RefreshToken)
	if err != nil {
		WriteError(w, "Refresh Token истек или недействителен", http.StatusBadRequest)
		return
	}

	h.setAccessCookie(w, accessToken)

	writeSuccess(w, AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         UserResponse{UserId: user.UserID, Username: user.Username},
	}, http.StatusOK)
}
