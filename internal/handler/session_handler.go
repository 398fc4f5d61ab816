package handler

import (
	"net/http"

	"mini-storefront/internal/model"
	"mini-storefront/internal/store"

	"github.com/rs/zerolog"
)

// SessionHandler exposes the simulated sign-in and the theme preference.
type SessionHandler struct {
	session Session
	logger  zerolog.Logger
}

// NewSessionHandler creates a new session handler.
func NewSessionHandler(session Session, logger zerolog.Logger) *SessionHandler {
	return &SessionHandler{
		session: session,
		logger:  logger.With().Str("handler", "session").Logger(),
	}
}

type sessionResponse struct {
	User       *model.User `json:"user"`
	IsDarkMode bool        `json:"isDarkMode"`
	Theme      store.Theme `json:"theme"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type darkModeResponse struct {
	IsDarkMode bool        `json:"isDarkMode"`
	Theme      store.Theme `json:"theme"`
}

// Get handles GET /api/session.
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	state := h.session.State()
	writeJSON(w, http.StatusOK, sessionResponse{
		User:       state.User,
		IsDarkMode: state.IsDarkMode,
		Theme:      state.Theme(),
	})
}

// Login handles POST /api/session/login. The call blocks for the simulated
// delay; a failed or superseded attempt answers 401.
func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	if !h.session.Login(r.Context(), req.Email, req.Password) {
		writeServiceError(w, r, model.ErrLoginFailed, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]*model.User{"user": h.session.User()})
}

// Logout handles POST /api/session/logout.
func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.session.Logout()
	w.WriteHeader(http.StatusNoContent)
}

// ToggleDarkMode handles POST /api/session/dark-mode.
func (h *SessionHandler) ToggleDarkMode(w http.ResponseWriter, r *http.Request) {
	theme := h.session.ToggleDarkMode()
	writeJSON(w, http.StatusOK, darkModeResponse{
		IsDarkMode: theme == store.ThemeDark,
		Theme:      theme,
	})
}
