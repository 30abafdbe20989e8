package handler

import (
	"errors"
	"net/http"

	"github.com/gorilla/sessions"

	"github.com/Kyaw-Min-lwin/Real-time-chat/internal/logging"
	"github.com/Kyaw-Min-lwin/Real-time-chat/internal/middleware"
	"github.com/Kyaw-Min-lwin/Real-time-chat/internal/service"
	"github.com/Kyaw-Min-lwin/Real-time-chat/internal/view"
)

type AuthHandler struct {
	authService service.AuthService
	cookieStore *sessions.CookieStore
	renderer    *view.PageRenderer
	logger      logging.Logger
}

func NewAuthHandler(authService service.AuthService, cookieStore *sessions.CookieStore, renderer *view.PageRenderer, logger logging.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		cookieStore: cookieStore,
		renderer:    renderer,
		logger:      logger,
	}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	session, _ := h.cookieStore.Get(r, middleware.SessionName)

	if r.Method == http.MethodGet {
		h.renderPage(w, r, session, "register.html", nil)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Error occurred while parsing the form", http.StatusBadRequest)
		return
	}

	err := h.authService.Register(
		r.FormValue("name"),
		r.FormValue("email"),
		r.FormValue("password"),
		r.FormValue("confirm"),
	)
	switch {
	case err == nil:
		addFlash(session, "success", "Registration successful!")
		saveSession(w, r, session)
		http.Redirect(w, r, "/login", http.StatusSeeOther)
	case errors.Is(err, service.ErrEmailTaken):
		h.flashAndBack(w, r, session, "Account already exists!", "/register")
	case errors.Is(err, service.ErrEmailInvalid):
		h.flashAndBack(w, r, session, "Invalid email address!", "/register")
	case errors.Is(err, service.ErrPasswordMismatch):
		h.flashAndBack(w, r, session, "Passwords do not match!", "/register")
	case errors.Is(err, service.ErrValidation):
		h.flashAndBack(w, r, session, "All fields are required!", "/register")
	default:
		h.logger.Logf("registration failed: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	session, _ := h.cookieStore.Get(r, middleware.SessionName)

	if r.Method == http.MethodGet {
		h.renderPage(w, r, session, "login.html", nil)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Error parsing form", http.StatusBadRequest)
		return
	}

	user, err := h.authService.Login(r.FormValue("email"), r.FormValue("password"))
	if err != nil {
		if errors.Is(err, service.ErrAccessDenied) {
			h.flashAndBack(w, r, session, "Invalid email or password!", "/login")
			return
		}
		h.logger.Logf("login failed: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	session.Values["id"] = user.ID
	session.Values["name"] = user.Name
	session.Values["role"] = user.Role
	addFlash(session, "success", "Login successful!")
	saveSession(w, r, session)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	session, _ := h.cookieStore.Get(r, middleware.SessionName)

	if _, loggedIn := session.Values["id"].(uint); !loggedIn {
		h.flashAndBack(w, r, session, "You are not logged in!", "/login")
		return
	}

	session.Options.MaxAge = -1
	saveSession(w, r, session)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (h *AuthHandler) flashAndBack(w http.ResponseWriter, r *http.Request, session *sessions.Session, message, target string) {
	addFlash(session, "danger", message)
	saveSession(w, r, session)
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (h *AuthHandler) renderPage(w http.ResponseWriter, r *http.Request, session *sessions.Session, page string, extra map[string]any) {
	data := map[string]any{
		"Flashes": popFlashes(session),
	}
	for k, v := range extra {
		data[k] = v
	}
	saveSession(w, r, session)
	if err := h.renderer.RenderTemplate(w, page, data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
