package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/sessions"

	"github.com/Kyaw-Min-lwin/Real-time-chat/internal/entity"
	"github.com/Kyaw-Min-lwin/Real-time-chat/internal/middleware"
	"github.com/Kyaw-Min-lwin/Real-time-chat/internal/upload"
	"github.com/Kyaw-Min-lwin/Real-time-chat/internal/view"
)

type testLogger struct{}

func (testLogger) Logf(format string, v ...any) {}

func newStore() *sessions.CookieStore {
	return sessions.NewCookieStore([]byte("test-session-key"))
}

func newImages(t *testing.T) *upload.ImageStore {
	t.Helper()
	images, err := upload.NewImageStore(t.TempDir())
	if err != nil {
		t.Fatalf("create image store: %v", err)
	}
	return images
}

func newRenderer(t *testing.T) *view.PageRenderer {
	t.Helper()
	renderer, err := view.NewPageRenderer("../../web/templates",
		"index.html", "login.html", "register.html", "view_group.html")
	if err != nil {
		t.Fatalf("parse templates: %v", err)
	}
	return renderer
}

// loginCookie saves a logged-in session and returns its cookie, so test
// requests pass the auth middleware.
func loginCookie(t *testing.T, store *sessions.CookieStore) *http.Cookie {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	session, _ := store.Get(req, middleware.SessionName)
	session.Values["id"] = uint(1)
	session.Values["name"] = "alice"
	session.Values["role"] = "user"
	if err := session.Save(req, rec); err != nil {
		t.Fatalf("save session: %v", err)
	}

	cookies := rec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("no session cookie written")
	}
	return cookies[0]
}

// sessionFrom decodes the session state a handler left in its response
// cookie.
func sessionFrom(t *testing.T, store *sessions.CookieStore, rec *httptest.ResponseRecorder) *sessions.Session {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	session, err := store.Get(req, middleware.SessionName)
	if err != nil {
		t.Fatalf("decode session: %v", err)
	}
	return session
}

func flashesFrom(t *testing.T, store *sessions.CookieStore, rec *httptest.ResponseRecorder) []Flash {
	t.Helper()
	return popFlashes(sessionFrom(t, store, rec))
}

func wantRedirect(t *testing.T, rec *httptest.ResponseRecorder, target string) {
	t.Helper()
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	if got := rec.Header().Get("Location"); got != target {
		t.Fatalf("expected redirect to %s, got %s", target, got)
	}
}

func wantFlash(t *testing.T, store *sessions.CookieStore, rec *httptest.ResponseRecorder, category, message string) {
	t.Helper()
	flashes := flashesFrom(t, store, rec)
	if len(flashes) != 1 {
		t.Fatalf("expected one flash, got %d: %+v", len(flashes), flashes)
	}
	if flashes[0].Category != category || flashes[0].Message != message {
		t.Fatalf("expected %s flash %q, got %s %q", category, message, flashes[0].Category, flashes[0].Message)
	}
}

type stubAuthService struct {
	registerErr error
	loginUser   *entity.User
	loginErr    error

	registered [][4]string
}

func (s *stubAuthService) Register(name, email, password, confirm string) error {
	s.registered = append(s.registered, [4]string{name, email, password, confirm})
	return s.registerErr
}

func (s *stubAuthService) Login(email, password string) (*entity.User, error) {
	if s.loginErr != nil {
		return nil, s.loginErr
	}
	return s.loginUser, nil
}

type stubGroupService struct {
	group     *entity.ChatGroup
	getErr    error
	groups    []entity.ChatGroup
	summaries []entity.GroupSummary
	createErr error

	created []entity.ChatGroup
}

func (s *stubGroupService) Create(title, description string, private bool, accessCode, imageURL string) (*entity.ChatGroup, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	group := entity.ChatGroup{Title: title, Description: description, IsPrivate: private, ImageURL: imageURL}
	s.created = append(s.created, group)
	return &group, nil
}

func (s *stubGroupService) Get(id uint) (*entity.ChatGroup, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.group, nil
}

func (s *stubGroupService) List() ([]entity.ChatGroup, error) { return s.groups, nil }

func (s *stubGroupService) Search(q string) ([]entity.GroupSummary, error) {
	return s.summaries, nil
}

type stubMembershipService struct {
	members  []entity.Member
	joinErr  error
	leaveErr error
	allowed  bool
	checkErr error

	joinCalls     int
	lastInSession bool
}

func (s *stubMembershipService) Join(groupID, userID uint, accessCode string, inSession bool) ([]entity.Member, error) {
	s.joinCalls++
	s.lastInSession = inSession
	if s.joinErr != nil {
		return nil, s.joinErr
	}
	return s.members, nil
}

func (s *stubMembershipService) Leave(groupID, userID uint) error { return s.leaveErr }

func (s *stubMembershipService) CheckAccess(groupID, userID uint, inSession bool) (bool, error) {
	if s.checkErr != nil {
		return false, s.checkErr
	}
	return s.allowed || inSession, nil
}

func (s *stubMembershipService) Members(groupID uint) ([]entity.Member, error) {
	return s.members, nil
}

type stubMessageService struct {
	history []entity.GroupMessage
	err     error
}

func (s *stubMessageService) History(groupID uint) ([]entity.GroupMessage, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.history, nil
}
