package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/gorilla/sessions"

	"github.com/Kyaw-Min-lwin/Real-time-chat/internal/logging"
	"github.com/Kyaw-Min-lwin/Real-time-chat/internal/middleware"
	"github.com/Kyaw-Min-lwin/Real-time-chat/internal/service"
	"github.com/Kyaw-Min-lwin/Real-time-chat/internal/upload"
	"github.com/Kyaw-Min-lwin/Real-time-chat/internal/view"
)

const maxUploadBytes = 10 << 20

type GroupHandler struct {
	groupService      service.GroupService
	membershipService service.MembershipService
	messageService    service.MessageService
	images            *upload.ImageStore
	cookieStore       *sessions.CookieStore
	renderer          *view.PageRenderer
	logger            logging.Logger
}

func NewGroupHandler(
	groupService service.GroupService,
	membershipService service.MembershipService,
	messageService service.MessageService,
	images *upload.ImageStore,
	cookieStore *sessions.CookieStore,
	renderer *view.PageRenderer,
	logger logging.Logger,
) *GroupHandler {
	return &GroupHandler{
		groupService:      groupService,
		membershipService: membershipService,
		messageService:    messageService,
		images:            images,
		cookieStore:       cookieStore,
		renderer:          renderer,
		logger:            logger,
	}
}

// Index lists every chat group.
func (g *GroupHandler) Index(w http.ResponseWriter, r *http.Request) {
	session, _ := g.cookieStore.Get(r, middleware.SessionName)

	groups, err := g.groupService.List()
	if err != nil {
		g.logger.Logf("list groups: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	data := map[string]any{
		"Flashes": popFlashes(session),
		"Groups":  groups,
	}
	if user, ok := middleware.UserFrom(r.Context()); ok {
		data["User"] = user
	} else if name, ok := session.Values["name"].(string); ok {
		data["User"] = middleware.SessionUser{Name: name}
	}
	saveSession(w, r, session)

	if err := g.renderer.RenderTemplate(w, "index.html", data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// CreateGroup handles the group creation form, including the optional
// group image.
func (g *GroupHandler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	session, _ := g.cookieStore.Get(r, middleware.SessionName)

	if r.Method != http.MethodPost {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		g.flashRedirect(w, r, session, "danger", "Invalid form submission!", "/")
		return
	}

	title := r.FormValue("group_name")
	description := r.FormValue("description")
	privacy := r.FormValue("privacy")
	accessCode := r.FormValue("access_code")

	if title == "" || description == "" || privacy == "" {
		g.flashRedirect(w, r, session, "danger", "Group name, description, and privacy fields are required!", "/")
		return
	}

	imageURL := upload.DefaultImageURL
	if file, header, err := r.FormFile("group_image"); err == nil && header.Filename != "" {
		defer file.Close()
		if !upload.Allowed(header.Filename) {
			g.flashRedirect(w, r, session, "danger", "Invalid image file!", "/")
			return
		}
		url, err := g.images.Save(file, header.Filename)
		if err != nil {
			// Keep the default image; the group is still created.
			g.logger.Logf("image save failed: %v", err)
		} else {
			imageURL = url
		}
	}

	private := privacy == "private"
	if _, err := g.groupService.Create(title, description, private, accessCode, imageURL); err != nil {
		if errors.Is(err, service.ErrAccessCodeRequired) {
			g.flashRedirect(w, r, session, "danger", "Access code is required for private groups.", "/")
			return
		}
		if errors.Is(err, service.ErrValidation) {
			g.flashRedirect(w, r, session, "danger", "Group name, description, and privacy fields are required!", "/")
			return
		}
		g.logger.Logf("create group: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	g.flashRedirect(w, r, session, "success", "Group created successfully!", "/")
}

// SearchGroups answers the live search box with JSON summaries.
func (g *GroupHandler) SearchGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := g.groupService.Search(r.URL.Query().Get("q"))
	if err != nil {
		g.logger.Logf("search groups: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(groups)
}

// JoinGroup records membership (checking the access code for private
// groups) and redirects into the room.
func (g *GroupHandler) JoinGroup(w http.ResponseWriter, r *http.Request) {
	session, _ := g.cookieStore.Get(r, middleware.SessionName)
	user, _ := middleware.UserFrom(r.Context())

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Error parsing form", http.StatusBadRequest)
		return
	}

	groupID, ok := parseGroupID(r.FormValue("group_id"))
	if !ok {
		g.flashRedirect(w, r, session, "danger", "Please select a group.", "/")
		return
	}

	_, err := g.membershipService.Join(groupID, user.ID, r.FormValue("access_code2"), inJoined(session, groupID))
	switch {
	case err == nil:
		addJoined(session, groupID)
		saveSession(w, r, session)
		http.Redirect(w, r, "/group/"+strconv.FormatUint(uint64(groupID), 10), http.StatusSeeOther)
	case errors.Is(err, service.ErrNotFound):
		g.flashRedirect(w, r, session, "danger", "Group not found.", "/")
	case errors.Is(err, service.ErrAccessDenied):
		g.flashRedirect(w, r, session, "danger", "Access code is incorrect.", "/")
	default:
		g.logger.Logf("join group %d: %v", groupID, err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// LeaveGroup removes the durable membership and the session entry.
func (g *GroupHandler) LeaveGroup(w http.ResponseWriter, r *http.Request) {
	session, _ := g.cookieStore.Get(r, middleware.SessionName)
	user, _ := middleware.UserFrom(r.Context())

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Error parsing form", http.StatusBadRequest)
		return
	}

	groupID, ok := parseGroupID(r.FormValue("group_id"))
	if !ok {
		g.flashRedirect(w, r, session, "danger", "Invalid group.", "/")
		return
	}

	if err := g.membershipService.Leave(groupID, user.ID); err != nil {
		g.logger.Logf("leave group %d: %v", groupID, err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	removeJoined(session, groupID)
	g.flashRedirect(w, r, session, "info", "You have left the group.", "/")
}

// ViewGroup renders the room: group details, member list and history.
func (g *GroupHandler) ViewGroup(w http.ResponseWriter, r *http.Request) {
	session, _ := g.cookieStore.Get(r, middleware.SessionName)
	user, _ := middleware.UserFrom(r.Context())

	groupID, ok := parseGroupID(mux.Vars(r)["group_id"])
	if !ok {
		g.flashRedirect(w, r, session, "danger", "Group not found.", "/")
		return
	}

	group, err := g.groupService.Get(groupID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			g.flashRedirect(w, r, session, "danger", "Group not found.", "/")
			return
		}
		g.logger.Logf("load group %d: %v", groupID, err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	allowed, err := g.membershipService.CheckAccess(groupID, user.ID, inJoined(session, groupID))
	if err != nil && !errors.Is(err, service.ErrNotFound) {
		g.logger.Logf("access check for group %d: %v", groupID, err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if !allowed {
		g.flashRedirect(w, r, session, "warning", "You must join this private group before accessing it.", "/")
		return
	}
	// Warm the session cache when access came from the durable table.
	addJoined(session, groupID)

	members, err := g.membershipService.Members(groupID)
	if err != nil {
		g.logger.Logf("list members of group %d: %v", groupID, err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	messages, err := g.messageService.History(groupID)
	if err != nil {
		g.logger.Logf("load history of group %d: %v", groupID, err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	data := map[string]any{
		"Flashes":  popFlashes(session),
		"User":     user,
		"Group":    group,
		"Members":  members,
		"Messages": messages,
	}
	saveSession(w, r, session)

	if err := g.renderer.RenderTemplate(w, "view_group.html", data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (g *GroupHandler) flashRedirect(w http.ResponseWriter, r *http.Request, session *sessions.Session, category, message, target string) {
	addFlash(session, category, message)
	saveSession(w, r, session)
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func parseGroupID(raw string) (uint, bool) {
	if raw == "" {
		return 0, false
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
