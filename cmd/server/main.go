package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/sessions"
	"github.com/joho/godotenv"

	"github.com/Kyaw-Min-lwin/Real-time-chat/internal/config"
	"github.com/Kyaw-Min-lwin/Real-time-chat/internal/database"
	"github.com/Kyaw-Min-lwin/Real-time-chat/internal/handler"
	"github.com/Kyaw-Min-lwin/Real-time-chat/internal/logging"
	"github.com/Kyaw-Min-lwin/Real-time-chat/internal/middleware"
	"github.com/Kyaw-Min-lwin/Real-time-chat/internal/ratelimit"
	"github.com/Kyaw-Min-lwin/Real-time-chat/internal/repository"
	"github.com/Kyaw-Min-lwin/Real-time-chat/internal/room"
	"github.com/Kyaw-Min-lwin/Real-time-chat/internal/service"
	"github.com/Kyaw-Min-lwin/Real-time-chat/internal/upload"
	"github.com/Kyaw-Min-lwin/Real-time-chat/internal/view"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load config: %v\n", err)
		os.Exit(1)
	}
	logging.Init(cfg.LogLevel)
	logger := logging.For("server")

	db, err := database.ConnectMySQL(cfg.DatabaseDSN)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: connect database: %v\n", err)
		os.Exit(1)
	}
	if err := database.Migrate(db); err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: migrate database: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	users := repository.NewMySQLUserRepository(db)
	groups := repository.NewMySQLGroupRepository(db)
	memberships := repository.NewMySQLMembershipRepository(db)
	messages := repository.NewMySQLMessageRepository(db)

	messageWindow := time.Duration(cfg.MessageWindowSeconds) * time.Second
	messageLimiter := ratelimit.NewSlidingWindow(cfg.MessageLimit, messageWindow)
	go messageLimiter.Janitor(ctx, messageWindow)

	createWindow := time.Duration(cfg.CreateGroupWindowSeconds) * time.Second
	createLimiter := ratelimit.NewSlidingWindow(cfg.CreateGroupLimit, createWindow)
	go createLimiter.Janitor(ctx, createWindow)

	hub := room.NewHub()
	rooms := room.NewService(hub, messageLimiter, messages, cfg.MessageLimit, messageWindow, logging.For("room"))

	authService := service.NewAuthService(users, logging.For("auth"))
	groupService := service.NewGroupService(groups, logging.For("group"))
	membershipService := service.NewMembershipService(groups, memberships, logging.For("membership"))
	messageService := service.NewMessageService(messages)

	renderer, err := view.NewPageRenderer(cfg.TemplatesDir,
		"index.html", "login.html", "register.html", "view_group.html")
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: parse templates: %v\n", err)
		os.Exit(1)
	}

	images, err := upload.NewImageStore(cfg.UploadDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: prepare upload dir: %v\n", err)
		os.Exit(1)
	}

	store := sessions.NewCookieStore([]byte(cfg.SessionSecret))

	authHandler := handler.NewAuthHandler(authService, store, renderer, logging.For("http"))
	groupHandler := handler.NewGroupHandler(groupService, membershipService, messageService, images, store, renderer, logging.For("http"))
	wsHandler := handler.NewWSHandler(rooms, store, logging.For("ws"))

	r := mux.NewRouter()
	r.HandleFunc("/", groupHandler.Index).Methods(http.MethodGet)
	r.HandleFunc("/login", authHandler.Login).Methods(http.MethodGet, http.MethodPost)
	r.HandleFunc("/register", authHandler.Register).Methods(http.MethodGet, http.MethodPost)
	r.HandleFunc("/logout", authHandler.Logout).Methods(http.MethodGet)
	r.HandleFunc("/search_groups", groupHandler.SearchGroups).Methods(http.MethodGet)
	r.HandleFunc("/create_group",
		middleware.RateLimit(createLimiter,
			middleware.Auth(store, groupHandler.CreateGroup))).Methods(http.MethodGet, http.MethodPost)
	r.HandleFunc("/join_group", middleware.Auth(store, groupHandler.JoinGroup)).Methods(http.MethodPost)
	r.HandleFunc("/leave_group", middleware.Auth(store, groupHandler.LeaveGroup)).Methods(http.MethodPost)
	r.HandleFunc("/group/{group_id}", middleware.Auth(store, groupHandler.ViewGroup)).Methods(http.MethodGet)
	r.HandleFunc("/ws", wsHandler.Handle)
	r.PathPrefix("/static/uploads/").Handler(
		http.StripPrefix("/static/uploads/", http.FileServer(http.Dir(cfg.UploadDir))))

	// No server-wide read/write timeouts: the websocket endpoint holds
	// connections open far longer than any page load. Slow-header abuse
	// is still bounded.
	server := &http.Server{
		Addr:              cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: time.Duration(cfg.ReadTimeoutSeconds) * time.Second,
	}

	go func() {
		logger.Logf("listening on %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fmt.Fprintf(os.Stderr, "FATAL: serve: %v\n", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Logf("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = server.Shutdown(shutdownCtx)
	hub.DropAll()
}
