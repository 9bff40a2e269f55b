package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/wrenfield/chorejar/internal/auth"
	"github.com/wrenfield/chorejar/internal/backup"
	"github.com/wrenfield/chorejar/internal/handler"
	"github.com/wrenfield/chorejar/internal/middleware"
	"github.com/wrenfield/chorejar/internal/push"
	"github.com/wrenfield/chorejar/internal/store"
	ws "github.com/wrenfield/chorejar/internal/websocket"
)

type Server struct {
	db            *sql.DB
	hub           *ws.Hub
	authH         *handler.AuthHandler
	parentH       *handler.ParentHandler
	childH        *handler.ChildHandler
	choreH        *handler.ChoreHandler
	storeItemH    *handler.StoreItemHandler
	completionH   *handler.CompletionHandler
	transactionH  *handler.TransactionHandler
	pushH         *handler.PushHandler
	backupH       *handler.BackupHandler
	jwtManager    *auth.JWTManager
	rateLimiter   *middleware.RateLimiter
	backupManager *backup.Manager
	logger        *slog.Logger
}

// Config holds the server's non-store dependencies.
type Config struct {
	JWTSecret       string
	TokenDuration   time.Duration
	Backup          backup.Config
	VAPIDPublicKey  string
	VAPIDPrivateKey string
}

func New(db *sql.DB, cfg Config, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))

	parentStore := store.NewParentStore(db)
	childStore := store.NewChildStore(db)
	choreStore := store.NewChoreStore(db)
	storeItemStore := store.NewStoreItemStore(db)
	completionStore := store.NewCompletionStore(db)
	pushStore := store.NewPushStore(db)
	backupStore := store.NewBackupStore(db)

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenDuration)

	backupMgr := backup.NewManager(cfg.Backup, db, backupStore, logger.With("component", "backup"), func(s backup.Status) {
		hub.Broadcast(ws.Message{
			Type:   "backup_status",
			Entity: ws.EntityBackup,
			Action: string(s.State),
			Extra: map[string]any{
				"in_progress": s.InProgress,
				"error":       s.Error,
			},
		})
	})

	// Push stays nil unless VAPID keys are configured.
	var pushSvc *push.Service
	var notifier *push.Notifier
	var pushH *handler.PushHandler
	if cfg.VAPIDPublicKey != "" && cfg.VAPIDPrivateKey != "" {
		pushLogger := logger.With("component", "push")
		pushSvc = push.NewService(cfg.VAPIDPublicKey, cfg.VAPIDPrivateKey)
		notifier = push.NewNotifier(pushSvc, pushStore, pushLogger)
		pushH = handler.NewPushHandler(pushStore, pushSvc, pushLogger)
	}

	return &Server{
		db:            db,
		hub:           hub,
		authH:         handler.NewAuthHandler(parentStore, childStore, jwtManager, logger.With("component", "auth")),
		parentH:       handler.NewParentHandler(parentStore, childStore, logger.With("component", "parent")),
		childH:        handler.NewChildHandler(childStore, completionStore, hub, logger.With("component", "child")),
		choreH:        handler.NewChoreHandler(choreStore, childStore, completionStore, notifier, hub, logger.With("component", "chore")),
		storeItemH:    handler.NewStoreItemHandler(storeItemStore, childStore, completionStore, notifier, hub, logger.With("component", "store_item")),
		completionH:   handler.NewCompletionHandler(completionStore, hub, logger.With("component", "completion")),
		transactionH:  handler.NewTransactionHandler(childStore, choreStore, completionStore, hub, logger.With("component", "transaction")),
		pushH:         pushH,
		backupH:       handler.NewBackupHandler(backupMgr, backupStore, logger.With("component", "backup")),
		jwtManager:    jwtManager,
		rateLimiter:   middleware.NewRateLimiter(),
		backupManager: backupMgr,
		logger:        logger,
	}
}

// BackupManager exposes the backup manager for lifecycle control.
func (s *Server) BackupManager() *backup.Manager {
	return s.backupManager
}

func (s *Server) Router() http.Handler {
	outerMux := http.NewServeMux()

	// Public routes (no auth required)
	outerMux.HandleFunc("GET /health", s.healthHandler)
	outerMux.HandleFunc("GET /api/profiles", s.parentH.Profiles)
	outerMux.HandleFunc("POST /api/auth/login", s.rateLimitedHandler(s.authH.Login))

	// Protected routes
	protectedMux := http.NewServeMux()
	s.registerProtectedRoutes(protectedMux)

	authMiddleware := middleware.RequireAuth(s.jwtManager)
	outerMux.Handle("/api/", authMiddleware(protectedMux))
	outerMux.Handle("GET /ws", authMiddleware(http.HandlerFunc(ws.HandleWebSocket(s.hub))))

	return middleware.RequestLogger(s.logger.With("component", "http"))(outerMux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) rateLimitedHandler(h http.HandlerFunc) http.HandlerFunc {
	keyFunc := func(r *http.Request) string {
		return middleware.RealIP(r)
	}
	rl := middleware.RateLimit(s.rateLimiter, keyFunc, 10, time.Minute)
	return func(w http.ResponseWriter, r *http.Request) {
		rl(http.HandlerFunc(h)).ServeHTTP(w, r)
	}
}

// parentOnly wraps a handler so only parent tokens reach it.
func parentOnly(h http.HandlerFunc) http.Handler {
	return middleware.RequireParent(h)
}

func (s *Server) registerProtectedRoutes(mux *http.ServeMux) {
	// Children
	mux.HandleFunc("GET /api/children", s.childH.List)
	mux.HandleFunc("GET /api/children/{id}", s.childH.Get)
	mux.Handle("POST /api/children", parentOnly(s.childH.Create))
	mux.Handle("PUT /api/children/{id}", parentOnly(s.childH.Update))
	mux.Handle("DELETE /api/children/{id}", parentOnly(s.childH.Delete))
	mux.Handle("POST /api/children/{id}/pin", parentOnly(s.childH.SetPIN))
	mux.Handle("POST /api/children/{id}/reset-stats", parentOnly(s.childH.ResetStats))

	// Parents
	mux.HandleFunc("GET /api/parents", s.parentH.List)
	mux.Handle("POST /api/parents", parentOnly(s.parentH.Create))
	mux.Handle("DELETE /api/parents/{id}", parentOnly(s.parentH.Delete))
	mux.Handle("POST /api/parents/{id}/pin", parentOnly(s.authH.SetParentPIN))

	// Chores
	mux.HandleFunc("GET /api/chores", s.choreH.List)
	mux.Handle("POST /api/chores", parentOnly(s.choreH.Create))
	mux.Handle("PUT /api/chores/{id}", parentOnly(s.choreH.Update))
	mux.Handle("DELETE /api/chores/{id}", parentOnly(s.choreH.Delete))
	mux.HandleFunc("POST /api/chores/{id}/complete", s.choreH.Complete)

	// Store items
	mux.HandleFunc("GET /api/store-items", s.storeItemH.List)
	mux.Handle("POST /api/store-items", parentOnly(s.storeItemH.Create))
	mux.Handle("PUT /api/store-items/{id}", parentOnly(s.storeItemH.Update))
	mux.Handle("DELETE /api/store-items/{id}", parentOnly(s.storeItemH.Delete))
	mux.HandleFunc("POST /api/store-items/{id}/purchase", s.storeItemH.Purchase)

	// Completions (approval queue)
	mux.Handle("GET /api/completions/pending", parentOnly(s.completionH.ListPending))
	mux.Handle("POST /api/completions/{id}/approve", parentOnly(s.completionH.Approve))
	mux.Handle("POST /api/completions/{id}/reject", parentOnly(s.completionH.Reject))

	// Money operations and history
	mux.Handle("POST /api/children/{id}/bonus", parentOnly(s.transactionH.Bonus))
	mux.Handle("POST /api/children/{id}/expense", parentOnly(s.transactionH.Expense))
	mux.HandleFunc("GET /api/children/{id}/ledger", s.transactionH.Ledger)

	// Push notifications (parent devices only)
	if s.pushH != nil {
		mux.Handle("POST /api/push/subscribe", parentOnly(s.pushH.Subscribe))
		mux.Handle("DELETE /api/push/subscriptions/{id}", parentOnly(s.pushH.Unsubscribe))
		mux.HandleFunc("GET /api/push/vapid-key", s.pushH.GetVAPIDKey)
	}

	// Backups
	mux.Handle("GET /api/backups", parentOnly(s.backupH.List))
	mux.Handle("GET /api/backups/status", parentOnly(s.backupH.Status))
	mux.Handle("POST /api/backups", parentOnly(s.backupH.RunNow))
	mux.Handle("POST /api/backups/{id}/restore", parentOnly(s.backupH.Restore))
}
