package routes

import (
	"net/http"

	"github.com/templui/darkroom/internal/app"
	"github.com/templui/darkroom/internal/handler"
	"github.com/templui/darkroom/internal/middleware"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	health := handler.NewHealthHandler(app.DB)
	auth := handler.NewAuthHandler(app.AuthService, app.UserService)
	account := handler.NewAccountHandler(app.AuthService, app.UserService)
	admin := handler.NewAdminHandler(app.AdminService, app.ImageService, app.CommentService)
	album := handler.NewAlbumHandler(app.AlbumService)
	image := handler.NewImageHandler(app.ImageService, app.Cfg.MaxUploadBytes())
	comment := handler.NewCommentHandler(app.CommentService)
	uploads := handler.NewUploadsHandler(app.VisibilityService)

	mux := http.NewServeMux()

	// ============================================================================
	// PUBLIC ROUTES
	// ============================================================================

	mux.HandleFunc("GET /api/health", health.Health)

	// Files (visibility checked per request)
	mux.HandleFunc("GET /uploads/{path...}", uploads.Serve)

	// Auth (rate limited)
	rateLimiter := middleware.RateLimitAuth()

	mux.HandleFunc("POST /api/signup", rateLimiter(auth.Signup))
	mux.HandleFunc("POST /api/login", rateLimiter(auth.Login))
	mux.HandleFunc("POST /api/logout", auth.Logout)
	mux.HandleFunc("GET /api/auth/check", auth.Check)
	mux.HandleFunc("GET /api/me", auth.Me)

	// Gallery
	mux.HandleFunc("GET /api/albums", album.List)
	mux.HandleFunc("GET /api/images", image.List)
	mux.HandleFunc("GET /api/images/{id}/comments", comment.List)

	// Anonymous callers may upload and comment, subject to service rules
	mux.HandleFunc("POST /api/images", image.Upload)
	mux.HandleFunc("POST /api/images/{id}/comments", comment.Create)

	// Likes need a user account; the service answers 401 otherwise
	mux.HandleFunc("POST /api/images/{id}/like", image.Like)
	mux.HandleFunc("DELETE /api/images/{id}/like", image.Unlike)

	// ============================================================================
	// AUTHENTICATED ROUTES
	// ============================================================================

	mux.HandleFunc("POST /api/albums", middleware.RequireAuth(album.Create))
	mux.HandleFunc("PUT /api/images/{id}", middleware.RequireAuth(image.Update))
	mux.HandleFunc("DELETE /api/images/{id}", middleware.RequireAuth(image.Delete))
	mux.HandleFunc("DELETE /api/comments/{id}", middleware.RequireAuth(comment.Delete))

	// Account
	mux.HandleFunc("GET /api/user/stats", middleware.RequireAuth(account.Stats))
	mux.HandleFunc("DELETE /api/user/me", middleware.RequireAuth(account.DeleteAccount))

	// ============================================================================
	// ADMIN ROUTES
	// ============================================================================

	mux.HandleFunc("PUT /api/albums/{id}", middleware.RequireAdmin(album.Update))
	mux.HandleFunc("DELETE /api/albums/{id}", middleware.RequireAdmin(album.Delete))
	mux.HandleFunc("GET /api/comments/all", middleware.RequireAdmin(admin.AllComments))
	mux.HandleFunc("GET /api/admin/stats", middleware.RequireAdmin(admin.Stats))
	mux.HandleFunc("GET /api/admin/pending-users", middleware.RequireAdmin(admin.PendingUsers))
	mux.HandleFunc("POST /api/admin/approve-user", middleware.RequireAdmin(admin.ApproveUser))
	mux.HandleFunc("POST /api/admin/reject-user", middleware.RequireAdmin(admin.RejectUser))
	mux.HandleFunc("DELETE /api/admin/users/{id}", middleware.RequireAdmin(admin.DeleteUser))
	mux.HandleFunc("POST /api/admin/thumbnails/regenerate", middleware.RequireAdmin(admin.RegenerateThumbnails))

	// ============================================================================
	// FALLBACK
	// ============================================================================

	// Optional static frontend
	if app.Cfg.PublicDir != "" {
		mux.Handle("GET /", http.FileServer(http.Dir(app.Cfg.PublicDir)))
	}

	// Global middleware - executed in order (top to bottom)
	return middleware.Chain(
		mux,
		middleware.RejectUploadTraversal,    // Before the mux cleans and redirects the path
		middleware.Session(app.AuthService), // Resolves the caller before anything logs it
		middleware.RequestLogging,
	)
}
