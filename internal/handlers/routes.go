package handlers

import (
	"net/http"

	"versequest/internal/logger"
	"versequest/internal/metrics"
)

// Router bundles the handlers served by the API
type Router struct {
	Middleware *Middleware
	Auth       *AuthHandler
	Verses     *VerseHandler
	Progress   *ProgressHandler
	Admin      *AdminHandler
	Metrics    *metrics.Metrics
	Log        *logger.Logger

	// StaticPath, if set, is served under /static/ (verse audio lives in
	// its audio/ subdirectory).
	StaticPath string
}

// Handler builds the route table wrapped in request logging
func (rt *Router) Handler() http.Handler {
	mw := rt.Middleware
	mux := http.NewServeMux()

	// Ops
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.Handle("GET /metrics", rt.Metrics.Handler())
	if rt.StaticPath != "" {
		mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir(rt.StaticPath))))
	}

	// Auth
	mux.HandleFunc("POST /api/register", mw.RateLimit(rt.Auth.Register))
	mux.HandleFunc("POST /api/login", mw.RateLimit(rt.Auth.Login))
	mux.HandleFunc("POST /api/logout", rt.Auth.Logout)
	mux.HandleFunc("GET /api/session", mw.RequireAuth(rt.Auth.Session))
	mux.HandleFunc("GET /api/oauth/providers", rt.Auth.Providers)
	mux.HandleFunc("GET /auth/{provider}/start", rt.Auth.StartOAuth)
	mux.HandleFunc("GET /auth/{provider}/callback", rt.Auth.OAuthCallback)

	// Verses and practice
	mux.HandleFunc("GET /api/verses", mw.RequireAuth(rt.Verses.ListVerses))
	mux.HandleFunc("GET /api/verses/lookup", mw.RequireAuth(rt.Verses.LookupVerse))
	mux.HandleFunc("GET /api/verses/{id}", mw.RequireAuth(rt.Verses.GetVerse))
	mux.HandleFunc("POST /api/verses/{id}/read", mw.RequireAuth(mw.CSRFProtect(rt.Verses.MarkRead)))
	mux.HandleFunc("GET /api/verses/{id}/fragments", mw.RequireAuth(rt.Verses.Fragments))
	mux.HandleFunc("GET /api/verses/{id}/blanks", mw.RequireAuth(rt.Verses.Blanks))
	mux.HandleFunc("POST /api/verses/{id}/blanks", mw.RequireAuth(mw.CSRFProtect(rt.Verses.CheckBlanks)))
	mux.HandleFunc("POST /api/verses/{id}/recall", mw.RequireAuth(mw.CSRFProtect(rt.Verses.Recall)))

	// Progress
	mux.HandleFunc("GET /api/progress", mw.RequireAuth(rt.Progress.Progress))
	mux.HandleFunc("GET /api/tiers", rt.Progress.Tiers)

	// Admin
	mux.HandleFunc("GET /api/admin/settings", mw.RequireAdmin(rt.Admin.GetSettings))
	mux.HandleFunc("POST /api/admin/settings", mw.RequireAdmin(mw.CSRFProtect(rt.Admin.UpdateSettings)))
	mux.HandleFunc("POST /api/admin/verses/seed", mw.RequireAdmin(mw.CSRFProtect(rt.Admin.SeedVerses)))
	mux.HandleFunc("POST /api/admin/verses/audio", mw.RequireAdmin(mw.CSRFProtect(rt.Admin.GenerateAudio)))
	mux.HandleFunc("GET /api/admin/users", mw.RequireAdmin(rt.Admin.ListUsers))
	mux.HandleFunc("GET /api/admin/backup", mw.RequireAdmin(rt.Admin.ExportBackup))
	mux.HandleFunc("POST /api/admin/backup", mw.RequireAdmin(mw.CSRFProtect(rt.Admin.ImportBackup)))

	return Logging(rt.Log, rt.Metrics, mux)
}
