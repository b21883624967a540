package routes

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/convitapp/convite-api/internal/authz"
	"github.com/convitapp/convite-api/internal/handlers"
	"github.com/convitapp/convite-api/internal/models"
)

// NewRouter sets up the API routes. Everything under /api except signup and
// login requires a valid token; stats is admin-only. Stored artifacts are
// served under mediaBaseURL straight from the media directory.
func NewRouter(
	auth *handlers.AuthHandler,
	templates *handlers.TemplateHandler,
	generate *handlers.GenerateHandler,
	upload *handlers.UploadHandler,
	health *handlers.HealthHandler,
	mediaBaseURL, mediaDir string,
) *mux.Router {
	router := mux.NewRouter()

	// Health check route
	router.HandleFunc("/health", health.Check).Methods(http.MethodGet)

	// Public auth endpoints
	router.HandleFunc("/api/signup", auth.SignUp).Methods(http.MethodPost)
	router.HandleFunc("/api/login", auth.Login).Methods(http.MethodPost)

	// Stored artifacts (uploads and generated invites)
	router.PathPrefix(mediaBaseURL + "/").Handler(
		http.StripPrefix(mediaBaseURL+"/", http.FileServer(http.Dir(mediaDir))))

	// Authenticated API
	api := router.PathPrefix("/api").Subrouter()
	api.Use(auth.JWTMiddleware)

	api.HandleFunc("/templates", templates.ListTemplates).Methods(http.MethodGet)
	api.HandleFunc("/templates", templates.CreateTemplate).Methods(http.MethodPost)
	api.HandleFunc("/templates/{templateID}", templates.GetTemplate).Methods(http.MethodGet)
	api.HandleFunc("/templates/{templateID}", templates.UpdateTemplate).Methods(http.MethodPut)
	api.HandleFunc("/templates/{templateID}", templates.DeleteTemplate).Methods(http.MethodDelete)
	api.HandleFunc("/templates/{templateID}/fields", templates.GetTemplateFields).Methods(http.MethodGet)

	api.HandleFunc("/generate/{templateID}", generate.Generate).Methods(http.MethodPost)
	api.HandleFunc("/templates/{templateID}/bulk-generate", generate.BulkGenerate).Methods(http.MethodPost)
	api.HandleFunc("/templates/{templateID}/generated", generate.ListGeneratedInvites).Methods(http.MethodGet)
	api.HandleFunc("/generated/{inviteID}", generate.GetGeneratedInvite).Methods(http.MethodGet)

	api.HandleFunc("/upload", upload.Upload).Methods(http.MethodPost)

	api.Handle("/stats",
		authz.RequireRoleHandler(models.RoleAdmin, http.HandlerFunc(generate.Stats))).
		Methods(http.MethodGet)

	return router
}
