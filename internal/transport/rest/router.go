package rest

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/rbac-management/internal"
	"github.com/frahmantamala/rbac-management/internal/assignment"
	"github.com/frahmantamala/rbac-management/internal/permission"
	"github.com/frahmantamala/rbac-management/internal/resolver"
	"github.com/frahmantamala/rbac-management/internal/role"
	"github.com/frahmantamala/rbac-management/internal/transport/middleware"
	"github.com/frahmantamala/rbac-management/internal/transport/swagger"
	"github.com/frahmantamala/rbac-management/internal/user"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
)

const OpenAPIPath = "./api/openapi.yml"

type Handlers struct {
	User       *user.Handler
	Role       *role.Handler
	Permission *permission.Handler
	Assignment *assignment.Handler
	Resolver   *resolver.Handler
}

func RegisterAllRoutes(router chi.Router, db Pinger, h Handlers, cfg internal.ServerConfig, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	router.Use(middleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.CORS(cfg.AllowedOrigins))
	if cfg.RequestTimeout > 0 {
		router.Use(chiMiddleware.Timeout(cfg.RequestTimeout))
	}

	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, OpenAPIPath)
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		r.Route("/user", func(ur chi.Router) {
			ur.Post("/", h.User.CreateUser)
			ur.Get("/{id}", h.User.GetUser)
			ur.Get("/email/{email}", h.User.GetUserByEmail)
			ur.Get("/username/{username}", h.User.GetUserByUsername)
			ur.Put("/{id}", h.User.UpdateUser)
			ur.Delete("/{id}", h.User.DeleteUser)

			ur.Post("/assign/role", h.Assignment.AssignRole)
			ur.Delete("/remove/role/{id}", h.Assignment.RemoveRole)
			ur.Get("/roles/{id}", h.Assignment.GetUserAssignments)
			ur.Post("/assign/permission", h.Assignment.AssignPermission)
			ur.Delete("/remove/permission/user/{id}/permission/{permission_id}", h.Assignment.RemovePermission)
			ur.Get("/direct-permissions/{id}", h.Assignment.GetDirectPermissions)

			ur.Get("/get-roles/{id}", h.Resolver.GetRoles)
			ur.Get("/get-permissions/{id}", h.Resolver.GetPermissions)
			ur.Post("/process/login/request/{id}", h.Resolver.ProcessLoginRequest)
		})

		r.Route("/role", func(rr chi.Router) {
			rr.Post("/", h.Role.CreateRole)
			rr.Get("/{id}", h.Role.GetRole)
			rr.Get("/department/{department}", h.Role.GetDepartmentRoles)
			rr.Get("/name/{name}", h.Role.GetRoleByName)
			rr.Put("/{id}", h.Role.UpdateRole)
			rr.Delete("/{id}", h.Role.DeleteRole)

			rr.Post("/assign/permission/role/{id}/permission/{permission_id}", h.Assignment.AssignPermissionToRole)
			rr.Delete("/remove/permission/role/{id}/permission/{permission_id}", h.Assignment.RemovePermissionFromRole)
			rr.Get("/permission/role/{id}", h.Assignment.GetRolePermissions)
		})

		r.Route("/permission", func(pr chi.Router) {
			pr.Get("/", h.Permission.ListPermissions)
			pr.Post("/", h.Permission.CreatePermission)
			pr.Get("/{id}", h.Permission.GetPermission)
			pr.Get("/name/{name}", h.Permission.GetPermissionByName)
			pr.Get("/role/{roleId}", h.Permission.GetPermissionsByRole)
			pr.Put("/{id}", h.Permission.UpdatePermission)
			pr.Delete("/{id}", h.Permission.DeletePermission)
		})
	})
}
