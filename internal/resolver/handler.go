package resolver

import (
	"context"
	"net/http"

	"github.com/frahmantamala/rbac-management/internal/role"
	"github.com/frahmantamala/rbac-management/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	ResolveRoles(ctx context.Context, userID string) ([]*role.Role, error)
	ResolvePermissions(ctx context.Context, userID string) ([]*ResolvedPermission, error)
	ProcessLoginRequest(ctx context.Context, userID string) (PermissionsByRole, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

// GetRoles handles GET /user/get-roles/{id}
func (h *Handler) GetRoles(w http.ResponseWriter, r *http.Request) {
	roles, err := h.Service.ResolveRoles(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, roles, "Roles retrieved successfully.")
}

// GetPermissions handles GET /user/get-permissions/{id}
func (h *Handler) GetPermissions(w http.ResponseWriter, r *http.Request) {
	perms, err := h.Service.ResolvePermissions(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, perms, "Permissions retrieved successfully.")
}

// ProcessLoginRequest handles POST /user/process/login/request/{id}
func (h *Handler) ProcessLoginRequest(w http.ResponseWriter, r *http.Request) {
	grouped, err := h.Service.ProcessLoginRequest(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, grouped, "Login request processed successfully.")
}
