package assignment

import (
	"context"
	"net/http"

	"github.com/frahmantamala/rbac-management/internal/permission"
	"github.com/frahmantamala/rbac-management/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	AssignRole(ctx context.Context, dto AssignRoleDTO) (*UserRole, error)
	RemoveRoleAssignment(ctx context.Context, assignmentID string) (bool, error)
	ListUserRoles(ctx context.Context, userID string) ([]*UserRole, error)
	AssignPermission(ctx context.Context, dto AssignPermissionDTO) (*UserPermission, error)
	RemovePermission(ctx context.Context, userID, permissionID string) (bool, error)
	ListDirectPermissions(ctx context.Context, userID string) ([]*permission.Permission, error)
	AssignPermissionToRole(ctx context.Context, roleID, permissionID string) (*RolePermission, error)
	RemovePermissionFromRole(ctx context.Context, roleID, permissionID string) (bool, error)
	ListRolePermissions(ctx context.Context, roleID string) ([]*permission.Permission, error)
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

// AssignRole handles POST /user/assign/role
func (h *Handler) AssignRole(w http.ResponseWriter, r *http.Request) {
	var dto AssignRoleDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	ur, err := h.Service.AssignRole(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, ur, "Role assigned successfully.")
}

// RemoveRole handles DELETE /user/remove/role/{id}. The id is the
// assignment id; an unknown id answers with data=false.
func (h *Handler) RemoveRole(w http.ResponseWriter, r *http.Request) {
	removed, err := h.Service.RemoveRoleAssignment(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	if !removed {
		h.WriteSuccess(w, http.StatusOK, false, "No matching role assignment.")
		return
	}
	h.WriteSuccess(w, http.StatusOK, true, "Role removed successfully.")
}

// GetUserAssignments handles GET /user/roles/{id}
func (h *Handler) GetUserAssignments(w http.ResponseWriter, r *http.Request) {
	roles, err := h.Service.ListUserRoles(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, roles, "Role assignments retrieved successfully.")
}

// AssignPermission handles POST /user/assign/permission
func (h *Handler) AssignPermission(w http.ResponseWriter, r *http.Request) {
	var dto AssignPermissionDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	up, err := h.Service.AssignPermission(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, up, "Permission assigned successfully.")
}

// RemovePermission handles DELETE /user/remove/permission/user/{id}/permission/{permission_id}
func (h *Handler) RemovePermission(w http.ResponseWriter, r *http.Request) {
	removed, err := h.Service.RemovePermission(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "permission_id"))
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	if !removed {
		h.WriteSuccess(w, http.StatusOK, false, "User does not hold this permission directly.")
		return
	}
	h.WriteSuccess(w, http.StatusOK, true, "Permission removed successfully.")
}

// GetDirectPermissions handles GET /user/direct-permissions/{id}
func (h *Handler) GetDirectPermissions(w http.ResponseWriter, r *http.Request) {
	perms, err := h.Service.ListDirectPermissions(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, perms, "Permissions retrieved successfully.")
}

// AssignPermissionToRole handles POST /role/assign/permission/role/{id}/permission/{permission_id}
func (h *Handler) AssignPermissionToRole(w http.ResponseWriter, r *http.Request) {
	rp, err := h.Service.AssignPermissionToRole(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "permission_id"))
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, rp, "Permission assigned successfully.")
}

// RemovePermissionFromRole handles DELETE /role/remove/permission/role/{id}/permission/{permission_id}
func (h *Handler) RemovePermissionFromRole(w http.ResponseWriter, r *http.Request) {
	removed, err := h.Service.RemovePermissionFromRole(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "permission_id"))
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	if !removed {
		h.WriteSuccess(w, http.StatusOK, false, "Role does not grant this permission.")
		return
	}
	h.WriteSuccess(w, http.StatusOK, true, "Permission removed successfully.")
}

// GetRolePermissions handles GET /role/permission/role/{id}
func (h *Handler) GetRolePermissions(w http.ResponseWriter, r *http.Request) {
	perms, err := h.Service.ListRolePermissions(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, perms, "Permissions retrieved successfully.")
}
