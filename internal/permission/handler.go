package permission

import (
	"context"
	"net/http"

	"github.com/frahmantamala/rbac-management/internal"
	"github.com/frahmantamala/rbac-management/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	Create(ctx context.Context, dto CreatePermissionDTO) (*Permission, error)
	GetByID(ctx context.Context, id string) (*Permission, error)
	GetByName(ctx context.Context, name string) (*Permission, error)
	List(ctx context.Context) ([]*Permission, error)
	ListByRole(ctx context.Context, roleID string) ([]*Permission, error)
	Update(ctx context.Context, id string, dto UpdatePermissionDTO) (*Permission, error)
	Delete(ctx context.Context, id string) (bool, error)
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

func (h *Handler) CreatePermission(w http.ResponseWriter, r *http.Request) {
	var dto CreatePermissionDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	p, err := h.Service.Create(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusCreated, p, "Permission created successfully.")
}

func (h *Handler) ListPermissions(w http.ResponseWriter, r *http.Request) {
	perms, err := h.Service.List(r.Context())
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, perms, "Permissions retrieved successfully.")
}

func (h *Handler) GetPermission(w http.ResponseWriter, r *http.Request) {
	p, err := h.Service.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, p, "Permission retrieved successfully.")
}

func (h *Handler) GetPermissionByName(w http.ResponseWriter, r *http.Request) {
	p, err := h.Service.GetByName(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, p, "Permission retrieved successfully.")
}

func (h *Handler) GetPermissionsByRole(w http.ResponseWriter, r *http.Request) {
	perms, err := h.Service.ListByRole(r.Context(), chi.URLParam(r, "roleId"))
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, perms, "Permissions retrieved successfully.")
}

func (h *Handler) UpdatePermission(w http.ResponseWriter, r *http.Request) {
	var dto UpdatePermissionDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	p, err := h.Service.Update(r.Context(), chi.URLParam(r, "id"), dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, p, "Permission updated successfully.")
}

func (h *Handler) DeletePermission(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.Service.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	if !deleted {
		h.HandleServiceError(w, r, internal.ErrPermissionNotFound())
		return
	}
	h.WriteSuccess(w, http.StatusOK, true, "Permission deleted successfully.")
}
