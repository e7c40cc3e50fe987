package assignment_test

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"

	"github.com/frahmantamala/rbac-management/internal/assignment"
	assignmentPostgres "github.com/frahmantamala/rbac-management/internal/assignment/postgres"
	"github.com/frahmantamala/rbac-management/internal/permission"
	"github.com/frahmantamala/rbac-management/internal/transport"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Assignment Handler Integration", func() {
	var (
		f      *fixture
		router *chi.Mux
	)

	BeforeEach(func() {
		f = newFixture()
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service := assignment.NewService(assignmentPostgres.NewAssignmentRepository(f.db), slogger)
		handler := assignment.NewHandler(&transport.BaseHandler{Logger: slogger}, service)

		router = chi.NewRouter()
		router.Post("/user/assign/role", handler.AssignRole)
		router.Delete("/user/remove/role/{id}", handler.RemoveRole)
		router.Get("/user/roles/{id}", handler.GetUserAssignments)
		router.Post("/user/assign/permission", handler.AssignPermission)
		router.Delete("/user/remove/permission/user/{id}/permission/{permission_id}", handler.RemovePermission)
		router.Get("/user/direct-permissions/{id}", handler.GetDirectPermissions)
		router.Post("/role/assign/permission/role/{id}/permission/{permission_id}", handler.AssignPermissionToRole)
		router.Delete("/role/remove/permission/role/{id}/permission/{permission_id}", handler.RemovePermissionFromRole)
		router.Get("/role/permission/role/{id}", handler.GetRolePermissions)
	})

	serve := func(method, target, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, target, strings.NewReader(body))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	decode := func(w *httptest.ResponseRecorder, dst interface{}) string {
		var env struct {
			Data    json.RawMessage `json:"data"`
			Message string          `json:"message"`
		}
		Expect(json.NewDecoder(w.Body).Decode(&env)).To(Succeed())
		Expect(json.Unmarshal(env.Data, dst)).To(Succeed())
		return env.Message
	}

	It("should assign a role from a camelCase body and remove it by assignment id", func() {
		w := serve(http.MethodPost, "/user/assign/role", `{"userId":"`+f.user.ID+`","roleId":"`+f.admin.ID+`"}`)
		Expect(w.Code).To(Equal(http.StatusOK))

		var ur assignment.UserRole
		Expect(decode(w, &ur)).To(Equal("Role assigned successfully."))
		Expect(ur.UserID).To(Equal(f.user.ID))

		w = serve(http.MethodGet, "/user/roles/"+f.user.ID, "")
		Expect(w.Code).To(Equal(http.StatusOK))
		var assignments []assignment.UserRole
		decode(w, &assignments)
		Expect(assignments).To(HaveLen(1))

		w = serve(http.MethodDelete, "/user/remove/role/"+ur.ID, "")
		Expect(w.Code).To(Equal(http.StatusOK))
		var removed bool
		decode(w, &removed)
		Expect(removed).To(BeTrue())
	})

	It("should answer false for an unknown assignment id", func() {
		w := serve(http.MethodDelete, "/user/remove/role/missing", "")
		Expect(w.Code).To(Equal(http.StatusOK))

		var removed bool
		Expect(decode(w, &removed)).To(Equal("No matching role assignment."))
		Expect(removed).To(BeFalse())
	})

	It("should return 404 when assigning an unknown role", func() {
		w := serve(http.MethodPost, "/user/assign/role", `{"userId":"`+f.user.ID+`","roleId":"missing"}`)
		Expect(w.Code).To(Equal(http.StatusNotFound))
	})

	It("should return 400 when the role id is missing", func() {
		w := serve(http.MethodPost, "/user/assign/role", `{"userId":"`+f.user.ID+`"}`)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("should manage direct permissions", func() {
		w := serve(http.MethodPost, "/user/assign/permission", `{"userId":"`+f.user.ID+`","permissionId":"`+f.readUser.ID+`"}`)
		Expect(w.Code).To(Equal(http.StatusOK))

		w = serve(http.MethodGet, "/user/direct-permissions/"+f.user.ID, "")
		var perms []permission.Permission
		decode(w, &perms)
		Expect(perms).To(HaveLen(1))

		w = serve(http.MethodDelete, "/user/remove/permission/user/"+f.user.ID+"/permission/"+f.readUser.ID, "")
		Expect(w.Code).To(Equal(http.StatusOK))
		var removed bool
		decode(w, &removed)
		Expect(removed).To(BeTrue())
	})

	It("should manage role grants", func() {
		w := serve(http.MethodPost, "/role/assign/permission/role/"+f.admin.ID+"/permission/"+f.deleteUser.ID, "")
		Expect(w.Code).To(Equal(http.StatusOK))

		w = serve(http.MethodGet, "/role/permission/role/"+f.admin.ID, "")
		var perms []permission.Permission
		decode(w, &perms)
		Expect(perms).To(HaveLen(1))
		Expect(perms[0].Name).To(Equal("delete-user"))

		w = serve(http.MethodDelete, "/role/remove/permission/role/"+f.admin.ID+"/permission/"+f.deleteUser.ID, "")
		var removed bool
		decode(w, &removed)
		Expect(removed).To(BeTrue())

		Expect(serve(http.MethodGet, "/role/permission/role/missing", "").Code).To(Equal(http.StatusNotFound))
	})
})
