package resolver_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"

	"github.com/frahmantamala/rbac-management/internal/assignment"
	assignmentPostgres "github.com/frahmantamala/rbac-management/internal/assignment/postgres"
	"github.com/frahmantamala/rbac-management/internal/core/database"
	"github.com/frahmantamala/rbac-management/internal/permission"
	permissionPostgres "github.com/frahmantamala/rbac-management/internal/permission/postgres"
	"github.com/frahmantamala/rbac-management/internal/resolver"
	resolverPostgres "github.com/frahmantamala/rbac-management/internal/resolver/postgres"
	"github.com/frahmantamala/rbac-management/internal/role"
	rolePostgres "github.com/frahmantamala/rbac-management/internal/role/postgres"
	"github.com/frahmantamala/rbac-management/internal/transport"
	"github.com/frahmantamala/rbac-management/internal/user"
	userPostgres "github.com/frahmantamala/rbac-management/internal/user/postgres"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Resolver Handler Integration", func() {
	var (
		ctx         context.Context
		router      *chi.Mux
		users       *user.Service
		roles       *role.Service
		permissions *permission.Service
		assignments *assignment.Service
		u           *user.User
		admin       *role.Role
	)

	BeforeEach(func() {
		ctx = context.Background()
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

		db, err := database.OpenSQLite(":memory:")
		Expect(err).NotTo(HaveOccurred())
		Expect(database.AutoMigrate(db)).To(Succeed())
		DeferCleanup(func() {
			sqlDB, _ := db.DB()
			_ = sqlDB.Close()
		})

		users = user.NewService(userPostgres.NewUserRepository(db), slogger)
		roles = role.NewService(rolePostgres.NewRoleRepository(db), slogger)
		permissions = permission.NewService(permissionPostgres.NewPermissionRepository(db), slogger)
		assignments = assignment.NewService(assignmentPostgres.NewAssignmentRepository(db), slogger)
		service := resolver.NewService(resolverPostgres.NewResolverRepository(db), slogger)
		handler := resolver.NewHandler(&transport.BaseHandler{Logger: slogger}, service)

		router = chi.NewRouter()
		router.Get("/user/get-roles/{id}", handler.GetRoles)
		router.Get("/user/get-permissions/{id}", handler.GetPermissions)
		router.Post("/user/process/login/request/{id}", handler.ProcessLoginRequest)

		u, err = users.Create(ctx, user.CreateUserDTO{Email: "a@x.io", Username: "U"})
		Expect(err).NotTo(HaveOccurred())
		admin, err = roles.Create(ctx, role.CreateRoleDTO{Name: "Admin"})
		Expect(err).NotTo(HaveOccurred())
		_, err = permissions.Create(ctx, permission.CreatePermissionDTO{
			Name: "delete-user", Action: "delete", Resource: "user", RoleID: &admin.ID,
		})
		Expect(err).NotTo(HaveOccurred())
	})

	serve := func(method, target string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, target, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	decode := func(w *httptest.ResponseRecorder, dst interface{}) {
		var env struct {
			Data json.RawMessage `json:"data"`
		}
		Expect(json.NewDecoder(w.Body).Decode(&env)).To(Succeed())
		Expect(json.Unmarshal(env.Data, dst)).To(Succeed())
	}

	It("should resolve nothing before any role is assigned", func() {
		w := serve(http.MethodGet, "/user/get-permissions/"+u.ID)
		Expect(w.Code).To(Equal(http.StatusOK))

		var perms []resolver.ResolvedPermission
		decode(w, &perms)
		Expect(perms).NotTo(BeNil())
		Expect(perms).To(BeEmpty())
	})

	It("should resolve roles and permissions through an assignment", func() {
		_, err := assignments.AssignRole(ctx, assignment.AssignRoleDTO{UserID: u.ID, RoleID: admin.ID})
		Expect(err).NotTo(HaveOccurred())

		w := serve(http.MethodGet, "/user/get-roles/"+u.ID)
		Expect(w.Code).To(Equal(http.StatusOK))
		var resolvedRoles []role.Role
		decode(w, &resolvedRoles)
		Expect(resolvedRoles).To(HaveLen(1))
		Expect(resolvedRoles[0].Name).To(Equal("Admin"))

		w = serve(http.MethodGet, "/user/get-permissions/"+u.ID)
		Expect(w.Code).To(Equal(http.StatusOK))
		var perms []resolver.ResolvedPermission
		decode(w, &perms)
		Expect(perms).To(HaveLen(1))
		Expect(perms[0].Name).To(Equal("delete-user"))
		Expect(perms[0].Action).To(Equal("delete"))
		Expect(perms[0].Resource).To(Equal("user"))
		Expect(perms[0].RoleID).To(Equal(admin.ID))

		w = serve(http.MethodPost, "/user/process/login/request/"+u.ID)
		Expect(w.Code).To(Equal(http.StatusOK))
		var grouped map[string][]resolver.ResolvedPermission
		decode(w, &grouped)
		Expect(grouped).To(HaveLen(1))
		Expect(grouped[admin.ID]).To(HaveLen(1))
		Expect(grouped[admin.ID][0].Name).To(Equal("delete-user"))
	})

	It("should not include direct user grants", func() {
		direct, err := permissions.Create(ctx, permission.CreatePermissionDTO{Name: "read-user", Action: "read", Resource: "user"})
		Expect(err).NotTo(HaveOccurred())
		_, err = assignments.AssignPermission(ctx, assignment.AssignPermissionDTO{UserID: u.ID, PermissionID: direct.ID})
		Expect(err).NotTo(HaveOccurred())

		w := serve(http.MethodGet, "/user/get-permissions/"+u.ID)
		var perms []resolver.ResolvedPermission
		decode(w, &perms)
		Expect(perms).To(BeEmpty())
	})

	It("should list a permission granted by two roles twice", func() {
		viewer, err := roles.Create(ctx, role.CreateRoleDTO{Name: "Viewer"})
		Expect(err).NotTo(HaveOccurred())
		shared, err := permissions.GetByName(ctx, "delete-user")
		Expect(err).NotTo(HaveOccurred())
		_, err = assignments.AssignPermissionToRole(ctx, viewer.ID, shared.ID)
		Expect(err).NotTo(HaveOccurred())

		_, err = assignments.AssignRole(ctx, assignment.AssignRoleDTO{UserID: u.ID, RoleID: admin.ID})
		Expect(err).NotTo(HaveOccurred())
		_, err = assignments.AssignRole(ctx, assignment.AssignRoleDTO{UserID: u.ID, RoleID: viewer.ID})
		Expect(err).NotTo(HaveOccurred())

		w := serve(http.MethodGet, "/user/get-permissions/"+u.ID)
		var perms []resolver.ResolvedPermission
		decode(w, &perms)
		Expect(perms).To(HaveLen(2))
		Expect([]string{perms[0].RoleID, perms[1].RoleID}).To(ConsistOf(admin.ID, viewer.ID))
	})

	It("should stop resolving a role once it is deleted", func() {
		_, err := assignments.AssignRole(ctx, assignment.AssignRoleDTO{UserID: u.ID, RoleID: admin.ID})
		Expect(err).NotTo(HaveOccurred())

		deleted, err := roles.Delete(ctx, admin.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(deleted).To(BeTrue())

		w := serve(http.MethodGet, "/user/get-roles/"+u.ID)
		var resolvedRoles []role.Role
		decode(w, &resolvedRoles)
		Expect(resolvedRoles).To(BeEmpty())
	})

	It("should return 404 for an unknown user", func() {
		Expect(serve(http.MethodGet, "/user/get-roles/missing").Code).To(Equal(http.StatusNotFound))
		Expect(serve(http.MethodGet, "/user/get-permissions/missing").Code).To(Equal(http.StatusNotFound))
		Expect(serve(http.MethodPost, "/user/process/login/request/missing").Code).To(Equal(http.StatusNotFound))
	})
})
