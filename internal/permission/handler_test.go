package permission_test

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"

	"github.com/frahmantamala/rbac-management/internal/core/database"
	"github.com/frahmantamala/rbac-management/internal/core/datamodel/rbac"
	"github.com/frahmantamala/rbac-management/internal/permission"
	permissionPostgres "github.com/frahmantamala/rbac-management/internal/permission/postgres"
	"github.com/frahmantamala/rbac-management/internal/transport"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

var _ = Describe("Permission Handler Integration", func() {
	var (
		db     *gorm.DB
		router *chi.Mux
		admin  *rbac.Role
	)

	BeforeEach(func() {
		var err error
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

		db, err = database.OpenSQLite(":memory:")
		Expect(err).NotTo(HaveOccurred())
		Expect(database.AutoMigrate(db)).To(Succeed())
		DeferCleanup(func() {
			sqlDB, _ := db.DB()
			_ = sqlDB.Close()
		})

		admin = &rbac.Role{Name: "Admin"}
		Expect(db.Create(admin).Error).NotTo(HaveOccurred())

		service := permission.NewService(permissionPostgres.NewPermissionRepository(db), slogger)
		handler := permission.NewHandler(&transport.BaseHandler{Logger: slogger}, service)

		router = chi.NewRouter()
		router.Get("/permission", handler.ListPermissions)
		router.Post("/permission", handler.CreatePermission)
		router.Get("/permission/{id}", handler.GetPermission)
		router.Get("/permission/name/{name}", handler.GetPermissionByName)
		router.Get("/permission/role/{roleId}", handler.GetPermissionsByRole)
		router.Put("/permission/{id}", handler.UpdatePermission)
		router.Delete("/permission/{id}", handler.DeletePermission)
	})

	serve := func(method, target, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, target, strings.NewReader(body))
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

	It("should create a permission under a role and list it for that role", func() {
		w := serve(http.MethodPost, "/permission", `{"name":"delete-user","action":"delete","resource":"user","role_id":"`+admin.ID+`"}`)
		Expect(w.Code).To(Equal(http.StatusCreated))

		var created permission.Permission
		decode(w, &created)
		Expect(*created.RoleID).To(Equal(admin.ID))

		w = serve(http.MethodGet, "/permission/role/"+admin.ID, "")
		Expect(w.Code).To(Equal(http.StatusOK))
		var perms []permission.Permission
		decode(w, &perms)
		Expect(perms).To(HaveLen(1))
		Expect(perms[0].ID).To(Equal(created.ID))
	})

	It("should return 404 when the role does not exist", func() {
		w := serve(http.MethodPost, "/permission", `{"name":"delete-user","action":"delete","resource":"user","role_id":"7f0c2a4e-5b7d-4c1e-9a2b-3c4d5e6f7a8b"}`)
		Expect(w.Code).To(Equal(http.StatusNotFound))

		var count int64
		Expect(db.Model(&rbac.Permission{}).Count(&count).Error).NotTo(HaveOccurred())
		Expect(count).To(BeZero())
	})

	It("should return 409 for a duplicate name", func() {
		Expect(serve(http.MethodPost, "/permission", `{"name":"read-user","action":"read","resource":"user"}`).Code).To(Equal(http.StatusCreated))

		w := serve(http.MethodPost, "/permission", `{"name":"read-user","action":"read","resource":"user"}`)
		Expect(w.Code).To(Equal(http.StatusConflict))
	})

	It("should list permissions ordered by name", func() {
		serve(http.MethodPost, "/permission", `{"name":"write-user","action":"write","resource":"user"}`)
		serve(http.MethodPost, "/permission", `{"name":"read-user","action":"read","resource":"user"}`)

		w := serve(http.MethodGet, "/permission", "")
		Expect(w.Code).To(Equal(http.StatusOK))
		var perms []permission.Permission
		decode(w, &perms)
		Expect(perms).To(HaveLen(2))
		Expect(perms[0].Name).To(Equal("read-user"))
	})

	It("should fetch by name, update and delete", func() {
		serve(http.MethodPost, "/permission", `{"name":"read-user","action":"read","resource":"user"}`)

		w := serve(http.MethodGet, "/permission/name/read-user", "")
		Expect(w.Code).To(Equal(http.StatusOK))
		var p permission.Permission
		decode(w, &p)

		w = serve(http.MethodPut, "/permission/"+p.ID, `{"resource":"account"}`)
		Expect(w.Code).To(Equal(http.StatusOK))
		var updated permission.Permission
		decode(w, &updated)
		Expect(updated.Resource).To(Equal("account"))

		Expect(serve(http.MethodDelete, "/permission/"+p.ID, "").Code).To(Equal(http.StatusOK))
		Expect(serve(http.MethodGet, "/permission/"+p.ID, "").Code).To(Equal(http.StatusNotFound))
		Expect(serve(http.MethodDelete, "/permission/"+p.ID, "").Code).To(Equal(http.StatusNotFound))
	})
})
