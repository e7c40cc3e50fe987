package role_test

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"

	"github.com/frahmantamala/rbac-management/internal/core/database"
	"github.com/frahmantamala/rbac-management/internal/role"
	rolePostgres "github.com/frahmantamala/rbac-management/internal/role/postgres"
	"github.com/frahmantamala/rbac-management/internal/transport"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Role Handler Integration", func() {
	var router *chi.Mux

	BeforeEach(func() {
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

		db, err := database.OpenSQLite(":memory:")
		Expect(err).NotTo(HaveOccurred())
		Expect(database.AutoMigrate(db)).To(Succeed())
		DeferCleanup(func() {
			sqlDB, _ := db.DB()
			_ = sqlDB.Close()
		})

		service := role.NewService(rolePostgres.NewRoleRepository(db), slogger)
		handler := role.NewHandler(&transport.BaseHandler{Logger: slogger}, service)

		router = chi.NewRouter()
		router.Post("/role", handler.CreateRole)
		router.Get("/role/{id}", handler.GetRole)
		router.Get("/role/department/{department}", handler.GetDepartmentRoles)
		router.Get("/role/name/{name}", handler.GetRoleByName)
		router.Put("/role/{id}", handler.UpdateRole)
		router.Delete("/role/{id}", handler.DeleteRole)
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

	It("should create a role and fetch it by id and name", func() {
		w := serve(http.MethodPost, "/role", `{"name":"Admin","department":"Engineering"}`)
		Expect(w.Code).To(Equal(http.StatusCreated))

		var created role.Role
		Expect(decode(w, &created)).To(Equal("Role created successfully."))

		w = serve(http.MethodGet, "/role/"+created.ID, "")
		Expect(w.Code).To(Equal(http.StatusOK))
		var byID role.Role
		decode(w, &byID)
		Expect(byID.Name).To(Equal("Admin"))

		w = serve(http.MethodGet, "/role/name/Admin", "")
		Expect(w.Code).To(Equal(http.StatusOK))
		var byName role.Role
		decode(w, &byName)
		Expect(byName.ID).To(Equal(created.ID))
	})

	It("should list department roles as an empty array when none match", func() {
		w := serve(http.MethodGet, "/role/department/Nowhere", "")
		Expect(w.Code).To(Equal(http.StatusOK))

		var roles []role.Role
		decode(w, &roles)
		Expect(roles).NotTo(BeNil())
		Expect(roles).To(BeEmpty())
	})

	It("should reject unknown fields", func() {
		w := serve(http.MethodPost, "/role", `{"name":"Admin","color":"red"}`)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("should clear a department with an empty string", func() {
		w := serve(http.MethodPost, "/role", `{"name":"Support","department":"Ops"}`)
		Expect(w.Code).To(Equal(http.StatusCreated))
		var created role.Role
		decode(w, &created)

		w = serve(http.MethodPut, "/role/"+created.ID, `{"department":""}`)
		Expect(w.Code).To(Equal(http.StatusOK))
		var updated role.Role
		decode(w, &updated)
		Expect(updated.Department).To(BeNil())

		w = serve(http.MethodGet, "/role/department/Ops", "")
		var roles []role.Role
		decode(w, &roles)
		Expect(roles).To(BeEmpty())
	})

	It("should update and then delete a role", func() {
		w := serve(http.MethodPost, "/role", `{"name":"Admin"}`)
		var created role.Role
		decode(w, &created)

		w = serve(http.MethodPut, "/role/"+created.ID, `{"department":"Ops"}`)
		Expect(w.Code).To(Equal(http.StatusOK))
		var updated role.Role
		decode(w, &updated)
		Expect(updated.Name).To(Equal("Admin"))
		Expect(*updated.Department).To(Equal("Ops"))

		w = serve(http.MethodDelete, "/role/"+created.ID, "")
		Expect(w.Code).To(Equal(http.StatusOK))

		w = serve(http.MethodGet, "/role/"+created.ID, "")
		Expect(w.Code).To(Equal(http.StatusNotFound))
	})
})
