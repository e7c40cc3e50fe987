package user_test

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"

	"github.com/frahmantamala/rbac-management/internal/core/database"
	"github.com/frahmantamala/rbac-management/internal/transport"
	"github.com/frahmantamala/rbac-management/internal/user"
	userPostgres "github.com/frahmantamala/rbac-management/internal/user/postgres"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type envelope struct {
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   *struct {
		Type    string `json:"type"`
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

var _ = Describe("User Handler Integration", func() {
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

		service := user.NewService(userPostgres.NewUserRepository(db), slogger)
		handler := user.NewHandler(&transport.BaseHandler{Logger: slogger}, service)

		router = chi.NewRouter()
		router.Post("/user", handler.CreateUser)
		router.Get("/user/{id}", handler.GetUser)
		router.Get("/user/email/{email}", handler.GetUserByEmail)
		router.Get("/user/username/{username}", handler.GetUserByUsername)
		router.Put("/user/{id}", handler.UpdateUser)
		router.Delete("/user/{id}", handler.DeleteUser)
	})

	do := func(method, target, body string) (*httptest.ResponseRecorder, envelope) {
		var req *http.Request
		if body == "" {
			req = httptest.NewRequest(method, target, nil)
		} else {
			req = httptest.NewRequest(method, target, strings.NewReader(body))
		}
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		var env envelope
		Expect(json.NewDecoder(w.Body).Decode(&env)).To(Succeed())
		return w, env
	}

	createUser := func(email, username string) user.User {
		w, env := do(http.MethodPost, "/user", `{"email":"`+email+`","username":"`+username+`"}`)
		Expect(w.Code).To(Equal(http.StatusCreated))
		var u user.User
		Expect(json.Unmarshal(env.Data, &u)).To(Succeed())
		return u
	}

	It("should create a user and wrap it in the success envelope", func() {
		w, env := do(http.MethodPost, "/user", `{"email":"a@x.io","username":"alice"}`)

		Expect(w.Code).To(Equal(http.StatusCreated))
		Expect(w.Header().Get("Content-Type")).To(ContainSubstring("application/json"))
		Expect(env.Message).To(Equal("User created successfully."))
		Expect(env.Error).To(BeNil())

		var u user.User
		Expect(json.Unmarshal(env.Data, &u)).To(Succeed())
		Expect(u.ID).NotTo(BeEmpty())
		Expect(u.Email).To(Equal("a@x.io"))
	})

	It("should return 400 for an invalid payload", func() {
		w, env := do(http.MethodPost, "/user", `{"email":"bad","username":"alice"}`)

		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(env.Error).NotTo(BeNil())
		Expect(env.Error.Type).To(Equal("VALIDATION_ERROR"))
	})

	It("should return 400 for an empty body", func() {
		w, env := do(http.MethodPost, "/user", "")

		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(env.Error.Code).To(Equal("INVALID_BODY"))
	})

	It("should return 409 for a duplicate username", func() {
		createUser("a@x.io", "alice")

		w, env := do(http.MethodPost, "/user", `{"email":"b@x.io","username":"alice"}`)
		Expect(w.Code).To(Equal(http.StatusConflict))
		Expect(env.Error.Code).To(Equal("USER_EXISTS"))
	})

	It("should look a user up by id, email and username", func() {
		created := createUser("a@x.io", "alice")

		for _, target := range []string{"/user/" + created.ID, "/user/email/a@x.io", "/user/username/alice"} {
			w, env := do(http.MethodGet, target, "")
			Expect(w.Code).To(Equal(http.StatusOK), target)

			var u user.User
			Expect(json.Unmarshal(env.Data, &u)).To(Succeed())
			Expect(u.ID).To(Equal(created.ID))
		}
	})

	It("should return 404 for an unknown user", func() {
		w, env := do(http.MethodGet, "/user/4c1f6a0e-0000-0000-0000-000000000000", "")

		Expect(w.Code).To(Equal(http.StatusNotFound))
		Expect(env.Error.Code).To(Equal("USER_NOT_FOUND"))
		Expect(env.Error.Message).To(Equal("User not found."))
	})

	It("should update a user", func() {
		created := createUser("a@x.io", "alice")

		w, env := do(http.MethodPut, "/user/"+created.ID, `{"email":"alice@x.io"}`)
		Expect(w.Code).To(Equal(http.StatusOK))

		var u user.User
		Expect(json.Unmarshal(env.Data, &u)).To(Succeed())
		Expect(u.Email).To(Equal("alice@x.io"))
		Expect(u.Username).To(Equal("alice"))
	})

	It("should delete a user once", func() {
		created := createUser("a@x.io", "alice")

		w, env := do(http.MethodDelete, "/user/"+created.ID, "")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(string(env.Data)).To(Equal("true"))

		w, _ = do(http.MethodDelete, "/user/"+created.ID, "")
		Expect(w.Code).To(Equal(http.StatusNotFound))
	})
})
