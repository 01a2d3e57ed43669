package auth_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"time"

	"github.com/go-chi/chi"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/frahmantamala/hr-management/internal"
	"github.com/frahmantamala/hr-management/internal/auth"
	authPostgres "github.com/frahmantamala/hr-management/internal/auth/postgres"
	userDatamodel "github.com/frahmantamala/hr-management/internal/core/datamodel/user"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Auth Handler Integration", func() {
	var (
		db        *gorm.DB
		router    chi.Router
		blacklist *authPostgres.DatabaseBlacklist
	)

	BeforeEach(func() {
		var err error
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(db.AutoMigrate(
			&userDatamodel.User{},
			&userDatamodel.Profile{},
			&userDatamodel.Device{},
			&userDatamodel.BlacklistedToken{},
		)).To(Succeed())

		Expect(db.Create(&userDatamodel.User{
			Username:     "manager",
			Email:        "manager@example.com",
			PasswordHash: hashPassword("s3cretpass"),
			IsActive:     true,
			Profile:      &userDatamodel.Profile{Role: internal.RoleManager},
		}).Error).To(Succeed())

		blacklist = authPostgres.NewDatabaseBlacklist(db)
		svc := auth.NewService(
			authPostgres.NewRepository(db),
			auth.NewJWTTokenGenerator(accessSecret, refreshSecret, 15*time.Minute, 24*time.Hour),
			blacklist,
			auth.NewPasswordResetTokens(resetSecret, time.Hour),
			slogger,
			auth.WithBCryptCost(bcrypt.MinCost),
		)
		handler := auth.NewHandler(svc)
		rbac := auth.NewRBACAuthorization(nil, slogger)

		router = chi.NewRouter()
		router.Post("/api/token/", handler.Login)
		router.Post("/api/token/refresh/", handler.RefreshToken)
		router.Group(func(r chi.Router) {
			r.Use(handler.AuthMiddleware)
			r.Post("/api/logout/", handler.Logout)
			r.Get("/api/active-devices/", handler.ActiveDevices)
			r.With(rbac.RequireAdmin()).Get("/api/admin-only/", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNoContent)
			})
			r.With(rbac.RequireStaff()).Get("/api/staff-only/", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNoContent)
			})
		})
	})

	do := func(method, path, token string, body interface{}) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		if body != nil {
			Expect(json.NewEncoder(&buf).Encode(body)).To(Succeed())
		}
		req := httptest.NewRequest(method, path, &buf)
		req.Header.Set("Content-Type", "application/json")
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	login := func(device string) auth.AuthTokens {
		w := do(http.MethodPost, "/api/token/", "", auth.LoginDTO{Username: "manager", Password: "s3cretpass", DeviceName: device})
		Expect(w.Code).To(Equal(http.StatusOK))
		var tokens auth.AuthTokens
		Expect(json.NewDecoder(w.Body).Decode(&tokens)).To(Succeed())
		return tokens
	}

	errorCode := func(w *httptest.ResponseRecorder) internal.ErrorCode {
		var resp internal.Response
		Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
		Expect(resp.Error).NotTo(BeNil())
		return resp.Error.Code
	}

	It("should reject bad credentials with 401", func() {
		w := do(http.MethodPost, "/api/token/", "", auth.LoginDTO{Username: "manager", Password: "nope-nope"})
		Expect(w.Code).To(Equal(http.StatusUnauthorized))
		Expect(errorCode(w)).To(Equal(internal.ErrCodeInvalidCredentials))
	})

	It("should reject a malformed body with 400", func() {
		req := httptest.NewRequest(http.MethodPost, "/api/token/", bytes.NewBufferString("{"))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(errorCode(w)).To(Equal(internal.ErrCodeInvalidBody))
	})

	It("should track devices and revoke the one logged out", func() {
		laptop := login("laptop")
		phone := login("phone")

		w := do(http.MethodGet, "/api/active-devices/", laptop.Access, nil)
		Expect(w.Code).To(Equal(http.StatusOK))
		var devices []auth.ActiveDevice
		Expect(json.NewDecoder(w.Body).Decode(&devices)).To(Succeed())
		Expect(devices).To(HaveLen(2))

		var phoneID int64
		for _, d := range devices {
			if d.DeviceName == "phone" {
				phoneID = d.ID
			}
		}
		Expect(phoneID).NotTo(BeZero())

		w = do(http.MethodPost, "/api/logout/", laptop.Access, map[string]int64{"device_id": phoneID})
		Expect(w.Code).To(Equal(http.StatusOK))

		w = do(http.MethodPost, "/api/token/refresh/", "", auth.RefreshTokenDTO{Refresh: phone.Refresh})
		Expect(w.Code).To(Equal(http.StatusUnauthorized))
		Expect(errorCode(w)).To(Equal(internal.ErrCodeInvalidToken))

		w = do(http.MethodPost, "/api/token/refresh/", "", auth.RefreshTokenDTO{Refresh: laptop.Refresh})
		Expect(w.Code).To(Equal(http.StatusOK))
		var access auth.AccessToken
		Expect(json.NewDecoder(w.Body).Decode(&access)).To(Succeed())
		Expect(access.Access).NotTo(BeEmpty())

		revoked, err := blacklist.Contains(context.Background(), "missing")
		Expect(err).NotTo(HaveOccurred())
		Expect(revoked).To(BeFalse())
	})

	It("should return 404 logging out an unknown device", func() {
		tokens := login("laptop")
		w := do(http.MethodPost, "/api/logout/", tokens.Access, map[string]int64{"device_id": 999})
		Expect(w.Code).To(Equal(http.StatusNotFound))
		Expect(errorCode(w)).To(Equal(internal.ErrCodeDeviceNotFound))
	})

	It("should require device_id or refresh on logout", func() {
		tokens := login("laptop")
		w := do(http.MethodPost, "/api/logout/", tokens.Access, map[string]string{})
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("should log out by refresh token", func() {
		tokens := login("laptop")
		w := do(http.MethodPost, "/api/logout/", tokens.Access, auth.LogoutDTO{Refresh: tokens.Refresh})
		Expect(w.Code).To(Equal(http.StatusOK))

		w = do(http.MethodPost, "/api/token/refresh/", "", auth.RefreshTokenDTO{Refresh: tokens.Refresh})
		Expect(w.Code).To(Equal(http.StatusUnauthorized))
	})

	It("should require a bearer token on protected routes", func() {
		w := do(http.MethodGet, "/api/active-devices/", "", nil)
		Expect(w.Code).To(Equal(http.StatusUnauthorized))
		Expect(errorCode(w)).To(Equal(internal.ErrCodeMissingToken))

		w = do(http.MethodGet, "/api/active-devices/", "not-a-jwt", nil)
		Expect(w.Code).To(Equal(http.StatusUnauthorized))
		Expect(errorCode(w)).To(Equal(internal.ErrCodeInvalidToken))
	})

	It("should authorize by the role claim", func() {
		tokens := login("laptop")

		w := do(http.MethodGet, "/api/staff-only/", tokens.Access, nil)
		Expect(w.Code).To(Equal(http.StatusNoContent))

		w = do(http.MethodGet, "/api/admin-only/", tokens.Access, nil)
		Expect(w.Code).To(Equal(http.StatusForbidden))
		Expect(errorCode(w)).To(Equal(internal.ErrCodeInsufficientRole))
	})

	It("should purge expired blacklist entries", func() {
		ctx := context.Background()
		for i := 0; i < 3; i++ {
			Expect(blacklist.Add(ctx, fmt.Sprintf("old-%d", i), time.Now().Add(-time.Hour))).To(Succeed())
		}
		Expect(blacklist.Add(ctx, "fresh", time.Now().Add(time.Hour))).To(Succeed())
		Expect(blacklist.Add(ctx, "fresh", time.Now().Add(time.Hour))).To(Succeed())

		n, err := blacklist.PurgeExpired(ctx, time.Now())
		Expect(err).NotTo(HaveOccurred())
		Expect(n).To(Equal(int64(3)))

		revoked, err := blacklist.Contains(ctx, "fresh")
		Expect(err).NotTo(HaveOccurred())
		Expect(revoked).To(BeTrue())
	})
})
