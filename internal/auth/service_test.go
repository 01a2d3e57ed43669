package auth_test

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/frahmantamala/hr-management/internal"
	"github.com/frahmantamala/hr-management/internal/auth"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// MockRepository implements auth.RepositoryAPI for testing
type MockRepository struct {
	mu         sync.Mutex
	accounts   map[int64]*auth.Account
	devices    map[int64]*auth.Device
	nextDevice int64
	shouldFail bool
	failError  error
}

func NewMockRepository() *MockRepository {
	return &MockRepository{
		accounts:   make(map[int64]*auth.Account),
		devices:    make(map[int64]*auth.Device),
		nextDevice: 1,
	}
}

func (m *MockRepository) AddAccount(acc *auth.Account) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[acc.ID] = acc
}

func (m *MockRepository) find(match func(*auth.Account) bool) (*auth.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.shouldFail {
		return nil, m.failError
	}
	for _, acc := range m.accounts {
		if match(acc) {
			copied := *acc
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *MockRepository) GetAccountByUsername(ctx context.Context, username string) (*auth.Account, error) {
	return m.find(func(a *auth.Account) bool { return a.Username == username })
}

func (m *MockRepository) GetAccountByID(ctx context.Context, id int64) (*auth.Account, error) {
	return m.find(func(a *auth.Account) bool { return a.ID == id })
}

func (m *MockRepository) GetAccountByEmail(ctx context.Context, email string) (*auth.Account, error) {
	return m.find(func(a *auth.Account) bool { return strings.EqualFold(a.Email, email) })
}

func (m *MockRepository) TouchLastLogin(ctx context.Context, userID int64, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if acc, ok := m.accounts[userID]; ok {
		acc.LastLogin = &at
	}
	return nil
}

func (m *MockRepository) UpdatePassword(ctx context.Context, userID int64, passwordHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.shouldFail {
		return m.failError
	}
	m.accounts[userID].PasswordHash = passwordHash
	return nil
}

func (m *MockRepository) CreateDevice(ctx context.Context, device *auth.Device) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.shouldFail {
		return m.failError
	}
	device.ID = m.nextDevice
	device.CreatedAt = time.Now()
	m.nextDevice++
	copied := *device
	m.devices[device.ID] = &copied
	return nil
}

func (m *MockRepository) GetDevice(ctx context.Context, id, userID int64) (*auth.Device, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.devices[id]
	if !ok || d.UserID != userID {
		return nil, nil
	}
	copied := *d
	return &copied, nil
}

func (m *MockRepository) ListDevices(ctx context.Context, userID int64) ([]*auth.Device, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*auth.Device
	for _, d := range m.devices {
		if d.UserID == userID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (m *MockRepository) DeleteDevice(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.devices, id)
	return nil
}

func (m *MockRepository) DeleteDevicesByTokenID(ctx context.Context, tokenID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, d := range m.devices {
		if d.TokenID == tokenID {
			delete(m.devices, id)
		}
	}
	return nil
}

type memoryBlacklist struct {
	mu      sync.Mutex
	revoked map[string]time.Time
}

func newMemoryBlacklist() *memoryBlacklist {
	return &memoryBlacklist{revoked: make(map[string]time.Time)}
}

func (b *memoryBlacklist) Add(ctx context.Context, tokenID string, expiresAt time.Time) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.revoked[tokenID] = expiresAt
	return nil
}

func (b *memoryBlacklist) Contains(ctx context.Context, tokenID string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.revoked[tokenID]
	return ok, nil
}

type fakeLimiter struct {
	failures map[string]int
	max      int
	resets   int
}

func (l *fakeLimiter) Allow(ctx context.Context, key string) (bool, error) {
	return l.failures[key] < l.max, nil
}

func (l *fakeLimiter) RecordFailure(ctx context.Context, key string) error {
	l.failures[key]++
	return nil
}

func (l *fakeLimiter) Reset(ctx context.Context, key string) error {
	delete(l.failures, key)
	l.resets++
	return nil
}

type fakeMailer struct {
	mu    sync.Mutex
	links map[string]string
	err   error
}

func (m *fakeMailer) SendPasswordReset(ctx context.Context, to, link string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.links[to] = link
	return nil
}

func (m *fakeMailer) Link(to string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.links[to]
}

func hashPassword(pw string) string {
	h, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.MinCost)
	Expect(err).NotTo(HaveOccurred())
	return string(h)
}

var _ = Describe("Auth Service", func() {
	var (
		repo      *MockRepository
		tokens    *auth.JWTTokenGenerator
		blacklist *memoryBlacklist
		mailer    *fakeMailer
		service   *auth.Service
		ctx       context.Context
		logger    *slog.Logger
	)

	BeforeEach(func() {
		ctx = context.Background()
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		repo = NewMockRepository()
		repo.AddAccount(&auth.Account{ID: 1, Username: "admin", Email: "admin@example.com", PasswordHash: hashPassword("s3cretpass"), IsActive: true, Role: internal.RoleAdmin})
		repo.AddAccount(&auth.Account{ID: 2, Username: "gone", Email: "gone@example.com", PasswordHash: hashPassword("s3cretpass"), IsActive: false, Role: internal.RoleEmployee})

		tokens = auth.NewJWTTokenGenerator(accessSecret, refreshSecret, 15*time.Minute, 24*time.Hour)
		blacklist = newMemoryBlacklist()
		mailer = &fakeMailer{links: map[string]string{}}
		service = auth.NewService(repo, tokens, blacklist, auth.NewPasswordResetTokens(resetSecret, time.Hour), logger,
			auth.WithMailer(mailer),
			auth.WithResetURL("http://hr.local/reset"),
			auth.WithBCryptCost(bcrypt.MinCost),
		)
	})

	Describe("Login", func() {
		It("should issue tokens carrying the role and record a device", func() {
			pair, err := service.Login(ctx, auth.LoginDTO{Username: "admin", Password: "s3cretpass", DeviceName: "laptop"}, "10.0.0.1")
			Expect(err).NotTo(HaveOccurred())

			claims, err := service.ValidateAccessToken(pair.Access)
			Expect(err).NotTo(HaveOccurred())
			Expect(claims.Role).To(Equal(internal.RoleAdmin))

			devices, err := service.ActiveDevices(ctx, internal.Principal{UserID: 1})
			Expect(err).NotTo(HaveOccurred())
			Expect(devices).To(HaveLen(1))
			Expect(devices[0].DeviceName).To(Equal("laptop"))
		})

		It("should name unnamed devices", func() {
			_, err := service.Login(ctx, auth.LoginDTO{Username: "admin", Password: "s3cretpass"}, "10.0.0.1")
			Expect(err).NotTo(HaveOccurred())
			devices, _ := service.ActiveDevices(ctx, internal.Principal{UserID: 1})
			Expect(devices[0].DeviceName).To(Equal("Unknown device"))
		})

		It("should reject wrong passwords and unknown users alike", func() {
			_, err := service.Login(ctx, auth.LoginDTO{Username: "admin", Password: "wrong-pass"}, "10.0.0.1")
			expectAppError(err, http.StatusUnauthorized, internal.ErrCodeInvalidCredentials)

			_, err = service.Login(ctx, auth.LoginDTO{Username: "nobody", Password: "s3cretpass"}, "10.0.0.1")
			expectAppError(err, http.StatusUnauthorized, internal.ErrCodeInvalidCredentials)
		})

		It("should refuse inactive accounts", func() {
			_, err := service.Login(ctx, auth.LoginDTO{Username: "gone", Password: "s3cretpass"}, "10.0.0.1")
			expectAppError(err, http.StatusForbidden, internal.ErrCodeUserInactive)
		})

		It("should require credentials", func() {
			_, err := service.Login(ctx, auth.LoginDTO{}, "10.0.0.1")
			expectAppError(err, http.StatusBadRequest, internal.ErrCodeValidationFailed)
		})

		It("should throttle after repeated failures", func() {
			limiter := &fakeLimiter{failures: map[string]int{}, max: 2}
			service = auth.NewService(repo, tokens, blacklist, auth.NewPasswordResetTokens(resetSecret, time.Hour), logger,
				auth.WithLoginLimiter(limiter))

			for i := 0; i < 2; i++ {
				_, err := service.Login(ctx, auth.LoginDTO{Username: "Admin", Password: "wrong-pass"}, "10.0.0.1")
				expectAppError(err, http.StatusUnauthorized, internal.ErrCodeInvalidCredentials)
			}
			_, err := service.Login(ctx, auth.LoginDTO{Username: "admin", Password: "s3cretpass"}, "10.0.0.1")
			expectAppError(err, http.StatusTooManyRequests, internal.ErrCodeTooManyAttempts)

			_, err = service.Login(ctx, auth.LoginDTO{Username: "admin", Password: "s3cretpass"}, "10.0.0.2")
			Expect(err).NotTo(HaveOccurred())
			Expect(limiter.resets).To(Equal(1))
		})
	})

	Describe("Refresh and logout", func() {
		var pair auth.AuthTokens

		BeforeEach(func() {
			var err error
			pair, err = service.Login(ctx, auth.LoginDTO{Username: "admin", Password: "s3cretpass", DeviceName: "phone"}, "10.0.0.1")
			Expect(err).NotTo(HaveOccurred())
		})

		It("should mint a new access token from a refresh token", func() {
			access, err := service.Refresh(ctx, pair.Refresh)
			Expect(err).NotTo(HaveOccurred())
			claims, err := service.ValidateAccessToken(access.Access)
			Expect(err).NotTo(HaveOccurred())
			Expect(claims.UserID).To(Equal(int64(1)))
			Expect(claims.Role).To(Equal(internal.RoleAdmin))
		})

		It("should not refresh with an access token", func() {
			_, err := service.Refresh(ctx, pair.Access)
			expectAppError(err, http.StatusUnauthorized, internal.ErrCodeInvalidToken)
		})

		It("should revoke the refresh token of a logged out device", func() {
			devices, _ := service.ActiveDevices(ctx, internal.Principal{UserID: 1})
			Expect(service.LogoutDevice(ctx, internal.Principal{UserID: 1}, devices[0].ID)).To(Succeed())

			_, err := service.Refresh(ctx, pair.Refresh)
			expectAppError(err, http.StatusUnauthorized, internal.ErrCodeInvalidToken)

			devices, _ = service.ActiveDevices(ctx, internal.Principal{UserID: 1})
			Expect(devices).To(BeEmpty())
		})

		It("should not log out another user's device", func() {
			devices, _ := service.ActiveDevices(ctx, internal.Principal{UserID: 1})
			err := service.LogoutDevice(ctx, internal.Principal{UserID: 2}, devices[0].ID)
			expectAppError(err, http.StatusNotFound, internal.ErrCodeDeviceNotFound)
		})

		It("should log out by refresh token", func() {
			Expect(service.Logout(ctx, internal.Principal{UserID: 1}, pair.Refresh)).To(Succeed())
			_, err := service.Refresh(ctx, pair.Refresh)
			expectAppError(err, http.StatusUnauthorized, internal.ErrCodeInvalidToken)
		})

		It("should reject a refresh token that belongs to someone else", func() {
			err := service.Logout(ctx, internal.Principal{UserID: 9}, pair.Refresh)
			expectAppError(err, http.StatusBadRequest, internal.ErrCodeInvalidToken)
		})
	})

	Describe("Password reset", func() {
		It("should return 404 for unknown e-mails", func() {
			err := service.RequestPasswordReset(ctx, auth.PasswordResetRequestDTO{Email: "nobody@example.com"})
			expectAppError(err, http.StatusNotFound, internal.ErrCodeUserNotFound)
		})

		It("should mail a link that resets the password once", func() {
			Expect(service.RequestPasswordReset(ctx, auth.PasswordResetRequestDTO{Email: "ADMIN@example.com"})).To(Succeed())
			Eventually(func() string { return mailer.Link("admin@example.com") }).ShouldNot(BeEmpty())

			link := mailer.Link("admin@example.com")
			Expect(link).To(HavePrefix("http://hr.local/reset/"))
			parts := strings.Split(strings.TrimSuffix(strings.TrimPrefix(link, "http://hr.local/reset/"), "/"), "/")
			Expect(parts).To(HaveLen(2))

			Expect(service.ConfirmPasswordReset(ctx, parts[0], parts[1], auth.PasswordResetConfirmDTO{Password: "brand-new-pass"})).To(Succeed())

			_, err := service.Login(ctx, auth.LoginDTO{Username: "admin", Password: "brand-new-pass"}, "10.0.0.1")
			Expect(err).NotTo(HaveOccurred())

			err = service.ConfirmPasswordReset(ctx, parts[0], parts[1], auth.PasswordResetConfirmDTO{Password: "another-pass"})
			expectAppError(err, http.StatusBadRequest, internal.ErrCodeInvalidOrExpiredToken)
		})

		It("should succeed even when delivery fails", func() {
			mailer.err = errors.New("smtp down")
			Expect(service.RequestPasswordReset(ctx, auth.PasswordResetRequestDTO{Email: "admin@example.com"})).To(Succeed())
		})

		It("should reject bad uids and tokens", func() {
			err := service.ConfirmPasswordReset(ctx, "???", "x", auth.PasswordResetConfirmDTO{Password: "brand-new-pass"})
			expectAppError(err, http.StatusBadRequest, internal.ErrCodeInvalidOrExpiredToken)

			err = service.ConfirmPasswordReset(ctx, auth.EncodeUID(1), "1-deadbeef", auth.PasswordResetConfirmDTO{Password: "brand-new-pass"})
			expectAppError(err, http.StatusBadRequest, internal.ErrCodeInvalidOrExpiredToken)
		})

		It("should validate the new password", func() {
			acc, _ := repo.GetAccountByID(ctx, 1)
			token := auth.NewPasswordResetTokens(resetSecret, time.Hour).Make(acc)
			err := service.ConfirmPasswordReset(ctx, auth.EncodeUID(1), token, auth.PasswordResetConfirmDTO{Password: "short"})
			expectAppError(err, http.StatusBadRequest, internal.ErrCodeValidationFailed)
		})
	})
})
