package auth_test

import (
	"net/http"
	"strings"
	"time"

	"github.com/frahmantamala/hr-management/internal"
	"github.com/frahmantamala/hr-management/internal/auth"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

const (
	accessSecret  = "access-secret-access-secret-0001"
	refreshSecret = "refresh-secret-refresh-secret-01"
	resetSecret   = "reset-secret-reset-secret-reset1"
)

func expectAppError(err error, status int, code internal.ErrorCode) {
	Expect(err).To(HaveOccurred())
	appErr, ok := internal.IsAppError(err)
	Expect(ok).To(BeTrue(), "expected AppError, got %v", err)
	Expect(appErr.StatusCode).To(Equal(status))
	Expect(appErr.Code).To(Equal(code))
}

var _ = Describe("JWTTokenGenerator", func() {
	var gen *auth.JWTTokenGenerator

	BeforeEach(func() {
		gen = auth.NewJWTTokenGenerator(accessSecret, refreshSecret, 15*time.Minute, 24*time.Hour)
	})

	It("should carry the user id and role", func() {
		issued, err := gen.GenerateAccessToken(7, internal.RoleManager)
		Expect(err).NotTo(HaveOccurred())
		Expect(issued.TokenID).NotTo(BeEmpty())

		claims, err := gen.ValidateAccessToken(issued.Token)
		Expect(err).NotTo(HaveOccurred())
		Expect(claims.UserID).To(Equal(int64(7)))
		Expect(claims.Role).To(Equal(internal.RoleManager))
		Expect(claims.TokenType).To(Equal(auth.TokenTypeAccess))
		Expect(claims.ID).To(Equal(issued.TokenID))
	})

	It("should issue a distinct jti per token", func() {
		a, _ := gen.GenerateRefreshToken(7, internal.RoleAdmin)
		b, _ := gen.GenerateRefreshToken(7, internal.RoleAdmin)
		Expect(a.TokenID).NotTo(Equal(b.TokenID))
	})

	It("should not accept a refresh token as an access token", func() {
		refresh, err := gen.GenerateRefreshToken(7, internal.RoleAdmin)
		Expect(err).NotTo(HaveOccurred())

		_, err = gen.ValidateAccessToken(refresh.Token)
		expectAppError(err, http.StatusUnauthorized, internal.ErrCodeInvalidToken)

		claims, err := gen.ValidateRefreshToken(refresh.Token)
		Expect(err).NotTo(HaveOccurred())
		Expect(claims.TokenType).To(Equal(auth.TokenTypeRefresh))
	})

	It("should report expired tokens", func() {
		issued, err := gen.GenerateAccessToken(7, internal.RoleEmployee)
		Expect(err).NotTo(HaveOccurred())

		gen.SetNow(func() time.Time { return time.Now().Add(time.Hour) })
		_, err = gen.ValidateAccessToken(issued.Token)
		expectAppError(err, http.StatusUnauthorized, internal.ErrCodeTokenExpired)
	})

	It("should reject tampered and foreign tokens", func() {
		issued, _ := gen.GenerateAccessToken(7, internal.RoleEmployee)
		parts := strings.Split(issued.Token, ".")
		parts[2] = strings.Repeat("A", len(parts[2]))
		_, err := gen.ValidateAccessToken(strings.Join(parts, "."))
		expectAppError(err, http.StatusUnauthorized, internal.ErrCodeInvalidToken)

		other := auth.NewJWTTokenGenerator("another-secret-another-secret-00", refreshSecret, time.Minute, time.Hour)
		foreign, _ := other.GenerateAccessToken(7, internal.RoleAdmin)
		_, err = gen.ValidateAccessToken(foreign.Token)
		expectAppError(err, http.StatusUnauthorized, internal.ErrCodeInvalidToken)

		_, err = gen.ValidateAccessToken("not-a-jwt")
		expectAppError(err, http.StatusUnauthorized, internal.ErrCodeInvalidToken)
	})
})

var _ = Describe("PasswordResetTokens", func() {
	var (
		tokens *auth.PasswordResetTokens
		acc    *auth.Account
		now    time.Time
	)

	BeforeEach(func() {
		now = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
		tokens = auth.NewPasswordResetTokens(resetSecret, 72*time.Hour)
		tokens.SetNow(func() time.Time { return now })
		acc = &auth.Account{ID: 4, Email: "jane@example.com", PasswordHash: "$2a$10$hash"}
	})

	It("should accept its own token", func() {
		Expect(tokens.Check(acc, tokens.Make(acc))).To(BeTrue())
	})

	It("should stop accepting the token once the password changes", func() {
		token := tokens.Make(acc)
		acc.PasswordHash = "$2a$10$other"
		Expect(tokens.Check(acc, token)).To(BeFalse())
	})

	It("should stop accepting the token after a login", func() {
		token := tokens.Make(acc)
		login := now.Add(time.Minute)
		acc.LastLogin = &login
		Expect(tokens.Check(acc, token)).To(BeFalse())
	})

	It("should expire tokens after the timeout", func() {
		token := tokens.Make(acc)
		now = now.Add(72*time.Hour + time.Second)
		Expect(tokens.Check(acc, token)).To(BeFalse())
	})

	It("should reject garbage", func() {
		Expect(tokens.Check(acc, "")).To(BeFalse())
		Expect(tokens.Check(acc, "nodash")).To(BeFalse())
		Expect(tokens.Check(acc, "zz-0000")).To(BeFalse())
		Expect(tokens.Check(nil, tokens.Make(acc))).To(BeFalse())
	})

	It("should round trip uids", func() {
		uid := auth.EncodeUID(42)
		id, err := auth.DecodeUID(uid)
		Expect(err).NotTo(HaveOccurred())
		Expect(id).To(Equal(int64(42)))

		_, err = auth.DecodeUID("!!!")
		Expect(err).To(HaveOccurred())
		_, err = auth.DecodeUID(auth.EncodeUID(0))
		Expect(err).To(HaveOccurred())
	})

	It("should build reset links with a trailing slash", func() {
		Expect(auth.ResetLink("http://hr.local/reset/", "NDI", "abc-123")).To(Equal("http://hr.local/reset/NDI/abc-123/"))
	})
})
