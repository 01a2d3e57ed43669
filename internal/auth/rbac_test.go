package auth_test

import (
	"net/http"
	"net/http/httptest"

	"github.com/frahmantamala/hr-management/internal"
	"github.com/frahmantamala/hr-management/internal/auth"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("RBACAuthorization", func() {
	var rbac *auth.RBACAuthorization

	BeforeEach(func() {
		rbac = auth.NewRBACAuthorization(nil, nil)
	})

	serve := func(mw func(http.Handler) http.Handler, principal *internal.Principal) int {
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})
		req := httptest.NewRequest(http.MethodDelete, "/api/employees/1/", nil)
		if principal != nil {
			req = req.WithContext(internal.ContextWithPrincipal(req.Context(), *principal))
		}
		w := httptest.NewRecorder()
		mw(next).ServeHTTP(w, req)
		return w.Code
	}

	DescribeTable("RequireStaff",
		func(role string, expected int) {
			Expect(serve(rbac.RequireStaff(), &internal.Principal{UserID: 1, Role: role})).To(Equal(expected))
		},
		Entry("admin", internal.RoleAdmin, http.StatusOK),
		Entry("manager", internal.RoleManager, http.StatusOK),
		Entry("employee", internal.RoleEmployee, http.StatusForbidden),
		Entry("unknown role", "Intern", http.StatusForbidden),
	)

	DescribeTable("RequireAnyRole",
		func(role string, expected int) {
			Expect(serve(rbac.RequireAnyRole(), &internal.Principal{UserID: 1, Role: role})).To(Equal(expected))
		},
		Entry("employee", internal.RoleEmployee, http.StatusOK),
		Entry("empty role", "", http.StatusForbidden),
	)

	It("should answer 401 without a principal", func() {
		Expect(serve(rbac.RequireAdmin(), nil)).To(Equal(http.StatusUnauthorized))
	})

	It("should know every role", func() {
		checker := auth.NewRoleChecker()
		for _, role := range auth.Roles() {
			Expect(checker.IsKnownRole(role)).To(BeTrue())
		}
		Expect(checker.IsAdmin(internal.RoleAdmin)).To(BeTrue())
		Expect(checker.IsManager(internal.RoleAdmin)).To(BeFalse())
	})
})
