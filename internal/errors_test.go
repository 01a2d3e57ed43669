package internal_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/frahmantamala/hr-management/internal"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("AppError", func() {
	It("should render the error envelope", func() {
		status, body := internal.ErrEmployeeNotFound.ToHTTPResponse()
		Expect(status).To(Equal(http.StatusNotFound))

		raw, err := json.Marshal(body)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(raw)).To(MatchJSON(`{"error":{"type":"NOT_FOUND","code":"EMPLOYEE_NOT_FOUND","message":"Employee not found"}}`))
	})

	It("should use the first field message as its error string", func() {
		err := internal.NewValidationFieldError("employee", `Invalid pk "9" - object does not exist.`, internal.ErrCodeInvalidReference)
		Expect(err.Error()).To(Equal(`Invalid pk "9" - object does not exist.`))
	})

	It("should be found through wrapping", func() {
		wrapped := fmt.Errorf("service: %w", internal.NewNoRecordsError("employees"))
		appErr, ok := internal.IsAppError(wrapped)
		Expect(ok).To(BeTrue())
		Expect(appErr.Message).To(Equal("No employees found"))
		Expect(appErr.StatusCode).To(Equal(http.StatusNotFound))
	})

	It("should expose the cause of internal errors", func() {
		cause := errors.New("connection reset")
		err := internal.NewInternalError("failed to list employees", cause)
		Expect(errors.Is(err, cause)).To(BeTrue())
		Expect(err.Error()).To(ContainSubstring("connection reset"))
	})

	Describe("MergeValidationErrors", func() {
		It("should fold field errors together", func() {
			merged := internal.MergeValidationErrors(
				internal.NewValidationFieldError("email", "taken", internal.ErrCodeNotUnique),
				nil,
				internal.NewValidationFieldError("employee_id", "taken", internal.ErrCodeNotUnique),
			)
			appErr, ok := internal.IsAppError(merged)
			Expect(ok).To(BeTrue())
			details := appErr.Details.(internal.ValidationErrors)
			Expect(details.Errors).To(HaveLen(2))
			Expect(appErr.GetDetailedMessage()).To(Equal("taken; taken"))
		})

		It("should pass non-validation errors through", func() {
			boom := errors.New("boom")
			Expect(internal.MergeValidationErrors(boom)).To(Equal(boom))
		})

		It("should return nil when nothing failed", func() {
			Expect(internal.MergeValidationErrors(nil, nil)).To(BeNil())
		})
	})
})

var _ = Describe("Principal context", func() {
	It("should round trip the principal", func() {
		ctx := internal.ContextWithPrincipal(context.Background(), internal.Principal{UserID: 7, Role: internal.RoleManager})
		p, ok := internal.PrincipalFromContext(ctx)
		Expect(ok).To(BeTrue())
		Expect(p.UserID).To(Equal(int64(7)))
		Expect(p.HasAnyRole(internal.RoleAdmin, internal.RoleManager)).To(BeTrue())
		Expect(p.HasAnyRole(internal.RoleAdmin)).To(BeFalse())
	})

	It("should report a missing principal", func() {
		_, ok := internal.PrincipalFromContext(context.Background())
		Expect(ok).To(BeFalse())
	})
})
