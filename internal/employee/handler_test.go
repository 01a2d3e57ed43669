package employee_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"

	"github.com/go-chi/chi"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/frahmantamala/hr-management/internal"
	attendanceDatamodel "github.com/frahmantamala/hr-management/internal/core/datamodel/attendance"
	employeeDatamodel "github.com/frahmantamala/hr-management/internal/core/datamodel/employee"
	leaveDatamodel "github.com/frahmantamala/hr-management/internal/core/datamodel/leave"
	"github.com/frahmantamala/hr-management/internal/employee"
	employeePostgres "github.com/frahmantamala/hr-management/internal/employee/postgres"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Employee Handler Integration", func() {
	var (
		db     *gorm.DB
		router chi.Router
	)

	BeforeEach(func() {
		var err error
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(db.AutoMigrate(
			&employeeDatamodel.Employee{},
			&attendanceDatamodel.Attendance{},
			&leaveDatamodel.LeaveRequest{},
		)).To(Succeed())

		repo := employeePostgres.NewEmployeeRepository(db)
		handler := employee.NewHandler(employee.NewService(repo, nil, slogger))

		router = chi.NewRouter()
		router.Get("/employees/", handler.List)
		router.Post("/employees/", handler.Create)
		router.Get("/employees/{id}/", handler.Get)
		router.Put("/employees/{id}/", handler.Update)
		router.Delete("/employees/{id}/", handler.Delete)
	})

	do := func(method, path string, body interface{}) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		if body != nil {
			Expect(json.NewEncoder(&buf).Encode(body)).To(Succeed())
		}
		req := httptest.NewRequest(method, path, &buf)
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	It("should return 404 listing an empty table", func() {
		w := do(http.MethodGet, "/employees/", nil)
		Expect(w.Code).To(Equal(http.StatusNotFound))

		var resp internal.Response
		Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
		Expect(resp.Error.Code).To(Equal(internal.ErrCodeNoRecords))
	})

	It("should onboard, list, update and fetch an employee", func() {
		w := do(http.MethodPost, "/employees/", validDTO())
		Expect(w.Code).To(Equal(http.StatusCreated))

		var created employee.Response
		Expect(json.NewDecoder(w.Body).Decode(&created)).To(Succeed())
		Expect(created.ID).To(BeNumerically(">", 0))
		Expect(created.EmployeeID).To(Equal("E1000"))

		w = do(http.MethodGet, "/employees/", nil)
		Expect(w.Code).To(Equal(http.StatusOK))
		var list []employee.Response
		Expect(json.NewDecoder(w.Body).Decode(&list)).To(Succeed())
		Expect(list).To(HaveLen(1))

		dto := validDTO()
		dto.JobTitle = "Lead Engineer"
		w = do(http.MethodPut, "/employees/1/", dto)
		Expect(w.Code).To(Equal(http.StatusOK))

		w = do(http.MethodGet, "/employees/1/", nil)
		Expect(w.Code).To(Equal(http.StatusOK))
		var fetched employee.Response
		Expect(json.NewDecoder(w.Body).Decode(&fetched)).To(Succeed())
		Expect(fetched.JobTitle).To(Equal("Lead Engineer"))
		Expect(fetched.DateJoined).To(Equal(created.DateJoined))
	})

	It("should reject a duplicate employee with 400", func() {
		Expect(do(http.MethodPost, "/employees/", validDTO()).Code).To(Equal(http.StatusCreated))

		dto := validDTO()
		dto.EmployeeNIN = "different"
		dto.Email = "other@example.com"
		w := do(http.MethodPost, "/employees/", dto)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(w.Body.String()).To(ContainSubstring("employee with this employee id already exists."))
	})

	It("should delete the employee with their attendance and leave", func() {
		Expect(do(http.MethodPost, "/employees/", validDTO()).Code).To(Equal(http.StatusCreated))
		Expect(db.Exec("INSERT INTO attendance_logs (employee_id, clock_in_time) VALUES (1, CURRENT_TIMESTAMP)").Error).To(Succeed())
		Expect(db.Exec("INSERT INTO leave_requests (employee_id, start_date, end_date, reason, status) VALUES (1, '2025-01-01', '2025-01-02', 'flu', 'Pending')").Error).To(Succeed())

		w := do(http.MethodDelete, "/employees/1/", nil)
		Expect(w.Code).To(Equal(http.StatusNoContent))

		var count int64
		Expect(db.Model(&attendanceDatamodel.Attendance{}).Count(&count).Error).To(Succeed())
		Expect(count).To(BeZero())
		Expect(db.Model(&leaveDatamodel.LeaveRequest{}).Count(&count).Error).To(Succeed())
		Expect(count).To(BeZero())

		Expect(do(http.MethodGet, "/employees/1/", nil).Code).To(Equal(http.StatusNotFound))
	})

	It("should reject malformed ids and bodies", func() {
		Expect(do(http.MethodGet, "/employees/abc/", nil).Code).To(Equal(http.StatusBadRequest))

		req := httptest.NewRequest(http.MethodPost, "/employees/", bytes.NewBufferString("{not json"))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})
})
