package reporting_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"time"

	"github.com/go-chi/chi"
	"github.com/jmoiron/sqlx"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	attendanceDatamodel "github.com/frahmantamala/hr-management/internal/core/datamodel/attendance"
	employeeDatamodel "github.com/frahmantamala/hr-management/internal/core/datamodel/employee"
	leaveDatamodel "github.com/frahmantamala/hr-management/internal/core/datamodel/leave"
	"github.com/frahmantamala/hr-management/internal/reporting"
	reportingPostgres "github.com/frahmantamala/hr-management/internal/reporting/postgres"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Reporting Handler Integration", func() {
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

		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		// one connection keeps every query on the same in-memory database
		sqlDB.SetMaxOpenConns(1)

		repo := reportingPostgres.NewReportRepository(sqlx.NewDb(sqlDB, "sqlite3"))
		handler := reporting.NewHandler(reporting.NewService(repo, slogger))

		router = chi.NewRouter()
		router.Get("/employees/", handler.Employees)
		router.Get("/attendance/", handler.Attendance)
		router.Get("/leaves/", handler.Leaves)
		router.Get("/export/employees/", handler.ExportEmployeesCSV)
		router.Get("/export/employees/xlsx/", handler.ExportEmployeesXLSX)
		router.Get("/graphs/attendance/", handler.AttendanceGraph)
		router.Get("/graphs/leaves/", handler.LeaveStatusGraph)
	})

	get := func(path string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	seed := func() {
		jane := &employeeDatamodel.Employee{
			EmployeeID: "E1000", EmployeeNIN: "1", FullName: "Jane Doe", Email: "jane@example.com",
			JobTitle: "Engineer", PhoneNumber: "0811", DateJoined: time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC),
		}
		Expect(db.Create(jane).Error).To(Succeed())

		in := time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC)
		out := in.Add(8 * time.Hour)
		Expect(db.Omit("Employee").Create(&attendanceDatamodel.Attendance{EmployeeID: jane.ID, ClockInTime: in, ClockOutTime: &out}).Error).To(Succeed())
		Expect(db.Omit("Employee").Create(&attendanceDatamodel.Attendance{EmployeeID: jane.ID, ClockInTime: in.Add(24 * time.Hour)}).Error).To(Succeed())

		Expect(db.Omit("Employee").Create(&leaveDatamodel.LeaveRequest{
			EmployeeID: jane.ID,
			StartDate:  time.Date(2025, 2, 3, 0, 0, 0, 0, time.UTC),
			EndDate:    time.Date(2025, 2, 5, 0, 0, 0, 0, time.UTC),
			Reason:     "Family event",
			Status:     "Approved",
		}).Error).To(Succeed())
	}

	It("should return 404 for every report on an empty database", func() {
		Expect(get("/employees/").Code).To(Equal(http.StatusNotFound))
		Expect(get("/attendance/").Code).To(Equal(http.StatusNotFound))
		Expect(get("/leaves/").Code).To(Equal(http.StatusNotFound))
		Expect(get("/export/employees/").Code).To(Equal(http.StatusNotFound))
	})

	It("should answer 400 for charts without data", func() {
		Expect(get("/graphs/attendance/").Code).To(Equal(http.StatusBadRequest))
		Expect(get("/graphs/leaves/").Code).To(Equal(http.StatusBadRequest))
	})

	Context("with seeded data", func() {
		BeforeEach(seed)

		It("should project employees", func() {
			w := get("/employees/")
			Expect(w.Code).To(Equal(http.StatusOK))
			var list []reporting.EmployeeReport
			Expect(json.NewDecoder(w.Body).Decode(&list)).To(Succeed())
			Expect(list).To(HaveLen(1))
			Expect(list[0].DateJoined).To(Equal("2025-01-06"))
		})

		It("should project attendance with durations newest first", func() {
			w := get("/attendance/")
			Expect(w.Code).To(Equal(http.StatusOK))
			var list []reporting.AttendanceReport
			Expect(json.NewDecoder(w.Body).Decode(&list)).To(Succeed())
			Expect(list).To(HaveLen(2))
			Expect(list[0].Duration).To(Equal(reporting.EmptyDuration))
			Expect(list[1].Duration).To(Equal("08:00:00"))
			Expect(list[1].EmployeeName).To(Equal("Jane Doe"))
		})

		It("should project leave requests with the employee name", func() {
			w := get("/leaves/")
			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Body.String()).To(ContainSubstring(`"employee__full_name":"Jane Doe"`))
			Expect(w.Body.String()).To(ContainSubstring(`"start_date":"2025-02-03"`))
		})

		It("should export the employees as CSV", func() {
			w := get("/export/employees/")
			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Header().Get("Content-Type")).To(Equal("text/csv"))
			Expect(w.Header().Get("Content-Disposition")).To(Equal(`attachment; filename="employees.csv"`))
			Expect(w.Body.String()).To(HavePrefix("Employee ID,Full Name,Email,Job Title,Date Joined\n"))
			Expect(w.Body.String()).To(ContainSubstring("E1000,Jane Doe,jane@example.com,Engineer,2025-01-06"))
		})

		It("should export the employees as XLSX", func() {
			w := get("/export/employees/xlsx/")
			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Header().Get("Content-Type")).To(Equal(reporting.XLSXMIMEType))
			Expect(w.Body.Bytes()[:2]).To(Equal([]byte("PK")))
		})

		It("should draw both charts", func() {
			for _, path := range []string{"/graphs/attendance/", "/graphs/leaves/"} {
				w := get(path)
				Expect(w.Code).To(Equal(http.StatusOK), path)
				Expect(w.Header().Get("Content-Type")).To(Equal("image/png"))
				Expect(bytes.HasPrefix(w.Body.Bytes(), pngMagic)).To(BeTrue())
			}
		})
	})
})
