package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/frahmantamala/hr-management/internal"
	"github.com/frahmantamala/hr-management/internal/employee"
	employeePostgres "github.com/frahmantamala/hr-management/internal/employee/postgres"
	"github.com/frahmantamala/hr-management/internal/user"
	userPostgres "github.com/frahmantamala/hr-management/internal/user/postgres"
)

var (
	seedUsername string
	seedEmail    string
	seedPassword string
	seedSamples  bool
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with an admin account",
	Long:  `Create the initial Admin account, and optionally a few sample employees for development.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		db, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer db.Close()

		gdb, err := initGorm(db)
		if err != nil {
			log.Fatalf("failed to init gorm: %v", err)
		}

		users := user.NewService(userPostgres.NewUserRepository(gdb), nil, cfg.Security.BCryptCost, nil)
		admin, err := users.Create(ctx, user.CreateUserDTO{
			Username: seedUsername,
			Email:    seedEmail,
			Password: seedPassword,
			Profile:  &user.ProfileDTO{Role: internal.RoleAdmin},
		})
		if err != nil {
			if appErr, ok := internal.IsAppError(err); ok && appErr.Type == internal.ErrorTypeValidation {
				fmt.Printf("admin user not created: %s\n", appErr.GetDetailedMessage())
			} else {
				log.Fatalf("failed to create admin user: %v", err)
			}
		} else {
			fmt.Println("Seeded admin user:", admin.Username)
		}

		if !seedSamples {
			return
		}

		employees := employee.NewService(employeePostgres.NewEmployeeRepository(gdb), nil, nil)
		for _, dto := range sampleEmployees {
			e, err := employees.Create(ctx, dto)
			if err != nil {
				fmt.Printf("skipping employee %s: %v\n", dto.EmployeeID, err)
				continue
			}
			fmt.Println("Seeded employee:", e.EmployeeID, e.FullName)
		}
	},
}

var sampleEmployees = []employee.EmployeeDTO{
	{EmployeeID: "E1000", EmployeeNIN: "NIN-0001000", FullName: "Ada Obi", Email: "ada.obi@example.com", JobTitle: "Engineer", PhoneNumber: "08010001000"},
	{EmployeeID: "E1001", EmployeeNIN: "NIN-0001001", FullName: "Tunde Bello", Email: "tunde.bello@example.com", JobTitle: "Accountant", PhoneNumber: "08010001001"},
	{EmployeeID: "E1002", EmployeeNIN: "NIN-0001002", FullName: "Grace Eze", Email: "grace.eze@example.com", JobTitle: "HR Officer", PhoneNumber: "08010001002"},
}

func init() {
	seedCmd.Flags().StringVar(&seedUsername, "username", "admin", "admin username")
	seedCmd.Flags().StringVar(&seedEmail, "email", "admin@example.com", "admin e-mail")
	seedCmd.Flags().StringVar(&seedPassword, "password", "change-me-now", "admin password")
	seedCmd.Flags().BoolVar(&seedSamples, "samples", false, "also create sample employees")
}
