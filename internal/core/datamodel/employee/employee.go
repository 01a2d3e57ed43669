package employee

import "time"

type Employee struct {
	ID          int64     `gorm:"primaryKey"`
	EmployeeID  string    `gorm:"column:employee_id;size:15;uniqueIndex;not null"`
	EmployeeNIN string    `gorm:"column:employee_nin;size:25;uniqueIndex;not null"`
	FullName    string    `gorm:"column:full_name;size:100;not null"`
	Email       string    `gorm:"column:email;size:254;uniqueIndex;not null"`
	JobTitle    string    `gorm:"column:job_title;size:50;not null"`
	PhoneNumber string    `gorm:"column:phone_number;size:15;not null"`
	DateJoined  time.Time `gorm:"column:date_joined;type:date;not null"`
	DateCreated time.Time `gorm:"column:date_created;autoUpdateTime"`
}
