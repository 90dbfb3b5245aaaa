package postgres_test

import (
	"fmt"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/frahmantamala/workforce-management/internal/auth"
	"github.com/frahmantamala/workforce-management/internal/employee"
	"github.com/frahmantamala/workforce-management/internal/employee/postgres"
	"github.com/frahmantamala/workforce-management/internal/pagination"
)

func TestEmployeeRepository(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Employee Repository Suite")
}

type departmentRow struct {
	ID   int64  `gorm:"primaryKey"`
	Name string `gorm:"column:name"`
}

func (departmentRow) TableName() string { return "departments" }

var _ = Describe("Repository", func() {
	var (
		db   *gorm.DB
		repo *postgres.Repository
	)

	BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())

		// Tables mirror db/migrations, with foreign keys enforced, so the
		// repository runs against the same constraints as production.
		Expect(db.Exec("PRAGMA foreign_keys = ON").Error).To(Succeed())
		for _, ddl := range []string{
			`CREATE TABLE departments (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				name TEXT NOT NULL
			)`,
			`CREATE TABLE employees (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				first_name TEXT NOT NULL,
				last_name TEXT,
				email TEXT NOT NULL UNIQUE,
				phone TEXT,
				job_role TEXT,
				system_role TEXT NOT NULL DEFAULT 'Employee',
				salary REAL,
				hire_date DATETIME,
				department_id INTEGER REFERENCES departments (id),
				created_at DATETIME,
				updated_at DATETIME
			)`,
			`CREATE TABLE users (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				username TEXT,
				email TEXT NOT NULL UNIQUE,
				password_hash TEXT NOT NULL,
				role TEXT NOT NULL DEFAULT 'Employee',
				employee_id INTEGER REFERENCES employees (id) ON DELETE CASCADE,
				created_at DATETIME,
				updated_at DATETIME
			)`,
		} {
			Expect(db.Exec(ddl).Error).To(Succeed())
		}

		repo = postgres.NewRepository(db)
	})

	newEmployee := func(email string) (*employee.Employee, *auth.User) {
		emp := &employee.Employee{
			FirstName:  "Dina",
			LastName:   "Putri",
			Email:      email,
			JobRole:    "Backend Engineer",
			SystemRole: "Employee",
		}
		user := &auth.User{
			Username:     emp.FullName(),
			Email:        email,
			PasswordHash: "hashed",
			Role:         emp.SystemRole,
		}
		return emp, user
	}

	Describe("CreateWithUser", func() {
		It("should persist both rows linked by employee_id", func() {
			emp, user := newEmployee("dina@example.com")
			Expect(repo.CreateWithUser(emp, user)).To(Succeed())
			Expect(emp.ID).NotTo(BeZero())

			var stored auth.User
			Expect(db.Where("employee_id = ?", emp.ID).First(&stored).Error).To(Succeed())
			Expect(stored.Email).To(Equal("dina@example.com"))
		})

		It("should accept an employee without a department", func() {
			emp, user := newEmployee("dina@example.com")
			Expect(emp.DepartmentID).To(BeNil())
			Expect(repo.CreateWithUser(emp, user)).To(Succeed())

			var reloaded employee.Employee
			Expect(db.First(&reloaded, emp.ID).Error).To(Succeed())
			Expect(reloaded.DepartmentID).To(BeNil())

			emp.Phone = "+62-811-000"
			Expect(repo.UpdateSynced(emp)).To(Succeed())
		})
	})

	Describe("UpdateSynced", func() {
		It("should push email, username and role onto the shadow record", func() {
			emp, user := newEmployee("dina@example.com")
			Expect(repo.CreateWithUser(emp, user)).To(Succeed())

			emp.Email = "dina.putri@example.com"
			emp.SystemRole = "Manager"
			Expect(repo.UpdateSynced(emp)).To(Succeed())

			var stored auth.User
			Expect(db.Where("employee_id = ?", emp.ID).First(&stored).Error).To(Succeed())
			Expect(stored.Email).To(Equal("dina.putri@example.com"))
			Expect(stored.Role).To(Equal("Manager"))
			Expect(stored.Username).To(Equal("Dina Putri"))
		})
	})

	Describe("DeleteWithUser", func() {
		It("should remove both rows", func() {
			emp, user := newEmployee("dina@example.com")
			Expect(repo.CreateWithUser(emp, user)).To(Succeed())

			Expect(repo.DeleteWithUser(emp.ID)).To(Succeed())

			var empCount, userCount int64
			Expect(db.Model(&employee.Employee{}).Count(&empCount).Error).To(Succeed())
			Expect(db.Model(&auth.User{}).Count(&userCount).Error).To(Succeed())
			Expect(empCount).To(BeZero())
			Expect(userCount).To(BeZero())
		})
	})

	Describe("EmailInUse", func() {
		It("should see addresses in either table", func() {
			emp, user := newEmployee("dina@example.com")
			Expect(repo.CreateWithUser(emp, user)).To(Succeed())
			Expect(db.Create(&auth.User{
				Username: "standalone", Email: "solo@example.com",
				PasswordHash: "hashed", Role: "Employee",
			}).Error).To(Succeed())

			inUse, err := repo.EmailInUse("DINA@example.com", 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(inUse).To(BeTrue())

			inUse, err = repo.EmailInUse("solo@example.com", 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(inUse).To(BeTrue())

			inUse, err = repo.EmailInUse("free@example.com", 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(inUse).To(BeFalse())
		})

		It("should not count the employee's own records when excluded", func() {
			emp, user := newEmployee("dina@example.com")
			Expect(repo.CreateWithUser(emp, user)).To(Succeed())

			inUse, err := repo.EmailInUse("dina@example.com", emp.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(inUse).To(BeFalse())
		})
	})

	Describe("List", func() {
		BeforeEach(func() {
			Expect(db.Create(&departmentRow{ID: 1, Name: "Engineering"}).Error).To(Succeed())
			Expect(db.Create(&departmentRow{ID: 2, Name: "HR"}).Error).To(Succeed())

			for i := 1; i <= 12; i++ {
				deptID := int64(1)
				systemRole := "Employee"
				if i%4 == 0 {
					deptID = 2
					systemRole = "HR"
				}
				emp := &employee.Employee{
					FirstName:    fmt.Sprintf("Person%02d", i),
					LastName:     "Test",
					Email:        fmt.Sprintf("person%02d@example.com", i),
					JobRole:      "Engineer",
					SystemRole:   systemRole,
					DepartmentID: &deptID,
				}
				user := &auth.User{
					Username: emp.FullName(), Email: emp.Email,
					PasswordHash: "hashed", Role: systemRole,
				}
				Expect(repo.CreateWithUser(emp, user)).To(Succeed())
			}
		})

		It("should filter by department with totals matching the filter", func() {
			rows, total, err := repo.List(
				pagination.Request{PageNumber: 1, PageSize: 10},
				employee.Filter{DepartmentID: 2})
			Expect(err).NotTo(HaveOccurred())
			Expect(total).To(Equal(int64(3)))
			for _, row := range rows {
				Expect(row.DepartmentID).NotTo(BeNil())
				Expect(*row.DepartmentID).To(Equal(int64(2)))
			}
		})

		It("should filter by system role", func() {
			_, total, err := repo.List(
				pagination.Request{PageNumber: 1, PageSize: 10},
				employee.Filter{SystemRole: "HR"})
			Expect(err).NotTo(HaveOccurred())
			Expect(total).To(Equal(int64(3)))
		})

		It("should search by name within the filtered set", func() {
			rows, total, err := repo.List(
				pagination.Request{PageNumber: 1, PageSize: 10, SearchTerm: "person01"},
				employee.Filter{})
			Expect(err).NotTo(HaveOccurred())
			Expect(total).To(Equal(int64(1)))
			Expect(rows[0].Email).To(Equal("person01@example.com"))
		})

		It("should page with sorting by allow-listed field", func() {
			rows, total, err := repo.List(
				pagination.Request{PageNumber: 2, PageSize: 5, SortBy: "firstName"},
				employee.Filter{})
			Expect(err).NotTo(HaveOccurred())
			Expect(total).To(Equal(int64(12)))
			Expect(rows).To(HaveLen(5))
			Expect(rows[0].FirstName).To(Equal("Person06"))
		})
	})
})
