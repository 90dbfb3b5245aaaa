package employee_test

import (
	"crypto/rand"
	"encoding/base64"
	"log/slog"
	"strings"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"

	"github.com/frahmantamala/workforce-management/internal"
	"github.com/frahmantamala/workforce-management/internal/auth"
	"github.com/frahmantamala/workforce-management/internal/employee"
	"github.com/frahmantamala/workforce-management/internal/idcodec"
	"github.com/frahmantamala/workforce-management/internal/notification"
	"github.com/frahmantamala/workforce-management/internal/pagination"
)

func TestEmployee(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Employee Suite")
}

func newTestCodec() *idcodec.Codec {
	raw := make([]byte, 64)
	_, err := rand.Read(raw)
	Expect(err).NotTo(HaveOccurred())
	codec, err := idcodec.New([]string{base64.StdEncoding.EncodeToString(raw)})
	Expect(err).NotTo(HaveOccurred())
	return codec
}

type mockMailer struct {
	queued []notification.Email
}

func (m *mockMailer) Enqueue(email notification.Email) {
	m.queued = append(m.queued, email)
}

type mockRepo struct {
	employees   map[int64]*employee.Employee
	users       map[int64]*auth.User
	departments map[int64]bool
	nextID      int64
	lastFilter  employee.Filter
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		employees:   map[int64]*employee.Employee{},
		users:       map[int64]*auth.User{},
		departments: map[int64]bool{},
		nextID:      1,
	}
}

func (m *mockRepo) List(req pagination.Request, filter employee.Filter) ([]employee.Employee, int64, error) {
	m.lastFilter = filter
	var out []employee.Employee
	for _, e := range m.employees {
		if filter.DepartmentID != 0 &&
			(e.DepartmentID == nil || *e.DepartmentID != filter.DepartmentID) {
			continue
		}
		if filter.SystemRole != "" && e.SystemRole != filter.SystemRole {
			continue
		}
		if filter.JobRole != "" && !strings.EqualFold(e.JobRole, filter.JobRole) {
			continue
		}
		out = append(out, *e)
	}
	return out, int64(len(out)), nil
}

func (m *mockRepo) GetByID(id int64) (*employee.Employee, error) {
	if e, ok := m.employees[id]; ok {
		copy := *e
		return &copy, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRepo) CreateWithUser(e *employee.Employee, u *auth.User) error {
	e.ID = m.nextID
	u.ID = m.nextID
	m.nextID++
	u.EmployeeID = &e.ID
	m.employees[e.ID] = e
	m.users[u.ID] = u
	return nil
}

func (m *mockRepo) UpdateSynced(e *employee.Employee) error {
	m.employees[e.ID] = e
	for _, u := range m.users {
		if u.EmployeeID != nil && *u.EmployeeID == e.ID {
			u.Email = e.Email
			u.Username = e.FullName()
			u.Role = e.SystemRole
		}
	}
	return nil
}

func (m *mockRepo) DeleteWithUser(id int64) error {
	delete(m.employees, id)
	for uid, u := range m.users {
		if u.EmployeeID != nil && *u.EmployeeID == id {
			delete(m.users, uid)
		}
	}
	return nil
}

func (m *mockRepo) EmailInUse(email string, excludeEmployeeID int64) (bool, error) {
	for _, e := range m.employees {
		if strings.EqualFold(e.Email, email) && e.ID != excludeEmployeeID {
			return true, nil
		}
	}
	for _, u := range m.users {
		if !strings.EqualFold(u.Email, email) {
			continue
		}
		if u.EmployeeID != nil && *u.EmployeeID == excludeEmployeeID {
			continue
		}
		return true, nil
	}
	return false, nil
}

func (m *mockRepo) DepartmentExists(departmentID int64) (bool, error) {
	return m.departments[departmentID], nil
}

var _ = Describe("EmployeeService", func() {
	var (
		repo    *mockRepo
		codec   *idcodec.Codec
		mailer  *mockMailer
		service *employee.Service
	)

	BeforeEach(func() {
		repo = newMockRepo()
		codec = newTestCodec()
		mailer = &mockMailer{}
		service = employee.NewService(repo, codec, mailer, 4, slog.Default())
	})

	create := func(email string) *employee.EmployeeDTO {
		dto, err := service.Create(employee.CreateEmployeeDTO{
			FirstName: "Dina",
			LastName:  "Putri",
			Email:     email,
			JobRole:   "Backend Engineer",
			Password:  "s3cret-password",
		})
		Expect(err).NotTo(HaveOccurred())
		return dto
	}

	Describe("Create", func() {
		It("should create the employee and its shadow auth record together", func() {
			dto := create("dina@example.com")
			Expect(dto.SystemRole).To(Equal("Employee"))

			Expect(repo.employees).To(HaveLen(1))
			Expect(repo.users).To(HaveLen(1))
			for _, u := range repo.users {
				Expect(u.Email).To(Equal("dina@example.com"))
				Expect(u.Role).To(Equal("Employee"))
				Expect(u.EmployeeID).NotTo(BeNil())
				Expect(u.PasswordHash).NotTo(ContainSubstring("s3cret"))
			}
		})

		It("should queue a welcome email", func() {
			create("dina@example.com")
			Expect(mailer.queued).To(HaveLen(1))
			Expect(mailer.queued[0].To).To(Equal("dina@example.com"))
		})

		It("should reject an email already held by a standalone account", func() {
			repo.users[99] = &auth.User{ID: 99, Email: "taken@example.com"}

			_, err := service.Create(employee.CreateEmployeeDTO{
				FirstName: "Dina", Email: "taken@example.com", Password: "s3cret-password",
			})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeDuplicateEmail))
		})

		It("should reject an invalid system role", func() {
			_, err := service.Create(employee.CreateEmployeeDTO{
				FirstName: "Dina", Email: "dina@example.com",
				Password: "s3cret-password", SystemRole: "superuser",
			})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeInvalidRole))
			Expect(repo.employees).To(BeEmpty())
		})

		It("should store no department as NULL, never zero", func() {
			dto, err := service.Create(employee.CreateEmployeeDTO{
				FirstName: "Dina", Email: "dina@example.com",
				Password: "s3cret-password",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(dto.DepartmentID).To(BeEmpty())
			Expect(repo.employees[1].DepartmentID).To(BeNil())
		})

		It("should reject an unknown department", func() {
			token, err := codec.Encode(42)
			Expect(err).NotTo(HaveOccurred())

			_, err = service.Create(employee.CreateEmployeeDTO{
				FirstName: "Dina", Email: "dina@example.com",
				Password: "s3cret-password", DepartmentID: token,
			})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeDepartmentNotFound))
		})
	})

	Describe("Update", func() {
		It("should clear the department when the update omits it", func() {
			repo.departments[7] = true
			deptToken, err := codec.Encode(7)
			Expect(err).NotTo(HaveOccurred())

			created, err := service.Create(employee.CreateEmployeeDTO{
				FirstName: "Dina", Email: "dina@example.com",
				Password: "s3cret-password", DepartmentID: deptToken,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(created.DepartmentID).NotTo(BeEmpty())

			updated, err := service.Update(created.ID, employee.UpdateEmployeeDTO{
				FirstName: "Dina", Email: "dina@example.com",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.DepartmentID).To(BeEmpty())
			Expect(repo.employees[1].DepartmentID).To(BeNil())
		})

		It("should propagate email and role changes to the shadow record", func() {
			dto := create("dina@example.com")

			_, err := service.Update(dto.ID, employee.UpdateEmployeeDTO{
				FirstName:  "Dina",
				LastName:   "Putri",
				Email:      "dina.putri@example.com",
				SystemRole: "manager",
			})
			Expect(err).NotTo(HaveOccurred())

			for _, u := range repo.users {
				Expect(u.Email).To(Equal("dina.putri@example.com"))
				Expect(u.Role).To(Equal("Manager"))
			}
		})

		It("should reject a change to an email another employee holds", func() {
			first := create("dina@example.com")
			create("rudi@example.com")

			_, err := service.Update(first.ID, employee.UpdateEmployeeDTO{
				FirstName: "Dina", Email: "rudi@example.com",
			})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeDuplicateEmail))
		})

		It("should allow keeping the current email on update", func() {
			dto := create("dina@example.com")
			_, err := service.Update(dto.ID, employee.UpdateEmployeeDTO{
				FirstName: "Dina", Email: "dina@example.com",
			})
			Expect(err).NotTo(HaveOccurred())
		})
	})

	Describe("Delete", func() {
		It("should remove the employee and its shadow record", func() {
			dto := create("dina@example.com")

			Expect(service.Delete(dto.ID)).To(Succeed())
			Expect(repo.employees).To(BeEmpty())
			Expect(repo.users).To(BeEmpty())
		})

		It("should report not found for a valid token with no record", func() {
			token, err := codec.Encode(12345)
			Expect(err).NotTo(HaveOccurred())

			err = service.Delete(token)
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeEmployeeNotFound))
		})

		It("should reject a malformed identifier", func() {
			err := service.Delete("tampered")
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeMalformedIdentifier))
		})
	})

	Describe("List filters", func() {
		It("should decode the opaque department filter before querying", func() {
			repo.departments[7] = true
			token, err := codec.Encode(7)
			Expect(err).NotTo(HaveOccurred())

			_, err = service.List(pagination.Request{PageNumber: 1, PageSize: 10},
				employee.FilterDTO{DepartmentID: token})
			Expect(err).NotTo(HaveOccurred())
			Expect(repo.lastFilter.DepartmentID).To(Equal(int64(7)))
		})

		It("should canonicalize the role filter and reject invalid values", func() {
			_, err := service.List(pagination.Request{PageNumber: 1, PageSize: 10},
				employee.FilterDTO{SystemRole: "hr"})
			Expect(err).NotTo(HaveOccurred())
			Expect(repo.lastFilter.SystemRole).To(Equal("HR"))

			_, err = service.List(pagination.Request{PageNumber: 1, PageSize: 10},
				employee.FilterDTO{SystemRole: "root"})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeInvalidRole))
		})

		It("should reject a tampered department filter token", func() {
			_, err := service.List(pagination.Request{PageNumber: 1, PageSize: 10},
				employee.FilterDTO{DepartmentID: "tampered"})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeMalformedIdentifier))
		})
	})
})
