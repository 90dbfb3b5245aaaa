package role_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/workforce-management/internal"
	"github.com/frahmantamala/workforce-management/internal/role"
)

func TestRole(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Role Suite")
}

var _ = Describe("Canonicalize", func() {
	It("should normalize any casing to the canonical member", func() {
		for _, input := range []string{"admin", "ADMIN", "Admin", "aDmIn"} {
			got, err := role.Canonicalize(input)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal(role.Admin))
		}
	})

	It("should canonicalize every vocabulary member", func() {
		for _, member := range role.All() {
			got, err := role.Canonicalize(string(member))
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal(member))
		}
	})

	It("should default blank input to Employee", func() {
		for _, input := range []string{"", "   "} {
			got, err := role.Canonicalize(input)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal(role.Employee))
		}
	})

	It("should reject a non-blank string outside the vocabulary", func() {
		_, err := role.Canonicalize("superuser")
		Expect(err).To(HaveOccurred())

		appErr, ok := internal.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.Code).To(Equal(internal.ErrCodeInvalidRole))
		Expect(appErr.Message).To(ContainSubstring("superuser"))
		Expect(appErr.Message).To(ContainSubstring("Admin"))
		Expect(appErr.Message).To(ContainSubstring("Employee"))
	})

	It("should never coerce an invalid role to the default", func() {
		got, err := role.Canonicalize("Emploice")
		Expect(err).To(HaveOccurred())
		Expect(got).NotTo(Equal(role.Employee))
	})
})
