package swagger_test

import (
	"context"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestSwagger(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Swagger Suite")
}

var _ = Describe("OpenAPI document", func() {
	var doc *openapi3.T

	BeforeEach(func() {
		loader := openapi3.NewLoader()
		var err error
		doc, err = loader.LoadFromFile("../../../api/openapi.yml")
		Expect(err).NotTo(HaveOccurred())
	})

	It("should validate against the OpenAPI 3 schema", func() {
		Expect(doc.Validate(context.Background())).To(Succeed())
	})

	It("should document every entity collection", func() {
		for _, path := range []string{"/employees", "/departments", "/projects", "/assignments"} {
			Expect(doc.Paths.Find(path)).NotTo(BeNil(), "missing path %s", path)
		}
	})

	It("should carry the shared pagination parameters on employee listing", func() {
		item := doc.Paths.Find("/employees")
		Expect(item).NotTo(BeNil())
		names := map[string]bool{}
		for _, ref := range item.Get.Parameters {
			Expect(ref.Value).NotTo(BeNil())
			names[ref.Value.Name] = true
		}
		for _, want := range []string{"pageNumber", "pageSize", "sortBy", "sortDirection", "searchTerm"} {
			Expect(names).To(HaveKey(want))
		}
	})
})
