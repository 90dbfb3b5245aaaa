package idcodec_test

import (
	"crypto/rand"
	"encoding/base64"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/workforce-management/internal"
	"github.com/frahmantamala/workforce-management/internal/idcodec"
)

func TestIDCodec(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "IDCodec Suite")
}

func newTestSecret() string {
	raw := make([]byte, 64)
	_, err := rand.Read(raw)
	Expect(err).NotTo(HaveOccurred())
	return base64.StdEncoding.EncodeToString(raw)
}

var _ = Describe("Codec", func() {
	var codec *idcodec.Codec

	BeforeEach(func() {
		var err error
		codec, err = idcodec.New([]string{newTestSecret()})
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("New", func() {
		It("should reject an empty key list", func() {
			_, err := idcodec.New(nil)
			Expect(err).To(HaveOccurred())
		})

		It("should reject a secret that is not base64", func() {
			_, err := idcodec.New([]string{"not base64!!"})
			Expect(err).To(HaveOccurred())
		})

		It("should reject a secret shorter than 64 bytes", func() {
			short := base64.StdEncoding.EncodeToString(make([]byte, 32))
			_, err := idcodec.New([]string{short})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("round trip", func() {
		It("should decode every encoded id back to itself", func() {
			for _, id := range []int64{1, 2, 42, 999, 1<<31 - 1, 1 << 40} {
				token, err := codec.Encode(id)
				Expect(err).NotTo(HaveOccurred())
				Expect(token).NotTo(BeEmpty())

				decoded, err := codec.Decode(token)
				Expect(err).NotTo(HaveOccurred())
				Expect(decoded).To(Equal(id))
			}
		})

		It("should produce different tokens for the same id that both decode", func() {
			first, err := codec.Encode(7)
			Expect(err).NotTo(HaveOccurred())
			second, err := codec.Encode(7)
			Expect(err).NotTo(HaveOccurred())

			Expect(first).NotTo(Equal(second))

			for _, token := range []string{first, second} {
				decoded, err := codec.Decode(token)
				Expect(err).NotTo(HaveOccurred())
				Expect(decoded).To(Equal(int64(7)))
			}
		})

		It("should not expose the raw id in the token", func() {
			token, err := codec.Encode(12345)
			Expect(err).NotTo(HaveOccurred())
			Expect(token).NotTo(ContainSubstring("12345"))
		})
	})

	Describe("Decode with garbage", func() {
		It("should fail on an empty token", func() {
			_, err := codec.Decode("")
			Expect(err).To(HaveOccurred())

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeMalformedIdentifier))
		})

		It("should fail on a token never produced by Encode", func() {
			_, err := codec.Decode("not-a-real-token")
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeMalformedIdentifier))
		})

		It("should fail on a token encoded under a different key", func() {
			other, err := idcodec.New([]string{newTestSecret()})
			Expect(err).NotTo(HaveOccurred())

			token, err := other.Encode(99)
			Expect(err).NotTo(HaveOccurred())

			_, err = codec.Decode(token)
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeMalformedIdentifier))
		})
	})

	Describe("key rotation", func() {
		It("should decode tokens from a retired key while encoding with the current one", func() {
			oldSecret := newTestSecret()
			oldCodec, err := idcodec.New([]string{oldSecret})
			Expect(err).NotTo(HaveOccurred())

			oldToken, err := oldCodec.Encode(123)
			Expect(err).NotTo(HaveOccurred())

			rotated, err := idcodec.New([]string{newTestSecret(), oldSecret})
			Expect(err).NotTo(HaveOccurred())

			decoded, err := rotated.Decode(oldToken)
			Expect(err).NotTo(HaveOccurred())
			Expect(decoded).To(Equal(int64(123)))

			// And a token minted by the rotated codec no longer decodes
			// under the old key alone.
			newToken, err := rotated.Encode(123)
			Expect(err).NotTo(HaveOccurred())
			_, err = oldCodec.Decode(newToken)
			Expect(err).To(HaveOccurred())
		})
	})
})
