package assist_test

import (
	"AssistGateway/internal/assist"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("IdeasWithFallback", func() {
	It("keeps successful ideas", func() {
		ideas, warning, err := assist.IdeasWithFallback([]string{"a", "b", "c"}, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(warning).To(BeEmpty())
		Expect(ideas).To(Equal([]string{"a", "b", "c"}))
	})

	It("falls back on an invalid reply", func() {
		_, err := assist.ParseIdeas(`["a", "b"]`)
		ideas, warning, err := assist.IdeasWithFallback(nil, err)
		Expect(err).NotTo(HaveOccurred())
		Expect(ideas).To(Equal(assist.DefaultIdeas))
		Expect(warning).To(Equal(assist.IdeaFallbackWarning))
	})

	It("falls back on a malformed reply", func() {
		_, err := assist.ParseIdeas("not json")
		ideas, _, err := assist.IdeasWithFallback(nil, err)
		Expect(err).NotTo(HaveOccurred())
		Expect(ideas).To(HaveLen(3))
	})

	It("propagates transport failures", func() {
		cause := &assist.Error{Kind: assist.TransportFailure, Op: assist.OpInvoke, Err: errors.New("reset")}
		ideas, _, err := assist.IdeasWithFallback(nil, cause)
		Expect(ideas).To(BeNil())
		Expect(err).To(MatchError(assist.ErrTransport))
	})

	It("propagates input validation failures", func() {
		cause := &assist.Error{Kind: assist.ValidationFailed, Op: assist.OpValidate, Err: errors.New("empty")}
		_, _, err := assist.IdeasWithFallback(nil, cause)
		Expect(err).To(HaveOccurred())
	})

	It("does not hand out the shared defaults", func() {
		_, err := assist.ParseIdeas("[]")
		ideas, _, _ := assist.IdeasWithFallback(nil, err)
		ideas[0] = "changed"
		Expect(assist.DefaultIdeas[0]).To(Equal("Quick fitness routine for beginners"))
	})
})
