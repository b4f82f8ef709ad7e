package assist_test

import (
	"AssistGateway/internal/assist"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Reply parsing", func() {
	Describe("ParseText", func() {
		It("trims surrounding whitespace", func() {
			Expect(assist.ParseText("  Hola mundo \n")).To(Equal(assist.Text("Hola mundo")))
		})
	})

	Describe("ParseWarnings", func() {
		DescribeTable("splits comma-separated replies",
			func(reply string, expected assist.List) {
				Expect(assist.ParseWarnings(reply)).To(Equal(expected))
			},
			Entry("two warnings", "spoilers, violence", assist.List{"spoilers", "violence"}),
			Entry("duplicates and empties kept", "gore,, gore ", assist.List{"gore", "", "gore"}),
			Entry("single warning", " flashing lights ", assist.List{"flashing lights"}),
		)

		DescribeTable("treats a leading none as no warnings",
			func(reply string) {
				Expect(assist.ParseWarnings(reply)).To(BeEmpty())
			},
			Entry("lower case", "none"),
			Entry("upper case with spaces", "  NONE "),
			Entry("followed by more", "None, violence"),
		)
	})

	Describe("ParsePostAnalysis", func() {
		It("accepts a valid object", func() {
			got, err := assist.ParsePostAnalysis(`{"isFake": false, "confidence": 0.82, "explanation": "Consistent with reporting."}`)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal(assist.PostAnalysis{IsFake: false, Confidence: 0.82, Explanation: "Consistent with reporting."}))
		})

		It("strips a markdown fence", func() {
			got, err := assist.ParsePostAnalysis("```json\n{\"isFake\": true, \"confidence\": 1, \"explanation\": \"x\"}\n```")
			Expect(err).NotTo(HaveOccurred())
			Expect(got.IsFake).To(BeTrue())
			Expect(got.Confidence).To(Equal(1.0))
		})

		It("is idempotent", func() {
			reply := `{"isFake": true, "confidence": 0.5, "explanation": "Unverified claims."}`
			first, err := assist.ParsePostAnalysis(reply)
			Expect(err).NotTo(HaveOccurred())
			second, err := assist.ParsePostAnalysis(reply)
			Expect(err).NotTo(HaveOccurred())
			Expect(first).To(Equal(second))
		})

		DescribeTable("fails validation on schema violations",
			func(reply string) {
				_, err := assist.ParsePostAnalysis(reply)
				Expect(err).To(MatchError(assist.ErrValidation))
				Expect(assist.KindOf(err)).To(Equal(assist.ValidationFailed))
			},
			Entry("isFake not a boolean", `{"isFake": "yes", "confidence": 0.9, "explanation": "..."}`),
			Entry("confidence above 1", `{"isFake": false, "confidence": 1.4, "explanation": "..."}`),
			Entry("confidence below 0", `{"isFake": false, "confidence": -0.1, "explanation": "..."}`),
			Entry("missing explanation", `{"isFake": false, "confidence": 0.3}`),
			Entry("empty explanation", `{"isFake": false, "confidence": 0.3, "explanation": "  "}`),
			Entry("array root", `[true, 0.3, "x"]`),
		)

		It("reports non-JSON as malformed", func() {
			_, err := assist.ParsePostAnalysis("I think it is fake.")
			Expect(err).To(MatchError(assist.ErrMalformed))
		})
	})

	Describe("ParseIdeas", func() {
		It("accepts exactly three strings", func() {
			got, err := assist.ParseIdeas(`["Morning stretch routine", "5-minute breathing exercise", "Hydration tracker tips"]`)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal(assist.List{"Morning stretch routine", "5-minute breathing exercise", "Hydration tracker tips"}))
		})

		It("returns the ideas as written", func() {
			got, err := assist.ParseIdeas(`[" Morning stretch", "Breathing ", "Hydration"]`)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal(assist.List{" Morning stretch", "Breathing ", "Hydration"}))
		})

		It("ignores line breaks and tabs around the array", func() {
			got, err := assist.ParseIdeas("```\n[\n\t\"a\",\r\n\t\"b\",\n\t\"c\"\n]\n```")
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(HaveLen(3))
		})

		DescribeTable("fails validation on the wrong count or element type",
			func(reply string) {
				_, err := assist.ParseIdeas(reply)
				Expect(err).To(MatchError(assist.ErrValidation))
			},
			Entry("two ideas", `["a", "b"]`),
			Entry("four ideas", `["a", "b", "c", "d"]`),
			Entry("non-string idea", `["a", 2, "c"]`),
			Entry("empty idea", `["a", " ", "c"]`),
			Entry("object root", `{"ideas": ["a", "b", "c"]}`),
		)

		It("reports non-JSON as malformed", func() {
			_, err := assist.ParseIdeas("1. a 2. b 3. c")
			Expect(err).To(MatchError(assist.ErrMalformed))
		})
	})
})
