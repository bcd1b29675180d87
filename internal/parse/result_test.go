package parse

import (
	"encoding/json"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Result JSON", func() {
	It("should render absent fields as null and collections as arrays", func() {
		data, err := json.Marshal(Result{})
		Expect(err).NotTo(HaveOccurred())

		Expect(string(data)).To(ContainSubstring(`"date":null`))
		Expect(string(data)).To(ContainSubstring(`"time":null`))
		Expect(string(data)).To(ContainSubstring(`"payment_method":null`))
		Expect(string(data)).To(ContainSubstring(`"items":[]`))
		Expect(string(data)).To(ContainSubstring(`"discounts":[]`))
	})

	It("should render the date and time in canonical form", func() {
		date := time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC)
		total := 8.99
		data, err := json.Marshal(Result{
			Date:          &date,
			Time:          &Clock{Hour: 14, Minute: 32},
			Total:         &total,
			PaymentMethod: PaymentCard,
		})
		Expect(err).NotTo(HaveOccurred())

		Expect(string(data)).To(ContainSubstring(`"date":"2025-03-04"`))
		Expect(string(data)).To(ContainSubstring(`"time":"14:32:00"`))
		Expect(string(data)).To(ContainSubstring(`"payment_method":"CARD"`))
	})

	It("should round-trip through the stored shape", func() {
		date := time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC)
		price := 2.50
		count := 2
		total := 8.99
		original := Result{
			Date:          &date,
			Time:          &Clock{Hour: 14, Minute: 32},
			Total:         &total,
			PaymentMethod: PaymentCash,
			Items:         []Item{{Name: "CHLEB", Price: &price, Count: &count}},
			Discounts:     []Discount{},
		}

		data, err := json.Marshal(original)
		Expect(err).NotTo(HaveOccurred())

		var restored Result
		Expect(json.Unmarshal(data, &restored)).To(Succeed())
		Expect(restored).To(Equal(original))
	})
})
