package parse

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("normalizeDigits", func() {
	It("should map misread glyphs to digits", func() {
		Expect(normalizeDigits("SVETER")).To(Equal("5V3T3R"))
		Expect(normalizeDigits("I0,5O")).To(Equal("10,50"))
	})

	It("should preserve the byte length", func() {
		in := "TORBA 5,99"
		Expect(len(normalizeDigits(in))).To(Equal(len(in)))
	})
})

var _ = Describe("ExtractItems", func() {
	var (
		parser    *Parser
		section   string
		items     []Item
		discounts []Discount
	)

	BeforeEach(func() {
		parser = New()
	})

	JustBeforeEach(func() {
		items, discounts = parser.ExtractItems(section)
	})

	When("the section holds plain item lines", func() {
		BeforeEach(func() {
			section = "SVETER MESKI 1 x79,90 79,90A\nTORBA PAPIEROWA 2 x3,00 6,00A"
		})

		It("should find no discounts", func() {
			Expect(discounts).To(BeEmpty())
		})

		It("should extract both items with explicit counts", func() {
			Expect(items).To(HaveLen(2))

			Expect(items[0].Name).To(Equal("SVETER MESKI"))
			Expect(*items[0].Price).To(Equal(79.90))
			Expect(*items[0].Count).To(Equal(1))
			Expect(items[0].CountEstimated).To(BeFalse())

			Expect(items[1].Name).To(Equal("TORBA PAPIEROWA"))
			Expect(*items[1].Price).To(Equal(3.00))
			Expect(*items[1].Count).To(Equal(2))
			Expect(items[1].CountEstimated).To(BeFalse())
		})
	})

	When("the digits are mangled by OCR misreads", func() {
		BeforeEach(func() {
			section = "SVETER 1*79,9o /9,90 A\nTORBA 2szt x5,99 = 11,98 A"
		})

		It("should find no discounts", func() {
			Expect(discounts).To(BeEmpty())
		})

		It("should locate the price pairs in the normalized text", func() {
			Expect(items).To(HaveLen(2))
			Expect(*items[0].Price).To(Equal(79.90))
			Expect(*items[1].Price).To(Equal(5.99))
		})

		It("should slice the names from the original text", func() {
			Expect(items[0].Name).To(Equal("SVETER"))
			Expect(items[1].Name).To(Equal("TORBA"))
		})

		It("should read the explicit counts", func() {
			Expect(*items[0].Count).To(Equal(1))
			Expect(items[0].CountEstimated).To(BeFalse())
			Expect(*items[1].Count).To(Equal(2))
			Expect(items[1].CountEstimated).To(BeFalse())
		})
	})

	When("no explicit count is printed", func() {
		BeforeEach(func() {
			section = "WODA MINERALNA 2,00 6,00A\nLOSOWY TOWAR 3,00 7,00A"
		})

		It("should estimate a clean ratio as the count", func() {
			Expect(items).To(HaveLen(2))
			Expect(items[0].Name).To(Equal("WODA MINERALNA"))
			Expect(*items[0].Count).To(Equal(3))
			Expect(items[0].CountEstimated).To(BeTrue())
		})

		It("should fall back to one when the ratio is not whole", func() {
			Expect(items[1].Name).To(Equal("LOSOWY TOWAR"))
			Expect(*items[1].Count).To(Equal(1))
			Expect(items[1].CountEstimated).To(BeTrue())
		})
	})

	When("a discount keyword fills the whole fragment", func() {
		BeforeEach(func() {
			section = "RABAT 5,00 -5,00"
		})

		It("should yield a discount and no item", func() {
			Expect(items).To(BeEmpty())
			Expect(discounts).To(HaveLen(1))
			Expect(discounts[0].Name).To(Equal("RABAT"))
			Expect(*discounts[0].Amount).To(Equal(5.00))
		})
	})

	When("a line carries a negative total without a keyword", func() {
		BeforeEach(func() {
			section = "PROMOCJA 2,00 -2,00"
		})

		It("should classify the line as a discount", func() {
			Expect(items).To(BeEmpty())
			Expect(discounts).To(HaveLen(1))
			Expect(discounts[0].Name).To(Equal("PROMOCJA"))
		})

		It("should store the amount as a magnitude", func() {
			Expect(*discounts[0].Amount).To(Equal(2.00))
		})
	})

	When("a discount is embedded in an item fragment", func() {
		BeforeEach(func() {
			section = "SER ZOLTY Rabat 1,50 2 x4,00 8,00A"
		})

		It("should split the discount out of the fragment", func() {
			Expect(discounts).To(HaveLen(1))
			Expect(discounts[0].Name).To(ContainSubstring("Rabat"))
			Expect(*discounts[0].Amount).To(Equal(1.50))
		})

		It("should keep the remainder as an item", func() {
			Expect(items).To(HaveLen(1))
			Expect(items[0].Name).To(HavePrefix("SER ZOLT"))
			Expect(*items[0].Price).To(Equal(4.00))
			Expect(*items[0].Count).To(Equal(2))
			Expect(items[0].CountEstimated).To(BeFalse())
		})
	})

	When("the section is empty", func() {
		BeforeEach(func() {
			section = ""
		})

		It("should return empty, non-nil slices", func() {
			Expect(items).NotTo(BeNil())
			Expect(items).To(BeEmpty())
			Expect(discounts).NotTo(BeNil())
			Expect(discounts).To(BeEmpty())
		})
	})
})
