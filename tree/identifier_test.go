package tree_test

import (
	. "github.com/lvaman/genealogy/tree"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("GenerateId", func() {

	It("should join last, middle and first name in that order", func() {
		Expect(GenerateId(Name{First: "Minh", Middle: "Hà", Last: "Trần"}, nil)).To(Equal("tran_ha_minh"))
	})

	It("should strip Vietnamese tone marks to ASCII base letters", func() {
		Expect(GenerateId(Name{First: "Hữu", Last: "Nguyễn"}, nil)).To(Equal("nguyen_huu"))
		Expect(GenerateId(Name{First: "Đức", Last: "Lê"}, nil)).To(Equal("le_duc"))
	})

	It("should strip Latin diacritics", func() {
		Expect(GenerateId(Name{First: "José", Last: "Muñoz"}, nil)).To(Equal("munoz_jose"))
	})

	It("should be deterministic", func() {
		first := GenerateId(Name{First: "Minh", Middle: "Hà", Last: "Trần"}, nil)
		second := GenerateId(Name{First: "Minh", Middle: "Hà", Last: "Trần"}, nil)
		Expect(first).To(Equal(second))
	})

	It("should drop an empty middle name without doubling separators", func() {
		Expect(GenerateId(Name{First: "An", Last: "Phạm"}, nil)).To(Equal("pham_an"))
	})

	It("should collapse runs of non-alphanumeric characters into one underscore", func() {
		Expect(GenerateId(Name{First: "Jean -- Pierre", Last: "O'Brien"}, nil)).To(Equal("o_brien_jean_pierre"))
	})

	Context("when the base identifier collides", func() {
		It("should suffix starting at 2, never 1", func() {
			existing := []string{"tran_ha_minh"}
			Expect(GenerateId(Name{First: "Minh", Middle: "Hà", Last: "Trần"}, existing)).To(Equal("tran_ha_minh_2"))
		})

		It("should increment until unique", func() {
			existing := []string{"tran_ha_minh", "tran_ha_minh_2", "tran_ha_minh_3"}
			Expect(GenerateId(Name{First: "Minh", Middle: "Hà", Last: "Trần"}, existing)).To(Equal("tran_ha_minh_4"))
		})

		It("should never return a member of the existing set", func() {
			existing := []string{"le_duc"}
			for i := 0; i < 20; i++ {
				id := GenerateId(Name{First: "Đức", Last: "Lê"}, existing)
				Expect(existing).NotTo(ContainElement(id))
				existing = append(existing, id)
			}
		})
	})

	Context("when the name is degenerate", func() {
		It("should yield empty for a missing first name", func() {
			Expect(GenerateId(Name{Last: "Trần"}, nil)).To(Equal(""))
		})

		It("should yield empty for a missing last name", func() {
			Expect(GenerateId(Name{First: "Minh"}, nil)).To(Equal(""))
		})

		It("should yield empty when the name normalizes to nothing", func() {
			Expect(GenerateId(Name{First: "???", Last: "---"}, nil)).To(Equal(""))
		})
	})
})

var _ = Describe("UniqueId", func() {

	It("should return the base untouched when free", func() {
		Expect(UniqueId("unnamed", []string{"other"})).To(Equal("unnamed"))
	})

	It("should suffix a taken base starting at 2", func() {
		Expect(UniqueId("unnamed", []string{"unnamed"})).To(Equal("unnamed_2"))
	})
})

var _ = Describe("RewriteReferences", func() {

	var roster []Person

	BeforeEach(func() {
		roster = []Person{
			{Id: "a"},
			{Id: "q", FatherId: "a", MotherId: "m"},
			{Id: "m", Unions: []Union{
				{Id: "u1", SpouseId: "a", Type: UnionTypeMarriage, Ordinal: 1, Status: UnionStatusCurrent},
				{Id: "u2", SpouseId: "x", Type: UnionTypePartnership, Ordinal: 2, Status: UnionStatusEnded},
			}},
		}
	})

	It("should replace every reference to the old id", func() {
		updated := RewriteReferences(roster, "a", "b")

		Expect(updated[1].FatherId).To(Equal("b"))
		Expect(updated[2].Unions[0].SpouseId).To(Equal("b"))
	})

	It("should leave no trace of the old id in any reference field", func() {
		updated := RewriteReferences(roster, "a", "b")

		for _, person := range updated {
			Expect(person.FatherId).NotTo(Equal("a"))
			Expect(person.MotherId).NotTo(Equal("a"))
			for _, union := range person.Unions {
				Expect(union.SpouseId).NotTo(Equal("a"))
			}
		}
	})

	It("should leave unrelated references alone", func() {
		updated := RewriteReferences(roster, "a", "b")

		Expect(updated[1].MotherId).To(Equal("m"))
		Expect(updated[2].Unions[1].SpouseId).To(Equal("x"))
	})

	It("should not touch the renamed record's own id field", func() {
		updated := RewriteReferences(roster, "a", "b")

		Expect(updated[0].Id).To(Equal("a"))
	})

	It("should not mutate the input roster", func() {
		RewriteReferences(roster, "a", "b")

		Expect(roster[1].FatherId).To(Equal("a"))
		Expect(roster[2].Unions[0].SpouseId).To(Equal("a"))
	})
})
