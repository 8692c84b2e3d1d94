package chart_test

import (
	"context"

	. "github.com/lvaman/genealogy/chart"

	"github.com/lvaman/genealogy/common/log"
	"github.com/lvaman/genealogy/common/store"
	storemocks "github.com/lvaman/genealogy/common/store/mocks"
	"github.com/lvaman/genealogy/tree"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/mock"
)

func mustRow(person tree.Person) store.Person {
	row, err := store.FromTreePerson(person)
	if err != nil {
		panic(err)
	}
	return row
}

var _ = Describe("Service", func() {

	var (
		ctx          = context.Background()
		chartService Service

		mockStore *storemocks.MockStore

		rosterRows    []store.Person
		returnedNodes []tree.Node
		returnedError error
	)

	BeforeEach(func() {
		mockStore = &storemocks.MockStore{}

		rosterRows = []store.Person{
			mustRow(tree.Person{
				Id: "tran_van_binh",
				Names: []tree.Name{
					{Type: tree.NameTypeLegal, First: "Bình", Middle: "Văn", Last: "Trần", Current: true},
				},
				Gender:      tree.GenderMale,
				VitalStatus: tree.VitalStatusDeceased,
			}),
			mustRow(tree.Person{
				Id: "tran_ha_minh",
				Names: []tree.Name{
					{Type: tree.NameTypeLegal, First: "Minh", Middle: "Hà", Last: "Trần", Current: true},
				},
				Gender:      tree.GenderMale,
				VitalStatus: tree.VitalStatusLiving,
				FatherId:    "tran_van_binh",
			}),
		}

		chartService = &ChartService{
			Store:  mockStore,
			Logger: log.NewLogger("chart-test"),
		}
	})

	JustBeforeEach(func() {
		returnedNodes, returnedError = chartService.GetChart(ctx)
	})

	Context("default", func() {
		BeforeEach(func() {
			mockStore.On("ListPersons", mock.Anything).Return(rosterRows, nil)
		})

		It("should not return an error", func() {
			Expect(returnedError).To(BeNil())
		})
		It("should adapt every record into a node", func() {
			Expect(returnedNodes).To(HaveLen(2))
		})
		It("should derive the child edge from the stored parent reference", func() {
			Expect(returnedNodes[0].Id).To(Equal("tran_van_binh"))
			Expect(returnedNodes[0].Rels.Children).To(Equal([]string{"tran_ha_minh"}))
			Expect(returnedNodes[1].Rels.Parents).To(Equal([]string{"tran_van_binh"}))
		})
	})

	Context("when a stored record fails validation", func() {
		BeforeEach(func() {
			rosterRows[1] = mustRow(tree.Person{
				Id: "tran_ha_minh",
				Names: []tree.Name{
					{Type: tree.NameTypeLegal, First: "Minh", Last: "Trần", Current: true},
				},
				Gender:      "robot",
				VitalStatus: tree.VitalStatusLiving,
				FatherId:    "tran_van_binh",
			})
			mockStore.On("ListPersons", mock.Anything).Return(rosterRows, nil)
		})

		It("should still serve the chart", func() {
			Expect(returnedError).To(BeNil())
			Expect(returnedNodes).To(HaveLen(2))
		})
	})

	Context("when the store fails", func() {
		BeforeEach(func() {
			mockStore.On("ListPersons", mock.Anything).Return([]store.Person{}, errors.New("connection refused"))
		})

		It("should return an error", func() {
			Expect(returnedError).NotTo(BeNil())
			Expect(returnedError.Error()).To(ContainSubstring("failed to build chart"))
		})
	})
})
