package persons_test

import (
	"context"

	. "github.com/lvaman/genealogy/persons"

	generator "github.com/lvaman/genealogy/common/generator/mocks"
	"github.com/lvaman/genealogy/common/log"
	"github.com/lvaman/genealogy/common/messaging"
	messagingmocks "github.com/lvaman/genealogy/common/messaging/mocks"
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
		ctx           = context.Background()
		personService Service

		mockStore           *storemocks.MockStore
		mockStringGenerator *generator.MockStringGenerator
		mockPublisher       *messagingmocks.MockClient

		returnedError  error
		returnedPerson tree.Person

		rosterRows []store.Person
		request    tree.Person
	)

	var (
		assertNoError = func() {
			It("should not return an error", func() {
				Expect(returnedError).To(BeNil())
			})
		}
		assertErrorWithCause = func(cause error) {
			It("should return an error", func() {
				Expect(returnedError).NotTo(BeNil())
				Expect(errors.Cause(returnedError)).To(Equal(cause))
			})
		}
		assertValidationError = func(field string) {
			It("should refuse the record with a violation on "+field, func() {
				Expect(returnedError).NotTo(BeNil())
				validationErr, ok := errors.Cause(returnedError).(*ValidationError)
				Expect(ok).To(BeTrue())
				fields := []string{}
				for _, violation := range validationErr.Violations {
					fields = append(fields, violation.Field)
				}
				Expect(fields).To(ContainElement(field))
			})
			It("should not write anything", func() {
				mockStore.AssertNotCalled(GinkgoT(), "AddPerson", mock.Anything, mock.Anything)
				mockStore.AssertNotCalled(GinkgoT(), "UpdatePerson", mock.Anything, mock.Anything)
			})
		}
		assertPublished = func(kind string) {
			It("should publish a "+kind+" event", func() {
				mockPublisher.AssertCalled(GinkgoT(), "Publish", mock.Anything, mock.MatchedBy(func(msg messaging.Message) bool {
					return msg.Attributes["kind"] == kind
				}))
			})
		}
	)

	BeforeEach(func() {
		mockStore = &storemocks.MockStore{}
		mockStringGenerator = &generator.MockStringGenerator{}
		mockPublisher = &messagingmocks.MockClient{}

		mockStore.On("Tx").Return(storemocks.NewTestTx())
		mockStringGenerator.On("GenerateUuid").Return("uuid-1").Once()
		mockStringGenerator.On("GenerateUuid").Return("uuid-2").Once()
		mockPublisher.On("Publish", mock.Anything, mock.Anything).Return(nil)

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
				Id: "le_thi_hoa",
				Names: []tree.Name{
					{Type: tree.NameTypeLegal, First: "Hoa", Middle: "Thị", Last: "Lê", Current: true},
				},
				Gender:      tree.GenderFemale,
				VitalStatus: tree.VitalStatusLiving,
			}),
		}

		request = tree.Person{
			Names: []tree.Name{
				{Type: tree.NameTypeLegal, First: "Minh", Middle: "Hà", Last: "Trần", Current: true},
			},
			Gender:      tree.GenderMale,
			VitalStatus: tree.VitalStatusLiving,
		}

		personService = &PersonService{
			Store:           mockStore,
			StringGenerator: mockStringGenerator,
			Publisher:       mockPublisher,
			Logger:          log.NewLogger("persons-test"),
		}
	})

	Context("AddPerson", func() {

		JustBeforeEach(func() {
			mockStore.On("ListPersons", mock.Anything).Return(rosterRows, nil)
			mockStore.On("AddPerson", mock.Anything, mock.Anything).Return(store.Person{}, nil)
			returnedPerson, returnedError = personService.AddPerson(ctx, request)
		})

		Context("default", func() {
			assertNoError()
			assertPublished(messaging.EventPersonCreated)

			It("should derive the identifier from the current name", func() {
				Expect(returnedPerson.Id).To(Equal("tran_ha_minh"))
			})
			It("should persist the record", func() {
				mockStore.AssertCalled(GinkgoT(), "AddPerson", mock.Anything, mock.MatchedBy(func(row store.Person) bool {
					return row.PersonId.String == "tran_ha_minh"
				}))
			})
		})

		Context("when the derived identifier is already taken", func() {
			BeforeEach(func() {
				rosterRows = append(rosterRows, mustRow(tree.Person{
					Id: "tran_ha_minh",
					Names: []tree.Name{
						{Type: tree.NameTypeLegal, First: "Minh", Middle: "Hà", Last: "Trần", Current: true},
					},
					Gender:      tree.GenderMale,
					VitalStatus: tree.VitalStatusDeceased,
				}))
			})

			assertNoError()
			It("should append a numeric suffix", func() {
				Expect(returnedPerson.Id).To(Equal("tran_ha_minh_2"))
			})
		})

		Context("when no name survives romanization", func() {
			BeforeEach(func() {
				request.Names = []tree.Name{
					{Type: tree.NameTypeLegal, First: "---", Current: true},
					{Type: tree.NameTypeAlias, First: "???"},
				}
				mockStringGenerator.On("GenerateRandomName").Return("quietfalcon")
			})

			assertNoError()
			It("should fall back to a generated placeholder", func() {
				Expect(returnedPerson.Id).To(Equal("quietfalcon"))
			})
		})

		Context("when unions come in without identifiers", func() {
			BeforeEach(func() {
				request.Unions = []tree.Union{
					{SpouseId: "le_thi_hoa", Type: tree.UnionTypeMarriage, Ordinal: 1, Status: tree.UnionStatusCurrent},
				}
			})

			assertNoError()
			It("should assign one", func() {
				Expect(returnedPerson.Unions[0].Id).To(Equal("uuid-1"))
			})
		})

		Context("when the record is invalid", func() {
			BeforeEach(func() {
				request.Gender = "robot"
			})
			assertValidationError("gender")
		})

		Context("when the father reference is dangling", func() {
			BeforeEach(func() {
				request.FatherId = "nguyen_van_missing"
			})
			assertValidationError("fatherId")
		})
	})

	Context("GetPerson", func() {

		var personId string

		BeforeEach(func() {
			personId = "tran_van_binh"
		})

		JustBeforeEach(func() {
			mockStore.On("GetPerson", mock.Anything, "tran_van_binh").Return(rosterRows[0], nil)
			mockStore.On("GetPerson", mock.Anything, mock.Anything).Return(store.Person{}, store.ErrPersonNotFound)
			returnedPerson, returnedError = personService.GetPerson(ctx, personId)
		})

		Context("default", func() {
			assertNoError()
			It("should decode the stored record", func() {
				Expect(returnedPerson.Id).To(Equal("tran_van_binh"))
				Expect(returnedPerson.Names).To(HaveLen(1))
				Expect(returnedPerson.Names[0].Last).To(Equal("Trần"))
			})
		})

		Context("when the person does not exist", func() {
			BeforeEach(func() {
				personId = "rogue"
			})
			assertErrorWithCause(store.ErrPersonNotFound)
		})

		Context("when the personId is empty", func() {
			BeforeEach(func() {
				personId = ""
			})
			assertErrorWithCause(ErrEmptyPersonId)
		})
	})

	Context("UpdatePerson", func() {

		var personId string

		BeforeEach(func() {
			personId = "tran_van_binh"
			request = tree.Person{
				Id: "tran_van_binh",
				Names: []tree.Name{
					{Type: tree.NameTypeLegal, First: "Bình", Middle: "Văn", Last: "Trần", Current: true},
				},
				Gender:      tree.GenderMale,
				VitalStatus: tree.VitalStatusDeceased,
				Biography:   "patriarch of the Trần branch",
			}
		})

		JustBeforeEach(func() {
			mockStore.On("ListPersons", mock.Anything).Return(rosterRows, nil)
			mockStore.On("UpdatePerson", mock.Anything, mock.Anything).Return(nil)
			mockStore.On("RenamePersonId", mock.Anything, mock.Anything, mock.Anything).Return(nil)
			returnedPerson, returnedError = personService.UpdatePerson(ctx, personId, request)
		})

		Context("default", func() {
			assertNoError()
			assertPublished(messaging.EventPersonUpdated)

			It("should persist the updated record", func() {
				mockStore.AssertCalled(GinkgoT(), "UpdatePerson", mock.Anything, mock.MatchedBy(func(row store.Person) bool {
					return row.PersonId.String == "tran_van_binh" && row.Biography.String == "patriarch of the Trần branch"
				}))
			})
			It("should not rename anything", func() {
				mockStore.AssertNotCalled(GinkgoT(), "RenamePersonId", mock.Anything, mock.Anything, mock.Anything)
			})
		})

		Context("when the identifier changes", func() {
			BeforeEach(func() {
				request.Id = "tran_van_binh_the_elder"
				rosterRows = append(rosterRows, mustRow(tree.Person{
					Id: "tran_ha_minh",
					Names: []tree.Name{
						{Type: tree.NameTypeLegal, First: "Minh", Middle: "Hà", Last: "Trần", Current: true},
					},
					Gender:      tree.GenderMale,
					VitalStatus: tree.VitalStatusLiving,
					FatherId:    "tran_van_binh",
				}))
			})

			assertNoError()
			assertPublished(messaging.EventPersonRenamed)

			It("should move the record to its new identifier", func() {
				mockStore.AssertCalled(GinkgoT(), "RenamePersonId", mock.Anything, "tran_van_binh", "tran_van_binh_the_elder")
			})
			It("should rewrite records referencing the old identifier", func() {
				mockStore.AssertCalled(GinkgoT(), "UpdatePerson", mock.Anything, mock.MatchedBy(func(row store.Person) bool {
					return row.PersonId.String == "tran_ha_minh" && row.FatherId.String == "tran_van_binh_the_elder"
				}))
			})
			It("should leave unrelated records alone", func() {
				mockStore.AssertNotCalled(GinkgoT(), "UpdatePerson", mock.Anything, mock.MatchedBy(func(row store.Person) bool {
					return row.PersonId.String == "le_thi_hoa"
				}))
			})
			It("should carry the previous identifier in the event", func() {
				mockPublisher.AssertCalled(GinkgoT(), "Publish", mock.Anything, mock.MatchedBy(func(msg messaging.Message) bool {
					return msg.Attributes["previousId"] == "tran_van_binh"
				}))
			})
		})

		Context("when the person does not exist", func() {
			BeforeEach(func() {
				personId = "rogue"
				request.Id = "rogue"
			})
			assertErrorWithCause(store.ErrPersonNotFound)
		})

		Context("when the update makes the record invalid", func() {
			BeforeEach(func() {
				request.FatherId = "tran_van_binh" // self-parenting
			})
			assertValidationError("fatherId")
		})

		Context("when the personId is empty", func() {
			BeforeEach(func() {
				personId = ""
			})
			assertErrorWithCause(ErrEmptyPersonId)
		})
	})

	Context("DeletePerson", func() {

		var personId string

		BeforeEach(func() {
			personId = "tran_van_binh"
		})

		JustBeforeEach(func() {
			mockStore.On("DeletePerson", mock.Anything, "tran_van_binh").Return(nil)
			mockStore.On("DeletePerson", mock.Anything, mock.Anything).Return(store.ErrPersonNotFound)
			returnedError = personService.DeletePerson(ctx, personId)
		})

		Context("default", func() {
			assertNoError()
			assertPublished(messaging.EventPersonDeleted)
		})

		Context("when the person does not exist", func() {
			BeforeEach(func() {
				personId = "rogue"
			})
			assertErrorWithCause(store.ErrPersonNotFound)
		})

		Context("when the personId is empty", func() {
			BeforeEach(func() {
				personId = ""
			})
			assertErrorWithCause(ErrEmptyPersonId)
		})
	})
})
