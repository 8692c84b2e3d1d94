package persons_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"

	. "github.com/lvaman/genealogy/persons"

	generator "github.com/lvaman/genealogy/common/generator/mocks"
	"github.com/lvaman/genealogy/common/log"
	messagingmocks "github.com/lvaman/genealogy/common/messaging/mocks"
	"github.com/lvaman/genealogy/common/store"
	storemocks "github.com/lvaman/genealogy/common/store/mocks"
	"github.com/lvaman/genealogy/tree"

	kithttp "github.com/go-kit/kit/transport/http"
	"github.com/gorilla/mux"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/mock"
)

var _ = Describe("Transport", func() {

	var (
		router   *mux.Router
		recorder *httptest.ResponseRecorder

		mockStore           *storemocks.MockStore
		mockStringGenerator *generator.MockStringGenerator
		mockPublisher       *messagingmocks.MockClient

		httpMethodToUse, httpEndpointToUse, httpBodyToUse string
	)

	var (
		assertHttpCode = func(code int) {
			It(fmt.Sprintf("should respond with status code %d", code), func() {
				Expect(recorder.Code).To(Equal(code))
			})
		}
	)

	BeforeEach(func() {
		mockStore = &storemocks.MockStore{}
		mockStringGenerator = &generator.MockStringGenerator{}
		mockPublisher = &messagingmocks.MockClient{}

		mockStore.On("Tx").Return(storemocks.NewTestTx())
		mockStringGenerator.On("GenerateUuid").Return("uuid-1")
		mockPublisher.On("Publish", mock.Anything, mock.Anything).Return(nil)

		personService := &PersonService{
			Store:           mockStore,
			StringGenerator: mockStringGenerator,
			Publisher:       mockPublisher,
			Logger:          log.NewLogger("persons-transport-test"),
		}
		handlerFactory := &HandlerFactory{Service: personService}

		opts := []kithttp.ServerOption{
			kithttp.ServerErrorEncoder(EncodeError),
		}

		router = mux.NewRouter()
		router.Handle("/persons", handlerFactory.Add(opts)).Methods(http.MethodPost)
		router.Handle("/persons", handlerFactory.List(opts)).Methods(http.MethodGet)
		router.Handle("/persons/{personId}", handlerFactory.Get(opts)).Methods(http.MethodGet)
		router.Handle("/persons/{personId}", handlerFactory.Update(opts)).Methods(http.MethodPatch)
		router.Handle("/persons/{personId}", handlerFactory.Delete(opts)).Methods(http.MethodDelete)
	})

	JustBeforeEach(func() {
		recorder = httptest.NewRecorder()
		req := httptest.NewRequest(httpMethodToUse, httpEndpointToUse, strings.NewReader(httpBodyToUse))
		router.ServeHTTP(recorder, req)
	})

	Context("POST /persons", func() {

		BeforeEach(func() {
			httpMethodToUse = http.MethodPost
			httpEndpointToUse = "/persons"
			mockStore.On("ListPersons", mock.Anything).Return([]store.Person{}, nil)
			mockStore.On("AddPerson", mock.Anything, mock.Anything).Return(store.Person{}, nil)
		})

		Context("with a valid record", func() {
			BeforeEach(func() {
				httpBodyToUse = `{
					"names": [{"type": "legal", "first": "Minh", "middle": "Hà", "last": "Trần", "current": true}],
					"gender": "male",
					"vitalStatus": "living"
				}`
			})

			assertHttpCode(http.StatusCreated)

			It("should respond with the record and its derived identifier", func() {
				person := tree.Person{}
				Expect(json.Unmarshal(recorder.Body.Bytes(), &person)).To(Succeed())
				Expect(person.Id).To(Equal("tran_ha_minh"))
			})
		})

		Context("with an invalid record", func() {
			BeforeEach(func() {
				httpBodyToUse = `{
					"names": [{"type": "legal", "first": "Minh", "current": true}],
					"gender": "robot",
					"vitalStatus": "living"
				}`
			})

			assertHttpCode(http.StatusUnprocessableEntity)

			It("should list the violations in the body", func() {
				body := map[string]interface{}{}
				Expect(json.Unmarshal(recorder.Body.Bytes(), &body)).To(Succeed())
				Expect(body["violations"]).NotTo(BeEmpty())
			})
		})

		Context("with a malformed payload", func() {
			BeforeEach(func() {
				httpBodyToUse = `{"names": [`
			})
			assertHttpCode(http.StatusInternalServerError)
		})
	})

	Context("GET /persons/{personId}", func() {

		BeforeEach(func() {
			httpMethodToUse = http.MethodGet
			httpBodyToUse = ""
			mockStore.On("GetPerson", mock.Anything, "tran_ha_minh").Return(store.Person{
				PersonId: store.DbNullString("tran_ha_minh"),
			}, nil)
			mockStore.On("GetPerson", mock.Anything, mock.Anything).Return(store.Person{}, store.ErrPersonNotFound)
		})

		Context("default", func() {
			BeforeEach(func() {
				httpEndpointToUse = "/persons/tran_ha_minh"
			})
			assertHttpCode(http.StatusOK)
		})

		Context("when the person does not exist", func() {
			BeforeEach(func() {
				httpEndpointToUse = "/persons/rogue"
			})
			assertHttpCode(http.StatusNotFound)
		})
	})

	Context("DELETE /persons/{personId}", func() {

		BeforeEach(func() {
			httpMethodToUse = http.MethodDelete
			httpBodyToUse = ""
			mockStore.On("DeletePerson", mock.Anything, mock.Anything).Return(nil)
			httpEndpointToUse = "/persons/tran_ha_minh"
		})

		assertHttpCode(http.StatusNoContent)

		It("should respond with an empty body", func() {
			Expect(recorder.Body.String()).To(Equal(""))
		})
	})
})
