package persons

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/lvaman/genealogy/common/store"
	"github.com/lvaman/genealogy/shared"
	"github.com/lvaman/genealogy/tree"

	"github.com/go-kit/kit/endpoint"
	kithttp "github.com/go-kit/kit/transport/http"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
)

var (
	ErrBadRouting = errors.New("inconsistent mapping between route and handler (programmer error)")
)

type updateRequest struct {
	PersonId string
	Person   tree.Person
}

type HandlerFactory struct {
	Service Service `inject:""`
}

func (h *HandlerFactory) Add(opts []kithttp.ServerOption) *kithttp.Server {
	return kithttp.NewServer(
		makeAddEndpoint(h.Service),
		decodePersonTransport,
		shared.EncodeResponse201,
		opts...,
	)
}

func (h *HandlerFactory) Get(opts []kithttp.ServerOption) *kithttp.Server {
	return kithttp.NewServer(
		makeGetEndpoint(h.Service),
		decodeGetOrDeletePersonTransport,
		shared.EncodeResponse200,
		opts...,
	)
}

func (h *HandlerFactory) List(opts []kithttp.ServerOption) *kithttp.Server {
	return kithttp.NewServer(
		makeListEndpoint(h.Service),
		ignorePayload,
		shared.EncodeResponse200,
		opts...,
	)
}

func (h *HandlerFactory) Update(opts []kithttp.ServerOption) *kithttp.Server {
	return kithttp.NewServer(
		makeUpdateEndpoint(h.Service),
		decodeUpdatePersonRequest,
		shared.EncodeResponse200,
		opts...,
	)
}

func (h *HandlerFactory) Delete(opts []kithttp.ServerOption) *kithttp.Server {
	return kithttp.NewServer(
		makeDeleteEndpoint(h.Service),
		decodeGetOrDeletePersonTransport,
		shared.EncodeResponse204,
		opts...,
	)
}

func makeAddEndpoint(svc Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req := request.(tree.Person)
		person, err := svc.AddPerson(ctx, req)
		if err != nil {
			return nil, err
		}
		return person, nil
	}
}

func makeGetEndpoint(svc Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		personId := request.(string)
		person, err := svc.GetPerson(ctx, personId)
		if err != nil {
			return nil, err
		}
		return person, nil
	}
}

func makeListEndpoint(svc Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		persons, err := svc.ListPersons(ctx)
		if err != nil {
			return nil, err
		}
		if persons == nil {
			persons = []tree.Person{}
		}
		return persons, nil
	}
}

func makeUpdateEndpoint(svc Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req := request.(updateRequest)
		person, err := svc.UpdatePerson(ctx, req.PersonId, req.Person)
		if err != nil {
			return nil, err
		}
		return person, nil
	}
}

func makeDeleteEndpoint(svc Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		personId := request.(string)
		if err := svc.DeletePerson(ctx, personId); err != nil {
			return nil, err
		}
		return nil, nil
	}
}

func decodePersonTransport(_ context.Context, r *http.Request) (interface{}, error) {
	var request tree.Person
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		return nil, err
	}
	return request, nil
}

func decodeGetOrDeletePersonTransport(_ context.Context, r *http.Request) (interface{}, error) {
	vars := mux.Vars(r)
	personId, ok := vars["personId"]
	if !ok {
		return nil, ErrBadRouting
	}
	return personId, nil
}

func decodeUpdatePersonRequest(_ context.Context, r *http.Request) (interface{}, error) {
	vars := mux.Vars(r)
	personId, ok := vars["personId"]
	if !ok {
		return nil, ErrBadRouting
	}
	var request tree.Person
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		return nil, err
	}
	return updateRequest{PersonId: personId, Person: request}, nil
}

func ignorePayload(_ context.Context, r *http.Request) (interface{}, error) {
	return nil, nil
}

// encode errors from business-logic
func EncodeError(_ context.Context, err error, w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")

	if validationErr, ok := errors.Cause(err).(*ValidationError); ok {
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error":      err.Error(),
			"violations": validationErr.Violations,
		})
		return
	}

	switch errors.Cause(err) {
	case ErrEmptyPersonId:
		w.WriteHeader(http.StatusBadRequest)
	case store.ErrPersonNotFound:
		w.WriteHeader(http.StatusNotFound)
	default:
		w.WriteHeader(http.StatusInternalServerError)
	}
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error": err.Error(),
	})
}
