package api

import (
	"context"
	"encoding/json"
	"io/ioutil"
	"net/http"
	"net/url"

	"github.com/lvaman/genealogy/common/roles"
	"github.com/lvaman/genealogy/tree"

	"github.com/pkg/errors"
)

var (
	ErrServerBadRequest       = errors.New("server responded with bad request")
	ErrServerError            = errors.New("server responded server error")
	ErrServerUnexpectedStatus = errors.New("server responded with unexpected status")
)

// Client is the service-to-service surface of the genealogy API.
type Client interface {
	GetPerson(ctx context.Context, personId string) (tree.Person, error)
	GetChart(ctx context.Context) ([]tree.Node, error)
}

type DefaultClient struct {
	protocol, hostname string
}

func NewDefaultClient(protocol, hostname string) (Client, error) {
	return &DefaultClient{
		protocol: protocol,
		hostname: hostname,
	}, nil
}

func (c *DefaultClient) GetPerson(ctx context.Context, personId string) (tree.Person, error) {
	person := tree.Person{}
	requestUrl := url.URL{Scheme: c.protocol, Host: c.hostname, Path: "/api/v1/persons/" + personId}
	req, err := http.NewRequest(http.MethodGet, requestUrl.String(), nil)
	if err != nil {
		return person, errors.Wrap(err, "failed to build request")
	}

	resp, err := c.performRequest(ctx, AsService(req))
	if err != nil {
		return person, errors.Wrap(err, "failed to perform request")
	}
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(&person); err != nil {
		return person, errors.Wrap(err, "failed to decode json response")
	}
	return person, nil
}

func (c *DefaultClient) GetChart(ctx context.Context) ([]tree.Node, error) {
	nodes := []tree.Node{}
	requestUrl := url.URL{Scheme: c.protocol, Host: c.hostname, Path: "/api/v1/chart"}
	req, err := http.NewRequest(http.MethodGet, requestUrl.String(), nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build request")
	}

	resp, err := c.performRequest(ctx, AsService(req))
	if err != nil {
		return nil, errors.Wrap(err, "failed to perform request")
	}
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(&nodes); err != nil {
		return nil, errors.Wrap(err, "failed to decode json response")
	}
	return nodes, nil
}

func (c *DefaultClient) performRequest(ctx context.Context, r *http.Request) (*http.Response, error) {
	r = r.WithContext(ctx)
	resp, err := http.DefaultClient.Do(r)
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute the http request")
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return resp, nil
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		err = ErrServerBadRequest
	case resp.StatusCode >= 500:
		err = ErrServerError
	default:
		err = ErrServerUnexpectedStatus
	}
	defer resp.Body.Close()

	b, _ := ioutil.ReadAll(resp.Body)
	return nil, errors.Wrapf(err, "server responded with status code %v, body: %s", resp.StatusCode, b)
}

func AsService(r *http.Request) *http.Request {
	r.Header.Set(roles.ROLE_REQUEST_HEADER, roles.ROLE_SERVICE)
	return r
}
