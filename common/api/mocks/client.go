package mocks

import (
	"context"

	"github.com/lvaman/genealogy/tree"

	"github.com/stretchr/testify/mock"
)

type MockApiClient struct {
	mock.Mock
}

func (m *MockApiClient) GetPerson(ctx context.Context, personId string) (tree.Person, error) {
	args := m.Called(ctx, personId)
	return args.Get(0).(tree.Person), args.Error(1)
}

func (m *MockApiClient) GetChart(ctx context.Context) ([]tree.Node, error) {
	args := m.Called(ctx)
	return args.Get(0).([]tree.Node), args.Error(1)
}
