package mocks

import (
	"context"

	"github.com/lvaman/genealogy/common/messaging"

	"github.com/stretchr/testify/mock"
)

type MockClient struct {
	mock.Mock
}

func (m *MockClient) Publish(ctx context.Context, message messaging.Message) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}
