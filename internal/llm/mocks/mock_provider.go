package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockProvider is a testify mock of the llm.Provider interface.
type MockProvider struct {
	mock.Mock
}

// NewMockProvider creates a MockProvider that asserts its expectations
// on cleanup.
func NewMockProvider(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockProvider {
	m := &MockProvider{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (_m *MockProvider) Complete(ctx context.Context, credential, prompt string) (string, error) {
	ret := _m.Called(ctx, credential, prompt)
	return ret.String(0), ret.Error(1)
}
