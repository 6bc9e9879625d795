package mocks

import (
	"github.com/stretchr/testify/mock"
)

type MockTextExtractor struct {
	mock.Mock
}

func (m *MockTextExtractor) ExtractText(data []byte) (string, error) {
	args := m.Called(data)
	return args.String(0), args.Error(1)
}
