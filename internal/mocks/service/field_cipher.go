package service

import (
	"testing"

	"github.com/stretchr/testify/mock"
)

// MockFieldCipher mocks service.FieldCipher.
type MockFieldCipher struct {
	mock.Mock
}

// NewMockFieldCipher creates a mock bound to the test's lifetime.
func NewMockFieldCipher(t *testing.T) *MockFieldCipher {
	m := &MockFieldCipher{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockFieldCipher) Encrypt(plaintext string) (string, error) {
	args := m.Called(plaintext)

	return args.String(0), args.Error(1)
}

func (m *MockFieldCipher) Decrypt(encoded string) (string, error) {
	args := m.Called(encoded)

	return args.String(0), args.Error(1)
}
