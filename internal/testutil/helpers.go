package testutil

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/mock"
)

// Assert the expectations of all mocks.
func VerifyAllMocks(t *testing.T, mocks ...any) {
	t.Helper()

	for _, m := range mocks {
		if mockObj, ok := m.(interface{ AssertExpectations(mock.TestingT) bool }); ok {
			mockObj.AssertExpectations(t)
		}
	}
}

// Puuid builds a valid 78 characters puuid from a seed.
func Puuid(seed int) string {
	prefix := fmt.Sprintf("puuid-%d-", seed)
	return prefix + strings.Repeat("x", 78-len(prefix))
}
