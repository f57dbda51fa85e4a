package token_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	apperror "reportit/internal/errors"
	"reportit/internal/pkg/token"
)

// MockTokenRepository é uma implementação mock da interface domain.TokenRepository
type MockTokenRepository struct {
	mock.Mock
}

func (m *MockTokenRepository) GetOrCreate(ctx context.Context, userID string, candidate string) (string, error) {
	args := m.Called(ctx, userID, candidate)
	return args.String(0), args.Error(1)
}

func (m *MockTokenRepository) FindUserIDByToken(ctx context.Context, tok string) (string, error) {
	args := m.Called(ctx, tok)
	return args.String(0), args.Error(1)
}

func TestIssue_GeneratesHexCandidate(t *testing.T) {
	mockRepo := new(MockTokenRepository)
	svc := token.NewService(mockRepo)

	var candidate string
	mockRepo.On("GetOrCreate", mock.Anything, "user-1", mock.MatchedBy(func(c string) bool {
		candidate = c
		return len(c) == 64
	})).Return("stored-token", nil)

	issued, err := svc.Issue(context.Background(), "user-1")

	assert.NoError(t, err)
	// O valor devolvido é o que o repositório retornou, não o candidato local.
	assert.Equal(t, "stored-token", issued)
	assert.Len(t, candidate, 64)
	mockRepo.AssertExpectations(t)
}

func TestIssue_CandidatesAreUnique(t *testing.T) {
	mockRepo := new(MockTokenRepository)
	svc := token.NewService(mockRepo)

	seen := make(map[string]bool)
	mockRepo.On("GetOrCreate", mock.Anything, "user-1", mock.MatchedBy(func(c string) bool {
		assert.False(t, seen[c], "candidato repetido")
		seen[c] = true
		return true
	})).Return("stored-token", nil)

	for i := 0; i < 10; i++ {
		_, err := svc.Issue(context.Background(), "user-1")
		assert.NoError(t, err)
	}
}

func TestResolve_Success(t *testing.T) {
	mockRepo := new(MockTokenRepository)
	svc := token.NewService(mockRepo)

	mockRepo.On("FindUserIDByToken", mock.Anything, "stored-token").Return("user-1", nil)

	userID, err := svc.Resolve(context.Background(), "stored-token")

	assert.NoError(t, err)
	assert.Equal(t, "user-1", userID)
}

func TestResolve_Fail_UnknownToken(t *testing.T) {
	mockRepo := new(MockTokenRepository)
	svc := token.NewService(mockRepo)

	mockRepo.On("FindUserIDByToken", mock.Anything, "bogus").
		Return("", apperror.NewNotFoundError("Token not found"))

	_, err := svc.Resolve(context.Background(), "bogus")

	assert.Error(t, err)
	assert.IsType(t, &apperror.NotFoundError{}, err)
}
