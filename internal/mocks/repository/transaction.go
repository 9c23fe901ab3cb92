package repository

import (
	"context"

	"taskvault/internal/domain/repository"
)

// StubRepositoryFactory hands out the repositories it was built with.
type StubRepositoryFactory struct {
	Users repository.UserRepository
	Tasks repository.TaskRepository
}

func (f *StubRepositoryFactory) UserRepo() repository.UserRepository {
	return f.Users
}

func (f *StubRepositoryFactory) TaskRepo() repository.TaskRepository {
	return f.Tasks
}

// PassthroughTransactionManager runs the function immediately against the
// given factory. Transactional semantics themselves are covered by the
// gorm implementation, not these unit tests.
type PassthroughTransactionManager struct {
	Factory repository.RepositoryFactory
}

func (m *PassthroughTransactionManager) Execute(_ context.Context, fn func(repository.RepositoryFactory) error) error {
	return fn(m.Factory)
}
