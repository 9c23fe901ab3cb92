package repository

import "context"

// RepositoryFactory hands out repository instances bound to one
// transaction so multi-step operations stay atomic.
type RepositoryFactory interface {
	UserRepo() UserRepository
	TaskRepo() TaskRepository
}

// TransactionManager runs a function inside a single database
// transaction, committing on nil and rolling back on error or panic.
type TransactionManager interface {
	Execute(ctx context.Context, fn func(repoFactory RepositoryFactory) error) error
}
