package accounts

import (
	"context"
)

// Repository stores accounts. Implementations must enforce username
// uniqueness in Create and Update and must run the Update mutator
// atomically with respect to other calls.
type Repository interface {
	Create(ctx context.Context, account *Account) (*Account, error)
	GetByID(ctx context.Context, id string) (*Account, error)
	GetByUserName(ctx context.Context, userName string) (*Account, error)
	Update(ctx context.Context, id string, mutate func(a *Account) error) (*Account, error)
}
