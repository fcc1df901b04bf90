package application

import (
	"context"

	"stayhub/contexts/stay-marketplace/listing-service/domain/entities"
	domainerrors "stayhub/contexts/stay-marketplace/listing-service/domain/errors"
	"stayhub/contexts/stay-marketplace/listing-service/domain/services"
)

type CreateAccountInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	IsAdmin   bool
}

// UpdateAccountInput is a partial update. For non-admin callers the Email,
// Password and IsAdmin fields are restricted; the guard rejects patches that
// touch them.
type UpdateAccountInput struct {
	FirstName *string
	LastName  *string
	Email     *string
	Password  *string
	IsAdmin   *bool
}

func (s Service) CreateAccount(ctx context.Context, token string, input CreateAccountInput) (entities.Account, error) {
	p, err := s.principal(token)
	if err != nil {
		return entities.Account{}, err
	}
	if err := services.Authorize(p, services.ActionCreate, services.Resource{Kind: services.ResourceAccount}); err != nil {
		return entities.Account{}, err
	}
	if input.Password == "" {
		return entities.Account{}, domainerrors.ValidationError{Field: "password", Reason: "must not be empty"}
	}
	hash, err := s.Passwords.Hash(input.Password)
	if err != nil {
		return entities.Account{}, err
	}
	id, err := s.IDs.NewID(ctx)
	if err != nil {
		return entities.Account{}, err
	}
	account, err := entities.NewAccount(id, s.now(), input.FirstName, input.LastName, input.Email, hash, input.IsAdmin)
	if err != nil {
		return entities.Account{}, err
	}
	created, err := s.Accounts.CreateAccount(ctx, account)
	if err != nil {
		return entities.Account{}, err
	}
	ResolveLogger(s.Logger).Info("account created",
		"event", "account_created",
		"module", "stay-marketplace/listing-service",
		"layer", "application",
		"account_id", created.ID,
		"is_admin", created.IsAdmin,
	)
	s.publish(ctx, "account_created", "account", created.ID, created)
	return created, nil
}

func (s Service) GetAccount(ctx context.Context, id string) (entities.Account, error) {
	return s.Accounts.GetAccount(ctx, id)
}

func (s Service) ListAccounts(ctx context.Context) ([]entities.Account, error) {
	return s.Accounts.ListAccounts(ctx)
}

func (s Service) UpdateAccount(ctx context.Context, token, id string, input UpdateAccountInput) (entities.Account, error) {
	p, err := s.principal(token)
	if err != nil {
		return entities.Account{}, err
	}
	account, err := s.Accounts.GetAccount(ctx, id)
	if err != nil {
		return entities.Account{}, err
	}
	resource := services.Resource{Kind: services.ResourceAccount, ID: account.ID, OwnerID: account.ID}
	err = services.AuthorizeAccountPatch(p, resource, input.Email != nil, input.Password != nil, input.IsAdmin != nil)
	if err != nil {
		return entities.Account{}, err
	}
	if input.Password != nil {
		if *input.Password == "" {
			return entities.Account{}, domainerrors.ValidationError{Field: "password", Reason: "must not be empty"}
		}
		hash, err := s.Passwords.Hash(*input.Password)
		if err != nil {
			return entities.Account{}, err
		}
		account.PasswordHash = hash
	}
	patch := entities.AccountPatch{
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Email:     input.Email,
		IsAdmin:   input.IsAdmin,
	}
	if err := entities.ApplyAccountPatch(&account, patch, s.now()); err != nil {
		return entities.Account{}, err
	}
	updated, err := s.Accounts.UpdateAccount(ctx, account)
	if err != nil {
		return entities.Account{}, err
	}
	ResolveLogger(s.Logger).Info("account updated",
		"event", "account_updated",
		"module", "stay-marketplace/listing-service",
		"layer", "application",
		"account_id", updated.ID,
	)
	s.publish(ctx, "account_updated", "account", updated.ID, updated)
	return updated, nil
}

// DeleteAccount removes the account together with its listings and reviews.
// The cascade is the repository's job so it stays atomic per adapter.
func (s Service) DeleteAccount(ctx context.Context, token, id string) error {
	p, err := s.principal(token)
	if err != nil {
		return err
	}
	account, err := s.Accounts.GetAccount(ctx, id)
	if err != nil {
		return err
	}
	resource := services.Resource{Kind: services.ResourceAccount, ID: account.ID, OwnerID: account.ID}
	if err := services.Authorize(p, services.ActionDelete, resource); err != nil {
		return err
	}
	if err := s.Accounts.DeleteAccount(ctx, id); err != nil {
		return err
	}
	ResolveLogger(s.Logger).Info("account deleted",
		"event", "account_deleted",
		"module", "stay-marketplace/listing-service",
		"layer", "application",
		"account_id", id,
	)
	s.publish(ctx, "account_deleted", "account", id, nil)
	return nil
}
