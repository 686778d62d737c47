package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/imranmdl/tile-granite-management-sub002/internal/domain/entity"
	"github.com/imranmdl/tile-granite-management-sub002/internal/domain/repository"
)

// BackfillResult summarises a sales-user backfill run
type BackfillResult struct {
	Scanned    int     `json:"scanned"`
	Resolved   int     `json:"resolved"`
	Unresolved []int64 `json:"unresolved_invoice_ids,omitempty"`
}

// SalesUserResolver maps free-text salesperson references onto users
type SalesUserResolver struct {
	uow   repository.UnitOfWork
	repos repository.Repositories
}

// NewSalesUserResolver creates a new resolver
func NewSalesUserResolver(uow repository.UnitOfWork, repos repository.Repositories) *SalesUserResolver {
	return &SalesUserResolver{uow: uow, repos: repos}
}

// Resolve tries every legacy reference of an invoice against username,
// mobile, email and name in that order. It returns nil when nothing matches.
func (r *SalesUserResolver) Resolve(ctx context.Context, users repository.UserRepository, legacy entity.LegacySalesperson) (*entity.User, error) {
	for _, candidate := range legacy.Candidates() {
		for _, field := range repository.UserLookupOrder {
			user, err := users.FindBy(ctx, field, candidate)
			if err != nil {
				return nil, fmt.Errorf("lookup user by %s: %w", field, err)
			}
			if user != nil {
				return user, nil
			}
		}
	}
	return nil, nil
}

// BackfillSalesUsers sets sales_user_id on every invoice that lacks it and
// whose legacy salesperson text resolves to a user. Existing ids are never
// overwritten.
func (r *SalesUserResolver) BackfillSalesUsers(ctx context.Context) (*BackfillResult, error) {
	invoices, err := r.repos.Invoices.ListWithoutSalesUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("list invoices without sales user: %w", err)
	}

	result := &BackfillResult{Scanned: len(invoices)}
	for _, inv := range invoices {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		var resolved bool
		err := r.uow.Do(ctx, func(repos repository.Repositories) error {
			user, err := r.Resolve(ctx, repos.Users, inv.LegacySalesperson)
			if err != nil || user == nil {
				return err
			}
			if err := repos.Invoices.SetSalesUser(ctx, inv.ID, user.ID); err != nil {
				return fmt.Errorf("set sales user: %w", err)
			}
			resolved = true
			return nil
		})
		if err != nil {
			return result, err
		}

		if resolved {
			result.Resolved++
		} else {
			result.Unresolved = append(result.Unresolved, inv.ID)
		}
	}

	log.Info().
		Int("scanned", result.Scanned).
		Int("resolved", result.Resolved).
		Int("unresolved", len(result.Unresolved)).
		Msg("sales user backfill finished")
	return result, nil
}
