package commands

import (
	"context"
	"errors"

	"advisory-market/internal/domain/offering"
	"advisory-market/internal/infra"
	"advisory-market/internal/infra/db"
	"advisory-market/internal/pkg/errs"
	"advisory-market/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidOffering         = errs.New("invalid offering")
	ErrOfferingStatusBlocked   = errs.New("offering status transition not allowed")
	ErrOfferingTermsLocked     = errs.New("commission terms locked by existing reservations")
	ErrOfferingFieldsLocked    = errs.New("financial fields locked by existing reservations")
	ErrOfferingHasReservations = errs.New("offering still referenced by reservations")
)

type CreateOfferingParams struct {
	Name          string
	Description   string
	Category      *string
	Type          offering.Type
	YieldRate     decimal.Decimal
	YieldIndex    offering.YieldIndex
	MinAmount     decimal.Decimal
	TotalAmount   decimal.Decimal
	TermMonths    int
	RiskLevel     offering.RiskLevel
	Status        offering.Status
	UpfrontRate   decimal.Decimal
	UpfrontTiming offering.UpfrontTiming
	RecurringRate decimal.Decimal
	Frequency     offering.PaymentFrequency
}

type UpdateTermsParams struct {
	UpfrontRate   decimal.Decimal
	UpfrontTiming offering.UpfrontTiming
	RecurringRate decimal.Decimal
	Frequency     offering.PaymentFrequency
}

// OfferingFieldChanges is a partial update; nil fields keep their current
// value.
type OfferingFieldChanges struct {
	Name        *string
	Description *string
	Category    *string
	Type        *offering.Type
	YieldRate   *decimal.Decimal
	YieldIndex  *offering.YieldIndex
	RiskLevel   *offering.RiskLevel
	TermMonths  *int
}

func (p OfferingFieldChanges) isEmpty() bool {
	return p.Name == nil && p.Description == nil && p.Category == nil &&
		p.Type == nil && p.YieldRate == nil && p.YieldIndex == nil &&
		p.RiskLevel == nil && p.TermMonths == nil
}

// touchesFinancials reports whether the change affects fields that feed
// yield or commission calculations.
func (p OfferingFieldChanges) touchesFinancials() bool {
	return p.Type != nil || p.YieldRate != nil || p.YieldIndex != nil || p.TermMonths != nil
}

type OfferingCommands interface {
	Create(ctx context.Context, p CreateOfferingParams) (uuid.UUID, error)
	Update(ctx context.Context, id uuid.UUID, p OfferingFieldChanges) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status offering.Status) error
	UpdateTerms(ctx context.Context, id uuid.UUID, p UpdateTermsParams) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type offeringCommandsImpl struct {
	tx              shared.TxRunner
	offeringRepo    OfferingRepository
	reservationRepo ReservationRepository
}

func NewOfferingCommands(tx shared.TxRunner, offeringRepo OfferingRepository, reservationRepo ReservationRepository) OfferingCommands {
	return &offeringCommandsImpl{tx: tx, offeringRepo: offeringRepo, reservationRepo: reservationRepo}
}

func (o *offeringCommandsImpl) Create(ctx context.Context, p CreateOfferingParams) (uuid.UUID, error) {
	terms, err := offering.NewCommissionTerms(p.UpfrontRate, p.UpfrontTiming, p.RecurringRate, p.Frequency)
	if err != nil {
		return uuid.Nil, errs.Mark(err, ErrInvalidOffering)
	}

	entity, err := offering.NewOffering(offering.NewOfferingParams{
		Name:        p.Name,
		Description: p.Description,
		Category:    p.Category,
		Type:        p.Type,
		YieldRate:   p.YieldRate,
		YieldIndex:  p.YieldIndex,
		MinAmount:   p.MinAmount,
		TotalAmount: p.TotalAmount,
		TermMonths:  p.TermMonths,
		RiskLevel:   p.RiskLevel,
		Status:      p.Status,
		Terms:       terms,
	})
	if err != nil {
		return uuid.Nil, errs.Mark(err, ErrInvalidOffering)
	}

	txErr := o.tx.Within(ctx, func(ctx context.Context, tx db.DBTX) error {
		return o.offeringRepo.Create(ctx, tx, entity)
	})
	if txErr != nil {
		return uuid.Nil, errs.Wrap(txErr, "create offering")
	}
	return entity.ID(), nil
}

func (o *offeringCommandsImpl) UpdateStatus(ctx context.Context, id uuid.UUID, status offering.Status) error {
	if !status.IsValid() {
		return ErrInvalidOffering
	}

	return o.tx.Within(ctx, func(ctx context.Context, tx db.DBTX) error {
		snap, err := o.offeringRepo.FindSnapshot(ctx, tx, id)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrOfferingNotFound
			}
			return err
		}
		if !snap.Status.CanTransitionTo(status) {
			return ErrOfferingStatusBlocked
		}

		affected, err := o.offeringRepo.UpdateStatus(ctx, tx, id, status)
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrOfferingNotFound
		}
		return nil
	})
}

// Update edits offering fields in place. Descriptive fields (name,
// description, category, risk level) may change at any time; financial
// fields (type, yield rate, yield index, term) are frozen once any
// reservation references the offering, since reserved positions were
// priced against them.
func (o *offeringCommandsImpl) Update(ctx context.Context, id uuid.UUID, p OfferingFieldChanges) error {
	if p.isEmpty() {
		return errs.Mark(errors.New("no fields to update"), ErrInvalidOffering)
	}
	if p.Type != nil && !p.Type.IsValid() {
		return ErrInvalidOffering
	}
	if p.YieldIndex != nil && !p.YieldIndex.IsValid() {
		return ErrInvalidOffering
	}
	if p.RiskLevel != nil && !p.RiskLevel.IsValid() {
		return ErrInvalidOffering
	}
	if p.YieldRate != nil && !p.YieldRate.IsPositive() {
		return ErrInvalidOffering
	}
	if p.TermMonths != nil && *p.TermMonths < 1 {
		return ErrInvalidOffering
	}
	if p.Name != nil && *p.Name == "" {
		return ErrInvalidOffering
	}

	return o.tx.Within(ctx, func(ctx context.Context, tx db.DBTX) error {
		if _, err := o.offeringRepo.FindSnapshot(ctx, tx, id); err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrOfferingNotFound
			}
			return err
		}

		if p.touchesFinancials() {
			count, err := o.reservationRepo.CountByOffering(ctx, tx, id)
			if err != nil {
				return err
			}
			if count > 0 {
				return errs.Mark(errors.New("offering has reservations"), ErrOfferingFieldsLocked)
			}
		}

		affected, err := o.offeringRepo.UpdateFields(ctx, tx, id, p)
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrOfferingNotFound
		}
		return nil
	})
}

// Delete removes an offering outright. The foreign key from reservations
// is the guard: any reservation row, in any state, blocks the delete.
func (o *offeringCommandsImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return o.tx.Within(ctx, func(ctx context.Context, tx db.DBTX) error {
		affected, err := o.offeringRepo.Delete(ctx, tx, id)
		if err != nil {
			if infra.IsKind(err, infra.KindForeignKeyViolated) {
				return errs.Mark(err, ErrOfferingHasReservations)
			}
			return err
		}
		if affected == 0 {
			return ErrOfferingNotFound
		}
		return nil
	})
}

// UpdateTerms rejects any change once the offering has reservations in any
// state; commissions already computed from the old terms must stay
// explainable.
func (o *offeringCommandsImpl) UpdateTerms(ctx context.Context, id uuid.UUID, p UpdateTermsParams) error {
	terms, err := offering.NewCommissionTerms(p.UpfrontRate, p.UpfrontTiming, p.RecurringRate, p.Frequency)
	if err != nil {
		return errs.Mark(err, ErrInvalidOffering)
	}

	return o.tx.Within(ctx, func(ctx context.Context, tx db.DBTX) error {
		if _, err := o.offeringRepo.FindSnapshot(ctx, tx, id); err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrOfferingNotFound
			}
			return err
		}

		count, err := o.reservationRepo.CountByOffering(ctx, tx, id)
		if err != nil {
			return err
		}
		if count > 0 {
			return errs.Mark(errors.New("offering has reservations"), ErrOfferingTermsLocked)
		}

		return o.offeringRepo.UpdateTerms(ctx, tx, id, terms)
	})
}
