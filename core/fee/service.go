package fee

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/student"
)

var ErrNotFound = errors.New("fee record not found")

type (
	Repository interface {
		// UpsertFee inserts the row or replaces the existing
		// (student_id, month) row in a single statement.
		UpsertFee(ctx context.Context, rec Record) (Record, error)
		GetFeeByID(ctx context.Context, scope core.TenantScope, id string) (Record, error)
		// FilterFees applies AND operation on available QueryFilter
		// fields, always inside the scope.
		FilterFees(ctx context.Context, scope core.TenantScope, filter QueryFilter, ordering []core.DBOrdering) ([]Record, error)
		UpdateFee(ctx context.Context, rec Record) (Record, error)
		DeleteFeesByID(ctx context.Context, ids ...string) error
	}

	StudentGetter interface {
		GetByID(ctx context.Context, scope core.TenantScope, id string) (student.Student, error)
	}

	Service struct {
		repo     Repository
		students StudentGetter
	}
)

func NewService(repo Repository, students StudentGetter) *Service {
	return &Service{repo: repo, students: students}
}

// Set creates or replaces the student's fee row for the month.
func (svc *Service) Set(ctx context.Context, scope core.TenantScope, sf SetFee) (Record, error) {
	if _, err := svc.students.GetByID(ctx, scope, sf.StudentID); err != nil {
		if errors.Cause(err) == student.ErrNotFound {
			return Record{}, core.NewValidationError(err, core.FieldError{Field: "student_id", Error: "unknown student: " + sf.StudentID})
		}
		return Record{}, errors.Wrap(err, "checking student")
	}

	now := time.Now().UTC()
	dueDate, _ := time.Parse("2006-01-02", sf.DueDate) // validated upstream
	rec := Record{
		StudentID:     sf.StudentID,
		Month:         sf.Month,
		Amount:        sf.Amount,
		DueDate:       dueDate.UTC(),
		PaymentStatus: PaymentStatus(sf.PaymentStatus),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if sf.PaidDate != "" {
		paid, _ := time.Parse("2006-01-02", sf.PaidDate)
		rec.PaidDate.SetValid(paid.UTC())
	}
	if sf.Remarks != "" {
		rec.Remarks.SetValid(sf.Remarks)
	}
	return svc.repo.UpsertFee(ctx, rec)
}

func (svc *Service) GetByID(ctx context.Context, scope core.TenantScope, id string) (Record, error) {
	return svc.repo.GetFeeByID(ctx, scope, id)
}

func (svc *Service) Query(ctx context.Context, scope core.TenantScope, filter QueryFilter, ordering []core.DBOrdering) ([]Record, error) {
	return svc.repo.FilterFees(ctx, scope, filter, ordering)
}

// MarkPaid settles a fee row, stamping paid_date (today when absent).
func (svc *Service) MarkPaid(ctx context.Context, scope core.TenantScope, id string, mp MarkPaid) (Record, error) {
	rec, err := svc.repo.GetFeeByID(ctx, scope, id)
	if err != nil {
		return Record{}, err
	}

	rec.PaymentStatus = StatusPaid
	rec.UpdatedAt = time.Now().UTC()
	if mp.PaidDate != "" {
		paid, _ := time.Parse("2006-01-02", mp.PaidDate)
		rec.PaidDate.SetValid(paid.UTC())
	} else {
		rec.PaidDate.SetValid(time.Now().UTC().Truncate(24 * time.Hour))
	}
	if mp.Remarks != "" {
		rec.Remarks.SetValid(mp.Remarks)
	}
	return svc.repo.UpdateFee(ctx, rec)
}

// Summary aggregates the scoped fee rows matching filter.
func (svc *Service) Summary(ctx context.Context, scope core.TenantScope, filter QueryFilter) (Totals, error) {
	records, err := svc.repo.FilterFees(ctx, scope, filter, nil)
	if err != nil {
		return Totals{}, err
	}
	return ComputeTotals(records), nil
}

func (svc *Service) Delete(ctx context.Context, scope core.TenantScope, id string) error {
	if _, err := svc.repo.GetFeeByID(ctx, scope, id); err != nil {
		return err
	}
	return svc.repo.DeleteFeesByID(ctx, id)
}
