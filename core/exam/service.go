package exam

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/student"
)

var (
	// errors
	ErrTestNotFound   = errors.New("test not found")
	ErrResultNotFound = errors.New("test result not found")
	// ErrResultExists reports the (test_id, student_id) uniqueness
	// violation; API layers surface it as a 409, distinguishable from a
	// generic failure.
	ErrResultExists = errors.New("a result for this student already exists on this test")
)

type (
	Repository interface {
		CreateTest(ctx context.Context, t Test) (Test, error)
		GetTestByID(ctx context.Context, scope core.TenantScope, id string) (Test, error)
		// FilterTests applies AND operation on available QueryFilter
		// fields, always inside the scope.
		FilterTests(ctx context.Context, scope core.TenantScope, filter QueryFilter, ordering []core.DBOrdering) ([]Test, error)
		UpdateTest(ctx context.Context, t Test) (Test, error)
		DeleteTestsByID(ctx context.Context, ids ...string) error

		// CreateResult returns ErrResultExists (possibly wrapped) when the
		// (test_id, student_id) pair is already recorded.
		CreateResult(ctx context.Context, r Result) (Result, error)
		QueryResultsByTest(ctx context.Context, testID string) ([]Result, error)
		DeleteResultsByID(ctx context.Context, ids ...string) error
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

func (svc *Service) CreateTest(ctx context.Context, nt NewTest) (Test, error) {
	now := time.Now().UTC()
	date, _ := time.Parse("2006-01-02", nt.Date) // validated upstream
	t := Test{
		CenterID:  nt.CenterID,
		Name:      nt.Name,
		Subject:   nt.Subject,
		Date:      date.UTC(),
		MaxMarks:  nt.MaxMarks,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if nt.Grade != "" {
		t.Grade.SetValid(nt.Grade)
	}
	return svc.repo.CreateTest(ctx, t)
}

func (svc *Service) GetTestByID(ctx context.Context, scope core.TenantScope, id string) (Test, error) {
	return svc.repo.GetTestByID(ctx, scope, id)
}

func (svc *Service) QueryTests(ctx context.Context, scope core.TenantScope, filter QueryFilter, ordering []core.DBOrdering) ([]Test, error) {
	return svc.repo.FilterTests(ctx, scope, filter, ordering)
}

func (svc *Service) UpdateTest(ctx context.Context, scope core.TenantScope, id string, ut UpdateTest) (Test, error) {
	orig, err := svc.repo.GetTestByID(ctx, scope, id)
	if err != nil {
		return Test{}, err
	}

	t := Test{
		ID:        orig.ID,
		Name:      ut.Name,
		Subject:   ut.Subject,
		MaxMarks:  ut.MaxMarks,
		UpdatedAt: time.Now().UTC(),
	}
	if ut.Grade != nil {
		t.Grade.SetValid(*ut.Grade)
	}
	if ut.Date != "" {
		date, _ := time.Parse("2006-01-02", ut.Date) // validated upstream
		t.Date = date.UTC()
	}
	return svc.repo.UpdateTest(ctx, t)
}

func (svc *Service) DeleteTest(ctx context.Context, scope core.TenantScope, id string) error {
	if _, err := svc.repo.GetTestByID(ctx, scope, id); err != nil {
		return err
	}
	return svc.repo.DeleteTestsByID(ctx, id)
}

// RecordResult stores one student's marks for a test. The second write
// for the same (test, student) pair fails with ErrResultExists.
func (svc *Service) RecordResult(ctx context.Context, scope core.TenantScope, testID string, nr NewResult) (Result, error) {
	test, err := svc.repo.GetTestByID(ctx, scope, testID)
	if err != nil {
		return Result{}, err
	}
	if _, err = svc.students.GetByID(ctx, scope, nr.StudentID); err != nil {
		if errors.Cause(err) == student.ErrNotFound {
			return Result{}, core.NewValidationError(err, core.FieldError{Field: "student_id", Error: "unknown student: " + nr.StudentID})
		}
		return Result{}, errors.Wrap(err, "checking student")
	}
	if nr.MarksObtained > test.MaxMarks {
		return Result{}, core.NewValidationError(nil, core.FieldError{Field: "marks_obtained", Error: "marks cannot exceed the test's max marks"})
	}

	dateTaken, _ := time.Parse("2006-01-02", nr.DateTaken) // validated upstream
	r := Result{
		TestID:        testID,
		StudentID:     nr.StudentID,
		MarksObtained: nr.MarksObtained,
		DateTaken:     dateTaken.UTC(),
		CreatedAt:     time.Now().UTC(),
	}
	if nr.Notes != "" {
		r.Notes.SetValid(nr.Notes)
	}
	return svc.repo.CreateResult(ctx, r)
}

func (svc *Service) QueryResults(ctx context.Context, scope core.TenantScope, testID string) ([]Result, error) {
	if _, err := svc.repo.GetTestByID(ctx, scope, testID); err != nil {
		return nil, err
	}
	results, err := svc.repo.QueryResultsByTest(ctx, testID)
	if err != nil {
		return nil, err
	}
	if scope.Role != core.RoleParent {
		return results, nil
	}

	// parents only see their own children's marks
	visible := make([]Result, 0, len(results))
	for _, r := range results {
		if _, err = svc.students.GetByID(ctx, scope, r.StudentID); err != nil {
			if errors.Cause(err) == student.ErrNotFound {
				continue
			}
			return nil, errors.Wrap(err, "checking student")
		}
		visible = append(visible, r)
	}
	return visible, nil
}

// StatsForTest aggregates all recorded results of one test.
func (svc *Service) StatsForTest(ctx context.Context, scope core.TenantScope, testID string) (Stats, error) {
	test, err := svc.repo.GetTestByID(ctx, scope, testID)
	if err != nil {
		return Stats{}, err
	}
	results, err := svc.repo.QueryResultsByTest(ctx, testID)
	if err != nil {
		return Stats{}, err
	}
	return ComputeStats(test, results), nil
}
