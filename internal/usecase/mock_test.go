//go:build !integration

package usecase_test

import (
	"context"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"github.com/dungpasoftware/van-edu-be/internal/domain"
	"github.com/dungpasoftware/van-edu-be/internal/domain/model"
	"github.com/dungpasoftware/van-edu-be/internal/domain/ports/repository"
	"github.com/dungpasoftware/van-edu-be/internal/usecase"
)

// newTestLogger creates a silent logger for tests.
func newTestLogger() *zerolog.Logger {
	logger := zerolog.New(io.Discard)
	return &logger
}

// =============================
// Repositories
// =============================

// ---- Mock UserRepository ----

type MockUserRepo struct {
	mu      sync.Mutex
	data    map[string]*model.User // by id
	byEmail map[string]string      // email -> id

	SaveFunc        func(ctx context.Context, tx repository.Tx, u *model.User) error
	FindByIDFunc    func(ctx context.Context, tx repository.Tx, id string) (*model.User, error)
	FindByEmailFunc func(ctx context.Context, tx repository.Tx, email string) (*model.User, error)
	ListPremiumFunc func(ctx context.Context, tx repository.Tx) ([]*model.User, error)
}

var _ repository.UserRepository = (*MockUserRepo)(nil)

func NewMockUserRepo() *MockUserRepo {
	return &MockUserRepo{data: map[string]*model.User{}, byEmail: map[string]string{}}
}

func (r *MockUserRepo) Save(ctx context.Context, tx repository.Tx, u *model.User) error {
	if r.SaveFunc != nil {
		return r.SaveFunc(ctx, tx, u)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	cp := *u
	r.data[u.ID] = &cp
	r.byEmail[u.Email] = u.ID
	return nil
}

func (r *MockUserRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.User, error) {
	if r.FindByIDFunc != nil {
		return r.FindByIDFunc(ctx, tx, id)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.data[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (r *MockUserRepo) FindByEmail(ctx context.Context, tx repository.Tx, email string) (*model.User, error) {
	if r.FindByEmailFunc != nil {
		return r.FindByEmailFunc(ctx, tx, email)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if id, ok := r.byEmail[email]; ok {
		cp := *r.data[id]
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (r *MockUserRepo) List(ctx context.Context, tx repository.Tx, offset, limit int) ([]*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := make([]*model.User, 0, len(r.data))
	for _, u := range r.data {
		cp := *u
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.Before(all[j].CreatedAt) })
	if offset >= len(all) {
		return nil, nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func (r *MockUserRepo) ListPremium(ctx context.Context, tx repository.Tx) ([]*model.User, error) {
	if r.ListPremiumFunc != nil {
		return r.ListPremiumFunc(ctx, tx)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.User
	for _, u := range r.data {
		if u.IsPremium {
			cp := *u
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *MockUserRepo) CountUsers(ctx context.Context, tx repository.Tx) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.data), nil
}

func (r *MockUserRepo) Delete(ctx context.Context, tx repository.Tx, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.data[id]
	if !ok {
		return domain.ErrNotFound
	}
	delete(r.byEmail, u.Email)
	delete(r.data, id)
	return nil
}

// ---- Mock PackageRepository ----

type MockPackageRepo struct {
	mu   sync.Mutex
	data map[string]*model.Package // by id

	FindByIDFunc func(ctx context.Context, tx repository.Tx, id string) (*model.Package, error)
	CountFunc    func(ctx context.Context, tx repository.Tx) (int, error)
}

var _ repository.PackageRepository = (*MockPackageRepo)(nil)

func NewMockPackageRepo() *MockPackageRepo {
	return &MockPackageRepo{data: map[string]*model.Package{}}
}

func (r *MockPackageRepo) Save(ctx context.Context, tx repository.Tx, p *model.Package) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	cp := *p
	r.data[p.ID] = &cp
	return nil
}

func (r *MockPackageRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Package, error) {
	if r.FindByIDFunc != nil {
		return r.FindByIDFunc(ctx, tx, id)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.data[id]; ok && p.IsActive {
		cp := *p
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (r *MockPackageRepo) FindByType(ctx context.Context, tx repository.Tx, typ string) (*model.Package, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.data {
		if p.Type == typ && p.IsActive {
			cp := *p
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *MockPackageRepo) ListActive(ctx context.Context, tx repository.Tx) ([]*model.Package, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Package
	for _, p := range r.data {
		if p.IsActive {
			cp := *p
			out = append(out, &cp)
		}
	}
	// shortest duration first, lifetime last
	sort.Slice(out, func(i, j int) bool {
		di, dj := out[i].DurationDays, out[j].DurationDays
		switch {
		case di == nil:
			return false
		case dj == nil:
			return true
		default:
			return *di < *dj
		}
	})
	return out, nil
}

func (r *MockPackageRepo) Count(ctx context.Context, tx repository.Tx) (int, error) {
	if r.CountFunc != nil {
		return r.CountFunc(ctx, tx)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.data), nil
}

// ---- Mock PaymentRepository ----

// MockPaymentRepo mirrors the real ledger's constraints: one pending row per
// (user, package) pair and a unique reference number.
type MockPaymentRepo struct {
	mu    sync.Mutex
	data  map[string]*model.PaymentTransaction // by id
	byRef map[string]string                    // reference -> id

	SaveFunc        func(ctx context.Context, tx repository.Tx, t *model.PaymentTransaction) error
	FindByIDFunc    func(ctx context.Context, tx repository.Tx, id string) (*model.PaymentTransaction, error)
	ListPendingFunc func(ctx context.Context, tx repository.Tx) ([]*model.PaymentTransaction, error)
}

var _ repository.PaymentRepository = (*MockPaymentRepo)(nil)

func NewMockPaymentRepo() *MockPaymentRepo {
	return &MockPaymentRepo{data: map[string]*model.PaymentTransaction{}, byRef: map[string]string{}}
}

func (r *MockPaymentRepo) Save(ctx context.Context, tx repository.Tx, t *model.PaymentTransaction) error {
	if r.SaveFunc != nil {
		return r.SaveFunc(ctx, tx, t)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if prev, ok := r.data[t.ID]; ok {
		delete(r.byRef, prev.ReferenceNumber)
	} else {
		if id, ok := r.byRef[t.ReferenceNumber]; ok && id != t.ID {
			return domain.ErrUniqueViolation
		}
		if t.Status == model.PaymentStatusPending {
			for _, other := range r.data {
				if other.ID != t.ID && other.UserID == t.UserID && other.PackageID == t.PackageID && other.Status == model.PaymentStatusPending {
					return domain.ErrPendingPaymentExists
				}
			}
		}
	}
	cp := *t
	r.data[t.ID] = &cp
	r.byRef[t.ReferenceNumber] = t.ID
	return nil
}

func (r *MockPaymentRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.PaymentTransaction, error) {
	if r.FindByIDFunc != nil {
		return r.FindByIDFunc(ctx, tx, id)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.data[id]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (r *MockPaymentRepo) FindByReference(ctx context.Context, tx repository.Tx, reference string) (*model.PaymentTransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if id, ok := r.byRef[reference]; ok {
		cp := *r.data[id]
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (r *MockPaymentRepo) FindPendingByUserAndPackage(ctx context.Context, tx repository.Tx, userID, packageID string) (*model.PaymentTransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.data {
		if t.UserID == userID && t.PackageID == packageID && t.Status == model.PaymentStatusPending {
			cp := *t
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *MockPaymentRepo) ListByUser(ctx context.Context, tx repository.Tx, userID string) ([]*model.PaymentTransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.PaymentTransaction
	for _, t := range r.data {
		if t.UserID == userID {
			cp := *t
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *MockPaymentRepo) ListPending(ctx context.Context, tx repository.Tx) ([]*model.PaymentTransaction, error) {
	if r.ListPendingFunc != nil {
		return r.ListPendingFunc(ctx, tx)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.PaymentTransaction
	for _, t := range r.data {
		if t.Status == model.PaymentStatusPending {
			cp := *t
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// ---- Mock content repositories ----

type MockCategoryRepo struct {
	mu   sync.Mutex
	data map[string]*model.Category
}

var _ repository.CategoryRepository = (*MockCategoryRepo)(nil)

func NewMockCategoryRepo() *MockCategoryRepo {
	return &MockCategoryRepo{data: map[string]*model.Category{}}
}

func (r *MockCategoryRepo) Save(ctx context.Context, tx repository.Tx, c *model.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	cp := *c
	r.data[c.ID] = &cp
	return nil
}

func (r *MockCategoryRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.data[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (r *MockCategoryRepo) ListActive(ctx context.Context, tx repository.Tx) ([]*model.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Category
	for _, c := range r.data {
		if c.IsActive {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return strings.Compare(out[i].Name, out[j].Name) < 0 })
	return out, nil
}

func (r *MockCategoryRepo) Delete(ctx context.Context, tx repository.Tx, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.data[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.data, id)
	return nil
}

type MockCourseRepo struct {
	mu   sync.Mutex
	data map[string]*model.Course
}

var _ repository.CourseRepository = (*MockCourseRepo)(nil)

func NewMockCourseRepo() *MockCourseRepo {
	return &MockCourseRepo{data: map[string]*model.Course{}}
}

func (r *MockCourseRepo) Save(ctx context.Context, tx repository.Tx, c *model.Course) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	cp := *c
	r.data[c.ID] = &cp
	return nil
}

func (r *MockCourseRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.data[id]; ok && c.IsActive {
		cp := *c
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (r *MockCourseRepo) ListByCategory(ctx context.Context, tx repository.Tx, categoryID string) ([]*model.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Course
	for _, c := range r.data {
		if c.CategoryID == categoryID && c.IsActive {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return strings.Compare(out[i].Title, out[j].Title) < 0 })
	return out, nil
}

func (r *MockCourseRepo) Delete(ctx context.Context, tx repository.Tx, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.data[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.data, id)
	return nil
}

type MockLessonRepo struct {
	mu   sync.Mutex
	data map[string]*model.Lesson
}

var _ repository.LessonRepository = (*MockLessonRepo)(nil)

func NewMockLessonRepo() *MockLessonRepo {
	return &MockLessonRepo{data: map[string]*model.Lesson{}}
}

func (r *MockLessonRepo) Save(ctx context.Context, tx repository.Tx, l *model.Lesson) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	cp := *l
	r.data[l.ID] = &cp
	return nil
}

func (r *MockLessonRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Lesson, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if l, ok := r.data[id]; ok {
		cp := *l
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (r *MockLessonRepo) ListByCourse(ctx context.Context, tx repository.Tx, courseID string) ([]*model.Lesson, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Lesson
	for _, l := range r.data {
		if l.CourseID == courseID {
			cp := *l
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LessonOrder < out[j].LessonOrder })
	return out, nil
}

func (r *MockLessonRepo) Delete(ctx context.Context, tx repository.Tx, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.data[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.data, id)
	return nil
}

// =============================
// Transaction manager and locker
// =============================

type MockTxManager struct {
	WithTxFunc func(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error
}

var _ repository.TransactionManager = (*MockTxManager)(nil)

func NewMockTxManager() *MockTxManager {
	return &MockTxManager{}
}

// WithTx runs the function immediately with NoTX by default. Tests that need
// to observe or fail the transaction assign WithTxFunc.
func (m *MockTxManager) WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	if m.WithTxFunc != nil {
		return m.WithTxFunc(ctx, txOpt, fn)
	}
	return fn(ctx, repository.NoTX)
}

var _ usecase.Locker = (*MockLocker)(nil)

type MockLocker struct {
	mu     sync.Mutex
	Locked []string // keys in TryLock order

	TryLockFunc func(ctx context.Context, key string, ttl time.Duration) (string, error)
}

func NewMockLocker() *MockLocker {
	return &MockLocker{}
}

func (l *MockLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (string, error) {
	if l.TryLockFunc != nil {
		return l.TryLockFunc(ctx, key, ttl)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Locked = append(l.Locked, key)
	return uuid.NewString(), nil
}

func (l *MockLocker) Unlock(ctx context.Context, key, token string) error { return nil }
