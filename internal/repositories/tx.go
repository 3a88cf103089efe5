package repositories

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"gorm.io/gorm"
)

// ErrConflict marks a transaction that failed due to concurrent contention
// (deadlock, serialization failure, locked database). Callers may retry the
// whole unit a bounded number of times.
var ErrConflict = errors.New("transaction conflict")

// IsRetryable reports whether err is a transient concurrency conflict.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrConflict)
}

// Repos bundles the repositories participating in one atomic unit.
type Repos struct {
	Products ProductRepository
	Orders   OrderRepository
	Users    UserRepository
}

// TxManager runs a function against Repos as a single atomic unit: either
// every write made through the passed repositories becomes durably visible,
// or none does.
type TxManager interface {
	InTransaction(fn func(r Repos) error) error
}

// GORMTxManager implements TxManager over a gorm database transaction.
type GORMTxManager struct {
	db *gorm.DB
}

// NewGORMTxManager creates a new instance of GORMTxManager.
func NewGORMTxManager(db *gorm.DB) *GORMTxManager {
	return &GORMTxManager{
		db: db,
	}
}

// InTransaction wraps fn in db.Transaction, handing it repositories bound to
// the transaction handle. Concurrency failures are wrapped in ErrConflict.
func (m *GORMTxManager) InTransaction(fn func(r Repos) error) error {
	err := m.db.Transaction(func(tx *gorm.DB) error {
		return fn(Repos{
			Products: NewGORMProductRepository(tx),
			Orders:   NewGORMOrderRepository(tx),
			Users:    NewGORMUserRepository(tx),
		})
	})
	if err != nil && isConcurrencyFailure(err) {
		return fmt.Errorf("%w: %v", ErrConflict, err)
	}
	return err
}

// isConcurrencyFailure matches the driver-level errors postgres and sqlite
// report when concurrent transactions collide.
func isConcurrencyFailure(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "deadlock detected") ||
		strings.Contains(msg, "could not serialize access") ||
		strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "database table is locked")
}

// MockTxManager implements TxManager over the in-memory mock repositories.
// A single mutex serializes transactions; snapshots taken before fn runs are
// restored on failure so partial writes are never observable.
type MockTxManager struct {
	mu       sync.Mutex
	products *MockProductRepository
	orders   *MockOrderRepository
	users    *MockUserRepository
}

// NewMockTxManager creates a new instance of MockTxManager.
func NewMockTxManager(products *MockProductRepository, orders *MockOrderRepository, users *MockUserRepository) *MockTxManager {
	return &MockTxManager{
		products: products,
		orders:   orders,
		users:    users,
	}
}

// InTransaction serializes fn against all other mock transactions and rolls
// back product and order state if fn fails.
func (m *MockTxManager) InTransaction(fn func(r Repos) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	productSnap := m.products.snapshot()
	orderSnap := m.orders.snapshot()

	err := fn(Repos{
		Products: m.products,
		Orders:   m.orders,
		Users:    m.users,
	})
	if err != nil {
		m.products.restore(productSnap)
		m.orders.restore(orderSnap)
		return err
	}
	return nil
}
