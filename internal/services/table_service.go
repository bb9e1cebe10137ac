package services

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"resto_pos_backend/internal/models"
	"resto_pos_backend/internal/repositories"
	"resto_pos_backend/pkg/utils"
)

var (
	ErrTableNotFound = errors.New("table not found")
	ErrTableOccupied = errors.New("table is occupied by another order")
)

// TableService owns the table-occupancy state machine. Table state is derived
// entirely from the persisted order set: Reconcile rebuilds it on startup and
// after a restore, and order mutations drive the individual transitions. The
// table list itself is never persisted, so the two can not diverge.
type TableService struct {
	mu        sync.Mutex
	tables    map[int]*models.Table
	count     int
	orderRepo repositories.OrderRepository
}

// NewTableService creates the registry with the configured number of tables,
// all available. Call Reconcile before serving requests.
func NewTableService(orderRepo repositories.OrderRepository, count int) *TableService {
	tables := make(map[int]*models.Table, count)
	for n := 1; n <= count; n++ {
		tables[n] = &models.Table{Number: n, Status: models.TableStatusAvailable}
	}
	return &TableService{tables: tables, count: count, orderRepo: orderRepo}
}

// Reconcile rebuilds table state from the authoritative order records: every
// active (pending or incomplete) dine-in order marks its table occupied, all
// other tables reset to available. Idempotent.
func (s *TableService) Reconcile() error {
	active, err := s.orderRepo.GetActiveDineInOrders()
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, table := range s.tables {
		table.Status = models.TableStatusAvailable
		table.CurrentOrder = nil
	}
	for i := range active {
		order := active[i]
		if order.TableNumber == nil {
			utils.LogWarn("Active dine-in order without a table number skipped during reconciliation",
				map[string]interface{}{"order_id": order.ID})
			continue
		}
		table, ok := s.tables[*order.TableNumber]
		if !ok {
			utils.LogWarn("Active dine-in order references an unknown table",
				map[string]interface{}{"order_id": order.ID, "table_number": *order.TableNumber})
			continue
		}
		table.Status = models.TableStatusOccupied
		table.CurrentOrder = &order
	}
	return nil
}

// ListTables returns a snapshot of all tables ordered by number.
func (s *TableService) ListTables() []models.Table {
	s.mu.Lock()
	defer s.mu.Unlock()

	tables := make([]models.Table, 0, len(s.tables))
	for _, t := range s.tables {
		tables = append(tables, *t)
	}
	sort.Slice(tables, func(i, j int) bool { return tables[i].Number < tables[j].Number })
	return tables
}

// SelectTable resolves a table number to its current state. When the table is
// occupied the attached order comes back with it, so the caller edits the
// existing order instead of opening a duplicate.
func (s *TableService) SelectTable(number int) (*models.Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	table, ok := s.tables[number]
	if !ok {
		return nil, fmt.Errorf("%w: table %d", ErrTableNotFound, number)
	}
	snapshot := *table
	return &snapshot, nil
}

// EnsureAvailable rejects opening a new order against a table that already
// has one.
func (s *TableService) EnsureAvailable(number int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	table, ok := s.tables[number]
	if !ok {
		return fmt.Errorf("%w: table %d", ErrTableNotFound, number)
	}
	if table.Status == models.TableStatusOccupied {
		return fmt.Errorf("%w: table %d", ErrTableOccupied, number)
	}
	return nil
}

// OrderOpened transitions a table to occupied when an active dine-in order is
// saved against it.
func (s *TableService) OrderOpened(order *models.Order) error {
	return s.apply(order, func(table *models.Table, o *models.Order) error {
		if table.Status == models.TableStatusOccupied && table.CurrentOrder != nil && table.CurrentOrder.ID != o.ID {
			return fmt.Errorf("%w: table %d holds order %d", ErrTableOccupied, table.Number, table.CurrentOrder.ID)
		}
		table.Status = models.TableStatusOccupied
		table.CurrentOrder = o
		return nil
	})
}

// OrderUpdated refreshes the attached order after a re-save or partial
// payment; the table stays occupied until fully paid.
func (s *TableService) OrderUpdated(order *models.Order) error {
	return s.apply(order, func(table *models.Table, o *models.Order) error {
		if table.Status != models.TableStatusOccupied || table.CurrentOrder == nil || table.CurrentOrder.ID != o.ID {
			return fmt.Errorf("%w: table %d does not hold order %d", ErrTableNotFound, table.Number, o.ID)
		}
		table.CurrentOrder = o
		return nil
	})
}

// OrderSettled releases a table once its order is paid in full. Settling an
// order that never occupied the table (created already complete) is a no-op.
func (s *TableService) OrderSettled(order *models.Order) error {
	return s.apply(order, func(table *models.Table, o *models.Order) error {
		if table.CurrentOrder != nil && table.CurrentOrder.ID != o.ID {
			return fmt.Errorf("%w: table %d holds order %d", ErrTableOccupied, table.Number, table.CurrentOrder.ID)
		}
		table.Status = models.TableStatusAvailable
		table.CurrentOrder = nil
		return nil
	})
}

// HoldsOrder reports whether the order is currently attached to its table.
func (s *TableService) HoldsOrder(order *models.Order) bool {
	if order.TableNumber == nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	table, ok := s.tables[*order.TableNumber]
	return ok && table.CurrentOrder != nil && table.CurrentOrder.ID == order.ID
}

// OccupiedCount returns the number of occupied tables.
func (s *TableService) OccupiedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, t := range s.tables {
		if t.Status == models.TableStatusOccupied {
			count++
		}
	}
	return count
}

func (s *TableService) apply(order *models.Order, transition func(*models.Table, *models.Order) error) error {
	if order.Type != models.OrderTypeDineIn || order.TableNumber == nil {
		return fmt.Errorf("%w: order %d is not a dine-in order with a table", ErrTableNotFound, order.ID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	table, ok := s.tables[*order.TableNumber]
	if !ok {
		return fmt.Errorf("%w: table %d", ErrTableNotFound, *order.TableNumber)
	}
	snapshot := *order
	return transition(table, &snapshot)
}
