package orders

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore keeps all orders in a process-local map. State is lost on
// restart; durability is a deliberate non-goal of this backing.
type MemoryStore struct {
	mu      sync.RWMutex
	orders  map[string]Order
	seq     map[int]int // year -> last assigned sequence number
	nowFunc func() time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		orders:  make(map[string]Order),
		seq:     make(map[int]int),
		nowFunc: time.Now,
	}
}

func (s *MemoryStore) Create(_ context.Context, in NewOrder) (*Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.nowFunc()
	year := now.Year()
	s.seq[year]++

	o := Order{
		ID:                uuid.NewString(),
		OrderID:           fmt.Sprintf("ORD-%d-%04d", year, s.seq[year]),
		FullName:          in.FullName,
		Email:             in.Email,
		Phone:             in.Phone,
		Company:           in.Company,
		ProjectName:       in.ProjectName,
		AutomationType:    in.AutomationType,
		CustomDescription: in.CustomDescription,
		Integrations:      in.Integrations,
		HasCredentials:    in.HasCredentials,
		AttachedFiles:     in.AttachedFiles,
		ExampleLink:       in.ExampleLink,
		DeliverySpeed:     in.DeliverySpeed,
		PriorityNotes:     in.PriorityNotes,
		Status:            StatusNew,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if o.Integrations == nil {
		o.Integrations = []string{}
	}
	if o.AttachedFiles == nil {
		o.AttachedFiles = []AttachedFile{}
	}

	s.orders[o.ID] = o
	return &o, nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.orders[id]
	if !ok {
		return nil, nil
	}
	return &o, nil
}

// GetByOrderID scans for a matching human-facing code.
func (s *MemoryStore) GetByOrderID(_ context.Context, orderID string) (*Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, o := range s.orders {
		if o.OrderID == orderID {
			o := o
			return &o, nil
		}
	}
	return nil, nil
}

func (s *MemoryStore) List(_ context.Context) ([]Order, error) {
	s.mu.RLock()
	all := make([]Order, 0, len(s.orders))
	for _, o := range s.orders {
		all = append(all, o)
	}
	s.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})
	return all, nil
}

func (s *MemoryStore) Update(_ context.Context, id string, upd OrderUpdate) (*Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[id]
	if !ok {
		return nil, nil
	}
	if upd.Status != nil {
		o.Status = *upd.Status
	}
	if upd.AdminNotes != nil {
		o.AdminNotes = *upd.AdminNotes
	}
	o.UpdatedAt = s.nowFunc()
	s.orders[id] = o
	return &o, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.orders[id]; !ok {
		return false, nil
	}
	delete(s.orders, id)
	return true, nil
}
