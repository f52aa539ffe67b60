package memory

import (
	"context"
	"sync"
	"time"

	"contract_calc/internal/models"
	"contract_calc/internal/modules/history/service"
)

// Calculations — история в памяти, не больше keep записей на пользователя.
type Calculations struct {
	mu     sync.RWMutex
	keep   int
	nextID int64
	data   map[int64][]*models.Calculation // userID -> старые первыми
}

var _ service.Calculations = (*Calculations)(nil)

func NewCalculations(keep int) *Calculations {
	return &Calculations{
		keep: keep,
		data: make(map[int64][]*models.Calculation),
	}
}

func (s *Calculations) Save(_ context.Context, c *models.Calculation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	c.ID = s.nextID
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}

	cp := *c
	list := append(s.data[c.UserID], &cp)
	if s.keep > 0 && len(list) > s.keep {
		// копия, чтобы вытесненные записи не держались старым массивом
		trimmed := make([]*models.Calculation, s.keep)
		copy(trimmed, list[len(list)-s.keep:])
		list = trimmed
	}
	s.data[c.UserID] = list
	return nil
}

func (s *Calculations) List(_ context.Context, userID int64, limit int) ([]*models.Calculation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := s.data[userID]
	out := make([]*models.Calculation, 0, len(list))
	for i := len(list) - 1; i >= 0; i-- {
		if limit > 0 && len(out) == limit {
			break
		}
		cp := *list[i]
		out = append(out, &cp)
	}
	return out, nil
}

func (s *Calculations) Last(_ context.Context, userID int64, kind models.CalculationKind) (*models.Calculation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := s.data[userID]
	for i := len(list) - 1; i >= 0; i-- {
		if list[i].Kind == kind {
			cp := *list[i]
			return &cp, nil
		}
	}
	return nil, service.ErrNotFound
}
