package pg

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/jackc/pgx/v5"

	"contract_calc/internal/models"
	"contract_calc/internal/modules/history/service"
	"contract_calc/pkg/db"
)

// Calculations — история расчётов. Результат целиком сериализуется в payload.
type Calculations struct {
	db   db.TxManager
	keep int
}

var _ service.Calculations = (*Calculations)(nil)

func NewCalculations(tx db.TxManager, keep int) *Calculations {
	return &Calculations{db: tx, keep: keep}
}

func payloadOf(c *models.Calculation) (data []byte, status string, err error) {
	switch c.Kind {
	case models.KindMartingale:
		if c.Martingale == nil {
			return nil, "", errors.New("martingale result is nil")
		}
		data, err = sonic.Marshal(c.Martingale)
		return data, string(c.Martingale.Status), err
	case models.KindStandard:
		if c.Standard == nil {
			return nil, "", errors.New("standard result is nil")
		}
		data, err = sonic.Marshal(c.Standard)
		return data, "", err
	}
	return nil, "", fmt.Errorf("unknown kind %q", c.Kind)
}

// Save пишет запись и обрезает хвост истории пользователя до keep.
func (s *Calculations) Save(ctx context.Context, c *models.Calculation) (err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("pg.Calculations.Save: %w", err)
		}
	}()

	data, status, err := payloadOf(c)
	if err != nil {
		return err
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}

	return s.db.RunMaster(ctx, func(ctxTx context.Context, tx db.Transaction) error {
		err := tx.QueryRow(ctxTx, `
			INSERT INTO calculations (user_id, kind, status, payload, created_at)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id`,
			c.UserID, string(c.Kind), status, data, c.CreatedAt,
		).Scan(&c.ID)
		if err != nil {
			return err
		}
		if s.keep <= 0 {
			return nil
		}
		_, err = tx.Exec(ctxTx, `
			DELETE FROM calculations
			WHERE user_id = $1 AND id NOT IN (
				SELECT id FROM calculations WHERE user_id = $1
				ORDER BY created_at DESC, id DESC LIMIT $2
			)`,
			c.UserID, s.keep,
		)
		return err
	})
}

func (s *Calculations) List(ctx context.Context, userID int64, limit int) (out []*models.Calculation, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("pg.Calculations.List: %w", err)
		}
	}()

	if limit <= 0 {
		limit = s.keep
	}
	if limit <= 0 {
		limit = 100
	}

	rows, err := s.db.Conn().Query(ctx, `
		SELECT id, user_id, kind, payload, created_at FROM calculations
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		c, err := scanCalculation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Calculations) Last(ctx context.Context, userID int64, kind models.CalculationKind) (c *models.Calculation, err error) {
	defer func() {
		if err != nil && !errors.Is(err, service.ErrNotFound) {
			err = fmt.Errorf("pg.Calculations.Last: %w", err)
		}
	}()

	row := s.db.Conn().QueryRow(ctx, `
		SELECT id, user_id, kind, payload, created_at FROM calculations
		WHERE user_id = $1 AND kind = $2
		ORDER BY created_at DESC, id DESC
		LIMIT 1`,
		userID, string(kind),
	)
	c, err = scanCalculation(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, service.ErrNotFound
	}
	return c, err
}

func scanCalculation(row pgx.Row) (*models.Calculation, error) {
	var (
		c    models.Calculation
		kind string
		raw  []byte
	)
	if err := row.Scan(&c.ID, &c.UserID, &kind, &raw, &c.CreatedAt); err != nil {
		return nil, err
	}
	c.Kind = models.CalculationKind(kind)

	switch c.Kind {
	case models.KindMartingale:
		c.Martingale = &models.MartingaleResult{}
		if err := sonic.Unmarshal(raw, c.Martingale); err != nil {
			return nil, err
		}
	case models.KindStandard:
		c.Standard = &models.StandardRecord{}
		if err := sonic.Unmarshal(raw, c.Standard); err != nil {
			return nil, err
		}
	}
	return &c, nil
}
