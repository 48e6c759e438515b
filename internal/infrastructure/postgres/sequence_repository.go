package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/multistock/internal/domain/repository"
)

var _ repository.SequenceRepository = (*SequenceRepo)(nil)

// SequenceRepo contador de consecutivos por familia sobre PostgreSQL.
// El UPDATE toma bloqueo de fila: transacciones concurrentes de la misma
// familia se serializan aquí y una tx abortada descarta el valor sin acuñarlo
// (el consecutivo puede dejar huecos por rollback, nunca duplicados).
type SequenceRepo struct {
	q Querier
}

// NewSequenceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSequenceRepository(q Querier) *SequenceRepo {
	return &SequenceRepo{q: q}
}

// Next incrementa y devuelve el nuevo valor para la familia. El upsert cubre
// el arranque en frío de familias sin fila previa.
func (r *SequenceRepo) Next(family string) (int64, error) {
	var next int64
	err := r.q.QueryRow(context.Background(), `
		INSERT INTO order_sequences (family, last_value)
		VALUES ($1, 1)
		ON CONFLICT (family)
		DO UPDATE SET last_value = order_sequences.last_value + 1
		RETURNING last_value`,
		family,
	).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("next sequence %s: %w", family, err)
	}
	return next, nil
}

// Current devuelve el último valor acuñado para la familia (0 si no existe).
func (r *SequenceRepo) Current(family string) (int64, error) {
	var current int64
	err := r.q.QueryRow(context.Background(),
		`SELECT last_value FROM order_sequences WHERE family = $1`,
		family,
	).Scan(&current)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("current sequence %s: %w", family, err)
	}
	return current, nil
}
