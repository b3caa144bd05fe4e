package repositories

import (
	"errors"

	"github.com/jackc/pgx/v5"
)

var (
	ErrNotFound      = errors.New("record not found")
	ErrOverAllocated = errors.New("saved quantities exceed the ordered quantity of a line")
)

func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
