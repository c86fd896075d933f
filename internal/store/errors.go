package store

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound : l'entité demandée n'existe pas. Jamais utilisé comme
	// flux de contrôle côté store — le handler décide du 404.
	ErrNotFound = errors.New("entité introuvable")

	// ErrConflict : collision de contrainte unique (numéro de commande en
	// double). Réessayable côté appelant.
	ErrConflict = errors.New("conflit de contrainte unique")
)

// isUniqueViolation détecte le code SQLSTATE 23505 de Postgres.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
