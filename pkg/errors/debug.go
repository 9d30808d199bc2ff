package errors

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// Postgres SQLSTATE values the repositories react to.
const (
	PGUniqueViolation     = "23505"
	PGForeignKeyViolation = "23503"
)

type ErrorDump struct {
	TopMessage string `json:"top_message"`
	Code       Code   `json:"code,omitempty"`

	Chain []string `json:"chain,omitempty"`

	PGCode       string `json:"pg_code,omitempty"`
	PGConstraint string `json:"pg_constraint,omitempty"`
	PGTable      string `json:"pg_table,omitempty"`
	PGDetail     string `json:"pg_detail,omitempty"`
	PGMessage    string `json:"pg_message,omitempty"`
}

func Dump(err error) ErrorDump {
	if err == nil {
		return ErrorDump{}
	}

	d := ErrorDump{
		TopMessage: err.Error(),
	}

	if te := As(err); te != nil {
		d.Code = te.Code()
	}

	for e := err; e != nil; e = errors.Unwrap(e) {
		d.Chain = append(d.Chain, fmt.Sprintf("%T: %v", e, e))
	}

	if pg := postgresDetails(err); pg != nil {
		d.PGCode = pg.code
		d.PGConstraint = pg.constraint
		d.PGTable = pg.table
		d.PGDetail = pg.detail
		d.PGMessage = pg.message
	}
	return d
}

// PGCode returns the SQLSTATE carried by a pgx or lib/pq error, or "".
func PGCode(err error) string {
	if pg := postgresDetails(err); pg != nil {
		return pg.code
	}
	return ""
}

// PGConstraint returns the violated constraint name carried by a driver error, or "".
func PGConstraint(err error) string {
	if pg := postgresDetails(err); pg != nil {
		return pg.constraint
	}
	return ""
}

type pgDetails struct {
	code       string
	constraint string
	table      string
	detail     string
	message    string
}

func postgresDetails(err error) *pgDetails {
	if err == nil {
		return nil
	}

	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		return &pgDetails{
			code:       pgxErr.Code,
			constraint: pgxErr.ConstraintName,
			table:      pgxErr.TableName,
			detail:     pgxErr.Detail,
			message:    pgxErr.Message,
		}
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return &pgDetails{
			code:       string(pqErr.Code),
			constraint: pqErr.Constraint,
			table:      pqErr.Table,
			detail:     pqErr.Detail,
			message:    pqErr.Message,
		}
	}
	return nil
}
