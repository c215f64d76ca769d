package errors

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"go.uber.org/multierr"
)

// LogFields flattens err into structured log fields: the message, its code,
// the unwrap chain, every member of a multierr aggregate (one per failed
// checkout item) and, for ledger writes, the Postgres diagnostics.
func LogFields(err error) map[string]any {
	if err == nil {
		return map[string]any{}
	}

	fields := map[string]any{"error_message": err.Error()}
	if typed := As(err); typed != nil {
		fields["code"] = typed.Code()
		fields["retryable"] = typed.Retryable()
	}

	var chain []string
	for e := err; e != nil; e = errors.Unwrap(e) {
		chain = append(chain, fmt.Sprintf("%T: %v", e, e))
	}
	fields["error_chain"] = chain

	if members := multierr.Errors(err); len(members) > 1 {
		causes := make([]string, 0, len(members))
		for _, member := range members {
			causes = append(causes, member.Error())
		}
		fields["error_causes"] = causes
	}

	if pg := postgresDiagnostics(err); pg != nil {
		for k, v := range pg {
			fields[k] = v
		}
	}
	return fields
}

// postgresDiagnostics understands both the pgx driver behind GORM and lib/pq.
func postgresDiagnostics(err error) map[string]string {
	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		return map[string]string{
			"pg_code":       pgxErr.Code,
			"pg_constraint": pgxErr.ConstraintName,
			"pg_table":      pgxErr.TableName,
			"pg_column":     pgxErr.ColumnName,
			"pg_detail":     pgxErr.Detail,
			"pg_message":    pgxErr.Message,
		}
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return map[string]string{
			"pg_code":       string(pqErr.Code),
			"pg_constraint": pqErr.Constraint,
			"pg_table":      pqErr.Table,
			"pg_column":     pqErr.Column,
			"pg_detail":     pqErr.Detail,
			"pg_message":    pqErr.Message,
		}
	}
	return nil
}
