package postgres

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"churnboard/domain/customer"
	"churnboard/internal/errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// DefaultTable is read when the location does not name a table.
const DefaultTable = "customers"

// CustomerSource reads the customer dataset from a PostgreSQL table whose
// columns carry the same names as the CSV headers.
type CustomerSource struct {
	db       *sqlx.DB
	location string
	table    string
}

// ParseLocation splits a postgres:// URL into a driver DSN and the table
// named by its "table" query parameter.
func ParseLocation(location string) (dsn string, table string, err error) {
	u, err := url.Parse(location)
	if err != nil {
		return "", "", errors.ConfigInvalid(fmt.Sprintf("invalid database location: %v", err))
	}
	if u.Scheme != "postgres" && u.Scheme != "postgresql" {
		return "", "", errors.ConfigInvalid(fmt.Sprintf("unsupported scheme %q", u.Scheme))
	}

	query := u.Query()
	table = strings.TrimSpace(query.Get("table"))
	if table == "" {
		table = DefaultTable
	}
	query.Del("table")
	u.RawQuery = query.Encode()

	return u.String(), table, nil
}

// IsLocation reports whether location looks like a PostgreSQL URL.
func IsLocation(location string) bool {
	return strings.HasPrefix(location, "postgres://") || strings.HasPrefix(location, "postgresql://")
}

// Open connects to the database named by location.
func Open(ctx context.Context, location string) (*CustomerSource, error) {
	dsn, table, err := ParseLocation(location)
	if err != nil {
		return nil, err
	}

	db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	if err != nil {
		return nil, errors.DatabaseError("failed to connect to database", err)
	}

	return NewCustomerSource(db, location, table), nil
}

// NewCustomerSource wraps an existing connection.
func NewCustomerSource(db *sqlx.DB, location, table string) *CustomerSource {
	return &CustomerSource{db: db, location: location, table: table}
}

// Location returns the URL the source was opened with.
func (s *CustomerSource) Location() string {
	return s.location
}

// Fingerprint summarises the table cheaply: row count plus column sums.
func (s *CustomerSource) Fingerprint(ctx context.Context) (string, error) {
	var fp struct {
		Rows  int64   `db:"rows"`
		CLV   float64 `db:"clv"`
		Churn int64   `db:"churn"`
	}
	if err := s.db.GetContext(ctx, &fp, fingerprintQuery(s.table)); err != nil {
		return "", errors.DatabaseError("failed to fingerprint customer table", err)
	}
	return fmt.Sprintf("%d-%g-%d", fp.Rows, fp.CLV, fp.Churn), nil
}

// ReadTable selects every row in physical order.
func (s *CustomerSource) ReadTable(ctx context.Context) (*customer.Table, error) {
	var records []customer.Record
	if err := s.db.SelectContext(ctx, &records, selectQuery(s.table)); err != nil {
		return nil, errors.DatabaseError("failed to read customer table", err)
	}

	table, err := customer.NewTable(s.location, records)
	if err != nil {
		return nil, errors.Wrap(errors.ParseError(err.Error()), "invalid customer table")
	}
	return table, nil
}

// Close releases the connection pool.
func (s *CustomerSource) Close() error {
	return s.db.Close()
}

func quoteTable(table string) string {
	parts := strings.Split(table, ".")
	for i, p := range parts {
		parts[i] = pq.QuoteIdentifier(p)
	}
	return strings.Join(parts, ".")
}

func selectQuery(table string) string {
	return fmt.Sprintf(`SELECT
		%s::text AS %[1]s,
		%s::int AS %[2]s,
		%s::text AS %[3]s,
		%s::float8 AS %[4]s,
		%s::text AS %[5]s
	FROM %s ORDER BY ctid`,
		pq.QuoteIdentifier(customer.ColumnCustomerID),
		pq.QuoteIdentifier(customer.ColumnChurn),
		pq.QuoteIdentifier(customer.ColumnCustomerGroup),
		pq.QuoteIdentifier(customer.ColumnEstimatedCLV),
		pq.QuoteIdentifier(customer.ColumnCLVSegment),
		quoteTable(table),
	)
}

func fingerprintQuery(table string) string {
	return fmt.Sprintf(`SELECT
		count(*) AS rows,
		COALESCE(sum(%s), 0)::float8 AS clv,
		COALESCE(sum(%s::int), 0)::bigint AS churn
	FROM %s`,
		pq.QuoteIdentifier(customer.ColumnEstimatedCLV),
		pq.QuoteIdentifier(customer.ColumnChurn),
		quoteTable(table),
	)
}
