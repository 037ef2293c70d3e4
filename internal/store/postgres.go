package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"
)

// Postgres implements Store over a PostgreSQL database with the pg_trgm and
// fuzzystrmatch extensions. All queries are parameterized; the only
// identifiers spliced into SQL are the whitelisted field constants.
type Postgres struct {
	db *sql.DB
}

// OpenPostgres connects to the database at dsn and verifies connectivity.
func OpenPostgres(dsn string, maxConns int) (*Postgres, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if maxConns <= 0 {
		maxConns = 10
	}
	db.SetMaxOpenConns(maxConns)
	db.SetMaxIdleConns(maxConns / 2)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Postgres{db: db}, nil
}

// Close releases the underlying connection pool.
func (p *Postgres) Close() error {
	return p.db.Close()
}

// DB exposes the raw handle for health checks.
func (p *Postgres) DB() *sql.DB {
	return p.db
}

// InitSchema creates the extensions, tables, and indexes the store relies
// on. Idempotent.
func (p *Postgres) InitSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE EXTENSION IF NOT EXISTS pg_trgm`,
		`CREATE EXTENSION IF NOT EXISTS fuzzystrmatch`,
		`CREATE TABLE IF NOT EXISTS states (
			id SERIAL PRIMARY KEY,
			code CHAR(2) NOT NULL UNIQUE,
			name VARCHAR(100) NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS municipalities (
			id SERIAL PRIMARY KEY,
			name VARCHAR(100) NOT NULL,
			type VARCHAR(20) NOT NULL,
			state_id INTEGER NOT NULL REFERENCES states(id)
		)`,
		`CREATE TABLE IF NOT EXISTS addresses (
			id SERIAL PRIMARY KEY,
			street_number VARCHAR(10),
			street_name VARCHAR(150) NOT NULL,
			unit VARCHAR(40),
			street_address VARCHAR(200) NOT NULL,
			city VARCHAR(100) NOT NULL,
			state_code CHAR(2) NOT NULL,
			full_address VARCHAR(300) NOT NULL UNIQUE
		)`,
		`CREATE INDEX IF NOT EXISTS ix_municipalities_state_id ON municipalities (state_id)`,
		`CREATE INDEX IF NOT EXISTS ix_addresses_city ON addresses (LOWER(city))`,
		`CREATE INDEX IF NOT EXISTS ix_addresses_state_code ON addresses (state_code)`,
		`CREATE INDEX IF NOT EXISTS ix_addresses_street_name_trgm ON addresses USING gin (street_name gin_trgm_ops)`,
		`CREATE INDEX IF NOT EXISTS ix_addresses_street_address_trgm ON addresses USING gin (street_address gin_trgm_ops)`,
		`CREATE INDEX IF NOT EXISTS ix_addresses_full_address_trgm ON addresses USING gin (full_address gin_trgm_ops)`,
		`CREATE INDEX IF NOT EXISTS ix_addresses_street_name_soundex ON addresses (soundex(street_name))`,
	}

	for _, stmt := range stmts {
		if _, err := p.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement failed: %w", err)
		}
	}
	return nil
}

const addressColumns = `id, COALESCE(street_number, ''), street_name, COALESCE(unit, ''),
	street_address, city, state_code, full_address`

func scanAddress(row interface{ Scan(...any) error }) (Address, error) {
	var a Address
	err := row.Scan(&a.ID, &a.StreetNumber, &a.StreetName, &a.Unit,
		&a.StreetAddress, &a.City, &a.StateCode, &a.FullAddress)
	return a, err
}

// filterClause appends conjunctive state/city predicates. args is extended
// in place and returned.
func filterClause(f Filter, args []any) (string, []any) {
	var sb strings.Builder
	if f.StateCode != "" {
		args = append(args, strings.ToUpper(strings.TrimSpace(f.StateCode)))
		fmt.Fprintf(&sb, " AND state_code = $%d", len(args))
	}
	if f.City != "" {
		args = append(args, f.City)
		fmt.Fprintf(&sb, " AND LOWER(city) = LOWER($%d)", len(args))
	}
	return sb.String(), args
}

func (p *Postgres) AddressesByPattern(ctx context.Context, field, text string, kind MatchKind, f Filter, limit int) ([]Address, error) {
	if err := checkSearchField(field); err != nil {
		return nil, err
	}

	pattern := text + "%"
	if kind == MatchSubstring {
		pattern = "%" + text + "%"
	}

	args := []any{pattern}
	where, args := filterClause(f, args)
	args = append(args, limit)

	query := fmt.Sprintf(`
		SELECT %s
		FROM addresses
		WHERE %s ILIKE $1%s
		ORDER BY full_address
		LIMIT $%d`,
		addressColumns, field, where, len(args))

	return p.queryAddresses(ctx, query, args...)
}

func (p *Postgres) SimilarAddresses(ctx context.Context, field, text string, minSimilarity float64, f Filter) ([]ScoredAddress, error) {
	if err := checkSearchField(field); err != nil {
		return nil, err
	}

	args := []any{text, minSimilarity}
	where, args := filterClause(f, args)

	query := fmt.Sprintf(`
		SELECT %s, similarity(%s, $1) AS score
		FROM addresses
		WHERE similarity(%s, $1) >= $2%s
		ORDER BY score DESC, %s`,
		addressColumns, field, field, where, field)

	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("similarity query failed: %w", err)
	}
	defer rows.Close()

	var out []ScoredAddress
	for rows.Next() {
		var sa ScoredAddress
		if err := rows.Scan(&sa.ID, &sa.StreetNumber, &sa.StreetName, &sa.Unit,
			&sa.StreetAddress, &sa.City, &sa.StateCode, &sa.FullAddress, &sa.Score); err != nil {
			return nil, err
		}
		out = append(out, sa)
	}
	return out, rows.Err()
}

func (p *Postgres) PhoneticAddresses(ctx context.Context, field, text string, f Filter) ([]Address, error) {
	if err := checkSearchField(field); err != nil {
		return nil, err
	}

	args := []any{text}
	where, args := filterClause(f, args)

	query := fmt.Sprintf(`
		SELECT %s
		FROM addresses
		WHERE soundex(%s) = soundex($1)%s
		ORDER BY %s`,
		addressColumns, field, where, field)

	return p.queryAddresses(ctx, query, args...)
}

func (p *Postgres) queryAddresses(ctx context.Context, query string, args ...any) ([]Address, error) {
	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("address query failed: %w", err)
	}
	defer rows.Close()

	var out []Address
	for rows.Next() {
		a, err := scanAddress(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (p *Postgres) InsertAddress(ctx context.Context, a Address) (Address, error) {
	row := p.db.QueryRowContext(ctx, `
		INSERT INTO addresses (street_number, street_name, unit, street_address, city, state_code, full_address)
		VALUES (NULLIF($1, ''), $2, NULLIF($3, ''), $4, $5, $6, $7)
		RETURNING `+addressColumns,
		a.StreetNumber, a.StreetName, a.Unit, a.StreetAddress, a.City, a.StateCode, a.FullAddress)

	inserted, err := scanAddress(row)
	if err != nil {
		return Address{}, fmt.Errorf("failed to insert address: %w", err)
	}
	return inserted, nil
}

func (p *Postgres) UpdateAddress(ctx context.Context, id int64, a Address) (Address, error) {
	row := p.db.QueryRowContext(ctx, `
		UPDATE addresses
		SET street_number = NULLIF($1, ''), street_name = $2, unit = NULLIF($3, ''),
		    street_address = $4, city = $5, state_code = $6, full_address = $7
		WHERE id = $8
		RETURNING `+addressColumns,
		a.StreetNumber, a.StreetName, a.Unit, a.StreetAddress, a.City, a.StateCode, a.FullAddress, id)

	updated, err := scanAddress(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Address{}, ErrNotFound
	}
	if err != nil {
		return Address{}, fmt.Errorf("failed to update address %d: %w", id, err)
	}
	return updated, nil
}

func (p *Postgres) DeleteAddress(ctx context.Context, id int64) error {
	res, err := p.db.ExecContext(ctx, `DELETE FROM addresses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete address %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *Postgres) AddressByID(ctx context.Context, id int64) (*Address, error) {
	row := p.db.QueryRowContext(ctx,
		`SELECT `+addressColumns+` FROM addresses WHERE id = $1`, id)

	a, err := scanAddress(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch address %d: %w", id, err)
	}
	return &a, nil
}

func (p *Postgres) ListAddresses(ctx context.Context, limit int) ([]Address, error) {
	// limit 0 means no limit.
	return p.queryAddresses(ctx, `
		SELECT `+addressColumns+`
		FROM addresses
		ORDER BY state_code, city, street_name, street_number
		LIMIT NULLIF($1, 0)`, limit)
}

func (p *Postgres) CountAddresses(ctx context.Context) (int, error) {
	var n int
	err := p.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM addresses`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count addresses: %w", err)
	}
	return n, nil
}

func (p *Postgres) CountAddressesGroupedBy(ctx context.Context, field string, limit int) ([]ValueCount, error) {
	if err := checkGroupField(field); err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT %s, COUNT(*) AS address_count
		FROM addresses
		WHERE %s IS NOT NULL
		GROUP BY %s
		ORDER BY address_count DESC, %s
		LIMIT NULLIF($1, 0)`, field, field, field, field)

	rows, err := p.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("grouped count failed: %w", err)
	}
	defer rows.Close()

	var out []ValueCount
	for rows.Next() {
		var vc ValueCount
		if err := rows.Scan(&vc.Value, &vc.Count); err != nil {
			return nil, err
		}
		out = append(out, vc)
	}
	return out, rows.Err()
}

func (p *Postgres) InsertState(ctx context.Context, s State) (State, error) {
	err := p.db.QueryRowContext(ctx, `
		INSERT INTO states (code, name) VALUES ($1, $2)
		RETURNING id, code, name`,
		s.Code, s.Name).Scan(&s.ID, &s.Code, &s.Name)
	if err != nil {
		return State{}, fmt.Errorf("failed to insert state: %w", err)
	}
	return s, nil
}

func (p *Postgres) UpdateState(ctx context.Context, id int64, s State) (State, error) {
	err := p.db.QueryRowContext(ctx, `
		UPDATE states SET code = $1, name = $2 WHERE id = $3
		RETURNING id, code, name`,
		s.Code, s.Name, id).Scan(&s.ID, &s.Code, &s.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return State{}, ErrNotFound
	}
	if err != nil {
		return State{}, fmt.Errorf("failed to update state %d: %w", id, err)
	}
	return s, nil
}

func (p *Postgres) DeleteState(ctx context.Context, id int64) error {
	res, err := p.db.ExecContext(ctx, `DELETE FROM states WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete state %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *Postgres) StateByCode(ctx context.Context, code string) (*State, error) {
	var s State
	err := p.db.QueryRowContext(ctx,
		`SELECT id, code, name FROM states WHERE code = $1`,
		strings.ToUpper(strings.TrimSpace(code))).Scan(&s.ID, &s.Code, &s.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch state %q: %w", code, err)
	}
	return &s, nil
}

func (p *Postgres) ListStates(ctx context.Context) ([]State, error) {
	rows, err := p.db.QueryContext(ctx, `SELECT id, code, name FROM states ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list states: %w", err)
	}
	defer rows.Close()

	var out []State
	for rows.Next() {
		var s State
		if err := rows.Scan(&s.ID, &s.Code, &s.Name); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (p *Postgres) InsertMunicipality(ctx context.Context, m Municipality) (Municipality, error) {
	err := p.db.QueryRowContext(ctx, `
		INSERT INTO municipalities (name, type, state_id) VALUES ($1, $2, $3)
		RETURNING id, name, type, state_id`,
		m.Name, m.Type, m.StateID).Scan(&m.ID, &m.Name, &m.Type, &m.StateID)
	if err != nil {
		return Municipality{}, fmt.Errorf("failed to insert municipality: %w", err)
	}
	return m, nil
}

func (p *Postgres) UpdateMunicipality(ctx context.Context, id int64, m Municipality) (Municipality, error) {
	err := p.db.QueryRowContext(ctx, `
		UPDATE municipalities SET name = $1, type = $2, state_id = $3 WHERE id = $4
		RETURNING id, name, type, state_id`,
		m.Name, m.Type, m.StateID, id).Scan(&m.ID, &m.Name, &m.Type, &m.StateID)
	if errors.Is(err, sql.ErrNoRows) {
		return Municipality{}, ErrNotFound
	}
	if err != nil {
		return Municipality{}, fmt.Errorf("failed to update municipality %d: %w", id, err)
	}
	return m, nil
}

func (p *Postgres) DeleteMunicipality(ctx context.Context, id int64) error {
	res, err := p.db.ExecContext(ctx, `DELETE FROM municipalities WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete municipality %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *Postgres) MunicipalitiesByStateCode(ctx context.Context, stateCode string) ([]Municipality, error) {
	// ROW_NUMBER keeps one row per duplicate municipality name within the
	// state, mirroring the deduplicated listing the API serves.
	rows, err := p.db.QueryContext(ctx, `
		SELECT m.id, m.name, m.type, m.state_id
		FROM (
			SELECT id, name, type, state_id,
			       ROW_NUMBER() OVER (PARTITION BY name, state_id ORDER BY id) AS rn
			FROM municipalities
			WHERE state_id = (SELECT id FROM states WHERE code = $1)
		) m
		WHERE m.rn = 1
		ORDER BY m.name`,
		strings.ToUpper(strings.TrimSpace(stateCode)))
	if err != nil {
		return nil, fmt.Errorf("failed to list municipalities for %q: %w", stateCode, err)
	}
	defer rows.Close()

	var out []Municipality
	for rows.Next() {
		var m Municipality
		if err := rows.Scan(&m.ID, &m.Name, &m.Type, &m.StateID); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
