// Package repo contains all database access logic for the camp directory.
// It implements the record store: camps keyed by name, with create-or-replace
// and delete. No business logic lives here, only SQL and type mapping.
package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/camp-directory/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test, giving free
// per-test isolation without any manual cleanup.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// CampRepo defines the persistence operations for Camps.
// The service layer depends on this interface, not the concrete Postgres implementation,
// which allows the service to be unit-tested with a mock.
type CampRepo interface {
	// List returns all camps ordered by name.
	List(ctx context.Context) ([]domain.Camp, error)

	// Get retrieves a single camp by name.
	// Returns domain.ErrNotFound if no camp with that name exists.
	Get(ctx context.Context, name string) (domain.Camp, error)

	// Upsert inserts the camp, or replaces every field of the camp already
	// stored under camp.Name, and returns the persisted record.
	Upsert(ctx context.Context, camp domain.Camp) (domain.Camp, error)

	// Delete removes a camp by name. Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, name string) error
}

// pgCampRepo is the Postgres implementation of CampRepo.
type pgCampRepo struct {
	db db
}

// NewCampRepo constructs a CampRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewCampRepo(db db) CampRepo {
	return &pgCampRepo{db: db}
}

const campColumns = `
	name, type, borough, all_ages, age_from, age_to, languages,
	year_round, date_from, date_to, hours, cost_amount, cost_period,
	financial_aid, link, phone_number, phone_extension, email, address, notes,
	latitude, longitude`

// List returns every camp ordered by name.
func (r *pgCampRepo) List(ctx context.Context) ([]domain.Camp, error) {
	q := `SELECT` + campColumns + ` FROM camps ORDER BY name`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.CampRepo.List: %w", err)
	}
	defer rows.Close()

	camps := []domain.Camp{}
	for rows.Next() {
		c, err := scanCamp(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.CampRepo.List: scan: %w", err)
		}
		camps = append(camps, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.CampRepo.List: rows: %w", err)
	}

	return camps, nil
}

// Get retrieves a camp by name.
func (r *pgCampRepo) Get(ctx context.Context, name string) (domain.Camp, error) {
	q := `SELECT` + campColumns + ` FROM camps WHERE name = @name`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"name": name})
	result, err := scanCamp(row)
	if err != nil {
		return domain.Camp{}, fmt.Errorf("repo.CampRepo.Get: %w", err)
	}
	return result, nil
}

// Upsert writes the camp under its name, replacing any existing row.
func (r *pgCampRepo) Upsert(ctx context.Context, camp domain.Camp) (domain.Camp, error) {
	q := `
		INSERT INTO camps (` + campColumns + `)
		VALUES (
			@name, @type, @borough, @all_ages, @age_from, @age_to, @languages,
			@year_round, @date_from, @date_to, @hours, @cost_amount, @cost_period,
			@financial_aid, @link, @phone_number, @phone_extension, @email, @address, @notes,
			@latitude, @longitude)
		ON CONFLICT (name) DO UPDATE SET
			type            = EXCLUDED.type,
			borough         = EXCLUDED.borough,
			all_ages        = EXCLUDED.all_ages,
			age_from        = EXCLUDED.age_from,
			age_to          = EXCLUDED.age_to,
			languages       = EXCLUDED.languages,
			year_round      = EXCLUDED.year_round,
			date_from       = EXCLUDED.date_from,
			date_to         = EXCLUDED.date_to,
			hours           = EXCLUDED.hours,
			cost_amount     = EXCLUDED.cost_amount,
			cost_period     = EXCLUDED.cost_period,
			financial_aid   = EXCLUDED.financial_aid,
			link            = EXCLUDED.link,
			phone_number    = EXCLUDED.phone_number,
			phone_extension = EXCLUDED.phone_extension,
			email           = EXCLUDED.email,
			address         = EXCLUDED.address,
			notes           = EXCLUDED.notes,
			latitude        = EXCLUDED.latitude,
			longitude       = EXCLUDED.longitude,
			updated_at      = now()
		RETURNING` + campColumns

	row := r.db.QueryRow(ctx, q, campArgs(camp))
	result, err := scanCamp(row)
	if err != nil {
		return domain.Camp{}, fmt.Errorf("repo.CampRepo.Upsert: %w", err)
	}
	return result, nil
}

// Delete removes a camp by name.
func (r *pgCampRepo) Delete(ctx context.Context, name string) error {
	const q = `DELETE FROM camps WHERE name = @name`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"name": name})
	if err != nil {
		return fmt.Errorf("repo.CampRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.CampRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// campArgs maps a camp onto the named parameters used by Upsert.
// Absent optional values become NULL.
func campArgs(c domain.Camp) pgx.NamedArgs {
	args := pgx.NamedArgs{
		"name":            c.Name,
		"type":            string(c.Type),
		"borough":         pgtype.Text{String: c.Borough, Valid: c.Borough != ""},
		"all_ages":        c.AgeRange.AllAges,
		"age_from":        pgtype.Int4{Int32: int32(c.AgeRange.From), Valid: !c.AgeRange.AllAges},
		"age_to":          pgtype.Int4{Int32: int32(c.AgeRange.To), Valid: !c.AgeRange.AllAges},
		"languages":       c.Languages,
		"year_round":      c.Dates.YearRound,
		"date_from":       pgtype.Date{Time: c.Dates.From, Valid: !c.Dates.YearRound},
		"date_to":         pgtype.Date{Time: c.Dates.To, Valid: !c.Dates.YearRound},
		"hours":           c.Hours,
		"cost_amount":     c.Cost.Amount,
		"cost_period":     string(c.Cost.Period),
		"financial_aid":   c.FinancialAid,
		"link":            c.Link,
		"phone_number":    c.Phone.Number,
		"phone_extension": c.Phone.Extension,
		"email":           c.Email,
		"address":         c.Address,
		"notes":           c.Notes,
		"latitude":        pgtype.Float8{},
		"longitude":       pgtype.Float8{},
	}
	if c.Languages == nil {
		args["languages"] = []string{}
	}
	if c.Coordinates != nil {
		args["latitude"] = pgtype.Float8{Float64: c.Coordinates.Lat, Valid: true}
		args["longitude"] = pgtype.Float8{Float64: c.Coordinates.Lng, Valid: true}
	}
	return args
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing scanCamp to be
// reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// scanCamp maps a single database row into a domain.Camp, folding the
// nullable column pairs back into their tagged-union forms.
func scanCamp(s scanner) (domain.Camp, error) {
	var (
		c                   domain.Camp
		campType, period    string
		borough             pgtype.Text
		ageFrom, ageTo      pgtype.Int4
		dateFrom, dateTo    pgtype.Date
		latitude, longitude pgtype.Float8
	)

	err := s.Scan(
		&c.Name, &campType, &borough, &c.AgeRange.AllAges, &ageFrom, &ageTo, &c.Languages,
		&c.Dates.YearRound, &dateFrom, &dateTo, &c.Hours, &c.Cost.Amount, &period,
		&c.FinancialAid, &c.Link, &c.Phone.Number, &c.Phone.Extension, &c.Email, &c.Address, &c.Notes,
		&latitude, &longitude,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Camp{}, domain.ErrNotFound
		}
		return domain.Camp{}, err
	}

	c.Type = domain.CampType(campType)
	c.Cost.Period = domain.Period(period)
	c.Borough = borough.String
	if !c.AgeRange.AllAges {
		c.AgeRange = domain.AgesBetween(int(ageFrom.Int32), int(ageTo.Int32))
	}
	if !c.Dates.YearRound {
		c.Dates = domain.DatesBetween(dateFrom.Time, dateTo.Time)
	}
	if latitude.Valid && longitude.Valid {
		c.Coordinates = &domain.Coordinates{Lat: latitude.Float64, Lng: longitude.Float64}
	}

	return c, nil
}
