package tenantdb

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/shopfront/provisioner/api"
)

// placeholderPointCount is how many placeholder selling points are
// seeded for a plan that supplies none.
const placeholderPointCount = 3

// Seed carries everything inserted into a fresh tenant database.
type Seed struct {
	// Email is the primary owner login; stored lower-cased.
	Email string

	// Password is the owner's plaintext password. It is hashed here and
	// only the hash is stored.
	Password string

	// LoginToken is the optional passwordless-entry token; empty when
	// the caller supplied none.
	LoginToken string

	// Currency and CountryCode are the resolved locale pair.
	Currency    string
	CountryCode string

	// CompanyName is stored in the company row.
	CompanyName string

	// Plans is the list of plans to seed; must be non-empty.
	Plans []api.PlanSpec
}

// Validate rejects a seed missing any required field. The orchestrator
// calls it before claiming any resources so a malformed payload writes
// nothing at all.
func (s Seed) Validate() error {
	switch {
	case s.Email == "":
		return &api.MissingFieldError{Field: "users"}
	case s.CompanyName == "":
		return &api.MissingFieldError{Field: "company.name"}
	case len(s.Plans) == 0:
		return &api.MissingFieldError{Field: "plans"}
	}
	return nil
}

// Seeder instantiates per-tenant databases from a canonical
// empty-schema template file.
type Seeder struct {
	templatePath string
	log          *slog.Logger
}

// NewSeeder creates a seeder using the template database at
// templatePath.
func NewSeeder(templatePath string, log *slog.Logger) *Seeder {
	return &Seeder{templatePath: templatePath, log: log}
}

// Seed copies the template database to dbPath and runs all bootstrap
// inserts in one transaction. On any failure nothing is committed; the
// copied file is removed so a retry starts clean.
func (s *Seeder) Seed(ctx context.Context, dbPath string, seed Seed) error {
	if err := seed.Validate(); err != nil {
		return err
	}

	if err := copyFile(s.templatePath, dbPath); err != nil {
		return fmt.Errorf("failed to copy schema template: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("failed to open tenant database: %w", err)
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin seeding transaction: %w", err)
	}

	if err := s.seedAll(ctx, tx, seed); err != nil {
		tx.Rollback()
		os.Remove(dbPath)
		return err
	}

	if err := tx.Commit(); err != nil {
		os.Remove(dbPath)
		return fmt.Errorf("failed to commit seeding transaction: %w", err)
	}

	s.log.Info("Seeded tenant database",
		slog.String("db", dbPath),
		slog.Int("plans", len(seed.Plans)))
	return nil
}

func (s *Seeder) seedAll(ctx context.Context, tx *sql.Tx, seed Seed) error {
	now := time.Now()

	hash, err := bcrypt.GenerateFromPassword([]byte(seed.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash owner password: %w", err)
	}

	if seed.LoginToken == "" {
		s.log.Warn("No login token supplied, owner login URL will not grant entry")
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO user (email, password, created_at, active, login_token) VALUES (?,?,?,?,?)`,
		strings.ToLower(seed.Email), string(hash), now, true, seed.LoginToken)
	if err != nil {
		return fmt.Errorf("failed to insert owner user: %w", err)
	}

	// The token is written a second time on purpose. Some callers only
	// deliver the token after initial user creation; the read model is
	// the token value, not the statement order.
	_, err = tx.ExecContext(ctx, `UPDATE user SET login_token = ?`, seed.LoginToken)
	if err != nil {
		return fmt.Errorf("failed to set login token: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO payment_provider (stripe_active, gocardless_active) VALUES (0, 0)`)
	if err != nil {
		return fmt.Errorf("failed to insert payment provider row: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO setting (default_currency, default_country_code) VALUES (?,?)`,
		seed.Currency, seed.CountryCode)
	if err != nil {
		return fmt.Errorf("failed to insert setting row: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO company (created_at, name) VALUES (?,?)`, now, seed.CompanyName)
	if err != nil {
		return fmt.Errorf("failed to insert company row: %w", err)
	}

	_, err = tx.ExecContext(ctx, `INSERT INTO integration (id) VALUES (1)`)
	if err != nil {
		return fmt.Errorf("failed to insert integration row: %w", err)
	}

	for _, plan := range seed.Plans {
		if err := s.seedPlan(ctx, tx, now, plan); err != nil {
			return err
		}
	}
	return nil
}

func (s *Seeder) seedPlan(ctx context.Context, tx *sql.Tx, now time.Time, plan api.PlanSpec) error {
	var description sql.NullString
	if d := strings.TrimSpace(plan.Description); d != "" {
		description = sql.NullString{String: d, Valid: true}
	}

	intervalUnit := coerceIntervalUnit(plan.IntervalUnit)
	if intervalUnit != plan.IntervalUnit {
		s.log.Debug("Coerced plan interval unit",
			slog.String("title", plan.Title),
			slog.String("from", plan.IntervalUnit),
			slog.String("to", intervalUnit))
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO plan
		     (created_at, archived, uuid, title, description, sell_price,
		      interval_amount, interval_unit, trial_period_days, private)
		 VALUES (?,?,?,?,?,?,?,?,?,?)`,
		now, false, uuid.NewString(), plan.Title, description,
		plan.SellPrice, plan.IntervalAmount, intervalUnit, 0, false)
	if err != nil {
		return fmt.Errorf("failed to insert plan %q: %w", plan.Title, err)
	}

	planID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to resolve plan id: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO plan_requirements (created_at, plan_id, instant_payment, subscription)
		 VALUES (?,?,?,?)`,
		now, planID, plan.SellPrice != 0, plan.IntervalAmount != 0)
	if err != nil {
		return fmt.Errorf("failed to insert plan requirements: %w", err)
	}

	points := plan.SellingPoints
	if len(points) == 0 {
		points = make([]string, placeholderPointCount)
		for i := range points {
			points[i] = fmt.Sprintf("Point %d", i)
		}
	}
	for i, point := range points {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO plan_selling_points (created_at, point, position, plan_id)
			 VALUES (?,?,?,?)`,
			now, point, i, planID)
		if err != nil {
			return fmt.Errorf("failed to insert selling point %d: %w", i, err)
		}
	}
	return nil
}

// coerceIntervalUnit keeps the historical lenient fallback: anything
// that is not recognizably weekly, monthly or yearly becomes monthly
// rather than a rejection.
func coerceIntervalUnit(unit string) string {
	for _, known := range []string{"weekly", "monthly", "yearly"} {
		if strings.Contains(unit, known) {
			return unit
		}
	}
	return "monthly"
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}
