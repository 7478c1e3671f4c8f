package tenantdb

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/shopfront/provisioner/api"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTemplate(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "template.db")
	require.NoError(t, CreateTemplate(context.Background(), path))
	return path
}

func testSeed() Seed {
	return Seed{
		Email:       "Fred@Example.com",
		Password:    "changeme",
		LoginToken:  "tok123",
		Currency:    "USD",
		CountryCode: "US",
		CompanyName: "ACME Corp",
		Plans: []api.PlanSpec{{
			Title:          "Soap",
			Description:    "Best soap ever",
			IntervalAmount: 5000,
			IntervalUnit:   "monthly",
			SellPrice:      1000,
		}},
	}
}

func seedInto(t *testing.T, seed Seed) *sql.DB {
	t.Helper()
	seeder := NewSeeder(newTemplate(t), discardLogger())
	dbPath := filepath.Join(t.TempDir(), DatabaseFile)
	require.NoError(t, seeder.Seed(context.Background(), dbPath, seed))

	db, err := sql.Open("sqlite", dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestCreateTemplate(t *testing.T) {
	path := newTemplate(t)

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	for _, table := range []string{
		"user", "payment_provider", "setting", "company",
		"integration", "plan", "plan_requirements", "plan_selling_points",
	} {
		var count int
		err := db.QueryRow(`SELECT count(*) FROM ` + table).Scan(&count)
		require.NoError(t, err, "table %s", table)
		assert.Zero(t, count, "table %s must start empty", table)
	}

	// Refuses to clobber an existing template.
	assert.Error(t, CreateTemplate(context.Background(), path))
}

func TestSeed_OwnerUser(t *testing.T) {
	db := seedInto(t, testSeed())

	var email, password, token string
	var active bool
	err := db.QueryRow(`SELECT email, password, active, login_token FROM user`).
		Scan(&email, &password, &active, &token)
	require.NoError(t, err)

	assert.Equal(t, "fred@example.com", email, "email must be lower-cased")
	assert.True(t, active)
	assert.Equal(t, "tok123", token)

	// Stored as a salted hash, never plaintext.
	assert.NotEqual(t, "changeme", password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(password), []byte("changeme")))
}

func TestSeed_NoLoginToken(t *testing.T) {
	seed := testSeed()
	seed.LoginToken = ""
	db := seedInto(t, seed)

	var token string
	require.NoError(t, db.QueryRow(`SELECT login_token FROM user`).Scan(&token))
	assert.Equal(t, "", token)
}

func TestSeed_SingletonRows(t *testing.T) {
	db := seedInto(t, testSeed())

	var stripeActive, gocardlessActive bool
	require.NoError(t, db.QueryRow(
		`SELECT stripe_active, gocardless_active FROM payment_provider`).
		Scan(&stripeActive, &gocardlessActive))
	assert.False(t, stripeActive)
	assert.False(t, gocardlessActive)

	var currency, country string
	require.NoError(t, db.QueryRow(
		`SELECT default_currency, default_country_code FROM setting`).
		Scan(&currency, &country))
	assert.Equal(t, "USD", currency)
	assert.Equal(t, "US", country)

	var companyName string
	require.NoError(t, db.QueryRow(`SELECT name FROM company`).Scan(&companyName))
	assert.Equal(t, "ACME Corp", companyName)

	var integrationID int
	require.NoError(t, db.QueryRow(`SELECT id FROM integration`).Scan(&integrationID))
	assert.Equal(t, 1, integrationID)
}

func TestSeed_PlanDefaults(t *testing.T) {
	db := seedInto(t, testSeed())

	var archived, private bool
	var trialDays int
	var planUUID, unit string
	var description sql.NullString
	err := db.QueryRow(
		`SELECT archived, private, trial_period_days, uuid, interval_unit, description FROM plan`).
		Scan(&archived, &private, &trialDays, &planUUID, &unit, &description)
	require.NoError(t, err)

	assert.False(t, archived)
	assert.False(t, private)
	assert.Zero(t, trialDays)
	assert.Equal(t, "monthly", unit)
	assert.Equal(t, "Best soap ever", description.String)

	_, err = uuid.Parse(planUUID)
	assert.NoError(t, err, "plan uuid must be a valid UUID")
}

func TestSeed_BlankDescriptionIsNull(t *testing.T) {
	seed := testSeed()
	seed.Plans[0].Description = "   "
	db := seedInto(t, seed)

	var description sql.NullString
	require.NoError(t, db.QueryRow(`SELECT description FROM plan`).Scan(&description))
	assert.False(t, description.Valid)
}

func TestSeed_IntervalUnitCoercion(t *testing.T) {
	seed := testSeed()
	seed.Plans[0].IntervalUnit = "fortnightly"
	db := seedInto(t, seed)

	var unit string
	require.NoError(t, db.QueryRow(`SELECT interval_unit FROM plan`).Scan(&unit))
	assert.Equal(t, "monthly", unit)
}

func TestSeed_PlanRequirements(t *testing.T) {
	tests := []struct {
		name            string
		sellPrice       int
		intervalAmount  int
		wantInstant     bool
		wantSubscription bool
	}{
		{"instant only", 1000, 0, true, false},
		{"subscription only", 0, 500, false, true},
		{"both", 1000, 500, true, true},
		{"free", 0, 0, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seed := testSeed()
			seed.Plans[0].SellPrice = tt.sellPrice
			seed.Plans[0].IntervalAmount = tt.intervalAmount
			db := seedInto(t, seed)

			var instant, subscription bool
			err := db.QueryRow(
				`SELECT instant_payment, subscription FROM plan_requirements`).
				Scan(&instant, &subscription)
			require.NoError(t, err)
			assert.Equal(t, tt.wantInstant, instant)
			assert.Equal(t, tt.wantSubscription, subscription)
		})
	}
}

func TestSeed_PlaceholderSellingPoints(t *testing.T) {
	db := seedInto(t, testSeed())

	rows, err := db.Query(`SELECT position, point FROM plan_selling_points ORDER BY position`)
	require.NoError(t, err)
	defer rows.Close()

	var got []string
	var positions []int
	for rows.Next() {
		var pos int
		var point string
		require.NoError(t, rows.Scan(&pos, &point))
		positions = append(positions, pos)
		got = append(got, point)
	}
	require.NoError(t, rows.Err())

	assert.Equal(t, []int{0, 1, 2}, positions)
	assert.Equal(t, []string{"Point 0", "Point 1", "Point 2"}, got)
}

func TestSeed_SuppliedSellingPoints(t *testing.T) {
	seed := testSeed()
	seed.Plans[0].SellingPoints = []string{"Fast delivery", "Organic"}
	db := seedInto(t, seed)

	rows, err := db.Query(`SELECT point FROM plan_selling_points ORDER BY position`)
	require.NoError(t, err)
	defer rows.Close()

	var got []string
	for rows.Next() {
		var point string
		require.NoError(t, rows.Scan(&point))
		got = append(got, point)
	}
	require.NoError(t, rows.Err())
	assert.Equal(t, []string{"Fast delivery", "Organic"}, got)
}

func TestSeed_MultiplePlans(t *testing.T) {
	seed := testSeed()
	seed.Plans = append(seed.Plans, api.PlanSpec{
		Title:          "Candles",
		IntervalAmount: 0,
		IntervalUnit:   "yearly",
		SellPrice:      2500,
	})
	db := seedInto(t, seed)

	var plans, requirements int
	require.NoError(t, db.QueryRow(`SELECT count(*) FROM plan`).Scan(&plans))
	require.NoError(t, db.QueryRow(`SELECT count(*) FROM plan_requirements`).Scan(&requirements))
	assert.Equal(t, 2, plans)
	assert.Equal(t, 2, requirements)

	var uuids int
	require.NoError(t, db.QueryRow(`SELECT count(DISTINCT uuid) FROM plan`).Scan(&uuids))
	assert.Equal(t, 2, uuids, "every plan gets its own uuid")
}

func TestSeed_MissingFields(t *testing.T) {
	seeder := NewSeeder(newTemplate(t), discardLogger())
	dbPath := filepath.Join(t.TempDir(), DatabaseFile)

	tests := []struct {
		name   string
		mutate func(*Seed)
		field  string
	}{
		{"no users", func(s *Seed) { s.Email = "" }, "users"},
		{"no plans", func(s *Seed) { s.Plans = nil }, "plans"},
		{"no company", func(s *Seed) { s.CompanyName = "" }, "company.name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seed := testSeed()
			tt.mutate(&seed)

			err := seeder.Seed(context.Background(), dbPath, seed)
			var missing *api.MissingFieldError
			require.ErrorAs(t, err, &missing)
			assert.Equal(t, tt.field, missing.Field)

			// Nothing may be written for a rejected payload.
			_, statErr := os.Stat(dbPath)
			assert.True(t, os.IsNotExist(statErr))
		})
	}
}
