//go:build unit || e2e

package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// bcrypt hash of "password123"
const testPasswordHash = "$2a$12$uhAjVE9f92IGYv3E25pJNetg.27lVt0p7jmLWjqjmhOg92ldPS0A."

func CreateTestUser(t *testing.T, db DBLike, email, role string) uuid.UUID {
	t.Helper()

	userID := uuid.New()
	ctx := context.Background()

	tag, err := db.Exec(ctx,
		"INSERT INTO users (id, name, email, password_hash, role, is_active) VALUES ($1, $2, $3, $4, $5, true) ON CONFLICT (email) DO NOTHING",
		userID, "Test "+role, email, testPasswordHash, role)
	require.NoError(t, err)

	if tag.RowsAffected() == 0 {
		err = db.QueryRow(ctx, "SELECT id FROM users WHERE email = $1", email).Scan(&userID)
		require.NoError(t, err)
	}

	return userID
}

// CreateTestInvestor inserts an investor assigned to the given advisor.
func CreateTestInvestor(t *testing.T, db DBLike, email string, advisorID uuid.UUID) uuid.UUID {
	t.Helper()

	investorID := uuid.New()
	ctx := context.Background()

	tag, err := db.Exec(ctx,
		"INSERT INTO users (id, name, email, password_hash, role, advisor_id, is_active) VALUES ($1, $2, $3, $4, 'investor', $5, true) ON CONFLICT (email) DO NOTHING",
		investorID, "Test investor", email, testPasswordHash, advisorID)
	require.NoError(t, err)

	if tag.RowsAffected() == 0 {
		err = db.QueryRow(ctx, "SELECT id FROM users WHERE email = $1", email).Scan(&investorID)
		require.NoError(t, err)
	}

	return investorID
}

// CreateTestOffering inserts an OPEN CDB offering with the given quota.
// Minimum ticket is 1000 and commission terms are 1.5% upfront on
// confirmation plus 0.5% monthly recurring.
func CreateTestOffering(t *testing.T, db DBLike, name string, totalAmount, minAmount int64) uuid.UUID {
	t.Helper()

	offeringID := uuid.New()
	ctx := context.Background()

	_, err := db.Exec(ctx, `
		INSERT INTO offerings (
			id, name, description, type, yield_rate, yield_index,
			min_amount, total_amount, available_amount, term_months,
			risk_level, status, upfront_rate, upfront_timing,
			recurring_rate, recurring_frequency
		) VALUES ($1, $2, '', 'CDB', $3, 'CDI', $4, $5, $5, 24,
			'MODERATE', 'OPEN', $6, 'ON_CONFIRMATION', $7, 'MONTHLY')`,
		offeringID, name,
		decimal.RequireFromString("110"),
		decimal.NewFromInt(minAmount),
		decimal.NewFromInt(totalAmount),
		decimal.RequireFromString("1.5"),
		decimal.RequireFromString("0.5"))
	require.NoError(t, err)

	return offeringID
}

// AvailableAmount reads the current quota of an offering.
func AvailableAmount(t *testing.T, db DBLike, offeringID uuid.UUID) decimal.Decimal {
	t.Helper()

	var available decimal.Decimal
	err := db.QueryRow(context.Background(),
		"SELECT available_amount FROM offerings WHERE id = $1", offeringID).Scan(&available)
	require.NoError(t, err)
	return available
}

// CountReservations returns the number of reservation rows for an offering.
func CountReservations(t *testing.T, db DBLike, offeringID uuid.UUID) int {
	t.Helper()

	var n int
	err := db.QueryRow(context.Background(),
		"SELECT count(*) FROM reservations WHERE offering_id = $1", offeringID).Scan(&n)
	require.NoError(t, err)
	return n
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// ResetDB truncates every application table. The goose bookkeeping table
// is left alone so migrations are not re-applied.
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'
		    AND tablename NOT IN ('goose_db_version')`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var tbl string
			if err := rows.Scan(&tbl); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, tbl)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE;")
	})

	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	if _, err := pool.Exec(ctx, sqlAny.(string)); err != nil {
		return err
	}
	return nil
}
