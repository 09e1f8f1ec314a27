package store

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gurlaesthetic/sourcing-cli/internal/model"
)

// newMockPostgresStore creates a PostgresStore backed by pgxmock for unit testing.
func newMockPostgresStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	s := NewPostgresWithPool(mock)
	return s, mock
}

func TestPostgresStore_SalesSummaries(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	now := time.Now().UTC()
	rows := pgxmock.NewRows([]string{
		"id", "name", "description", "price", "cost",
		"units_sold", "revenue", "profit", "last_sold_at", "first_sold_at",
	}).
		AddRow("prod-1", "Pink Gel Polish", "best seller", 25.0, 8.0, 15, 375.0, 255.0, now, now.Add(-48*time.Hour)).
		AddRow("prod-2", "Nail Art Brush", "", 15.0, 5.0, 3, 45.0, 30.0, now, now)

	mock.ExpectQuery(`FROM order_items oi`).
		WithArgs(30, 20).
		WillReturnRows(rows)

	summaries, err := s.SalesSummaries(context.Background(), 30, 20)
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, "prod-1", summaries[0].ProductID)
	assert.Equal(t, 15, summaries[0].UnitsSold)
	assert.InDelta(t, 255.0, summaries[0].Profit, 0.001)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_SalesSummaries_Defaults(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	// Non-positive window and limit fall back to 30 days / 20 rows.
	mock.ExpectQuery(`FROM order_items oi`).
		WithArgs(30, 20).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "name", "description", "price", "cost",
			"units_sold", "revenue", "profit", "last_sold_at", "first_sold_at",
		}))

	summaries, err := s.SalesSummaries(context.Background(), 0, -1)
	require.NoError(t, err)
	assert.Empty(t, summaries)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_UpsertSupplierProducts_Empty(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	n, err := s.UpsertSupplierProducts(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_UpsertSupplierProducts(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`CREATE TEMP TABLE`).WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectCopyFrom(pgx.Identifier{"_tmp_upsert_supplier_products"}, supplierProductColumns).WillReturnResult(2)
	mock.ExpectExec(`INSERT INTO "supplier_products"`).WillReturnResult(pgxmock.NewResult("INSERT", 2))
	mock.ExpectCommit()
	mock.ExpectRollback()

	products := []model.SupplierProduct{
		{Platform: model.PlatformAlibaba, ExternalID: "ali-1", Name: "Gel Polish Starter Kit", Price: 4.50, Currency: "USD"},
		{Platform: model.PlatformTemu, ExternalID: "temu-9", Name: "Nail Art Brush Set", Price: 1.20, Currency: "USD"},
	}
	n, err := s.UpsertSupplierProducts(context.Background(), products)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_SaveRecommendations_SkipsUnresolvable(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT id FROM supplier_products`).
		WithArgs("shein", "shein-missing").
		WillReturnError(pgx.ErrNoRows)

	recs := []model.Recommendation{{
		Product: model.SupplierProduct{Platform: model.PlatformShein, ExternalID: "shein-missing", Name: "Ghost Product"},
	}}
	saved, err := s.SaveRecommendations(context.Background(), recs)
	require.NoError(t, err)
	assert.Equal(t, 0, saved)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_SaveRecommendations(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT id FROM supplier_products`).
		WithArgs("alibaba", "ali-1").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow("sp-uuid-1"))
	mock.ExpectExec(`INSERT INTO product_recommendations`).
		WithArgs(
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(`INSERT INTO cost_breakdowns`).
		WithArgs(
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(),
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	recs := []model.Recommendation{{
		Product: model.SupplierProduct{
			Platform:   model.PlatformAlibaba,
			ExternalID: "ali-1",
			Name:       "Gel Polish Starter Kit",
		},
		BasedOn:         model.BestSeller{ProductID: "prod-1", Name: "Pink Gel Polish"},
		SimilarityScore: 0.72,
		Confidence:      0.81,
		EstimatedDemand: 12,
	}}
	saved, err := s.SaveRecommendations(context.Background(), recs)
	require.NoError(t, err)
	assert.Equal(t, 1, saved)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_DeleteOldRecommendations(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`DELETE FROM product_recommendations`).
		WithArgs(pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("DELETE", 4))

	n, err := s.DeleteOldRecommendations(context.Background(), 30*24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_DeleteStaleSupplierProducts(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`DELETE FROM supplier_products`).
		WithArgs(pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("DELETE", 7))

	n, err := s.DeleteStaleSupplierProducts(context.Background(), 60*24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 7, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_CreateRun(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`INSERT INTO generation_runs`).
		WithArgs(pgxmock.AnyArg(), "running", "manual", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	run, err := s.CreateRun(context.Background(), "manual")
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, model.RunStatusRunning, run.Status)
	assert.Equal(t, "manual", run.Trigger)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_CompleteRun_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`UPDATE generation_runs`).
		WithArgs("complete", pgxmock.AnyArg(), pgxmock.AnyArg(), "missing-run").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := s.CompleteRun(context.Background(), "missing-run", model.RunStatusComplete, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_LatestRun_Empty(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`FROM generation_runs`).
		WithArgs(1).
		WillReturnRows(pgxmock.NewRows([]string{"id", "status", "trigger_source", "summary", "started_at", "ended_at"}))

	run, err := s.LatestRun(context.Background())
	require.NoError(t, err)
	assert.Nil(t, run)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListRuns(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	started := time.Now().UTC().Add(-time.Minute)
	ended := time.Now().UTC()
	rows := pgxmock.NewRows([]string{"id", "status", "trigger_source", "summary", "started_at", "ended_at"}).
		AddRow("run-1", "complete", "scheduled", []byte(`{"recommendations":9,"high_confidence":2}`), started, &ended).
		AddRow("run-2", "running", "manual", []byte(nil), started, (*time.Time)(nil))

	mock.ExpectQuery(`FROM generation_runs`).
		WithArgs(10).
		WillReturnRows(rows)

	runs, err := s.ListRuns(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	assert.Equal(t, model.RunStatusComplete, runs[0].Status)
	require.NotNil(t, runs[0].Summary)
	assert.Equal(t, 9, runs[0].Summary.Recommendations)
	require.NotNil(t, runs[0].EndedAt)

	assert.Equal(t, model.RunStatusRunning, runs[1].Status)
	assert.Nil(t, runs[1].Summary)
	assert.Nil(t, runs[1].EndedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}
