package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/gurlaesthetic/sourcing-cli/internal/db"
	"github.com/gurlaesthetic/sourcing-cli/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// preparedStatements lists queries to prepare on each new connection for
// faster execution of the most frequently used store operations.
var preparedStatements = map[string]string{
	"supplier_product_id":   `SELECT id FROM supplier_products WHERE platform = $1 AND external_id = $2`,
	"insert_run":            `INSERT INTO generation_runs (id, status, trigger_source, started_at) VALUES ($1, $2, $3, $4)`,
	"complete_run":          `UPDATE generation_runs SET status = $1, summary = $2, ended_at = $3 WHERE id = $4`,
	"delete_old_recs":       `DELETE FROM product_recommendations WHERE created_at < $1`,
	"delete_stale_supplier": `DELETE FROM supplier_products WHERE scraped_at < $1 AND id NOT IN (SELECT supplier_product_id FROM product_recommendations)`,
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	// Apply pool sizing from config with sensible defaults.
	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	// Prepare frequently-used statements on each new connection.
	pgxCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		for name, sql := range preparedStatements {
			if _, err := conn.Prepare(ctx, name, sql); err != nil {
				return eris.Wrapf(err, "postgres: prepare %s", name)
			}
		}
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

// NewPostgresWithPool wraps an existing pool. Used by tests to inject a
// mock pool behind the db.Pool seam.
func NewPostgresWithPool(pool db.Pool) *PostgresStore {
	return &PostgresStore{pool: pool, closeFn: pool.Close}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS products (
	id          TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	name        TEXT NOT NULL,
	description TEXT,
	price       NUMERIC(10,2) NOT NULL DEFAULT 0,
	cost        NUMERIC(10,2) NOT NULL DEFAULT 0,
	category    TEXT,
	inventory   INTEGER NOT NULL DEFAULT 0,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS orders (
	id         TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS order_items (
	id         TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	order_id   TEXT NOT NULL REFERENCES orders(id),
	product_id TEXT NOT NULL REFERENCES products(id),
	quantity   INTEGER NOT NULL DEFAULT 1,
	unit_price NUMERIC(10,2) NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS supplier_products (
	id                     TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	platform               TEXT NOT NULL,
	external_id            TEXT NOT NULL,
	name                   TEXT NOT NULL,
	description            TEXT,
	price                  NUMERIC(10,2) NOT NULL DEFAULT 0,
	currency               TEXT NOT NULL DEFAULT 'USD',
	supplier_name          TEXT,
	supplier_rating        NUMERIC(3,2),
	shipping_cost          NUMERIC(10,2),
	minimum_order_quantity INTEGER NOT NULL DEFAULT 1,
	images                 JSONB,
	category               TEXT,
	tags                   JSONB,
	product_url            TEXT,
	synthetic              BOOLEAN NOT NULL DEFAULT false,
	scraped_at             TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (platform, external_id)
);

CREATE TABLE IF NOT EXISTS product_recommendations (
	id                     TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	supplier_product_id    TEXT NOT NULL REFERENCES supplier_products(id),
	based_on_product_id    TEXT REFERENCES products(id),
	similarity_score       NUMERIC(5,4) NOT NULL,
	matching_factors       JSONB,
	confidence_score       NUMERIC(5,4) NOT NULL,
	recommendation_reason  TEXT,
	estimated_demand       INTEGER NOT NULL DEFAULT 0,
	potential_profit       NUMERIC(10,2) NOT NULL DEFAULT 0,
	potential_margin       NUMERIC(6,2) NOT NULL DEFAULT 0,
	break_even_quantity    INTEGER NOT NULL DEFAULT 1,
	total_landed_cost      NUMERIC(10,2) NOT NULL DEFAULT 0,
	suggested_retail_price NUMERIC(10,2) NOT NULL DEFAULT 0,
	exchange_rate_used     NUMERIC(8,4) NOT NULL DEFAULT 0,
	created_at             TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS cost_breakdowns (
	id                    TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	recommendation_id     TEXT NOT NULL REFERENCES product_recommendations(id) ON DELETE CASCADE,
	product_cost_source   NUMERIC(10,2) NOT NULL DEFAULT 0,
	product_cost_target   NUMERIC(10,2) NOT NULL DEFAULT 0,
	shipping_cost_source  NUMERIC(10,2) NOT NULL DEFAULT 0,
	shipping_cost_target  NUMERIC(10,2) NOT NULL DEFAULT 0,
	duty                  NUMERIC(10,2) NOT NULL DEFAULT 0,
	tax                   NUMERIC(10,2) NOT NULL DEFAULT 0,
	processing_fee        NUMERIC(10,2) NOT NULL DEFAULT 0,
	total_landed_cost     NUMERIC(10,2) NOT NULL DEFAULT 0,
	exchange_rate         NUMERIC(8,4) NOT NULL DEFAULT 0,
	currency              TEXT NOT NULL DEFAULT 'TTD',
	created_at            TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS generation_runs (
	id             TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	status         TEXT NOT NULL DEFAULT 'running',
	trigger_source TEXT NOT NULL DEFAULT 'manual',
	summary        JSONB,
	started_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
	ended_at       TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS idx_order_items_order_id ON order_items(order_id);
CREATE INDEX IF NOT EXISTS idx_order_items_product_id ON order_items(product_id);
CREATE INDEX IF NOT EXISTS idx_supplier_products_key ON supplier_products(platform, external_id);
CREATE INDEX IF NOT EXISTS idx_supplier_products_scraped_at ON supplier_products(scraped_at);
CREATE INDEX IF NOT EXISTS idx_recommendations_confidence ON product_recommendations(confidence_score DESC);
CREATE INDEX IF NOT EXISTS idx_recommendations_created_at ON product_recommendations(created_at);
CREATE INDEX IF NOT EXISTS idx_cost_breakdowns_rec_id ON cost_breakdowns(recommendation_id);
CREATE INDEX IF NOT EXISTS idx_generation_runs_started_at ON generation_runs(started_at DESC);
`

func (s *PostgresStore) Ping(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, "SELECT 1")
	return eris.Wrap(err, "postgres: ping")
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

const salesSummariesSQL = `
SELECT p.id, p.name, COALESCE(p.description, ''), p.price, p.cost,
       COALESCE(SUM(oi.quantity), 0)::int AS units_sold,
       COALESCE(SUM(oi.quantity * oi.unit_price), 0) AS revenue,
       COALESCE(SUM(oi.quantity * (oi.unit_price - p.cost)), 0) AS profit,
       MAX(o.created_at) AS last_sold_at,
       MIN(o.created_at) AS first_sold_at
FROM order_items oi
JOIN orders o ON o.id = oi.order_id
JOIN products p ON p.id = oi.product_id
WHERE o.created_at > now() - make_interval(days => $1)
GROUP BY p.id, p.name, p.description, p.price, p.cost
ORDER BY units_sold DESC
LIMIT $2`

func (s *PostgresStore) SalesSummaries(ctx context.Context, windowDays, limit int) ([]model.SalesSummary, error) {
	if windowDays <= 0 {
		windowDays = 30
	}
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.pool.Query(ctx, salesSummariesSQL, windowDays, limit)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: sales summaries")
	}
	defer rows.Close()

	var summaries []model.SalesSummary
	for rows.Next() {
		var sum model.SalesSummary
		if err := rows.Scan(&sum.ProductID, &sum.Name, &sum.Description, &sum.Price,
			&sum.Cost, &sum.UnitsSold, &sum.Revenue, &sum.Profit,
			&sum.LastSoldAt, &sum.FirstSoldAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan sales summary")
		}
		summaries = append(summaries, sum)
	}
	return summaries, eris.Wrap(rows.Err(), "postgres: sales summaries iterate")
}

var supplierProductColumns = []string{
	"id", "platform", "external_id", "name", "description", "price",
	"currency", "supplier_name", "supplier_rating", "shipping_cost",
	"minimum_order_quantity", "images", "category", "tags", "product_url",
	"synthetic", "scraped_at",
}

func (s *PostgresStore) UpsertSupplierProducts(ctx context.Context, products []model.SupplierProduct) (int64, error) {
	if len(products) == 0 {
		return 0, nil
	}

	now := time.Now().UTC()
	rows := make([][]any, 0, len(products))
	for _, p := range products {
		imagesJSON, err := json.Marshal(p.Images)
		if err != nil {
			return 0, eris.Wrap(err, "postgres: marshal images")
		}
		tagsJSON, err := json.Marshal(p.Tags)
		if err != nil {
			return 0, eris.Wrap(err, "postgres: marshal tags")
		}

		scrapedAt := p.ScrapedAt
		if scrapedAt.IsZero() {
			scrapedAt = now
		}
		rows = append(rows, []any{
			uuid.New().String(), string(p.Platform), p.ExternalID, p.Name,
			p.Description, p.Price, p.Currency, p.SupplierName, p.Rating,
			p.ShippingCost, p.MOQ, imagesJSON, p.Category, tagsJSON,
			p.URL, p.Synthetic, scrapedAt,
		})
	}

	n, err := db.BulkUpsert(ctx, s.pool, db.UpsertConfig{
		Table:        "supplier_products",
		Columns:      supplierProductColumns,
		ConflictKeys: []string{"platform", "external_id"},
		UpdateCols: []string{
			"name", "description", "price", "currency", "supplier_name",
			"supplier_rating", "shipping_cost", "minimum_order_quantity",
			"images", "category", "tags", "product_url", "synthetic", "scraped_at",
		},
	}, rows)
	return n, eris.Wrap(err, "postgres: upsert supplier products")
}

func (s *PostgresStore) DeleteStaleSupplierProducts(ctx context.Context, maxAge time.Duration) (int, error) {
	cutoff := time.Now().UTC().Add(-maxAge)
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM supplier_products WHERE scraped_at < $1 AND id NOT IN (SELECT supplier_product_id FROM product_recommendations)`,
		cutoff,
	)
	if err != nil {
		return 0, eris.Wrap(err, "postgres: delete stale supplier products")
	}
	return int(tag.RowsAffected()), nil
}

// SaveRecommendations persists recommendations and their cost breakdowns.
// Best effort per row: a failed insert is logged and skipped so the rest
// of the batch still lands. Returns the number saved.
func (s *PostgresStore) SaveRecommendations(ctx context.Context, recs []model.Recommendation) (int, error) {
	saved := 0
	for _, rec := range recs {
		if err := s.saveRecommendation(ctx, rec); err != nil {
			zap.L().Warn("failed to save recommendation",
				zap.String("product", rec.Product.Name),
				zap.Error(err))
			continue
		}
		saved++
	}
	return saved, nil
}

func (s *PostgresStore) saveRecommendation(ctx context.Context, rec model.Recommendation) error {
	var supplierID string
	err := s.pool.QueryRow(ctx,
		`SELECT id FROM supplier_products WHERE platform = $1 AND external_id = $2`,
		string(rec.Product.Platform), rec.Product.ExternalID,
	).Scan(&supplierID)
	if err != nil {
		return eris.Wrapf(err, "postgres: resolve supplier product %s", rec.Product.Key())
	}

	factorsJSON, err := json.Marshal(rec.MatchingFactors)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal matching factors")
	}

	recID := rec.ID
	if recID == "" {
		recID = uuid.New().String()
	}
	now := time.Now().UTC()

	var basedOn *string
	if rec.BasedOn.ProductID != "" {
		basedOn = &rec.BasedOn.ProductID
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO product_recommendations
		 (id, supplier_product_id, based_on_product_id, similarity_score, matching_factors,
		  confidence_score, recommendation_reason, estimated_demand, potential_profit,
		  potential_margin, break_even_quantity, total_landed_cost, suggested_retail_price,
		  exchange_rate_used, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		recID, supplierID, basedOn, rec.SimilarityScore, factorsJSON,
		rec.Confidence, rec.Reason, rec.EstimatedDemand, rec.Profit.ProfitPerUnit,
		rec.Profit.MarginPercent, rec.Profit.BreakEvenQuantity, rec.Cost.Total,
		rec.Profit.RecommendedPrice, rec.Cost.ExchangeRate, now,
	)
	if err != nil {
		return eris.Wrap(err, "postgres: insert recommendation")
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO cost_breakdowns
		 (id, recommendation_id, product_cost_source, product_cost_target,
		  shipping_cost_source, shipping_cost_target, duty, tax, processing_fee,
		  total_landed_cost, exchange_rate, currency, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		uuid.New().String(), recID, rec.Cost.ProductCostSource, rec.Cost.ProductCostTarget,
		rec.Cost.ShippingCostSource, rec.Cost.ShippingCostTarget, rec.Cost.Duty,
		rec.Cost.Tax, rec.Cost.ProcessingFee, rec.Cost.Total, rec.Cost.ExchangeRate,
		rec.Cost.Currency, now,
	)
	return eris.Wrap(err, "postgres: insert cost breakdown")
}

const listRecommendationsSQL = `
SELECT r.id, r.similarity_score, r.matching_factors, r.confidence_score,
       COALESCE(r.recommendation_reason, ''), r.estimated_demand,
       r.potential_profit, r.potential_margin, r.break_even_quantity,
       r.suggested_retail_price, r.created_at,
       sp.platform, sp.external_id, sp.name, COALESCE(sp.description, ''),
       sp.price, sp.currency, COALESCE(sp.supplier_name, ''),
       COALESCE(sp.supplier_rating, 0), COALESCE(sp.shipping_cost, 0),
       sp.minimum_order_quantity, sp.images, COALESCE(sp.category, ''),
       sp.tags, COALESCE(sp.product_url, ''), sp.synthetic,
       COALESCE(p.id, ''), COALESCE(p.name, ''), COALESCE(p.price, 0), COALESCE(p.cost, 0),
       cb.product_cost_source, cb.product_cost_target, cb.shipping_cost_source,
       cb.shipping_cost_target, cb.duty, cb.tax, cb.processing_fee,
       cb.total_landed_cost, cb.exchange_rate, cb.currency
FROM product_recommendations r
JOIN supplier_products sp ON sp.id = r.supplier_product_id
LEFT JOIN products p ON p.id = r.based_on_product_id
JOIN cost_breakdowns cb ON cb.recommendation_id = r.id
WHERE r.created_at > $1 AND r.confidence_score >= $2
ORDER BY r.confidence_score DESC
LIMIT $3`

func (s *PostgresStore) ListRecommendations(ctx context.Context, filter RecommendationFilter) ([]model.Recommendation, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	cutoff := time.Time{}
	if filter.MaxAge > 0 {
		cutoff = time.Now().UTC().Add(-filter.MaxAge)
	}

	rows, err := s.pool.Query(ctx, listRecommendationsSQL, cutoff, filter.MinConfidence, limit)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list recommendations")
	}
	defer rows.Close()

	var recs []model.Recommendation
	for rows.Next() {
		rec, err := scanRecommendation(rows)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, eris.Wrap(rows.Err(), "postgres: list recommendations iterate")
}

func scanRecommendation(rows pgx.Rows) (model.Recommendation, error) {
	var rec model.Recommendation
	var factorsJSON, imagesJSON, tagsJSON []byte

	if err := rows.Scan(
		&rec.ID, &rec.SimilarityScore, &factorsJSON, &rec.Confidence,
		&rec.Reason, &rec.EstimatedDemand,
		&rec.Profit.ProfitPerUnit, &rec.Profit.MarginPercent,
		&rec.Profit.BreakEvenQuantity, &rec.Profit.RecommendedPrice, &rec.CreatedAt,
		&rec.Product.Platform, &rec.Product.ExternalID, &rec.Product.Name,
		&rec.Product.Description, &rec.Product.Price, &rec.Product.Currency,
		&rec.Product.SupplierName, &rec.Product.Rating, &rec.Product.ShippingCost,
		&rec.Product.MOQ, &imagesJSON, &rec.Product.Category, &tagsJSON,
		&rec.Product.URL, &rec.Product.Synthetic,
		&rec.BasedOn.ProductID, &rec.BasedOn.Name, &rec.BasedOn.Price, &rec.BasedOn.Cost,
		&rec.Cost.ProductCostSource, &rec.Cost.ProductCostTarget,
		&rec.Cost.ShippingCostSource, &rec.Cost.ShippingCostTarget,
		&rec.Cost.Duty, &rec.Cost.Tax, &rec.Cost.ProcessingFee,
		&rec.Cost.Total, &rec.Cost.ExchangeRate, &rec.Cost.Currency,
	); err != nil {
		return rec, eris.Wrap(err, "postgres: scan recommendation")
	}

	if len(factorsJSON) > 0 {
		if err := json.Unmarshal(factorsJSON, &rec.MatchingFactors); err != nil {
			return rec, eris.Wrap(err, "postgres: unmarshal matching factors")
		}
	}
	if len(imagesJSON) > 0 {
		if err := json.Unmarshal(imagesJSON, &rec.Product.Images); err != nil {
			return rec, eris.Wrap(err, "postgres: unmarshal images")
		}
	}
	if len(tagsJSON) > 0 {
		if err := json.Unmarshal(tagsJSON, &rec.Product.Tags); err != nil {
			return rec, eris.Wrap(err, "postgres: unmarshal tags")
		}
	}

	rec.Profit.EstimatedPeriodProfit = rec.Profit.ProfitPerUnit * float64(rec.EstimatedDemand)
	return rec, nil
}

func (s *PostgresStore) DeleteOldRecommendations(ctx context.Context, maxAge time.Duration) (int, error) {
	cutoff := time.Now().UTC().Add(-maxAge)
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM product_recommendations WHERE created_at < $1`,
		cutoff,
	)
	if err != nil {
		return 0, eris.Wrap(err, "postgres: delete old recommendations")
	}
	return int(tag.RowsAffected()), nil
}

func (s *PostgresStore) CreateRun(ctx context.Context, trigger string) (*model.GenerationRun, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	_, err := s.pool.Exec(ctx,
		`INSERT INTO generation_runs (id, status, trigger_source, started_at) VALUES ($1, $2, $3, $4)`,
		id, string(model.RunStatusRunning), trigger, now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert run")
	}

	return &model.GenerationRun{
		ID:        id,
		Status:    model.RunStatusRunning,
		Trigger:   trigger,
		StartedAt: now,
	}, nil
}

func (s *PostgresStore) CompleteRun(ctx context.Context, runID string, status model.RunStatus, summary *model.RunSummary) error {
	summaryJSON, err := json.Marshal(summary)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal run summary")
	}

	tag, err := s.pool.Exec(ctx,
		`UPDATE generation_runs SET status = $1, summary = $2, ended_at = $3 WHERE id = $4`,
		string(status), summaryJSON, time.Now().UTC(), runID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: complete run %s", runID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("run not found: %s", runID)
	}
	return nil
}

func (s *PostgresStore) ListRuns(ctx context.Context, limit int) ([]model.GenerationRun, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.pool.Query(ctx,
		`SELECT id, status, trigger_source, summary, started_at, ended_at
		 FROM generation_runs ORDER BY started_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list runs")
	}
	defer rows.Close()

	var runs []model.GenerationRun
	for rows.Next() {
		var r model.GenerationRun
		var summaryJSON []byte
		if err := rows.Scan(&r.ID, &r.Status, &r.Trigger, &summaryJSON, &r.StartedAt, &r.EndedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan run")
		}
		if len(summaryJSON) > 0 {
			r.Summary = &model.RunSummary{}
			if err := json.Unmarshal(summaryJSON, r.Summary); err != nil {
				return nil, eris.Wrap(err, "postgres: unmarshal run summary")
			}
		}
		runs = append(runs, r)
	}
	return runs, eris.Wrap(rows.Err(), "postgres: list runs iterate")
}

// LatestRun returns the most recent generation run, or nil when none
// have been recorded.
func (s *PostgresStore) LatestRun(ctx context.Context) (*model.GenerationRun, error) {
	runs, err := s.ListRuns(ctx, 1)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, nil
	}
	return &runs[0], nil
}
