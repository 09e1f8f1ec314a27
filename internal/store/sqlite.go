package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/gurlaesthetic/sourcing-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite. It exists for
// local development and offline runs; Postgres is the production driver.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS products (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	description TEXT,
	price       REAL NOT NULL DEFAULT 0,
	cost        REAL NOT NULL DEFAULT 0,
	category    TEXT,
	inventory   INTEGER NOT NULL DEFAULT 0,
	created_at  DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS orders (
	id         TEXT PRIMARY KEY,
	created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS order_items (
	id         TEXT PRIMARY KEY,
	order_id   TEXT NOT NULL REFERENCES orders(id),
	product_id TEXT NOT NULL REFERENCES products(id),
	quantity   INTEGER NOT NULL DEFAULT 1,
	unit_price REAL NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS supplier_products (
	id                     TEXT PRIMARY KEY,
	platform               TEXT NOT NULL,
	external_id            TEXT NOT NULL,
	name                   TEXT NOT NULL,
	description            TEXT,
	price                  REAL NOT NULL DEFAULT 0,
	currency               TEXT NOT NULL DEFAULT 'USD',
	supplier_name          TEXT,
	supplier_rating        REAL,
	shipping_cost          REAL,
	minimum_order_quantity INTEGER NOT NULL DEFAULT 1,
	images                 TEXT,
	category               TEXT,
	tags                   TEXT,
	product_url            TEXT,
	synthetic              INTEGER NOT NULL DEFAULT 0,
	scraped_at             DATETIME NOT NULL DEFAULT (datetime('now')),
	UNIQUE (platform, external_id)
);

CREATE TABLE IF NOT EXISTS product_recommendations (
	id                     TEXT PRIMARY KEY,
	supplier_product_id    TEXT NOT NULL REFERENCES supplier_products(id),
	based_on_product_id    TEXT REFERENCES products(id),
	similarity_score       REAL NOT NULL,
	matching_factors       TEXT,
	confidence_score       REAL NOT NULL,
	recommendation_reason  TEXT,
	estimated_demand       INTEGER NOT NULL DEFAULT 0,
	potential_profit       REAL NOT NULL DEFAULT 0,
	potential_margin       REAL NOT NULL DEFAULT 0,
	break_even_quantity    INTEGER NOT NULL DEFAULT 1,
	total_landed_cost      REAL NOT NULL DEFAULT 0,
	suggested_retail_price REAL NOT NULL DEFAULT 0,
	exchange_rate_used     REAL NOT NULL DEFAULT 0,
	created_at             DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS cost_breakdowns (
	id                   TEXT PRIMARY KEY,
	recommendation_id    TEXT NOT NULL REFERENCES product_recommendations(id) ON DELETE CASCADE,
	product_cost_source  REAL NOT NULL DEFAULT 0,
	product_cost_target  REAL NOT NULL DEFAULT 0,
	shipping_cost_source REAL NOT NULL DEFAULT 0,
	shipping_cost_target REAL NOT NULL DEFAULT 0,
	duty                 REAL NOT NULL DEFAULT 0,
	tax                  REAL NOT NULL DEFAULT 0,
	processing_fee       REAL NOT NULL DEFAULT 0,
	total_landed_cost    REAL NOT NULL DEFAULT 0,
	exchange_rate        REAL NOT NULL DEFAULT 0,
	currency             TEXT NOT NULL DEFAULT 'TTD',
	created_at           DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS generation_runs (
	id             TEXT PRIMARY KEY,
	status         TEXT NOT NULL DEFAULT 'running',
	trigger_source TEXT NOT NULL DEFAULT 'manual',
	summary        TEXT,
	started_at     DATETIME NOT NULL DEFAULT (datetime('now')),
	ended_at       DATETIME
);

CREATE INDEX IF NOT EXISTS idx_order_items_order_id ON order_items(order_id);
CREATE INDEX IF NOT EXISTS idx_order_items_product_id ON order_items(product_id);
CREATE INDEX IF NOT EXISTS idx_supplier_products_key ON supplier_products(platform, external_id);
CREATE INDEX IF NOT EXISTS idx_recommendations_confidence ON product_recommendations(confidence_score DESC);
CREATE INDEX IF NOT EXISTS idx_recommendations_created_at ON product_recommendations(created_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return eris.Wrap(s.db.PingContext(ctx), "sqlite: ping")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) SalesSummaries(ctx context.Context, windowDays, limit int) ([]model.SalesSummary, error) {
	if windowDays <= 0 {
		windowDays = 30
	}
	if limit <= 0 {
		limit = 20
	}
	cutoff := time.Now().UTC().AddDate(0, 0, -windowDays)

	rows, err := s.db.QueryContext(ctx,
		`SELECT p.id, p.name, COALESCE(p.description, ''), p.price, p.cost,
		        COALESCE(SUM(oi.quantity), 0) AS units_sold,
		        COALESCE(SUM(oi.quantity * oi.unit_price), 0) AS revenue,
		        COALESCE(SUM(oi.quantity * (oi.unit_price - p.cost)), 0) AS profit,
		        MAX(o.created_at), MIN(o.created_at)
		 FROM order_items oi
		 JOIN orders o ON o.id = oi.order_id
		 JOIN products p ON p.id = oi.product_id
		 WHERE o.created_at > ?
		 GROUP BY p.id, p.name, p.description, p.price, p.cost
		 ORDER BY units_sold DESC
		 LIMIT ?`,
		cutoff, limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: sales summaries")
	}
	defer rows.Close()

	var summaries []model.SalesSummary
	for rows.Next() {
		var sum model.SalesSummary
		if err := rows.Scan(&sum.ProductID, &sum.Name, &sum.Description, &sum.Price,
			&sum.Cost, &sum.UnitsSold, &sum.Revenue, &sum.Profit,
			&sum.LastSoldAt, &sum.FirstSoldAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan sales summary")
		}
		summaries = append(summaries, sum)
	}
	return summaries, eris.Wrap(rows.Err(), "sqlite: sales summaries iterate")
}

func (s *SQLiteStore) UpsertSupplierProducts(ctx context.Context, products []model.SupplierProduct) (int64, error) {
	if len(products) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: begin tx")
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO supplier_products
		 (id, platform, external_id, name, description, price, currency,
		  supplier_name, supplier_rating, shipping_cost, minimum_order_quantity,
		  images, category, tags, product_url, synthetic, scraped_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (platform, external_id) DO UPDATE SET
		   name = excluded.name, description = excluded.description,
		   price = excluded.price, currency = excluded.currency,
		   supplier_name = excluded.supplier_name, supplier_rating = excluded.supplier_rating,
		   shipping_cost = excluded.shipping_cost, minimum_order_quantity = excluded.minimum_order_quantity,
		   images = excluded.images, category = excluded.category, tags = excluded.tags,
		   product_url = excluded.product_url, synthetic = excluded.synthetic,
		   scraped_at = excluded.scraped_at`,
	)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: prepare upsert")
	}
	defer stmt.Close()

	now := time.Now().UTC()
	var n int64
	for _, p := range products {
		imagesJSON, err := json.Marshal(p.Images)
		if err != nil {
			return n, eris.Wrap(err, "sqlite: marshal images")
		}
		tagsJSON, err := json.Marshal(p.Tags)
		if err != nil {
			return n, eris.Wrap(err, "sqlite: marshal tags")
		}
		scrapedAt := p.ScrapedAt
		if scrapedAt.IsZero() {
			scrapedAt = now
		}
		if _, err := stmt.ExecContext(ctx,
			uuid.New().String(), string(p.Platform), p.ExternalID, p.Name,
			p.Description, p.Price, p.Currency, p.SupplierName, p.Rating,
			p.ShippingCost, p.MOQ, string(imagesJSON), p.Category, string(tagsJSON),
			p.URL, p.Synthetic, scrapedAt,
		); err != nil {
			return n, eris.Wrapf(err, "sqlite: upsert supplier product %s", p.Key())
		}
		n++
	}

	if err := tx.Commit(); err != nil {
		return n, eris.Wrap(err, "sqlite: commit upsert")
	}
	return n, nil
}

func (s *SQLiteStore) DeleteStaleSupplierProducts(ctx context.Context, maxAge time.Duration) (int, error) {
	cutoff := time.Now().UTC().Add(-maxAge)
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM supplier_products WHERE scraped_at < ? AND id NOT IN (SELECT supplier_product_id FROM product_recommendations)`,
		cutoff,
	)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: delete stale supplier products")
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

func (s *SQLiteStore) SaveRecommendations(ctx context.Context, recs []model.Recommendation) (int, error) {
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

func (s *SQLiteStore) saveRecommendation(ctx context.Context, rec model.Recommendation) error {
	var supplierID string
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM supplier_products WHERE platform = ? AND external_id = ?`,
		string(rec.Product.Platform), rec.Product.ExternalID,
	).Scan(&supplierID)
	if err != nil {
		return eris.Wrapf(err, "sqlite: resolve supplier product %s", rec.Product.Key())
	}

	factorsJSON, err := json.Marshal(rec.MatchingFactors)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal matching factors")
	}

	recID := rec.ID
	if recID == "" {
		recID = uuid.New().String()
	}
	now := time.Now().UTC()

	var basedOn any
	if rec.BasedOn.ProductID != "" {
		basedOn = rec.BasedOn.ProductID
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO product_recommendations
		 (id, supplier_product_id, based_on_product_id, similarity_score, matching_factors,
		  confidence_score, recommendation_reason, estimated_demand, potential_profit,
		  potential_margin, break_even_quantity, total_landed_cost, suggested_retail_price,
		  exchange_rate_used, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		recID, supplierID, basedOn, rec.SimilarityScore, string(factorsJSON),
		rec.Confidence, rec.Reason, rec.EstimatedDemand, rec.Profit.ProfitPerUnit,
		rec.Profit.MarginPercent, rec.Profit.BreakEvenQuantity, rec.Cost.Total,
		rec.Profit.RecommendedPrice, rec.Cost.ExchangeRate, now,
	)
	if err != nil {
		return eris.Wrap(err, "sqlite: insert recommendation")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO cost_breakdowns
		 (id, recommendation_id, product_cost_source, product_cost_target,
		  shipping_cost_source, shipping_cost_target, duty, tax, processing_fee,
		  total_landed_cost, exchange_rate, currency, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		uuid.New().String(), recID, rec.Cost.ProductCostSource, rec.Cost.ProductCostTarget,
		rec.Cost.ShippingCostSource, rec.Cost.ShippingCostTarget, rec.Cost.Duty,
		rec.Cost.Tax, rec.Cost.ProcessingFee, rec.Cost.Total, rec.Cost.ExchangeRate,
		rec.Cost.Currency, now,
	)
	return eris.Wrap(err, "sqlite: insert cost breakdown")
}

func (s *SQLiteStore) ListRecommendations(ctx context.Context, filter RecommendationFilter) ([]model.Recommendation, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	cutoff := time.Time{}
	if filter.MaxAge > 0 {
		cutoff = time.Now().UTC().Add(-filter.MaxAge)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT r.id, r.similarity_score, r.matching_factors, r.confidence_score,
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
		 WHERE r.created_at > ? AND r.confidence_score >= ?
		 ORDER BY r.confidence_score DESC
		 LIMIT ?`,
		cutoff, filter.MinConfidence, limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list recommendations")
	}
	defer rows.Close()

	var recs []model.Recommendation
	for rows.Next() {
		var rec model.Recommendation
		var factorsJSON, imagesJSON, tagsJSON string
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
			return nil, eris.Wrap(err, "sqlite: scan recommendation")
		}

		if factorsJSON != "" {
			if err := json.Unmarshal([]byte(factorsJSON), &rec.MatchingFactors); err != nil {
				return nil, eris.Wrap(err, "sqlite: unmarshal matching factors")
			}
		}
		if imagesJSON != "" {
			if err := json.Unmarshal([]byte(imagesJSON), &rec.Product.Images); err != nil {
				return nil, eris.Wrap(err, "sqlite: unmarshal images")
			}
		}
		if tagsJSON != "" {
			if err := json.Unmarshal([]byte(tagsJSON), &rec.Product.Tags); err != nil {
				return nil, eris.Wrap(err, "sqlite: unmarshal tags")
			}
		}

		rec.Profit.EstimatedPeriodProfit = rec.Profit.ProfitPerUnit * float64(rec.EstimatedDemand)
		recs = append(recs, rec)
	}
	return recs, eris.Wrap(rows.Err(), "sqlite: list recommendations iterate")
}

func (s *SQLiteStore) DeleteOldRecommendations(ctx context.Context, maxAge time.Duration) (int, error) {
	cutoff := time.Now().UTC().Add(-maxAge)
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM product_recommendations WHERE created_at < ?`,
		cutoff,
	)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: delete old recommendations")
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

func (s *SQLiteStore) CreateRun(ctx context.Context, trigger string) (*model.GenerationRun, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO generation_runs (id, status, trigger_source, started_at) VALUES (?, ?, ?, ?)`,
		id, string(model.RunStatusRunning), trigger, now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert run")
	}

	return &model.GenerationRun{
		ID:        id,
		Status:    model.RunStatusRunning,
		Trigger:   trigger,
		StartedAt: now,
	}, nil
}

func (s *SQLiteStore) CompleteRun(ctx context.Context, runID string, status model.RunStatus, summary *model.RunSummary) error {
	summaryJSON, err := json.Marshal(summary)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal run summary")
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE generation_runs SET status = ?, summary = ?, ended_at = ? WHERE id = ?`,
		string(status), string(summaryJSON), time.Now().UTC(), runID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: complete run %s", runID)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return eris.Errorf("run not found: %s", runID)
	}
	return nil
}

func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]model.GenerationRun, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, status, trigger_source, summary, started_at, ended_at
		 FROM generation_runs ORDER BY started_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list runs")
	}
	defer rows.Close()

	var runs []model.GenerationRun
	for rows.Next() {
		var r model.GenerationRun
		var summaryJSON sql.NullString
		var endedAt sql.NullTime
		if err := rows.Scan(&r.ID, &r.Status, &r.Trigger, &summaryJSON, &r.StartedAt, &endedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan run")
		}
		if summaryJSON.Valid && summaryJSON.String != "" {
			r.Summary = &model.RunSummary{}
			if err := json.Unmarshal([]byte(summaryJSON.String), r.Summary); err != nil {
				return nil, eris.Wrap(err, "sqlite: unmarshal run summary")
			}
		}
		if endedAt.Valid {
			t := endedAt.Time
			r.EndedAt = &t
		}
		runs = append(runs, r)
	}
	return runs, eris.Wrap(rows.Err(), "sqlite: list runs iterate")
}

func (s *SQLiteStore) LatestRun(ctx context.Context) (*model.GenerationRun, error) {
	runs, err := s.ListRuns(ctx, 1)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, nil
	}
	return &runs[0], nil
}
