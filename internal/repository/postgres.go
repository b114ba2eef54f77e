package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"core/internal/model"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
)

const productColumns = `
	id, name, description, category, subcategory, price, cost_price, discount,
	tags, room_type, colors, styles, space_efficient, views, sales_count,
	wishlist_count, in_stock, created_at, updated_at`

// PostgresRepository handles database operations
type PostgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(dsn string, maxConn, maxIdleConn int) (*PostgresRepository, error) {
	// Disable prepared statement caching to avoid "unnamed prepared statement does not exist" errors
	if !strings.Contains(dsn, "?") {
		dsn += "?prefer_simple_protocol=true"
	} else {
		dsn += "&prefer_simple_protocol=true"
	}

	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(maxConn)
	db.SetMaxIdleConns(maxIdleConn)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(2 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresRepository{db: db}, nil
}

// Close closes the database connection
func (r *PostgresRepository) Close() error {
	return r.db.Close()
}

// FindProducts executes the catalog predicate and returns a bounded candidate
// set ordered by primary key. In-stock-only is always enforced.
func (r *PostgresRepository) FindProducts(ctx context.Context, filter *model.CatalogFilter, limit int) ([]model.Product, error) {
	whereClauses := []string{"in_stock = true"}
	args := []interface{}{}
	argIndex := 1

	if filter != nil {
		if filter.MaxPrice != nil {
			whereClauses = append(whereClauses, fmt.Sprintf("price <= $%d", argIndex))
			args = append(args, *filter.MaxPrice)
			argIndex++
		}
		if filter.Category != nil {
			whereClauses = append(whereClauses, fmt.Sprintf("category = $%d", argIndex))
			args = append(args, *filter.Category)
			argIndex++
		}
		if filter.SpaceEfficient {
			whereClauses = append(whereClauses, "space_efficient = true")
		}
		if len(filter.Colors) > 0 {
			patterns := make([]string, len(filter.Colors))
			for i, color := range filter.Colors {
				patterns[i] = "%" + color + "%"
			}
			whereClauses = append(whereClauses, fmt.Sprintf(
				"EXISTS (SELECT 1 FROM jsonb_array_elements_text(colors) AS c(v) WHERE c.v ILIKE ANY($%d))", argIndex))
			args = append(args, pq.Array(patterns))
			argIndex++
		}
		if len(filter.TypeTerms) > 0 {
			termClauses := make([]string, len(filter.TypeTerms))
			for i, term := range filter.TypeTerms {
				termClauses[i] = fmt.Sprintf(
					"(name ILIKE $%d OR description ILIKE $%d OR COALESCE(subcategory, '') ILIKE $%d OR "+
						"EXISTS (SELECT 1 FROM jsonb_array_elements_text(tags) AS t(v) WHERE t.v ILIKE $%d))",
					argIndex, argIndex, argIndex, argIndex)
				args = append(args, "%"+term+"%")
				argIndex++
			}
			whereClauses = append(whereClauses, "("+strings.Join(termClauses, " OR ")+")")
		}
	}

	query := fmt.Sprintf(`SELECT %s FROM products WHERE %s ORDER BY id LIMIT $%d`,
		productColumns, strings.Join(whereClauses, " AND "), argIndex)
	args = append(args, limit)

	var products []model.Product
	if err := r.db.SelectContext(ctx, &products, query, args...); err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}

	return products, nil
}

// ListProducts returns the storefront catalog listing
func (r *PostgresRepository) ListProducts(ctx context.Context, q *model.ProductListQuery) ([]model.Product, error) {
	whereClauses := []string{"in_stock = true"}
	args := []interface{}{}
	argIndex := 1

	if q != nil {
		if q.Category != nil {
			whereClauses = append(whereClauses, fmt.Sprintf("category = $%d", argIndex))
			args = append(args, *q.Category)
			argIndex++
		}
		if q.RoomType != nil {
			whereClauses = append(whereClauses, fmt.Sprintf("room_type = $%d", argIndex))
			args = append(args, *q.RoomType)
			argIndex++
		}
		if q.MinPrice != nil {
			whereClauses = append(whereClauses, fmt.Sprintf("price >= $%d", argIndex))
			args = append(args, *q.MinPrice)
			argIndex++
		}
		if q.MaxPrice != nil {
			whereClauses = append(whereClauses, fmt.Sprintf("price <= $%d", argIndex))
			args = append(args, *q.MaxPrice)
			argIndex++
		}
		if q.SpaceEfficient {
			whereClauses = append(whereClauses, "space_efficient = true")
		}
		if q.Style != nil {
			whereClauses = append(whereClauses, fmt.Sprintf(
				"EXISTS (SELECT 1 FROM jsonb_array_elements_text(styles) AS s(v) WHERE s.v = $%d)", argIndex))
			args = append(args, *q.Style)
			argIndex++
		}
		if q.Color != nil {
			whereClauses = append(whereClauses, fmt.Sprintf(
				"EXISTS (SELECT 1 FROM jsonb_array_elements_text(colors) AS c(v) WHERE c.v ILIKE $%d)", argIndex))
			args = append(args, "%"+*q.Color+"%")
			argIndex++
		}
		if q.Search != nil {
			whereClauses = append(whereClauses, fmt.Sprintf(
				"(name ILIKE $%d OR description ILIKE $%d OR category ILIKE $%d OR COALESCE(subcategory, '') ILIKE $%d OR "+
					"EXISTS (SELECT 1 FROM jsonb_array_elements_text(tags) AS t(v) WHERE t.v ILIKE $%d) OR "+
					"EXISTS (SELECT 1 FROM jsonb_array_elements_text(styles) AS s(v) WHERE s.v ILIKE $%d) OR "+
					"EXISTS (SELECT 1 FROM jsonb_array_elements_text(colors) AS c(v) WHERE c.v ILIKE $%d))",
				argIndex, argIndex, argIndex, argIndex, argIndex, argIndex, argIndex))
			args = append(args, "%"+*q.Search+"%")
			argIndex++
		}
	}

	orderBy := "created_at DESC"
	if q != nil {
		switch q.SortBy {
		case "price-low":
			orderBy = "price ASC"
		case "price-high":
			orderBy = "price DESC"
		case "popular":
			orderBy = "sales_count DESC"
		case "newest":
			orderBy = "created_at DESC"
		case "most-viewed":
			orderBy = "views DESC"
		}
	}

	query := fmt.Sprintf(`SELECT %s FROM products WHERE %s ORDER BY %s`,
		productColumns, strings.Join(whereClauses, " AND "), orderBy)

	var products []model.Product
	if err := r.db.SelectContext(ctx, &products, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	return products, nil
}

// GetProductByID retrieves a single product, nil when absent
func (r *PostgresRepository) GetProductByID(ctx context.Context, id int64) (*model.Product, error) {
	var product model.Product
	query := fmt.Sprintf(`SELECT %s FROM products WHERE id = $1`, productColumns)
	err := r.db.GetContext(ctx, &product, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return &product, nil
}

// IncrementViews bumps the view counter for a product
func (r *PostgresRepository) IncrementViews(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `UPDATE products SET views = views + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to increment views: %w", err)
	}
	return nil
}

// SimilarProducts returns neighbors of a product: embedding distance when the
// anchor has an embedding, category/tag overlap otherwise.
func (r *PostgresRepository) SimilarProducts(ctx context.Context, product *model.Product, limit int) ([]model.Product, error) {
	var hasEmbedding bool
	err := r.db.GetContext(ctx, &hasEmbedding,
		`SELECT embedding IS NOT NULL FROM products WHERE id = $1`, product.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check embedding: %w", err)
	}

	var products []model.Product
	if hasEmbedding {
		query := fmt.Sprintf(`
			SELECT %s FROM products
			WHERE id <> $1 AND in_stock = true AND embedding IS NOT NULL
			ORDER BY embedding <=> (SELECT embedding FROM products WHERE id = $1)
			LIMIT $2`, productColumns)
		if err := r.db.SelectContext(ctx, &products, query, product.ID, limit); err != nil {
			return nil, fmt.Errorf("failed to fetch similar products: %w", err)
		}
		return products, nil
	}

	query := fmt.Sprintf(`
		SELECT %s FROM products
		WHERE id <> $1 AND in_stock = true
		  AND (category = $2 OR EXISTS (SELECT 1 FROM jsonb_array_elements_text(tags) AS t(v) WHERE t.v = ANY($3)))
		LIMIT $4`, productColumns)
	if err := r.db.SelectContext(ctx, &products, query,
		product.ID, product.Category, pq.Array([]string(product.Tags)), limit); err != nil {
		return nil, fmt.Errorf("failed to fetch similar products: %w", err)
	}
	return products, nil
}

// TopSelling returns the best-selling in-stock products
func (r *PostgresRepository) TopSelling(ctx context.Context, limit int) ([]model.Product, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM products WHERE in_stock = true ORDER BY sales_count DESC LIMIT $1`, productColumns)
	var products []model.Product
	if err := r.db.SelectContext(ctx, &products, query, limit); err != nil {
		return nil, fmt.Errorf("failed to fetch top selling products: %w", err)
	}
	return products, nil
}

// OnSale returns discounted in-stock products
func (r *PostgresRepository) OnSale(ctx context.Context, limit int) ([]model.Product, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM products WHERE in_stock = true AND discount > 0 ORDER BY discount DESC LIMIT $1`, productColumns)
	var products []model.Product
	if err := r.db.SelectContext(ctx, &products, query, limit); err != nil {
		return nil, fmt.Errorf("failed to fetch on-sale products: %w", err)
	}
	return products, nil
}

// BatchUpdateEmbeddings updates embeddings for multiple products
func (r *PostgresRepository) BatchUpdateEmbeddings(ctx context.Context, items []model.EmbeddingItem) (int, []string) {
	success := 0
	var errors []string

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		errors = append(errors, fmt.Sprintf("failed to start transaction: %v", err))
		return success, errors
	}
	defer tx.Rollback()

	stmt, err := tx.PreparexContext(ctx, `UPDATE products SET embedding = $1, updated_at = NOW() WHERE id = $2`)
	if err != nil {
		errors = append(errors, fmt.Sprintf("failed to prepare statement: %v", err))
		return success, errors
	}
	defer stmt.Close()

	for _, item := range items {
		vec := pgvector.NewVector(item.Embedding)
		_, err := stmt.ExecContext(ctx, vec, item.ProductID)
		if err != nil {
			errors = append(errors, fmt.Sprintf("product_id %d: %v", item.ProductID, err))
			continue
		}
		success++
	}

	if err := tx.Commit(); err != nil {
		errors = append(errors, fmt.Sprintf("failed to commit transaction: %v", err))
		return 0, errors
	}

	return success, errors
}

// LogSearch records one search execution
func (r *PostgresRepository) LogSearch(ctx context.Context, entry *model.SearchLogEntry) error {
	intentJSON, err := json.Marshal(entry.Intent)
	if err != nil {
		return fmt.Errorf("failed to marshal intent: %w", err)
	}

	query := `
		INSERT INTO search_logs (search_id, source, query, intent, result_count, returned_product_ids, response_time_ms)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err = r.db.ExecContext(ctx, query,
		entry.SearchID, entry.Source, entry.Query, intentJSON,
		entry.Count, pq.Array(entry.ProductIDs), entry.Took)
	if err != nil {
		return fmt.Errorf("failed to log search: %w", err)
	}
	return nil
}

// LogFeedback logs user feedback/action
func (r *PostgresRepository) LogFeedback(ctx context.Context, searchID string, productID int64, action string) error {
	query := `
		UPDATE search_logs
		SET clicked_product_id = $2, action = $3
		WHERE search_id = $1
	`
	_, err := r.db.ExecContext(ctx, query, searchID, productID, action)
	if err != nil {
		return fmt.Errorf("failed to log feedback: %w", err)
	}
	return nil
}
