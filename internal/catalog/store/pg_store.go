package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tvmanh/goshop/internal/domain"
	gserrors "github.com/tvmanh/goshop/internal/errors"
)

const productColumns = `id, name, description, price, category, image, stock,
	rating, total_reviews, is_active, is_on_promotion, views, created_at, updated_at`

// sortColumns whitelists the externally exposed sort keys and maps them to
// their column names. Anything else falls back to created_at.
var sortColumns = map[string]string{
	"name":         "name",
	"price":        "price",
	"rating":       "rating",
	"createdAt":    "created_at",
	"views":        "views",
	"totalReviews": "total_reviews",
}

// PgStore implements ProductStore using PostgreSQL as the data store.
type PgStore struct {
	db *pgxpool.Pool
}

// NewPgStore creates a new instance of ProductStore using a PostgreSQL connection pool.
func NewPgStore(dbp *pgxpool.Pool) *PgStore {
	return &PgStore{db: dbp}
}

// FindByID retrieves an active product by its unique identifier.
// Returns ErrProductNotFound if no product exists with the given ID or the
// product has been soft-deleted.
func (p *PgStore) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	row := p.db.QueryRow(ctx,
		fmt.Sprintf(`SELECT %s FROM products WHERE id = $1 AND is_active = TRUE`, productColumns), id)
	product, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, gserrors.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}
	return product, nil
}

// List returns one page of active products plus the total match count.
// The count and the page are computed over the same WHERE clause.
func (p *PgStore) List(ctx context.Context, q ListQuery) ([]domain.Product, int64, error) {
	where, args := buildListWhere(q)

	var total int64
	countSQL := "SELECT COUNT(*) FROM products WHERE " + where
	if err := p.db.QueryRow(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	orderBy := listOrderBy(q.SortBy, q.SortOrder)
	pageSQL := fmt.Sprintf(`SELECT %s FROM products WHERE %s ORDER BY %s LIMIT $%d OFFSET $%d`,
		productColumns, where, orderBy, len(args)+1, len(args)+2)
	args = append(args, q.Limit, q.Offset)

	rows, err := p.db.Query(ctx, pageSQL, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products, err := scanProducts(rows)
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// Categories returns the distinct categories of active products, sorted.
func (p *PgStore) Categories(ctx context.Context) ([]string, error) {
	rows, err := p.db.Query(ctx,
		`SELECT category FROM products WHERE is_active = TRUE GROUP BY category ORDER BY category`)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	categories := make([]string, 0)
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read categories: %w", err)
	}
	return categories, nil
}

// Create adds a new product to the system.
func (p *PgStore) Create(ctx context.Context, params CreateParams) (*domain.Product, error) {
	row := p.db.QueryRow(ctx, fmt.Sprintf(`
		INSERT INTO products (name, description, price, category, image, stock)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING %s`, productColumns),
		params.Name, params.Description, params.Price, params.Category, params.Image, params.Stock)
	product, err := scanProduct(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return product, nil
}

// Update applies a partial update to an existing product.
// Returns ErrProductNotFound if no product exists with the given ID.
func (p *PgStore) Update(ctx context.Context, id int64, params UpdateParams) (*domain.Product, error) {
	assignments := []string{"updated_at = now()"}
	args := []any{id}

	addAssignment := func(column string, value any) {
		args = append(args, value)
		assignments = append(assignments, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if params.Name != nil {
		addAssignment("name", *params.Name)
	}
	if params.Description != nil {
		addAssignment("description", *params.Description)
	}
	if params.Price != nil {
		addAssignment("price", *params.Price)
	}
	if params.Category != nil {
		addAssignment("category", *params.Category)
	}
	if params.Image != nil {
		addAssignment("image", *params.Image)
	}
	if params.Stock != nil {
		addAssignment("stock", *params.Stock)
	}
	if params.Rating != nil {
		addAssignment("rating", *params.Rating)
	}
	if params.TotalReviews != nil {
		addAssignment("total_reviews", *params.TotalReviews)
	}
	if params.IsActive != nil {
		addAssignment("is_active", *params.IsActive)
	}
	if params.IsOnPromotion != nil {
		addAssignment("is_on_promotion", *params.IsOnPromotion)
	}
	if params.Views != nil {
		addAssignment("views", *params.Views)
	}

	sql := fmt.Sprintf(`UPDATE products SET %s WHERE id = $1 RETURNING %s`,
		strings.Join(assignments, ", "), productColumns)

	row := p.db.QueryRow(ctx, sql, args...)
	product, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, gserrors.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	return product, nil
}

// SoftDelete marks a product inactive; the row is never removed.
// Returns ErrProductNotFound if the product does not exist or is already inactive.
func (p *PgStore) SoftDelete(ctx context.Context, id int64) error {
	tag, err := p.db.Exec(ctx,
		`UPDATE products SET is_active = FALSE, updated_at = now() WHERE id = $1 AND is_active = TRUE`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return gserrors.ErrProductNotFound
	}
	return nil
}

// FindAllForIndex returns every product row, including inactive ones, in id
// order. The search index filters on isActive at query time.
func (p *PgStore) FindAllForIndex(ctx context.Context) ([]domain.Product, error) {
	rows, err := p.db.Query(ctx,
		fmt.Sprintf(`SELECT %s FROM products ORDER BY id`, productColumns))
	if err != nil {
		return nil, fmt.Errorf("failed to read products for indexing: %w", err)
	}
	defer rows.Close()
	return scanProducts(rows)
}

// buildListWhere translates the supported filter subset into a WHERE clause
// with positional arguments. is_active = TRUE is always applied.
func buildListWhere(q ListQuery) (string, []any) {
	where := []string{"is_active = TRUE"}
	args := make([]any, 0, 2)

	if q.Category != "" {
		args = append(args, q.Category)
		where = append(where, fmt.Sprintf("category = $%d", len(args)))
	}
	if q.Search != "" {
		args = append(args, "%"+q.Search+"%")
		where = append(where, fmt.Sprintf("(name ILIKE $%d OR description ILIKE $%d)", len(args), len(args)))
	}
	return strings.Join(where, " AND "), args
}

// listOrderBy resolves the sort key against the whitelist; unknown keys sort
// by creation time, unknown directions descend.
func listOrderBy(sortBy, sortOrder string) string {
	column, ok := sortColumns[sortBy]
	if !ok {
		column = "created_at"
	}
	direction := "DESC"
	if strings.EqualFold(sortOrder, "asc") {
		direction = "ASC"
	}
	// id as a tie-breaker keeps pages stable across requests
	return fmt.Sprintf("%s %s, id %s", column, direction, direction)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	var p domain.Product
	err := row.Scan(
		&p.ID, &p.Name, &p.Description, &p.Price, &p.Category, &p.Image, &p.Stock,
		&p.Rating, &p.TotalReviews, &p.IsActive, &p.IsOnPromotion, &p.Views,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func scanProducts(rows pgx.Rows) ([]domain.Product, error) {
	products := make([]domain.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read products: %w", err)
	}
	return products, nil
}
