package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"mfhome_back_end/internal/models"
)

type CategoryStore struct {
	pool *pgxpool.Pool
}

func NewCategoryStore(pool *pgxpool.Pool) *CategoryStore {
	return &CategoryStore{pool: pool}
}

// List renvoie toutes les catégories avec leur nombre de produits actifs,
// triées par nom d'affichage.
func (s *CategoryStore) List(ctx context.Context) ([]models.Category, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT c.id, c.name, c.slug, c.display_name, c.description, c.image_url,
		       c.parent_id, c.created_at,
		       (SELECT COUNT(*) FROM products WHERE category_id = c.id AND is_active) AS product_count
		FROM categories c
		ORDER BY c.display_name`,
	)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	categories := []models.Category{}
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.DisplayName, &c.Description,
			&c.ImageURL, &c.ParentID, &c.CreatedAt, &c.ProductCount); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (s *CategoryStore) FindBySlug(ctx context.Context, slug string) (*models.Category, error) {
	return s.findOne(ctx, "slug = $1", slug)
}

func (s *CategoryStore) FindByID(ctx context.Context, id int64) (*models.Category, error) {
	return s.findOne(ctx, "id = $1", id)
}

func (s *CategoryStore) findOne(ctx context.Context, cond string, arg any) (*models.Category, error) {
	var c models.Category
	err := s.pool.QueryRow(ctx, fmt.Sprintf(`
		SELECT id, name, slug, display_name, description, image_url, parent_id, created_at
		FROM categories WHERE %s`, cond),
		arg,
	).Scan(&c.ID, &c.Name, &c.Slug, &c.DisplayName, &c.Description, &c.ImageURL, &c.ParentID, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find category: %w", err)
	}
	return &c, nil
}

// ProductsBySlug renvoie la catégorie et une page de ses produits actifs.
func (s *CategoryStore) ProductsBySlug(ctx context.Context, slug string, page, limit int) (*models.Category, []models.Product, int64, error) {
	category, err := s.FindBySlug(ctx, slug)
	if err != nil {
		return nil, nil, 0, err
	}

	var total int64
	err = s.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM products WHERE category_id = $1 AND is_active`,
		category.ID,
	).Scan(&total)
	if err != nil {
		return nil, nil, 0, fmt.Errorf("count category products: %w", err)
	}

	rows, err := s.pool.Query(ctx, fmt.Sprintf(`
		SELECT %s, pi.image_url
		FROM products p
		LEFT JOIN product_images pi ON p.id = pi.product_id AND pi.is_primary
		WHERE p.category_id = $1 AND p.is_active
		ORDER BY p.created_at DESC
		LIMIT $2 OFFSET $3`, productColumns),
		category.ID, limit, (page-1)*limit,
	)
	if err != nil {
		return nil, nil, 0, fmt.Errorf("list category products: %w", err)
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(
			&p.ID, &p.Name, &p.Slug, &p.Description, &p.ShortDescription,
			&p.Price, &p.OldPrice, &p.SalePercent, &p.SKU, &p.CategoryID,
			&p.StockQuantity, &p.IsFeatured, &p.IsActive, &p.Weight, &p.Dimensions,
			&p.CreatedAt, &p.UpdatedAt, &p.PrimaryImage,
		); err != nil {
			return nil, nil, 0, fmt.Errorf("scan category product: %w", err)
		}
		p.CategoryName = category.Name
		p.CategorySlug = category.Slug
		products = append(products, p)
	}
	return category, products, total, rows.Err()
}

// Create insère une catégorie. Slug dupliqué → ErrConflict.
func (s *CategoryStore) Create(ctx context.Context, c *models.Category) (*models.Category, error) {
	if c.Slug == "" {
		c.Slug = Slugify(c.Name)
	}
	if c.DisplayName == "" {
		c.DisplayName = c.Name
	}
	err := s.pool.QueryRow(ctx, `
		INSERT INTO categories (name, slug, display_name, description, image_url, parent_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`,
		c.Name, c.Slug, c.DisplayName, c.Description, c.ImageURL, c.ParentID,
	).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("create category %q: %w", c.Slug, ErrConflict)
		}
		return nil, fmt.Errorf("insert category: %w", err)
	}
	return c, nil
}

// Update applique un patch explicite (mêmes règles que ProductStore.Update).
func (s *CategoryStore) Update(ctx context.Context, id int64, patch models.CategoryPatch) (*models.Category, error) {
	sets := []string{}
	args := []any{}
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if patch.Name != nil {
		add("name", *patch.Name)
	}
	if patch.Slug != nil {
		add("slug", *patch.Slug)
	}
	if patch.DisplayName != nil {
		add("display_name", *patch.DisplayName)
	}
	if patch.Description != nil {
		add("description", *patch.Description)
	}
	if patch.ImageURL != nil {
		add("image_url", *patch.ImageURL)
	}
	if patch.ParentID != nil {
		add("parent_id", *patch.ParentID)
	}

	if len(sets) > 0 {
		args = append(args, id)
		query := fmt.Sprintf("UPDATE categories SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))
		tag, err := s.pool.Exec(ctx, query, args...)
		if err != nil {
			if isUniqueViolation(err) {
				return nil, fmt.Errorf("update category: %w", ErrConflict)
			}
			return nil, fmt.Errorf("update category: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return nil, ErrNotFound
		}
	}
	return s.FindByID(ctx, id)
}

func (s *CategoryStore) Delete(ctx context.Context, id int64) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}
