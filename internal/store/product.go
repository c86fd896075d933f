package store

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"mfhome_back_end/internal/models"
)

// ProductStore : lecture catalogue côté boutique + CRUD admin.
type ProductStore struct {
	pool *pgxpool.Pool
}

func NewProductStore(pool *pgxpool.Pool) *ProductStore {
	return &ProductStore{pool: pool}
}

const productColumns = `p.id, p.name, p.slug, p.description, p.short_description,
	p.price, p.old_price, p.sale_percent, p.sku, p.category_id, p.stock_quantity,
	p.is_featured, p.is_active, p.weight, p.dimensions, p.created_at, p.updated_at`

// ListOptions : filtres de la liste produits publique/admin.
type ListOptions struct {
	Page            int
	Limit           int
	CategoryID      *int64
	IncludeInactive bool
}

// List renvoie une page de produits avec nom/slug de catégorie et image
// primaire, les plus récents d'abord, plus le total indépendant de la page.
func (s *ProductStore) List(ctx context.Context, opts ListOptions) ([]models.Product, int64, error) {
	where := "WHERE p.is_active"
	if opts.IncludeInactive {
		where = "WHERE TRUE"
	}
	args := []any{}
	if opts.CategoryID != nil {
		args = append(args, *opts.CategoryID)
		where += fmt.Sprintf(" AND p.category_id = $%d", len(args))
	}

	var total int64
	countQuery := "SELECT COUNT(*) FROM products p " + where
	if err := s.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	args = append(args, opts.Limit, (opts.Page-1)*opts.Limit)
	query := fmt.Sprintf(`
		SELECT %s, c.name, c.slug, pi.image_url
		FROM products p
		LEFT JOIN categories c ON p.category_id = c.id
		LEFT JOIN product_images pi ON p.id = pi.product_id AND pi.is_primary
		%s
		ORDER BY p.created_at DESC
		LIMIT $%d OFFSET $%d`,
		productColumns, where, len(args)-1, len(args))

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		var p models.Product
		var catName, catSlug *string
		if err := rows.Scan(
			&p.ID, &p.Name, &p.Slug, &p.Description, &p.ShortDescription,
			&p.Price, &p.OldPrice, &p.SalePercent, &p.SKU, &p.CategoryID,
			&p.StockQuantity, &p.IsFeatured, &p.IsActive, &p.Weight, &p.Dimensions,
			&p.CreatedAt, &p.UpdatedAt, &catName, &catSlug, &p.PrimaryImage,
		); err != nil {
			return nil, 0, fmt.Errorf("scan product: %w", err)
		}
		if catName != nil {
			p.CategoryName = *catName
		}
		if catSlug != nil {
			p.CategorySlug = *catSlug
		}
		products = append(products, p)
	}
	return products, total, rows.Err()
}

// Featured renvoie les produits mis en avant, les plus récents d'abord.
func (s *ProductStore) Featured(ctx context.Context, limit int) ([]models.Product, error) {
	rows, err := s.pool.Query(ctx, fmt.Sprintf(`
		SELECT %s, c.name, c.slug, pi.image_url
		FROM products p
		LEFT JOIN categories c ON p.category_id = c.id
		LEFT JOIN product_images pi ON p.id = pi.product_id AND pi.is_primary
		WHERE p.is_featured AND p.is_active
		ORDER BY p.created_at DESC
		LIMIT $1`, productColumns),
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("featured products: %w", err)
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		var p models.Product
		var catName, catSlug *string
		if err := rows.Scan(
			&p.ID, &p.Name, &p.Slug, &p.Description, &p.ShortDescription,
			&p.Price, &p.OldPrice, &p.SalePercent, &p.SKU, &p.CategoryID,
			&p.StockQuantity, &p.IsFeatured, &p.IsActive, &p.Weight, &p.Dimensions,
			&p.CreatedAt, &p.UpdatedAt, &catName, &catSlug, &p.PrimaryImage,
		); err != nil {
			return nil, fmt.Errorf("scan featured product: %w", err)
		}
		if catName != nil {
			p.CategoryName = *catName
		}
		if catSlug != nil {
			p.CategorySlug = *catSlug
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// FindByID renvoie un produit actif avec sa catégorie et toutes ses images.
func (s *ProductStore) FindByID(ctx context.Context, id int64) (*models.Product, error) {
	return s.findOne(ctx, "p.id = $1 AND p.is_active", id)
}

// FindBySlug : idem par slug.
func (s *ProductStore) FindBySlug(ctx context.Context, slug string) (*models.Product, error) {
	return s.findOne(ctx, "p.slug = $1 AND p.is_active", slug)
}

// findAny ignore is_active : lectures admin après création/mise à jour.
func (s *ProductStore) findAny(ctx context.Context, id int64) (*models.Product, error) {
	return s.findOne(ctx, "p.id = $1", id)
}

func (s *ProductStore) findOne(ctx context.Context, cond string, arg any) (*models.Product, error) {
	var p models.Product
	var catName, catSlug *string
	err := s.pool.QueryRow(ctx, fmt.Sprintf(`
		SELECT %s, c.name, c.slug
		FROM products p
		LEFT JOIN categories c ON p.category_id = c.id
		WHERE %s`, productColumns, cond),
		arg,
	).Scan(
		&p.ID, &p.Name, &p.Slug, &p.Description, &p.ShortDescription,
		&p.Price, &p.OldPrice, &p.SalePercent, &p.SKU, &p.CategoryID,
		&p.StockQuantity, &p.IsFeatured, &p.IsActive, &p.Weight, &p.Dimensions,
		&p.CreatedAt, &p.UpdatedAt, &catName, &catSlug,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find product: %w", err)
	}
	if catName != nil {
		p.CategoryName = *catName
	}
	if catSlug != nil {
		p.CategorySlug = *catSlug
	}

	images, err := s.loadImages(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	p.Images = images
	return &p, nil
}

func (s *ProductStore) loadImages(ctx context.Context, productID int64) ([]models.ProductImage, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, product_id, image_url, alt_text, is_primary, display_order
		FROM product_images
		WHERE product_id = $1
		ORDER BY display_order, is_primary DESC`,
		productID,
	)
	if err != nil {
		return nil, fmt.Errorf("load product images: %w", err)
	}
	defer rows.Close()

	images := []models.ProductImage{}
	for rows.Next() {
		var img models.ProductImage
		if err := rows.Scan(&img.ID, &img.ProductID, &img.ImageURL, &img.AltText, &img.IsPrimary, &img.DisplayOrder); err != nil {
			return nil, fmt.Errorf("scan product image: %w", err)
		}
		images = append(images, img)
	}
	return images, rows.Err()
}

// Search : recherche sous-chaîne insensible à la casse sur nom, description
// et description courte. Les correspondances sur le nom passent avant
// celles sur les descriptions, puis par récence.
func (s *ProductStore) Search(ctx context.Context, query string, page, limit int) ([]models.Product, int64, error) {
	pattern := "%" + strings.ToLower(query) + "%"

	var total int64
	err := s.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM products
		WHERE is_active AND (
			LOWER(name) LIKE $1 OR LOWER(description) LIKE $1 OR LOWER(short_description) LIKE $1
		)`, pattern,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count search products: %w", err)
	}

	rows, err := s.pool.Query(ctx, fmt.Sprintf(`
		SELECT %s, c.name, c.slug, pi.image_url
		FROM products p
		LEFT JOIN categories c ON p.category_id = c.id
		LEFT JOIN product_images pi ON p.id = pi.product_id AND pi.is_primary
		WHERE p.is_active AND (
			LOWER(p.name) LIKE $1 OR LOWER(p.description) LIKE $1 OR LOWER(p.short_description) LIKE $1
		)
		ORDER BY
			CASE
				WHEN LOWER(p.name) LIKE $1 THEN 1
				WHEN LOWER(p.short_description) LIKE $1 THEN 2
				WHEN LOWER(p.description) LIKE $1 THEN 3
				ELSE 4
			END,
			p.created_at DESC
		LIMIT $2 OFFSET $3`, productColumns),
		pattern, limit, (page-1)*limit,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("search products: %w", err)
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		var p models.Product
		var catName, catSlug *string
		if err := rows.Scan(
			&p.ID, &p.Name, &p.Slug, &p.Description, &p.ShortDescription,
			&p.Price, &p.OldPrice, &p.SalePercent, &p.SKU, &p.CategoryID,
			&p.StockQuantity, &p.IsFeatured, &p.IsActive, &p.Weight, &p.Dimensions,
			&p.CreatedAt, &p.UpdatedAt, &catName, &catSlug, &p.PrimaryImage,
		); err != nil {
			return nil, 0, fmt.Errorf("scan search product: %w", err)
		}
		if catName != nil {
			p.CategoryName = *catName
		}
		if catSlug != nil {
			p.CategorySlug = *catSlug
		}
		products = append(products, p)
	}
	return products, total, rows.Err()
}

// \p{L} plutôt que \w : les noms de produits accentués gardent leurs lettres.
var slugCleanRe = regexp.MustCompile(`[^\p{L}\p{N}\s-]`)
var slugSpaceRe = regexp.MustCompile(`\s+`)
var slugDashRe = regexp.MustCompile(`--+`)

// Slugify génère un slug à partir du nom quand il n'est pas fourni.
func Slugify(name string) string {
	s := strings.ToLower(name)
	s = slugCleanRe.ReplaceAllString(s, "")
	s = slugSpaceRe.ReplaceAllString(s, "-")
	s = slugDashRe.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// Create insère le produit et ses images dans une même transaction :
// soit tout est visible, soit rien.
func (s *ProductStore) Create(ctx context.Context, p *models.Product) (*models.Product, error) {
	if p.Slug == "" {
		p.Slug = Slugify(p.Name)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin create product: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO products (name, slug, description, short_description, price,
			old_price, sale_percent, sku, category_id, stock_quantity,
			is_featured, is_active, weight, dimensions)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id, created_at, updated_at`,
		p.Name, p.Slug, p.Description, p.ShortDescription, p.Price,
		p.OldPrice, p.SalePercent, p.SKU, p.CategoryID, p.StockQuantity,
		p.IsFeatured, p.IsActive, p.Weight, p.Dimensions,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("create product %q: %w", p.Slug, ErrConflict)
		}
		return nil, fmt.Errorf("insert product: %w", err)
	}

	if err := insertImages(ctx, tx, p.ID, p.Images); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit create product: %w", err)
	}
	return s.findAny(ctx, p.ID)
}

func insertImages(ctx context.Context, tx pgx.Tx, productID int64, images []models.ProductImage) error {
	for _, img := range images {
		_, err := tx.Exec(ctx, `
			INSERT INTO product_images (product_id, image_url, alt_text, is_primary, display_order)
			VALUES ($1, $2, $3, $4, $5)`,
			productID, img.ImageURL, img.AltText, img.IsPrimary, img.DisplayOrder,
		)
		if err != nil {
			return fmt.Errorf("insert product image: %w", err)
		}
	}
	return nil
}

// Update applique un patch explicite : chaque champ non-nil est mappé sur
// sa colonne. Le remplacement des images se fait dans la même transaction.
func (s *ProductStore) Update(ctx context.Context, id int64, patch models.ProductPatch) (*models.Product, error) {
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
	if patch.Description != nil {
		add("description", *patch.Description)
	}
	if patch.ShortDescription != nil {
		add("short_description", *patch.ShortDescription)
	}
	if patch.Price != nil {
		add("price", *patch.Price)
	}
	if patch.OldPrice != nil {
		add("old_price", *patch.OldPrice)
	}
	if patch.SalePercent != nil {
		add("sale_percent", *patch.SalePercent)
	}
	if patch.SKU != nil {
		add("sku", *patch.SKU)
	}
	if patch.CategoryID != nil {
		add("category_id", *patch.CategoryID)
	}
	if patch.StockQuantity != nil {
		add("stock_quantity", *patch.StockQuantity)
	}
	if patch.IsFeatured != nil {
		add("is_featured", *patch.IsFeatured)
	}
	if patch.IsActive != nil {
		add("is_active", *patch.IsActive)
	}
	if patch.Weight != nil {
		add("weight", *patch.Weight)
	}
	if patch.Dimensions != nil {
		add("dimensions", *patch.Dimensions)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin update product: %w", err)
	}
	defer tx.Rollback(ctx)

	if len(sets) > 0 {
		args = append(args, id)
		query := fmt.Sprintf(
			"UPDATE products SET %s, updated_at = now() WHERE id = $%d",
			strings.Join(sets, ", "), len(args),
		)
		tag, err := tx.Exec(ctx, query, args...)
		if err != nil {
			if isUniqueViolation(err) {
				return nil, fmt.Errorf("update product %d: %w", id, ErrConflict)
			}
			return nil, fmt.Errorf("update product: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return nil, ErrNotFound
		}
	}

	if patch.Images != nil {
		if _, err := tx.Exec(ctx, `DELETE FROM product_images WHERE product_id = $1`, id); err != nil {
			return nil, fmt.Errorf("replace product images: %w", err)
		}
		if err := insertImages(ctx, tx, id, *patch.Images); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit update product: %w", err)
	}
	return s.findAny(ctx, id)
}

// Delete supprime les images puis le produit, en transaction.
func (s *ProductStore) Delete(ctx context.Context, id int64) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin delete product: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM product_images WHERE product_id = $1`, id); err != nil {
		return fmt.Errorf("delete product images: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM products WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return tx.Commit(ctx)
}
