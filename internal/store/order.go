package store

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"mfhome_back_end/internal/models"
)

// OrderStore : persistance transactionnelle des commandes. La création
// écrit l'en-tête et toutes les lignes dans une seule transaction —
// aucune commande partielle n'est jamais visible.
type OrderStore struct {
	pool *pgxpool.Pool
}

func NewOrderStore(pool *pgxpool.Pool) *OrderStore {
	return &OrderStore{pool: pool}
}

const orderColumns = `id, order_number, session_id, customer_name, customer_email,
	customer_phone, customer_address, customer_city, notes,
	subtotal, shipping_fee, tax_amount, total_amount, status, created_at, updated_at`

func scanOrder(row pgx.Row, o *models.Order) error {
	return row.Scan(
		&o.ID, &o.OrderNumber, &o.SessionID, &o.CustomerName, &o.CustomerEmail,
		&o.CustomerPhone, &o.CustomerAddress, &o.CustomerCity, &o.Notes,
		&o.Subtotal, &o.ShippingFee, &o.TaxAmount, &o.TotalAmount, &o.Status,
		&o.CreatedAt, &o.UpdatedAt,
	)
}

// Create persiste une commande assemblée : en-tête puis chaque ligne, dans
// une transaction. Toute erreur (y compris collision du numéro de commande)
// annule le tout. Collision → ErrConflict, réessayable par l'appelant.
func (s *OrderStore) Create(ctx context.Context, o *models.Order) (*models.Order, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin create order: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO orders (order_number, session_id, customer_name, customer_email,
			customer_phone, customer_address, customer_city, notes,
			subtotal, shipping_fee, tax_amount, total_amount, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at, updated_at`,
		o.OrderNumber, o.SessionID, o.CustomerName, o.CustomerEmail,
		o.CustomerPhone, o.CustomerAddress, o.CustomerCity, o.Notes,
		o.Subtotal, o.ShippingFee, o.TaxAmount, o.TotalAmount, o.Status,
	).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("numéro de commande %q: %w", o.OrderNumber, ErrConflict)
		}
		return nil, fmt.Errorf("insert order: %w", err)
	}

	for i := range o.Items {
		it := &o.Items[i]
		it.OrderID = o.ID
		err := tx.QueryRow(ctx, `
			INSERT INTO order_items (order_id, product_id, product_name, quantity, unit_price, total_price)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id`,
			it.OrderID, it.ProductID, it.ProductName, it.Quantity, it.UnitPrice, it.TotalPrice,
		).Scan(&it.ID)
		if err != nil {
			return nil, fmt.Errorf("insert order item %q: %w", it.ProductName, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit create order: %w", err)
	}
	return o, nil
}

// FindByOrderNumber renvoie l'en-tête et toutes les lignes, ou ErrNotFound.
func (s *OrderStore) FindByOrderNumber(ctx context.Context, orderNumber string) (*models.Order, error) {
	return s.findOne(ctx, "order_number = $1", orderNumber)
}

func (s *OrderStore) FindByID(ctx context.Context, id int64) (*models.Order, error) {
	return s.findOne(ctx, "id = $1", id)
}

func (s *OrderStore) findOne(ctx context.Context, cond string, arg any) (*models.Order, error) {
	var o models.Order
	err := scanOrder(s.pool.QueryRow(ctx,
		fmt.Sprintf("SELECT %s FROM orders WHERE %s", orderColumns, cond), arg), &o)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find order: %w", err)
	}

	items, err := s.loadItems(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return &o, nil
}

func (s *OrderStore) loadItems(ctx context.Context, orderID int64) ([]models.OrderItem, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, order_id, product_id, product_name, quantity, unit_price, total_price
		FROM order_items WHERE order_id = $1 ORDER BY id`,
		orderID,
	)
	if err != nil {
		return nil, fmt.Errorf("load order items: %w", err)
	}
	defer rows.Close()

	items := []models.OrderItem{}
	for rows.Next() {
		var it models.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.ProductName,
			&it.Quantity, &it.UnitPrice, &it.TotalPrice); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// FindBySession renvoie les commandes d'une session invitée, les plus
// récentes d'abord, avec leurs lignes.
func (s *OrderStore) FindBySession(ctx context.Context, sessionID string) ([]models.Order, error) {
	rows, err := s.pool.Query(ctx,
		fmt.Sprintf("SELECT %s FROM orders WHERE session_id = $1 ORDER BY created_at DESC", orderColumns),
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("orders by session: %w", err)
	}
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		var o models.Order
		if err := scanOrder(rows, &o); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range orders {
		items, err := s.loadItems(ctx, orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Items = items
	}
	return orders, nil
}

// OrderListOptions : filtres de la liste admin.
type OrderListOptions struct {
	Page   int
	Limit  int
	Status *models.OrderStatus
	Query  string
}

// searchPatterns construit les deux motifs d'une recherche texte libre :
// le motif brut pour les colonnes comparées telles quelles (numéro de
// commande en majuscules, téléphone) — LIKE est sensible à la casse — et le
// motif minuscule pour les colonnes passées par LOWER() (nom, email).
func searchPatterns(query string) (raw, lowered string) {
	return "%" + query + "%", "%" + strings.ToLower(query) + "%"
}

// List : liste paginée avec filtre statut et recherche texte libre
// (numéro de commande en sous-chaîne, nom/email client insensibles à la
// casse). Les plus récentes d'abord.
func (s *OrderStore) List(ctx context.Context, opts OrderListOptions) ([]models.Order, int64, error) {
	where := []string{"TRUE"}
	args := []any{}

	if opts.Status != nil {
		args = append(args, *opts.Status)
		where = append(where, fmt.Sprintf("o.status = $%d", len(args)))
	}
	if opts.Query != "" {
		raw, lowered := searchPatterns(opts.Query)
		args = append(args, raw)
		rawN := len(args)
		args = append(args, lowered)
		lowN := len(args)
		where = append(where, fmt.Sprintf(
			"(o.order_number LIKE $%d OR LOWER(o.customer_name) LIKE $%d OR LOWER(o.customer_email) LIKE $%d)",
			rawN, lowN, lowN))
	}
	cond := strings.Join(where, " AND ")

	var total int64
	if err := s.pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM orders o WHERE "+cond, args...,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}

	args = append(args, opts.Limit, (opts.Page-1)*opts.Limit)
	query := fmt.Sprintf(`
		SELECT o.id, o.order_number, o.session_id, o.customer_name, o.customer_email,
		       o.customer_phone, o.customer_address, o.customer_city, o.notes,
		       o.subtotal, o.shipping_fee, o.tax_amount, o.total_amount, o.status,
		       o.created_at, o.updated_at,
		       COUNT(oi.id) AS items_count,
		       COALESCE(STRING_AGG(oi.product_name, ', ' ORDER BY oi.id), '') AS product_names
		FROM orders o
		LEFT JOIN order_items oi ON o.id = oi.order_id
		WHERE %s
		GROUP BY o.id
		ORDER BY o.created_at DESC
		LIMIT $%d OFFSET $%d`, cond, len(args)-1, len(args))

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		var o models.Order
		if err := rows.Scan(
			&o.ID, &o.OrderNumber, &o.SessionID, &o.CustomerName, &o.CustomerEmail,
			&o.CustomerPhone, &o.CustomerAddress, &o.CustomerCity, &o.Notes,
			&o.Subtotal, &o.ShippingFee, &o.TaxAmount, &o.TotalAmount, &o.Status,
			&o.CreatedAt, &o.UpdatedAt, &o.ItemsCount, &o.ProductNames,
		); err != nil {
			return nil, 0, fmt.Errorf("scan order row: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	for i := range orders {
		items, err := s.loadItems(ctx, orders[i].ID)
		if err != nil {
			return nil, 0, err
		}
		orders[i].Items = items
	}
	return orders, total, nil
}

// SearchByCustomer : recherche admin par nom, email ou téléphone.
func (s *OrderStore) SearchByCustomer(ctx context.Context, query string, page, limit int) ([]models.Order, int64, error) {
	raw, lowered := searchPatterns(query)

	var total int64
	err := s.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM orders
		WHERE LOWER(customer_name) LIKE $1 OR LOWER(customer_email) LIKE $1 OR customer_phone LIKE $2`,
		lowered, raw,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count customer search: %w", err)
	}

	rows, err := s.pool.Query(ctx, fmt.Sprintf(`
		SELECT %s FROM orders
		WHERE LOWER(customer_name) LIKE $1 OR LOWER(customer_email) LIKE $1 OR customer_phone LIKE $2
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4`, orderColumns),
		lowered, raw, limit, (page-1)*limit,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("customer search: %w", err)
	}
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		var o models.Order
		if err := scanOrder(rows, &o); err != nil {
			return nil, 0, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, o)
	}
	return orders, total, rows.Err()
}

// UpdateStatus écrit le nouveau statut et updated_at, rien d'autre : le
// snapshot financier reste figé. La validité du statut est vérifiée à la
// frontière ; les transitions entre statuts reconnus sont libres, y compris
// en arrière — choix assumé pour laisser le staff corriger une erreur.
func (s *OrderStore) UpdateStatus(ctx context.Context, id int64, status models.OrderStatus) (*models.Order, error) {
	tag, err := s.pool.Exec(ctx,
		`UPDATE orders SET status = $1, updated_at = now() WHERE id = $2`,
		status, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrNotFound
	}
	return s.FindByID(ctx, id)
}

// Delete : outillage admin uniquement. Lignes puis en-tête, en transaction.
func (s *OrderStore) Delete(ctx context.Context, id int64) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin delete order: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM order_items WHERE order_id = $1`, id); err != nil {
		return fmt.Errorf("delete order items: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	return tx.Commit(ctx)
}

// DashboardStats agrège les statistiques admin. Chaque sous-requête qui
// échoue est loggée et dégradée à zéro — une statistique manquante ne doit
// pas faire tomber tout le tableau de bord.
func (s *OrderStore) DashboardStats(ctx context.Context) models.DashboardStats {
	stats := models.DashboardStats{
		TotalRevenue: decimal.Zero,
		RecentOrders: []models.Order{},
		TopProducts:  []models.TopProduct{},
	}

	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM orders`).Scan(&stats.TotalOrders); err != nil {
		log.Println("⚠️  Stat total_orders indisponible:", err)
	}
	if err := s.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(total_amount), 0) FROM orders WHERE status = 'delivered'`,
	).Scan(&stats.TotalRevenue); err != nil {
		log.Println("⚠️  Stat total_revenue indisponible:", err)
	}
	if err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM orders WHERE status = 'pending'`,
	).Scan(&stats.PendingOrders); err != nil {
		log.Println("⚠️  Stat pending_orders indisponible:", err)
	}
	if err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM orders WHERE created_at::date = CURRENT_DATE`,
	).Scan(&stats.TodayOrders); err != nil {
		log.Println("⚠️  Stat today_orders indisponible:", err)
	}

	recent, err := s.pool.Query(ctx, fmt.Sprintf(
		"SELECT %s FROM orders ORDER BY created_at DESC LIMIT 5", orderColumns))
	if err != nil {
		log.Println("⚠️  Stat recent_orders indisponible:", err)
	} else {
		defer recent.Close()
		for recent.Next() {
			var o models.Order
			if err := scanOrder(recent, &o); err != nil {
				log.Println("⚠️  Scan recent_orders:", err)
				break
			}
			stats.RecentOrders = append(stats.RecentOrders, o)
		}
	}

	top, err := s.pool.Query(ctx, `
		SELECT oi.product_name, SUM(oi.quantity), COALESCE(SUM(oi.total_price), 0)
		FROM order_items oi
		JOIN orders o ON oi.order_id = o.id
		WHERE o.status != 'cancelled'
		GROUP BY oi.product_name
		ORDER BY SUM(oi.quantity) DESC
		LIMIT 5`,
	)
	if err != nil {
		log.Println("⚠️  Stat top_products indisponible:", err)
	} else {
		defer top.Close()
		for top.Next() {
			var tp models.TopProduct
			if err := top.Scan(&tp.Name, &tp.TotalQuantity, &tp.TotalRevenue); err != nil {
				log.Println("⚠️  Scan top_products:", err)
				break
			}
			stats.TopProducts = append(stats.TopProducts, tp)
		}
	}

	return stats
}
