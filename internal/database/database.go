package database

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/golang-migrate/migrate/v4"
	pgxmigrate "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// DB regroupe les connexions persistantes du processus. Construit une seule
// fois au démarrage et injecté dans les stores — pas de handle global.
type DB struct {
	Pool  *pgxpool.Pool
	Redis *redis.Client
	dsn   string
}

// Connect ouvre le pool Postgres et le client Redis, et vérifie les deux.
func Connect(ctx context.Context) (*DB, error) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		return nil, fmt.Errorf("DATABASE_URL manquant dans l'environnement")
	}

	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("configuration Postgres invalide: %w", err)
	}
	cfg.MaxConns = 20
	cfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("erreur ouverture pool Postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("erreur ping Postgres: %w", err)
	}
	log.Println("✅ Connecté à Postgres")

	rdb := redis.NewClient(&redis.Options{
		Addr:     os.Getenv("REDIS_HOST"),
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		pool.Close()
		return nil, fmt.Errorf("erreur connexion Redis: %w", err)
	}
	log.Println("✅ Connecté à Redis")

	return &DB{Pool: pool, Redis: rdb, dsn: dsn}, nil
}

// Migrate applique les migrations embarquées. Idempotent : ne rien faire
// est un succès.
func (db *DB) Migrate() error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("erreur lecture migrations embarquées: %w", err)
	}

	sqlDB, err := sql.Open("pgx", db.dsn)
	if err != nil {
		return fmt.Errorf("erreur ouverture connexion migration: %w", err)
	}
	defer sqlDB.Close()

	driver, err := pgxmigrate.WithInstance(sqlDB, &pgxmigrate.Config{
		MigrationsTable: "schema_migrations",
	})
	if err != nil {
		return fmt.Errorf("erreur création driver migration: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "pgx5", driver)
	if err != nil {
		return fmt.Errorf("erreur initialisation migrate: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("erreur application migrations: %w", err)
	}
	log.Println("✅ Schéma de base de données à jour")
	return nil
}

// Close libère toutes les connexions. Appelé à l'arrêt du serveur.
func (db *DB) Close() {
	db.Pool.Close()
	if err := db.Redis.Close(); err != nil {
		log.Println("⚠️  Erreur fermeture Redis:", err)
	}
	log.Println("🔌 Connexions base de données fermées")
}
