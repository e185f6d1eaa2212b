package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	activity "github.com/rmehta2304/warehouse-order-system/internal/activity/domain"
	"github.com/rmehta2304/warehouse-order-system/internal/catalog/domain"
)

const uniqueViolation = "23505"

type ProductRepository struct {
	log  *slog.Logger
	pool *pgxpool.Pool
}

func NewProductRepository(log *slog.Logger, pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{log: log, pool: pool}
}

func (r *ProductRepository) Create(ctx context.Context, p domain.Product) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	_, err = tx.Exec(ctx, `
		INSERT INTO products (id, code, name, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5)
	`, p.ID, p.Code, p.Name, p.CreatedAt, p.UpdatedAt)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return domain.ErrDuplicateProductCode
	}
	if err != nil {
		return err
	}

	desc := fmt.Sprintf("New Product %s (%s)", p.Name, p.Code)
	if _, err := tx.Exec(ctx, `
		INSERT INTO activity_log (action, description, status) VALUES ($1,$2,'pending')
	`, activity.ActionProductCreated, desc); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *ProductRepository) Get(ctx context.Context, id string) (domain.Product, error) {
	return r.scanOne(ctx, `SELECT id, code, name, created_at, updated_at FROM products WHERE id=$1`, id)
}

func (r *ProductRepository) FindByCode(ctx context.Context, code string) (domain.Product, error) {
	return r.scanOne(ctx, `SELECT id, code, name, created_at, updated_at FROM products WHERE code=$1`, code)
}

func (r *ProductRepository) scanOne(ctx context.Context, query, arg string) (domain.Product, error) {
	var p domain.Product
	err := r.pool.QueryRow(ctx, query, arg).Scan(&p.ID, &p.Code, &p.Name, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Product{}, domain.ErrProductNotFound
	}
	if err != nil {
		return domain.Product{}, err
	}
	return p, nil
}

func (r *ProductRepository) List(ctx context.Context) ([]domain.Product, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, code, name, created_at, updated_at FROM products ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Code, &p.Name, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *ProductRepository) Update(ctx context.Context, p domain.Product) error {
	ct, err := r.pool.Exec(ctx, `
		UPDATE products SET code=$2, name=$3, updated_at=$4 WHERE id=$1
	`, p.ID, p.Code, p.Name, p.UpdatedAt)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return domain.ErrDuplicateProductCode
	}
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

type CustomerRepository struct {
	log  *slog.Logger
	pool *pgxpool.Pool
}

func NewCustomerRepository(log *slog.Logger, pool *pgxpool.Pool) *CustomerRepository {
	return &CustomerRepository{log: log, pool: pool}
}

func (r *CustomerRepository) Create(ctx context.Context, c domain.Customer) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO customers (id, name, region, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5)
	`, c.ID, c.Name, c.Region, c.CreatedAt, c.UpdatedAt)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return domain.ErrDuplicateCustomerName
	}
	return err
}

func (r *CustomerRepository) Get(ctx context.Context, id string) (domain.Customer, error) {
	return r.scanOne(ctx, `SELECT id, name, region, created_at, updated_at FROM customers WHERE id=$1`, id)
}

func (r *CustomerRepository) FindByName(ctx context.Context, name string) (domain.Customer, error) {
	return r.scanOne(ctx, `SELECT id, name, region, created_at, updated_at FROM customers WHERE name=$1`, name)
}

func (r *CustomerRepository) scanOne(ctx context.Context, query, arg string) (domain.Customer, error) {
	var c domain.Customer
	err := r.pool.QueryRow(ctx, query, arg).Scan(&c.ID, &c.Name, &c.Region, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Customer{}, domain.ErrCustomerNotFound
	}
	if err != nil {
		return domain.Customer{}, err
	}
	return c, nil
}

func (r *CustomerRepository) List(ctx context.Context) ([]domain.Customer, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, region, created_at, updated_at FROM customers ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Customer
	for rows.Next() {
		var c domain.Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.Region, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *CustomerRepository) Update(ctx context.Context, c domain.Customer) error {
	ct, err := r.pool.Exec(ctx, `
		UPDATE customers SET name=$2, region=$3, updated_at=$4 WHERE id=$1
	`, c.ID, c.Name, c.Region, c.UpdatedAt)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return domain.ErrDuplicateCustomerName
	}
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrCustomerNotFound
	}
	return nil
}

func (r *CustomerRepository) Delete(ctx context.Context, id string) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM customers WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrCustomerNotFound
	}
	return nil
}
