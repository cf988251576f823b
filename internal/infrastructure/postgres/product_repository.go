package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/intellistock/api/internal/domain/entity"
	"github.com/intellistock/api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, company_id, name, sku, quantity, cost_price, supplier_id, supplier_name, created_at`

// ProductRepo implementação do porto ProductRepository sobre PostgreSQL.
type ProductRepo struct {
	q Querier
}

// NewProductRepository constrói o adaptador de produtos. Aceita pool ou tx.
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste um produto novo.
func (r *ProductRepo) Create(product *entity.Product) error {
	query := `
		INSERT INTO products (id, company_id, name, sku, quantity, cost_price, supplier_id, supplier_name, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		product.ID, product.CompanyID, product.Name, product.SKU, product.Quantity,
		product.CostPrice, product.SupplierID, product.SupplierName, product.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtém um produto por ID.
func (r *ProductRepo) GetByID(id string) (*entity.Product, error) {
	return r.scanOne(`SELECT `+productColumns+` FROM products WHERE id = $1`, id)
}

// GetForUpdate obtém o produto bloqueando a linha (SELECT FOR UPDATE) até
// ao fim da transação; é este bloqueio que serializa movimentações
// concorrentes sobre o mesmo produto.
func (r *ProductRepo) GetForUpdate(id string) (*entity.Product, error) {
	return r.scanOne(`SELECT `+productColumns+` FROM products WHERE id = $1 FOR UPDATE`, id)
}

func (r *ProductRepo) scanOne(query, id string) (*entity.Product, error) {
	var p entity.Product
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&p.ID, &p.CompanyID, &p.Name, &p.SKU, &p.Quantity,
		&p.CostPrice, &p.SupplierID, &p.SupplierName, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &p, nil
}

// Update substitui os campos editáveis do produto (a quantidade não).
func (r *ProductRepo) Update(product *entity.Product) error {
	query := `
		UPDATE products SET name = $2, sku = $3, cost_price = $4, supplier_id = $5, supplier_name = $6
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		product.ID, product.Name, product.SKU, product.CostPrice, product.SupplierID, product.SupplierName)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

// UpdateQuantity grava a nova quantidade do produto.
func (r *ProductRepo) UpdateQuantity(id string, quantity int64) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE products SET quantity = $2 WHERE id = $1`, id, quantity)
	if err != nil {
		return fmt.Errorf("update quantity: %w", err)
	}
	return nil
}

// Delete apaga o produto. As movimentações históricas ficam intactas.
func (r *ProductRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}

// ListByCompany lista os produtos da empresa.
func (r *ProductRepo) ListByCompany(companyID string) ([]*entity.Product, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT `+productColumns+` FROM products WHERE company_id = $1 ORDER BY created_at DESC`, companyID)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		var p entity.Product
		if err := rows.Scan(&p.ID, &p.CompanyID, &p.Name, &p.SKU, &p.Quantity,
			&p.CostPrice, &p.SupplierID, &p.SupplierName, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}
