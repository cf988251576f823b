package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/intellistock/api/internal/application/dto"
	"github.com/intellistock/api/internal/domain"
	"github.com/intellistock/api/internal/domain/entity"
	"github.com/intellistock/api/internal/domain/policy"
	"github.com/intellistock/api/internal/domain/repository"
	"github.com/intellistock/api/internal/watch"
)

// ApplyStockMovement aplica uma movimentação de stock como unidade atómica:
// lê a quantidade atual com bloqueio de linha, calcula a nova, falha com
// ErrInsufficientStock se ficasse negativa (sem qualquer alteração), grava a
// quantidade e a movimentação na mesma transação. Movimentações concorrentes
// sobre o mesmo produto serializam no bloqueio: duas nunca observam a mesma
// quantidade prévia. O registo no log de atividades acontece depois do
// commit e é best-effort.
func (uc *UseCase) ApplyStockMovement(ctx context.Context, companyID, productID, movType string, quantityMoved int64, actor entity.Actor) error {
	if err := uc.requirePermission(actor, companyID, policy.PermMoveStock); err != nil {
		return err
	}
	if movType != entity.MovementEntrada && movType != entity.MovementSaida {
		return domain.ErrInvalidInput
	}
	if quantityMoved <= 0 {
		return domain.ErrInvalidInput
	}

	var productName string
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		product, err := r.Products.GetForUpdate(productID)
		if err != nil {
			return err
		}
		if product == nil || product.CompanyID != companyID {
			return domain.ErrNotFound
		}
		productName = product.Name

		newQuantity := product.Quantity + quantityMoved
		if movType == entity.MovementSaida {
			newQuantity = product.Quantity - quantityMoved
		}
		if newQuantity < 0 {
			return domain.ErrInsufficientStock
		}
		if err := r.Products.UpdateQuantity(product.ID, newQuantity); err != nil {
			return err
		}
		return r.Movements.Create(&entity.StockMovement{
			ID:            uuid.New().String(),
			CompanyID:     companyID,
			ProductID:     product.ID,
			Type:          movType,
			QuantityMoved: quantityMoved,
			Date:          time.Now(),
			ProductName:   productName,
			Actor:         actor,
		})
	})
	if err != nil {
		return err
	}

	uc.audit.Record(companyID, actor, entity.ActionMovimentarStock,
		fmt.Sprintf("Movimento de %s de %d unidade(s) no produto %q.", movType, quantityMoved, productName))
	uc.notify(companyID, watch.TopicProducts, watch.TopicMovements)
	return nil
}

// ApplyStockMovementFromRequest adapta o request HTTP a ApplyStockMovement.
func (uc *UseCase) ApplyStockMovementFromRequest(ctx context.Context, companyID string, in dto.StockMovementRequest, actor entity.Actor) error {
	return uc.ApplyStockMovement(ctx, companyID, in.ProductID, in.Type, in.QuantityMoved, actor)
}
