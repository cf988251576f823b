package http

import (
	"github.com/intellistock/api/internal/application/dto"
	"github.com/intellistock/api/internal/domain/entity"
)

func toProductResponse(p *entity.Product) dto.ProductResponse {
	return dto.ProductResponse{
		ID:           p.ID,
		Name:         p.Name,
		SKU:          p.SKU,
		Quantity:     p.Quantity,
		CostPrice:    p.CostPrice,
		SupplierID:   p.SupplierID,
		SupplierName: p.SupplierName,
		CreatedAt:    p.CreatedAt,
	}
}

func toProductResponses(list []*entity.Product) []dto.ProductResponse {
	out := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		out = append(out, toProductResponse(p))
	}
	return out
}

func toSupplierResponse(s *entity.Supplier) dto.SupplierResponse {
	return dto.SupplierResponse{
		ID:        s.ID,
		Name:      s.Name,
		Contact:   s.Contact,
		Phone:     s.Phone,
		CreatedAt: s.CreatedAt,
	}
}

func toSupplierResponses(list []*entity.Supplier) []dto.SupplierResponse {
	out := make([]dto.SupplierResponse, 0, len(list))
	for _, s := range list {
		out = append(out, toSupplierResponse(s))
	}
	return out
}

func toMovementResponses(list []*entity.StockMovement) []dto.StockMovementResponse {
	out := make([]dto.StockMovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, dto.StockMovementResponse{
			ID:            m.ID,
			ProductID:     m.ProductID,
			Type:          m.Type,
			QuantityMoved: m.QuantityMoved,
			Date:          m.Date,
			ProductName:   m.ProductName,
			User:          m.Actor,
		})
	}
	return out
}

func toCompanyResponse(co *entity.Company) dto.CompanyResponse {
	return dto.CompanyResponse{
		ID:      co.ID,
		Name:    co.Name,
		CNPJ:    co.CNPJ,
		OwnerID: co.OwnerID,
	}
}

func toInviteResponse(i *entity.Invite) dto.InviteResponse {
	return dto.InviteResponse{
		ID:          i.ID,
		CompanyID:   i.CompanyID,
		CompanyName: i.CompanyName,
		Email:       i.Email,
		DisplayName: i.DisplayName,
		Role:        i.Role,
		CreatedAt:   i.CreatedAt,
	}
}

func toInviteResponses(list []*entity.Invite) []dto.InviteResponse {
	out := make([]dto.InviteResponse, 0, len(list))
	for _, i := range list {
		out = append(out, toInviteResponse(i))
	}
	return out
}

func toMemberResponses(companyID string, list []*entity.User) []dto.MemberResponse {
	out := make([]dto.MemberResponse, 0, len(list))
	for _, u := range list {
		out = append(out, dto.MemberResponse{
			UID:         u.UID,
			Email:       u.Email,
			DisplayName: u.DisplayName,
			Role:        u.RoleIn(companyID),
		})
	}
	return out
}

func toLogResponses(list []*entity.ActivityLog) []dto.ActivityLogResponse {
	out := make([]dto.ActivityLogResponse, 0, len(list))
	for _, l := range list {
		out = append(out, dto.ActivityLogResponse{
			ID:        l.ID,
			Action:    l.Action,
			Details:   l.Details,
			Timestamp: l.Timestamp,
			UserName:  l.Actor.DisplayName,
			UserEmail: l.Actor.Email,
		})
	}
	return out
}
