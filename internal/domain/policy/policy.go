// Package policy define a política de autorização por função. É uma tabela
// estática pura: os motores aplicam-na antes de qualquer mutação, o
// middleware HTTP apenas a antecipa.
package policy

import (
	"github.com/intellistock/api/internal/domain"
	"github.com/intellistock/api/internal/domain/entity"
)

// Permissões verificáveis contra uma função.
const (
	PermViewProducts  = "view_products"  // dashboard, produtos, movimentos
	PermMoveStock     = "move_stock"     // criar produto e movimentar stock
	PermEditProducts  = "edit_products"  // editar/apagar produto, gerir fornecedores
	PermViewLogs      = "view_logs"      // log de atividades
	PermManageUsers   = "manage_users"   // convites, remoção, alteração de função
	PermManageCompany = "manage_company" // transferir, apagar, editar definições
)

// minRank é a função mínima exigida por permissão.
var minRank = map[string]int{
	PermViewProducts:  entity.RoleRank[entity.RoleOperador],
	PermMoveStock:     entity.RoleRank[entity.RoleOperador],
	PermEditProducts:  entity.RoleRank[entity.RoleGerente],
	PermViewLogs:      entity.RoleRank[entity.RoleGerente],
	PermManageUsers:   entity.RoleRank[entity.RoleAdministrador],
	PermManageCompany: entity.RoleRank[entity.RoleDono],
}

// Allows indica se a função pode executar a permissão.
func Allows(role, permission string) bool {
	min, ok := minRank[permission]
	if !ok {
		return false
	}
	return entity.RoleRank[role] >= min
}

// AssignableRole indica se o ator pode atribuir a função indicada num
// convite ou alteração de função. Dono nunca é atribuível (só por
// transferência de propriedade); Administrador só é atribuível pelo Dono.
func AssignableRole(actorRole, role string) bool {
	if !entity.ValidRole(role) || role == entity.RoleDono {
		return false
	}
	if role == entity.RoleAdministrador {
		return actorRole == entity.RoleDono
	}
	return Allows(actorRole, PermManageUsers)
}

// CanChangeRole valida uma alteração de função pelo caminho normal de
// edição. Regras: o ator precisa de gerir utilizadores, nunca altera a
// própria função, nunca mexe na função do Dono e nunca atribui Dono.
func CanChangeRole(actorRole, actorUID, targetUID, targetRole, newRole string) error {
	if !Allows(actorRole, PermManageUsers) {
		return domain.ErrForbidden
	}
	if actorUID == targetUID {
		return domain.ErrForbidden
	}
	if targetRole == entity.RoleDono {
		return domain.ErrForbidden
	}
	if !AssignableRole(actorRole, newRole) {
		return domain.ErrForbidden
	}
	return nil
}
