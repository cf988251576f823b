package entity

import "time"

// Funções válidas de um membro numa empresa, da maior para a menor.
const (
	RoleDono          = "Dono"
	RoleAdministrador = "Administrador"
	RoleGerente       = "Gerente"
	RoleOperador      = "Operador"
)

// RoleRank ordena as funções por privilégio. Valores maiores mandam mais.
var RoleRank = map[string]int{
	RoleDono:          4,
	RoleAdministrador: 3,
	RoleGerente:       2,
	RoleOperador:      1,
}

// ValidRole indica se o nome da função existe.
func ValidRole(role string) bool {
	_, ok := RoleRank[role]
	return ok
}

// User representa um utilizador do sistema. Um utilizador pode pertencer a
// várias empresas, cada uma com a sua função; Companies e CompanyIDs são
// materializados a partir da tabela memberships e mantêm o invariante
// chaves(Companies) == conjunto(CompanyIDs).
type User struct {
	UID             string
	Email           string
	DisplayName     string
	PasswordHash    string // bcrypt, nunca exposto fora do domínio
	Companies       map[string]string
	CompanyIDs      []string // ordenado por data de adesão
	ActiveCompanyID string   // vazio = nenhuma empresa ativa
	CreatedAt       time.Time
}

// RoleIn devolve a função do utilizador na empresa, ou vazio se não for membro.
func (u *User) RoleIn(companyID string) string {
	if u == nil || u.Companies == nil {
		return ""
	}
	return u.Companies[companyID]
}

// IsMemberOf indica se o utilizador pertence à empresa.
func (u *User) IsMemberOf(companyID string) bool {
	return u.RoleIn(companyID) != ""
}

// Actor devolve o snapshot do utilizador usado em movimentos e logs.
func (u *User) Actor() Actor {
	return Actor{UID: u.UID, DisplayName: u.DisplayName, Email: u.Email}
}

// Actor é o snapshot desnormalizado de quem executou uma ação. Fica gravado
// em movimentos e logs para que o histórico sobreviva a alterações ou
// remoção do utilizador.
type Actor struct {
	UID         string `json:"uid"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
}
