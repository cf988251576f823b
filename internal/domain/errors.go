package domain

import "errors"

// Erros de domínio (sem dependências externas).
var (
	ErrNotFound           = errors.New("recurso não encontrado")
	ErrUserNotFound       = errors.New("utilizador não encontrado")
	ErrEmailAlreadyExists = errors.New("o email já está registado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrUnauthorized       = errors.New("não autorizado")
	ErrForbidden          = errors.New("acesso negado")
	ErrInsufficientStock  = errors.New("stock insuficiente")
	ErrDuplicateInvite    = errors.New("já existe um convite pendente para este email nesta empresa")
	ErrAlreadyMember      = errors.New("este email já pertence a um membro da empresa")
	ErrInviteNotFound     = errors.New("convite não encontrado")
	ErrCannotRemoveOwner  = errors.New("o dono da empresa não pode ser removido")
	ErrBackendUnavailable = errors.New("serviço de dados indisponível")
)
