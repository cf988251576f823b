// Package memory implementa os portos de persistência sobre mapas em
// memória. Serve o modo de arranque sem PostgreSQL (STORE_DRIVER=memory)
// e os testes de aplicação, com a mesma semântica transacional do
// adaptador PostgreSQL: unidades todas-ou-nenhuma e escritas
// serializadas.
package memory

import (
	"context"
	"sync"

	"github.com/intellistock/api/internal/domain"
	"github.com/intellistock/api/internal/domain/entity"
	"github.com/intellistock/api/internal/domain/repository"
)

// Store guarda todo o estado num conjunto de mapas protegidos por mutex.
// Uma transação segura o mutex do princípio ao fim, por isso as unidades
// transacionais ficam serializadas e linearizáveis.
type Store struct {
	mu sync.Mutex
	d  data

	// failAfter injeta falhas de escrita: depois de failAfter escritas
	// bem-sucedidas, todas as seguintes devolvem ErrBackendUnavailable.
	// -1 desativa a injeção.
	failAfter int
}

type data struct {
	users     map[string]*entity.User
	companies map[string]*entity.Company
	products  map[string]*entity.Product
	suppliers map[string]*entity.Supplier
	movements []*entity.StockMovement
	invites   map[string]*entity.Invite
	logs      []*entity.ActivityLog
}

// NewStore cria um Store vazio.
func NewStore() *Store {
	return &Store{
		d: data{
			users:     make(map[string]*entity.User),
			companies: make(map[string]*entity.Company),
			products:  make(map[string]*entity.Product),
			suppliers: make(map[string]*entity.Supplier),
			invites:   make(map[string]*entity.Invite),
		},
		failAfter: -1,
	}
}

// FailAfterWrites faz as próximas n escritas terem sucesso e todas as
// seguintes falharem com ErrBackendUnavailable. Usado em testes para
// simular uma falha a meio de uma unidade transacional.
func (s *Store) FailAfterWrites(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failAfter = n
}

// HealWrites desativa a injeção de falhas.
func (s *Store) HealWrites() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failAfter = -1
}

// writeGate é chamado com o mutex seguro antes de cada escrita.
func (s *Store) writeGate() error {
	if s.failAfter < 0 {
		return nil
	}
	if s.failAfter == 0 {
		return domain.ErrBackendUnavailable
	}
	s.failAfter--
	return nil
}

// Run executa fn como transação: segura o mutex, tira um snapshot do
// estado e, se fn falhar, repõe-no. Nenhum efeito parcial fica visível.
func (s *Store) Run(ctx context.Context, fn func(r repository.Repos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.d.clone()
	err := fn(s.repos(true))
	if err != nil {
		s.d = snapshot
		return err
	}
	return nil
}

func (s *Store) repos(inTx bool) repository.Repos {
	return repository.Repos{
		Users:     &UserRepo{s: s, inTx: inTx},
		Companies: &CompanyRepo{s: s, inTx: inTx},
		Products:  &ProductRepo{s: s, inTx: inTx},
		Suppliers: &SupplierRepo{s: s, inTx: inTx},
		Movements: &StockMovementRepo{s: s, inTx: inTx},
		Invites:   &InviteRepo{s: s, inTx: inTx},
		Logs:      &ActivityLogRepo{s: s, inTx: inTx},
	}
}

// Repos devolve adaptadores autónomos (cada chamada segura o mutex).
func (s *Store) Repos() repository.Repos {
	return s.repos(false)
}

// lock segura o mutex quando o adaptador opera fora de transação.
func (s *Store) lock(inTx bool) func() {
	if inTx {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (d data) clone() data {
	c := data{
		users:     make(map[string]*entity.User, len(d.users)),
		companies: make(map[string]*entity.Company, len(d.companies)),
		products:  make(map[string]*entity.Product, len(d.products)),
		suppliers: make(map[string]*entity.Supplier, len(d.suppliers)),
		invites:   make(map[string]*entity.Invite, len(d.invites)),
		movements: append([]*entity.StockMovement(nil), d.movements...),
		logs:      append([]*entity.ActivityLog(nil), d.logs...),
	}
	for k, v := range d.users {
		c.users[k] = cloneUser(v)
	}
	for k, v := range d.companies {
		cp := *v
		c.companies[k] = &cp
	}
	for k, v := range d.products {
		cp := *v
		c.products[k] = &cp
	}
	for k, v := range d.suppliers {
		cp := *v
		c.suppliers[k] = &cp
	}
	for k, v := range d.invites {
		cp := *v
		c.invites[k] = &cp
	}
	return c
}

func cloneUser(u *entity.User) *entity.User {
	cp := *u
	cp.Companies = make(map[string]string, len(u.Companies))
	for k, v := range u.Companies {
		cp.Companies[k] = v
	}
	cp.CompanyIDs = append([]string(nil), u.CompanyIDs...)
	return &cp
}
