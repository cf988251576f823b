// Package watch implementa o barramento de atualizações em tempo real.
// Cada escrita confirmada publica uma nova revisão por (âmbito, tópico).
// O âmbito é normalmente o ID da empresa; para os convites pendentes de um
// destinatário ainda sem adesão à empresa é o email dele.
// Os subscritores reconsultam o conjunto completo a cada revisão, nunca
// recebem deltas. As revisões são monótonas: um subscritor nunca observa
// um estado mais antigo do que um já entregue.
package watch

import "sync"

// Tópicos publicáveis.
const (
	TopicProducts  = "products"
	TopicSuppliers = "suppliers"
	TopicMovements = "stock_movements"
	TopicLogs      = "logs"
	TopicUsers     = "users"
	TopicInvites   = "invites"
)

type topicKey struct {
	scope string
	topic     string
}

// Broker distribui revisões a subscritores em processo.
type Broker struct {
	mu   sync.Mutex
	revs map[topicKey]uint64
	subs map[topicKey]map[*Subscription]struct{}
}

// NewBroker cria um broker vazio.
func NewBroker() *Broker {
	return &Broker{
		revs: make(map[topicKey]uint64),
		subs: make(map[topicKey]map[*Subscription]struct{}),
	}
}

// Subscription é uma subscrição ativa. C entrega revisões crescentes;
// revisões intermédias podem ser coalescidas, a mais recente nunca se perde.
type Subscription struct {
	C <-chan uint64

	broker *Broker
	key    topicKey
	ch     chan uint64
	once   sync.Once
}

// Subscribe regista um subscritor para (âmbito, tópico) e entrega de
// imediato a revisão atual, para que o primeiro snapshot seja consultado
// sem esperar por uma escrita.
func (b *Broker) Subscribe(scope, topic string) *Subscription {
	key := topicKey{scope: scope, topic: topic}
	ch := make(chan uint64, 1)
	s := &Subscription{C: ch, broker: b, key: key, ch: ch}

	b.mu.Lock()
	if b.subs[key] == nil {
		b.subs[key] = make(map[*Subscription]struct{})
	}
	b.subs[key][s] = struct{}{}
	rev := b.revs[key]
	b.mu.Unlock()

	ch <- rev
	return s
}

// Unsubscribe cancela a subscrição e fecha o canal. Idempotente.
func (s *Subscription) Unsubscribe() {
	s.once.Do(func() {
		s.broker.mu.Lock()
		if set, ok := s.broker.subs[s.key]; ok {
			delete(set, s)
			if len(set) == 0 {
				delete(s.broker.subs, s.key)
			}
		}
		s.broker.mu.Unlock()
		close(s.ch)
	})
}

// Notify incrementa a revisão de (âmbito, tópico) e acorda os
// subscritores. O envio nunca bloqueia: se o canal já tem uma revisão por
// consumir, substitui-a pela mais recente.
func (b *Broker) Notify(scope, topic string) {
	key := topicKey{scope: scope, topic: topic}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.revs[key]++
	rev := b.revs[key]
	for s := range b.subs[key] {
		select {
		case s.ch <- rev:
		default:
			select {
			case <-s.ch:
			default:
			}
			select {
			case s.ch <- rev:
			default:
			}
		}
	}
}

// Revision devolve a revisão atual de (âmbito, tópico).
func (b *Broker) Revision(scope, topic string) uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.revs[topicKey{scope: scope, topic: topic}]
}
