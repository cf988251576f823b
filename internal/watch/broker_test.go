package watch_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intellistock/api/internal/watch"
)

// recv lê a próxima revisão ou falha por timeout.
func recv(t *testing.T, c <-chan uint64) uint64 {
	t.Helper()
	select {
	case rev, ok := <-c:
		require.True(t, ok, "o canal não devia estar fechado")
		return rev
	case <-time.After(time.Second):
		t.Fatal("timeout à espera de uma revisão")
		return 0
	}
}

func TestSubscribe_EntregaRevisaoAtualDeImediato(t *testing.T) {
	b := watch.NewBroker()
	b.Notify("empresa-1", watch.TopicProducts)
	b.Notify("empresa-1", watch.TopicProducts)

	sub := b.Subscribe("empresa-1", watch.TopicProducts)
	defer sub.Unsubscribe()

	assert.Equal(t, uint64(2), recv(t, sub.C),
		"o subscritor novo recebe logo a revisão atual para consultar o primeiro snapshot")
}

func TestNotify_RevisoesMonotonas(t *testing.T) {
	b := watch.NewBroker()
	sub := b.Subscribe("empresa-1", watch.TopicProducts)
	defer sub.Unsubscribe()

	last := recv(t, sub.C)
	for i := 0; i < 5; i++ {
		b.Notify("empresa-1", watch.TopicProducts)
		rev := recv(t, sub.C)
		assert.Greater(t, rev, last, "as revisões nunca andam para trás")
		last = rev
	}
}

func TestNotify_CoalesceNuncaPerdeAMaisRecente(t *testing.T) {
	b := watch.NewBroker()
	sub := b.Subscribe("empresa-1", watch.TopicLogs)
	defer sub.Unsubscribe()
	recv(t, sub.C)

	// Sem consumir, várias escritas seguidas: as intermédias podem ser
	// coalescidas mas a última tem de chegar.
	for i := 0; i < 10; i++ {
		b.Notify("empresa-1", watch.TopicLogs)
	}
	assert.Equal(t, uint64(10), recv(t, sub.C))
}

func TestNotify_IsolamentoPorEmpresaETopico(t *testing.T) {
	b := watch.NewBroker()
	subA := b.Subscribe("empresa-a", watch.TopicProducts)
	defer subA.Unsubscribe()
	subB := b.Subscribe("empresa-b", watch.TopicProducts)
	defer subB.Unsubscribe()
	recv(t, subA.C)
	recv(t, subB.C)

	b.Notify("empresa-a", watch.TopicProducts)
	assert.Equal(t, uint64(1), recv(t, subA.C))

	select {
	case rev := <-subB.C:
		t.Fatalf("a empresa-b não devia ter recebido nada, recebeu %d", rev)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestUnsubscribe_Idempotente(t *testing.T) {
	b := watch.NewBroker()
	sub := b.Subscribe("empresa-1", watch.TopicUsers)

	sub.Unsubscribe()
	assert.NotPanics(t, func() {
		sub.Unsubscribe()
		sub.Unsubscribe()
	}, "Unsubscribe repetido é inofensivo")

	// Depois do cancelamento o canal fecha.
	_, ok := <-sub.C
	assert.False(t, ok)

	// E escritas posteriores não entregam nada nem bloqueiam.
	b.Notify("empresa-1", watch.TopicUsers)
}

func TestBroker_NotifyConcorrenteNaoBloqueia(t *testing.T) {
	b := watch.NewBroker()
	sub := b.Subscribe("empresa-1", watch.TopicMovements)
	defer sub.Unsubscribe()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				b.Notify("empresa-1", watch.TopicMovements)
			}
		}()
	}
	wg.Wait()

	// A revisão final tem de acabar por chegar ao subscritor.
	var last uint64
	deadline := time.After(time.Second)
	for last != 800 {
		select {
		case rev := <-sub.C:
			assert.GreaterOrEqual(t, rev, last)
			last = rev
		case <-deadline:
			t.Fatalf("revisão final não chegou, última vista: %d", last)
		}
	}
}
