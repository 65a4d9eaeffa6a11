// Package pacingcache guarda, em memória e por processo, resultados de consultas de pacing com TTL.
//
// O TTL é avaliado na leitura, não por expiração do armazenamento: uma entrada vencida continua
// disponível para ser devolvida como STALE quando a nova busca falha, até ser sobrescrita por uma
// busca bem-sucedida. Não há limite de capacidade nem coalescência de buscas concorrentes.
package pacingcache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/vfg2006/media-pacing-api/pkg/metrics"
)

type State string

const (
	StateHit   State = "HIT"
	StateMiss  State = "MISS"
	StateStale State = "STALE"
)

// Result é o valor devolvido por GetOrFetch. StaleErr só é preenchido no estado STALE.
type Result[T any] struct {
	Value     T
	State     State
	StaleErr  error
	CreatedAt time.Time
}

type entry struct {
	value     any
	createdAt time.Time
}

type Cache struct {
	store   *gocache.Cache
	now     func() time.Time
	metrics *metrics.Metrics
}

type Option func(*Cache)

func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		c.now = now
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Cache) {
		c.metrics = m
	}
}

func New(opts ...Option) *Cache {
	c := &Cache{
		// sem expiração e sem janitor: o TTL é decidido em GetOrFetch
		store: gocache.New(gocache.NoExpiration, 0),
		now:   time.Now,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Store grava o valor com createdAt = agora, substituindo qualquer entrada anterior
func (c *Cache) Store(key string, value any) {
	c.store.Set(key, entry{value: value, createdAt: c.now()}, gocache.NoExpiration)
}

// Len devolve o número de chaves armazenadas, vencidas ou não
func (c *Cache) Len() int {
	return c.store.ItemCount()
}

func (c *Cache) lookup(key string) (entry, bool) {
	raw, found := c.store.Get(key)
	if !found {
		return entry{}, false
	}

	e, ok := raw.(entry)
	return e, ok
}

// GetOrFetch devolve a entrada viva como HIT sem chamar fetcher; caso contrário chama fetcher e
// grava o resultado (MISS). Se fetcher falhar e existir valor anterior do mesmo tipo, ele é devolvido
// como STALE junto do erro, sem alterar createdAt. Sem valor anterior, o erro é propagado.
func GetOrFetch[T any](ctx context.Context, c *Cache, key string, fetcher func(context.Context) (T, error), ttl time.Duration) (Result[T], error) {
	previous, found := c.lookup(key)

	var cached T
	if found {
		cached, found = previous.value.(T)
	}

	if found && c.now().Sub(previous.createdAt) < ttl {
		c.metrics.CacheLookup(string(StateHit))
		return Result[T]{Value: cached, State: StateHit, CreatedAt: previous.createdAt}, nil
	}

	value, err := fetcher(ctx)
	if err != nil {
		if found {
			c.metrics.CacheLookup(string(StateStale))
			return Result[T]{Value: cached, State: StateStale, StaleErr: err, CreatedAt: previous.createdAt}, nil
		}

		c.metrics.CacheLookup("ERROR")
		return Result[T]{}, err
	}

	c.Store(key, value)
	c.metrics.CacheLookup(string(StateMiss))

	stored, _ := c.lookup(key)
	return Result[T]{Value: value, State: StateMiss, CreatedAt: stored.createdAt}, nil
}
