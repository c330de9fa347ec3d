package strategy

import (
	"sort"
	"sync"
	"sync/atomic"

	"signal_bot/internal/models"
)

// Constructor создаёт стратегию. Нулевые поля дескриптора — дефолты варианта.
type Constructor func(d models.StrategyDescriptor) Strategy

// Registry — имя -> конструктор. Читатели не блокируются: карта
// copy-on-write за atomic.Pointer, писатели сериализованы мьютексом.
type Registry struct {
	wmu     sync.Mutex
	entries atomic.Pointer[map[string]Constructor]
}

func NewRegistry() *Registry {
	r := &Registry{}
	empty := map[string]Constructor{}
	r.entries.Store(&empty)
	return r
}

// NewDefaultRegistry — реестр с тремя встроенными вариантами.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(string(models.VariantMultiIndicator), func(d models.StrategyDescriptor) Strategy {
		return NewMultiIndicator(d)
	})
	r.Register(string(models.VariantMomentum), func(d models.StrategyDescriptor) Strategy {
		return NewMomentum(d)
	})
	r.Register(string(models.VariantScalping), func(d models.StrategyDescriptor) Strategy {
		return NewScalping(d)
	})
	return r
}

// Register добавляет или перезаписывает запись.
func (r *Registry) Register(name string, ctor Constructor) {
	r.wmu.Lock()
	defer r.wmu.Unlock()

	cur := *r.entries.Load()
	next := make(map[string]Constructor, len(cur)+1)
	for k, v := range cur {
		next[k] = v
	}
	next[name] = ctor
	r.entries.Store(&next)
}

// Create — стратегия по имени с дефолтными параметрами.
func (r *Registry) Create(name string) (Strategy, error) {
	return r.CreateFor(name, models.StrategyDescriptor{})
}

// CreateFor — стратегия по имени с оверрайдами. Без фолбэка на дефолтную стратегию.
func (r *Registry) CreateFor(name string, d models.StrategyDescriptor) (Strategy, error) {
	ctor, ok := (*r.entries.Load())[name]
	if !ok || ctor == nil {
		return nil, &UnknownStrategyError{Name: name}
	}
	if d.Name == "" {
		d.Name = name
	}
	return ctor(d), nil
}

// List — зарегистрированные имена по алфавиту.
func (r *Registry) List() []string {
	m := *r.entries.Load()
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
