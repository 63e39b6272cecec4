package prometheus

import (
	"context"
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// StateProvider exposes the live state of one sequencer. *core.Sequencer
// satisfies it.
type StateProvider interface {
	Running() bool
	Animated() bool
	Cancelling() bool
	Terminating() bool
	Duration() time.Duration
}

// StatePoller periodically exports sequencer state snapshots into
// Prometheus gauges.
type StatePoller struct {
	interval time.Duration

	providersMu sync.RWMutex
	providers   map[string]StateProvider

	running         *prom.GaugeVec
	animated        *prom.GaugeVec
	cancelling      *prom.GaugeVec
	terminating     *prom.GaugeVec
	durationSeconds *prom.GaugeVec

	stateMu sync.Mutex
	active  bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewStatePoller creates a state poller and registers its collectors.
func NewStatePoller(namespace string, reg prom.Registerer, interval time.Duration) (*StatePoller, error) {
	if namespace == "" {
		namespace = "sequencer"
	}
	if reg == nil {
		reg = prom.DefaultRegisterer
	}
	if interval <= 0 {
		interval = time.Second
	}

	running := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: namespace,
		Name:      "running",
		Help:      "Sequencer running state (1=running, 0=idle).",
	}, []string{"sequencer"})
	animated := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: namespace,
		Name:      "animated",
		Help:      "Whether the current run is animated (1=animated).",
	}, []string{"sequencer"})
	cancelling := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: namespace,
		Name:      "cancelling",
		Help:      "Whether the sequencer is cancelling (1=cancelling).",
	}, []string{"sequencer"})
	terminating := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: namespace,
		Name:      "terminating",
		Help:      "Whether the sequencer is terminating (1=terminating).",
	}, []string{"sequencer"})
	durationSeconds := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: namespace,
		Name:      "total_duration_seconds",
		Help:      "Aggregate step duration of the sequencer in seconds.",
	}, []string{"sequencer"})

	var err error
	if running, err = registerCollector(reg, running); err != nil {
		return nil, err
	}
	if animated, err = registerCollector(reg, animated); err != nil {
		return nil, err
	}
	if cancelling, err = registerCollector(reg, cancelling); err != nil {
		return nil, err
	}
	if terminating, err = registerCollector(reg, terminating); err != nil {
		return nil, err
	}
	if durationSeconds, err = registerCollector(reg, durationSeconds); err != nil {
		return nil, err
	}

	return &StatePoller{
		interval:        interval,
		providers:       make(map[string]StateProvider),
		running:         running,
		animated:        animated,
		cancelling:      cancelling,
		terminating:     terminating,
		durationSeconds: durationSeconds,
	}, nil
}

// Add adds or replaces a state provider by name.
func (p *StatePoller) Add(name string, provider StateProvider) {
	if p == nil || provider == nil {
		return
	}
	name = normalizeLabel(name, "sequencer")
	p.providersMu.Lock()
	p.providers[name] = provider
	p.providersMu.Unlock()
}

// Remove drops a provider and its gauge series.
func (p *StatePoller) Remove(name string) {
	if p == nil {
		return
	}
	name = normalizeLabel(name, "sequencer")
	p.providersMu.Lock()
	delete(p.providers, name)
	p.providersMu.Unlock()

	labels := prom.Labels{"sequencer": name}
	p.running.Delete(labels)
	p.animated.Delete(labels)
	p.cancelling.Delete(labels)
	p.terminating.Delete(labels)
	p.durationSeconds.Delete(labels)
}

// Start begins periodic polling; repeated calls are no-ops.
func (p *StatePoller) Start(ctx context.Context) {
	if p == nil {
		return
	}

	p.stateMu.Lock()
	if p.active {
		p.stateMu.Unlock()
		return
	}
	pollCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.done = make(chan struct{})
	p.active = true
	p.stateMu.Unlock()

	go p.loop(pollCtx)
}

// Stop stops periodic polling; repeated calls are safe.
func (p *StatePoller) Stop() {
	if p == nil {
		return
	}

	p.stateMu.Lock()
	if !p.active {
		p.stateMu.Unlock()
		return
	}
	cancel := p.cancel
	done := p.done
	p.stateMu.Unlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}

	p.stateMu.Lock()
	p.active = false
	p.cancel = nil
	p.done = nil
	p.stateMu.Unlock()
}

func (p *StatePoller) loop(ctx context.Context) {
	defer close(p.done)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.collectOnce()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.collectOnce()
		}
	}
}

func (p *StatePoller) collectOnce() {
	p.providersMu.RLock()
	defer p.providersMu.RUnlock()

	for name, provider := range p.providers {
		p.running.WithLabelValues(name).Set(boolGauge(provider.Running()))
		p.animated.WithLabelValues(name).Set(boolGauge(provider.Animated()))
		p.cancelling.WithLabelValues(name).Set(boolGauge(provider.Cancelling()))
		p.terminating.WithLabelValues(name).Set(boolGauge(provider.Terminating()))
		p.durationSeconds.WithLabelValues(name).Set(provider.Duration().Seconds())
	}
}

func boolGauge(v bool) float64 {
	if v {
		return 1
	}
	return 0
}
