package display

import (
	"sync"
	"time"

	"stopwatch/internal/core/model"
)

// Source supplies the elapsed time to render.
type Source interface {
	Elapsed() (time.Duration, error)
}

// Sink receives formatted readings. It is called from the poller goroutine.
type Sink func(reading Reading, err error)

// Poller pulls the elapsed time on a fixed period and hands the formatted
// reading to a sink. It never feeds anything back into the source.
type Poller struct {
	mu      sync.Mutex
	source  Source
	sink    Sink
	config  model.DisplayConfig
	stopCh  chan struct{}
	doneCh  chan struct{}
	running bool
}

// NewPoller creates a poller with the provided configuration.
func NewPoller(source Source, sink Sink, config model.DisplayConfig) *Poller {
	return &Poller{
		source: source,
		sink:   sink,
		config: normalize(config),
	}
}

// Start launches the polling loop. Calling Start twice is a no-op.
func (poller *Poller) Start() {
	poller.mu.Lock()
	defer poller.mu.Unlock()
	if poller.running {
		return
	}
	poller.running = true
	poller.stopCh = make(chan struct{})
	poller.doneCh = make(chan struct{})
	go poller.run(poller.config, poller.stopCh, poller.doneCh)
}

// Stop terminates the polling loop and waits for it to exit.
func (poller *Poller) Stop() {
	poller.mu.Lock()
	if !poller.running {
		poller.mu.Unlock()
		return
	}
	poller.running = false
	close(poller.stopCh)
	doneCh := poller.doneCh
	poller.mu.Unlock()

	<-doneCh
}

// UpdateConfig applies a new configuration, restarting the loop if it was
// running.
func (poller *Poller) UpdateConfig(config model.DisplayConfig) {
	poller.mu.Lock()
	wasRunning := poller.running
	poller.mu.Unlock()

	if wasRunning {
		poller.Stop()
	}
	poller.mu.Lock()
	poller.config = normalize(config)
	poller.mu.Unlock()
	if wasRunning {
		poller.Start()
	}
}

// Refresh renders once, synchronously.
func (poller *Poller) Refresh() {
	poller.mu.Lock()
	config := poller.config
	poller.mu.Unlock()
	poller.render(config)
}

func (poller *Poller) run(config model.DisplayConfig, stopCh <-chan struct{}, doneCh chan<- struct{}) {
	defer close(doneCh)

	ticker := time.NewTicker(config.PollInterval)
	defer ticker.Stop()

	poller.render(config)
	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			poller.render(config)
		}
	}
}

func (poller *Poller) render(config model.DisplayConfig) {
	elapsed, err := poller.source.Elapsed()
	if err != nil {
		poller.sink(Unavailable(config.Resolution), err)
		return
	}
	poller.sink(Format(elapsed, config.Resolution), nil)
}

func normalize(config model.DisplayConfig) model.DisplayConfig {
	if config.PollInterval < model.MinPollInterval || config.PollInterval > model.MaxPollInterval {
		config.PollInterval = model.DefaultPollInterval
	}
	if config.Resolution == "" {
		config.Resolution = model.ResolutionHundredths
	}
	return config
}
