// Package backend holds the runtime-configurable marketplace backend URL.
package backend

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/jacksmith/mkt/internal/storage"
	"github.com/sirupsen/logrus"
)

// ErrEmptyURL is returned by Set when the URL is blank after trimming.
var ErrEmptyURL = errors.New("backend URL must not be empty")

// Source describes where the current URL came from.
type Source string

const (
	SourceDefault   Source = "default"
	SourcePersisted Source = "persisted"
)

// Provider exposes the current backend base URL and persists changes to it.
// The zero value is not usable; construct with New.
type Provider struct {
	store    storage.Store
	fallback string
	log      logrus.FieldLogger

	mu        sync.RWMutex
	url       string
	persisted bool
	subs      map[int]func(string)
	nextSub   int
}

// New returns a Provider serving fallback until Load finds a persisted URL.
func New(store storage.Store, fallback string, log logrus.FieldLogger) *Provider {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Provider{
		store:    store,
		fallback: fallback,
		log:      log,
		url:      fallback,
		subs:     make(map[int]func(string)),
	}
}

// Load reads BACKEND_URL from the store. A missing or blank value keeps the fallback.
func (p *Provider) Load() error {
	v, ok, err := p.store.Get(storage.KeyBackendURL)
	if err != nil {
		return fmt.Errorf("failed to load backend URL: %w", err)
	}
	v = strings.TrimSpace(v)

	p.mu.Lock()
	if ok && v != "" {
		p.url = v
		p.persisted = true
	} else {
		p.url = p.fallback
		p.persisted = false
	}
	url := p.url
	p.mu.Unlock()

	p.log.WithFields(logrus.Fields{"url": url, "source": p.Source()}).Debug("backend URL loaded")
	return nil
}

// Get returns the current base URL.
func (p *Provider) Get() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.url
}

// Fallback returns the URL used when nothing is persisted.
func (p *Provider) Fallback() string {
	return p.fallback
}

// Persisted reports whether a user-configured URL exists.
func (p *Provider) Persisted() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.persisted
}

// Source reports where Get's value comes from.
func (p *Provider) Source() Source {
	if p.Persisted() {
		return SourcePersisted
	}
	return SourceDefault
}

// Set trims url, persists it, updates the in-memory value and notifies
// subscribers before returning. The URL format is not checked.
func (p *Provider) Set(url string) error {
	url = strings.TrimSpace(url)
	if url == "" {
		return ErrEmptyURL
	}

	if err := p.store.Set(storage.KeyBackendURL, url); err != nil {
		return fmt.Errorf("failed to save backend URL: %w", err)
	}

	p.update(url, true, true)
	p.log.WithField("url", url).Info("backend URL saved")
	return nil
}

// Subscribe registers fn to be called with every new URL.
// The returned function removes the subscription.
func (p *Provider) Subscribe(fn func(string)) (cancel func()) {
	p.mu.Lock()
	id := p.nextSub
	p.nextSub++
	p.subs[id] = fn
	p.mu.Unlock()

	return func() {
		p.mu.Lock()
		delete(p.subs, id)
		p.mu.Unlock()
	}
}

// update stores url and notifies subscribers in subscription order,
// either always or only when the value changed.
func (p *Provider) update(url string, persisted, always bool) {
	p.mu.Lock()
	changed := p.url != url
	p.url = url
	p.persisted = persisted
	var fns []func(string)
	if changed || always {
		for id := 0; id < p.nextSub; id++ {
			if fn, ok := p.subs[id]; ok {
				fns = append(fns, fn)
			}
		}
	}
	p.mu.Unlock()

	for _, fn := range fns {
		fn(url)
	}
}

// reload re-reads the store and publishes the result. Used by Watch.
func (p *Provider) reload() error {
	v, ok, err := p.store.Get(storage.KeyBackendURL)
	if err != nil {
		return err
	}
	v = strings.TrimSpace(v)
	if ok && v != "" {
		p.update(v, true, false)
	} else {
		p.update(p.fallback, false, false)
	}
	return nil
}
