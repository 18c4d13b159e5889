package pages

import (
	"context"
	"log/slog"

	"github.com/go-theft-auto/triptych"
)

// prefetchRadius is how many chapters on each side of a requested page are
// loaded in the background.
const prefetchRadius = 2

// Provider supplies PageViews to a triptych.Manager.
//
// PageView runs on the UI goroutine and blocks until the chapter is
// loaded; neighbors are warmed in the background so that in steady state
// it is served from cache.
type Provider struct {
	ctx    context.Context
	loader *Loader
	atlas  *triptych.FontAtlas
	style  triptych.Style
	logger *slog.Logger
	onFail func(index int, err error)

	live map[int]*PageView
}

// ProviderOption configures a Provider.
type ProviderOption func(*Provider)

// WithLogger sets the provider's logger.
func WithLogger(l *slog.Logger) ProviderOption {
	return func(p *Provider) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithFailureHandler sets a function called on the UI goroutine when a
// chapter cannot be loaded.
func WithFailureHandler(fn func(index int, err error)) ProviderOption {
	return func(p *Provider) { p.onFail = fn }
}

// NewProvider creates a provider drawing with atlas and style. Background
// loads stop when ctx is done.
func NewProvider(ctx context.Context, loader *Loader, atlas *triptych.FontAtlas, style triptych.Style, opts ...ProviderOption) *Provider {
	p := &Provider{
		ctx:    ctx,
		loader: loader,
		atlas:  atlas,
		style:  style,
		logger: slog.Default(),
		live:   make(map[int]*PageView),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// PageView implements triptych.Provider. A chapter that fails to load is
// shown as an error page so the window always has a view for every index.
func (p *Provider) PageView(m *triptych.Manager, index int, edge triptych.Edge) triptych.View {
	ch, err := p.loader.Chapter(p.ctx, index)
	if err != nil {
		p.logger.Warn("chapter unavailable", "index", index, "error", err)
		if p.onFail != nil {
			p.onFail(index, err)
		}
	}

	v := newPageView(index, m.PageCount(), ch, err, p.atlas, p.style, m.ViewportSize())
	v.ScrollToEdge(edge)
	v.onDetach = p.release
	p.live[index] = v

	go p.prefetch(index)
	return v
}

// release forgets a view that left the window.
func (p *Provider) release(v *PageView) {
	if p.live[v.index] == v {
		delete(p.live, v.index)
	}
}

func (p *Provider) prefetch(index int) {
	indices := make([]int, 0, 2*prefetchRadius)
	for d := 1; d <= prefetchRadius; d++ {
		indices = append(indices, index+d, index-d)
	}
	// The loader logs each failure itself.
	_ = p.loader.Prefetch(p.ctx, indices...)
}

// Live returns the view currently materialized for index.
func (p *Provider) Live(index int) (*PageView, bool) {
	v, ok := p.live[index]
	return v, ok
}

// LiveCount returns the number of materialized views.
func (p *Provider) LiveCount() int {
	return len(p.live)
}

// SetStyle applies style to every live view and to views created later.
func (p *Provider) SetStyle(style triptych.Style) {
	p.style = style
	for _, v := range p.live {
		v.SetStyle(style)
	}
}
