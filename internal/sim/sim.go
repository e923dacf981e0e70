// Package sim drives a small widget page with synthetic input.
//
// The page holds an accordion and a scrollspy over a column of sections.
// Each frame the viewport scrolls one section down, and a seeded source
// occasionally clicks an accordion title or reports a resize. The same
// seed always yields the same sequence of states.
package sim

import (
	"context"
	"log/slog"
	"math/rand/v2"

	"github.com/vango-dev/widgetkit/pkg/component"
	"github.com/vango-dev/widgetkit/pkg/fastdom"
	"github.com/vango-dev/widgetkit/pkg/widgets"
)

const (
	clsSection = "uk-section"

	// resizeEvery is the number of frames between synthetic resizes.
	resizeEvery = 30
)

// Config sizes the page.
type Config struct {
	Items    int
	Sections int
	Seed     int64
}

// State is what the page shows after a frame.
type State struct {
	Open    []int `json:"open"`
	Visible []int `json:"visible"`
	InView  []int `json:"inView"`
}

// Frame pairs the scheduler statistics of one tick with the page state.
type Frame struct {
	Stats fastdom.FlushStats `json:"stats"`
	State State              `json:"state"`
}

// Page is the simulated document.
type Page struct {
	scheduler   *fastdom.Scheduler
	intersector *widgets.Intersector
	accordion   *widgets.Accordion
	scrollspy   *widgets.Scrollspy
	sections    []*widgets.Element

	rng    *rand.Rand
	logger *slog.Logger

	last fastdom.FlushStats
}

// NewPage builds a disconnected page on s. opts apply to both widgets.
func NewPage(s *fastdom.Scheduler, cfg Config, opts ...component.InstanceOption) *Page {
	if cfg.Items < 1 {
		cfg.Items = 1
	}
	if cfg.Sections < 1 {
		cfg.Sections = 1
	}

	p := &Page{
		scheduler:   s,
		intersector: widgets.NewIntersector(),
		rng:         rand.New(rand.NewPCG(uint64(cfg.Seed), uint64(cfg.Seed)^0x9e3779b97f4a7c15)),
		logger:      slog.Default().With("component", "sim"),
	}

	list := widgets.NewElement("ul", "uk-accordion")
	for n := 0; n < cfg.Items; n++ {
		list.Append(widgets.NewElement("li").Append(
			widgets.NewElement("a", "uk-accordion-title"),
			widgets.NewElement("div", "uk-accordion-content"),
		))
	}

	column := widgets.NewElement("main")
	for n := 0; n < cfg.Sections; n++ {
		section := widgets.NewElement("section", clsSection)
		column.Append(section)
		p.sections = append(p.sections, section)
	}

	opts = append([]component.InstanceOption{component.WithScheduler(s)}, opts...)
	p.accordion = widgets.NewAccordion(list, component.Props{"active": 0}, opts...)
	p.scrollspy = widgets.NewScrollspy(column, p.intersector, component.Props{
		"target": clsSection,
		"cls":    "uk-animation-fade",
		"repeat": true,
	}, opts...)

	s.AddObserver(fastdom.ObserverFunc(func(_ context.Context, stats fastdom.FlushStats) {
		p.last = stats
	}))
	return p
}

// Accordion returns the page accordion.
func (p *Page) Accordion() *widgets.Accordion {
	return p.accordion
}

// Scrollspy returns the page scrollspy.
func (p *Page) Scrollspy() *widgets.Scrollspy {
	return p.scrollspy
}

// Connect connects both widgets.
func (p *Page) Connect() error {
	if err := p.accordion.Connect(); err != nil {
		return err
	}
	return p.scrollspy.Connect()
}

// Disconnect disconnects both widgets.
func (p *Page) Disconnect() error {
	if err := p.scrollspy.Disconnect(); err != nil {
		return err
	}
	return p.accordion.Disconnect()
}

// Step feeds the input of frame into the page. It is meant to run as a
// fastdom tick function, before the flush.
func (p *Page) Step(frame uint64) {
	top := int(frame % uint64(len(p.sections)))
	for n, section := range p.sections {
		p.intersector.SetVisible(section, n == top || n == top+1)
	}

	if p.rng.IntN(4) == 0 {
		items := p.accordion.Items()
		if len(items) > 0 {
			item := p.rng.IntN(len(items))
			p.logger.Debug("click", "frame", frame, "item", item)
			items[item].Child("uk-accordion-title").Trigger("click")
		}
	}

	if frame%resizeEvery == 0 {
		p.accordion.RequestUpdate(component.EventResize)
		p.scrollspy.RequestUpdate(component.EventResize)
	}
}

// Snapshot returns the current page state.
func (p *Page) Snapshot() State {
	var st State
	for n, item := range p.accordion.Items() {
		if item.HasClass("uk-open") {
			st.Open = append(st.Open, n)
		}
	}
	for n, section := range p.sections {
		if p.intersector.IsVisible(section) {
			st.Visible = append(st.Visible, n)
		}
		if section.HasClass("uk-scrollspy-inview") {
			st.InView = append(st.InView, n)
		}
	}
	return st
}

// Run feeds and flushes frames ticks and records every one of them.
func (p *Page) Run(ctx context.Context, frames int) ([]Frame, error) {
	out := make([]Frame, 0, frames)
	for n := 0; n < frames; n++ {
		if err := ctx.Err(); err != nil {
			return out, err
		}

		p.last = fastdom.FlushStats{}
		frame := p.scheduler.Frame() + 1
		p.Step(frame)
		if err := p.scheduler.FlushContext(ctx); err != nil {
			return out, err
		}

		stats := p.last
		if stats.Frame == 0 {
			stats.Frame = frame
		}
		out = append(out, Frame{Stats: stats, State: p.Snapshot()})
	}
	return out, nil
}
