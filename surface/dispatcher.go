package surface

import (
	"github.com/mediasurface/mediasurface/engine"
	"github.com/mediasurface/mediasurface/log"
	"github.com/mediasurface/mediasurface/loop"
	"github.com/mediasurface/mediasurface/registry"
)

// Dispatcher routes engine events to the surfaces that own their bindings.
//
// Engines call Sink from their own goroutines. The dispatcher never touches
// surface state there: it resolves the owner and posts the handler to the
// consumer loop, where the surface checks that the binding is still current.
type Dispatcher struct {
	engine engine.Engine
	loop   *loop.Loop
	owners *registry.Registry[engine.Binding, Surface]
}

// NewDispatcher returns a dispatcher for surfaces driven by e whose handlers run on l.
func NewDispatcher(e engine.Engine, l *loop.Loop) *Dispatcher {
	return &Dispatcher{
		engine: e,
		loop:   l,
		owners: registry.New[engine.Binding, Surface](),
	}
}

// Engine returns the engine surfaces of this dispatcher are bound to.
func (d *Dispatcher) Engine() engine.Engine {
	return d.engine
}

// Loop returns the consumer loop handlers are posted to.
func (d *Dispatcher) Loop() *loop.Loop {
	return d.loop
}

// Sink is the engine.Sink handed to the engine for every binding.
func (d *Dispatcher) Sink(ev engine.Event) {
	s := d.owners.Resolve(ev.Binding)
	if s == nil {
		log.WithField("binding", ev.Binding).Tracef("dropping %s: no owner", ev.Kind)
		return
	}

	if err := d.loop.Post(func() { s.handle(ev) }); err != nil {
		log.WithField("binding", ev.Binding).Tracef("dropping %s: %s", ev.Kind, err)
	}
}

// Sweep releases the bindings of every surface that was dropped without Close.
func (d *Dispatcher) Sweep() int {
	return d.owners.Sweep()
}

// Bindings returns the number of registered bindings.
func (d *Dispatcher) Bindings() int {
	return d.owners.Len()
}

func (d *Dispatcher) register(b engine.Binding, s *Surface) error {
	e := d.engine
	return d.owners.Register(b, s, func() {
		log.WithField("binding", b).Debugf("owner reclaimed, releasing binding")
		if err := e.ReleaseBinding(b); err != nil {
			log.WithField("binding", b).Warnf("release: %s", err)
		}
	})
}

func (d *Dispatcher) unregister(b engine.Binding) {
	d.owners.Unregister(b)
}
