package surface

// property is a value with a requested base and an effective, coerced value.
//
// Setting the base, or recoercing after a dependency changed, recomputes the
// effective value; changed runs only when the effective value differs.
type property[T comparable] struct {
	base    T
	value   T
	coerce  func(T) T
	changed func(old, new T)
}

func (p *property[T]) get() T {
	return p.value
}

func (p *property[T]) set(v T) {
	p.base = v
	p.recoerce()
}

func (p *property[T]) recoerce() {
	v := p.base
	if p.coerce != nil {
		v = p.coerce(v)
	}

	if v == p.value {
		return
	}

	old := p.value
	p.value = v
	if p.changed != nil {
		p.changed(old, v)
	}
}
