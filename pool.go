package kumiai

// ComponentPools holds one reusable-object stack per component kind. Removed
// component values are returned here instead of being dropped, and Checkout
// hands them back out on the next add. The context owns one pool set; the
// actual pooling policy behind a kind can be customized with a factory.
//
// The context guarantees it never holds two live references to the same
// pooled object; callers popping objects out must honor the same discipline
// and never dereference a stale reference to a prior incarnation.
type ComponentPools struct {
	stacks    [][]any
	factories []func() any
}

// newComponentPools creates a pool set for the given number of kinds.
func newComponentPools(totalKinds int) *ComponentPools {
	return &ComponentPools{
		stacks:    make([][]any, totalKinds),
		factories: make([]func() any, totalKinds),
	}
}

// SetFactory registers a constructor invoked by Checkout when the stack for
// the kind is empty. Without a factory, Checkout returns nil on an empty
// stack and the caller constructs the component itself.
func (p *ComponentPools) SetFactory(kind int, factory func() any) {
	if kind < 0 || kind >= len(p.stacks) {
		panic(&KindOutOfRangeError{Kind: kind, Total: len(p.stacks)})
	}
	p.factories[kind] = factory
}

// Checkout pops a previously returned component for the kind, or constructs
// a new one via the registered factory, or returns nil.
func (p *ComponentPools) Checkout(kind int) any {
	if kind < 0 || kind >= len(p.stacks) {
		panic(&KindOutOfRangeError{Kind: kind, Total: len(p.stacks)})
	}
	stack := p.stacks[kind]
	if n := len(stack); n > 0 {
		c := stack[n-1]
		stack[n-1] = nil
		p.stacks[kind] = stack[:n-1]
		return c
	}
	if f := p.factories[kind]; f != nil {
		return f()
	}
	return nil
}

// Return pushes a component back onto the stack for its kind.
func (p *ComponentPools) Return(kind int, component any) {
	if kind < 0 || kind >= len(p.stacks) {
		panic(&KindOutOfRangeError{Kind: kind, Total: len(p.stacks)})
	}
	if component == nil {
		return
	}
	p.stacks[kind] = append(p.stacks[kind], component)
}

// Size returns the number of pooled components for the kind.
func (p *ComponentPools) Size(kind int) int {
	if kind < 0 || kind >= len(p.stacks) {
		return 0
	}
	return len(p.stacks[kind])
}

// clear drops every pooled component.
func (p *ComponentPools) clear() {
	for i := range p.stacks {
		stack := p.stacks[i]
		for j := range stack {
			stack[j] = nil
		}
		p.stacks[i] = stack[:0]
	}
}
