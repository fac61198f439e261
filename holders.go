package fleks

import "github.com/rotisserie/eris"

type holderFactory func(ctx Context, id ComponentID, capacity int) WildcardHolder

// componentService owns one holder per accessed type. Holders live in a
// slice indexed by ComponentID; a nil slot means the type was never used
// with this context.
type componentService struct {
	ctx     Context
	holders []WildcardHolder
}

func newComponentService(ctx Context) *componentService {
	return &componentService{
		ctx:     ctx,
		holders: make([]WildcardHolder, 0, 64),
	}
}

// holderFor returns the holder for id, building it with factory on first
// use, sized to the context's current entity capacity.
func (s *componentService) holderFor(id ComponentID, factory holderFactory) WildcardHolder {
	idx := int(id)
	if idx >= len(s.holders) {
		s.holders = extendSlice(s.holders, idx+1-len(s.holders))
	}
	if h := s.holders[idx]; h != nil {
		return h
	}
	h := factory(s.ctx, id, s.ctx.Capacity())
	s.holders[idx] = h
	return h
}

func holderOf[T any](s *componentService) *Holder[T] {
	id := ComponentIDOf[T]()
	h := s.holderFor(id, func(ctx Context, id ComponentID, capacity int) WildcardHolder {
		return newHolder[T](ctx, id, capacity, IsTag(id))
	})
	return h.(*Holder[T])
}

// wildcardHolder looks up or creates the holder for id without static type
// information, using the factory recorded when the type was registered.
func (s *componentService) wildcardHolder(id ComponentID) (WildcardHolder, error) {
	if idx := int(id); idx < len(s.holders) && s.holders[idx] != nil {
		return s.holders[idx], nil
	}
	info, ok := registry.Load().info(id)
	if !ok {
		return nil, eris.Wrapf(ErrUnknownComponent, "component id %d", id)
	}
	return s.holderFor(id, info.newHolder), nil
}

// setWildcard stores an untyped value through the holder for id.
func (s *componentService) setWildcard(e Entity, id ComponentID, v any) error {
	h, err := s.wildcardHolder(id)
	if err != nil {
		return err
	}
	return h.SetAny(e, v)
}

// holderByIndex is for trusted callers that got index from a component
// mask. It never creates a holder.
func (s *componentService) holderByIndex(index int) (WildcardHolder, error) {
	if index < 0 || index >= len(s.holders) || s.holders[index] == nil {
		return nil, eris.Wrapf(ErrOutOfRange, "no holder at index %d", index)
	}
	return s.holders[index], nil
}

// each calls fn for every materialized holder in ComponentID order.
func (s *componentService) each(fn func(h WildcardHolder)) {
	for _, h := range s.holders {
		if h != nil {
			fn(h)
		}
	}
}

func (s *componentService) len() int {
	n := 0
	s.each(func(WildcardHolder) { n++ })
	return n
}
