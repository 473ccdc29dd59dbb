package ecs

// Add attaches value to e. The kind argument pins T at the call site.
func Add[T Component](e *Entity, kind Kind[T], value T) error {
	if e == nil {
		return ErrNilEntity
	}
	if Component(value) == nil || value.Kind() != kind.ID() {
		return ErrNilComponent
	}
	e.AddComponent(value)
	return nil
}

func Remove[T Component](e *Entity, kind Kind[T]) bool {
	if !e.HasComponent(kind.ID()) {
		return false
	}
	e.RemoveComponent(kind.ID())
	return true
}

func Has[T Component](e *Entity, kind Kind[T]) bool {
	return e.HasComponent(kind.ID())
}

// Get returns the component of kind on e, typed.
func Get[T Component](e *Entity, kind Kind[T]) (T, bool) {
	var zero T
	value, ok := e.GetComponent(kind.ID())
	if !ok {
		return zero, false
	}
	cast, ok := value.(T)
	if !ok {
		return zero, false
	}
	return cast, true
}
