package netedit

import "fmt"

// Observer represents an entity that observes attribute edits
type Observer interface {
	// Required methods

	// OnAttributeChanged is called after an attribute value was applied, including undo and redo
	OnAttributeChanged(element AttributeCarrier, key Attr, old, value string)

	// OnAttributeToggled is called after the enabled set of an element changed
	OnAttributeToggled(element AttributeCarrier, old, enabled EnabledSet)
}

// ExtendedObserver provides additional optional observation methods
type ExtendedObserver interface {
	Observer

	// OnValidationFailed is called when an edit was rejected
	OnValidationFailed(element AttributeCarrier, key Attr, value string, err error)

	// OnUndo is called after a group was undone
	OnUndo(group *ChangeGroup)

	// OnRedo is called after a group was redone
	OnRedo(group *ChangeGroup)

	// OnElementAdded is called when an element joins a net
	OnElementAdded(element AttributeCarrier)

	// OnElementRemoved is called when an element leaves a net
	OnElementRemoved(element AttributeCarrier)

	// OnError is called for structural errors and observer panics
	OnError(err error)
}

// BaseObserver provides a default implementation with no-op methods
type BaseObserver struct{}

// OnAttributeChanged implements the required Observer method
func (o *BaseObserver) OnAttributeChanged(element AttributeCarrier, key Attr, old, value string) {}

// OnAttributeToggled implements the required Observer method
func (o *BaseObserver) OnAttributeToggled(element AttributeCarrier, old, enabled EnabledSet) {}

// OnValidationFailed implements the optional ExtendedObserver method
func (o *BaseObserver) OnValidationFailed(element AttributeCarrier, key Attr, value string, err error) {
}

// OnUndo implements the optional ExtendedObserver method
func (o *BaseObserver) OnUndo(group *ChangeGroup) {}

// OnRedo implements the optional ExtendedObserver method
func (o *BaseObserver) OnRedo(group *ChangeGroup) {}

// OnElementAdded implements the optional ExtendedObserver method
func (o *BaseObserver) OnElementAdded(element AttributeCarrier) {}

// OnElementRemoved implements the optional ExtendedObserver method
func (o *BaseObserver) OnElementRemoved(element AttributeCarrier) {}

// OnError implements the optional ExtendedObserver method
func (o *BaseObserver) OnError(err error) {}

// ObserverManager manages a collection of observers
type ObserverManager struct {
	observers []Observer
}

// NewObserverManager creates a new observer manager
func NewObserverManager() *ObserverManager {
	return &ObserverManager{
		observers: make([]Observer, 0),
	}
}

// AddObserver adds an observer to the manager
func (om *ObserverManager) AddObserver(observer Observer) {
	om.observers = append(om.observers, observer)
}

// RemoveObserver removes an observer from the manager
func (om *ObserverManager) RemoveObserver(observer Observer) {
	for i, obs := range om.observers {
		if obs == observer {
			om.observers = append(om.observers[:i], om.observers[i+1:]...)
			break
		}
	}
}

// Len returns the number of registered observers
func (om *ObserverManager) Len() int {
	return len(om.observers)
}

// each calls fn for every observer, isolating panics
func (om *ObserverManager) each(method string, fn func(Observer)) {
	observers := make([]Observer, len(om.observers))
	copy(observers, om.observers)

	for _, observer := range observers {
		func() {
			defer func() {
				if r := recover(); r != nil {
					// report the panic to the observer itself, ignoring a second panic
					if extObs, ok := observer.(ExtendedObserver); ok {
						func() {
							defer func() { recover() }()
							extObs.OnError(fmt.Errorf("observer panic in %s: %v", method, r))
						}()
					}
				}
			}()
			fn(observer)
		}()
	}
}

// eachExtended is each restricted to ExtendedObserver implementations
func (om *ObserverManager) eachExtended(method string, fn func(ExtendedObserver)) {
	om.each(method, func(o Observer) {
		if extObs, ok := o.(ExtendedObserver); ok {
			fn(extObs)
		}
	})
}

// NotifyAttributeChanged notifies all observers of an applied value
func (om *ObserverManager) NotifyAttributeChanged(element AttributeCarrier, key Attr, old, value string) {
	om.each("OnAttributeChanged", func(o Observer) {
		o.OnAttributeChanged(element, key, old, value)
	})
}

// NotifyAttributeToggled notifies all observers of an enabled set change
func (om *ObserverManager) NotifyAttributeToggled(element AttributeCarrier, old, enabled EnabledSet) {
	om.each("OnAttributeToggled", func(o Observer) {
		o.OnAttributeToggled(element, old, enabled)
	})
}

// NotifyValidationFailed notifies all observers of a rejected edit
func (om *ObserverManager) NotifyValidationFailed(element AttributeCarrier, key Attr, value string, err error) {
	om.eachExtended("OnValidationFailed", func(o ExtendedObserver) {
		o.OnValidationFailed(element, key, value, err)
	})
}

// NotifyUndo notifies all observers of an undone group
func (om *ObserverManager) NotifyUndo(group *ChangeGroup) {
	om.eachExtended("OnUndo", func(o ExtendedObserver) {
		o.OnUndo(group)
	})
}

// NotifyRedo notifies all observers of a redone group
func (om *ObserverManager) NotifyRedo(group *ChangeGroup) {
	om.eachExtended("OnRedo", func(o ExtendedObserver) {
		o.OnRedo(group)
	})
}

// NotifyElementAdded notifies all observers of a registered element
func (om *ObserverManager) NotifyElementAdded(element AttributeCarrier) {
	om.eachExtended("OnElementAdded", func(o ExtendedObserver) {
		o.OnElementAdded(element)
	})
}

// NotifyElementRemoved notifies all observers of a removed element
func (om *ObserverManager) NotifyElementRemoved(element AttributeCarrier) {
	om.eachExtended("OnElementRemoved", func(o ExtendedObserver) {
		o.OnElementRemoved(element)
	})
}

// NotifyError notifies all observers of errors
func (om *ObserverManager) NotifyError(err error) {
	om.eachExtended("OnError", func(o ExtendedObserver) {
		o.OnError(err)
	})
}
