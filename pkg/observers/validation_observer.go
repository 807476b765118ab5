package observers

import (
	"fmt"
	"sync"

	"github.com/anggasct/netedit"
)

// ValidationObserver checks that an editing session only touches the keys it is meant to
type ValidationObserver struct {
	netedit.BaseObserver
	expectedKeys map[string]bool
	touchedKeys  map[string]bool
	allowedKeys  map[netedit.Tag]map[netedit.Attr]bool
	violations   []string
	mutex        sync.RWMutex
}

// NewValidationObserver creates a new validation observer
func NewValidationObserver() *ValidationObserver {
	return &ValidationObserver{
		expectedKeys: make(map[string]bool),
		touchedKeys:  make(map[string]bool),
		allowedKeys:  make(map[netedit.Tag]map[netedit.Attr]bool),
		violations:   make([]string, 0),
	}
}

// AddExpectedKey adds a key that must be edited on the element tag/id
func (o *ValidationObserver) AddExpectedKey(tag netedit.Tag, id string, key netedit.Attr) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.expectedKeys[touchKey(tag, id, key)] = true
}

// AddAllowedKey allows edits of key on elements of tag. Tags without
// allowed keys accept every edit.
func (o *ValidationObserver) AddAllowedKey(tag netedit.Tag, key netedit.Attr) {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	if _, exists := o.allowedKeys[tag]; !exists {
		o.allowedKeys[tag] = make(map[netedit.Attr]bool)
	}

	o.allowedKeys[tag][key] = true
}

func touchKey(tag netedit.Tag, id string, key netedit.Attr) string {
	return fmt.Sprintf("%s '%s' %s", tag, id, key)
}

// addViolation adds a violation
func (o *ValidationObserver) addViolation(message string) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.violations = append(o.violations, message)
}

func (o *ValidationObserver) touch(element netedit.AttributeCarrier, key netedit.Attr) {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	o.touchedKeys[touchKey(element.Tag(), element.ID(), key)] = true
	if allowed, exists := o.allowedKeys[element.Tag()]; exists && !allowed[key] {
		o.violations = append(o.violations, fmt.Sprintf(
			"Edit of '%s' not allowed on %s '%s'", key, element.Tag(), element.ID()))
	}
}

// OnAttributeChanged validates value edits
func (o *ValidationObserver) OnAttributeChanged(element netedit.AttributeCarrier, key netedit.Attr, old, value string) {
	o.touch(element, key)
}

// OnAttributeToggled validates enable and disable edits
func (o *ValidationObserver) OnAttributeToggled(element netedit.AttributeCarrier, old, enabled netedit.EnabledSet) {
	for _, key := range (old ^ enabled).Keys() {
		o.touch(element, key)
	}
}

// OnValidationFailed records rejected edits
func (o *ValidationObserver) OnValidationFailed(element netedit.AttributeCarrier, key netedit.Attr, value string, err error) {
	o.addViolation(fmt.Sprintf("Rejected edit: %v", err))
}

// OnError records errors
func (o *ValidationObserver) OnError(err error) {
	o.addViolation(fmt.Sprintf("Error occurred: %v", err))
}

// GetViolations returns all validation violations
func (o *ValidationObserver) GetViolations() []string {
	o.mutex.RLock()
	defer o.mutex.RUnlock()

	result := make([]string, len(o.violations))
	copy(result, o.violations)
	return result
}

// GetUntouchedKeys returns keys that were expected but never edited
func (o *ValidationObserver) GetUntouchedKeys() []string {
	o.mutex.RLock()
	defer o.mutex.RUnlock()

	var untouched []string
	for key := range o.expectedKeys {
		if !o.touchedKeys[key] {
			untouched = append(untouched, key)
		}
	}

	return untouched
}

// HasViolations returns whether any violations occurred
func (o *ValidationObserver) HasViolations() bool {
	o.mutex.RLock()
	defer o.mutex.RUnlock()
	return len(o.violations) > 0
}

// Reset resets the validation state
func (o *ValidationObserver) Reset() {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	o.touchedKeys = make(map[string]bool)
	o.violations = make([]string, 0)
}
