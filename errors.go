package netedit

import "fmt"

// ErrorCode represents specific error conditions of attribute editing
type ErrorCode int

const (
	// No error occurred
	ErrCodeNone ErrorCode = iota
	// Key does not apply to the element kind
	ErrCodeUnknownKey
	// Value failed validation
	ErrCodeInvalidValue
	// Key has no numeric interpretation
	ErrCodeNotNumeric
	// Key has no positional interpretation
	ErrCodeNotPositional
	// Enabling or disabling would break attribute consistency
	ErrCodeDependencyConflict
	// Element was removed from its net
	ErrCodeElementRemoved
	// Element id is already taken
	ErrCodeDuplicateID
	// Undo stack is empty
	ErrCodeNothingToUndo
	// Redo stack is empty
	ErrCodeNothingToRedo
	// Undo group nesting is unbalanced
	ErrCodeUnbalancedGroup
)

func (c ErrorCode) String() string {
	switch c {
	case ErrCodeNone:
		return "none"
	case ErrCodeUnknownKey:
		return "unknown key"
	case ErrCodeInvalidValue:
		return "invalid value"
	case ErrCodeNotNumeric:
		return "not numeric"
	case ErrCodeNotPositional:
		return "not positional"
	case ErrCodeDependencyConflict:
		return "dependency conflict"
	case ErrCodeElementRemoved:
		return "element removed"
	case ErrCodeDuplicateID:
		return "duplicate id"
	case ErrCodeNothingToUndo:
		return "nothing to undo"
	case ErrCodeNothingToRedo:
		return "nothing to redo"
	case ErrCodeUnbalancedGroup:
		return "unbalanced group"
	default:
		return fmt.Sprintf("ErrorCode(%d)", int(c))
	}
}

// Sentinel errors, matched by code with errors.Is
var (
	ErrUnknownKey         = &AttributeError{Code: ErrCodeUnknownKey}
	ErrInvalidValue       = &AttributeError{Code: ErrCodeInvalidValue}
	ErrNotNumeric         = &AttributeError{Code: ErrCodeNotNumeric}
	ErrNotPositional      = &AttributeError{Code: ErrCodeNotPositional}
	ErrDependencyConflict = &AttributeError{Code: ErrCodeDependencyConflict}
	ErrElementRemoved     = &AttributeError{Code: ErrCodeElementRemoved}
	ErrDuplicateID        = &AttributeError{Code: ErrCodeDuplicateID}

	ErrNothingToUndo   = &UndoError{Code: ErrCodeNothingToUndo}
	ErrNothingToRedo   = &UndoError{Code: ErrCodeNothingToRedo}
	ErrUnbalancedGroup = &UndoError{Code: ErrCodeUnbalancedGroup}
)

// AttributeError represents a rejected attribute access
type AttributeError struct {
	Code      ErrorCode
	Tag       Tag
	ElementID string
	Key       Attr
	Value     string
	Message   string
}

func (e *AttributeError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Code.String()
	}
	if e.Key == AttrNone {
		return fmt.Sprintf("attribute error [%s '%s']: %s", e.Tag, e.ElementID, msg)
	}
	return fmt.Sprintf("attribute error [%s '%s' %s]: %s", e.Tag, e.ElementID, e.Key, msg)
}

// Is matches another AttributeError with the same code
func (e *AttributeError) Is(target error) bool {
	t, ok := target.(*AttributeError)
	return ok && t.Code == e.Code
}

// NewUnknownKeyError creates an error for a key that does not apply to tag
func NewUnknownKeyError(tag Tag, id string, key Attr) *AttributeError {
	return &AttributeError{
		Code:      ErrCodeUnknownKey,
		Tag:       tag,
		ElementID: id,
		Key:       key,
		Message:   fmt.Sprintf("attribute '%s' does not apply to %s", key, tag),
	}
}

// NewInvalidValueError creates an error for a value that failed validation
func NewInvalidValueError(tag Tag, id string, key Attr, value string) *AttributeError {
	return &AttributeError{
		Code:      ErrCodeInvalidValue,
		Tag:       tag,
		ElementID: id,
		Key:       key,
		Value:     value,
		Message:   fmt.Sprintf("'%s' is not a valid value for '%s'", value, key),
	}
}

// NewNotNumericError creates an error for a numeric read of a non-numeric key
func NewNotNumericError(tag Tag, id string, key Attr) *AttributeError {
	return &AttributeError{
		Code:      ErrCodeNotNumeric,
		Tag:       tag,
		ElementID: id,
		Key:       key,
		Message:   fmt.Sprintf("attribute '%s' is not numeric", key),
	}
}

// NewNotPositionalError creates an error for a position read of a non-positional key
func NewNotPositionalError(tag Tag, id string, key Attr) *AttributeError {
	return &AttributeError{
		Code:      ErrCodeNotPositional,
		Tag:       tag,
		ElementID: id,
		Key:       key,
		Message:   fmt.Sprintf("attribute '%s' is not a position", key),
	}
}

// NewDependencyConflictError creates an error for an inconsistent enable or disable
func NewDependencyConflictError(tag Tag, id string, key Attr, reason string) *AttributeError {
	return &AttributeError{
		Code:      ErrCodeDependencyConflict,
		Tag:       tag,
		ElementID: id,
		Key:       key,
		Message:   reason,
	}
}

// NewElementRemovedError creates an error for access to a removed element
func NewElementRemovedError(tag Tag, id string) *AttributeError {
	return &AttributeError{
		Code:      ErrCodeElementRemoved,
		Tag:       tag,
		ElementID: id,
		Message:   "element was removed from its net",
	}
}

// NewDuplicateIDError creates an error for an id already in use
func NewDuplicateIDError(tag Tag, id string) *AttributeError {
	return &AttributeError{
		Code:      ErrCodeDuplicateID,
		Tag:       tag,
		ElementID: id,
		Key:       AttrID,
		Value:     id,
		Message:   fmt.Sprintf("id '%s' is already used by another %s", id, tag),
	}
}

// UndoError represents undo list misuse
type UndoError struct {
	Code    ErrorCode
	Message string
}

func (e *UndoError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("undo error: %s", e.Code)
	}
	return fmt.Sprintf("undo error: %s", e.Message)
}

// Is matches another UndoError with the same code
func (e *UndoError) Is(target error) bool {
	t, ok := target.(*UndoError)
	return ok && t.Code == e.Code
}

// IsAttributeError checks if an error is an AttributeError
func IsAttributeError(err error) bool {
	_, ok := err.(*AttributeError)
	return ok
}

// IsUndoError checks if an error is an UndoError
func IsUndoError(err error) bool {
	_, ok := err.(*UndoError)
	return ok
}

// GetErrorCode returns the error code for known error types
func GetErrorCode(err error) ErrorCode {
	switch e := err.(type) {
	case *AttributeError:
		return e.Code
	case *UndoError:
		return e.Code
	default:
		return ErrCodeNone
	}
}
