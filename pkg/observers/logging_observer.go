// Package observers provides observers for monitoring attribute edits
package observers

import (
	"github.com/anggasct/netedit"
	"github.com/charmbracelet/log"
)

// LoggingObserver logs attribute edits through a structured logger
type LoggingObserver struct {
	netedit.BaseObserver
	logger *log.Logger
}

// NewLoggingObserver creates a logging observer writing to logger
func NewLoggingObserver(logger *log.Logger) *LoggingObserver {
	return &LoggingObserver{logger: logger}
}

// Logger returns the underlying logger
func (o *LoggingObserver) Logger() *log.Logger {
	return o.logger
}

// OnAttributeChanged logs applied values
func (o *LoggingObserver) OnAttributeChanged(element netedit.AttributeCarrier, key netedit.Attr, old, value string) {
	o.logger.Info("attribute changed", "tag", element.Tag(), "id", element.ID(), "key", key, "old", old, "new", value)
}

// OnAttributeToggled logs enabled set changes
func (o *LoggingObserver) OnAttributeToggled(element netedit.AttributeCarrier, old, enabled netedit.EnabledSet) {
	o.logger.Info("attributes toggled", "tag", element.Tag(), "id", element.ID(),
		"enabled", attrNames(enabled.Keys()), "previous", attrNames(old.Keys()))
}

// OnValidationFailed logs rejected edits
func (o *LoggingObserver) OnValidationFailed(element netedit.AttributeCarrier, key netedit.Attr, value string, err error) {
	o.logger.Warn("edit rejected", "tag", element.Tag(), "id", element.ID(), "key", key, "value", value, "err", err)
}

// OnUndo logs undone groups
func (o *LoggingObserver) OnUndo(group *netedit.ChangeGroup) {
	o.logger.Info("undo", "group", group.Description, "changes", len(group.Changes()))
}

// OnRedo logs redone groups
func (o *LoggingObserver) OnRedo(group *netedit.ChangeGroup) {
	o.logger.Info("redo", "group", group.Description, "changes", len(group.Changes()))
}

// OnElementAdded logs registrations
func (o *LoggingObserver) OnElementAdded(element netedit.AttributeCarrier) {
	o.logger.Debug("element added", "tag", element.Tag(), "id", element.ID())
}

// OnElementRemoved logs removals
func (o *LoggingObserver) OnElementRemoved(element netedit.AttributeCarrier) {
	o.logger.Debug("element removed", "tag", element.Tag(), "id", element.ID())
}

// OnError logs errors
func (o *LoggingObserver) OnError(err error) {
	o.logger.Error("error", "err", err)
}

func attrNames(keys []netedit.Attr) []string {
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = k.String()
	}
	return names
}
