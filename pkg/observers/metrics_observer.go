package observers

import (
	"sync"

	"github.com/anggasct/netedit"
)

// MetricsObserver counts attribute edits
type MetricsObserver struct {
	changeCounts    map[string]int
	toggleCounts    map[string]int
	rejectionCounts map[string]int
	undoCount       int
	redoCount       int
	elementCount    int
	errorCount      int
	mutex           sync.RWMutex
}

// NewMetricsObserver creates a new metrics observer
func NewMetricsObserver() *MetricsObserver {
	return &MetricsObserver{
		changeCounts:    make(map[string]int),
		toggleCounts:    make(map[string]int),
		rejectionCounts: make(map[string]int),
	}
}

// metricKey names a counter by element kind and attribute, as in "e1Instant.pos"
func metricKey(tag netedit.Tag, key netedit.Attr) string {
	return string(tag) + "." + key.String()
}

// OnAttributeChanged records applied values
func (o *MetricsObserver) OnAttributeChanged(element netedit.AttributeCarrier, key netedit.Attr, old, value string) {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	o.changeCounts[metricKey(element.Tag(), key)]++
}

// OnAttributeToggled records every key whose enabled state flipped
func (o *MetricsObserver) OnAttributeToggled(element netedit.AttributeCarrier, old, enabled netedit.EnabledSet) {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	for _, key := range (old ^ enabled).Keys() {
		o.toggleCounts[metricKey(element.Tag(), key)]++
	}
}

// OnValidationFailed records rejected edits
func (o *MetricsObserver) OnValidationFailed(element netedit.AttributeCarrier, key netedit.Attr, value string, err error) {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	o.rejectionCounts[metricKey(element.Tag(), key)]++
}

// OnUndo records undo operations
func (o *MetricsObserver) OnUndo(group *netedit.ChangeGroup) {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	o.undoCount++
}

// OnRedo records redo operations
func (o *MetricsObserver) OnRedo(group *netedit.ChangeGroup) {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	o.redoCount++
}

// OnElementAdded tracks the number of live elements
func (o *MetricsObserver) OnElementAdded(element netedit.AttributeCarrier) {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	o.elementCount++
}

// OnElementRemoved tracks the number of live elements
func (o *MetricsObserver) OnElementRemoved(element netedit.AttributeCarrier) {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	o.elementCount--
}

// OnError records error metrics
func (o *MetricsObserver) OnError(err error) {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	o.errorCount++
}

// GetChangeCounts returns the number of applied values per "<tag>.<key>"
func (o *MetricsObserver) GetChangeCounts() map[string]int {
	o.mutex.RLock()
	defer o.mutex.RUnlock()

	return copyCounts(o.changeCounts)
}

// GetToggleCounts returns the number of enable or disable flips per "<tag>.<key>"
func (o *MetricsObserver) GetToggleCounts() map[string]int {
	o.mutex.RLock()
	defer o.mutex.RUnlock()

	return copyCounts(o.toggleCounts)
}

// GetRejectionCounts returns the number of rejected edits per "<tag>.<key>"
func (o *MetricsObserver) GetRejectionCounts() map[string]int {
	o.mutex.RLock()
	defer o.mutex.RUnlock()

	return copyCounts(o.rejectionCounts)
}

// GetUndoCount returns the number of undone groups
func (o *MetricsObserver) GetUndoCount() int {
	o.mutex.RLock()
	defer o.mutex.RUnlock()

	return o.undoCount
}

// GetRedoCount returns the number of redone groups
func (o *MetricsObserver) GetRedoCount() int {
	o.mutex.RLock()
	defer o.mutex.RUnlock()

	return o.redoCount
}

// GetElementCount returns the number of elements currently registered
func (o *MetricsObserver) GetElementCount() int {
	o.mutex.RLock()
	defer o.mutex.RUnlock()

	return o.elementCount
}

// GetErrorCount returns the number of errors
func (o *MetricsObserver) GetErrorCount() int {
	o.mutex.RLock()
	defer o.mutex.RUnlock()

	return o.errorCount
}

// Reset resets all metrics
func (o *MetricsObserver) Reset() {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	o.changeCounts = make(map[string]int)
	o.toggleCounts = make(map[string]int)
	o.rejectionCounts = make(map[string]int)
	o.undoCount = 0
	o.redoCount = 0
	o.elementCount = 0
	o.errorCount = 0
}

func copyCounts(counts map[string]int) map[string]int {
	result := make(map[string]int, len(counts))
	for k, v := range counts {
		result[k] = v
	}
	return result
}
