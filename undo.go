package netedit

import (
	"time"

	"github.com/google/uuid"
)

// ChangeGroup is the unit undone or redone at once
type ChangeGroup struct {
	ID          string
	Description string
	Created     time.Time
	changes     []Change
}

// Changes returns the recorded changes in application order
func (g *ChangeGroup) Changes() []Change {
	result := make([]Change, len(g.changes))
	copy(result, g.changes)
	return result
}

func (g *ChangeGroup) undo() {
	for i := len(g.changes) - 1; i >= 0; i-- {
		g.changes[i].Undo()
	}
}

func (g *ChangeGroup) redo() {
	for _, c := range g.changes {
		c.Redo()
	}
}

// UndoList is an append-only log of change groups with undo and redo.
// A nil *UndoList is valid: it applies changes without recording them and
// reports an empty history.
type UndoList struct {
	undoStack []*ChangeGroup
	redoStack []*ChangeGroup
	open      *ChangeGroup
	depth     int
	limit     int
	observers *ObserverManager
}

// NewUndoList creates an undo list keeping at most limit groups, zero meaning unlimited
func NewUndoList(limit int) *UndoList {
	return &UndoList{
		undoStack: make([]*ChangeGroup, 0),
		redoStack: make([]*ChangeGroup, 0),
		limit:     limit,
		observers: NewObserverManager(),
	}
}

// Begin opens a group. Nested calls join the outermost group.
func (u *UndoList) Begin(description string) {
	if u == nil {
		return
	}
	if u.depth == 0 {
		u.open = newChangeGroup(description)
	}
	u.depth++
}

// End closes the innermost Begin. The outermost End commits the group.
func (u *UndoList) End() error {
	if u == nil {
		return nil
	}
	if u.depth == 0 {
		return ErrUnbalancedGroup
	}
	u.depth--
	if u.depth == 0 {
		group := u.open
		u.open = nil
		if len(group.changes) > 0 {
			u.commit(group)
		}
	}
	return nil
}

// Abort reverts every change of the open group and drops it
func (u *UndoList) Abort() error {
	if u == nil {
		return nil
	}
	if u.depth == 0 {
		return ErrUnbalancedGroup
	}
	group := u.open
	u.open = nil
	u.depth = 0
	group.undo()
	return nil
}

// Add applies c and records it
func (u *UndoList) Add(c Change) {
	c.Redo()
	if u == nil {
		return
	}
	if u.open != nil {
		u.open.changes = append(u.open.changes, c)
		return
	}
	group := newChangeGroup(c.Description())
	group.changes = append(group.changes, c)
	u.commit(group)
}

// Group runs fn inside Begin/End and aborts the group when fn fails
func (u *UndoList) Group(description string, fn func() error) error {
	u.Begin(description)
	if err := fn(); err != nil {
		// an inner group may already have aborted the whole group
		if u != nil && u.depth > 0 {
			if aerr := u.Abort(); aerr != nil {
				return aerr
			}
		}
		return err
	}
	return u.End()
}

// Undo reverts the most recent group
func (u *UndoList) Undo() error {
	if u == nil {
		return ErrNothingToUndo
	}
	if u.depth > 0 {
		return ErrUnbalancedGroup
	}
	if len(u.undoStack) == 0 {
		return ErrNothingToUndo
	}
	group := u.undoStack[len(u.undoStack)-1]
	u.undoStack = u.undoStack[:len(u.undoStack)-1]
	group.undo()
	u.redoStack = append(u.redoStack, group)
	u.observers.NotifyUndo(group)
	return nil
}

// Redo reapplies the most recently undone group
func (u *UndoList) Redo() error {
	if u == nil {
		return ErrNothingToRedo
	}
	if u.depth > 0 {
		return ErrUnbalancedGroup
	}
	if len(u.redoStack) == 0 {
		return ErrNothingToRedo
	}
	group := u.redoStack[len(u.redoStack)-1]
	u.redoStack = u.redoStack[:len(u.redoStack)-1]
	group.redo()
	u.undoStack = append(u.undoStack, group)
	u.observers.NotifyRedo(group)
	return nil
}

// CanUndo reports whether there is a group to undo
func (u *UndoList) CanUndo() bool {
	return u != nil && len(u.undoStack) > 0
}

// CanRedo reports whether there is a group to redo
func (u *UndoList) CanRedo() bool {
	return u != nil && len(u.redoStack) > 0
}

// UndoDescription returns the description of the group Undo would revert
func (u *UndoList) UndoDescription() string {
	if !u.CanUndo() {
		return ""
	}
	return u.undoStack[len(u.undoStack)-1].Description
}

// RedoDescription returns the description of the group Redo would reapply
func (u *UndoList) RedoDescription() string {
	if !u.CanRedo() {
		return ""
	}
	return u.redoStack[len(u.redoStack)-1].Description
}

// Len returns the number of undoable groups
func (u *UndoList) Len() int {
	if u == nil {
		return 0
	}
	return len(u.undoStack)
}

// Groups returns the undoable groups, oldest first
func (u *UndoList) Groups() []*ChangeGroup {
	if u == nil {
		return nil
	}
	result := make([]*ChangeGroup, len(u.undoStack))
	copy(result, u.undoStack)
	return result
}

// Clear drops the whole history
func (u *UndoList) Clear() {
	if u == nil {
		return
	}
	u.undoStack = u.undoStack[:0]
	u.redoStack = u.redoStack[:0]
}

// AddObserver registers an observer for undo and redo notifications
func (u *UndoList) AddObserver(observer Observer) {
	if u == nil {
		return
	}
	u.observers.AddObserver(observer)
}

// RemoveObserver unregisters an observer
func (u *UndoList) RemoveObserver(observer Observer) {
	if u == nil {
		return
	}
	u.observers.RemoveObserver(observer)
}

// forget drops the history together with the changes of an open group
func (u *UndoList) forget() {
	if u == nil {
		return
	}
	u.Clear()
	if u.open != nil {
		u.open.changes = nil
	}
}

func (u *UndoList) commit(group *ChangeGroup) {
	u.undoStack = append(u.undoStack, group)
	u.redoStack = u.redoStack[:0]
	if u.limit > 0 && len(u.undoStack) > u.limit {
		u.undoStack = append([]*ChangeGroup(nil), u.undoStack[len(u.undoStack)-u.limit:]...)
	}
}

func newChangeGroup(description string) *ChangeGroup {
	return &ChangeGroup{
		ID:          uuid.New().String(),
		Description: description,
		Created:     time.Now(),
	}
}
