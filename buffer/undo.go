package buffer

import "slices"

// UndoableAction is one entry of a buffer's undo or redo stack.
type UndoableAction interface {
	undo(b *Buffer)
	redo(b *Buffer)
	tag() *versionTag
}

// versionTag ties an action to the buffer version that was on disk when
// the action was recorded against a clean buffer.
type versionTag struct {
	version int
	tagged  bool
}

func (t *versionTag) tag() *versionTag { return t }

func (t *versionTag) set(v int) {
	t.version = v
	t.tagged = true
}

func (t *versionTag) clear() {
	*t = versionTag{}
}

func (t *versionTag) matches(v int) bool {
	return t.tagged && t.version == v
}

// Version returns the tagged version, if any.
func (t *versionTag) Version() (int, bool) {
	return t.version, t.tagged
}

type InsertAction struct {
	versionTag
	Location int
	Text     string
}

func (a *InsertAction) undo(b *Buffer) {
	b.point = a.Location
	b.deleteSpan(a.Location, a.Location+len(a.Text), a.Location)
}

func (a *InsertAction) redo(b *Buffer) {
	b.point = a.Location
	b.insertText(a.Text, false)
}

type DeleteAction struct {
	versionTag
	Location         int // point before the deletion
	ReinsertLocation int // start of the deleted span
	Text             string
}

func (a *DeleteAction) undo(b *Buffer) {
	b.point = a.ReinsertLocation
	b.insertText(a.Text, false)
	b.point = a.Location
}

func (a *DeleteAction) redo(b *Buffer) {
	b.point = a.ReinsertLocation
	b.deleteSpan(a.ReinsertLocation, a.ReinsertLocation+len(a.Text), a.Location)
}

// CompositeAction groups the actions recorded by one CompositeEdit.
type CompositeAction struct {
	versionTag
	Actions []UndoableAction
}

func (a *CompositeAction) undo(b *Buffer) {
	for i := len(a.Actions) - 1; i >= 0; i-- {
		a.Actions[i].undo(b)
	}
}

func (a *CompositeAction) redo(b *Buffer) {
	for _, act := range a.Actions {
		act.redo(b)
	}
}

type undoLog struct {
	undoStack []UndoableAction
	redoStack []UndoableAction
	limit     int
	replaying bool

	compositeLevel int
	composite      []UndoableAction
	compositeClean bool
}

func (u *undoLog) reset() {
	u.undoStack = nil
	u.redoStack = nil
	u.composite = nil
}

// recordAction logs an edit that has just been applied. Replays and
// disabled logs record nothing.
func (b *Buffer) recordAction(a UndoableAction) {
	u := &b.undo
	if u.replaying || u.limit <= 0 {
		return
	}
	if u.compositeLevel > 0 {
		u.composite = append(u.composite, a)
		return
	}
	b.pushUndo(a, !b.modified)
}

// pushUndo must run before the edit flips the modified flag; clean tells
// whether the buffer matched the file just before the edit.
func (b *Buffer) pushUndo(a UndoableAction, clean bool) {
	u := &b.undo
	if n := len(u.undoStack) + 1 - u.limit; n > 0 {
		u.undoStack = slices.Delete(u.undoStack, 0, n)
	}
	if clean {
		a.tag().set(b.version)
	}
	u.undoStack = append(u.undoStack, a)
	clear(u.redoStack)
	u.redoStack = u.redoStack[:0]
}

func (b *Buffer) mergeInsert(pos int, s string) {
	u := &b.undo
	if u.replaying || u.limit <= 0 {
		return
	}
	stack := u.undoStack
	if u.compositeLevel > 0 {
		stack = u.composite
	}
	if len(stack) > 0 && b.modified {
		if top, ok := stack[len(stack)-1].(*InsertAction); ok && top.Location+len(top.Text) == pos {
			top.Text += s
			clear(u.redoStack)
			u.redoStack = u.redoStack[:0]
			return
		}
	}
	b.recordAction(&InsertAction{Location: pos, Text: s})
}

// CompositeEdit runs fn and records every edit it makes as one undo step.
// Calls nest; the outermost call pushes the step.
func (b *Buffer) CompositeEdit(fn func() error) error {
	u := &b.undo
	if u.compositeLevel == 0 {
		u.compositeClean = !b.modified
	}
	u.compositeLevel++
	defer func() {
		u.compositeLevel--
		if u.compositeLevel == 0 && len(u.composite) > 0 {
			actions := u.composite
			u.composite = nil
			b.pushUndo(&CompositeAction{Actions: actions}, u.compositeClean)
		}
	}()
	return fn()
}

func (b *Buffer) CanUndo() bool { return len(b.undo.undoStack) > 0 }
func (b *Buffer) CanRedo() bool { return len(b.undo.redoStack) > 0 }

// UndoStack returns the recorded actions, oldest first.
func (b *Buffer) UndoStack() []UndoableAction {
	return slices.Clone(b.undo.undoStack)
}

// Undo reverts the most recent action. Undoing back to the state of the
// last save leaves the buffer unmodified.
func (b *Buffer) Undo() error {
	if err := b.checkWritable(); err != nil {
		return err
	}
	u := &b.undo
	if len(u.undoStack) == 0 {
		return ErrNoUndo
	}
	a := u.undoStack[len(u.undoStack)-1]
	u.undoStack = u.undoStack[:len(u.undoStack)-1]
	b.replay(a, UndoableAction.undo)
	u.redoStack = append(u.redoStack, a)
	return nil
}

// Redo reapplies the most recently undone action.
func (b *Buffer) Redo() error {
	if err := b.checkWritable(); err != nil {
		return err
	}
	u := &b.undo
	if len(u.redoStack) == 0 {
		return ErrNoRedo
	}
	a := u.redoStack[len(u.redoStack)-1]
	u.redoStack = u.redoStack[:len(u.redoStack)-1]
	b.replay(a, UndoableAction.redo)
	u.undoStack = append(u.undoStack, a)
	return nil
}

// replay applies a without recording it and moves the clean boundary:
// an action tagged with the current version leads back to the saved
// state, and an action applied to a clean buffer leads away from it.
func (b *Buffer) replay(a UndoableAction, apply func(UndoableAction, *Buffer)) {
	u := &b.undo
	u.replaying = true
	defer func() { u.replaying = false }()

	wasModified := b.modified
	apply(a, b)
	tag := a.tag()
	switch {
	case tag.matches(b.version):
		b.modified = false
		tag.clear()
	case !wasModified:
		tag.set(b.version)
	}
}
