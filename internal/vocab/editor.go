package vocab

// Editor is the editing surface a lookup runs against: it supplies the
// selection, takes the replacement link and shows notices.
type Editor interface {
	Selection() string
	ReplaceSelection(text string)
	Notice(msg string)
}

// Buffer is an in-memory Editor used by the CLI, HTTP and MCP adapters.
type Buffer struct {
	selection string
	replaced  bool
	notices   []string
}

// NewBuffer returns a Buffer whose selection is text.
func NewBuffer(text string) *Buffer {
	return &Buffer{selection: text}
}

func (b *Buffer) Selection() string { return b.selection }

func (b *Buffer) ReplaceSelection(text string) {
	b.selection = text
	b.replaced = true
}

func (b *Buffer) Notice(msg string) { b.notices = append(b.notices, msg) }

// Text returns the current selection, after any replacement.
func (b *Buffer) Text() string { return b.selection }

// Replaced reports whether the selection was replaced.
func (b *Buffer) Replaced() bool { return b.replaced }

// Notices returns the notices shown so far, oldest first.
func (b *Buffer) Notices() []string {
	if b.notices == nil {
		return []string{}
	}
	return b.notices
}
