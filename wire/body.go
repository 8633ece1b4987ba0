package wire

import "io"

// Body is a finite byte sequence of exactly Content-Length bytes, empty if
// the header was absent. It is readable exactly once; the parser rewinds it
// before the request enters the pipeline, so no stage ever observes a
// non-zero cursor on first access.
type Body struct {
	content []byte
	pos     int
}

// Reset arms the body with new content and brings the cursor to the start.
func (b *Body) Reset(content []byte) {
	b.content = content
	b.pos = 0
}

// Read implements io.Reader over the remaining content. A zero-length body
// returns io.EOF immediately and never blocks.
func (b *Body) Read(p []byte) (int, error) {
	if b.pos >= len(b.content) {
		return 0, io.EOF
	}

	n := copy(p, b.content[b.pos:])
	b.pos += n

	return n, nil
}

// Bytes consumes and returns the remaining content.
func (b *Body) Bytes() []byte {
	data := b.content[b.pos:]
	b.pos = len(b.content)

	return data
}

// Rewind brings the cursor back to the start.
func (b *Body) Rewind() {
	b.pos = 0
}

// Len returns the total body length, regardless of the cursor.
func (b *Body) Len() int {
	return len(b.content)
}
