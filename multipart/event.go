package multipart

import "net/textproto"

// Event is one decoded unit of a multipart message. The concrete types are
// Preamble, Field, File, Data, Epilogue and NeedData; callers type-switch on
// the returned value:
//
//	switch ev := dec.NextEvent(); ev := ev.(type) {
//	case multipart.Field:
//		// a form field starts; accumulate following Data events
//	case multipart.Data:
//		// payload chunk; ev.MoreData reports whether more chunks follow
//	}
//
// The set is closed; no other type satisfies Event.
type Event interface {
	event()
}

// Preamble carries the bytes that precede the first boundary. Most callers
// discard it.
type Preamble struct {
	Data []byte
}

// Field marks the start of a non-file form field.
type Field struct {
	// Name is the field name from the part's Content-Disposition header.
	Name string

	// Headers holds all headers of the part, keyed case-insensitively.
	Headers textproto.MIMEHeader
}

// File marks the start of a file part.
type File struct {
	// Name is the field name from the part's Content-Disposition header.
	Name string

	// Filename is the client-supplied file name.
	Filename string

	// Headers holds all headers of the part, keyed case-insensitively.
	Headers textproto.MIMEHeader
}

// Data carries a chunk of the current part's payload. A chunk never contains
// boundary bytes; the decoder withholds any buffer tail that could begin a
// boundary match until it is resolved.
type Data struct {
	Data []byte

	// MoreData is false on the final chunk of the current part.
	MoreData bool
}

// Epilogue carries the bytes after the closing boundary and marks the end of
// the message. Once emitted, NextEvent keeps returning Epilogue.
type Epilogue struct {
	Data []byte
}

// NeedData reports that the buffered bytes cannot produce another event.
// The caller must supply more input via ReceiveData before retrying.
type NeedData struct{}

func (Preamble) event() {}
func (Field) event()    {}
func (File) event()     {}
func (Data) event()     {}
func (Epilogue) event() {}
func (NeedData) event() {}
