package formdata

import (
	"io"
	"mime"
	"net/textproto"
	"net/url"
	"path/filepath"
)

// File is an uploaded file held in memory.
type File struct {
	// Filename is the original filename provided by the client.
	Filename string

	// Size is the size of the file in bytes.
	Size int64

	// Header contains the MIME header fields for this file part.
	Header textproto.MIMEHeader

	// Content holds the file data.
	Content []byte
}

// ContentType returns the MIME type of the uploaded file. It first checks
// the Content-Type header, then falls back to detecting the type from the
// file extension.
func (f *File) ContentType() string {
	if ct := f.Header.Get("Content-Type"); ct != "" {
		mediaType, _, _ := mime.ParseMediaType(ct)
		return mediaType
	}
	return mime.TypeByExtension(filepath.Ext(f.Filename))
}

// Form is a fully parsed multipart form.
type Form struct {
	// Values maps field names to their decoded values, in arrival order.
	Values url.Values

	// Files maps field names to uploaded files, in arrival order.
	Files map[string][]*File
}

// GetFile returns the first file uploaded under the given field name, or nil
// when there is none.
func (f *Form) GetFile(name string) *File {
	files := f.Files[name]
	if len(files) == 0 {
		return nil
	}
	return files[0]
}

// Parse decodes a multipart/form-data stream into an in-memory Form. The
// boundary and charset come from the request's Content-Type header
// parameters.
//
//	form, err := formdata.Parse(r.Body, boundary, charset)
//	if err != nil {
//		// map to a client-error response
//	}
//	title := form.Values.Get("title")
//	avatar := form.GetFile("avatar")
//
// Use ParseStream instead when file payloads should not be held in memory.
func Parse(r io.Reader, boundary, charset string, opts ...Option) (*Form, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	form := &Form{
		Values: make(url.Values),
		Files:  make(map[string][]*File),
	}
	sink := &memorySink{form: form, limit: cfg.maxMemory}
	if err := ParseStream(r, boundary, charset, sink, opts...); err != nil {
		return nil, err
	}
	return form, nil
}

// memorySink accumulates parts into a Form, charging file bytes against the
// memory limit (field bytes are charged by ParseStream).
type memorySink struct {
	form  *Form
	limit int64
	used  int64
}

func (s *memorySink) Field(name, value string) error {
	s.form.Values.Add(name, value)
	return nil
}

func (s *memorySink) File(name, filename string, header textproto.MIMEHeader) (io.Writer, error) {
	file := &File{Filename: filename, Header: header}
	s.form.Files[name] = append(s.form.Files[name], file)
	return &fileWriter{sink: s, file: file}, nil
}

type fileWriter struct {
	sink *memorySink
	file *File
}

func (w *fileWriter) Write(p []byte) (int, error) {
	w.sink.used += int64(len(p))
	if w.sink.used > w.sink.limit {
		return 0, ErrFormTooLarge
	}
	w.file.Content = append(w.file.Content, p...)
	w.file.Size = int64(len(w.file.Content))
	return len(p), nil
}
