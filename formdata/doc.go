// Package formdata assembles multipart/form-data bodies into fields and
// files using the event decoder from the multipart package.
//
// Two entry points cover the common cases:
//
//   - Parse reads the whole form into memory, returning field values and
//     file contents. Suitable for small forms and the default memory limit
//     keeps a hostile body from exhausting memory.
//   - ParseStream delivers file payloads to caller-supplied writers as the
//     bytes arrive, so large uploads can go straight to disk or object
//     storage without being buffered.
//
// Basic usage:
//
//	mediaType, params, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
//	if err != nil || mediaType != "multipart/form-data" {
//		// not a multipart request
//	}
//	form, err := formdata.Parse(r.Body, params["boundary"], params["charset"])
//	if err != nil {
//		// 400-class response
//	}
//	name := form.Values.Get("name")
//	upload := form.GetFile("document")
//
// Streaming usage with a custom sink:
//
//	type diskSink struct{ dir string }
//
//	func (s *diskSink) Field(name, value string) error { ... }
//
//	func (s *diskSink) File(name, filename string, h textproto.MIMEHeader) (io.Writer, error) {
//		return os.Create(filepath.Join(s.dir, filepath.Base(filename)))
//	}
//
//	err := formdata.ParseStream(r.Body, boundary, charset, &diskSink{dir: tmp},
//		formdata.WithMaxParts(100),
//	)
//
// Limits are configured with functional options: WithMaxParts bounds the
// part count, WithMaxMemory bounds bytes buffered in memory, WithChunkSize
// tunes read granularity. Field values are decoded with the declared charset
// via multipart.SafeDecode and therefore never fail to decode.
package formdata
