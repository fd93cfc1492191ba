package formdata

import (
	"bytes"
	"io"
	"net/textproto"

	"github.com/dmitrymomot/httpkit/multipart"
)

// Sink receives the parts of a multipart form as they are decoded.
//
// Field is called once per non-file field with its fully accumulated,
// charset-decoded value. File is called when a file part starts; the
// returned writer receives the file payload as it arrives and, if it also
// implements io.Closer, is closed when the part ends. A nil writer discards
// the payload.
type Sink interface {
	Field(name, value string) error
	File(name, filename string, header textproto.MIMEHeader) (io.Writer, error)
}

// ParseStream decodes a multipart/form-data stream, delivering fields and
// files to sink without buffering file payloads in memory. The boundary and
// charset come from the request's Content-Type header parameters; an empty
// charset defaults to UTF-8.
//
// Any error returned by sink aborts parsing and is returned as-is.
//
//	err := formdata.ParseStream(r.Body, boundary, charset, sink)
func ParseStream(r io.Reader, boundary, charset string, sink Sink, opts ...Option) error {
	if charset == "" {
		charset = "utf-8"
	}
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	dec, err := multipart.NewDecoder([]byte(boundary), charset)
	if err != nil {
		return err
	}

	var (
		fieldName string
		fieldBuf  bytes.Buffer
		fieldMem  int64
		fileDst   io.Writer
		isFile    bool
		parts     int
	)

	buf := make([]byte, cfg.chunkSize)
	for {
		n, readErr := r.Read(buf)
		if n > 0 {
			dec.ReceiveData(buf[:n])
		}
		switch {
		case readErr == io.EOF:
			dec.ReceiveData(nil)
		case readErr != nil:
			return readErr
		}

	events:
		for {
			ev, err := dec.NextEvent()
			if err != nil {
				return err
			}
			switch ev := ev.(type) {
			case multipart.NeedData:
				break events

			case multipart.Epilogue:
				return nil

			case multipart.Preamble:
				// Discarded.

			case multipart.Field:
				fieldName = ev.Name
				isFile = false
				fieldBuf.Reset()

			case multipart.File:
				isFile = true
				fileDst, err = sink.File(ev.Name, ev.Filename, ev.Headers)
				if err != nil {
					return err
				}

			case multipart.Data:
				if isFile {
					if fileDst != nil {
						if _, err := fileDst.Write(ev.Data); err != nil {
							return err
						}
					}
				} else {
					fieldMem += int64(len(ev.Data))
					if fieldMem > cfg.maxMemory {
						return ErrFormTooLarge
					}
					fieldBuf.Write(ev.Data)
				}

				if !ev.MoreData {
					parts++
					if parts > cfg.maxParts {
						return ErrTooManyParts
					}
					if isFile {
						if closer, ok := fileDst.(io.Closer); ok {
							if err := closer.Close(); err != nil {
								return err
							}
						}
						fileDst = nil
					} else {
						value := multipart.SafeDecode(fieldBuf.Bytes(), charset)
						if err := sink.Field(fieldName, value); err != nil {
							return err
						}
						fieldBuf.Reset()
					}
				}
			}
		}

		if readErr == io.EOF {
			// The decoder consumed the complete input without reaching the
			// epilogue; NextEvent reports this as ErrMalformed above, so
			// this is unreachable in practice. Guard against a stuck loop.
			return multipart.ErrMalformed
		}
	}
}
