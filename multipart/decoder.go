package multipart

import (
	"bytes"
	"fmt"
	"mime"
	"net/textproto"
	"regexp"
	"strings"
)

// Multipart line breaks MUST be CRLF (\r\n) by RFC 7578, except that many
// implementations break this and use CR or LF alone.
const lineBreak = `(?:\r\n|\n|\r)`

var (
	blankLineRE = regexp.MustCompile(`\r\n\r\n|\r\r|\n\n`)
	lineBreakRE = regexp.MustCompile(lineBreak)
	// Header values can be continued via a space or tab after the line
	// break, as per RFC 2231.
	headerContinuationRE = regexp.MustCompile(lineBreak + `[ \t]`)
)

type state int

const (
	statePreamble state = iota
	statePart
	stateData
	stateEpilogue
	stateComplete
)

func (s state) String() string {
	switch s {
	case statePreamble:
		return "preamble"
	case statePart:
		return "part"
	case stateData:
		return "data"
	case stateEpilogue:
		return "epilogue"
	default:
		return "complete"
	}
}

// Decoder incrementally decodes a multipart message into events. Part data
// is surfaced as it becomes available so the caller can move it from memory
// to disk if desired.
//
// A Decoder performs no I/O: the caller feeds raw bytes with ReceiveData and
// drains events with NextEvent. One Decoder serves exactly one message and
// must not be used from multiple goroutines.
type Decoder struct {
	buffer   []byte
	complete bool
	state    state
	charset  string
	err      error

	dashBoundary []byte // "--" + boundary, used for the cheap containment probe
	preambleRE   *regexp.Regexp
	boundaryRE   *regexp.Regexp
}

// NewDecoder creates a Decoder for a message delimited by boundary, as
// declared by the boundary parameter of the Content-Type header. Field and
// header bytes are decoded using charset (see SafeDecode).
//
// Boundary comparison is byte-exact. An empty boundary is rejected with
// ErrEmptyBoundary. An empty charset defaults to UTF-8.
func NewDecoder(boundary []byte, charset string) (*Decoder, error) {
	if len(boundary) == 0 {
		return nil, ErrEmptyBoundary
	}
	if charset == "" {
		charset = "utf-8"
	}

	escaped := regexp.QuoteMeta(string(boundary))
	// The boundary suffix distinguishes a part boundary from the closing
	// "--boundary--" form, hence the capture group. Trailing horizontal
	// whitespace is tolerated on both.
	suffix := `(--[ \t]*` + lineBreak + `?|[ \t]*` + lineBreak + `)`

	return &Decoder{
		state:        statePreamble,
		charset:      charset,
		dashBoundary: append([]byte("--"), boundary...),
		// The preamble must end with a boundary prefixed by a line break
		// (RFC 2046), except that many implementations omit the prefix for
		// the first boundary. The first boundary may also be the closing
		// one, for an empty message.
		preambleRE: regexp.MustCompile(lineBreak + `?--` + escaped + suffix),
		boundaryRE: regexp.MustCompile(lineBreak + `--` + escaped + suffix),
	}, nil
}

// ReceiveData appends data to the internal buffer. No parsing happens here;
// the call never fails. A nil chunk marks the end of input, after which the
// remaining buffered bytes must decode to a complete message. An empty
// non-nil chunk is a no-op.
func (d *Decoder) ReceiveData(data []byte) {
	if data == nil {
		d.complete = true
		return
	}
	d.buffer = append(d.buffer, data...)
}

// NextEvent produces the next event from buffered bytes. It returns NeedData
// when the buffer cannot yet yield a complete event, in which case nothing
// is consumed and the caller must feed more input.
//
// A non-nil error reports structural corruption (ErrMalformed) and is
// terminal: every subsequent call returns the same error.
func (d *Decoder) NextEvent() (Event, error) {
	if d.err != nil {
		return nil, d.err
	}

	var event Event = NeedData{}

	switch d.state {
	case statePreamble:
		if m := d.preambleRE.FindSubmatchIndex(d.buffer); m != nil {
			if bytes.HasPrefix(d.buffer[m[2]:m[3]], []byte("--")) {
				d.state = stateEpilogue
			} else {
				d.state = statePart
			}
			data := bytes.Clone(d.buffer[:m[0]])
			d.buffer = d.buffer[m[1]:]
			event = Preamble{Data: data}
		}

	case statePart:
		if m := blankLineRE.FindIndex(d.buffer); m != nil {
			headers, err := d.parseHeaders(d.buffer[:m[0]])
			if err != nil {
				return nil, d.fail(err)
			}
			d.buffer = d.buffer[m[1]:]

			disposition := headers.Get("Content-Disposition")
			if disposition == "" {
				return nil, d.fail(fmt.Errorf("%w: missing Content-Disposition header", ErrMalformed))
			}
			_, params, err := mime.ParseMediaType(disposition)
			if err != nil {
				return nil, d.fail(fmt.Errorf("%w: invalid Content-Disposition header: %v", ErrMalformed, err))
			}

			name := params["name"]
			if filename, ok := params["filename"]; ok {
				event = File{Name: name, Filename: filename, Headers: headers}
			} else {
				event = Field{Name: name, Headers: headers}
			}
			d.state = stateData
		}

	case stateData:
		var dataLen, consume int
		moreData := true
		if !bytes.Contains(d.buffer, d.dashBoundary) {
			// No complete boundary in the buffer, but there may be a
			// partial one at the end. As the boundary starts with either
			// a CR or LF, find the earliest and emit up to that as data.
			dataLen = d.lastNewline()
			consume = dataLen
		} else if m := d.boundaryRE.FindSubmatchIndex(d.buffer); m != nil {
			if bytes.HasPrefix(d.buffer[m[2]:m[3]], []byte("--")) {
				d.state = stateEpilogue
			} else {
				d.state = statePart
			}
			dataLen, consume = m[0], m[1]
			moreData = false
		} else {
			dataLen = d.lastNewline()
			consume = dataLen
		}

		data := bytes.Clone(d.buffer[:dataLen])
		d.buffer = d.buffer[consume:]
		if len(data) > 0 || !moreData {
			event = Data{Data: data, MoreData: moreData}
		}

	case stateEpilogue:
		if d.complete {
			event = Epilogue{Data: bytes.Clone(d.buffer)}
			d.buffer = nil
			d.state = stateComplete
		}

	case stateComplete:
		return Epilogue{}, nil
	}

	if d.complete {
		if _, need := event.(NeedData); need {
			return nil, d.fail(fmt.Errorf("%w: unexpected end of input in %s", ErrMalformed, d.state))
		}
	}
	return event, nil
}

func (d *Decoder) fail(err error) error {
	d.err = err
	return err
}

// lastNewline reports the earliest index from which a partial boundary match
// could start, i.e. the first of the last CR and the last LF in the buffer.
func (d *Decoder) lastNewline() int {
	lastNL := bytes.LastIndexByte(d.buffer, '\n')
	if lastNL == -1 {
		lastNL = len(d.buffer)
	}
	lastCR := bytes.LastIndexByte(d.buffer, '\r')
	if lastCR == -1 {
		lastCR = len(d.buffer)
	}
	return min(lastNL, lastCR)
}

func (d *Decoder) parseHeaders(data []byte) (textproto.MIMEHeader, error) {
	headers := make(textproto.MIMEHeader)
	// Merge continued headers into one line, then there is one header per line.
	merged := headerContinuationRE.ReplaceAllLiteral(data, []byte(" "))
	for _, line := range lineBreakRE.Split(string(merged), -1) {
		line = strings.TrimSpace(SafeDecode([]byte(line), d.charset))
		if line == "" {
			continue
		}
		name, value, ok := strings.Cut(line, ":")
		if !ok {
			return nil, fmt.Errorf("%w: header line %q has no colon", ErrMalformed, line)
		}
		headers.Add(strings.TrimSpace(name), strings.TrimSpace(value))
	}
	return headers, nil
}
