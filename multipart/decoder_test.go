package multipart_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/httpkit/multipart"
)

// drain pulls events until Epilogue, an error, or NeedData.
func drain(t *testing.T, dec *multipart.Decoder) []multipart.Event {
	t.Helper()
	var events []multipart.Event
	for {
		ev, err := dec.NextEvent()
		require.NoError(t, err)
		switch ev.(type) {
		case multipart.NeedData:
			return events
		case multipart.Epilogue:
			return append(events, ev)
		default:
			events = append(events, ev)
		}
	}
}

// collapse merges consecutive Data events into one payload per part and
// strips Epilogue payloads so that event sequences can be compared across
// different input chunkings.
func collapse(events []multipart.Event) []multipart.Event {
	var out []multipart.Event
	var payload []byte
	inData := false
	for _, ev := range events {
		if _, ok := ev.(multipart.Epilogue); ok {
			ev = multipart.Epilogue{}
		}
		if d, ok := ev.(multipart.Data); ok {
			payload = append(payload, d.Data...)
			inData = true
			if !d.MoreData {
				out = append(out, multipart.Data{Data: payload, MoreData: false})
				payload = nil
				inData = false
			}
			continue
		}
		if inData {
			out = append(out, multipart.Data{Data: payload, MoreData: true})
			payload = nil
			inData = false
		}
		out = append(out, ev)
	}
	return out
}

func TestDecoder_SimpleBody(t *testing.T) {
	boundary := []byte("---------------------------9704338192090380615194531385$")
	dec, err := multipart.NewDecoder(boundary, "utf-8")
	require.NoError(t, err)

	body := strings.ReplaceAll(`
-----------------------------9704338192090380615194531385$
Content-Disposition: form-data; name="fname"

ß∑œß∂ƒå∂
-----------------------------9704338192090380615194531385$
Content-Disposition: form-data; name="lname"; filename="bob"

asdasd
-----------------------------9704338192090380615194531385$--
    `, "\n", "\r\n")

	dec.ReceiveData([]byte(body))
	dec.ReceiveData(nil)

	events := drain(t, dec)
	require.Len(t, events, 6)

	pre, ok := events[0].(multipart.Preamble)
	require.True(t, ok)
	assert.Empty(t, pre.Data)

	field, ok := events[1].(multipart.Field)
	require.True(t, ok)
	assert.Equal(t, "fname", field.Name)
	assert.Equal(t, `form-data; name="fname"`, field.Headers.Get("Content-Disposition"))

	assert.Equal(t, multipart.Data{Data: []byte("ß∑œß∂ƒå∂"), MoreData: false}, events[2])

	file, ok := events[3].(multipart.File)
	require.True(t, ok)
	assert.Equal(t, "lname", file.Name)
	assert.Equal(t, "bob", file.Filename)

	assert.Equal(t, multipart.Data{Data: []byte("asdasd"), MoreData: false}, events[4])
	assert.Equal(t, multipart.Epilogue{Data: []byte("    ")}, events[5])
}

func TestDecoder_ChunkedBoundaries(t *testing.T) {
	dec, err := multipart.NewDecoder([]byte("boundary"), "utf-8")
	require.NoError(t, err)

	next := func() multipart.Event {
		ev, err := dec.NextEvent()
		require.NoError(t, err)
		return ev
	}

	dec.ReceiveData([]byte("--"))
	assert.IsType(t, multipart.NeedData{}, next())
	dec.ReceiveData([]byte("boundary\r\n"))
	assert.IsType(t, multipart.Preamble{}, next())
	dec.ReceiveData([]byte("Content-Disposition: form-data;"))
	assert.IsType(t, multipart.NeedData{}, next())
	dec.ReceiveData([]byte("name=\"fname\"\r\n\r\n"))
	assert.IsType(t, multipart.Field{}, next())
	dec.ReceiveData([]byte("longer than the boundary"))
	assert.IsType(t, multipart.Data{}, next())
	dec.ReceiveData([]byte("also longer, but includes a linebreak\r\n--"))
	assert.IsType(t, multipart.Data{}, next())
	assert.IsType(t, multipart.NeedData{}, next())
	dec.ReceiveData([]byte("boundary-"))
	assert.IsType(t, multipart.NeedData{}, next())
	dec.ReceiveData([]byte("-\r\n"))
	ev := next()
	data, ok := ev.(multipart.Data)
	require.True(t, ok)
	assert.False(t, data.MoreData)
	dec.ReceiveData(nil)
	assert.IsType(t, multipart.Epilogue{}, next())
}

func TestDecoder_SpecScenario(t *testing.T) {
	dec, err := multipart.NewDecoder([]byte("XYZ"), "utf-8")
	require.NoError(t, err)

	dec.ReceiveData([]byte("--XYZ\r\nContent-Disposition: form-data; name=\"a\"\r\n\r\nhello\r\n--XYZ--\r\n"))
	dec.ReceiveData(nil)

	events := collapse(drain(t, dec))
	require.Len(t, events, 4)
	assert.IsType(t, multipart.Preamble{}, events[0])

	field, ok := events[1].(multipart.Field)
	require.True(t, ok)
	assert.Equal(t, "a", field.Name)

	assert.Equal(t, multipart.Data{Data: []byte("hello"), MoreData: false}, events[2])
	assert.IsType(t, multipart.Epilogue{}, events[3])
	assert.Equal(t, "hello", multipart.SafeDecode([]byte("hello"), "utf-8"))

	// Epilogue repeats on further calls.
	for i := 0; i < 3; i++ {
		ev, err := dec.NextEvent()
		require.NoError(t, err)
		assert.IsType(t, multipart.Epilogue{}, ev)
	}
}

func TestDecoder_ChunkingInvariance(t *testing.T) {
	boundary := []byte("a7f7ac8d4e2e437c877bb7b8d7cc549c")
	body := []byte("--a7f7ac8d4e2e437c877bb7b8d7cc549c\r\n" +
		"Content-Disposition: form-data; name=\"field0\"\r\n\r\n" +
		"value0\r\n" +
		"--a7f7ac8d4e2e437c877bb7b8d7cc549c\r\n" +
		"Content-Disposition: form-data; name=\"file\"; filename=\"file.txt\"\r\n" +
		"Content-Type: text/plain\r\n\r\n" +
		"<file content>\r\nwith\r\nlinebreaks\r\n" +
		"--a7f7ac8d4e2e437c877bb7b8d7cc549c--\r\n")

	decode := func(chunkSize int) []multipart.Event {
		dec, err := multipart.NewDecoder(boundary, "utf-8")
		require.NoError(t, err)
		var events []multipart.Event
		for i := 0; i < len(body); i += chunkSize {
			dec.ReceiveData(body[i:min(i+chunkSize, len(body))])
			events = append(events, drain(t, dec)...)
		}
		dec.ReceiveData(nil)
		events = append(events, drain(t, dec)...)
		return collapse(events)
	}

	want := decode(len(body))
	for _, size := range []int{1, 2, 3, 7, 16, 33, 100} {
		assert.Equal(t, want, decode(size), "chunk size %d", size)
	}
}

func TestDecoder_NoBoundaryBytesInData(t *testing.T) {
	boundary := []byte("XYZ")
	payload := strings.Repeat("some payload\r\nwith XY almost-boundaries\r\n--XY no\r\n", 20)
	body := []byte("--XYZ\r\nContent-Disposition: form-data; name=\"a\"\r\n\r\n" +
		payload + "\r\n--XYZ--\r\n")

	dec, err := multipart.NewDecoder(boundary, "utf-8")
	require.NoError(t, err)

	var got []byte
	for i := 0; i < len(body); i += 5 {
		dec.ReceiveData(body[i:min(i+5, len(body))])
		for _, ev := range drain(t, dec) {
			if d, ok := ev.(multipart.Data); ok {
				assert.NotContains(t, string(d.Data), "--XYZ")
				got = append(got, d.Data...)
			}
		}
	}
	dec.ReceiveData(nil)
	for _, ev := range drain(t, dec) {
		if d, ok := ev.(multipart.Data); ok {
			assert.NotContains(t, string(d.Data), "--XYZ")
			got = append(got, d.Data...)
		}
	}
	assert.Equal(t, payload, string(got))
}

func TestDecoder_Malformed(t *testing.T) {
	t.Run("missing content disposition", func(t *testing.T) {
		dec, err := multipart.NewDecoder([]byte("XYZ"), "utf-8")
		require.NoError(t, err)
		dec.ReceiveData([]byte("--XYZ\r\nContent-Type: text/plain\r\n\r\nhello\r\n--XYZ--\r\n"))

		ev, err := dec.NextEvent()
		require.NoError(t, err)
		assert.IsType(t, multipart.Preamble{}, ev)

		_, err = dec.NextEvent()
		require.ErrorIs(t, err, multipart.ErrMalformed)

		// Terminal: the decoder stays failed.
		_, again := dec.NextEvent()
		assert.Equal(t, err, again)
	})

	t.Run("truncated mid part", func(t *testing.T) {
		dec, err := multipart.NewDecoder([]byte("XYZ"), "utf-8")
		require.NoError(t, err)
		dec.ReceiveData([]byte("--XYZ\r\nContent-Disposition: form-data; name=\"a\"\r\n\r\nhel"))
		dec.ReceiveData(nil)

		var lastErr error
		for i := 0; i < 10; i++ {
			if _, lastErr = dec.NextEvent(); lastErr != nil {
				break
			}
		}
		require.ErrorIs(t, lastErr, multipart.ErrMalformed)
	})

	t.Run("boundary never found", func(t *testing.T) {
		dec, err := multipart.NewDecoder([]byte("XYZ"), "utf-8")
		require.NoError(t, err)
		dec.ReceiveData(bytes.Repeat([]byte("not a boundary at all\r\n"), 10))
		dec.ReceiveData(nil)

		_, err = dec.NextEvent()
		require.ErrorIs(t, err, multipart.ErrMalformed)
	})

	t.Run("header line without colon", func(t *testing.T) {
		dec, err := multipart.NewDecoder([]byte("XYZ"), "utf-8")
		require.NoError(t, err)
		dec.ReceiveData([]byte("--XYZ\r\nnot a header\r\n\r\nhello\r\n--XYZ--\r\n"))

		_, err = dec.NextEvent()
		require.NoError(t, err) // preamble
		_, err = dec.NextEvent()
		require.ErrorIs(t, err, multipart.ErrMalformed)
	})
}

func TestDecoder_HeaderContinuation(t *testing.T) {
	dec, err := multipart.NewDecoder([]byte("XYZ"), "utf-8")
	require.NoError(t, err)
	dec.ReceiveData([]byte("--XYZ\r\n" +
		"Content-Disposition: form-data;\r\n\tname=\"a\"\r\n" +
		"X-Custom: one\r\n two\r\n\r\n" +
		"hello\r\n--XYZ--\r\n"))
	dec.ReceiveData(nil)

	events := collapse(drain(t, dec))
	field, ok := events[1].(multipart.Field)
	require.True(t, ok)
	assert.Equal(t, "a", field.Name)
	assert.Equal(t, "one two", field.Headers.Get("X-Custom"))
}

func TestDecoder_EmptyMessage(t *testing.T) {
	dec, err := multipart.NewDecoder([]byte("XYZ"), "utf-8")
	require.NoError(t, err)
	dec.ReceiveData([]byte("--XYZ--\r\n"))
	dec.ReceiveData(nil)

	ev, err := dec.NextEvent()
	require.NoError(t, err)
	assert.IsType(t, multipart.Preamble{}, ev)

	ev, err = dec.NextEvent()
	require.NoError(t, err)
	assert.IsType(t, multipart.Epilogue{}, ev)
}

func TestDecoder_EmptyChunkIsNoOp(t *testing.T) {
	dec, err := multipart.NewDecoder([]byte("XYZ"), "utf-8")
	require.NoError(t, err)
	dec.ReceiveData([]byte{})

	ev, err := dec.NextEvent()
	require.NoError(t, err)
	assert.IsType(t, multipart.NeedData{}, ev)
}

func TestNewDecoder_EmptyBoundary(t *testing.T) {
	_, err := multipart.NewDecoder(nil, "utf-8")
	assert.ErrorIs(t, err, multipart.ErrEmptyBoundary)
}

func TestSafeDecode(t *testing.T) {
	t.Run("declared charset", func(t *testing.T) {
		assert.Equal(t, "ężć", multipart.SafeDecode([]byte("\xc4\x99\xc5\xbc\xc4\x87"), "utf-8"))
		assert.Equal(t, "café", multipart.SafeDecode([]byte("caf\xe9"), "iso-8859-1"))
	})

	t.Run("unknown charset falls back", func(t *testing.T) {
		assert.Equal(t, "abc", multipart.SafeDecode([]byte("abc"), "latin-8"))
	})

	t.Run("invalid bytes fall back to latin-1", func(t *testing.T) {
		assert.Equal(t, "café", multipart.SafeDecode([]byte("caf\xe9"), "utf-8"))
	})
}
