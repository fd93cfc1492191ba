// Package multipart provides an incremental, I/O-free decoder for
// multipart/form-data bodies.
//
// The decoder is a pure state machine over caller-supplied bytes: it never
// reads from the network itself, which keeps it usable under both blocking
// and cooperatively scheduled adapters. Feed arrival-order chunks with
// ReceiveData and pull structured events with NextEvent:
//
//	dec, err := multipart.NewDecoder([]byte(boundary), "utf-8")
//	if err != nil {
//		return err
//	}
//	for {
//		chunk, readErr := readMore()
//		dec.ReceiveData(chunk) // nil chunk signals end of input
//		for {
//			ev, err := dec.NextEvent()
//			if err != nil {
//				return err // malformed body, abandon the decoder
//			}
//			switch ev := ev.(type) {
//			case multipart.NeedData:
//				// read more bytes
//			case multipart.Field:
//				// form field starts; ev.Name
//			case multipart.File:
//				// file part starts; ev.Name, ev.Filename, ev.Headers
//			case multipart.Data:
//				// payload chunk; final when !ev.MoreData
//			case multipart.Epilogue:
//				return nil
//			}
//			if _, ok := ev.(multipart.NeedData); ok {
//				break
//			}
//		}
//	}
//
// Memory stays bounded by the unparsed buffer tail, not by part size: Data
// events are emitted as soon as the decoder can prove the bytes contain no
// boundary prefix, so large uploads can be streamed to disk as they arrive.
//
// The event sequence for a well-formed body is Preamble, then for each part
// a Field or File event followed by one or more Data events ending with
// MoreData=false, then Epilogue. The same byte stream produces the same
// event sequence regardless of how it is split into chunks.
//
// Decoding of field values is the caller's concern; SafeDecode converts a
// byte buffer using the declared charset and never fails, falling back to
// latin-1 rather than reporting bad text. See the formdata package for a
// ready-made consumer of this decoder.
package multipart
