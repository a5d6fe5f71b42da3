// Package archive reads and writes archive entry streams.
//
// An archive is a sequence of entries. Each entry is an encoded header followed by
// the payloads of its Blob fields, concatenated in header field order:
//
//	| header 1 | blob 1.1 | blob 1.2 | header 2 | header 3 | blob 3.1 | ...
//
// An Encoder writes entries to a stream.ByteStream and a Decoder reads them back.
// Both can wrap the stream in a pcompress block frame (WithCompression).
//
// # Usage
//
//	enc, err := archive.NewEncoder(out, archive.WithCompression(format.CompressionLZ4))
//	if err != nil {
//	    return err
//	}
//	h := header.New()
//	_ = h.AppendUInt(field.KeyTYP, uint64(format.EntryRegular))
//	_ = h.AppendString(field.KeyPAT, "docs/readme.txt")
//	_ = h.AppendBlob(field.KeyDAT, uint64(len(data)))
//	if err := enc.WriteEntry(h, data); err != nil {
//	    return err
//	}
//	return enc.Close()
//
// Reading:
//
//	dec, err := archive.NewDecoder(in, archive.WithCompression(format.CompressionLZ4))
//	for {
//	    h, err := dec.Next()
//	    if errors.Is(err, io.EOF) {
//	        break
//	    }
//	    ...
//	    data, err := dec.ReadBlob(field.KeyDAT)
//	}
//
// Payloads the caller does not read are skipped by the next call to Next.
package archive
