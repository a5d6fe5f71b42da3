//go:build unix

package main

import (
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/opencontainers/go-digest"
	"gopkg.in/yaml.v3"

	"github.com/arloliu/aarchive/field"
	"github.com/arloliu/aarchive/format"
	"github.com/arloliu/aarchive/header"
)

type fieldRecord struct {
	Key   string `yaml:"key"`
	Type  string `yaml:"type"`
	Value string `yaml:"value,omitempty"`
}

type blobRecord struct {
	Key         string `yaml:"key"`
	Size        uint64 `yaml:"size"`
	Offset      uint64 `yaml:"offset"`
	Fingerprint string `yaml:"fingerprint,omitempty"`
}

type entryRecord struct {
	Index  int           `yaml:"index"`
	Size   int           `yaml:"header_size"`
	Fields []fieldRecord `yaml:"fields"`
	Blobs  []blobRecord  `yaml:"blobs,omitempty"`
}

// newEntryRecord renders h. When keys is non-empty only those fields are listed;
// blobs are always listed so their payloads can be fingerprinted.
func newEntryRecord(index int, h *header.Header, keys []field.Key) entryRecord {
	rec := entryRecord{Index: index, Size: h.EncodedSize()}

	for i, d := range h.Fields() {
		if d.Type == format.FieldTypeBlob {
			rec.Blobs = append(rec.Blobs, blobRecord{
				Key:    d.Key.String(),
				Size:   d.PayloadSize(),
				Offset: d.PayloadOffset(),
			})
		}
		if len(keys) > 0 && !slices.Contains(keys, d.Key) {
			continue
		}
		rec.Fields = append(rec.Fields, fieldRecord{
			Key:   d.Key.String(),
			Type:  d.Type.String(),
			Value: formatValue(h, i, d),
		})
	}

	return rec
}

func formatValue(h *header.Header, i int, d field.Descriptor) string {
	switch d.Type {
	case format.FieldTypeUInt:
		v, _ := h.UInt(i)
		switch d.Key {
		case field.KeyTYP:
			return format.EntryType(v).String()
		case field.KeyMOD:
			return fmt.Sprintf("%04o", v)
		default:
			return strconv.FormatUint(v, 10)
		}
	case format.FieldTypeString:
		s, _ := h.String(i)
		return s
	case format.FieldTypeHash:
		fn, sum, _ := h.Hash(i)
		return formatDigest(fn, sum)
	case format.FieldTypeTimespec:
		ts, _ := h.Timespec(i)
		return ts.Time().UTC().Format(time.RFC3339Nano)
	case format.FieldTypeBlob:
		return strconv.FormatUint(d.PayloadSize(), 10)
	default:
		return ""
	}
}

// formatDigest renders a digest as "algorithm:hex".
func formatDigest(fn format.HashFunction, sum []byte) string {
	var alg digest.Algorithm
	switch fn {
	case format.HashSHA256:
		alg = digest.SHA256
	case format.HashSHA384:
		alg = digest.SHA384
	case format.HashSHA512:
		alg = digest.SHA512
	default:
		alg = digest.Algorithm(strings.ToLower(fn.String()))
	}

	return digest.NewDigestFromBytes(alg, sum).String()
}

type printer interface {
	entry(rec entryRecord) error
	close() error
}

func newPrinter(name string, w io.Writer) (printer, error) {
	switch name {
	case "text":
		return &textPrinter{w: w}, nil
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		return &yamlPrinter{enc: enc}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q", name)
	}
}

// textPrinter writes one line per entry: KEY=value pairs, then blob fingerprints.
type textPrinter struct {
	w io.Writer
}

func (p *textPrinter) entry(rec entryRecord) error {
	parts := make([]string, 0, len(rec.Fields)+len(rec.Blobs))
	for _, f := range rec.Fields {
		if f.Type == format.FieldTypeFlag.String() {
			parts = append(parts, f.Key)
			continue
		}
		value := f.Value
		if f.Type == format.FieldTypeString.String() {
			value = strconv.Quote(value)
		}
		parts = append(parts, f.Key+"="+value)
	}
	for _, b := range rec.Blobs {
		if b.Fingerprint != "" {
			parts = append(parts, b.Key+".xxh64="+b.Fingerprint)
		}
	}

	_, err := fmt.Fprintln(p.w, strings.Join(parts, " "))

	return err
}

func (p *textPrinter) close() error {
	return nil
}

// yamlPrinter collects entries and writes them as one YAML sequence.
type yamlPrinter struct {
	enc     *yaml.Encoder
	entries []entryRecord
}

func (p *yamlPrinter) entry(rec entryRecord) error {
	p.entries = append(p.entries, rec)
	return nil
}

func (p *yamlPrinter) close() error {
	if p.entries == nil {
		p.entries = []entryRecord{}
	}
	if err := p.enc.Encode(p.entries); err != nil {
		return err
	}

	return p.enc.Close()
}
