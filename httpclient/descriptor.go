package httpclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"net/url"
	"strings"
	"time"
)

const (
	contentTypeJSON = "application/json"
	headerAccept    = "Accept"
	headerCType     = "Content-Type"
)

// Descriptor describes one request: method, path relative to the base URL,
// query, and at most one body. It is immutable once built.
type Descriptor struct {
	method      string
	path        string
	route       string
	query       url.Values
	jsonBody    any
	hasJSON     bool
	multipart   *Multipart
	contentType string
	timeout     time.Duration
}

// Option configures a Descriptor.
type Option func(*Descriptor)

// NewDescriptor builds a request description.
func NewDescriptor(method, path string, opts ...Option) *Descriptor {
	d := &Descriptor{method: method, path: path}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// WithQuery sets the query string. Empty values are dropped.
func WithQuery(q url.Values) Option {
	return func(d *Descriptor) {
		d.query = cloneValues(q)
	}
}

// WithJSON sets a body encoded as JSON at send time. It replaces any
// multipart body.
func WithJSON(body any) Option {
	return func(d *Descriptor) {
		d.jsonBody = body
		d.hasJSON = true
		d.multipart = nil
	}
}

// WithMultipart sets a multipart/form-data body. It replaces any JSON body.
func WithMultipart(m *Multipart) Option {
	return func(d *Descriptor) {
		d.multipart = m.clone()
		d.jsonBody = nil
		d.hasJSON = false
	}
}

// WithRoute names the path template used for metrics and spans, e.g.
// "/api/v1/product/:id". It defaults to the path.
func WithRoute(template string) Option {
	return func(d *Descriptor) { d.route = template }
}

// WithContentType overrides the Content-Type header.
func WithContentType(ct string) Option {
	return func(d *Descriptor) { d.contentType = ct }
}

// WithTimeout overrides the client timeout for this request. Values <= 0 are ignored.
func WithTimeout(t time.Duration) Option {
	return func(d *Descriptor) {
		if t > 0 {
			d.timeout = t
		}
	}
}

// Method returns the HTTP method.
func (d *Descriptor) Method() string { return d.method }

// Path returns the path relative to the base URL.
func (d *Descriptor) Path() string { return d.path }

// Query returns a copy of the query values.
func (d *Descriptor) Query() url.Values { return cloneValues(d.query) }

// Route returns the path template, falling back to the path.
func (d *Descriptor) Route() string {
	if d.route != "" {
		return d.route
	}
	return d.path
}

// Timeout returns the per-request override, or zero.
func (d *Descriptor) Timeout() time.Duration { return d.timeout }

// HasBody reports whether a JSON or multipart body is set.
func (d *Descriptor) HasBody() bool { return d.hasJSON || d.multipart != nil }

// String renders "METHOD path?query" for logs.
func (d *Descriptor) String() string {
	if len(d.query) == 0 {
		return d.method + " " + d.path
	}
	return d.method + " " + d.path + "?" + d.query.Encode()
}

// encodeBody produces a fresh reader per attempt along with its content type.
func (d *Descriptor) encodeBody() (io.Reader, []byte, string, error) {
	switch {
	case d.multipart != nil:
		payload, ct, err := d.multipart.encode()
		if err != nil {
			return nil, nil, "", err
		}
		return bytes.NewReader(payload), nil, d.contentTypeOr(ct), nil
	case d.hasJSON:
		payload, err := json.Marshal(d.jsonBody)
		if err != nil {
			return nil, nil, "", fmt.Errorf("encode json body: %w", err)
		}
		return bytes.NewReader(payload), payload, d.contentTypeOr(contentTypeJSON), nil
	default:
		return nil, nil, d.contentType, nil
	}
}

func (d *Descriptor) contentTypeOr(fallback string) string {
	if d.contentType != "" {
		return d.contentType
	}
	return fallback
}

func cloneValues(q url.Values) url.Values {
	if len(q) == 0 {
		return nil
	}
	out := make(url.Values, len(q))
	for k, vs := range q {
		kept := make([]string, 0, len(vs))
		for _, v := range vs {
			if v != "" {
				kept = append(kept, v)
			}
		}
		if len(kept) > 0 {
			out[k] = kept
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// Multipart is an ordered set of form fields and files.
type Multipart struct {
	fields []formField
	files  []formFile
}

type formField struct {
	name, value string
}

type formFile struct {
	field, filename, contentType string
	data                         []byte
}

// NewMultipart returns an empty form.
func NewMultipart() *Multipart {
	return &Multipart{}
}

// Field appends a text field.
func (m *Multipart) Field(name, value string) *Multipart {
	m.fields = append(m.fields, formField{name: name, value: value})
	return m
}

// File appends a file part. An empty contentType means application/octet-stream.
func (m *Multipart) File(field, filename, contentType string, data []byte) *Multipart {
	m.files = append(m.files, formFile{
		field:       field,
		filename:    filename,
		contentType: contentType,
		data:        append([]byte(nil), data...),
	})
	return m
}

func (m *Multipart) clone() *Multipart {
	if m == nil {
		return &Multipart{}
	}
	return &Multipart{
		fields: append([]formField(nil), m.fields...),
		files:  append([]formFile(nil), m.files...),
	}
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func (m *Multipart) encode() ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, f := range m.fields {
		if err := w.WriteField(f.name, f.value); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", f.name, err)
		}
	}

	for _, f := range m.files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
			quoteEscaper.Replace(f.field), quoteEscaper.Replace(f.filename)))
		ct := f.contentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		h.Set(headerCType, ct)

		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", fmt.Errorf("create part %s: %w", f.field, err)
		}
		if _, err := part.Write(f.data); err != nil {
			return nil, "", fmt.Errorf("write part %s: %w", f.field, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart writer: %w", err)
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}
