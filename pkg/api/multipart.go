package api

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
)

// Multipart is a multipart/form-data request body, used for uploads such as
// the admin avatar. Passing a *Multipart to Client.Do makes the client defer
// the Content-Type header to the multipart writer so the boundary is set
// correctly.
type Multipart struct {
	fields []mpField
}

type mpField struct {
	name     string
	value    string
	filename string
	reader   io.Reader
}

// AddField appends a plain form field.
func (m *Multipart) AddField(name, value string) *Multipart {
	m.fields = append(m.fields, mpField{name: name, value: value})
	return m
}

// AddFile appends a file field streamed from r.
func (m *Multipart) AddFile(name, filename string, r io.Reader) *Multipart {
	m.fields = append(m.fields, mpField{name: name, filename: filename, reader: r})
	return m
}

func (m *Multipart) encode() (*bytes.Buffer, string, error) {
	buf := new(bytes.Buffer)
	w := multipart.NewWriter(buf)
	for _, f := range m.fields {
		if f.reader == nil {
			if err := w.WriteField(f.name, f.value); err != nil {
				return nil, "", err
			}
			continue
		}
		part, err := w.CreateFormFile(f.name, f.filename)
		if err != nil {
			return nil, "", err
		}
		if _, err := io.Copy(part, f.reader); err != nil {
			return nil, "", fmt.Errorf("copying file field %q: %w", f.name, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf, w.FormDataContentType(), nil
}
