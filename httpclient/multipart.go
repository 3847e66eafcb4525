package httpclient

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/textproto"
	"sort"
	"strings"
)

// MultipartBody is a multipart/form-data request body, for endpoints
// that take file uploads alongside form fields (profile photos,
// scanned receipts). Pass it as Request.Body; the client builds the
// encoding and sets the boundary content type.
type MultipartBody struct {
	// Fields are simple key-value form fields.
	Fields map[string]string
	// Files are file upload fields.
	Files []FileField
}

// FileField is one file in a multipart upload.
type FileField struct {
	// FieldName is the form field name (e.g. "photo", "receipt").
	FieldName string
	// FileName is the file name sent to the server.
	FileName string
	// ContentType is the MIME type. Empty means
	// application/octet-stream.
	ContentType string
	// Data is the file content, used when Reader is nil.
	Data []byte
	// Reader supplies the content for large files instead of Data.
	Reader io.Reader
}

// encode builds the multipart body and returns the reader and the
// boundary-bearing content type. Form fields are written in sorted
// order so the encoding is deterministic.
func (m *MultipartBody) encode() (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	names := make([]string, 0, len(m.Fields))
	for k := range m.Fields {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		if err := w.WriteField(k, m.Fields[k]); err != nil {
			return nil, "", err
		}
	}

	for _, f := range m.Files {
		if err := writeFile(w, f); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

func writeFile(w *multipart.Writer, f FileField) error {
	var part io.Writer
	var err error

	if f.ContentType != "" {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition",
			`form-data; name="`+escapeQuotes(f.FieldName)+`"; filename="`+escapeQuotes(f.FileName)+`"`)
		header.Set("Content-Type", f.ContentType)
		part, err = w.CreatePart(header)
	} else {
		part, err = w.CreateFormFile(f.FieldName, f.FileName)
	}
	if err != nil {
		return err
	}

	if f.Data != nil {
		_, err = part.Write(f.Data)
		return err
	}
	if f.Reader != nil {
		_, err = io.Copy(part, f.Reader)
		return err
	}
	return nil
}

var quoteEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// escapeQuotes guards quote and backslash characters in disposition
// header values.
func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
