package httpclient

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"strings"
)

// MultipartBody is a multipart/form-data request body. Pass it as the Body
// of a Request; the client encodes it and sets the boundary Content-Type.
// The transcription backend sends every audio segment this way.
type MultipartBody struct {
	// Fields are simple key-value form fields.
	Fields map[string]string
	// Files are file upload fields.
	Files []FileField
}

// FileField is one uploaded file in a multipart body.
type FileField struct {
	// FieldName is the form field name (e.g. "file").
	FieldName string
	// FileName is the file name sent to the server.
	FileName string
	// ContentType is the MIME type (e.g. "audio/mp4"). Empty means
	// application/octet-stream.
	ContentType string
	// Data is the file content. Preferred over Reader because a buffered
	// body can be re-encoded when the request is retried.
	Data []byte
	// Reader is an alternative source for Data.
	Reader io.Reader
}

// encode builds the full body in memory and returns it with the boundary
// content type. Segment files are a few megabytes at most after re-encoding,
// so buffering beats streaming here.
func (m *MultipartBody) encode() (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for k, v := range m.Fields {
		if err := w.WriteField(k, v); err != nil {
			return nil, "", fmt.Errorf("write field %q: %w", k, err)
		}
	}
	for _, f := range m.Files {
		if err := f.write(w); err != nil {
			return nil, "", fmt.Errorf("write file field %q: %w", f.FieldName, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

func (f *FileField) write(w *multipart.Writer) error {
	part, err := f.createPart(w)
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

// createPart uses a custom MIME header when a content type is set;
// CreateFormFile hard-codes application/octet-stream.
func (f *FileField) createPart(w *multipart.Writer) (io.Writer, error) {
	if f.ContentType == "" {
		return w.CreateFormFile(f.FieldName, f.FileName)
	}
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition",
		`form-data; name="`+escapeQuotes(f.FieldName)+`"; filename="`+escapeQuotes(f.FileName)+`"`)
	header.Set("Content-Type", f.ContentType)
	return w.CreatePart(header)
}

var quoteEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
