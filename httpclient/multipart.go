package httpclient

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"strings"
	"sync"
)

// MultipartBody represents a multipart/form-data request body.
// Pass this as the Body field of a Request to automatically construct
// multipart encoding with the correct Content-Type header.
type MultipartBody struct {
	// Fields are simple form fields, written in order before any file.
	Fields []Field
	// Files are file upload fields.
	Files []FileField
}

// Field is a single text form field.
type Field struct {
	Name  string
	Value string
}

// FileField represents a file to upload in a multipart request.
type FileField struct {
	// FieldName is the form field name (e.g., "file", "audio").
	FieldName string
	// FileName is the file name sent to the server.
	FileName string
	// ContentType is the MIME type (e.g., "audio/wav"). If empty, uses application/octet-stream.
	ContentType string
	// Data is the file content. Used if Reader is nil.
	Data []byte
	// Reader is streamed into the request without buffering.
	Reader io.Reader
	// Size is the exact number of bytes Reader yields. Zero or negative means
	// unknown and forces chunked transfer encoding.
	Size int64
}

// AddField appends a text field and returns the receiver.
func (m *MultipartBody) AddField(name, value string) *MultipartBody {
	m.Fields = append(m.Fields, Field{Name: name, Value: value})
	return m
}

// multipartStream is a multipart body being produced by a writer goroutine.
type multipartStream struct {
	pr          *io.PipeReader
	contentType string
	length      int64

	mu        sync.Mutex
	sourceErr error
}

func (s *multipartStream) Read(p []byte) (int, error) { return s.pr.Read(p) }

func (s *multipartStream) Close() error { return s.pr.Close() }

func (s *multipartStream) setSourceErr(err error) {
	s.mu.Lock()
	s.sourceErr = err
	s.mu.Unlock()
}

// SourceErr returns the failure of a file reader, if any. It is safe on a
// nil stream.
func (s *multipartStream) SourceErr() error {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sourceErr
}

// stream starts encoding the body into a pipe. The returned stream must be
// read to EOF or closed, which the HTTP transport always does.
func (m *MultipartBody) stream() *multipartStream {
	pr, pw := io.Pipe()
	w := multipart.NewWriter(pw)
	s := &multipartStream{
		pr:          pr,
		contentType: w.FormDataContentType(),
		length:      m.contentLength(w.Boundary()),
	}
	go func() {
		pw.CloseWithError(m.write(w, s))
	}()
	return s
}

// contentLength computes the encoded size without touching file readers.
// It returns -1 when any file size is unknown.
func (m *MultipartBody) contentLength(boundary string) int64 {
	cw := &countingWriter{}
	w := multipart.NewWriter(cw)
	if err := w.SetBoundary(boundary); err != nil {
		return -1
	}
	if err := m.writeFields(w); err != nil {
		return -1
	}
	for _, f := range m.Files {
		if _, err := createFilePart(w, f); err != nil {
			return -1
		}
		switch {
		case f.Reader == nil:
			cw.n += int64(len(f.Data))
		case f.Size > 0:
			cw.n += f.Size
		default:
			return -1
		}
	}
	if err := w.Close(); err != nil {
		return -1
	}
	return cw.n
}

func (m *MultipartBody) write(w *multipart.Writer, s *multipartStream) error {
	if err := m.writeFields(w); err != nil {
		return err
	}
	for _, f := range m.Files {
		part, err := createFilePart(w, f)
		if err != nil {
			return err
		}
		if f.Reader == nil {
			if _, err := part.Write(f.Data); err != nil {
				return err
			}
			continue
		}

		src := &trackingReader{r: f.Reader}
		n, err := io.Copy(part, src)
		if src.err != nil {
			err = fmt.Errorf("read %s: %w", f.FieldName, src.err)
			s.setSourceErr(err)
			return err
		}
		if err != nil {
			return err
		}
		if f.Size > 0 && n != f.Size {
			err = fmt.Errorf("read %s: got %d bytes, declared %d", f.FieldName, n, f.Size)
			s.setSourceErr(err)
			return err
		}
	}
	return w.Close()
}

func (m *MultipartBody) writeFields(w *multipart.Writer) error {
	for _, f := range m.Fields {
		if err := w.WriteField(f.Name, f.Value); err != nil {
			return err
		}
	}
	return nil
}

func createFilePart(w *multipart.Writer, f FileField) (io.Writer, error) {
	contentType := f.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition",
		`form-data; name="`+escapeQuotes(f.FieldName)+`"; filename="`+escapeQuotes(f.FileName)+`"`)
	header.Set("Content-Type", contentType)
	return w.CreatePart(header)
}

var quoteEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}

type countingWriter struct{ n int64 }

func (c *countingWriter) Write(p []byte) (int, error) {
	c.n += int64(len(p))
	return len(p), nil
}

// trackingReader records read failures of a caller-provided reader.
type trackingReader struct {
	r   io.Reader
	err error
}

func (t *trackingReader) Read(p []byte) (int, error) {
	n, err := t.r.Read(p)
	if err != nil && err != io.EOF {
		t.err = err
	}
	return n, err
}
