package client

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/textproto"
	"sort"
)

// File is an upload. Reader is used when Data is nil.
type File struct {
	Name        string
	ContentType string
	Data        []byte
	Reader      io.Reader
}

type formPart struct {
	field string
	file  File
}

// encodeMultipart builds a multipart/form-data body. The result is held in
// memory so retries can resend it.
func encodeMultipart(fields map[string]string, files ...formPart) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if fields[k] == "" {
			continue
		}
		if err := w.WriteField(k, fields[k]); err != nil {
			return nil, "", err
		}
	}

	for _, p := range files {
		var part io.Writer
		var err error
		if p.file.ContentType != "" {
			header := make(textproto.MIMEHeader)
			header.Set("Content-Disposition",
				`form-data; name="`+escapeQuotes(p.field)+`"; filename="`+escapeQuotes(p.file.Name)+`"`)
			header.Set("Content-Type", p.file.ContentType)
			part, err = w.CreatePart(header)
		} else {
			part, err = w.CreateFormFile(p.field, p.file.Name)
		}
		if err != nil {
			return nil, "", err
		}

		if p.file.Data != nil {
			_, err = part.Write(p.file.Data)
		} else if p.file.Reader != nil {
			_, err = io.Copy(part, p.file.Reader)
		}
		if err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}

func escapeQuotes(s string) string {
	var buf bytes.Buffer
	for _, b := range []byte(s) {
		if b == '"' || b == '\\' {
			buf.WriteByte('\\')
		}
		buf.WriteByte(b)
	}
	return buf.String()
}
