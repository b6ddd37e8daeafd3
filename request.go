package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
)

// fields holds the string values a client sent, keyed by name. A key is
// present only if the client supplied it.
type fields map[string]string

func (f fields) get(name string) string {
	return f[name]
}

func (f fields) ptr(name string) *string {
	v, ok := f[name]
	if !ok {
		return nil
	}
	return &v
}

// readFields parses a JSON, urlencoded or multipart body. For multipart
// bodies r.MultipartForm is left populated for receiveCover.
func readFields(r *http.Request, names ...string) (fields, error) {
	out := fields{}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/json":
		var body map[string]any
		// An empty body carries no fields.
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("decoding json body: %w", err)
		}
		for _, name := range names {
			if v, ok := body[name]; ok && v != nil {
				out[name] = fmt.Sprint(v)
			}
		}
		return out, nil

	case "multipart/form-data":
		if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
			return nil, fmt.Errorf("parsing multipart form: %w", err)
		}

	default:
		if err := r.ParseForm(); err != nil {
			return nil, fmt.Errorf("parsing form: %w", err)
		}
	}

	for _, name := range names {
		if vs, ok := r.PostForm[name]; ok && len(vs) > 0 {
			out[name] = vs[0]
		}
	}
	return out, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
