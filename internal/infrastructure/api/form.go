package api

import (
	"bytes"
	"mime/multipart"
)

// Form formulario multipart re-codificable. Se guarda el contenido completo en
// memoria para poder reconstruir el cuerpo si hay que reintentar tras renovar
// la credencial (un io.Reader ya consumido no sirve para el segundo intento).
type Form struct {
	fields []formField
	files  []formFile
}

type formField struct {
	name, value string
}

type formFile struct {
	field, filename string
	content         []byte
}

// NewForm crea un formulario vacío.
func NewForm() *Form { return &Form{} }

// Set agrega un campo de texto. Los campos vacíos no se envían.
func (f *Form) Set(name, value string) {
	if value == "" {
		return
	}
	f.fields = append(f.fields, formField{name: name, value: value})
}

// AddFile agrega un archivo adjunto.
func (f *Form) AddFile(field, filename string, content []byte) {
	f.files = append(f.files, formFile{field: field, filename: filename, content: content})
}

// HasFiles indica si el formulario lleva al menos un archivo.
func (f *Form) HasFiles() bool { return len(f.files) > 0 }

// encode produce el cuerpo multipart y su Content-Type (boundary incluido).
func (f *Form) encode() ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, fld := range f.fields {
		if err := w.WriteField(fld.name, fld.value); err != nil {
			return nil, "", err
		}
	}
	for _, file := range f.files {
		part, err := w.CreateFormFile(file.field, file.filename)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(file.content); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}
