package jar_test

import (
	"io"

	"github.com/klauspost/compress/zip"
)

type zipWriter struct {
	*zip.Writer
}

func newZipWriter(w io.Writer) *zipWriter {
	return &zipWriter{zip.NewWriter(w)}
}

func (z *zipWriter) add(name string, data []byte) error {
	w, err := z.Create(name)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
