package io

import (
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// ReadFile opens path and hands it to read.
func ReadFile(path string, read func(r io.Reader) error) (err error) {
	inf, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, f("open %v", path))
	}
	defer inf.Close()

	err = read(inf)
	if err != nil {
		err = errors.Wrap(err, f("read %v", path))
	}

	return
}

// WriteFile creates path, and any missing parent directories, and hands it
// to write. The file is removed if write fails.
func WriteFile(path string, write func(w io.Writer) error) (err error) {
	dir := filepath.Dir(path)
	err = os.MkdirAll(dir, 0755)
	if err != nil {
		return errors.Wrap(err, f("mkdir %v", dir))
	}

	ouf, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, f("create %v", path))
	}

	err = write(ouf)
	if err != nil {
		ouf.Close()
		os.Remove(path)
		return errors.Wrap(err, f("write %v", path))
	}

	err = ouf.Close()
	if err != nil {
		err = errors.Wrap(err, f("close %v", path))
	}

	return
}
