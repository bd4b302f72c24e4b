package cpu

import (
	"errors"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadTable reads and validates a YAML encoding table.
func LoadTable(input io.Reader) (table *Table, err error) {
	var spec TableSpec

	dec := yaml.NewDecoder(input)
	dec.KnownFields(true)
	err = dec.Decode(&spec)
	if errors.Is(err, io.EOF) {
		err = &ErrConfig{Group: "file", Err: ErrConfigMissing}
		return
	}
	if err != nil {
		err = &ErrConfig{Group: "file", Err: err}
		return
	}

	return NewTable(spec)
}

// LoadTableFile reads and validates a YAML encoding table file.
func LoadTableFile(path string) (table *Table, err error) {
	inf, err := os.Open(path)
	if err != nil {
		err = &ErrConfig{Group: path, Err: err}
		return
	}
	defer inf.Close()

	return LoadTable(inf)
}

// Marshal writes the table as YAML, in the form LoadTable reads.
func (t *Table) Marshal(output io.Writer) (err error) {
	enc := yaml.NewEncoder(output)
	enc.SetIndent(2)

	err = enc.Encode(t.Spec())
	if err != nil {
		return
	}

	return enc.Close()
}
