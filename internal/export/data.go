package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/san-kum/orbitsim/internal/experiment"
)

// Format selects the encoding of a result dump.
type Format string

const (
	JSON    Format = "json"
	Msgpack Format = "msgpack"
)

// ParseFormat accepts a format name or a file extension such as ".mp".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "json", "":
		return JSON, nil
	case "msgpack", "mp", "mpk":
		return Msgpack, nil
	}
	return "", fmt.Errorf("unknown export format: %s", s)
}

// Write encodes res to w. JSON output is indented.
func Write(w io.Writer, res *experiment.Result, f Format) error {
	switch f {
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	case Msgpack:
		return msgpack.NewEncoder(w).Encode(res)
	}
	return fmt.Errorf("unknown export format: %s", f)
}

// Read decodes a result written by Write.
func Read(r io.Reader, f Format) (*experiment.Result, error) {
	var res experiment.Result
	var err error
	switch f {
	case JSON:
		err = json.NewDecoder(r).Decode(&res)
	case Msgpack:
		err = msgpack.NewDecoder(r).Decode(&res)
	default:
		err = fmt.Errorf("unknown export format: %s", f)
	}
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// WriteFile picks the format from the file extension.
func WriteFile(path string, res *experiment.Result) error {
	f, err := ParseFormat(filepath.Ext(path))
	if err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	if err := Write(file, res, f); err != nil {
		return err
	}
	return file.Close()
}
