package export

import (
	"bytes"
	"io"

	"github.com/kr/pretty"

	"github.com/orizon-lang/swiftparse/internal/ast"
)

// Dump writes a Go-syntax rendering of n, spans included.
func Dump(w io.Writer, n ast.Node) error {
	_, err := pretty.Fprintf(w, "%# v\n", n)
	return err
}

func DumpString(n ast.Node) string {
	buf := bytes.NewBuffer(nil)
	if err := Dump(buf, n); err != nil {
		panic(err)
	}
	return buf.String()
}
