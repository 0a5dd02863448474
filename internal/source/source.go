// Package source holds the programs compiled into the binary. They are fixed
// at build time; nothing is read from disk at run time.
package source

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
)

//go:embed programs
var programs embed.FS

// Program is an embedded source file.
type Program struct {
	Name     string // function name, e.g. "max"
	Filename string // e.g. "max.c"
	Text     []byte
}

// MaxName is the name of the program the driver compiles.
const MaxName = "max"

// Lookup returns the embedded program with the given name.
func Lookup(name string) (*Program, error) {
	filename := name + ".c"
	text, err := programs.ReadFile(path.Join("programs", filename))
	if err != nil {
		return nil, fmt.Errorf("no embedded program %q: %w", name, err)
	}
	return &Program{Name: name, Filename: filename, Text: text}, nil
}

// Max returns the embedded max program.
func Max() *Program {
	p, err := Lookup(MaxName)
	if err != nil {
		panic(err)
	}
	return p
}

// Names lists the embedded programs in sorted order.
func Names() []string {
	entries, err := fs.ReadDir(programs, "programs")
	if err != nil {
		return nil
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".c") {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ".c"))
	}
	sort.Strings(names)
	return names
}
