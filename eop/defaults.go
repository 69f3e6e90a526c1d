package eop

import (
	"bytes"
	_ "embed"
	"fmt"
)

// defaultData is a packaged long-term product excerpt so the module works
// without any external files.
//
//go:embed defaultdata/longterm.txt
var defaultData []byte

// FromDefaults builds a table from the packaged dataset. The data is part
// of the deployed artifact, so a failure here is a build defect rather than
// a runtime condition and panics instead of returning an error.
func FromDefaults(policy ExtrapolationPolicy, interpolate bool, opts ...Option) *Table {
	table, err := Read(bytes.NewReader(defaultData), SourceLongTerm, policy, interpolate, opts...)
	if err != nil {
		panic(fmt.Sprintf("eop: packaged default data is unreadable: %v", err))
	}
	return table
}
