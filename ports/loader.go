package ports

import (
	"logitlab/domain/table"
)

// TableLoader reads an external tabular file into an observation table
// with stable column identity. Implementations return a LOAD_ERROR when
// the file is absent or malformed.
type TableLoader interface {
	Load(path string) (*table.Table, error)
}
