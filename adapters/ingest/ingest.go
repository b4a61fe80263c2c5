// Package ingest provides dataset loaders behind the ports.TableLoader
// contract: Stata .dta files for the student program-choice pipeline and
// .xlsx workbooks for ad-hoc tables.
package ingest

import (
	"fmt"
	"path/filepath"
	"strings"

	"logitlab/internal/errors"
	"logitlab/ports"
)

// ForPath selects a loader by file extension
func ForPath(path string) (ports.TableLoader, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".dta":
		return NewStataLoader(), nil
	case ".xlsx":
		return NewExcelLoader(), nil
	default:
		return nil, errors.LoadError(fmt.Sprintf(
			"no loader for file %q (supported: .dta, .xlsx)", path), nil)
	}
}
