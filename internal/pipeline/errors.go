package pipeline

import (
	"errors"

	"github.com/KaramelBytes/dataprep-cli/internal/cleaning"
	"github.com/KaramelBytes/dataprep-cli/internal/loader"
	"github.com/KaramelBytes/dataprep-cli/internal/persist"
	"github.com/KaramelBytes/dataprep-cli/internal/report"
)

// Kind classifies a pipeline failure.
type Kind string

const (
	KindUnsupportedFormat Kind = "unsupported_format"
	KindParse             Kind = "parse"
	KindImputation        Kind = "imputation"
	KindWrite             Kind = "write"
	KindReport            Kind = "report"
	KindUnknown           Kind = "unknown"
)

// KindOf maps err to its Kind; nil yields "".
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, loader.ErrUnsupportedFormat):
		return KindUnsupportedFormat
	case errors.Is(err, loader.ErrParse):
		return KindParse
	case errors.Is(err, cleaning.ErrImputation):
		return KindImputation
	case errors.Is(err, persist.ErrWrite):
		return KindWrite
	case errors.Is(err, report.ErrReport):
		return KindReport
	default:
		return KindUnknown
	}
}
