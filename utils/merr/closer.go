package merr

import (
	"io"

	"github.com/hashicorp/go-multierror"
)

// CloseAndMergeError closes the closable and merges the close error into err.
// It returns nil only if err is nil and closing succeeded.
func CloseAndMergeError(closable io.Closer, err error) error {
	var merr *multierror.Error
	if err != nil {
		merr = multierror.Append(merr, err)
	}

	closeError := closable.Close()
	if closeError != nil {
		merr = multierror.Append(merr, closeError)
	}

	return merr.ErrorOrNil()
}
