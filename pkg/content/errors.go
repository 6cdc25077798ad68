package content

import "errors"

// ErrMalformed indicates a file without the expected front-matter structure,
// or a front-matter block that fails to parse. The file is skipped and the
// batch continues.
var ErrMalformed = errors.New("malformed content")

// ErrMissingField indicates required metadata is absent from the front-matter.
// The file is skipped and the batch continues.
var ErrMissingField = errors.New("missing required field")
