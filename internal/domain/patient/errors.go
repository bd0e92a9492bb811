package patient

import "errors"

var ErrNotFound = errors.New("patient profile not found")
