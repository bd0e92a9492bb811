package ticket

import "errors"

var ErrDuplicateNumber = errors.New("ticket number already exists")
