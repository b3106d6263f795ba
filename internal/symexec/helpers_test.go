package symexec_test

import (
	"errors"

	"github.com/blacktop/bytebun/internal/symexec"
)

var errRejected = errors.New("rejected")

type failingObserver struct {
	symexec.NopObserver
}

func (failingObserver) WriteField(symexec.MemberRef, symexec.Value, symexec.Value) error {
	return errRejected
}
