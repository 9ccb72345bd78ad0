package client

import (
	"errors"
	"fmt"
)

var (
	// ErrRemote matches every RemoteError.
	ErrRemote = errors.New("remote call failed")
	// ErrInvalidQuantity is returned before any request is sent.
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
)

// OpFetchCart is the RemoteError.Op of a failed FetchCart.
const OpFetchCart = "fetch cart"

// RemoteError describes a failed call: a transport failure (Status 0) or a
// non-200 response.
type RemoteError struct {
	Op      string
	Status  int
	Message string
	Err     error
}

func (e *RemoteError) Error() string {
	switch {
	case e.Status == 0 && e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	case e.Message != "":
		return fmt.Sprintf("%s: %d %s", e.Op, e.Status, e.Message)
	default:
		return fmt.Sprintf("%s: status %d", e.Op, e.Status)
	}
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

func (e *RemoteError) Is(target error) bool {
	return target == ErrRemote
}
