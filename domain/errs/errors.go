package errs

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrOutOfStock   = errors.New("out of stock")
	ErrInvalidInput = errors.New("invalid input")
)

func NewNotFoundError(details string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, details)
}

func NewOutOfStockError(details string) error {
	return fmt.Errorf("%w: %s", ErrOutOfStock, details)
}

func NewInvalidInputError(details string) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, details)
}

// CartNotFound is returned for unknown, deleted and expired carts alike.
func CartNotFound(cartId int64) error {
	return NewNotFoundError(fmt.Sprintf("Cart not found for the id: %d", cartId))
}

func ItemNotFound(itemId int64) error {
	return NewNotFoundError(fmt.Sprintf("Product not found for the id: %d", itemId))
}

// Detail strips the sentinel prefix so boundaries can render the plain message.
func Detail(err error) string {
	msg := err.Error()
	for _, sentinel := range []error{ErrNotFound, ErrOutOfStock, ErrInvalidInput} {
		prefix := sentinel.Error() + ": "
		if errors.Is(err, sentinel) && len(msg) > len(prefix) && msg[:len(prefix)] == prefix {
			return msg[len(prefix):]
		}
	}
	return msg
}
