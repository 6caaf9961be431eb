package errors

import (
	"errors"

	"gorm.io/gorm"
)

// TranslateStore maps a GORM error to an AppError with a human-readable
// message. Raw driver errors never reach the client.
func TranslateStore(err error) *AppError {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return appErr
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return NewNotFoundError("record not found")
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return NewConflictError("a record with this value already exists")
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return NewValidationError("referenced record does not exist")
	default:
		return NewStoreError("database error")
	}
}
