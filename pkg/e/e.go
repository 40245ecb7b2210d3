package e

import "fmt"

var (
	// Внутренние ошибки
	ErrTransactionNotFound  = fmt.Errorf("transaction not found")
	ErrIncorrectEnvVariable = fmt.Errorf("incorrect environment variable")
	ErrInternalServerError  = fmt.Errorf("internal server error")
	ErrUnsupportedMediaType = fmt.Errorf("unsupported media type")

	// 400 Bad Request
	ErrStatusBadRequest    = fmt.Errorf("bad request")
	ErrExpectedMultipart   = fmt.Errorf("expected multipart/form-data")
	ErrMissingFields       = fmt.Errorf("missing required fields")
	ErrInvalidPrice        = fmt.Errorf("invalid price")
	ErrPricePrecision      = fmt.Errorf("price must have at most 2 decimal places")
	ErrTitleRequired       = fmt.Errorf("product title is required")
	ErrTitleTooLong        = fmt.Errorf("product title is too long")
	ErrNameTooLong         = fmt.Errorf("file name is too long")
	ErrPriceMustBePositive = fmt.Errorf("price must not be negative")
	ErrFileTooLarge        = fmt.Errorf("file too large")
	ErrNoFile              = fmt.Errorf("no file provided")
	ErrInvalidStorage      = fmt.Errorf("invalid storage kind")
	ErrInvalidID           = fmt.Errorf("invalid id")
	ErrInvalidPath         = fmt.Errorf("invalid file path")
	ErrValidation          = fmt.Errorf("validation failed")

	// 404 Not Found
	ErrProductNotFound     = fmt.Errorf("product not found")
	ErrProductFileNotFound = fmt.Errorf("product file not found")
	ErrLocalFileNotFound   = fmt.Errorf("file not found in protected root")

	// 409 Conflict
	ErrSlugConflict = fmt.Errorf("product slug already taken")
)

// Wrap оборачивает ошибку
func Wrap(msg string, err error) error {
	return fmt.Errorf("%s: %w", msg, err)
}
