package log

import (
	"errors"

	"grocer/internal/core"
)

// Common field names for structured logging
const (
	FieldComponent = "component"
	FieldError     = "error"
	FieldErrorType = "error_type"
	FieldOperation = "operation"
	FieldSource    = "source"
	FieldRow       = "row"
	FieldDetail    = "detail"
	FieldGroceryID = "grocery_id"
	FieldQuantity  = "quantity"
	FieldPayment   = "payment"
	FieldUsername  = "username"
	FieldRole      = "role"
	FieldPath      = "path"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentStore   = "store"
	ComponentSession = "session"
	ComponentSales   = "sales"
	ComponentCatalog = "catalog"
	ComponentReport  = "report"
	ComponentJournal = "journal"
	ComponentAMQP    = "amqp"
	ComponentBackend = "backend"
)

// Operations defines standard operation names
const (
	OpLoad     = "load"
	OpRecord   = "record"
	OpAdd      = "add"
	OpEdit     = "edit"
	OpSearch   = "search"
	OpReport   = "report"
	OpRender   = "render"
	OpExport   = "export"
	OpRecover  = "recover"
	OpLogin    = "login"
	OpStartup  = "startup"
	OpShutdown = "shutdown"
)

// ErrorTypes defines standard error type categories
const (
	ErrorTypeValidation    = "validation_error"
	ErrorTypeConfiguration = "configuration_error"
	ErrorTypeNotFound      = "not_found_error"
	ErrorTypeAuth          = "auth_error"
	ErrorTypeStorage       = "storage_error"
	ErrorTypeInternal      = "internal_error"
)

// ErrorType classifies err into one of the ErrorType categories.
func ErrorType(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, core.ErrUnknownProduct), errors.Is(err, core.ErrNoData):
		return ErrorTypeNotFound
	case errors.Is(err, core.ErrAuthFailed), errors.Is(err, core.ErrForbidden):
		return ErrorTypeAuth
	case errors.Is(err, core.ErrPartialWrite), errors.Is(err, core.ErrMalformedRow):
		return ErrorTypeStorage
	case errors.Is(err, core.ErrInvalidDate), errors.Is(err, core.ErrInvalidMonth),
		errors.Is(err, core.ErrInvalidRange), errors.Is(err, core.ErrInvalidQuantity),
		errors.Is(err, core.ErrInvalidPrice), errors.Is(err, core.ErrInvalidStock),
		errors.Is(err, core.ErrInsufficientStock), errors.Is(err, core.ErrEmptyName):
		return ErrorTypeValidation
	}
	return ErrorTypeInternal
}

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

func (f LogFields) WithComponent(component string) LogFields {
	f[FieldComponent] = component
	return f
}

// WithError adds the error and its category
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
		f[FieldErrorType] = ErrorType(err)
	}
	return f
}

func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithRowIssue adds the location and kind of a skipped row
func (f LogFields) WithRowIssue(issue core.RowIssue) LogFields {
	f[FieldSource] = issue.Source
	if issue.Row > 0 {
		f[FieldRow] = issue.Row
	}
	if issue.Detail != "" {
		f[FieldDetail] = issue.Detail
	}
	return f.WithError(issue.Err)
}

// WithSale adds transaction fields
func (f LogFields) WithSale(tx core.Transaction) LogFields {
	f[FieldGroceryID] = tx.GroceryID
	f[FieldQuantity] = tx.Quantity
	f[FieldPayment] = core.FormatMoney(tx.Payment)
	return f
}

func (f LogFields) WithUser(u core.User) LogFields {
	f[FieldUsername] = u.Username
	f[FieldRole] = u.Role.String()
	return f
}

// ToSlice converts LogFields to a slice for slog
func (f LogFields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}

// Issues logs each row diagnostic at Warn.
func (l *Logger) Issues(op string, issues []core.RowIssue) {
	for _, is := range issues {
		l.Warn("Row skipped", NewFields().WithOperation(op).WithRowIssue(is).ToSlice()...)
	}
}
