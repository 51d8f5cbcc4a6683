package log

// Common field names for structured logging
const (
	FieldComponent   = "component"
	FieldError       = "error"
	FieldOperation   = "operation"
	FieldSource      = "source"
	FieldPath        = "path"
	FieldRecords     = "records"
	FieldDistinct    = "distinct_transactions"
	FieldTotalAmount = "total_amount"
	FieldSender      = "sender"
	FieldExchange    = "exchange"
	FieldQueue       = "queue"
	FieldDuration    = "duration_ms"
	FieldSchema      = "schema_version"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentSource  = "source"
	ComponentStorage = "storage"
	ComponentSheets  = "sheets"
	ComponentAMQP    = "amqp"
	ComponentBackend = "backend"
	ComponentReport  = "report"
	ComponentSeed    = "seed"
)

// Operations defines standard operation names
const (
	OpLoad     = "load"
	OpImport   = "import"
	OpQuery    = "query"
	OpPublish  = "publish"
	OpValidate = "validate"
	OpStartup  = "startup"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

// WithError adds error field
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

// WithOperation adds operation field
func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithSource adds the record source kind and its location.
func (f LogFields) WithSource(kind, location string) LogFields {
	f[FieldSource] = kind
	if location != "" {
		f[FieldPath] = location
	}
	return f
}

// WithSnapshot adds the size of a loaded snapshot.
func (f LogFields) WithSnapshot(records, distinct int) LogFields {
	f[FieldRecords] = records
	f[FieldDistinct] = distinct
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
