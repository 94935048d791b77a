package logging

// Field names shared by every component that talks to the accounting server.
// Keeping them in one place makes the log output greppable across commands.
const (
	FieldOperation = "operation"
	FieldMethod    = "method"
	FieldURL       = "url"
	FieldStatus    = "status"
	FieldTable     = "table"
	FieldSearch    = "search"
	FieldForm      = "form"
	FieldSeqNum    = "seqnum"
	FieldCount     = "count"
	FieldBytes     = "bytes"
	FieldDuration  = "duration_ms"
	FieldFile      = "file_path"
	FieldRecipient = "recipient"
	FieldError     = "error"
)
