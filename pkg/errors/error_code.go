package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Validation errors (100-199)
	ErrCodeInvalidParameter     ErrorCode = 100
	ErrCodeInvalidConfiguration ErrorCode = 101
	ErrCodeMissingParameter     ErrorCode = 102
	ErrCodeInvalidPeriod        ErrorCode = 104
	ErrCodeInvalidVersion       ErrorCode = 105
	ErrCodeInvalidTimezone      ErrorCode = 106

	// Data/Resource errors (200-299)
	ErrCodeDataSourceUnavailable ErrorCode = 201
	ErrCodeQueryFailed           ErrorCode = 202
	ErrCodeDataOutOfOrder        ErrorCode = 203

	// Backtest errors (600-699)
	ErrCodeBacktestAborted      ErrorCode = 600
	ErrCodeBacktestNoDatasource ErrorCode = 601
	ErrCodeLedgerWriteFailed    ErrorCode = 602
	ErrCodeSweepFailed          ErrorCode = 603

	// Callback errors (800-899)
	ErrCodeCallbackFailed ErrorCode = 800
)
