// Package errors provides structured error handling for notedex.
//
// Error codes follow the pattern ERR_XXX_DESCRIPTION where:
//   - 1XX: Configuration errors
//   - 2XX: Note IO and decoding errors
//   - 4XX: Validation errors
//   - 5XX: Internal errors (index invariant violations)
package errors

// Category defines error categories for classification.
type Category string

const (
	// CategoryConfig indicates configuration-related errors.
	CategoryConfig Category = "CONFIG"
	// CategoryNote indicates errors reading or decoding a note.
	CategoryNote Category = "NOTE"
	// CategoryValidation indicates input validation errors.
	CategoryValidation Category = "VALIDATION"
	// CategoryInternal indicates unexpected internal errors.
	CategoryInternal Category = "INTERNAL"
)

// Severity defines error severity levels.
type Severity string

const (
	// SeverityFatal indicates unrecoverable error, must abort.
	SeverityFatal Severity = "FATAL"
	// SeverityError indicates operation failed but can continue.
	SeverityError Severity = "ERROR"
	// SeverityWarning indicates degraded operation, continuing.
	SeverityWarning Severity = "WARNING"
)

// Error codes organized by category.
const (
	// Config errors (100-199)
	ErrCodeConfigNotFound = "ERR_101_CONFIG_NOT_FOUND"
	ErrCodeConfigInvalid  = "ERR_102_CONFIG_INVALID"

	// Note errors (200-299)
	ErrCodeNoteNotFound = "ERR_201_NOTE_NOT_FOUND"
	ErrCodeNoteDecode   = "ERR_202_NOTE_DECODE"
	ErrCodeVaultLocked  = "ERR_203_VAULT_LOCKED"
	ErrCodeVaultInvalid = "ERR_204_VAULT_INVALID"

	// Validation errors (400-499)
	ErrCodeInvalidInput = "ERR_401_INVALID_INPUT"
	ErrCodeInvalidPath  = "ERR_402_INVALID_PATH"

	// Internal errors (500-599)
	ErrCodeInternal     = "ERR_501_INTERNAL"
	ErrCodeIndexCorrupt = "ERR_502_INDEX_CORRUPT"
)

// categoryFromCode extracts category from error code.
func categoryFromCode(code string) Category {
	if len(code) < 7 {
		return CategoryInternal
	}
	switch code[4] {
	case '1':
		return CategoryConfig
	case '2':
		return CategoryNote
	case '4':
		return CategoryValidation
	default:
		return CategoryInternal
	}
}

// severityFromCode derives severity from the error code.
// Note decode failures are warnings: the note is still indexed, empty.
func severityFromCode(code string) Severity {
	switch code {
	case ErrCodeNoteDecode:
		return SeverityWarning
	case ErrCodeConfigInvalid, ErrCodeVaultInvalid, ErrCodeVaultLocked:
		return SeverityFatal
	default:
		return SeverityError
	}
}
