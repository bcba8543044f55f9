package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Length limits
const (
	MaxCommandLength   = 64
	MaxRequestIDLength = 128
	MaxPathLength      = 4096
	MaxParamsDepth     = 8
)

// CommandPattern matches command names such as get_file_tree
var CommandPattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// RequestIDPattern allows alphanumeric, hyphens, underscores
var RequestIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// ValidateString validates a string field with length and content checks
func ValidateString(value, fieldName string, minLen, maxLen int, required bool) error {
	if required && value == "" {
		return fmt.Errorf("%s is required", fieldName)
	}

	if value == "" && !required {
		return nil
	}

	length := utf8.RuneCountInString(value)
	if length < minLen {
		return fmt.Errorf("%s must be at least %d characters", fieldName, minLen)
	}
	if length > maxLen {
		return fmt.Errorf("%s must not exceed %d characters", fieldName, maxLen)
	}

	if strings.Contains(value, "\x00") {
		return fmt.Errorf("%s contains invalid characters", fieldName)
	}

	return nil
}

// ValidateCommand validates a command name
func ValidateCommand(name string) error {
	if err := ValidateString(name, "command", 1, MaxCommandLength, true); err != nil {
		return err
	}
	if !CommandPattern.MatchString(name) {
		return fmt.Errorf("command contains invalid characters (only lowercase letters, digits and underscores allowed)")
	}
	return nil
}

// ValidateRequestID validates an optional client-supplied request ID
func ValidateRequestID(id string) error {
	if err := ValidateString(id, "request_id", 1, MaxRequestIDLength, false); err != nil {
		return err
	}
	if id != "" && !RequestIDPattern.MatchString(id) {
		return fmt.Errorf("request_id contains invalid characters (only alphanumeric, hyphens, and underscores allowed)")
	}
	return nil
}

// ValidatePath validates a filesystem path parameter
func ValidatePath(path, fieldName string) error {
	return ValidateString(path, fieldName, 1, MaxPathLength, true)
}

// ValidateParamsDepth checks that command parameters nest no deeper than maxDepth
func ValidateParamsDepth(params map[string]interface{}, maxDepth int) error {
	return checkDepth(params, 0, maxDepth)
}

func checkDepth(data interface{}, currentDepth int, maxDepth int) error {
	if currentDepth > maxDepth {
		return fmt.Errorf("params nesting depth %d exceeds maximum %d", currentDepth, maxDepth)
	}

	switch v := data.(type) {
	case map[string]interface{}:
		for _, value := range v {
			if err := checkDepth(value, currentDepth+1, maxDepth); err != nil {
				return err
			}
		}
	case []interface{}:
		for _, value := range v {
			if err := checkDepth(value, currentDepth+1, maxDepth); err != nil {
				return err
			}
		}
	}

	return nil
}
