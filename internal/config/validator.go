package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/kolkov/forkjoin/internal/logging"
	"github.com/kolkov/forkjoin/internal/parallel"
	"github.com/kolkov/forkjoin/internal/version"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config key (e.g., "log.level")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d validation errors:\n", len(e))
	for i, err := range e {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, err.Error())
	}
	return sb.String()
}

// ValidLogLevels returns the list of valid log levels
func ValidLogLevels() []string {
	levels := logging.ValidLevels()
	for i, l := range levels {
		levels[i] = strings.ToLower(l)
	}
	return levels
}

// ValidLogFormats returns the list of valid log formats
func ValidLogFormats() []string {
	return []string{"text", "json"}
}

// ValidVariants returns the list of valid audit variants
func ValidVariants() []string {
	return []string{"buggy", "solution"}
}

// Validate checks the Config for invalid values and returns every problem found
func (c *Config) Validate() []ValidationError {
	var errs []ValidationError

	if c.MaxThreads < 1 || c.MaxThreads > parallel.MaxThreads {
		errs = append(errs, ValidationError{
			Field:   "max_threads",
			Value:   c.MaxThreads,
			Message: fmt.Sprintf("must be between 1 and %d", parallel.MaxThreads),
		})
	}

	if _, err := parallel.ParseSchedule(c.Schedule); err != nil {
		errs = append(errs, ValidationError{
			Field:   "schedule",
			Value:   c.Schedule,
			Message: "must be static, dynamic or guided, optionally followed by ,chunk",
		})
	}

	if !slices.Contains(ValidLogLevels(), strings.ToLower(c.Log.Level)) {
		errs = append(errs, ValidationError{
			Field:   "log.level",
			Value:   c.Log.Level,
			Message: fmt.Sprintf("must be one of %v", ValidLogLevels()),
		})
	}

	if !slices.Contains(ValidLogFormats(), strings.ToLower(c.Log.Format)) {
		errs = append(errs, ValidationError{
			Field:   "log.format",
			Value:   c.Log.Format,
			Message: fmt.Sprintf("must be one of %v", ValidLogFormats()),
		})
	}

	if !slices.Contains(ValidVariants(), strings.ToLower(c.Audit.Variant)) {
		errs = append(errs, ValidationError{
			Field:   "audit.variant",
			Value:   c.Audit.Variant,
			Message: fmt.Sprintf("must be one of %v", ValidVariants()),
		})
	}

	if c.Requires != "" && version.Canonical(c.Requires) == "" {
		errs = append(errs, ValidationError{
			Field:   "requires",
			Value:   c.Requires,
			Message: "must be a semantic version such as v0.1.0",
		})
	}

	return errs
}
