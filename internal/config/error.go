package config

import "fmt"

// InitError reports a config file that loaded but is missing a field
// the application cannot run without.
type InitError struct {
	Field string
}

func (e *InitError) Error() string {
	return fmt.Sprintf("required config field %q is not set; run \"marginalia init\" or edit the config file", e.Field)
}
