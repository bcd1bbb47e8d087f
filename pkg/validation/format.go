// Package validation checks loan inputs and output settings. Range problems
// are reported as warnings; only unusable settings are errors.
package validation

import (
	"fmt"
	"strings"

	"github.com/iwvelando/mortgage-amortization/pkg/constants"
)

// ParseOutputFormat normalizes a configured or flag-supplied output format.
// Case and surrounding space are ignored and an empty value selects pretty.
func ParseOutputFormat(format string) (string, error) {
	switch normalized := strings.ToLower(strings.TrimSpace(format)); normalized {
	case "":
		return constants.OutputFormatPretty, nil
	case constants.OutputFormatPretty, constants.OutputFormatCSV:
		return normalized, nil
	default:
		return "", fmt.Errorf("unsupported output format %q, expected %s or %s",
			format, constants.OutputFormatPretty, constants.OutputFormatCSV)
	}
}
