package errors

import "sort"

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Runtime Errors (W001-W009)
	// ============================================

	"W001": {
		Category: CategoryLifecycle,
		Message:  "Lifecycle hook failed",
		Detail:   "A connect or disconnect hook returned an error. The instance may be partially connected; the caller decides whether to retry or discard it.",
	},
	"W002": {
		Category: CategoryUpdate,
		Message:  "Update read failed",
		Detail:   "A read step returned an error. The remaining descriptors of this pass were skipped.",
	},
	"W003": {
		Category: CategoryUpdate,
		Message:  "Update write failed",
		Detail:   "A write step returned an error.",
	},
	"W004": {
		Category: CategoryWatch,
		Message:  "Computed watch failed",
		Detail:   "A watch callback returned an error. The remaining watches of this pass were skipped.",
	},

	// ============================================
	// Definition Errors (W010-W019)
	// ============================================

	"W010": {
		Category: CategoryDefinition,
		Message:  "Invalid option set",
	},
	"W011": {
		Category: CategoryDefinition,
		Message:  "Update descriptor has neither read nor write",
	},
	"W012": {
		Category: CategoryDefinition,
		Message:  "Computed descriptor is incomplete",
		Detail:   "Every computed descriptor needs a key and a getter.",
	},
	"W013": {
		Category: CategoryDefinition,
		Message:  "Duplicate computed key",
	},
	"W014": {
		Category: CategoryDefinition,
		Message:  "Unknown hook name",
	},

	// ============================================
	// Config Errors (W100-W119)
	// ============================================

	"W100": {
		Category: CategoryConfig,
		Message:  "Configuration file not found",
	},
	"W101": {
		Category: CategoryConfig,
		Message:  "Invalid configuration file",
	},
	"W102": {
		Category: CategoryConfig,
		Message:  "Unsupported configuration format",
		Detail:   "Configuration files must end in .json, .yaml, .yml or .toml.",
	},
	"W103": {
		Category: CategoryConfig,
		Message:  "Invalid configuration value",
	},

	// ============================================
	// CLI Errors (W200-W219)
	// ============================================

	"W200": {
		Category: CategoryCLI,
		Message:  "Command failed",
	},
	"W201": {
		Category: CategoryCLI,
		Message:  "Invalid argument",
	},
}

// Codes returns every registered code in ascending order.
func Codes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Lookup returns the template registered for code.
func Lookup(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}
