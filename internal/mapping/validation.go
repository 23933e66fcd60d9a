package mapping

import (
	"fmt"

	"performance-core/internal/models"
)

// ValidationResult holds per-field mapping errors keyed by target field id
type ValidationResult struct {
	Errors map[string]string `json:"errors"`
	Valid  bool              `json:"valid"`
}

// ValidateMappings checks that every required field is mapped and that no
// target field is mapped more than once.
func ValidateMappings(mappings []models.FieldMapping, required []models.TargetField) ValidationResult {
	errors := map[string]string{}

	counts := map[models.TargetField]int{}
	for _, m := range mappings {
		counts[m.TargetFieldID]++
	}

	allMapped := true
	for _, field := range required {
		if counts[field] == 0 {
			allMapped = false
			errors[string(field)] = fmt.Sprintf("%s is required", FieldName(field))
		}
	}

	for field, n := range counts {
		if n > 1 {
			errors[string(field)] = fmt.Sprintf("%s is mapped to %d columns", FieldName(field), n)
		}
	}

	return ValidationResult{
		Errors: errors,
		Valid:  len(errors) == 0 && allMapped,
	}
}
