package spec

import "fmt"

// InvalidSpecificationError reports that a document decoded fine but is
// missing a field the harness requires before driving any assertions.
type InvalidSpecificationError struct {
	Field string
}

func (e *InvalidSpecificationError) Error() string {
	return fmt.Sprintf("invalid specification: required field %q is missing or empty", e.Field)
}
