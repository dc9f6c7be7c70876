package latex

import "strings"

// ValidateStructure requires \documentclass and \end{document}.
func ValidateStructure(latex string) error {
	err := &InvalidStructureError{
		MissingDocumentClass: !strings.Contains(latex, documentClassMarker),
		MissingEndDocument:   !strings.Contains(latex, endDocumentMarker),
	}
	if err.MissingDocumentClass || err.MissingEndDocument {
		return err
	}
	return nil
}
