package ports

import (
	"docugen/domain/docs"
)

// DocumentRenderer renders one employee row into a concrete document file
type DocumentRenderer interface {
	// Kind identifies the output type this renderer produces
	Kind() docs.Kind

	// Render writes the document to req.OutputPath
	Render(req docs.RenderRequest) error
}
