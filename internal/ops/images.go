package ops

import (
	"database/sql"

	"github.com/charmbracelet/log"

	"inlay/internal/config"
	"inlay/internal/errors"
	"inlay/internal/extract"
	"inlay/internal/route"
	"inlay/internal/store"
)

// ImagesInput contains parameters for the Images operation.
type ImagesInput struct {
	RecordID string // required
}

// ImagesOutput contains the result of the Images operation.
type ImagesOutput struct {
	RecordID string                `json:"record_id"`
	Type     string                `json:"type"`
	Bundle   string                `json:"bundle"`
	Images   []extract.ImageSource `json:"images"`
}

// Images extracts every image the record references and resolves each to a
// public URL and MIME type.
func Images(db *sql.DB, cfg *config.Config, logger *log.Logger, input ImagesInput) (*ImagesOutput, error) {
	if input.RecordID == "" {
		return nil, errors.NewInvalidRequest("record id is required")
	}

	r, err := store.RecordByID(db, input.RecordID)
	if err != nil {
		return nil, err
	}

	// Present the record to the extractor the way a matched route would.
	m := route.NewMatch()
	m.SetParameter(r.Type, r)

	x := extract.New(store.Bind(db), logger)
	if err := x.SetRecordFromRoute(m); err != nil {
		return nil, err
	}

	files, err := x.ExtractImages()
	if err != nil {
		return nil, err
	}

	return &ImagesOutput{
		RecordID: r.ID,
		Type:     r.Type,
		Bundle:   r.Bundle,
		Images:   extract.Sources(cfg.PublicFilesBaseURL, files),
	}, nil
}
