package types

import (
	"github.com/sweeparr/sweeparr/internal/database"
	"github.com/sweeparr/sweeparr/internal/services/catalogevents"
	"github.com/sweeparr/sweeparr/internal/services/deletion"
	"github.com/sweeparr/sweeparr/internal/services/providermap"
)

// Dependencies holds all the dependencies needed by handlers
type Dependencies struct {
	DB        *database.DB
	Processor *deletion.Processor
	Listener  *catalogevents.Listener
	Rebuilder providermap.Rebuilder
	Index     providermap.IndexRepository
}
