package content

import (
	"knitcraft_server/services"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type ContentRoutesManager struct {
	logger         *gecho.Logger
	contentService *services.ContentService
}

func NewContentRoutesManager(logger *gecho.Logger, contentService *services.ContentService) *ContentRoutesManager {
	return &ContentRoutesManager{
		logger:         logger,
		contentService: contentService,
	}
}

func (crm *ContentRoutesManager) RegisterRoutes(r chi.Router) {
	r.Get("/about", crm.GetAbout)
	r.Post("/contact", crm.SubmitContact)
}
