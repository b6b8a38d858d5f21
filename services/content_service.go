package services

import (
	"context"
	"knitcraft_server/structs"
	"knitcraft_server/structs/tables"
	"strings"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
)

type ContentService struct {
	logger   *gecho.Logger
	content  ContentStore
	notifier Notifier
}

func NewContentService(logger *gecho.Logger, content ContentStore, notifier Notifier) *ContentService {
	return &ContentService{
		logger:   logger,
		content:  content,
		notifier: notifier,
	}
}

// GetAbout returns the stored About page, or an empty one when nothing was saved yet.
func (cs *ContentService) GetAbout(ctx context.Context) (*tables.About, error) {
	about, err := cs.content.GetAbout(ctx)
	if err != nil {
		return nil, err
	}
	if about == nil {
		about = &tables.About{Key: tables.AboutPageKey}
	}
	return about, nil
}

// UpdateAbout merges the request into the stored page field by field.
func (cs *ContentService) UpdateAbout(ctx context.Context, req *structs.AboutRequest) (*tables.About, error) {
	about, err := cs.GetAbout(ctx)
	if err != nil {
		return nil, err
	}

	MergeAbout(about, req)

	if err := cs.content.SaveAbout(ctx, about); err != nil {
		cs.logger.Error("Failed to save about page", gecho.Field("error", err))
		return nil, err
	}
	return about, nil
}

// MergeAbout copies every supplied field of req onto about. Omitted fields keep their value.
func MergeAbout(about *tables.About, req *structs.AboutRequest) {
	if req.Title != nil {
		about.Title = *req.Title
	}
	if req.Subtitle != nil {
		about.Subtitle = *req.Subtitle
	}
	if req.Story != nil {
		about.Story = *req.Story
	}
	if req.ImageURL != nil {
		about.ImageURL = *req.ImageURL
	}

	ext := req.Extended
	if ext == nil {
		return
	}
	if ext.Mission != nil {
		about.Extended.Mission = *ext.Mission
	}
	if ext.Values != nil {
		about.Extended.Values = ext.Values
	}
	if ext.Team != nil {
		about.Extended.Team = ext.Team
	}
	if ext.Stats != nil {
		about.Extended.Stats = ext.Stats
	}
}

func (cs *ContentService) SubmitContact(ctx context.Context, req *structs.ContactRequest) (*tables.ContactMessage, error) {
	msg := &tables.ContactMessage{
		Name:    strings.TrimSpace(req.Name),
		Email:   strings.TrimSpace(req.Email),
		Subject: strings.TrimSpace(req.Subject),
		Message: strings.TrimSpace(req.Message),
	}
	if err := cs.content.CreateContactMessage(ctx, msg); err != nil {
		cs.logger.Error("Failed to store contact message", gecho.Field("error", err))
		return nil, err
	}

	if err := cs.notifier.SendContactNotification(ctx, msg); err != nil {
		cs.logger.Warn("Contact notification failed", gecho.Field("error", err), gecho.Field("message_id", msg.Id))
	}
	return msg, nil
}

func (cs *ContentService) ListContactMessages(ctx context.Context, unreadOnly bool) ([]tables.ContactMessage, error) {
	return cs.content.ListContactMessages(ctx, unreadOnly)
}

func (cs *ContentService) MarkContactMessageRead(ctx context.Context, id uuid.UUID) error {
	return cs.content.MarkContactMessageRead(ctx, id)
}
