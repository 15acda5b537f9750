package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"shilohridge/backend/internal/domain"
	"shilohridge/backend/internal/store"
)

func (s *Service) CreateDocument(ctx context.Context, doc domain.Document) (domain.Document, error) {
	if err := requireAdmin(ctx); err != nil {
		return domain.Document{}, err
	}

	doc.Title = strings.TrimSpace(doc.Title)
	doc.Filename = strings.TrimSpace(doc.Filename)
	doc.Category = strings.ToLower(strings.TrimSpace(doc.Category))
	if doc.Title == "" || doc.Filename == "" {
		return domain.Document{}, fmt.Errorf("%w: title and filename are required", store.ErrValidation)
	}
	if !isDocumentCategory(doc.Category) {
		return domain.Document{}, fmt.Errorf("%w: category must be one of certificates, reports, applications, other", store.ErrValidation)
	}

	actor, _ := ActorFromContext(ctx)
	now := time.Now().UTC()
	doc.ID = uuid.NewString()
	doc.UploadedBy = actor.Username
	doc.CreatedAt = now
	doc.UpdatedAt = now

	created, err := s.repo.CreateDocument(ctx, doc)
	if err != nil {
		return domain.Document{}, err
	}

	s.logAudit(ctx, "document_create", "document", created.ID, fmt.Sprintf("title=%s,category=%s", created.Title, created.Category))
	return *created, nil
}

func (s *Service) GetDocument(ctx context.Context, id string) (*domain.Document, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("%w: document id required", store.ErrValidation)
	}
	return s.repo.GetDocument(ctx, id)
}

func (s *Service) ListDocuments(ctx context.Context, category string, publicOnly bool) ([]domain.Document, error) {
	category = strings.ToLower(strings.TrimSpace(category))
	if category != "" && !isDocumentCategory(category) {
		return nil, fmt.Errorf("%w: unknown document category %q", store.ErrValidation, category)
	}
	return s.repo.ListDocuments(ctx, category, publicOnly)
}

func (s *Service) UpdateDocument(ctx context.Context, id string, req domain.DocumentUpdateRequest) (domain.Document, error) {
	if err := requireAdmin(ctx); err != nil {
		return domain.Document{}, err
	}

	existing, err := s.GetDocument(ctx, id)
	if err != nil {
		return domain.Document{}, err
	}

	updated := *existing
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return domain.Document{}, fmt.Errorf("%w: title must not be empty", store.ErrValidation)
		}
		updated.Title = title
	}
	if req.Description != nil {
		updated.Description = strings.TrimSpace(*req.Description)
	}
	if req.Category != nil {
		category := strings.ToLower(strings.TrimSpace(*req.Category))
		if !isDocumentCategory(category) {
			return domain.Document{}, fmt.Errorf("%w: unknown document category %q", store.ErrValidation, category)
		}
		updated.Category = category
	}
	if req.IsPublic != nil {
		updated.IsPublic = *req.IsPublic
	}
	updated.UpdatedAt = time.Now().UTC()

	saved, err := s.repo.UpdateDocument(ctx, updated)
	if err != nil {
		return domain.Document{}, err
	}

	s.logAudit(ctx, "document_update", "document", saved.ID, "")
	return *saved, nil
}

func (s *Service) DeleteDocument(ctx context.Context, id string) (*domain.Document, error) {
	if err := requireAdmin(ctx); err != nil {
		return nil, err
	}

	doc, err := s.GetDocument(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.DeleteDocument(ctx, doc.ID); err != nil {
		return nil, err
	}

	s.logAudit(ctx, "document_delete", "document", doc.ID, doc.Filename)
	return doc, nil
}

func (s *Service) SubmitContactForm(ctx context.Context, req domain.ContactFormRequest) (domain.ContactForm, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Message = strings.TrimSpace(req.Message)
	if req.Name == "" || req.Email == "" || req.Message == "" {
		return domain.ContactForm{}, fmt.Errorf("%w: name, email and message are required", store.ErrValidation)
	}

	form := domain.ContactForm{
		ID:        uuid.NewString(),
		Name:      req.Name,
		Email:     req.Email,
		Phone:     strings.TrimSpace(req.Phone),
		Subject:   defaultString(req.Subject, "General inquiry"),
		Message:   req.Message,
		CreatedAt: time.Now().UTC(),
	}

	created, err := s.repo.CreateContactForm(ctx, form)
	if err != nil {
		return domain.ContactForm{}, err
	}
	return *created, nil
}

func (s *Service) ListContactForms(ctx context.Context, unreadOnly bool) ([]domain.ContactForm, error) {
	if err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	return s.repo.ListContactForms(ctx, unreadOnly)
}

func (s *Service) MarkContactFormRead(ctx context.Context, id string) (domain.ContactForm, error) {
	if err := requireAdmin(ctx); err != nil {
		return domain.ContactForm{}, err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.ContactForm{}, fmt.Errorf("%w: contact form id required", store.ErrValidation)
	}
	updated, err := s.repo.MarkContactFormRead(ctx, id)
	if err != nil {
		return domain.ContactForm{}, err
	}
	return *updated, nil
}

func (s *Service) GetAbout(ctx context.Context) (*domain.AboutContent, error) {
	return s.repo.GetAbout(ctx)
}

func (s *Service) UpdateAbout(ctx context.Context, content domain.AboutContent) (domain.AboutContent, error) {
	if err := requireAdmin(ctx); err != nil {
		return domain.AboutContent{}, err
	}

	content.Title = strings.TrimSpace(content.Title)
	content.Body = strings.TrimSpace(content.Body)
	if content.Title == "" || content.Body == "" {
		return domain.AboutContent{}, fmt.Errorf("%w: title and body are required", store.ErrValidation)
	}
	content.UpdatedAt = time.Now().UTC()

	saved, err := s.repo.UpsertAbout(ctx, content)
	if err != nil {
		return domain.AboutContent{}, err
	}
	s.logAudit(ctx, "about_update", "content", "about", "")
	return *saved, nil
}

func (s *Service) GetSettings(ctx context.Context) (*domain.SiteSettings, error) {
	return s.repo.GetSettings(ctx)
}

func (s *Service) UpdateSettings(ctx context.Context, settings domain.SiteSettings) (domain.SiteSettings, error) {
	if err := requireAdmin(ctx); err != nil {
		return domain.SiteSettings{}, err
	}

	settings.FarmName = strings.TrimSpace(settings.FarmName)
	if settings.FarmName == "" {
		return domain.SiteSettings{}, fmt.Errorf("%w: farm name is required", store.ErrValidation)
	}
	settings.UpdatedAt = time.Now().UTC()

	saved, err := s.repo.UpsertSettings(ctx, settings)
	if err != nil {
		return domain.SiteSettings{}, err
	}
	s.logAudit(ctx, "settings_update", "content", "settings", "")
	return *saved, nil
}

func (s *Service) CreateBlogPost(ctx context.Context, req domain.BlogPostCreateRequest) (domain.BlogPost, error) {
	if err := requireAdmin(ctx); err != nil {
		return domain.BlogPost{}, err
	}

	req.Title = strings.TrimSpace(req.Title)
	req.Body = strings.TrimSpace(req.Body)
	if req.Title == "" || req.Body == "" {
		return domain.BlogPost{}, fmt.Errorf("%w: title and body are required", store.ErrValidation)
	}

	actor, _ := ActorFromContext(ctx)
	now := time.Now().UTC()
	post := domain.BlogPost{
		ID:        uuid.NewString(),
		Title:     req.Title,
		Body:      req.Body,
		Author:    defaultString(req.Author, actor.Username),
		Published: req.Published,
		ImageURL:  strings.TrimSpace(req.ImageURL),
		CreatedAt: now,
		UpdatedAt: now,
	}

	created, err := s.repo.CreateBlogPost(ctx, post)
	if err != nil {
		return domain.BlogPost{}, err
	}

	s.logAudit(ctx, "blog_create", "blog", created.ID, fmt.Sprintf("published=%t", created.Published))
	return *created, nil
}

func (s *Service) ListBlogPosts(ctx context.Context, publishedOnly bool) ([]domain.BlogPost, error) {
	return s.repo.ListBlogPosts(ctx, publishedOnly)
}

func (s *Service) UpdateBlogPost(ctx context.Context, id string, req domain.BlogPostCreateRequest) (domain.BlogPost, error) {
	if err := requireAdmin(ctx); err != nil {
		return domain.BlogPost{}, err
	}

	id = strings.TrimSpace(id)
	if id == "" {
		return domain.BlogPost{}, fmt.Errorf("%w: blog post id required", store.ErrValidation)
	}
	existing, err := s.repo.GetBlogPost(ctx, id)
	if err != nil {
		return domain.BlogPost{}, err
	}

	updated := *existing
	updated.Title = defaultString(req.Title, existing.Title)
	updated.Body = defaultString(req.Body, existing.Body)
	updated.Author = defaultString(req.Author, existing.Author)
	updated.Published = req.Published
	updated.ImageURL = defaultString(req.ImageURL, existing.ImageURL)
	updated.UpdatedAt = time.Now().UTC()

	saved, err := s.repo.UpdateBlogPost(ctx, updated)
	if err != nil {
		return domain.BlogPost{}, err
	}

	s.logAudit(ctx, "blog_update", "blog", saved.ID, fmt.Sprintf("published=%t", saved.Published))
	return *saved, nil
}

func (s *Service) DeleteBlogPost(ctx context.Context, id string) error {
	if err := requireAdmin(ctx); err != nil {
		return err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("%w: blog post id required", store.ErrValidation)
	}
	if err := s.repo.DeleteBlogPost(ctx, id); err != nil {
		return err
	}
	s.logAudit(ctx, "blog_delete", "blog", id, "")
	return nil
}

func (s *Service) CreateNFTRecord(ctx context.Context, req domain.NFTRecordCreateRequest) (domain.NFTRecord, error) {
	if err := requireAdmin(ctx); err != nil {
		return domain.NFTRecord{}, err
	}

	req.InventoryID = strings.TrimSpace(req.InventoryID)
	req.TokenID = strings.TrimSpace(req.TokenID)
	if req.InventoryID == "" || req.TokenID == "" {
		return domain.NFTRecord{}, fmt.Errorf("%w: inventory id and token id are required", store.ErrValidation)
	}

	// The linked unit must exist; the record itself carries no other
	// referential behavior.
	if _, err := s.repo.GetInventoryItem(ctx, req.InventoryID); err != nil {
		return domain.NFTRecord{}, fmt.Errorf("inventory %s: %w", req.InventoryID, err)
	}

	record := domain.NFTRecord{
		ID:          uuid.NewString(),
		InventoryID: req.InventoryID,
		TokenID:     req.TokenID,
		Chain:       defaultString(req.Chain, "ethereum"),
		MetadataURL: strings.TrimSpace(req.MetadataURL),
		Notes:       strings.TrimSpace(req.Notes),
		CreatedAt:   time.Now().UTC(),
	}

	created, err := s.repo.CreateNFTRecord(ctx, record)
	if err != nil {
		return domain.NFTRecord{}, err
	}

	s.logAudit(ctx, "nft_record_create", "nft_record", created.ID, fmt.Sprintf("token=%s", created.TokenID))
	return *created, nil
}

func (s *Service) ListNFTRecords(ctx context.Context, inventoryID string) ([]domain.NFTRecord, error) {
	if err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	return s.repo.ListNFTRecords(ctx, strings.TrimSpace(inventoryID))
}

func (s *Service) DeleteNFTRecord(ctx context.Context, id string) error {
	if err := requireAdmin(ctx); err != nil {
		return err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("%w: nft record id required", store.ErrValidation)
	}
	if err := s.repo.DeleteNFTRecord(ctx, id); err != nil {
		return err
	}
	s.logAudit(ctx, "nft_record_delete", "nft_record", id, "")
	return nil
}

// MarketTicker returns indicative livestock market quotes for the public
// storefront banner. The quotes are static reference values, not a live feed.
func (s *Service) MarketTicker() []domain.TickerQuote {
	return []domain.TickerQuote{
		{Symbol: "LAMB", Label: "Feeder Lambs", Price: decimal.NewFromFloat(2.85), Unit: "lb"},
		{Symbol: "HOGS", Label: "Market Hogs", Price: decimal.NewFromFloat(0.92), Unit: "lb"},
		{Symbol: "EGGS", Label: "Farm Eggs", Price: decimal.NewFromFloat(8.00), Unit: "dozen"},
		{Symbol: "WOOL", Label: "Raw Wool", Price: decimal.NewFromFloat(1.40), Unit: "lb"},
	}
}

func isDocumentCategory(category string) bool {
	switch category {
	case domain.DocumentCategoryCertificates, domain.DocumentCategoryReports,
		domain.DocumentCategoryApplications, domain.DocumentCategoryOther:
		return true
	default:
		return false
	}
}
