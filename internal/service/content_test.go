package service

import (
	"context"
	"errors"
	"testing"

	"shilohridge/backend/internal/domain"
	"shilohridge/backend/internal/store"
)

func TestSubmitContactFormDefaultsSubject(t *testing.T) {
	svc := newTestService(t)

	form, err := svc.SubmitContactForm(context.Background(), domain.ContactFormRequest{
		Name:    "Casey Brook",
		Email:   "casey@example.com",
		Message: "Do you ship half hogs out of state?",
	})
	if err != nil {
		t.Fatalf("submit contact form: %v", err)
	}
	if form.Subject != "General inquiry" {
		t.Fatalf("expected default subject, got %q", form.Subject)
	}
	if form.Read {
		t.Fatalf("new contact form must start unread")
	}

	marked, err := svc.MarkContactFormRead(adminContext(), form.ID)
	if err != nil {
		t.Fatalf("mark read: %v", err)
	}
	if !marked.Read {
		t.Fatalf("expected form marked read")
	}

	unread, err := svc.ListContactForms(adminContext(), true)
	if err != nil {
		t.Fatalf("list unread: %v", err)
	}
	if len(unread) != 0 {
		t.Fatalf("expected no unread forms, got %d", len(unread))
	}
}

func TestSubmitContactFormValidation(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.SubmitContactForm(context.Background(), domain.ContactFormRequest{Name: "Casey"})
	if !errors.Is(err, store.ErrValidation) {
		t.Fatalf("expected validation error without email and message, got %v", err)
	}
}

func TestCreateBlogPostDefaultsAuthor(t *testing.T) {
	svc := newTestService(t)

	post, err := svc.CreateBlogPost(adminContext(), domain.BlogPostCreateRequest{
		Title: "Lambing season recap",
		Body:  "Fourteen lambs on the ground, twelve twins.",
	})
	if err != nil {
		t.Fatalf("create blog post: %v", err)
	}
	if post.Author != "admin" {
		t.Fatalf("expected author to default to the acting user, got %q", post.Author)
	}
	if post.Published {
		t.Fatalf("posts default to draft")
	}

	published, err := svc.ListBlogPosts(context.Background(), true)
	if err != nil {
		t.Fatalf("list published: %v", err)
	}
	for _, p := range published {
		if !p.Published {
			t.Fatalf("published-only listing returned draft %s", p.ID)
		}
	}
}

func TestUpdateAboutRequiresTitleAndBody(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.UpdateAbout(adminContext(), domain.AboutContent{Title: "Our Farm"})
	if !errors.Is(err, store.ErrValidation) {
		t.Fatalf("expected validation error without body, got %v", err)
	}

	updated, err := svc.UpdateAbout(adminContext(), domain.AboutContent{
		Title: "Our Farm",
		Body:  "Family run since 2012.",
	})
	if err != nil {
		t.Fatalf("update about: %v", err)
	}
	if updated.UpdatedAt.IsZero() {
		t.Fatalf("expected updated_at to be set")
	}
}

func TestCreateNFTRecordValidatesInventory(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.CreateNFTRecord(adminContext(), domain.NFTRecordCreateRequest{
		InventoryID: "inv-missing",
		TokenID:     "42",
	})
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected not-found for unknown inventory, got %v", err)
	}

	record, err := svc.CreateNFTRecord(adminContext(), domain.NFTRecordCreateRequest{
		InventoryID: "inv-101",
		TokenID:     "42",
	})
	if err != nil {
		t.Fatalf("create nft record: %v", err)
	}
	if record.Chain != "ethereum" {
		t.Fatalf("expected default chain ethereum, got %q", record.Chain)
	}
}

func TestMarketTickerQuotes(t *testing.T) {
	svc := newTestService(t)

	quotes := svc.MarketTicker()
	if len(quotes) == 0 {
		t.Fatalf("expected ticker quotes")
	}
	for _, quote := range quotes {
		if quote.Symbol == "" || quote.Price.IsZero() {
			t.Fatalf("malformed quote %+v", quote)
		}
	}
}
