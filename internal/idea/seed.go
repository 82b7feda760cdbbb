package idea

import (
	"context"
	"time"

	"github.com/ideahunt/backend/internal/store"
)

// Seed inserts a small set of sample ideas when the collection is empty.
// Returns the number of documents inserted; zero means data already existed.
func (s *Service) Seed(ctx context.Context) (int, error) {
	existing, err := s.db.GetDocuments(ctx, Collection, store.Document{}, 1)
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		return 0, nil
	}

	now := time.Now().UTC()
	samples := []store.Document{
		{
			"title":       "FocusFox",
			"description": "A playful Pomodoro timer with streaks and a friendly fox mascot.",
			"maker":       "Ava K.",
			"website":     "https://example.com/focusfox",
			"tags":        []interface{}{"productivity", "timer"},
			"thumbnail":   "https://picsum.photos/seed/focusfox/200/200",
			"upvotes":     21,
			"comments": []interface{}{
				store.Document{"author": "Noah", "text": "This UI makes me want to work!", "created_at": now},
				store.Document{"author": "Liam", "text": "Add shortcuts please", "created_at": now},
			},
		},
		{
			"title":       "SnackScan",
			"description": "Snap a snack, get nutrition and allergy warnings instantly.",
			"maker":       "Maya P.",
			"website":     "https://example.com/snackscan",
			"tags":        []interface{}{"health", "ai", "mobile"},
			"thumbnail":   "https://picsum.photos/seed/snackscan/200/200",
			"upvotes":     54,
			"comments": []interface{}{
				store.Document{"author": "Olivia", "text": "Great for school lunches!", "created_at": now},
			},
		},
		{
			"title":       "Inkling",
			"description": "Daily writing prompts that grow with your style.",
			"maker":       "Ravi S.",
			"website":     "https://example.com/inkling",
			"tags":        []interface{}{"writing", "creative"},
			"thumbnail":   "https://picsum.photos/seed/inkling/200/200",
			"upvotes":     12,
			"comments":    []interface{}{},
		},
	}

	for _, sample := range samples {
		if _, err := s.db.CreateDocument(ctx, Collection, sample); err != nil {
			return 0, err
		}
	}
	return len(samples), nil
}
