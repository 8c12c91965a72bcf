// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"errors"
	"testing"
)

func TestNewCatalogItem(t *testing.T) {
	tests := []struct {
		name      string
		title     string
		editionID string
		wantTitle string
		wantErr   bool
	}{
		{"valid", "Gazeta 1930.01.15", "12345", "Gazeta 1930.01.15", false},
		{"title trimmed", "  Gazeta 1930.01.15 \n", "1", "Gazeta 1930.01.15", false},
		{"empty title", "   ", "12345", "", true},
		{"empty edition id", "Gazeta", "", "", true},
		{"non-numeric edition id", "Gazeta", "12a45", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item, err := NewCatalogItem(tt.title, tt.editionID)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidItem) {
					t.Fatalf("NewCatalogItem(%q, %q) err = %v, want ErrInvalidItem", tt.title, tt.editionID, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewCatalogItem: %v", err)
			}
			if item.Title() != tt.wantTitle {
				t.Errorf("Title() = %q, want %q", item.Title(), tt.wantTitle)
			}
			if item.EditionID() != tt.editionID {
				t.Errorf("EditionID() = %q, want %q", item.EditionID(), tt.editionID)
			}
			if item.Dated() {
				t.Error("new item should carry no date")
			}
		})
	}
}

func TestCatalogItemWithDate(t *testing.T) {
	item, err := NewCatalogItem("Gazeta 1930.02.10", "7")
	if err != nil {
		t.Fatal(err)
	}
	dated := item.WithDate("1930", "02")

	if dated.Year() != "1930" || dated.Month() != "02" {
		t.Errorf("dated = %s/%s, want 1930/02", dated.Year(), dated.Month())
	}
	if !dated.Dated() {
		t.Error("Dated() = false, want true")
	}
	if item.Year() != "" || item.Month() != "" {
		t.Error("WithDate must not modify the original item")
	}
}

func TestItemSelector(t *testing.T) {
	p := CatalogProfile{ItemTag: "span", ItemClass: "tree-item"}
	if got := p.ItemSelector(); got != "span.tree-item" {
		t.Errorf("ItemSelector() = %q, want %q", got, "span.tree-item")
	}
}
