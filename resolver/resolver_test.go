package resolver

import "testing"

func TestResolve(t *testing.T) {
	r, err := New(16)
	if err != nil {
		t.Fatalf("new resolver: %v", err)
	}

	tests := []struct {
		name       string
		query      string
		wantName   string
		wantNumber string
		wantGrade  string
	}{
		{
			name:       "full query",
			query:      "Giratina V 186/196 Lost Origin PSA 10",
			wantName:   "Giratina V Lost Origin",
			wantNumber: "186/196",
			wantGrade:  "PSA 10",
		},
		{
			name:      "grade only",
			query:     "Charizard Base Set BGS 9.5",
			wantName:  "Charizard Base Set",
			wantGrade: "BGS 9.5",
		},
		{
			name:     "plain name",
			query:    "Pikachu Illustrator",
			wantName: "Pikachu Illustrator",
		},
		{
			name:       "lowercase grade normalized",
			query:      "Umbreon VMAX 215/203 psa 9",
			wantName:   "Umbreon VMAX",
			wantNumber: "215/203",
			wantGrade:  "PSA 9",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			card := r.Resolve(tt.query)
			if card == nil {
				t.Fatalf("Resolve(%q) = nil", tt.query)
			}
			if card.Name != tt.wantName {
				t.Errorf("name = %q, want %q", card.Name, tt.wantName)
			}
			if card.Number != tt.wantNumber {
				t.Errorf("number = %q, want %q", card.Number, tt.wantNumber)
			}
			if card.Grade != tt.wantGrade {
				t.Errorf("grade = %q, want %q", card.Grade, tt.wantGrade)
			}
			if card.ID == "" {
				t.Errorf("card ID should not be empty")
			}
		})
	}
}

func TestResolveEmptyQuery(t *testing.T) {
	r, err := New(16)
	if err != nil {
		t.Fatalf("new resolver: %v", err)
	}
	if card := r.Resolve("   "); card != nil {
		t.Fatalf("Resolve(blank) = %+v, want nil", card)
	}
}

func TestResolveCaches(t *testing.T) {
	r, err := New(16)
	if err != nil {
		t.Fatalf("new resolver: %v", err)
	}

	first := r.Resolve("Charizard PSA 10")
	second := r.Resolve("Charizard PSA 10")
	if first != second {
		t.Fatalf("repeated queries should hit the cache")
	}
}
