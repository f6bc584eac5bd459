package validator

import (
	"strings"
	"testing"
)

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{"valid email", "test@example.com", false},
		{"valid email with subdomain", "user@sub.domain.com", false},
		{"invalid email no @", "testexample.com", true},
		{"invalid email no domain", "test@", true},
		{"invalid email no user", "@example.com", true},
		{"empty email", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEmail(tt.email)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateEmail() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name    string
		pwd     string
		wantErr bool
	}{
		{"valid password", "password123", false},
		{"valid password long", "verylongpassword1234567890", false},
		{"short password", "pass", true},
		{"empty password", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.pwd)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePassword() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateRegistration(t *testing.T) {
	tests := []struct {
		name      string
		email     string
		password  string
		wantValid bool
	}{
		{"valid registration", "test@example.com", "password123", true},
		{"invalid email", "invalid", "password123", false},
		{"short password", "test@example.com", "123", false},
		{"both invalid", "invalid", "123", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidateRegistration(tt.email, tt.password)
			if result.Valid != tt.wantValid {
				t.Errorf("ValidateRegistration() valid = %v, wantValid %v", result.Valid, tt.wantValid)
			}
		})
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"normal file", "avatar.jpg", "avatar.jpg"},
		{"spaces replaced", "my avatar.png", "my_avatar.png"},
		{"special chars removed", "test@file#1.txt", "test_file_1.txt"},
		{"long name truncated", "this_is_a_very_long_filename_that_exceeds_fifty_characters.png", "this_is_a_very_long_filename_that_exceeds_fifty_ch.png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SanitizeFilename(tt.input)
			if result != tt.expected {
				t.Errorf("SanitizeFilename() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestBlocklist_Check(t *testing.T) {
	b := NewBlocklist([]string{"казино", "Крипта", " "})

	tests := []struct {
		name        string
		productName string
		description string
		want        []Violation
	}{
		{"clean", "Чайник", "Электрический чайник", nil},
		{"name", "Лучшее КАЗИНО", "", []Violation{{Field: "name", Term: "казино"}}},
		{"description substring", "", "покупай криптамонеты", []Violation{{Field: "description", Term: "крипта"}}},
		{"both fields", "казино", "крипта", []Violation{{Field: "name", Term: "казино"}, {Field: "description", Term: "крипта"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := b.Check(tt.productName, tt.description)
			if len(got) != len(tt.want) {
				t.Fatalf("Check() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Check()[%d] = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestBlocklist_ApplyNamesTerm(t *testing.T) {
	b := NewBlocklist([]string{"обман"})

	if fe := b.Apply(nil, "ok", "ok"); fe != nil {
		t.Fatalf("expected nil form error, got %v", fe)
	}

	fe := b.Apply(nil, "", "это обман")
	if fe == nil || !strings.Contains(fe.Fields["description"], "обман") {
		t.Fatalf("expected violation naming the term, got %+v", fe)
	}
}

func TestCheck(t *testing.T) {
	fe := Check(ProductForm{Name: "", CategoryID: 0, Price: "1"})
	if fe == nil {
		t.Fatal("expected errors")
	}
	if fe.Fields["name"] != "campo obrigatório" {
		t.Errorf("unexpected name message %q", fe.Fields["name"])
	}
	if _, ok := fe.Fields["categoryid"]; !ok {
		t.Errorf("expected categoryid error, got %v", fe.Fields)
	}

	if fe := Check(PostForm{Title: "Olá"}); fe != nil {
		t.Errorf("expected valid post form, got %v", fe)
	}
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"12", 1200, false},
		{"12.5", 1250, false},
		{"12,05", 1205, false},
		{" 0.99 ", 99, false},
		{"1.999", 0, true},
		{"abc", 0, true},
		{"-1", 0, true},
		{"", 0, true},
		{"3.", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePrice(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParsePrice(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParsePrice(%q) = %d, want %d", tt.in, got, tt.want)
			}
			if !tt.wantErr && FormatPrice(got) == "" {
				t.Error("FormatPrice returned empty string")
			}
		})
	}
}
