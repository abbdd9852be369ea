package dbstrings

import "testing"

func TestToPascalCase(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"user", "User"},
		{"user_id", "UserId"},
		{"created_at", "CreatedAt"},
		{"public_id", "PublicId"},
		{"id", "Id"},
		{"email", "Email"},
		{"", ""},
		{"a", "A"},
		{"user_email_address", "UserEmailAddress"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := ToPascalCase(tt.input)
			if result != tt.expected {
				t.Errorf("ToPascalCase(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestToLowerCamel(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"User", "user"},
		{"UserID", "userID"},
		{"GetUserByEmail", "getUserByEmail"},
		{"ID", "iD"},
		{"", ""},
		{"a", "a"},
		{"A", "a"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := ToLowerCamel(tt.input)
			if result != tt.expected {
				t.Errorf("ToLowerCamel(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestToSnakeCase(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"User", "user"},
		{"UserID", "user_id"},
		{"CreatedAt", "created_at"},
		{"GetUserByEmail", "get_user_by_email"},
		{"", ""},
		{"a", "a"},
		{"ABC", "abc"},
		{"userEmail", "user_email"},
		{"HTTPServer", "http_server"},
		{"ParseURL", "parse_url"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := ToSnakeCase(tt.input)
			if result != tt.expected {
				t.Errorf("ToSnakeCase(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestSnakeCaseRoundTrip(t *testing.T) {
	// Column names produced by ToSnakeCase must resolve back through
	// ToPascalCase for deferred name resolution to be stable.
	for _, field := range []string{"Id", "Name", "CreatedAt", "UserEmailAddress"} {
		t.Run(field, func(t *testing.T) {
			if got := ToPascalCase(ToSnakeCase(field)); got != field {
				t.Errorf("round trip of %q = %q", field, got)
			}
		})
	}
}
