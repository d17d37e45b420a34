package utils

import "testing"

func TestComparePassword(t *testing.T) {
	hashed, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword() error: %v", err)
	}
	if err := ComparePassword(string(hashed), "correct horse battery staple"); err != nil {
		t.Errorf("matching password rejected: %v", err)
	}
	if err := ComparePassword(string(hashed), "wrong password"); err == nil {
		t.Error("wrong password accepted")
	}
}

// A stored hash that is not valid bcrypt must fail the compare; callers
// treat any non-nil error as a refused login.
func TestComparePasswordCorruptedHash(t *testing.T) {
	if err := ComparePassword("not-a-bcrypt-hash", "anything"); err == nil {
		t.Error("corrupted stored hash compared as valid")
	}
}
