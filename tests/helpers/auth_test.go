package helpers

import (
	"strings"
	"testing"
)

func TestGeneratePassword(t *testing.T) {
	for i := 0; i < 50; i++ {
		password := GeneratePassword()
		if len(password) != passwordLength {
			t.Fatalf("Expected %d characters, got %q", passwordLength, password)
		}
		for _, class := range passwordClasses[:3] {
			if !strings.ContainsAny(password, class) {
				t.Fatalf("Expected %q to contain one of %q", password, class)
			}
		}
	}
}

func TestNewTestAccount(t *testing.T) {
	a, b := NewTestAccount(), NewTestAccount("admin", "user")
	if a.Email == b.Email {
		t.Errorf("Expected unique emails, got %s twice", a.Email)
	}
	if len(a.Roles) != 1 || a.Roles[0] != "user" {
		t.Errorf("Expected default role user, got %v", a.Roles)
	}
	if len(b.Roles) != 2 || a.Token != "" {
		t.Errorf("Unexpected account %+v", b)
	}
}

func TestSplitStatements(t *testing.T) {
	script := `-- header
CREATE TABLE a (id INT); -- trailing
INSERT INTO a VALUES ('--not a comment');

`
	got := splitStatements(script)
	if len(got) != 2 {
		t.Fatalf("Expected 2 statements, got %d: %q", len(got), got)
	}
	if got[0] != "CREATE TABLE a (id INT)" {
		t.Errorf("Unexpected first statement %q", got[0])
	}
	if got[1] != "INSERT INTO a VALUES ('--not a comment')" {
		t.Errorf("Unexpected second statement %q", got[1])
	}
}
