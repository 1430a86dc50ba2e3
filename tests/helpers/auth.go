package helpers

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"testing"

	"github.com/google/uuid"
	authorizer "github.com/localnerve/authorizer-go"
)

const passwordLength = 10

// password character classes; each generated password draws at least one of the first three
var passwordClasses = []string{
	"ABCDEFGHIJKLMNOPQRSTUVWXYZ",
	"!@#$%^&*",
	"0123456789",
	"abcdefghijklmnopqrstuvwxyz",
}

// TestAccount is a throwaway Authorizer account for e2e runs
type TestAccount struct {
	Email    string
	Password string
	Roles    []string
	Token    string
}

// NewTestAccount returns an account with a unique email and a generated password.
// Nothing is registered until Acquire.
func NewTestAccount(roles ...string) *TestAccount {
	if len(roles) == 0 {
		roles = []string{"user"}
	}
	return &TestAccount{
		Email:    fmt.Sprintf("e2e-%s@socialnetwork.test", uuid.NewString()),
		Password: GeneratePassword(),
		Roles:    roles,
	}
}

// Acquire signs the account up (tolerating an existing one), logs in and keeps the access token
func (a *TestAccount) Acquire(t *testing.T, authzURL, clientID string) string {
	t.Helper()
	client, err := authorizer.NewAuthorizerClient(clientID, authzURL, "", nil)
	if err != nil {
		t.Fatalf("Failed to create authorizer client: %v", err)
	}

	if _, err := client.SignUp(&authorizer.SignUpInput{
		Email:           &a.Email,
		Password:        a.Password,
		ConfirmPassword: a.Password,
		Roles:           stringPtrs(a.Roles),
	}); err != nil {
		t.Logf("Signup for %s failed, trying login: %v", a.Email, err)
	}

	res, err := client.Login(&authorizer.LoginInput{
		Email:    &a.Email,
		Password: a.Password,
	})
	if err != nil {
		t.Fatalf("Login failed for %s: %v", a.Email, err)
	}
	if res.AccessToken == nil {
		t.Fatal("Access token is nil")
	}

	a.Token = *res.AccessToken
	return a.Token
}

// GeneratePassword returns a shuffled password with at least one capital, special char and digit
func GeneratePassword() string {
	all := ""
	for _, class := range passwordClasses {
		all += class
	}

	password := make([]byte, 0, passwordLength)
	for _, class := range passwordClasses[:3] {
		password = append(password, class[randInt(len(class))])
	}
	for len(password) < passwordLength {
		password = append(password, all[randInt(len(all))])
	}

	for i := len(password) - 1; i > 0; i-- {
		j := randInt(i + 1)
		password[i], password[j] = password[j], password[i]
	}
	return string(password)
}

func randInt(max int) int {
	n, _ := rand.Int(rand.Reader, big.NewInt(int64(max)))
	return int(n.Int64())
}

func stringPtrs(values []string) []*string {
	ptrs := make([]*string, len(values))
	for i := range values {
		ptrs[i] = &values[i]
	}
	return ptrs
}
