package authsdk

import (
	"net/mail"
	"regexp"
	"slices"
	"strings"
)

const (
	reasonRequired = "required"
	reasonDigits   = "must be digits only"
)

var (
	reUsername = regexp.MustCompile(`^[a-z0-9._-]{3,32}$`)
	reDigits   = regexp.MustCompile(`^[0-9]+$`)
)

// Validate returns field errors, or nil.
func (b BootstrapRequest) Validate() map[string]string {
	errs := make(map[string]string)
	validateAccountID(errs, b.ID)
	validateUsername(errs, b.Username, true)
	validateEmail(errs, b.Email)
	validateDisplayName(errs, b.DisplayName)
	if b.Password == "" {
		errs["password"] = reasonRequired
	}
	return nilIfEmpty(errs)
}

// Validate returns field errors, or nil. Secret policy is enforced by the
// server because it depends on the role.
func (r CreateAccountRequest) Validate() map[string]string {
	errs := make(map[string]string)
	validateAccountID(errs, r.ID)
	validateUsername(errs, r.Username, false)
	validateEmail(errs, r.Email)
	validateDisplayName(errs, r.DisplayName)

	switch r.Role {
	case "":
		errs["role"] = reasonRequired
	case "admin", "manager", "cashier":
	default:
		errs["role"] = "must be admin, manager or cashier"
	}

	for _, m := range r.LoginMethods {
		if !slices.Contains([]string{LoginMethodAccountID, LoginMethodUsername, LoginMethodEmail}, m) {
			errs["login_methods"] = "unknown login method " + m
			break
		}
	}
	return nilIfEmpty(errs)
}

func validateAccountID(errs map[string]string, id string) {
	switch {
	case id == "":
		errs["id"] = reasonRequired
	case !reDigits.MatchString(id):
		errs["id"] = reasonDigits
	}
}

func validateUsername(errs map[string]string, username string, required bool) {
	switch {
	case username == "":
		if required {
			errs["username"] = reasonRequired
		}
	case reDigits.MatchString(username):
		errs["username"] = "must not be all digits"
	case !reUsername.MatchString(strings.ToLower(username)):
		errs["username"] = "must be 3-32 characters of a-z, 0-9, '.', '_' or '-'"
	}
}

func validateEmail(errs map[string]string, email string) {
	if email == "" {
		return
	}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		errs["email"] = "must be a bare email address"
	}
}

func validateDisplayName(errs map[string]string, name string) {
	name = strings.TrimSpace(name)
	switch {
	case name == "":
		errs["display_name"] = reasonRequired
	case len(name) > 64:
		errs["display_name"] = "too long (max 64)"
	}
}

func nilIfEmpty(errs map[string]string) map[string]string {
	if len(errs) == 0 {
		return nil
	}
	return errs
}
