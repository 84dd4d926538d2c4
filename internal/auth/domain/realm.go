package domain

import "strings"

// Realm namespaces lockout state, normally one per application.
type Realm string

const securityQuestionSuffix = ":security_question"

// SecurityQuestion returns the realm used for security-question lockout,
// which is independent of the login lockout of r.
func (r Realm) SecurityQuestion() Realm {
	return r + securityQuestionSuffix
}

// IsSecurityQuestion reports whether r is a security-question realm.
func (r Realm) IsSecurityQuestion() bool {
	return strings.HasSuffix(string(r), securityQuestionSuffix)
}

func (r Realm) String() string { return string(r) }
