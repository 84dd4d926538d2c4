package domain

// BootstrapData describes the first admin account.
type BootstrapData struct {
	AccountID   string
	Username    string
	Email       string
	DisplayName string
	Password    string
}

// NewAccountData describes an account created by an administrator.
type NewAccountData struct {
	ID          string
	Username    string
	Email       string
	DisplayName string
	Role        Role

	// Password for password roles. PIN roles start without a PIN.
	Password string

	// Zero value enables every method the account has an alias for.
	LoginMethods []IdentifierType
}
