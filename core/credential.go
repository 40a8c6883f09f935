package core

// AdminCredential is an admin principal. Admins may authenticate with a
// password or by proving control of the bound wallet; both paths mint the
// same kind of admin session for the bound wallet.
type AdminCredential struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	PasswordHash string `json:"passwordHash"`
	Wallet       string `json:"wallet"` // lowercase hex address
}
