package domain

// Repository is the read side of the account registry. Every call reloads the
// registry in full; callers never patch a Config in place.
type Repository interface {
	Load() (*Config, error)
}
