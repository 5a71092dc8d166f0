package usecase

const (
	defaultListLimit = 20
	maxListLimit     = 100

	// USD is the normalization currency for all entries.
	quoteCurrency = "USD"
)
