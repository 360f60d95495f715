package assistant

// ResultCount is the size of every result set shown by the panel.
const ResultCount = 3

// Provider produces outfit recommendations for a query. Implementations
// must return exactly ResultCount image references.
type Provider interface {
	Recommend(q Query) []string
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(q Query) []string

func (f ProviderFunc) Recommend(q Query) []string { return f(q) }

// MockProvider always answers with the same three outfits.
type MockProvider struct{}

func (MockProvider) Recommend(Query) []string {
	return []string{
		"/recommendation1.jpg",
		"/recommendation2.jpg",
		"/recommendation3.jpg",
	}
}
