package supabase

// Store adapts the PostgREST client to the port.FinanceStore and
// port.AuthStore interfaces. Each table gets its own file.
type Store struct {
	client *Client
}

// NewStore creates the Supabase-backed store.
func NewStore(client *Client) *Store {
	return &Store{client: client}
}
