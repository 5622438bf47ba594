package models

// Channel is the feed-level state: one channel per feed file.
// Episodes are kept newest-first, the order items appear in the feed.
type Channel struct {
	Title       string
	Link        string // playlist URL
	Description string
	Episodes    []*Episode
}

// Index maps episode IDs to episodes for merge lookups.
func (c *Channel) Index() map[string]*Episode {
	idx := make(map[string]*Episode, len(c.Episodes))
	for _, e := range c.Episodes {
		idx[e.ID] = e
	}
	return idx
}
