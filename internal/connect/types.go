package connect

// Vault is one vault entry from the Connect server's vault listing.
type Vault struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Item is a secret record with its labeled fields. Listing endpoints return
// items without fields; only the single-item endpoint populates them.
type Item struct {
	ID       string      `json:"id"`
	Title    string      `json:"title"`
	Category string      `json:"category,omitempty"`
	Vault    ItemVault   `json:"vault"`
	Fields   []ItemField `json:"fields,omitempty"`
}

// ItemVault identifies the vault an item belongs to.
type ItemVault struct {
	ID string `json:"id"`
}

// ItemField is a labeled value within an item. A field the server returns
// without a value decodes to an empty Value and is never published.
type ItemField struct {
	ID      string `json:"id"`
	Type    string `json:"type,omitempty"`
	Purpose string `json:"purpose,omitempty"`
	Label   string `json:"label"`
	Value   string `json:"value,omitempty"`
}
