package domain

// User represents a person tasks can be assigned to.
type User struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Timezone  string `json:"timezone"`
	IsActive  *bool  `json:"isActive,omitempty"`
}
