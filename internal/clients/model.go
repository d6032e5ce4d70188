package clients

import "time"

// Client is a coaching client owned by a user.
type Client struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// User is the owning coach account, as seen by the directory.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// CustomerMatch is a fully resolved meeting identity. It is never partially
// filled; resolution is all-or-nothing.
type CustomerMatch struct {
	UserID     string `json:"userId"`
	ClientID   string `json:"clientId"`
	ClientName string `json:"clientName"`
	UserEmail  string `json:"userEmail"`
}
