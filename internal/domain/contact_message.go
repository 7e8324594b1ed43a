package domain

import "time"

// ContactMessage is a message left through the public contact form.
type ContactMessage struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email" db:"email"`
	Subject   *string   `json:"subject" db:"subject"`
	Message   string    `json:"message" db:"message"`
	IsRead    bool      `json:"isRead" db:"is_read"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// DashboardSummary holds the back-office counters.
type DashboardSummary struct {
	Products          int `json:"products"`
	PublishedProducts int `json:"publishedProducts"`
	Categories        int `json:"categories"`
	UnreadMessages    int `json:"unreadMessages"`
}
