package domain

import "time"

type User struct {
	ID        ID         `json:"id"`
	Name      string     `json:"name"`
	Phone     string     `json:"phone"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

// UserInput is the payload of POST /users/register and PUT /users/{id}.
// Password is only sent on registration.
type UserInput struct {
	Name     string `json:"name" validate:"required"`
	Phone    string `json:"phone" validate:"required"`
	Password string `json:"password,omitempty"`
}

// LoginResponse is the body of POST /users/login
type LoginResponse struct {
	Message string `json:"message,omitempty"`
	User    User   `json:"user"`
}

// DashboardStats are the counters on the admin landing page
type DashboardStats struct {
	Categories    int `json:"categories"`
	Subcategories int `json:"subcategories"`
	Products      int `json:"products"`
	Users         int `json:"users"`
}
