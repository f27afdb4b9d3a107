package domain

import "time"

type Customer struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	DateOfBirth string    `json:"dateOfBirth"`
	Gender      string    `json:"gender"`
	PhoneNumber string    `json:"phoneNumber"`
	Hash        string    `json:"-"`
	CreatedAt   time.Time `json:"createdAt"`
}

type Admin struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Hash      string    `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
}
