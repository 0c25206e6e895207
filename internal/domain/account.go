package domain

import (
	"strconv"
	"strings"
	"time"
)

// Store keys.
const (
	KeyUsers         = "users"
	KeyLoggedInEmail = "loggedInEmail"
	KeyCurrentUser   = "currentUser"
)

// Account is a signup record. The password is kept as submitted.
type Account struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"pass"`
}

// CurrentUser is the logged-in profile shown in the page header.
type CurrentUser struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// NewCurrentUser derives the display name from the local part of email.
func NewCurrentUser(email string) CurrentUser {
	name, _, _ := strings.Cut(email, "@")
	return CurrentUser{Email: email, Name: name}
}

// Booking is a confirmed, simulated reservation.
type Booking struct {
	ID         string    `json:"id"`
	VehicleID  string    `json:"vehicle_id,omitempty"`
	PickupDate time.Time `json:"pickup_date"`
	DropDate   time.Time `json:"drop_date"`
}

// BookingID formats the id of a booking made at t.
func BookingID(t time.Time) string {
	return "BK" + strconv.FormatInt(t.UnixMilli(), 10)
}
