package entities

import (
	"errors"
	"time"
)

// Device represents a voice companion device paired with a user.
type Device struct {
	ID           string    `json:"id" bson:"_id"`
	SerialNumber string    `json:"serial_number" bson:"serial_number"`
	Model        string    `json:"model" bson:"model"`
	HabitID      string    `json:"habit_id" bson:"habit_id"`
	HabitName    string    `json:"habit_name" bson:"habit_name"`
	OwnerID      *string   `json:"owner_id" bson:"owner_id"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" bson:"updated_at"`
}

// Validate checks the fields required before a device can be stored.
func (d *Device) Validate() error {
	if d.SerialNumber == "" {
		return errors.New("serial_number is required")
	}
	if d.HabitID == "" {
		return errors.New("habit_id is required")
	}
	return nil
}
