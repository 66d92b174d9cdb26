package model

import "time"

// Destination is a bookable tour destination. Destination names are unique
// regardless of case; reads are public while writes are admin-only.
//
// Fields:
//  ID          – primary key identifier.
//  Name        – unique destination name (case-insensitive).
//  Description – short marketing description.
//  Price       – price per person per day.
//  Image       – image file reference served by the client.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Destination struct {
	ID          uint64    // destinations.id
	Name        string    // destinations.name
	Description string    // destinations.description
	Price       int64     // destinations.price
	Image       string    // destinations.image
	CreatedAt   time.Time // destinations.created_at
	UpdatedAt   time.Time // destinations.updated_at
}
