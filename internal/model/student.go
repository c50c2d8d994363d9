package model

import "time"

// Student represents one enrollment record in the registry.
// This is a pure domain model with no database-specific dependencies or tags;
// it can be used across layers (HTTP, service, repository) without coupling
// to persistence.
//
// BirthDate is carried as an ISO date string (YYYY-MM-DD) because that is
// the wire format on both sides: the client sends it from a date input and
// the repository formats the DATE column back into it.
type Student struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Matricula string    `json:"matricula"`
	Course    string    `json:"course"`
	Age       int       `json:"age"`
	BirthDate string    `json:"birth_date"`
	OwnerID   string    `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
}
