// Package milo describes what the service reads from the Milo partner information system.
package milo

import "time"

// Session is a collective session published by a Milo structure.
type Session struct {
	ID                string
	Nom               string
	NomOffre          string
	Type              string
	DateHeureDebut    time.Time
	DateHeureFin      time.Time
	EstVisible        bool
	NbPlacesRestantes *int
}
