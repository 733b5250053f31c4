package entity

// Realm is a connected realm: one market instance, possibly joining several
// in-game servers under a single auction house ("Khadgar / Bloodhoof").
type Realm struct {
	ID   int64
	Name string
}
