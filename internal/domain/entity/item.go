package entity

type Item struct {
	ID      int64
	Name    string
	Quality string
	IconURL string
}
