package models

// Sheet is one worksheet read into memory.
type Sheet struct {
	// Name is the worksheet name.
	Name string `json:"name"`
	// Grid holds the sheet cells.
	Grid *Grid `json:"-"`
}
