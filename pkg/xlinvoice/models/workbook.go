package models

// Workbook represents a workbook read fully into memory.
type Workbook struct {
	// BookName is the workbook file name (no path).
	BookName string `json:"book_name"`
	// Sheets holds the worksheets in workbook order.
	Sheets []Sheet `json:"sheets"`
}

// ForEachSheet iterates sheets in workbook order until fn returns false.
func (w *Workbook) ForEachSheet(fn func(name string, grid *Grid) bool) {
	for _, s := range w.Sheets {
		if !fn(s.Name, s.Grid) {
			return
		}
	}
}
