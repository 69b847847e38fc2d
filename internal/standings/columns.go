package standings

// Layout limits for the standings widgets.
const (
	DriverColumnSize       = 5
	DriverColumnSizeLarge  = 6
	largeGridThreshold     = 20
	ConstructorColumnSize  = 5
	ConstructorColumnCount = 2
)

// DriverPerColumn returns how many drivers fit in one column for a grid of n drivers.
func DriverPerColumn(n int) int {
	if n > largeGridThreshold {
		return DriverColumnSizeLarge
	}
	return DriverColumnSize
}

// Columns splits entries into columns of perColumn rows. maxColumns <= 0 means no limit;
// entries beyond the last column are dropped.
func Columns(entries []Entry, perColumn, maxColumns int) [][]Entry {
	if perColumn <= 0 || len(entries) == 0 {
		return nil
	}
	var cols [][]Entry
	for start := 0; start < len(entries); start += perColumn {
		if maxColumns > 0 && len(cols) == maxColumns {
			break
		}
		end := min(start+perColumn, len(entries))
		cols = append(cols, entries[start:end])
	}
	return cols
}
