package uv

// Index is the qualitative UV band derived from a raw reading. It is not the
// meteorological 1-11 scale.
type Index byte

const (
	IndexLow Index = iota
	IndexModerate
	IndexHigh
	IndexVeryHigh
	IndexExtreme
	indexCount
)

// IndexTable holds the upper bound of every band for Rset = 270k. Rows are
// 1/2T and 1T folded together, 2T, 4T. The last column is a sentinel that
// terminates the scan for any 16-bit value.
var IndexTable = [3][indexCount]uint16{
	{560, 1120, 1494, 2054, 65535},
	{1120, 2241, 2988, 4108, 65535},
	{2240, 4482, 5976, 8216, 65535},
}

// IndexLabels is index-aligned with the columns of IndexTable.
var IndexLabels = [indexCount]string{"LOW", "MODERATE", "HIGH", "VERY HIGH", "EXTREME"}

func (i Index) String() string {
	if i >= indexCount {
		return "UNKNOWN"
	}
	return IndexLabels[i]
}

// tableRow maps an integration time onto its IndexTable row. The datasheet
// application note does not distinguish 1/2T from 1T. Anything above 4T is
// clamped to the last row.
func tableRow(it IntegrationTime) int {
	switch {
	case it <= Integration1T:
		return 0
	case it == Integration2T:
		return 1
	default:
		return 2
	}
}

// Classify returns the band for reading taken with integration time it.
func Classify(it IntegrationTime, reading uint16) Index {
	row := IndexTable[tableRow(it)]
	i := 0
	for i < len(row)-1 && reading > row[i] {
		i++
	}
	return Index(i)
}
