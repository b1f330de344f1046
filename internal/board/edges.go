package board

// Ray directions, indexing both DirectionOffsets and NumSquaresToEdge.
const (
	North = iota
	South
	East
	West
	NorthEast
	SouthEast
	SouthWest
	NorthWest
)

// DirectionOffsets holds the square step for each ray direction.
// North points toward row 0 and East toward file a.
var DirectionOffsets = [8]int{-8, 8, -1, 1, -9, 7, 9, -7}

// NumSquaresToEdge holds, per square and direction, the number of squares
// that can be stepped over before leaving the board.
var NumSquaresToEdge = computeEdges()

func computeEdges() [64][8]int {
	var edges [64][8]int
	for row := 0; row < 8; row++ {
		for file := 0; file < 8; file++ {
			north := row
			south := 7 - row
			east := file
			west := 7 - file

			edges[NewSquare(row, file)] = [8]int{
				north,
				south,
				east,
				west,
				min(north, east),
				min(south, east),
				min(south, west),
				min(north, west),
			}
		}
	}
	return edges
}
