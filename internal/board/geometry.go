package board

// Direction classifies the line between two squares.
type Direction uint8

const (
	NoDirection      Direction = iota
	Diagonal                   // diagonal ray, two or more steps
	DiagonalUp                 // one diagonal step toward rank 8
	DiagonalDown               // one diagonal step toward rank 1
	Straight                   // rank or file ray, two or more steps
	StraightAdjacent           // one rank or file step
	KnightHop
)

// geometryOffset centers the difference of two 0x88 squares in a 256 entry table.
const geometryOffset = 127

// Geometry holds the direction class and unit step between any two squares,
// indexed by target - source + 127.
type Geometry struct {
	vector [256]Direction
	delta  [256]int8
}

func newGeometry() *Geometry {
	g := &Geometry{}

	for _, d := range QueenDeltas {
		diagonal := d == NorthEast || d == NorthWest || d == SouthEast || d == SouthWest
		for k := 1; k < 8; k++ {
			i := k*d + geometryOffset
			g.delta[i] = int8(d)
			switch {
			case diagonal && k > 1:
				g.vector[i] = Diagonal
			case diagonal && d > 0:
				g.vector[i] = DiagonalUp
			case diagonal:
				g.vector[i] = DiagonalDown
			case k > 1:
				g.vector[i] = Straight
			default:
				g.vector[i] = StraightAdjacent
			}
		}
	}

	for _, d := range KnightDeltas {
		g.vector[d+geometryOffset] = KnightHop
		g.delta[d+geometryOffset] = int8(d)
	}

	return g
}

// Vector returns the direction class of the line from source to target.
func (g *Geometry) Vector(source, target Square) Direction {
	return g.vector[int(target)-int(source)+geometryOffset]
}

// Delta returns the unit step leading from source toward target, or 0.
// For a knight hop the step is the hop itself.
func (g *Geometry) Delta(source, target Square) int {
	return int(g.delta[int(target)-int(source)+geometryOffset])
}

// IsLine reports whether source and target share a rank, file or diagonal.
func (g *Geometry) IsLine(source, target Square) bool {
	v := g.Vector(source, target)
	return v != NoDirection && v != KnightHop
}
