package planner

// Table is the fixed geometry of the playing surface: cushions and pockets.
type Table struct {
	Walls []Wall `json:"walls"`
	Holes []Hole `json:"holes"`
}

// RectTable returns a width×height table with its corner at the origin:
// four cushions running counter-clockwise from the bottom-left corner, four
// corner pockets and two side pockets at the middle of the long cushions.
func RectTable(width, height float64) Table {
	w, h := width, height

	corners := []Vec2{
		NewVec2(0, 0),
		NewVec2(w, 0),
		NewVec2(w, h),
		NewVec2(0, h),
	}

	holes := []Hole{
		{ID: 0, Position: NewVec2(0, 0)},
		{ID: 1, Position: NewVec2(w, 0)},
		{ID: 2, Position: NewVec2(w, h)},
		{ID: 3, Position: NewVec2(0, h)},
	}
	if w >= h {
		holes = append(holes,
			Hole{ID: 4, Position: NewVec2(w/2, 0)},
			Hole{ID: 5, Position: NewVec2(w/2, h)},
		)
	} else {
		holes = append(holes,
			Hole{ID: 4, Position: NewVec2(w, h/2)},
			Hole{ID: 5, Position: NewVec2(0, h/2)},
		)
	}

	return Table{
		Walls: WallsFromPolygon(corners),
		Holes: holes,
	}
}

// WallsFromPolygon closes the polygon through corners into wall segments,
// numbered in corner order.
func WallsFromPolygon(corners []Vec2) []Wall {
	if len(corners) < 2 {
		return nil
	}
	walls := make([]Wall, 0, len(corners))
	for i, c := range corners {
		next := corners[(i+1)%len(corners)]
		walls = append(walls, Wall{ID: i, P1: c, P2: next})
	}
	return walls
}
