package strike

// PowerPins are the digital outputs that select strike power, strongest
// last. Exactly one is raised for every level except the longest range.
var PowerPins = []int{15, 14, 13, 12, 11, 10, 9}

// Level is a named strike power band.
type Level struct {
	Name string `json:"name"`
	On   []int  `json:"pins_on"`
}

type band struct {
	upTo  float64
	level Level
}

// bands are ordered by upper bound; the first band's bound is inclusive,
// the rest exclusive.
var bands = []band{
	{100, Level{Name: "really close", On: []int{15}}},
	{150, Level{Name: "very close", On: []int{14}}},
	{175, Level{Name: "close", On: []int{13}}},
	{200, Level{Name: "a little close", On: []int{13}}},
	{250, Level{Name: "middle", On: []int{13}}},
	{350, Level{Name: "a little far", On: []int{12}}},
	{450, Level{Name: "far", On: []int{10}}},
}

var reallyFar = Level{Name: "really far", On: PowerPins}

// LevelFor maps a total shot distance (mm) to a strike power level.
func LevelFor(distance float64) Level {
	if distance <= bands[0].upTo {
		return bands[0].level
	}
	for _, b := range bands[1:] {
		if distance < b.upTo {
			return b.level
		}
	}
	return reallyFar
}

// Pattern returns the state of every power pin for the level.
func (l Level) Pattern() map[int]bool {
	out := make(map[int]bool, len(PowerPins))
	for _, p := range PowerPins {
		out[p] = false
	}
	for _, p := range l.On {
		out[p] = true
	}
	return out
}
