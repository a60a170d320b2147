package catalog

// GenerationRange is an inclusive span of species ids.
type GenerationRange struct {
	Start int
	End   int
}

// Generations maps generation identifiers to fixed id ranges. The ranges
// are disjoint and together cover ids 1 through 1025.
var Generations = map[string]GenerationRange{
	"1": {Start: 1, End: 151},
	"2": {Start: 152, End: 251},
	"3": {Start: 252, End: 386},
	"4": {Start: 387, End: 493},
	"5": {Start: 494, End: 649},
	"6": {Start: 650, End: 721},
	"7": {Start: 722, End: 809},
	"8": {Start: 810, End: 905},
	"9": {Start: 906, End: 1025},
}
