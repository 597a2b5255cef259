package models

import "fmt"

// Label is what hides behind a door
type Label string

const (
	LabelPrize Label = "prize"
	LabelDecoy Label = "decoy"
)

// DoorCount is the number of doors in every round
const DoorCount = 3

// DoorIndex identifies a door by its 1-based position
type DoorIndex int

// Valid reports whether the index names one of the three doors
func (d DoorIndex) Valid() bool {
	return d >= 1 && d <= DoorCount
}

// Arrangement is the hidden assignment of labels to doors for a single round.
// Position 0 of the array holds door 1.
type Arrangement [DoorCount]Label

// At returns the label behind the given door. The caller must pass a valid index.
func (a Arrangement) At(door DoorIndex) Label {
	return a[door-1]
}

// PrizeDoor returns the door hiding the prize, or 0 if the arrangement has none
func (a Arrangement) PrizeDoor() DoorIndex {
	for i, label := range a {
		if label == LabelPrize {
			return DoorIndex(i + 1)
		}
	}
	return 0
}

// Valid reports whether the arrangement holds exactly one prize and two decoys
func (a Arrangement) Valid() bool {
	prizes, decoys := 0, 0
	for _, label := range a {
		switch label {
		case LabelPrize:
			prizes++
		case LabelDecoy:
			decoys++
		}
	}
	return prizes == 1 && decoys == DoorCount-1
}

func (a Arrangement) String() string {
	return fmt.Sprintf("[%s %s %s]", a[0], a[1], a[2])
}
