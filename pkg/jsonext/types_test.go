package jsonext

import "strconv"

type Color int32

const (
	Red Color = iota
	Green
	Blue
)

func (c Color) String() string {
	switch c {
	case Red:
		return "Red"
	case Green:
		return "Green"
	case Blue:
		return "Blue"
	default:
		return "Color(" + strconv.Itoa(int(c)) + ")"
	}
}

type Level uint8

const (
	LevelLow Level = iota + 1
	LevelHigh
)

func (l Level) String() string {
	switch l {
	case LevelLow:
		return "Low"
	case LevelHigh:
		return "High"
	default:
		return ""
	}
}

func init() {
	MustRegisterEnum(Red, Green, Blue)
	MustRegisterEnum(LevelLow, LevelHigh)
}

type user struct {
	Name string `json:"name"`
	Age  int    `json:"age"`
}

type account struct {
	Name   string `json:"name"`
	secret string
}

type palette struct {
	Primary Color   `json:"primary"`
	Colors  []Color `json:"colors"`
	Level   Level   `json:"level,omitempty"`
}

type chain struct {
	Name string `json:"name"`
	Next *chain `json:"next,omitempty"`
}
