// Package objects holds the primitive hit-object types produced by the
// text parser: circles, sliders, spinners, timing points, breaks and the
// combo-colour table.
package objects

import "github.com/neomodnet/neomod-sub003/framework/math/vector"

// IHitObject is the common surface every primitive hit object satisfies.
// Consumers (stacking, strain, scoring) work against this interface so
// circles/sliders/spinners can share a single sorted slice.
type IHitObject interface {
	GetStartTime() int64
	GetEndTime() int64
	GetPosition() vector.Vector2f
	GetStackedPosition() vector.Vector2f
	SetStackIndex(i int64)
	GetStackIndex() int64
	IsNewCombo() bool
	ComboNumber() int
	ColorOffset() int
	GetNumber() int64
	SetNumber(n int64)
}

// BaseObject carries the fields common to circles, sliders and spinners.
// Embedding it gives each concrete type the IHitObject plumbing for free;
// Spinner does not override GetPosition, so it reports its parsed x/y.
type BaseObject struct {
	StartTime, EndTime int64

	Position       vector.Vector2f
	StackedPos     vector.Vector2f
	StackIndex     int64

	NewCombo    bool
	ComboNum    int
	ColorOffset_ int

	Number int64
}

func (o *BaseObject) GetStartTime() int64 { return o.StartTime }
func (o *BaseObject) GetEndTime() int64   { return o.EndTime }

func (o *BaseObject) GetPosition() vector.Vector2f { return o.Position }

func (o *BaseObject) GetStackedPosition() vector.Vector2f { return o.StackedPos }

func (o *BaseObject) SetStackIndex(i int64) { o.StackIndex = i }
func (o *BaseObject) GetStackIndex() int64  { return o.StackIndex }

func (o *BaseObject) IsNewCombo() bool { return o.NewCombo }
func (o *BaseObject) ComboNumber() int { return o.ComboNum }
func (o *BaseObject) ColorOffset() int { return o.ColorOffset_ }

func (o *BaseObject) GetNumber() int64    { return o.Number }
func (o *BaseObject) SetNumber(n int64) { o.Number = n }

// ObjectType enumerates the three hit-object kinds as 0/1/2 (circle,
// slider, spinner). The parser's (time, type, x, y) sort ranks kinds with
// its own typeRank and does not read this type.
type ObjectType int

const (
	TypeCircle ObjectType = iota
	TypeSlider
	TypeSpinner
)
