package geometry

import "github.com/convitapp/convite-api/internal/models"

// HandleName identifies one of the eight resize zones around a selected box.
type HandleName string

const (
	HandleNW HandleName = "nw"
	HandleNE HandleName = "ne"
	HandleSW HandleName = "sw"
	HandleSE HandleName = "se"
	HandleN  HandleName = "n"
	HandleS  HandleName = "s"
	HandleW  HandleName = "w"
	HandleE  HandleName = "e"
)

// HandleSide is the edge length of each handle's square hit zone.
const HandleSide = 10.0

// handleOrder is the fixed evaluation order for handle hit-testing.
var handleOrder = [8]HandleName{
	HandleNW, HandleNE, HandleSW, HandleSE,
	HandleN, HandleS, HandleW, HandleE,
}

// Handle pairs a handle name with its square hit zone.
type Handle struct {
	Name HandleName
	Box  Rect
}

// Handles returns the eight handles of a box in fixed order, each a
// HandleSide square centered on the corresponding corner or edge midpoint.
func Handles(box Rect) [8]Handle {
	centers := map[HandleName]Point{
		HandleNW: {box.X, box.Y},
		HandleNE: {box.X + box.Width, box.Y},
		HandleSW: {box.X, box.Y + box.Height},
		HandleSE: {box.X + box.Width, box.Y + box.Height},
		HandleN:  {box.X + box.Width/2, box.Y},
		HandleS:  {box.X + box.Width/2, box.Y + box.Height},
		HandleW:  {box.X, box.Y + box.Height/2},
		HandleE:  {box.X + box.Width, box.Y + box.Height/2},
	}

	var out [8]Handle
	for i, name := range handleOrder {
		c := centers[name]
		out[i] = Handle{
			Name: name,
			Box: Rect{
				X:      c.X - HandleSide/2,
				Y:      c.Y - HandleSide/2,
				Width:  HandleSide,
				Height: HandleSide,
			},
		}
	}
	return out
}

// HandleAt returns the first handle (in fixed order) of the element's bounding
// box whose square contains the point. Callers only consult this for the
// currently selected element.
func HandleAt(p Point, el models.Element, m TextMetrics) (HandleName, bool) {
	for _, h := range Handles(BoundingBox(el, m)) {
		if h.Box.Contains(p) {
			return h.Name, true
		}
	}
	return "", false
}
