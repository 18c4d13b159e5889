package triptych

// NoticeLevel selects how a notice is colored.
type NoticeLevel uint8

const (
	NoticeInfo NoticeLevel = iota
	NoticeWarning
)

// Notice is a short message shown over the pages for a while.
type Notice struct {
	Message  string
	Level    NoticeLevel
	Duration float32 // Seconds on screen
	Elapsed  float32
}

// DefaultNoticeDuration is how long a notice stays on screen.
const DefaultNoticeDuration float32 = 3.0

// maxNotices bounds the queue; older notices are dropped first.
const maxNotices = 4

// Notices holds the notices currently on screen, oldest first.
type Notices struct {
	items []Notice
}

// Push queues a message for DefaultNoticeDuration.
func (n *Notices) Push(message string, level NoticeLevel) {
	n.items = append(n.items, Notice{
		Message:  message,
		Level:    level,
		Duration: DefaultNoticeDuration,
	})
	if len(n.items) > maxNotices {
		n.items = n.items[len(n.items)-maxNotices:]
	}
}

// Update advances timers and removes expired notices.
func (n *Notices) Update(deltaTime float32) {
	active := n.items[:0]
	for i := range n.items {
		n.items[i].Elapsed += deltaTime
		if n.items[i].Elapsed < n.items[i].Duration {
			active = append(active, n.items[i])
		}
	}
	n.items = active
}

// Active returns the notices on screen, oldest first.
func (n *Notices) Active() []Notice {
	return n.items
}

// opacity fades a notice in over its first 0.15s and out over its last 30%.
func (nt Notice) opacity() float32 {
	const (
		fadeIn       = float32(0.15)
		fadeOutStart = float32(0.7)
	)
	switch {
	case nt.Elapsed < fadeIn:
		return nt.Elapsed / fadeIn
	case nt.Elapsed > nt.Duration*fadeOutStart:
		return 1 - (nt.Elapsed-nt.Duration*fadeOutStart)/(nt.Duration*(1-fadeOutStart))
	default:
		return 1
	}
}

// draw stacks the notices upward from the bottom-right corner of the display.
func (n *Notices) draw(c *Canvas) {
	const (
		padX   = SpaceLG
		padY   = SpaceMD
		margin = SpaceLG
		gap    = SpaceSM + 2
	)

	baseX := c.DisplaySize.X - margin
	baseY := c.DisplaySize.Y - margin
	lineH := c.Atlas.LineHeight(1)

	for i := len(n.items) - 1; i >= 0; i-- {
		nt := n.items[i]
		alpha := nt.opacity()
		if alpha <= 0 {
			continue
		}

		w := c.Atlas.MeasureText(nt.Message, 1) + padX*2
		h := lineH + padY*2
		x, y := baseX-w, baseY-h

		bg := c.Style.NoticeColor
		if nt.Level == NoticeWarning {
			bg = c.Style.WarningColor
		}
		r, g, b, a := UnpackRGBA(bg)
		c.DrawList.AddRect(x, y, w, h, RGBA(r, g, b, uint8(float32(a)*alpha)))
		c.DrawList.AddText(x+padX, y+padY, nt.Message, RGBA(255, 255, 255, uint8(255*alpha)), c.Atlas, 1)

		baseY -= h + gap
	}
}
