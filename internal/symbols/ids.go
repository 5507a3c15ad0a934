package symbols

// FrameID identifies a pushed scope frame.
type FrameID uint32

// NoFrameID marks the absence of a frame reference.
const NoFrameID FrameID = 0

// IsValid reports whether the frame ID refers to a pushed frame.
func (id FrameID) IsValid() bool { return id != NoFrameID }
