package model

// MemberID identifies a member across the whole program.
type MemberID uint32

// NoMemberID marks the absence of a member reference.
const NoMemberID MemberID = 0

func (id MemberID) IsValid() bool { return id != NoMemberID }

// NodeID identifies a syntax node of the front-end (a call site, a member
// access). The backend only uses it as an opaque resolution key.
type NodeID uint32

const NoNodeID NodeID = 0

func (id NodeID) IsValid() bool { return id != NoNodeID }
