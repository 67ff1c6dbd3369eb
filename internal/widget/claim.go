package widget

// Claim tracks the single pointer a widget currently owns.
// The zero value holds nothing.
type Claim struct {
	id   PointerID
	held bool
}

// Take claims id if nothing is held yet. It returns false if a claim exists.
func (c *Claim) Take(id PointerID) bool {
	if c.held {
		return false
	}
	c.id = id
	c.held = true
	return true
}

// Holds reports whether id is the claimed pointer.
func (c *Claim) Holds(id PointerID) bool {
	return c.held && c.id == id
}

// Release drops the claim if id is the claimed pointer.
func (c *Claim) Release(id PointerID) bool {
	if !c.Holds(id) {
		return false
	}
	c.held = false
	return true
}

// Held reports whether any pointer is claimed.
func (c *Claim) Held() bool {
	return c.held
}

// Pointer returns the claimed pointer, if any.
func (c *Claim) Pointer() (PointerID, bool) {
	return c.id, c.held
}
