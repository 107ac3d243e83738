package chunk

// Flags mirrors the four classification bits carried in a chunk's type
// bytes, decoded once so callers don't re-derive them from Type.
type Flags struct {
	Ancillary  bool
	Private    bool
	Reserved   bool
	SafeToCopy bool
}

func flagsOf(t Type) Flags {
	return Flags{
		Ancillary:  t.Ancillary(),
		Private:    t.Private(),
		Reserved:   t.Reserved(),
		SafeToCopy: t.SafeToCopy(),
	}
}
