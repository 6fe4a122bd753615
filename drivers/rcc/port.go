package rcc

// Port is raw access to the clock-tree registers. The production port is
// memory-mapped (port_mmio.go); host builds and tests use rccsim.
type Port interface {
	Read(r Register) uint32
	Write(r Register, v uint32)
}

// ReadField reads one field.
func ReadField(p Port, f Field) uint32 {
	return f.Get(p.Read(f.Reg))
}

// IsSet reports whether a single-bit field reads 1.
func IsSet(p Port, f Field) bool { return ReadField(p, f) != 0 }

// Update performs one read-modify-write of r applying every assignment.
// Assignments for other registers are ignored.
func Update(p Port, r Register, vals ...FieldValue) {
	v := p.Read(r)
	for _, fv := range vals {
		if fv.Field.Reg != r {
			continue
		}
		v = fv.Field.Put(v, fv.Value)
	}
	p.Write(r, v)
}
