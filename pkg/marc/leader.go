package marc

// LeaderLength is the fixed byte length of a MARC21 leader.
const LeaderLength = 24

// MaterialType is the coarse material classification derived from leader
// byte 6 (record type). It selects which length and value constraints
// apply to the 006 and 008 control fields.
type MaterialType string

const (
	// MaterialBK is books, the default when byte 6 maps to nothing else.
	MaterialBK MaterialType = "BK"
	// MaterialCR is continuing resources (serials).
	MaterialCR MaterialType = "CR"
	// MaterialCF is computer files.
	MaterialCF MaterialType = "CF"
	// MaterialMP is cartographic material.
	MaterialMP MaterialType = "MP"
	// MaterialMU is music (notated and recorded).
	MaterialMU MaterialType = "MU"
	// MaterialVM is visual material.
	MaterialVM MaterialType = "VM"
	// MaterialMM is mixed material.
	MaterialMM MaterialType = "MM"
)

// Leader is the first 24 bytes of a MARC21 record. Byte positions 0-23
// carry fixed-position metadata; byte 6 is the record type and byte 7 the
// bibliographic level.
type Leader string

// MaterialType derives the material classification from bytes 6 and 7.
// Leaders shorter than 8 bytes carry no usable record type and return "".
// Every record type not mapped by the MARC21 standard falls back to BK.
func (l Leader) MaterialType() MaterialType {
	if len(l) < 8 {
		return ""
	}
	recordType := l[6]
	if recordType == 'a' {
		switch l[7] {
		case 'b', 'i', 's':
			return MaterialCR
		}
		return MaterialBK
	}
	switch recordType {
	case 'c', 'd', 'i', 'j':
		return MaterialMU
	case 'e', 'f':
		return MaterialMP
	case 'g', 'k', 'o', 'r':
		return MaterialVM
	case 'm':
		return MaterialCF
	case 'p':
		return MaterialMM
	}
	return MaterialBK
}

// String returns the leader as a plain string.
func (l Leader) String() string {
	return string(l)
}
