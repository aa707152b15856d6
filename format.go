package mpv

// Format represents the data formats of the mpv client API,
// used as the discriminant of mpv_node and for options and properties.
type Format int32

const (
	FormatNone      Format = 0 // FormatNone is used to represent invalid or empty values.
	FormatString    Format = 1 // FormatString is used for string values
	FormatOsdString Format = 2 // FormatOsdString is used for OSD string values
	FormatFlag      Format = 3 // FormatFlag is used for boolean values
	FormatInt64     Format = 4 // FormatInt64 is used for integer values
	FormatDouble    Format = 5 // FormatDouble is used for floating point values
	FormatNode      Format = 6 // FormatNode is used for mpv_node values
	FormatNodeArray Format = 7 // FormatNodeArray is used for node lists
	FormatNodeMap   Format = 8 // FormatNodeMap is used for node maps
	FormatByteArray Format = 9 // FormatByteArray is used for byte array values
)

var formatNames = [...]string{
	"none",
	"string",
	"osd-string",
	"flag",
	"int64",
	"double",
	"node",
	"node-array",
	"node-map",
	"byte-array",
}

// String returns the name used by mpv for the format.
func (f Format) String() string {
	if f < 0 || int(f) >= len(formatNames) {
		return "unknown"
	}
	return formatNames[f]
}

// Valid reports whether f is a format known to the client API.
func (f Format) Valid() bool {
	return f >= FormatNone && f <= FormatByteArray
}

// InNode reports whether f may appear as the format of an mpv_node.
// OSD strings and nested FormatNode are only valid at the API surface.
func (f Format) InNode() bool {
	switch f {
	case FormatNone, FormatString, FormatFlag, FormatInt64, FormatDouble,
		FormatNodeArray, FormatNodeMap, FormatByteArray:
		return true
	}
	return false
}
