package config

//go:generate go tool go-enum --marshal --names

// What happens to a tag whose body reader runs past its declared length.
// ENUM(discard, keep)
type OverrunMode int

// Output format of the dump command.
// ENUM(text, yaml, cbor)
type DumpFormat int

// Ext returns file name extension used when dumps are stored in a report.
func (f DumpFormat) Ext() string {
	switch f {
	case DumpFormatYaml:
		return ".yaml"
	case DumpFormatCbor:
		return ".cbor"
	default:
		return ".txt"
	}
}
