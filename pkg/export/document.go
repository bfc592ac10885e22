package export

// Document is a printable attendance sheet: heading lines, one table and an optional signature footer.
type Document struct {
	Title     string
	Subtitles []string
	Headers   []string
	Rows      [][]string
	// ColumnWidths in millimetres for PDF output; zero means distribute evenly.
	ColumnWidths []float64
	Landscape    bool
	Signatures   *Signatures
}

// Signatures holds the headmaster (left) and class teacher (right) blocks.
type Signatures struct {
	Left  SignatureBlock
	Right SignatureBlock
}

// SignatureBlock is rendered as heading lines, blank space, the name in brackets and an NIP line.
type SignatureBlock struct {
	Heading []string
	Name    string
	NIP     string
}

// NamePlaceholder and NIPPlaceholder fill the blocks when the class carries no metadata.
const (
	NamePlaceholder = "______________________"
	NIPPlaceholder  = "...................."
)

// DisplayName returns the bracketed name line.
func (b SignatureBlock) DisplayName() string {
	if b.Name == "" {
		return "( " + NamePlaceholder + " )"
	}
	return "( " + b.Name + " )"
}

// DisplayNIP returns the NIP line.
func (b SignatureBlock) DisplayNIP() string {
	if b.NIP == "" {
		return "NIP. " + NIPPlaceholder
	}
	return "NIP. " + b.NIP
}

func (d Document) validate(kind string) error {
	if len(d.Headers) == 0 {
		return errNoHeaders(kind)
	}
	return nil
}
