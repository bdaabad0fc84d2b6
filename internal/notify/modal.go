package notify

// Modal is a blocking message that must be acknowledged. It is used where
// there is no dialog to report into and a toast is too easy to miss.
type Modal struct {
	Visible bool
	Header  string
	Message string
	Kind    Kind
}

// Show replaces the modal content and makes it visible.
func (m *Modal) Show(header, message string, kind Kind) {
	*m = Modal{Visible: true, Header: header, Message: message, Kind: kind}
}

// Hide dismisses the modal
func (m *Modal) Hide() {
	*m = Modal{}
}
