//go:build !cgo

package gomidi

// Input is an open MIDI input port. Without cgo there is no MIDI driver, so
// no Input can be opened.
type Input struct{}

func Inputs() ([]string, error) {
	return nil, ErrNoMIDI
}

func OpenInput(namePrefix string, c *Controller) (*Input, error) {
	return nil, ErrNoMIDI
}

func (i *Input) String() string { return "" }

func (i *Input) Close() error { return nil }
