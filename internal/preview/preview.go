// Package preview turns a stored scene into the DMX output it describes,
// using the console's patch.
package preview

import (
	"fmt"

	"github.com/powerswitch/led-commander-16-2/internal/ledfile"
)

// Universe wraps the 512 byte array for convenience.
type Universe [ledfile.DMXChannels]byte

// DMXCommand sets one DMX channel (0-511) to a value.
type DMXCommand struct {
	Channel uint16 // Channel is the channel a command can talk to (0-511).
	Value   uint8  // Value is the value a DMX channel can represent (0-255).
}

// Frame is a rendered scene ready to be sent.
type Frame struct {
	Label    string
	Universe Universe
}

// Commands returns the patched, non-zero channels of the frame.
func (f Frame) Commands() []DMXCommand {
	var out []DMXCommand
	for ch, v := range f.Universe {
		if v != 0 {
			out = append(out, DMXCommand{Channel: uint16(ch), Value: v})
		}
	}
	return out
}

// Selector picks a scene out of a configuration.
type Selector struct {
	Static bool
	Index  int // 0-indexed
}

// Static selects static scene n (1-indexed).
func Static(n int) Selector { return Selector{Static: true, Index: n - 1} }

// Step selects chase step n (1-indexed).
func Step(n int) Selector { return Selector{Index: n - 1} }

func (s Selector) String() string {
	if s.Static {
		return fmt.Sprintf("scene-%d", s.Index+1)
	}
	return fmt.Sprintf("step-%d", s.Index+1)
}

// Scene returns the selected scene of f.
func (s Selector) Scene(f *ledfile.File) (*ledfile.Scene, error) {
	if s.Static {
		if s.Index < 0 || s.Index >= ledfile.StaticScenes {
			return nil, fmt.Errorf("scene %d out of range 1-%d", s.Index+1, ledfile.StaticScenes)
		}
		return &f.StaticScenes[s.Index], nil
	}
	if s.Index < 0 || s.Index >= ledfile.ChaseSteps {
		return nil, fmt.Errorf("chase step %d out of range 1-%d", s.Index+1, ledfile.ChaseSteps)
	}
	return &f.ChaseSteps[s.Index], nil
}

// Render maps every active cell of the selected scene onto all DMX addresses
// patched to it. Aux, unassigned and inactive addresses stay at 0.
func Render(f *ledfile.File, sel Selector) (Frame, error) {
	scene, err := sel.Scene(f)
	if err != nil {
		return Frame{}, err
	}
	frame := Frame{Label: sel.String()}
	for addr, a := range f.Patch {
		if a.Kind != ledfile.FixtureChannel {
			continue
		}
		fx, ch := int(a.Fixture), int(a.Channel)
		if fx >= ledfile.Fixtures || ch >= ledfile.Channels {
			continue
		}
		if scene.Active[fx][ch] {
			frame.Universe[addr] = scene.Values[fx][ch]
		}
	}
	return frame, nil
}
