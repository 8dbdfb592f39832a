package ledfile

const (
	// Fixtures - количество приборов на пульте.
	Fixtures = 16

	// Channels - количество каналов на прибор.
	Channels = 10

	StaticScenes = 16
	ChaseSteps   = 2000

	cells       = Fixtures * Channels
	bitmapBytes = cells / 8

	// SceneSize is the on-disk size of one scene record.
	SceneSize = cells + bitmapBytes + 2 + 1 + 1
)

// Scene is a snapshot of all fixture channel values. Static scenes and chase
// steps share this layout.
type Scene struct {
	Values [Fixtures][Channels]byte

	// Active marks cells whose value is part of the scene. Values of inactive
	// cells are kept as stored.
	Active [Fixtures][Channels]bool

	// FlagsA, ValueCount and FlagsB are unconfirmed. ValueCount was observed
	// to follow the number of active cells.
	FlagsA     [2]byte
	ValueCount byte
	FlagsB     byte
}

// IsPopulated reports whether any cell of the scene is active.
func (s *Scene) IsPopulated() bool {
	for f := range s.Active {
		for c := range s.Active[f] {
			if s.Active[f][c] {
				return true
			}
		}
	}
	return false
}

func (s *Scene) ActiveCount() int {
	n := 0
	for f := range s.Active {
		for c := range s.Active[f] {
			if s.Active[f][c] {
				n++
			}
		}
	}
	return n
}

func decodeScene(r *reader, s *Scene) error {
	buf, err := r.readExact(SceneSize)
	if err != nil {
		return err
	}
	for i := 0; i < cells; i++ {
		s.Values[i/Channels][i%Channels] = buf[i]
	}
	bitmap := buf[cells : cells+bitmapBytes]
	for i := 0; i < cells; i++ {
		s.Active[i/Channels][i%Channels] = bitmap[i/8]&(1<<(i%8)) != 0
	}
	tail := buf[cells+bitmapBytes:]
	copy(s.FlagsA[:], tail[0:2])
	s.ValueCount = tail[2]
	s.FlagsB = tail[3]
	return nil
}

func encodeScene(w *writer, s *Scene) {
	buf := make([]byte, SceneSize)
	for i := 0; i < cells; i++ {
		buf[i] = s.Values[i/Channels][i%Channels]
	}
	bitmap := buf[cells : cells+bitmapBytes]
	for i := 0; i < cells; i++ {
		if s.Active[i/Channels][i%Channels] {
			bitmap[i/8] |= 1 << (i % 8)
		}
	}
	tail := buf[cells+bitmapBytes:]
	copy(tail[0:2], s.FlagsA[:])
	tail[2] = s.ValueCount
	tail[3] = s.FlagsB
	w.writeExact(buf)
}
