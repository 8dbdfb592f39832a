package ledfile

import (
	"testing"

	"github.com/powerswitch/led-commander-16-2/internal/logger"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

func newTestCodec(t *testing.T, mode Mode) (*Codec, *test.Hook) {
	t.Helper()
	l, hook := test.NewNullLogger()
	l.SetLevel(logrus.DebugLevel)
	return NewCodec(logger.FromLogrus(l), mode), hook
}

// minimalImage is an all-zero image carrying only the two markers.
func minimalImage() []byte {
	img := make([]byte, FileSize)
	copy(img, magicNumber)
	copy(img[offAcme:], acmeMarker)
	return img
}

func warnings(hook *test.Hook) []string {
	var out []string
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel {
			out = append(out, e.Message)
		}
	}
	return out
}
